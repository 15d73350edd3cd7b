package handler

import (
	"context"
)

// ══════════════════════════════════════════════════════════════════════════════
// HELP HANDLER
// Handles /help and /start - lists the available commands.
// ══════════════════════════════════════════════════════════════════════════════

const helpText = `📓 e-Okul Not Defteri

Komutlar:
/ders_ekle <kod> <ad> [kredi] - Ders kataloğuna ders ekler
/ogrenci_ekle <no> <ad> <sınıf> - Öğrenci kaydeder
/not_gir <no> <ders_kodu> <s1> <s2> <proje> - Not girer (-1 = boş bırak)
/karne <no> - Öğrencinin karnesini gösterir
/disa_aktar - Not defterini xlsx olarak dışa aktarır (yönetici)
/help - Bu mesajı gösterir

Boşluk içeren adları tırnak içine alın: "Ayşe Yılmaz"`

// HelpHandler handles the /help command.
type HelpHandler struct{}

// NewHelpHandler creates a new HelpHandler.
func NewHelpHandler() *HelpHandler {
	return &HelpHandler{}
}

// Handle processes the /help command.
func (h *HelpHandler) Handle(ctx context.Context, cmdCtx CommandContext) error {
	_, err := cmdCtx.Client.SendText(ctx, cmdCtx.ChatID, helpText)
	return err
}
