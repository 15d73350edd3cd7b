package handler

import (
	"context"
	"fmt"
	"strconv"

	"github.com/eokul-hub/eokul-gradebook-bot/internal/application/command"
)

// ══════════════════════════════════════════════════════════════════════════════
// EXPORT HANDLER
// Handles /disa_aktar - exports the whole gradebook to an xlsx workbook and
// sends it back as a document. Admin only (enforced by middleware).
// ══════════════════════════════════════════════════════════════════════════════

// ExportHandler handles the /disa_aktar command.
type ExportHandler struct {
	exportCmd *command.ExportGradebookHandler
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(exportCmd *command.ExportGradebookHandler) *ExportHandler {
	return &ExportHandler{exportCmd: exportCmd}
}

// Handle processes the /disa_aktar command.
func (h *ExportHandler) Handle(ctx context.Context, cmdCtx CommandContext) error {
	if _, err := cmdCtx.Client.SendText(ctx, cmdCtx.ChatID, "⏳ Not defteri dışa aktarılıyor..."); err != nil {
		return err
	}

	result, err := h.exportCmd.Handle(ctx, command.ExportGradebookCommand{
		RequestedBy: strconv.FormatInt(cmdCtx.TelegramID, 10),
	})
	if err != nil {
		_, sendErr := cmdCtx.Client.SendText(ctx, cmdCtx.ChatID, "🔴 Dışa aktarma başarısız oldu, lütfen tekrar deneyin.")
		if sendErr != nil {
			return sendErr
		}
		return err
	}

	caption := fmt.Sprintf("📊 %d öğrenci, %d ders", result.StudentCount, result.CourseCount)
	_, err = cmdCtx.Client.SendDocument(ctx, cmdCtx.ChatID, result.Path, caption)
	return err
}
