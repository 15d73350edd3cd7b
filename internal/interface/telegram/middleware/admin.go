package middleware

import (
	"context"
	"log/slog"

	"github.com/eokul-hub/eokul-gradebook-bot/internal/interface/telegram/handler"
)

// ══════════════════════════════════════════════════════════════════════════════
// ADMIN MIDDLEWARE
// Gates destructive or expensive commands (e.g. /disa_aktar) behind the
// configured list of administrator Telegram IDs. An empty list means the
// gate is open, which keeps single-teacher deployments zero-config.
// ══════════════════════════════════════════════════════════════════════════════

// AdminGate restricts wrapped commands to configured admins.
type AdminGate struct {
	adminIDs map[int64]bool
	logger   *slog.Logger

	// DeniedMessage is sent to non-admins.
	DeniedMessage string
}

// NewAdminGate creates a new AdminGate from the configured ID list.
func NewAdminGate(adminIDs []int64, logger *slog.Logger) *AdminGate {
	if logger == nil {
		logger = slog.Default()
	}
	ids := make(map[int64]bool, len(adminIDs))
	for _, id := range adminIDs {
		ids[id] = true
	}
	return &AdminGate{
		adminIDs:      ids,
		logger:        logger,
		DeniedMessage: "⛔ Bu komutu yalnızca yöneticiler kullanabilir.",
	}
}

// IsAdmin reports whether the user passes the gate.
func (g *AdminGate) IsAdmin(telegramID int64) bool {
	if len(g.adminIDs) == 0 {
		return true
	}
	return g.adminIDs[telegramID]
}

// Wrap returns a handler that rejects non-admins before calling next.
func (g *AdminGate) Wrap(next handler.CommandHandler) handler.CommandHandler {
	return handler.CommandHandlerFunc(func(ctx context.Context, cmdCtx handler.CommandContext) error {
		if !g.IsAdmin(cmdCtx.TelegramID) {
			g.logger.Info("admin command denied",
				"command", cmdCtx.Command,
				"telegram_id", cmdCtx.TelegramID,
			)
			_, err := cmdCtx.Client.SendText(ctx, cmdCtx.ChatID, g.DeniedMessage)
			return err
		}
		return next.Handle(ctx, cmdCtx)
	})
}
