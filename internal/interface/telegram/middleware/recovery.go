// Package middleware contains Telegram bot middlewares for request processing.
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/eokul-hub/eokul-gradebook-bot/internal/interface/telegram/handler"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECOVERY MIDDLEWARE
// Catches panics in handlers so one broken command cannot take the bot down.
// The user gets a short apology; the stack goes to the log.
// ══════════════════════════════════════════════════════════════════════════════

// RecoveryConfig holds configuration for the recovery middleware.
type RecoveryConfig struct {
	// UserErrorMessage is the message sent to users when a panic occurs.
	UserErrorMessage string

	// Logger for structured logging.
	Logger *slog.Logger
}

// DefaultRecoveryConfig returns sensible defaults.
func DefaultRecoveryConfig() RecoveryConfig {
	return RecoveryConfig{
		UserErrorMessage: "😔 Bir şeyler ters gitti. Lütfen birazdan tekrar deneyin.",
	}
}

// RecoveryMiddleware wraps command handlers with panic recovery.
type RecoveryMiddleware struct {
	config RecoveryConfig
	logger *slog.Logger
}

// NewRecoveryMiddleware creates a new RecoveryMiddleware.
func NewRecoveryMiddleware(config RecoveryConfig) *RecoveryMiddleware {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.UserErrorMessage == "" {
		config.UserErrorMessage = DefaultRecoveryConfig().UserErrorMessage
	}
	return &RecoveryMiddleware{
		config: config,
		logger: config.Logger,
	}
}

// Wrap returns a handler that recovers from panics in next.
func (m *RecoveryMiddleware) Wrap(next handler.CommandHandler) handler.CommandHandler {
	return handler.CommandHandlerFunc(func(ctx context.Context, cmdCtx handler.CommandContext) (err error) {
		defer func() {
			if r := recover(); r != nil {
				m.logger.Error("panic in command handler",
					"command", cmdCtx.Command,
					"telegram_id", cmdCtx.TelegramID,
					"panic", r,
					"stack", string(debug.Stack()),
				)
				if cmdCtx.Client != nil {
					if _, sendErr := cmdCtx.Client.SendText(ctx, cmdCtx.ChatID, m.config.UserErrorMessage); sendErr != nil {
						m.logger.Warn("failed to send panic apology", "error", sendErr)
					}
				}
				err = fmt.Errorf("panic in /%s handler: %v", cmdCtx.Command, r)
			}
		}()
		return next.Handle(ctx, cmdCtx)
	})
}
