package telegram

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/eokul-hub/eokul-gradebook-bot/internal/interface/telegram/handler"
)

// ══════════════════════════════════════════════════════════════════════════════
// ROUTER
// Routes incoming commands to their handlers by name.
// ══════════════════════════════════════════════════════════════════════════════

// RouterConfig contains configuration for the router.
type RouterConfig struct {
	// Logger for structured logging.
	Logger *slog.Logger

	// Debug enables debug logging for routing decisions.
	Debug bool
}

// Router routes Telegram commands to registered handlers.
type Router struct {
	config RouterConfig
	logger *slog.Logger

	handlersMu sync.RWMutex
	handlers   map[string]handler.CommandHandler

	// unknownHandler runs for commands with no registered handler.
	unknownHandler handler.CommandHandler
}

// NewRouter creates a new router.
func NewRouter(config RouterConfig) *Router {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	r := &Router{
		config:   config,
		logger:   config.Logger,
		handlers: make(map[string]handler.CommandHandler),
	}
	r.unknownHandler = handler.CommandHandlerFunc(r.handleUnknownCommand)
	return r
}

// Register registers a handler for a command. The command is given without
// the leading "/".
func (r *Router) Register(command string, h handler.CommandHandler) {
	r.handlersMu.Lock()
	defer r.handlersMu.Unlock()

	r.handlers[command] = h

	if r.config.Debug {
		r.logger.Debug("registered command handler", "command", command)
	}
}

// SetUnknownHandler overrides the handler for unregistered commands.
func (r *Router) SetUnknownHandler(h handler.CommandHandler) {
	r.unknownHandler = h
}

// Dispatch routes a command to its handler.
func (r *Router) Dispatch(ctx context.Context, cmdCtx handler.CommandContext) error {
	r.handlersMu.RLock()
	h, ok := r.handlers[cmdCtx.Command]
	r.handlersMu.RUnlock()

	if !ok {
		if r.config.Debug {
			r.logger.Debug("no handler for command", "command", cmdCtx.Command)
		}
		return r.unknownHandler.Handle(ctx, cmdCtx)
	}
	return h.Handle(ctx, cmdCtx)
}

// handleUnknownCommand is the default response for unregistered commands.
func (r *Router) handleUnknownCommand(ctx context.Context, cmdCtx handler.CommandContext) error {
	_, err := cmdCtx.Client.SendText(ctx, cmdCtx.ChatID,
		"❓ Bilinmeyen komut. Komut listesi için /help yazın.")
	return err
}

// parseCommand splits a message text into the command name and its raw
// argument string. "/karne@eokul_bot 1001" yields ("karne", "1001").
func parseCommand(text string) (command, args string) {
	if !strings.HasPrefix(text, "/") {
		return "", ""
	}

	rest := text[1:]
	if i := strings.IndexAny(rest, " \t\n"); i >= 0 {
		command = rest[:i]
		args = strings.TrimSpace(rest[i+1:])
	} else {
		command = rest
	}

	// Strip the bot mention suffix used in group chats.
	if i := strings.Index(command, "@"); i >= 0 {
		command = command[:i]
	}
	return command, args
}
