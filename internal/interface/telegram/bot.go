// Package telegram implements the Telegram interface of the gradebook bot.
// It wires incoming updates to the application layer and manages the bot
// lifecycle.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/eokul-hub/eokul-gradebook-bot/internal/application/command"
	"github.com/eokul-hub/eokul-gradebook-bot/internal/application/query"
	"github.com/eokul-hub/eokul-gradebook-bot/internal/infrastructure/external/telegram"
	"github.com/eokul-hub/eokul-gradebook-bot/internal/interface/telegram/handler"
	"github.com/eokul-hub/eokul-gradebook-bot/internal/interface/telegram/middleware"
	"github.com/eokul-hub/eokul-gradebook-bot/internal/interface/telegram/presenter"
)

// ══════════════════════════════════════════════════════════════════════════════
// BOT CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// BotConfig contains configuration for the Telegram bot.
type BotConfig struct {
	// Token is the Telegram Bot API token.
	Token string

	// PollingTimeout is the timeout for long polling (in seconds).
	PollingTimeout int

	// AdminIDs are the Telegram IDs allowed to run admin commands.
	AdminIDs []int64

	// MaxConcurrentUpdates limits concurrent update processing.
	MaxConcurrentUpdates int

	// GracefulShutdownTimeout bounds the wait for in-flight updates on stop.
	GracefulShutdownTimeout time.Duration

	// Debug enables debug logging.
	Debug bool

	// Logger for structured logging.
	Logger *slog.Logger
}

// DefaultBotConfig returns sensible defaults.
func DefaultBotConfig(token string) BotConfig {
	return BotConfig{
		Token:                   token,
		PollingTimeout:          30,
		MaxConcurrentUpdates:    20,
		GracefulShutdownTimeout: 15 * time.Second,
	}
}

// BotDependencies contains the application-layer dependencies of the bot.
type BotDependencies struct {
	AddCourseCmd     *command.AddCourseHandler
	EnrollStudentCmd *command.EnrollStudentHandler
	RecordGradesCmd  *command.RecordGradesHandler
	ExportCmd        *command.ExportGradebookHandler

	ReportCardQuery *query.GetReportCardHandler
}

// ══════════════════════════════════════════════════════════════════════════════
// BOT
// ══════════════════════════════════════════════════════════════════════════════

// Bot is the Telegram bot controller.
type Bot struct {
	config BotConfig
	client *telegram.Client
	router *Router
	logger *slog.Logger

	recovery    *middleware.RecoveryMiddleware
	rateLimiter *middleware.RateLimiter
	adminGate   *middleware.AdminGate

	running   bool
	runningMu sync.Mutex
	updateSem chan struct{}
	wg        sync.WaitGroup
}

// NewBot creates and wires a new Bot.
func NewBot(config BotConfig, deps BotDependencies) (*Bot, error) {
	if config.Token == "" {
		return nil, errors.New("telegram bot token is required")
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.PollingTimeout <= 0 {
		config.PollingTimeout = 30
	}
	if config.MaxConcurrentUpdates <= 0 {
		config.MaxConcurrentUpdates = 20
	}
	if config.GracefulShutdownTimeout <= 0 {
		config.GracefulShutdownTimeout = 15 * time.Second
	}

	clientConfig := telegram.DefaultClientConfig(config.Token)
	clientConfig.PollingTimeout = config.PollingTimeout
	clientConfig.Logger = config.Logger
	clientConfig.Debug = config.Debug
	client := telegram.NewClient(clientConfig)

	bot := &Bot{
		config:    config,
		client:    client,
		logger:    config.Logger,
		updateSem: make(chan struct{}, config.MaxConcurrentUpdates),
	}

	bot.recovery = middleware.NewRecoveryMiddleware(middleware.RecoveryConfig{Logger: config.Logger})

	rlConfig := middleware.DefaultRateLimitConfig()
	rlConfig.Logger = config.Logger
	for _, id := range config.AdminIDs {
		rlConfig.WhitelistedUsers[id] = true
	}
	bot.rateLimiter = middleware.NewRateLimiter(rlConfig)

	bot.adminGate = middleware.NewAdminGate(config.AdminIDs, config.Logger)

	bot.router = NewRouter(RouterConfig{Logger: config.Logger, Debug: config.Debug})
	bot.registerHandlers(deps)

	return bot, nil
}

// registerHandlers builds the command table.
func (b *Bot) registerHandlers(deps BotDependencies) {
	reportPresenter := presenter.NewReportCardPresenter()

	wrap := func(h handler.CommandHandler) handler.CommandHandler {
		return b.recovery.Wrap(b.rateLimiter.Wrap(h))
	}

	helpHandler := wrap(handler.NewHelpHandler())
	b.router.Register("help", helpHandler)
	b.router.Register("start", helpHandler)

	b.router.Register("karne", wrap(handler.NewReportHandler(deps.ReportCardQuery, reportPresenter)))

	// Mutating commands and the export sit behind the admin gate; the gate
	// is open when no admin IDs are configured.
	gated := func(h handler.CommandHandler) handler.CommandHandler {
		return wrap(b.adminGate.Wrap(h))
	}
	b.router.Register("ders_ekle", gated(handler.NewAddCourseHandler(deps.AddCourseCmd)))
	b.router.Register("ogrenci_ekle", gated(handler.NewAddStudentHandler(deps.EnrollStudentCmd)))
	b.router.Register("not_gir", gated(handler.NewGradeHandler(deps.RecordGradesCmd)))
	b.router.Register("disa_aktar", gated(handler.NewExportHandler(deps.ExportCmd)))
}

// Start verifies the token and runs the polling loop until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	b.runningMu.Lock()
	if b.running {
		b.runningMu.Unlock()
		return errors.New("bot already running")
	}
	b.running = true
	b.runningMu.Unlock()

	me, err := b.client.GetMe(ctx)
	if err != nil {
		return fmt.Errorf("bot start: %w", err)
	}
	b.logger.Info("bot authorized", "username", me.Username, "bot_id", me.ID)

	err = b.client.StartPolling(ctx, b.handleUpdate)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Stop waits for in-flight updates and releases resources.
func (b *Bot) Stop() {
	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(b.config.GracefulShutdownTimeout):
		b.logger.Warn("shutdown timeout, abandoning in-flight updates")
	}

	b.rateLimiter.Stop()

	b.runningMu.Lock()
	b.running = false
	b.runningMu.Unlock()

	b.logger.Info("bot stopped")
}

// handleUpdate dispatches one update, bounded by the concurrency semaphore.
func (b *Bot) handleUpdate(ctx context.Context, update *telegram.Update) error {
	message := update.Message
	if message == nil || message.Chat == nil || !message.IsCommand() {
		return nil
	}

	commandName, args := parseCommand(message.Text)
	if commandName == "" {
		return nil
	}

	select {
	case b.updateSem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer func() { <-b.updateSem }()

		cmdCtx := handler.CommandContext{
			ChatID:    message.Chat.ID,
			MessageID: message.MessageID,
			Command:   commandName,
			Args:      args,
			Message:   message,
			Client:    b.client,
		}
		if message.From != nil {
			cmdCtx.TelegramID = message.From.ID
		}

		if err := b.router.Dispatch(ctx, cmdCtx); err != nil {
			b.logger.Error("command failed",
				"command", commandName,
				"telegram_id", cmdCtx.TelegramID,
				"error", err,
			)
		}
	}()

	return nil
}
