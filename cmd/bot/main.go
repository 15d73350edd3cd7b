// Package main - e-Okul not defteri botunun giriş noktası.
//
// Mimari, Clean Architecture ve DDD ilkelerini izler:
// - Domain: dış bağımlılığı olmayan saf not defteri kuralları
// - Application: use case orkestrasyonu (Commands/Queries)
// - Infrastructure: JSON dosya deposu, Redis önbelleği, xlsx dışa aktarımı
// - Interface: Telegram komutları, sağlık uçları
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/eokul-hub/eokul-gradebook-bot/config"
	"github.com/eokul-hub/eokul-gradebook-bot/internal/application/command"
	"github.com/eokul-hub/eokul-gradebook-bot/internal/application/eventhandler"
	"github.com/eokul-hub/eokul-gradebook-bot/internal/application/query"
	"github.com/eokul-hub/eokul-gradebook-bot/internal/infrastructure/export"
	"github.com/eokul-hub/eokul-gradebook-bot/internal/infrastructure/messaging"
	"github.com/eokul-hub/eokul-gradebook-bot/internal/infrastructure/persistence/jsonfile"
	"github.com/eokul-hub/eokul-gradebook-bot/internal/infrastructure/persistence/redis"
	httpserver "github.com/eokul-hub/eokul-gradebook-bot/internal/interface/http"
	"github.com/eokul-hub/eokul-gradebook-bot/internal/interface/telegram"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. KONFİGÜRASYON
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. LOGLAMA
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)
	log.Info("starting e-okul gradebook bot",
		"env", cfg.App.Environment,
		"version", cfg.App.Version,
		"debug", cfg.App.Debug,
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. NOT DEFTERİ DEPOSU (JSON dosyası)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("opening gradebook document", "path", cfg.Storage.DataFile)
	store, err := jsonfile.Open(cfg.Storage.DataFile, log)
	if err != nil {
		return fmt.Errorf("failed to open gradebook document: %w", err)
	}
	log.Info("gradebook document ready")

	// ─────────────────────────────────────────────────────────────────────────
	// 4. REDIS ÖNBELLEĞİ (isteğe bağlı)
	// ─────────────────────────────────────────────────────────────────────────
	var reportCache *redis.ReportCardCache
	if !cfg.Redis.Disabled {
		log.Info("connecting to Redis", "host", cfg.Redis.Host, "port", cfg.Redis.Port)
		cacheConfig := redis.Config{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
			TTL:          cfg.Redis.CacheTTL,
		}
		reportCache = redis.NewReportCardCache(cacheConfig)
		if err := reportCache.Ping(ctx); err != nil {
			log.Warn("Redis unreachable, report card caching disabled", "error", err)
			_ = reportCache.Close()
			reportCache = nil
		} else {
			defer func() { _ = reportCache.Close() }()
			log.Info("Redis connection established")
		}
	} else {
		log.Info("Redis disabled, report cards rebuilt on every request")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. EVENT BUS
	// ─────────────────────────────────────────────────────────────────────────
	busConfig := messaging.DefaultConfig()
	busConfig.Logger = log
	busConfig.AsyncMode = true
	eventBus := messaging.NewInMemoryEventBus(busConfig)
	defer func() {
		log.Info("closing event bus")
		_ = eventBus.Close()
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 6. EVENT HANDLERS
	// ─────────────────────────────────────────────────────────────────────────
	if reportCache != nil {
		invalidation := eventhandler.NewOnGradebookChangedHandler(reportCache, log)
		if err := invalidation.Register(eventBus); err != nil {
			return fmt.Errorf("failed to register event handlers: %w", err)
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 7. APPLICATION LAYER
	// ─────────────────────────────────────────────────────────────────────────
	exporter := export.NewExporter(cfg.Export.Dir, log)

	addCourseCmd := command.NewAddCourseHandler(store, eventBus, log)
	enrollStudentCmd := command.NewEnrollStudentHandler(store, eventBus, log)
	recordGradesCmd := command.NewRecordGradesHandler(store, eventBus, log)
	exportCmd := command.NewExportGradebookHandler(store, exporter, eventBus, log)

	// A nil interface for the cache when Redis is off; the handler skips it.
	var cachePort query.ReportCardCache
	if reportCache != nil {
		cachePort = reportCache
	}
	reportCardQuery := query.NewGetReportCardHandler(store, cachePort, log)

	// ─────────────────────────────────────────────────────────────────────────
	// 8. TELEGRAM BOT
	// ─────────────────────────────────────────────────────────────────────────
	botConfig := telegram.DefaultBotConfig(cfg.Telegram.Token)
	botConfig.PollingTimeout = cfg.Telegram.PollingTimeout
	botConfig.AdminIDs = cfg.Telegram.AdminIDs
	botConfig.MaxConcurrentUpdates = cfg.Telegram.MaxConcurrentUpdates
	botConfig.Debug = cfg.App.Debug
	botConfig.Logger = log

	bot, err := telegram.NewBot(botConfig, telegram.BotDependencies{
		AddCourseCmd:     addCourseCmd,
		EnrollStudentCmd: enrollStudentCmd,
		RecordGradesCmd:  recordGradesCmd,
		ExportCmd:        exportCmd,
		ReportCardQuery:  reportCardQuery,
	})
	if err != nil {
		return fmt.Errorf("failed to create bot: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 9. HTTP SAĞLIK SUNUCUSU
	// ─────────────────────────────────────────────────────────────────────────
	httpConfig := httpserver.DefaultConfig()
	httpConfig.Host = cfg.Observability.HealthHost
	httpConfig.Port = cfg.Observability.HealthPort
	httpConfig.Logger = log

	healthServer := httpserver.NewServer(httpConfig)
	healthServer.AddCheck("gradebook", store.Check)
	if reportCache != nil {
		healthServer.AddCheck("redis", reportCache.Ping)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 10. SERVİSLERİ BAŞLAT
	// ─────────────────────────────────────────────────────────────────────────
	errCh := make(chan error, 2)

	go func() {
		if err := healthServer.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	botCtx, botCancel := context.WithCancel(ctx)
	defer botCancel()
	go func() {
		if err := bot.Start(botCtx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- fmt.Errorf("telegram bot error: %w", err)
		}
	}()

	log.Info("e-okul gradebook bot is running",
		"health_address", httpConfig.Address(),
		"data_file", store.Path(),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 11. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		log.Error("service error", "error", err)
		return err
	case <-ctx.Done():
	}

	log.Info("starting graceful shutdown", "timeout", cfg.App.ShutdownTimeout.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	botCancel()
	bot.Stop()

	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop http server gracefully", "error", err)
		return err
	}

	log.Info("shutdown complete")
	return nil
}

// setupLogger builds the process-wide slog logger from the configuration.
func setupLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	switch cfg.Observability.LogLevel {
	case "debug":
		opts.Level = slog.LevelDebug
	case "warn":
		opts.Level = slog.LevelWarn
	case "error":
		opts.Level = slog.LevelError
	}
	if cfg.App.Debug {
		opts.Level = slog.LevelDebug
	}

	var handler slog.Handler
	if cfg.Observability.LogFormat == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	log := slog.New(handler)
	slog.SetDefault(log)
	return log
}
