package middleware

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/eokul-hub/eokul-gradebook-bot/internal/interface/telegram/handler"
)

// ══════════════════════════════════════════════════════════════════════════════
// RATE LIMITER MIDDLEWARE
// Per-user token bucket. Teachers entering a term's worth of grades get a
// generous burst; sustained spam gets silently slowed down.
// ══════════════════════════════════════════════════════════════════════════════

// RateLimitConfig holds configuration for the rate limiter.
type RateLimitConfig struct {
	// RequestsPerMinute is the sustained allowance per user.
	RequestsPerMinute int

	// BurstSize is the bucket capacity.
	BurstSize int

	// CleanupInterval is how often idle buckets are dropped.
	CleanupInterval time.Duration

	// WhitelistedUsers are exempt from rate limiting (e.g., admins).
	WhitelistedUsers map[int64]bool

	// LimitedMessage is sent once when a user first hits the limit.
	LimitedMessage string

	// Logger for structured logging.
	Logger *slog.Logger
}

// DefaultRateLimitConfig returns sensible defaults.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerMinute: 30,
		BurstSize:         10,
		CleanupInterval:   5 * time.Minute,
		WhitelistedUsers:  make(map[int64]bool),
		LimitedMessage:    "⏳ Çok fazla istek gönderdiniz, lütfen biraz bekleyin.",
	}
}

// tokenBucket tracks one user's allowance.
type tokenBucket struct {
	mu       sync.Mutex
	tokens   float64
	lastFill time.Time
	notified bool
}

// RateLimiter implements per-user token bucket rate limiting.
type RateLimiter struct {
	config  RateLimitConfig
	buckets sync.Map // map[int64]*tokenBucket
	logger  *slog.Logger

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewRateLimiter creates a new RateLimiter and starts its cleanup loop.
func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	defaults := DefaultRateLimitConfig()
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = defaults.RequestsPerMinute
	}
	if config.BurstSize <= 0 {
		config.BurstSize = defaults.BurstSize
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = defaults.CleanupInterval
	}
	if config.LimitedMessage == "" {
		config.LimitedMessage = defaults.LimitedMessage
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	rl := &RateLimiter{
		config: config,
		logger: config.Logger,
		stopCh: make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

// Allow reports whether the user may proceed, debiting one token.
// The second return value is true when the refusal message should be sent.
func (rl *RateLimiter) Allow(telegramID int64) (allowed, notify bool) {
	if rl.config.WhitelistedUsers[telegramID] {
		return true, false
	}

	v, _ := rl.buckets.LoadOrStore(telegramID, &tokenBucket{
		tokens:   float64(rl.config.BurstSize),
		lastFill: time.Now(),
	})
	bucket := v.(*tokenBucket)

	bucket.mu.Lock()
	defer bucket.mu.Unlock()

	now := time.Now()
	refill := now.Sub(bucket.lastFill).Minutes() * float64(rl.config.RequestsPerMinute)
	bucket.tokens += refill
	if bucket.tokens > float64(rl.config.BurstSize) {
		bucket.tokens = float64(rl.config.BurstSize)
	}
	bucket.lastFill = now

	if bucket.tokens < 1 {
		notify = !bucket.notified
		bucket.notified = true
		return false, notify
	}

	bucket.tokens--
	bucket.notified = false
	return true, false
}

// Wrap returns a handler that rate limits next per user.
func (rl *RateLimiter) Wrap(next handler.CommandHandler) handler.CommandHandler {
	return handler.CommandHandlerFunc(func(ctx context.Context, cmdCtx handler.CommandContext) error {
		allowed, notify := rl.Allow(cmdCtx.TelegramID)
		if allowed {
			return next.Handle(ctx, cmdCtx)
		}

		rl.logger.Debug("rate limited", "telegram_id", cmdCtx.TelegramID, "command", cmdCtx.Command)
		if notify && cmdCtx.Client != nil {
			_, err := cmdCtx.Client.SendText(ctx, cmdCtx.ChatID, rl.config.LimitedMessage)
			return err
		}
		return nil
	})
}

// Stop ends the cleanup loop.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

// cleanupLoop drops buckets that have refilled completely.
func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stopCh:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-rl.config.CleanupInterval)
			rl.buckets.Range(func(key, value interface{}) bool {
				bucket := value.(*tokenBucket)
				bucket.mu.Lock()
				idle := bucket.lastFill.Before(cutoff)
				bucket.mu.Unlock()
				if idle {
					rl.buckets.Delete(key)
				}
				return true
			})
		}
	}
}
