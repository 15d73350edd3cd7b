package middleware

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eokul-hub/eokul-gradebook-bot/internal/interface/telegram/handler"
)

func TestAdminGate(t *testing.T) {
	gate := NewAdminGate([]int64{100, 200}, nil)
	assert.True(t, gate.IsAdmin(100))
	assert.False(t, gate.IsAdmin(300))

	// Empty list keeps the gate open.
	open := NewAdminGate(nil, nil)
	assert.True(t, open.IsAdmin(300))
}

func TestAdminGate_WrapBlocksNonAdmins(t *testing.T) {
	gate := NewAdminGate([]int64{100}, nil)

	calls := 0
	wrapped := gate.Wrap(handler.CommandHandlerFunc(func(_ context.Context, _ handler.CommandContext) error {
		calls++
		return nil
	}))

	err := wrapped.Handle(context.Background(), handler.CommandContext{TelegramID: 100})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRateLimiter_AllowsBurstThenLimits(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{
		RequestsPerMinute: 1,
		BurstSize:         3,
		CleanupInterval:   time.Hour,
	})
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		allowed, _ := rl.Allow(42)
		assert.True(t, allowed, "request %d within burst", i)
	}

	allowed, notify := rl.Allow(42)
	assert.False(t, allowed)
	assert.True(t, notify, "first refusal notifies")

	allowed, notify = rl.Allow(42)
	assert.False(t, allowed)
	assert.False(t, notify, "repeated refusals stay silent")

	// Another user keeps a separate bucket.
	allowed, _ = rl.Allow(43)
	assert.True(t, allowed)
}

func TestRateLimiter_WhitelistBypassesLimit(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{
		RequestsPerMinute: 1,
		BurstSize:         1,
		CleanupInterval:   time.Hour,
		WhitelistedUsers:  map[int64]bool{7: true},
	})
	defer rl.Stop()

	for i := 0; i < 10; i++ {
		allowed, _ := rl.Allow(7)
		assert.True(t, allowed)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	m := NewRecoveryMiddleware(RecoveryConfig{})

	wrapped := m.Wrap(handler.CommandHandlerFunc(func(_ context.Context, _ handler.CommandContext) error {
		panic("boom")
	}))

	err := wrapped.Handle(context.Background(), handler.CommandContext{Command: "karne"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic in /karne handler")
}
