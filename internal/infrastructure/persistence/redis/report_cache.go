// Package redis implements the optional report-card cache. Rendering a
// report card walks every grade record of a student; the cache keeps the
// assembled view model as JSON with a TTL so repeated /karne calls for the
// same student skip the store. The cache is best-effort: every error path
// degrades to a plain store read.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// Config holds Redis connection configuration.
type Config struct {
	// Host is the Redis server hostname.
	Host string

	// Port is the Redis server port.
	Port int

	// Password is the Redis authentication password (empty if no auth).
	Password string

	// DB is the Redis database number (0-15).
	DB int

	// PoolSize is the maximum number of socket connections.
	PoolSize int

	// DialTimeout is the timeout for establishing new connections.
	DialTimeout time.Duration

	// ReadTimeout is the timeout for socket reads.
	ReadTimeout time.Duration

	// WriteTimeout is the timeout for socket writes.
	WriteTimeout time.Duration

	// TTL is how long a cached report card stays valid.
	TTL time.Duration

	// Disabled turns the cache off entirely (development without Redis).
	Disabled bool
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	return Config{
		Host:         "localhost",
		Port:         6379,
		DB:           0,
		PoolSize:     10,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		TTL:          5 * time.Minute,
	}
}

// Addr returns the Redis address in "host:port" format.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ErrCacheMiss is returned when the requested key is not cached.
var ErrCacheMiss = errors.New("cache: key not found")

// PrefixReportCard namespaces report-card keys.
const PrefixReportCard = "reportcard:"

// ══════════════════════════════════════════════════════════════════════════════
// REPORT CARD CACHE
// ══════════════════════════════════════════════════════════════════════════════

// ReportCardCache caches serialized report-card view models per student.
type ReportCardCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReportCardCache creates a cache backed by a new Redis client.
func NewReportCardCache(config Config) *ReportCardCache {
	client := redis.NewClient(&redis.Options{
		Addr:         config.Addr(),
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     config.PoolSize,
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	})

	ttl := config.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &ReportCardCache{
		client: client,
		ttl:    ttl,
	}
}

func key(studentID string) string {
	return PrefixReportCard + studentID
}

// Get returns the cached payload for a student, or ErrCacheMiss.
func (c *ReportCardCache) Get(ctx context.Context, studentID string) ([]byte, error) {
	data, err := c.client.Get(ctx, key(studentID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("cache get %s: %w", studentID, err)
	}
	return data, nil
}

// Set stores the payload for a student with the configured TTL.
func (c *ReportCardCache) Set(ctx context.Context, studentID string, payload []byte) error {
	if err := c.client.Set(ctx, key(studentID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", studentID, err)
	}
	return nil
}

// Invalidate drops the cached report card for a student.
func (c *ReportCardCache) Invalidate(ctx context.Context, studentID string) error {
	if err := c.client.Del(ctx, key(studentID)).Err(); err != nil {
		return fmt.Errorf("cache invalidate %s: %w", studentID, err)
	}
	return nil
}

// Ping checks connectivity. Used by the readiness probe.
func (c *ReportCardCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (c *ReportCardCache) Close() error {
	return c.client.Close()
}
