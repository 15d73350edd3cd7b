// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment represents the application environment.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
)

// Config holds all application configuration.
type Config struct {
	// Application
	App AppConfig

	// Storage
	Storage StorageConfig

	// Redis
	Redis RedisConfig

	// Telegram Bot
	Telegram TelegramConfig

	// Export
	Export ExportConfig

	// Observability
	Observability ObservabilityConfig
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string
	Environment Environment
	Debug       bool
	Version     string

	// Graceful shutdown timeout
	ShutdownTimeout time.Duration
}

// StorageConfig holds the gradebook document settings.
type StorageConfig struct {
	// DataFile is the path of the JSON gradebook document.
	DataFile string
}

// RedisConfig holds Redis connection settings for the report card cache.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int

	// Pool settings
	PoolSize int

	// Timeouts
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// CacheTTL bounds how long a rendered report card may be served stale.
	CacheTTL time.Duration

	// Disabled runs the bot without Redis; report cards are rebuilt on
	// every request.
	Disabled bool
}

// TelegramConfig holds Telegram Bot settings.
type TelegramConfig struct {
	// Token from @BotFather
	Token string

	// Long polling timeout in seconds
	PollingTimeout int

	// AdminIDs may run administrative commands such as the export.
	AdminIDs []int64

	// MaxConcurrentUpdates limits concurrent update processing.
	MaxConcurrentUpdates int
}

// ExportConfig holds xlsx export settings.
type ExportConfig struct {
	// Dir is where exported workbooks are written.
	Dir string
}

// ObservabilityConfig holds logging and health server settings.
type ObservabilityConfig struct {
	// LogLevel: debug, info, warn, error
	LogLevel string

	// LogFormat: json or text
	LogFormat string

	// HealthHost and HealthPort configure the probe server.
	HealthHost string
	HealthPort int
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:            getEnv("APP_NAME", "eokul-gradebook-bot"),
			Environment:     Environment(getEnv("APP_ENV", string(EnvDevelopment))),
			Debug:           getEnvBool("APP_DEBUG", false),
			Version:         getEnv("APP_VERSION", "dev"),
			ShutdownTimeout: getEnvDuration("APP_SHUTDOWN_TIMEOUT", 20*time.Second),
		},
		Storage: StorageConfig{
			DataFile: getEnv("GRADEBOOK_DATA_FILE", "notlar.json"),
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnvInt("REDIS_PORT", 6379),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvInt("REDIS_DB", 0),
			PoolSize:     getEnvInt("REDIS_POOL_SIZE", 10),
			DialTimeout:  getEnvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getEnvDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getEnvDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			CacheTTL:     getEnvDuration("REDIS_CACHE_TTL", 10*time.Minute),
			Disabled:     getEnvBool("REDIS_DISABLED", false),
		},
		Telegram: TelegramConfig{
			Token:                getEnv("TELEGRAM_BOT_TOKEN", ""),
			PollingTimeout:       getEnvInt("TELEGRAM_POLLING_TIMEOUT", 30),
			AdminIDs:             getEnvInt64Slice("TELEGRAM_ADMIN_IDS", nil),
			MaxConcurrentUpdates: getEnvInt("TELEGRAM_MAX_CONCURRENT_UPDATES", 20),
		},
		Export: ExportConfig{
			Dir: getEnv("EXPORT_DIR", "exports"),
		},
		Observability: ObservabilityConfig{
			LogLevel:   getEnv("LOG_LEVEL", "info"),
			LogFormat:  getEnv("LOG_FORMAT", "json"),
			HealthHost: getEnv("HEALTH_HOST", "0.0.0.0"),
			HealthPort: getEnvInt("HEALTH_PORT", 8080),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required fields and value ranges.
func (c *Config) Validate() error {
	var errs []string

	if c.Telegram.Token == "" {
		errs = append(errs, "TELEGRAM_BOT_TOKEN is required")
	}
	if c.Storage.DataFile == "" {
		errs = append(errs, "GRADEBOOK_DATA_FILE must not be empty")
	}
	if c.Telegram.PollingTimeout < 1 || c.Telegram.PollingTimeout > 50 {
		errs = append(errs, "TELEGRAM_POLLING_TIMEOUT must be 1-50 seconds")
	}
	switch c.App.Environment {
	case EnvDevelopment, EnvProduction:
	default:
		errs = append(errs, "APP_ENV must be development or production")
	}
	switch c.Observability.LogFormat {
	case "json", "text":
	default:
		errs = append(errs, "LOG_FORMAT must be json or text")
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return nil
}

// IsProduction reports whether the app runs in production.
func (c *Config) IsProduction() bool {
	return c.App.Environment == EnvProduction
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}

func getEnvInt64Slice(key string, defaultVal []int64) []int64 {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}

	parts := strings.Split(val, ",")
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			continue
		}
		out = append(out, id)
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
