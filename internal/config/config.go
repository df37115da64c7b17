package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverSQLite   = "sqlite"
)

type Config struct {
	// Core
	BotToken    string `env:"BOT_TOKEN,required,notEmpty"`
	AdminChatID int64  `env:"ADMIN_CHAT_ID,required"`

	// Storage
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"postgres"`
	DatabaseURL   string `env:"DATABASE_URL"`
	SQLitePath    string `env:"SQLITE_PATH" envDefault:"subguard.db"`

	// AI assistant (OpenAI-compatible endpoint)
	AIAPIKey  string `env:"AI_API_KEY,required,notEmpty"`
	AIBaseURL string `env:"AI_BASE_URL" envDefault:"https://api.deepseek.com/v1"`
	AIModel   string `env:"AI_MODEL" envDefault:"deepseek-chat"`

	// Payment: fiat invoices need a provider token, Stars do not
	PaymentToken string `env:"PAYMENT_TOKEN"`
	StarsEnabled bool   `env:"STARS_ENABLED" envDefault:"true"`

	// Sessions
	SessionIdleTTL time.Duration `env:"SESSION_IDLE_TTL" envDefault:"24h"`

	// Server
	Port int `env:"PORT" envDefault:"3000"`

	// Logging
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Bot behavior
	DropPendingUpdates bool `env:"BOT_DROP_PENDING_UPDATES" envDefault:"false"`
}

// Load reads an optional .env file and then parses the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageDriver {
	case StorageDriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for storage driver %q", c.StorageDriver)
		}
	case StorageDriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for storage driver %q", c.StorageDriver)
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}
	if c.SessionIdleTTL <= 0 {
		return fmt.Errorf("SESSION_IDLE_TTL must be positive")
	}
	return nil
}

// FiatEnabled reports whether RUB invoices can be issued.
func (c *Config) FiatEnabled() bool {
	return c.PaymentToken != ""
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
