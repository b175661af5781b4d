// Package config loads runtime settings from TRW_* environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreSQLite = "sqlite"
)

type Config struct {
	Addr         string        `env:"TRW_ADDR" envDefault:":8080"`
	Data         string        `env:"TRW_DATA" envDefault:"data"`
	BaseFile     string        `env:"TRW_BASE_FILE" envDefault:"data.json"`
	OverlayFile  string        `env:"TRW_OVERLAY_FILE" envDefault:"calamity.json"`
	FetchTimeout time.Duration `env:"TRW_FETCH_TIMEOUT" envDefault:"10s"`

	Store       string        `env:"TRW_STORE" envDefault:"memory"`
	SessionDir  string        `env:"TRW_SESSION_DIR" envDefault:"sessions"`
	RedisAddr   string        `env:"TRW_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPrefix string        `env:"TRW_REDIS_PREFIX" envDefault:"trw:session:"`
	SessionTTL  time.Duration `env:"TRW_SESSION_TTL" envDefault:"720h"`
	SQLitePath  string        `env:"TRW_SQLITE_PATH" envDefault:"sessions.db"`

	// StateDir holds the CLI's single save file.
	StateDir string `env:"TRW_STATE_DIR" envDefault:"."`
	LogMode  string `env:"TRW_LOG_MODE" envDefault:"dev"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Store {
	case StoreMemory, StoreFile, StoreRedis, StoreSQLite:
	default:
		return fmt.Errorf("TRW_STORE: unknown store %q", c.Store)
	}
	if c.BaseFile == "" {
		return fmt.Errorf("TRW_BASE_FILE is required")
	}
	if c.SessionTTL < 0 {
		return fmt.Errorf("TRW_SESSION_TTL must not be negative")
	}
	return nil
}
