// Package config loads process configuration from the environment, with an
// optional .env file in the working directory.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr string `env:"BRIDGE_HTTP_ADDR" envDefault:":8080"`

	// Systems
	SystemDir     string `env:"BRIDGE_SYSTEM_DIR"`
	DefaultSystem string `env:"BRIDGE_DEFAULT_SYSTEM" envDefault:"sayc"`
	SystemCache   int    `env:"BRIDGE_SYSTEM_CACHE" envDefault:"16"`

	// Ledger
	LedgerMode        string `env:"BRIDGE_LEDGER_MODE" envDefault:"memory"`
	LedgerSQLitePath  string `env:"BRIDGE_LEDGER_SQLITE_PATH" envDefault:"data/ledger.db"`
	LedgerDSN         string `env:"BRIDGE_LEDGER_DSN"`
	LedgerRecentLimit int    `env:"BRIDGE_LEDGER_RECENT_LIMIT" envDefault:"20"`

	// External advisor (empty key disables it)
	GeminiAPIKey    string        `env:"GEMINI_API_KEY"`
	GeminiModel     string        `env:"BRIDGE_GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	ExternalTimeout time.Duration `env:"BRIDGE_EXTERNAL_TIMEOUT" envDefault:"30s"`

	LogLevel string `env:"BRIDGE_LOG_LEVEL" envDefault:"info"`
}

// Load reads .env (if present) and then the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse reads the environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	cfg.LedgerMode = strings.ToLower(strings.TrimSpace(cfg.LedgerMode))
	cfg.DefaultSystem = strings.ToLower(strings.TrimSpace(cfg.DefaultSystem))
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.LedgerMode {
	case "memory", "sqlite":
	case "postgres":
		if strings.TrimSpace(c.LedgerDSN) == "" {
			return fmt.Errorf("BRIDGE_LEDGER_DSN is required for postgres ledger")
		}
	default:
		return fmt.Errorf("unsupported BRIDGE_LEDGER_MODE %q", c.LedgerMode)
	}
	if c.SystemCache <= 0 {
		return fmt.Errorf("BRIDGE_SYSTEM_CACHE must be > 0")
	}
	if c.LedgerRecentLimit <= 0 {
		return fmt.Errorf("BRIDGE_LEDGER_RECENT_LIMIT must be > 0")
	}
	if c.ExternalTimeout <= 0 {
		return fmt.Errorf("BRIDGE_EXTERNAL_TIMEOUT must be > 0")
	}
	if c.DefaultSystem == "" {
		return fmt.Errorf("BRIDGE_DEFAULT_SYSTEM must not be empty")
	}
	return nil
}

// ExternalEnabled reports whether an external advisor can be built.
func (c Config) ExternalEnabled() bool { return strings.TrimSpace(c.GeminiAPIKey) != "" }

// Debug reports whether debug logging was requested.
func (c Config) Debug() bool { return strings.EqualFold(c.LogLevel, "debug") }
