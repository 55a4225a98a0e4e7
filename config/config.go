package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config drives the titan replay command. Flags override these values.
type Config struct {
	// JSON lines, "-" for stdin
	EventLog string `env:"TITAN_EVENT_LOG"`

	// Receive events over HTTP instead of reading a log
	Listen string `env:"TITAN_LISTEN"`

	// Events held before posting blocks
	Buffer int `env:"TITAN_BUFFER" envDefault:"64"`

	// CSV snapshots are skipped when empty
	OutputDir string `env:"TITAN_OUTPUT_DIR"`

	// YAML creature table, the Default variant when empty
	Catalog string `env:"TITAN_CATALOG"`

	// 0 seeds from the clock
	Seed uint64 `env:"TITAN_SEED"`

	// Panic on the first violation
	Strict bool `env:"TITAN_STRICT"`

	LogLevel string `env:"TITAN_LOG_LEVEL" envDefault:"info"`

	// Only report this player
	Player string `env:"TITAN_PLAYER"`
}

// Parse loads configuration from environment variables.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate checks that exactly one event input is configured.
func (c Config) Validate() error {
	if (c.EventLog == "") == (c.Listen == "") {
		return fmt.Errorf("need exactly one of an event log or a listen address")
	}
	if c.Buffer <= 0 {
		return fmt.Errorf("event buffer must be positive, got %d", c.Buffer)
	}
	return nil
}
