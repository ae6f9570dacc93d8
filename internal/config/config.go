// Package config defines process configuration structures and loading hooks.
//
// Conventions:
//   - Provide New() to build a Config with defaults.
//   - Load layers a YAML file, a dotenv file and POWERTEAM_* env vars on top.
//   - External errors are wrapped with this package's sentinels.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/okian/powerteam/internal/domain/scoring"
)

// Default configuration values.
const (
	DefaultLimit     = 3
	DefaultMaxLimit  = 100
	defaultWorkers   = 4
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "powerteam/1"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn warning error"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`

	// Format selects the CLI output encoding.
	Format string `koanf:"format" validate:"oneof=text json yaml"`

	// DefaultLimit is used by top-N views when no limit is given.
	DefaultLimit int `koanf:"default_limit" validate:"gte=0,ltefield=MaxLimit"`

	// MaxLimit caps any requested top-N limit.
	MaxLimit int `koanf:"max_limit" validate:"gte=1"`

	// Concurrency bounds parallel provider fetches (trend windows).
	Concurrency int `koanf:"concurrency" validate:"gte=1,lte=64"`

	// StrictCounters rejects negative counts and non-finite amounts.
	StrictCounters bool `koanf:"strict_counters"`

	// Fixture points to a YAML report/team fixture used instead of the backend.
	Fixture string `koanf:"fixture"`

	Backend Backend         `koanf:"backend"`
	Weights scoring.Weights `koanf:"weights"`
}

// Backend configures the dashboard backend client.
type Backend struct {
	BaseURL   string        `koanf:"base_url" validate:"omitempty,url"`
	Token     string        `koanf:"token"`
	Timeout   time.Duration `koanf:"timeout" validate:"gt=0"`
	UserAgent string        `koanf:"user_agent"`
}

var validate = validator.New()

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:     "info",
		LogFormat:    "text",
		Format:       "text",
		DefaultLimit: DefaultLimit,
		MaxLimit:     DefaultMaxLimit,
		Concurrency:  defaultWorkers,
		Backend: Backend{
			Timeout:   defaultTimeout,
			UserAgent: defaultUserAgent,
		},
		Weights: scoring.DefaultWeights(),
	}
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
