package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment knobs read by Load.
const (
	EnvPrefix     = "POWERTEAM_"
	EnvConfigFile = "POWERTEAM_CONFIG"
	EnvDotenvFile = "POWERTEAM_ENV_FILE"

	defaultDotenv = ".env"
	nestSeparator = "__"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if POWERTEAM_CONFIG is set, or the explicit path argument
//  3. dotenv file (.env or POWERTEAM_ENV_FILE); never overrides real env vars
//  4. env (prefix POWERTEAM_, "__" separates nested keys)
func Load(_ context.Context, path ...string) (*Config, error) {
	base := New()

	k := koanf.New(".")

	cfgPath := os.Getenv(EnvConfigFile)
	if len(path) > 0 && path[0] != "" {
		cfgPath = path[0]
	}
	if cfgPath != "" {
		if err := k.Load(file.Provider(cfgPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, cfgPath, err)
		}
	}

	if err := loadDotenv(); err != nil {
		return nil, err
	}

	// POWERTEAM_MAX_LIMIT -> max_limit, POWERTEAM_BACKEND__BASE_URL -> backend.base_url
	envProvider := env.Provider(EnvPrefix, ".", envKey)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(s)
	s = strings.TrimPrefix(s, strings.ToLower(EnvPrefix))
	return strings.ReplaceAll(s, nestSeparator, ".")
}

func loadDotenv() error {
	p := os.Getenv(EnvDotenvFile)
	explicit := p != ""
	if !explicit {
		p = defaultDotenv
	}
	err := godotenv.Load(p)
	if err == nil {
		return nil
	}
	if !explicit && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("%w: dotenv %s: %v", ErrLoadConfig, p, err)
}
