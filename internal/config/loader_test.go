package config_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/okian/powerteam/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.DefaultLimit, convey.ShouldEqual, 3)
				convey.So(cfg.MaxLimit, convey.ShouldEqual, 100)
				convey.So(cfg.Format, convey.ShouldEqual, "text")
				convey.So(cfg.Weights.Visitor, convey.ShouldEqual, 10.0)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("POWERTEAM_LOG_LEVEL", "debug")
			_ = os.Setenv("POWERTEAM_MAX_LIMIT", "50")
			_ = os.Setenv("POWERTEAM_STRICT_COUNTERS", "true")
			_ = os.Setenv("POWERTEAM_BACKEND__BASE_URL", "https://api.example.com")
			_ = os.Setenv("POWERTEAM_BACKEND__TIMEOUT", "3s")
			_ = os.Setenv("POWERTEAM_WEIGHTS__VISITOR", "12")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.MaxLimit, convey.ShouldEqual, 50)
				convey.So(cfg.StrictCounters, convey.ShouldBeTrue)
				convey.So(cfg.Backend.BaseURL, convey.ShouldEqual, "https://api.example.com")
				convey.So(cfg.Backend.Timeout, convey.ShouldEqual, 3*time.Second)
				convey.So(cfg.Weights.Visitor, convey.ShouldEqual, 12.0)
			})

			convey.Convey("And untouched nested fields should keep their defaults", func() {
				convey.So(cfg.Backend.UserAgent, convey.ShouldEqual, "powerteam/1")
				convey.So(cfg.Weights.Training, convey.ShouldEqual, 15.0)
				convey.So(cfg.Weights.ClosedBusinessUnit, convey.ShouldEqual, 10_000.0)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
format: json
default_limit: 5
backend:
  base_url: "https://dash.example.com"
  timeout: 15s
weights:
  training: 20
  closed_business_unit: 5000
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("POWERTEAM_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Format, convey.ShouldEqual, "json")
				convey.So(cfg.DefaultLimit, convey.ShouldEqual, 5)
				convey.So(cfg.Backend.BaseURL, convey.ShouldEqual, "https://dash.example.com")
				convey.So(cfg.Backend.Timeout, convey.ShouldEqual, 15*time.Second)
				convey.So(cfg.Weights.Training, convey.ShouldEqual, 20.0)
				convey.So(cfg.Weights.ClosedBusinessUnit, convey.ShouldEqual, 5000.0)
				convey.So(cfg.Weights.Visitor, convey.ShouldEqual, 10.0)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
format: yaml
max_limit: 20
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("POWERTEAM_CONFIG", tmpFile)
			_ = os.Setenv("POWERTEAM_FORMAT", "json")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Format, convey.ShouldEqual, "json") // Overridden by env
				convey.So(cfg.MaxLimit, convey.ShouldEqual, 20)   // From file
			})
		})

		convey.Convey("When an explicit path is passed", func() {
			tmpFile := createTempConfigFile("log_format: json\n")
			defer func() { _ = os.Remove(tmpFile) }()
			clearConfigEnvVars()

			cfg, err := config.Load(ctx, tmpFile)

			convey.Convey("Then it should be used without POWERTEAM_CONFIG", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
			})
		})

		convey.Convey("When a dotenv file is provided", func() {
			envFile := createTempConfigFile("POWERTEAM_DEFAULT_LIMIT=7\nPOWERTEAM_FORMAT=yaml\n")
			defer func() { _ = os.Remove(envFile) }()

			_ = os.Setenv("POWERTEAM_ENV_FILE", envFile)
			_ = os.Setenv("POWERTEAM_FORMAT", "json")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then its values should apply without overriding real env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.DefaultLimit, convey.ShouldEqual, 7)
				convey.So(cfg.Format, convey.ShouldEqual, "json")
			})
		})
	})
}

func TestConfigLoaderErrors(t *testing.T) {
	convey.Convey("Given invalid configuration sources", t, func() {
		ctx := context.Background()

		convey.Convey("When the config file does not exist", func() {
			_ = os.Setenv("POWERTEAM_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then a load error should be returned", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the explicit dotenv file does not exist", func() {
			_ = os.Setenv("POWERTEAM_ENV_FILE", "/non/existent/.env")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then a load error should be returned", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the YAML is malformed", func() {
			tmpFile := createTempConfigFile("max_limit: [1, 2\n")
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("POWERTEAM_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then a load error should be returned", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a number cannot be parsed", func() {
			_ = os.Setenv("POWERTEAM_MAX_LIMIT", "not_a_number")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then a load error should be returned", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When values fail validation", func() {
			cases := map[string]string{
				"POWERTEAM_FORMAT":                       "xml",
				"POWERTEAM_LOG_LEVEL":                    "loud",
				"POWERTEAM_MAX_LIMIT":                    "0",
				"POWERTEAM_DEFAULT_LIMIT":                "500",
				"POWERTEAM_BACKEND__BASE_URL":            "not a url",
				"POWERTEAM_BACKEND__TIMEOUT":             "0s",
				"POWERTEAM_WEIGHTS__CLOSED_BUSINESS_UNIT": "0",
			}

			convey.Convey("Then each should be rejected as invalid config", func() {
				for key, value := range cases {
					_ = os.Setenv(key, value)
					_, err := config.Load(ctx)
					clearConfigEnvVars()
					convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				}
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"POWERTEAM_CONFIG",
		"POWERTEAM_ENV_FILE",
		"POWERTEAM_LOG_LEVEL",
		"POWERTEAM_LOG_FORMAT",
		"POWERTEAM_FORMAT",
		"POWERTEAM_DEFAULT_LIMIT",
		"POWERTEAM_MAX_LIMIT",
		"POWERTEAM_STRICT_COUNTERS",
		"POWERTEAM_BACKEND__BASE_URL",
		"POWERTEAM_BACKEND__TIMEOUT",
		"POWERTEAM_WEIGHTS__VISITOR",
		"POWERTEAM_WEIGHTS__CLOSED_BUSINESS_UNIT",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "powerteam-config-*")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
