package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"tasignals/internal/indicators/adaptive"
	"tasignals/internal/snapshot"
	"tasignals/pkg/errors"
)

type Config struct {
	App           AppConfig
	Engine        EngineConfig
	ErrorTracking ErrorTrackingConfig
	Metrics       MetricsConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"tasignals"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Version  string `envconfig:"APP_VERSION" default:"dev"`
}

// EngineConfig tunes the aggregator and the adaptive resolver
type EngineConfig struct {
	MinCandles         int           `envconfig:"ENGINE_MIN_CANDLES" default:"14"`
	AdaptiveMinPeriod  int           `envconfig:"ENGINE_ADAPTIVE_MIN_PERIOD" default:"2"`
	AdaptiveFloor      int           `envconfig:"ENGINE_ADAPTIVE_SHALLOW_FLOOR" default:"5"`
	BatchConcurrency   int           `envconfig:"ENGINE_BATCH_CONCURRENCY" default:"4"`
	BatchTimeout       time.Duration `envconfig:"ENGINE_BATCH_TIMEOUT" default:"30s"`
	DisabledIndicators []string      `envconfig:"ENGINE_DISABLED_INDICATORS"`
}

// Resolver returns the adaptive policy described by the config
func (c EngineConfig) Resolver() adaptive.Resolver {
	return adaptive.Resolver{
		MinPeriod:    c.AdaptiveMinPeriod,
		ShallowFloor: c.AdaptiveFloor,
	}
}

// Options translates engine settings into aggregator options
func (c EngineConfig) Options() snapshot.Options {
	return snapshot.Options{
		MinCandles:       c.MinCandles,
		BatchConcurrency: c.BatchConcurrency,
		Resolver:         c.Resolver(),
		Disabled:         c.Disabled(),
	}
}

// Disabled returns the disabled indicator names as a set
func (c EngineConfig) Disabled() map[string]bool {
	out := make(map[string]bool, len(c.DisabledIndicators))
	for _, name := range c.DisabledIndicators {
		name = strings.TrimSpace(name)
		if name != "" {
			out[name] = true
		}
	}
	return out
}

// Validate checks engine settings
func (c EngineConfig) Validate() error {
	if c.MinCandles < 1 {
		return errors.NewValidationError("ENGINE_MIN_CANDLES", "must be at least 1", c.MinCandles)
	}
	if c.BatchConcurrency < 1 {
		return errors.NewValidationError("ENGINE_BATCH_CONCURRENCY", "must be at least 1", c.BatchConcurrency)
	}
	return c.Resolver().Validate()
}

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"false"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"production"`
}

type MetricsConfig struct {
	Enabled bool   `envconfig:"METRICS_ENABLED" default:"false"`
	Addr    string `envconfig:"METRICS_ADDR" default:":9102"`
}

// Load reads configuration from environment variables
// It first tries to load .env file (useful for local development)
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not exists)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}
	if err := cfg.Engine.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid engine config")
	}

	return &cfg, nil
}
