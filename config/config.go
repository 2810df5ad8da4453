// Package config loads hreq defaults from HREQ_* environment variables.
package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

const prefix = "HREQ"

// Config holds defaults that command-line flags may override.
type Config struct {
	Method    string        `envconfig:"METHOD" default:"GET"`
	Timeout   time.Duration `envconfig:"TIMEOUT" default:"5s"`
	Follow    bool          `envconfig:"FOLLOW" default:"false"`
	LogLevel  string        `envconfig:"LOG_LEVEL" default:"warn"`
	NoColor   bool          `envconfig:"NO_COLOR" default:"false"`
	UserAgent string        `envconfig:"USER_AGENT"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(prefix, &cfg); err != nil {
		return nil, errors.Wrap(err, "loading configuration from environment")
	}
	return &cfg, nil
}

// Default returns the configuration used when no variable is set.
func Default() *Config {
	return &Config{
		Method:   "GET",
		Timeout:  5 * time.Second,
		LogLevel: "warn",
	}
}
