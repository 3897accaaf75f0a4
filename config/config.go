// Package config loads the runtime settings: built-in defaults, then an
// optional YAML file, then MANGAFEED_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.sammcclenaghan.com/mangafeed/grabber"
)

// EnvPrefix is prepended to every environment variable name
const EnvPrefix = "MANGAFEED_"

// Config holds the settings shared by the commands
type Config struct {
	UserAgent   string        `yaml:"user_agent"   env:"USER_AGENT"`
	Timeout     time.Duration `yaml:"timeout"      env:"TIMEOUT"`
	MaxRetries  int           `yaml:"max_retries"  env:"MAX_RETRIES"`
	RetryDelay  time.Duration `yaml:"retry_delay"  env:"RETRY_DELAY"`
	RateLimit   float64       `yaml:"rate_limit"   env:"RATE_LIMIT"`
	Concurrency int           `yaml:"concurrency"  env:"CONCURRENCY"`
	MaxPages    int           `yaml:"max_pages"    env:"MAX_PAGES"`
	OutputDir   string        `yaml:"output_dir"   env:"OUTPUT_DIR"`
	TimeZone    string        `yaml:"time_zone"    env:"TIME_ZONE"`
	LogLevel    string        `yaml:"log_level"    env:"LOG_LEVEL"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		UserAgent:   grabber.DefaultUserAgent,
		Timeout:     30 * time.Second,
		MaxRetries:  2,
		RetryDelay:  500 * time.Millisecond,
		RateLimit:   4,
		Concurrency: 5,
		MaxPages:    1,
		OutputDir:   ".",
		TimeZone:    "UTC",
		LogLevel:    "info",
	}
}

// Load builds a Config from the defaults, the YAML file at path when path is
// not empty, and the environment
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting
func (c *Config) Validate() error {
	if c.Concurrency <= 0 {
		return errors.New("concurrency must be positive")
	}
	if c.MaxRetries < 0 {
		return errors.New("max_retries cannot be negative")
	}
	if c.RateLimit < 0 {
		return errors.New("rate_limit cannot be negative")
	}
	if c.MaxPages < 0 {
		return errors.New("max_pages cannot be negative")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Location resolves TimeZone, UTC when empty
func (c *Config) Location() (*time.Location, error) {
	if c.TimeZone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid time_zone %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

// Level maps LogLevel to a slog level
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(strings.ToLower(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
