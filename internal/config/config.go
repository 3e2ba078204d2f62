package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/clck-dev/clck/internal/logger"
)

// Config holds all application configuration
type Config struct {
	App   AppConfig
	Link  LinkConfig
	Sweep SweepConfig
	Log   logger.Config
}

// AppConfig holds application-wide settings
type AppConfig struct {
	Environment string // "development", "production", "testing"
}

// LinkConfig holds link lifecycle settings
type LinkConfig struct {
	TTL       time.Duration // lifetime of every new link
	ShortBase string        // prefix for the short display form
}

// SweepConfig holds expiration sweeper scheduling
type SweepConfig struct {
	Interval     time.Duration
	InitialDelay time.Duration
}

// Load reads configuration from an optional config.yaml, a local .env
// file and CLCK_* environment variables, in increasing precedence.
// The TTL is configured in whole seconds (CLCK_TTL_SECONDS).
func Load() (*Config, error) {
	// A missing .env is fine; environments without one use real env vars.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	v.SetDefault("app.environment", "development")
	v.SetDefault("ttl.seconds", 86400)
	v.SetDefault("link.short_base", "clck.ru/")
	v.SetDefault("sweep.interval", "30s")
	v.SetDefault("sweep.initial_delay", "10s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetEnvPrefix("CLCK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{
		App: AppConfig{
			Environment: v.GetString("app.environment"),
		},
		Link: LinkConfig{
			TTL:       time.Duration(v.GetInt64("ttl.seconds")) * time.Second,
			ShortBase: v.GetString("link.short_base"),
		},
		Sweep: SweepConfig{
			Interval:     v.GetDuration("sweep.interval"),
			InitialDelay: v.GetDuration("sweep.initial_delay"),
		},
		Log: logger.Config{
			Level:       v.GetString("log.level"),
			Format:      v.GetString("log.format"),
			Environment: v.GetString("app.environment"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Link.TTL <= 0 {
		return fmt.Errorf("ttl must be positive, got %v", c.Link.TTL)
	}
	if c.Link.ShortBase == "" {
		return errors.New("short base cannot be empty")
	}
	if c.Sweep.Interval <= 0 {
		return fmt.Errorf("sweep interval must be positive, got %v", c.Sweep.Interval)
	}
	if c.Sweep.InitialDelay < 0 {
		return fmt.Errorf("sweep initial delay cannot be negative, got %v", c.Sweep.InitialDelay)
	}

	validEnvs := map[string]bool{
		"development": true,
		"production":  true,
		"testing":     true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, production, or testing)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.Log.Level] {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be text or json)", c.Log.Format)
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}
