// internal/common/config/config.go
package config

import (
	"fmt"
	"time"
)

// Config is the main application configuration struct.
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Unit    UnitConfig    `mapstructure:"unit"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// UnitConfig holds the API endpoint and credentials.
type UnitConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	Token     string `mapstructure:"token"`
	Timeout   int    `mapstructure:"timeout"` // milliseconds
	UserAgent string `mapstructure:"user_agent"`

	// MaxRetries bounds attempts for idempotent calls that fail with a retryable error.
	MaxRetries int `mapstructure:"max_retries"`
	RetryDelay int `mapstructure:"retry_delay"` // milliseconds, doubled per attempt
}

// RequestTimeout returns Timeout as a duration.
func (u UnitConfig) RequestTimeout() time.Duration {
	return time.Duration(u.Timeout) * time.Millisecond
}

// RequireToken fails when no API token is configured. Offline commands skip it.
func (u UnitConfig) RequireToken() error {
	if u.Token == "" {
		return fmt.Errorf("unit.token is required; set UNIT_TOKEN")
	}
	return nil
}

func (u UnitConfig) InitialRetryDelay() time.Duration {
	return time.Duration(u.RetryDelay) * time.Millisecond
}

// CacheConfig controls the read-through cache used for fetched resources.
type CacheConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	TTL       int    `mapstructure:"ttl"` // seconds
	KeyPrefix string `mapstructure:"key_prefix"`
}

func (c CacheConfig) TTLDuration() time.Duration {
	return time.Duration(c.TTL) * time.Second
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func validateConfig(cfg *Config) error {
	if cfg.Unit.BaseURL == "" {
		return fmt.Errorf("unit.base_url is required")
	}
	if cfg.Unit.Timeout <= 0 {
		return fmt.Errorf("unit.timeout must be positive, got %d", cfg.Unit.Timeout)
	}
	if cfg.Unit.MaxRetries < 1 {
		return fmt.Errorf("unit.max_retries must be at least 1, got %d", cfg.Unit.MaxRetries)
	}
	if cfg.Cache.Enabled {
		if cfg.Redis.Address == "" {
			return fmt.Errorf("redis.address is required when cache is enabled")
		}
		if cfg.Cache.TTL <= 0 {
			return fmt.Errorf("cache.ttl must be positive when cache is enabled")
		}
	}
	switch cfg.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", cfg.Logging.Format)
	}
	return nil
}
