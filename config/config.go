package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "EMI"

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Cache  CacheConfig  `mapstructure:"cache"`
	Log    LogConfig    `mapstructure:"log"`
	Loan   LoanConfig   `mapstructure:"loan"`
}

type ServerConfig struct {
	Addr            string          `mapstructure:"addr"`
	ShutdownTimeout time.Duration   `mapstructure:"shutdown_timeout"`
	RateLimit       RateLimitConfig `mapstructure:"rate_limit"`
}

type RateLimitConfig struct {
	Capacity int           `mapstructure:"capacity"`
	Refill   time.Duration `mapstructure:"refill"`
}

type CacheConfig struct {
	// RedisAddr selects Redis when set; otherwise an in-memory cache is used.
	RedisAddr string        `mapstructure:"redis_addr"`
	TTL       time.Duration `mapstructure:"ttl"`
	Size      int           `mapstructure:"size"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type LoanConfig struct {
	Validation     string `mapstructure:"validation"`
	CurrencySymbol string `mapstructure:"currency_symbol"`
	Locale         string `mapstructure:"locale"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.rate_limit.capacity", 60)
	v.SetDefault("server.rate_limit.refill", time.Minute)
	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.ttl", time.Hour)
	v.SetDefault("cache.size", 1024)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("loan.validation", "permissive")
	v.SetDefault("loan.currency_symbol", "₹")
	v.SetDefault("loan.locale", "en-IN")
}

// Load reads the optional YAML file at path and applies EMI_* environment
// overrides, e.g. EMI_CACHE_REDIS_ADDR for cache.redis_addr.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr must not be empty"))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("server.shutdown_timeout must be positive"))
	}
	if c.Server.RateLimit.Capacity < 1 {
		errs = append(errs, fmt.Errorf("server.rate_limit.capacity must be at least 1, got %d", c.Server.RateLimit.Capacity))
	}
	if c.Server.RateLimit.Refill <= 0 {
		errs = append(errs, errors.New("server.rate_limit.refill must be positive"))
	}
	if c.Cache.Size < 1 {
		errs = append(errs, fmt.Errorf("cache.size must be at least 1, got %d", c.Cache.Size))
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be console or json, got %q", c.Log.Format))
	}
	switch c.Loan.Validation {
	case "permissive", "strict":
	default:
		errs = append(errs, fmt.Errorf("loan.validation must be permissive or strict, got %q", c.Loan.Validation))
	}

	return errors.Join(errs...)
}
