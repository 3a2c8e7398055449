// Package config loads the service configuration: defaults, then an
// optional TOML or YAML file, then environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so files can say "15s".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config holds the complete service configuration
type Config struct {
	Server    ServerConfig    `toml:"server" yaml:"server"`
	Redis     RedisConfig     `toml:"redis" yaml:"redis"`
	RateLimit RateLimitConfig `toml:"rate_limit" yaml:"rate_limit"`
	Log       LogConfig       `toml:"log" yaml:"log"`
	Solver    SolverConfig    `toml:"solver" yaml:"solver"`
	Limits    LimitsConfig    `toml:"limits" yaml:"limits"`
	History   HistoryConfig   `toml:"history" yaml:"history"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr         string   `toml:"addr" yaml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout" yaml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout" yaml:"write_timeout"`
	IdleTimeout  Duration `toml:"idle_timeout" yaml:"idle_timeout"`
}

// RedisConfig holds the response cache settings. When disabled an
// in-memory cache is used.
type RedisConfig struct {
	Enabled bool     `toml:"enabled" yaml:"enabled"`
	Addr    string   `toml:"addr" yaml:"addr"`
	TTL     Duration `toml:"ttl" yaml:"ttl"`
}

// RateLimitConfig holds the per-client token bucket
type RateLimitConfig struct {
	Capacity int      `toml:"capacity" yaml:"capacity"`
	Window   Duration `toml:"window" yaml:"window"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

// SolverConfig holds rate and tenure solver tunables
type SolverConfig struct {
	Tolerance     float64 `toml:"tolerance" yaml:"tolerance"`
	MaxIterations int     `toml:"max_iterations" yaml:"max_iterations"`
	RateCeiling   float64 `toml:"rate_ceiling" yaml:"rate_ceiling"` // annual, 0.5 = 50%
	TenureCeiling int     `toml:"tenure_ceiling" yaml:"tenure_ceiling"`
}

// LimitsConfig holds request ceilings
type LimitsConfig struct {
	MaxPrincipal    float64 `toml:"max_principal" yaml:"max_principal"`
	MaxAnnualRate   float64 `toml:"max_annual_rate" yaml:"max_annual_rate"`
	MaxTenureMonths int     `toml:"max_tenure_months" yaml:"max_tenure_months"`
}

// HistoryConfig bounds the in-memory calculation history
type HistoryConfig struct {
	Size int `toml:"size" yaml:"size"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads path, if given, and applies environment overrides. The file
// format follows the extension: .toml, .yaml or .yml.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}
	cfg.applyDefaults()
	cfg.applyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout.Duration == 0 {
		c.Server.ReadTimeout.Duration = 15 * time.Second
	}
	if c.Server.WriteTimeout.Duration == 0 {
		c.Server.WriteTimeout.Duration = 15 * time.Second
	}
	if c.Server.IdleTimeout.Duration == 0 {
		c.Server.IdleTimeout.Duration = 60 * time.Second
	}

	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.Redis.TTL.Duration == 0 {
		c.Redis.TTL.Duration = 10 * time.Minute
	}

	if c.RateLimit.Capacity == 0 {
		c.RateLimit.Capacity = 60
	}
	if c.RateLimit.Window.Duration == 0 {
		c.RateLimit.Window.Duration = time.Minute
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}

	if c.Solver.Tolerance == 0 {
		c.Solver.Tolerance = 1e-4
	}
	if c.Solver.MaxIterations == 0 {
		c.Solver.MaxIterations = 2000
	}
	if c.Solver.RateCeiling == 0 {
		c.Solver.RateCeiling = 0.5
	}
	if c.Solver.TenureCeiling == 0 {
		c.Solver.TenureCeiling = 360
	}

	if c.Limits.MaxPrincipal == 0 {
		c.Limits.MaxPrincipal = 1_000_000_000
	}
	if c.Limits.MaxAnnualRate == 0 {
		c.Limits.MaxAnnualRate = 100
	}
	if c.Limits.MaxTenureMonths == 0 {
		c.Limits.MaxTenureMonths = 600
	}

	if c.History.Size == 0 {
		c.History.Size = 1000
	}
}

// applyEnv overrides file values. PORT is honored for platforms that only
// hand out a port.
func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("PORT"); v != "" {
		c.Server.Addr = ":" + v
	}
	if v := getenv("LOAN_ENGINE_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := getenv("LOAN_ENGINE_REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
		c.Redis.Enabled = true
	}
	if v := getenv("LOAN_ENGINE_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := getenv("LOAN_ENGINE_LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.ReadTimeout.Duration < 0 || c.Server.WriteTimeout.Duration < 0 || c.Server.IdleTimeout.Duration < 0 {
		errs = append(errs, errors.New("server timeouts must be positive"))
	}
	if c.Redis.TTL.Duration < 0 {
		errs = append(errs, errors.New("redis.ttl must be positive"))
	}
	if c.RateLimit.Capacity < 0 || c.RateLimit.Window.Duration < 0 {
		errs = append(errs, errors.New("rate_limit capacity and window must be positive"))
	}
	if c.Solver.Tolerance < 0 || c.Solver.MaxIterations < 0 || c.Solver.RateCeiling < 0 || c.Solver.TenureCeiling < 0 {
		errs = append(errs, errors.New("solver settings must be positive"))
	}
	if c.Limits.MaxPrincipal < 0 || c.Limits.MaxAnnualRate < 0 || c.Limits.MaxTenureMonths < 0 {
		errs = append(errs, errors.New("limits must be positive"))
	}
	if c.History.Size < 0 {
		errs = append(errs, errors.New("history.size must be positive"))
	}
	return errors.Join(errs...)
}
