// Package config defines all configuration structures for the ChemNorm
// engine.  No I/O or parsing logic lives here, only plain data types and
// validation; loading is in loader.go.
package config

import (
	"fmt"
	"time"

	"github.com/turtacn/ChemNorm/internal/infrastructure/monitoring/logging"
)

// SourcesConfig holds the external structure-provider endpoints and shared
// HTTP tunables for the conformer cascade.
type SourcesConfig struct {
	PubChemBaseURL    string        `mapstructure:"pubchem_base_url"`
	CommonChemBaseURL string        `mapstructure:"commonchem_base_url"`
	CactusBaseURL     string        `mapstructure:"cactus_base_url"`
	Timeout           time.Duration `mapstructure:"timeout"`
	UserAgent         string        `mapstructure:"user_agent"`
	RateLimitRPS      int           `mapstructure:"rate_limit_rps"`
}

// CacheConfig holds detection-cache parameters.  The memory backend is the
// default; redis is for multi-process deployments sharing one cache.
type CacheConfig struct {
	Backend       string        `mapstructure:"backend"` // "memory" | "redis"
	MaxEntries    int           `mapstructure:"max_entries"`
	TTL           time.Duration `mapstructure:"ttl"`
	KeyPrefix     string        `mapstructure:"key_prefix"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
}

// PatternsConfig holds pattern-library loading parameters.  An empty Path
// selects the built-in library.
type PatternsConfig struct {
	Path  string `mapstructure:"path"`
	Watch bool   `mapstructure:"watch"`
}

// MetricsConfig toggles Prometheus registration on the default registry.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Config is the root configuration structure for the engine.
type Config struct {
	Sources  SourcesConfig  `mapstructure:"sources"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Patterns PatternsConfig `mapstructure:"patterns"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Log      logging.Config `mapstructure:"log"`
}

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered; callers should treat any error as
// fatal and refuse to start.
func (c *Config) Validate() error {
	if c.Sources.PubChemBaseURL == "" {
		return fmt.Errorf("config: sources.pubchem_base_url is required")
	}
	if c.Sources.CactusBaseURL == "" {
		return fmt.Errorf("config: sources.cactus_base_url is required")
	}
	if c.Sources.Timeout <= 0 {
		return fmt.Errorf("config: sources.timeout must be > 0, got %s", c.Sources.Timeout)
	}
	if c.Sources.RateLimitRPS < 1 {
		return fmt.Errorf("config: sources.rate_limit_rps must be ≥ 1, got %d", c.Sources.RateLimitRPS)
	}

	switch c.Cache.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("config: cache.backend %q is invalid; expected memory|redis", c.Cache.Backend)
	}
	if c.Cache.MaxEntries < 1 {
		return fmt.Errorf("config: cache.max_entries must be ≥ 1, got %d", c.Cache.MaxEntries)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("config: cache.ttl must be > 0, got %s", c.Cache.TTL)
	}
	if c.Cache.Backend == "redis" && c.Cache.RedisAddr == "" {
		return fmt.Errorf("config: cache.redis_addr is required for the redis backend")
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	return nil
}
