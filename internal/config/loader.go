package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all engine settings.
const envPrefix = "CHEMNORM"

// newViper builds a pre-configured Viper instance with the engine's standard
// settings: YAML file type, CHEMNORM_ env prefix, automatic env binding, and
// a key replacer that maps "." → "_" so that nested keys like "cache.ttl"
// resolve to "CHEMNORM_CACHE_TTL".
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	// Register every key so environment overrides apply even when the key is
	// absent from the config file (or no file is used at all).  Zero values
	// are filled in later by ApplyDefaults.
	for _, key := range []string{
		"sources.pubchem_base_url", "sources.commonchem_base_url",
		"sources.cactus_base_url", "sources.timeout", "sources.user_agent",
		"sources.rate_limit_rps",
		"cache.backend", "cache.max_entries", "cache.ttl", "cache.key_prefix",
		"cache.redis_addr", "cache.redis_password", "cache.redis_db",
		"patterns.path", "patterns.watch",
		"metrics.enabled",
		"log.level", "log.format", "log.output_paths",
	} {
		v.SetDefault(key, nil)
	}
	return v
}

// Load reads the YAML file at configPath, merges any CHEMNORM_* environment
// variable overrides, applies engine defaults for unset fields, and validates
// the result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from CHEMNORM_* environment variables
// and defaults, with no config file required.  This is the preferred loading
// strategy for containerised deployments.
func LoadFromEnv() (*Config, error) {
	v := newViper()
	return unmarshalAndFinalize(v)
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// Watch monitors configPath for changes and invokes onChange with the newly
// parsed Config whenever the file is modified on disk.  A change that fails
// to parse or validate is skipped so the application never observes a broken
// config.  Watch is non-blocking; viper manages the background goroutine.
func Watch(configPath string, onChange func(*Config)) {
	v := newViper()
	v.SetConfigFile(configPath)
	_ = v.ReadInConfig()

	v.WatchConfig()
	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			return
		}
		onChange(cfg)
	})
}

// MustLoad is a convenience wrapper around Load that panics on any error.
// Intended for main() where a config-load failure is always fatal.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}
