package config

import "time"

// Default value constants.
const (
	DefaultPubChemBaseURL    = "https://pubchem.ncbi.nlm.nih.gov/rest/pug"
	DefaultCommonChemBaseURL = "https://commonchemistry.cas.org/api"
	DefaultCactusBaseURL     = "https://cactus.nci.nih.gov/chemical/structure"
	DefaultSourceTimeout     = 10 * time.Second
	DefaultRateLimitRPS      = 5

	DefaultCacheBackend    = "memory"
	DefaultCacheMaxEntries = 1024
	DefaultCacheTTL        = 24 * time.Hour
	DefaultCacheKeyPrefix  = "chemnorm:"
	DefaultRedisAddr       = "localhost:6379"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Version is the engine version reported in User-Agent headers and the CLI.
// Overridden at build time via -ldflags.
var Version = "0.1.0"

// DefaultUserAgent derives from Version, so it cannot live in the const
// block above.
var DefaultUserAgent = "chemnorm/" + Version

// ApplyDefaults fills every zero-value field in cfg with the engine default.
// Fields already set by the caller are left unchanged so that explicit
// configuration always wins.  It must be called after unmarshalling and
// before Validate() so optional-but-defaulted fields are never seen as
// missing.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Sources.PubChemBaseURL == "" {
		cfg.Sources.PubChemBaseURL = DefaultPubChemBaseURL
	}
	if cfg.Sources.CommonChemBaseURL == "" {
		cfg.Sources.CommonChemBaseURL = DefaultCommonChemBaseURL
	}
	if cfg.Sources.CactusBaseURL == "" {
		cfg.Sources.CactusBaseURL = DefaultCactusBaseURL
	}
	if cfg.Sources.Timeout == 0 {
		cfg.Sources.Timeout = DefaultSourceTimeout
	}
	if cfg.Sources.UserAgent == "" {
		cfg.Sources.UserAgent = DefaultUserAgent
	}
	if cfg.Sources.RateLimitRPS == 0 {
		cfg.Sources.RateLimitRPS = DefaultRateLimitRPS
	}

	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = DefaultCacheBackend
	}
	if cfg.Cache.MaxEntries == 0 {
		cfg.Cache.MaxEntries = DefaultCacheMaxEntries
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = DefaultCacheTTL
	}
	if cfg.Cache.KeyPrefix == "" {
		cfg.Cache.KeyPrefix = DefaultCacheKeyPrefix
	}
	if cfg.Cache.Backend == "redis" && cfg.Cache.RedisAddr == "" {
		cfg.Cache.RedisAddr = DefaultRedisAddr
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}
