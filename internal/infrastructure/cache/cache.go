// Package cache stores functional-group detection results keyed on the
// normalized structure text and the pattern-library hash, so repeated
// annotation of the same structure skips detection entirely.
package cache

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/turtacn/ChemNorm/internal/config"
	"github.com/turtacn/ChemNorm/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemNorm/internal/infrastructure/monitoring/metrics"
	"github.com/turtacn/ChemNorm/pkg/errors"
	moltypes "github.com/turtacn/ChemNorm/pkg/types/molecule"
)

// DetectionCache is the backend-neutral detection result store.  Backends
// never fail a lookup: any storage problem reads as a miss.
type DetectionCache interface {
	Get(ctx context.Context, key string) (*moltypes.GroupDetectionResult, bool)
	Set(ctx context.Context, key string, result *moltypes.GroupDetectionResult)
}

// New builds the cache backend named by cfg.
func New(cfg config.CacheConfig, logger logging.Logger, m *metrics.Metrics) (DetectionCache, error) {
	switch cfg.Backend {
	case "memory":
		return NewMemory(cfg.MaxEntries, cfg.TTL, logger, m), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		return NewRedis(client, cfg.KeyPrefix, cfg.TTL, logger, m), nil
	default:
		return nil, errors.New(errors.ErrCodeConfigInvalid, "unknown cache backend").
			WithDetail(cfg.Backend)
	}
}
