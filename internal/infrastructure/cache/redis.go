package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/turtacn/ChemNorm/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemNorm/internal/infrastructure/monitoring/metrics"
	moltypes "github.com/turtacn/ChemNorm/pkg/types/molecule"
)

const redisBackendLabel = "redis"

// Redis stores detection results as JSON under prefixed keys with a shared
// TTL.  Connection or serialization trouble never fails a request; it is
// logged and reads as a miss.
type Redis struct {
	client  redis.Cmdable
	prefix  string
	ttl     time.Duration
	logger  logging.Logger
	metrics *metrics.Metrics
}

func NewRedis(client redis.Cmdable, prefix string, ttl time.Duration, logger logging.Logger, m *metrics.Metrics) *Redis {
	if logger == nil {
		logger = logging.Default()
	}
	if m == nil {
		m = metrics.NewNop()
	}
	return &Redis{
		client:  client,
		prefix:  prefix,
		ttl:     ttl,
		logger:  logger.Named("cache.redis"),
		metrics: m,
	}
}

func (c *Redis) Get(ctx context.Context, key string) (*moltypes.GroupDetectionResult, bool) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("redis get failed", logging.Err(err))
		}
		c.metrics.CacheMisses.WithLabelValues(redisBackendLabel).Inc()
		return nil, false
	}
	var result moltypes.GroupDetectionResult
	if err := json.Unmarshal(data, &result); err != nil {
		c.logger.Warn("discarding undecodable cache entry", logging.Err(err))
		c.metrics.CacheMisses.WithLabelValues(redisBackendLabel).Inc()
		return nil, false
	}
	c.metrics.CacheHits.WithLabelValues(redisBackendLabel).Inc()
	return &result, true
}

func (c *Redis) Set(ctx context.Context, key string, result *moltypes.GroupDetectionResult) {
	data, err := json.Marshal(result)
	if err != nil {
		c.logger.Warn("cache entry not serializable", logging.Err(err))
		return
	}
	if err := c.client.Set(ctx, c.prefix+key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("redis set failed", logging.Err(err))
	}
}
