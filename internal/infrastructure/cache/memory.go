package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/turtacn/ChemNorm/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemNorm/internal/infrastructure/monitoring/metrics"
	moltypes "github.com/turtacn/ChemNorm/pkg/types/molecule"
)

const memoryBackendLabel = "memory"

type memoryEntry struct {
	key       string
	result    *moltypes.GroupDetectionResult
	expiresAt time.Time
}

// Memory is an in-process LRU cache with per-entry TTL.  Eviction happens on
// insert when the entry budget is exceeded; expired entries read as misses
// and are dropped on access.
type Memory struct {
	mu         sync.Mutex
	maxEntries int
	ttl        time.Duration
	ll         *list.List
	items      map[string]*list.Element
	now        func() time.Time

	logger  logging.Logger
	metrics *metrics.Metrics
}

func NewMemory(maxEntries int, ttl time.Duration, logger logging.Logger, m *metrics.Metrics) *Memory {
	if logger == nil {
		logger = logging.Default()
	}
	if m == nil {
		m = metrics.NewNop()
	}
	return &Memory{
		maxEntries: maxEntries,
		ttl:        ttl,
		ll:         list.New(),
		items:      map[string]*list.Element{},
		now:        time.Now,
		logger:     logger.Named("cache.memory"),
		metrics:    m,
	}
}

func (c *Memory) Get(_ context.Context, key string) (*moltypes.GroupDetectionResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		c.metrics.CacheMisses.WithLabelValues(memoryBackendLabel).Inc()
		return nil, false
	}
	entry := el.Value.(*memoryEntry)
	if c.now().After(entry.expiresAt) {
		c.ll.Remove(el)
		delete(c.items, key)
		c.metrics.CacheMisses.WithLabelValues(memoryBackendLabel).Inc()
		return nil, false
	}
	c.ll.MoveToFront(el)
	c.metrics.CacheHits.WithLabelValues(memoryBackendLabel).Inc()
	return entry.result, true
}

func (c *Memory) Set(_ context.Context, key string, result *moltypes.GroupDetectionResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expires := c.now().Add(c.ttl)
	if el, ok := c.items[key]; ok {
		entry := el.Value.(*memoryEntry)
		entry.result = result
		entry.expiresAt = expires
		c.ll.MoveToFront(el)
		return
	}
	c.items[key] = c.ll.PushFront(&memoryEntry{key: key, result: result, expiresAt: expires})
	for c.ll.Len() > c.maxEntries {
		oldest := c.ll.Back()
		c.ll.Remove(oldest)
		delete(c.items, oldest.Value.(*memoryEntry).key)
	}
}

// Len reports the number of stored entries, expired or not.
func (c *Memory) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}
