package refcache

import (
	"context"
	"encoding/json"

	"github.com/fekuna/cardmap-service/pkg/logger"
	"github.com/fekuna/cardmap-service/pkg/metrics"
	"go.uber.org/zap"
)

// Cache is the process-wide reference cache. Values are stored as JSON.
type Cache struct {
	backend Backend
	logger  logger.ZapLogger
}

func New(backend Backend, log logger.ZapLogger) *Cache {
	return &Cache{backend: backend, logger: log}
}

// Fetch returns the value in slot/key, calling load on a miss and storing
// its result. A failed load stores nothing. Backend failures are logged and
// fall through to load, so a broken cache costs latency, not availability.
// Concurrent misses may both load; the last Put wins.
func Fetch[T any](ctx context.Context, c *Cache, slot, key string, load func(context.Context) (T, error)) (T, error) {
	raw, ok, err := c.backend.Get(ctx, slot, key)
	switch {
	case err != nil:
		metrics.CacheRequests.WithLabelValues(slot, "error").Inc()
		c.logger.Warn("cache read failed", zap.String("slot", slot), zap.String("key", key), zap.Error(err))
	case ok:
		var v T
		err := json.Unmarshal(raw, &v)
		if err == nil {
			metrics.CacheRequests.WithLabelValues(slot, "hit").Inc()
			return v, nil
		}
		c.logger.Warn("cache entry undecodable", zap.String("slot", slot), zap.String("key", key), zap.Error(err))
	}
	metrics.CacheRequests.WithLabelValues(slot, "miss").Inc()

	v, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	encoded, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("cache entry unencodable", zap.String("slot", slot), zap.Error(err))
		return v, nil
	}
	if err := c.backend.Put(ctx, slot, key, encoded); err != nil {
		c.logger.Warn("cache write failed", zap.String("slot", slot), zap.String("key", key), zap.Error(err))
	}
	return v, nil
}

func (c *Cache) Evict(ctx context.Context, slot string) error {
	metrics.CacheEvictions.WithLabelValues(slot).Inc()
	c.logger.Debug("cache evict", zap.String("slot", slot))
	return c.backend.Evict(ctx, slot)
}

func (c *Cache) EvictKey(ctx context.Context, slot, key string) error {
	metrics.CacheEvictions.WithLabelValues(slot).Inc()
	c.logger.Debug("cache evict key", zap.String("slot", slot), zap.String("key", key))
	return c.backend.EvictKey(ctx, slot, key)
}

func (c *Cache) EvictAll(ctx context.Context) error {
	metrics.CacheEvictions.WithLabelValues("*").Inc()
	c.logger.Info("cache evict all")
	return c.backend.EvictAll(ctx)
}

func (c *Cache) Close() error {
	return c.backend.Close()
}
