package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const circuitDetailTTL = 10 * time.Minute

// CircuitDetailCache stores rendered circuit-detail payloads keyed by a
// composite identity. Writes invalidate only the touched key; there is no
// wholesale flush, so concurrent edits of different circuits do not bust
// each other's entries.
type CircuitDetailCache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewCircuitDetailCache creates a cache backed by the given Redis client.
func NewCircuitDetailCache(client *redis.Client, logger *zap.Logger) *CircuitDetailCache {
	return &CircuitDetailCache{client: client, logger: logger}
}

// Key builds the composite cache key for a circuit detail payload.
func Key(parts ...string) string {
	values := make([]string, 0, len(parts)+1)
	values = append(values, "circuit")
	for _, part := range parts {
		trimmed := strings.ToLower(strings.TrimSpace(part))
		if trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return strings.Join(values, "|")
}

// Get loads a cached payload into v. The second return is false on a miss.
// Redis errors degrade to a miss; the cache never fails a read path.
func (c *CircuitDetailCache) Get(ctx context.Context, key string, v interface{}) bool {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		c.logger.Warn("cache entry corrupt, dropping", zap.String("key", key), zap.Error(err))
		_ = c.client.Del(ctx, key).Err()
		return false
	}
	return true
}

// Set stores a payload under key with the standard TTL. Failures are
// logged and ignored.
func (c *CircuitDetailCache) Set(ctx context.Context, key string, v interface{}) {
	raw, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("cache marshal failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, key, raw, circuitDetailTTL).Err(); err != nil {
		c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate removes exactly the given keys.
func (c *CircuitDetailCache) Invalidate(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}
