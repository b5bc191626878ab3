package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
)

// Cache memoizes operation results in a shared store under a common key
// prefix. It is stateless in process; the store's TTL expiry is the sole
// freshness mechanism.
type Cache struct {
	store      Store
	prefix     string
	defaultTTL time.Duration
	enabled    bool
	logger     *zap.Logger
}

// New creates a cache over the given store. A nil store or enabled=false
// produces a pass-through cache: lookups always miss and nothing is written,
// so callers compute directly every time.
func New(store Store, prefix string, defaultTTL time.Duration, enabled bool, logger *zap.Logger) *Cache {
	return &Cache{
		store:      store,
		prefix:     prefix,
		defaultTTL: defaultTTL,
		enabled:    enabled,
		logger:     logger,
	}
}

// Enabled reports whether lookups and writes reach the store.
func (c *Cache) Enabled() bool {
	return c.enabled && c.store != nil
}

// DefaultTTL returns the expiry applied when a call site passes ttl <= 0.
func (c *Cache) DefaultTTL() time.Duration {
	return c.defaultTTL
}

// Invalidate deletes every entry matching pattern within this cache's
// prefix. Patterns are glob-style, scoped to a namespace ("items:*").
func (c *Cache) Invalidate(ctx context.Context, pattern string) (int64, error) {
	if !c.Enabled() {
		return 0, nil
	}

	return c.store.DeletePattern(ctx, c.prefix+pattern)
}

// GetOrCompute returns the cached value for key, or invokes compute, stores
// its JSON-serialized result with the given TTL (the cache default when
// ttl <= 0), and returns it.
//
// The cache is never a hard dependency: a disabled cache or an unreachable
// store degrades to calling compute directly, with the failure logged. A
// compute error is propagated and nothing is cached.
//
// There is no single-flight collapsing: concurrent misses on the same key
// each invoke compute independently.
func GetOrCompute[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, compute func(context.Context) (T, error)) (T, error) {
	var zero T

	if !c.Enabled() {
		return compute(ctx)
	}

	storeKey := c.prefix + key

	data, err := c.store.Get(ctx, storeKey)

	switch {
	case err == nil:
		var value T
		if err := json.Unmarshal(data, &value); err == nil {
			return value, nil
		}

		// Undecodable entry: treat as a miss and overwrite below.
		c.logger.Warn("discarding undecodable cache entry", zap.String("key", storeKey))
	case !errors.Is(err, ErrMiss):
		c.logger.Warn("cache read failed, computing directly",
			zap.String("key", storeKey),
			zap.Error(err),
		)

		return compute(ctx)
	}

	value, err := compute(ctx)
	if err != nil {
		return zero, err
	}

	payload, err := json.Marshal(value)
	if err != nil {
		c.logger.Error("failed to serialize cache entry",
			zap.String("key", storeKey),
			zap.Error(err),
		)

		return value, nil
	}

	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	if err := c.store.Set(ctx, storeKey, payload, ttl); err != nil {
		c.logger.Warn("cache write failed",
			zap.String("key", storeKey),
			zap.Error(err),
		)
	}

	return value, nil
}
