package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Store.Get when the key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Store defines the interface for cache entry storage. Freshness is enforced
// by the store's own TTL expiry; entries are never re-validated in process.
type Store interface {
	// Get returns the value for key, or ErrMiss when absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// DeletePattern deletes all keys matching a glob-style pattern
	// (e.g. "cache:items:*") and returns the number deleted.
	DeletePattern(ctx context.Context, pattern string) (int64, error)
}
