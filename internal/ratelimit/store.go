package ratelimit

import (
	"context"
	"time"
)

// Store defines the interface for rate limit counter storage.
type Store interface {
	// Incr atomically increments the counter for key and returns the new
	// count. When the increment creates the key, the implementation sets its
	// TTL to window; the TTL is never extended by later increments.
	Incr(ctx context.Context, key string, window time.Duration) (count int64, err error)

	// Reset deletes the counter for key, restoring the full budget.
	Reset(ctx context.Context, key string) error
}
