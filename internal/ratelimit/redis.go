package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a Redis implementation of Store.
type RedisStore struct {
	client redis.Cmdable
}

// NewRedisStore creates a Redis-backed rate limit store.
func NewRedisStore(client redis.Cmdable) *RedisStore {
	return &RedisStore{client: client}
}

// Incr pipelines INCR and TTL, then sets the window TTL when the key has
// none (i.e. this increment created it).
//
// Between INCR and EXPIRE a concurrent first-request burst can observe "no
// TTL" and issue EXPIRE again. EXPIRE is idempotent, so the duplicate is a
// no-op; the only effect is that the window may start marginally after the
// true first request. Counters are never decremented and a TTL is never
// reset mid-window.
func (s *RedisStore) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := s.client.Pipeline()
	incr := pipe.Incr(ctx, key)
	ttl := pipe.TTL(ctx, key)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}

	if ttl.Val() < 0 {
		if err := s.client.Expire(ctx, key, window).Err(); err != nil {
			return 0, err
		}
	}

	return incr.Val(), nil
}

// Reset deletes the counter key.
func (s *RedisStore) Reset(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

var _ Store = (*RedisStore)(nil)
