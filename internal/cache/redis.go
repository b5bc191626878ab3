package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// scanBatch is the COUNT hint for SCAN and the DEL batch size.
const scanBatch = 128

// RedisStore is a Redis implementation of Store.
type RedisStore struct {
	client redis.Cmdable
}

// NewRedisStore creates a Redis-backed cache store.
func NewRedisStore(client redis.Cmdable) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}

		return nil, err
	}

	return value, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

// DeletePattern walks matching keys with SCAN and deletes them in batches.
// SCAN is cursor-based, so keys written concurrently with the scan may or
// may not be seen; eviction is best-effort.
func (s *RedisStore) DeletePattern(ctx context.Context, pattern string) (int64, error) {
	var (
		deleted int64
		batch   []string
	)

	iter := s.client.Scan(ctx, 0, pattern, scanBatch).Iterator()
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())

		if len(batch) >= scanBatch {
			n, err := s.client.Del(ctx, batch...).Result()
			deleted += n

			if err != nil {
				return deleted, err
			}

			batch = batch[:0]
		}
	}

	if err := iter.Err(); err != nil {
		return deleted, err
	}

	if len(batch) > 0 {
		n, err := s.client.Del(ctx, batch...).Result()
		deleted += n

		if err != nil {
			return deleted, err
		}
	}

	return deleted, nil
}

var _ Store = (*RedisStore)(nil)
