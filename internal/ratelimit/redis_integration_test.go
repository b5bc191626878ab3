//go:build integration

package ratelimit_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/items-api/internal/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getRedisAddr() string {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return addr
	}
	return "localhost:6379"
}

func TestRedisStoreIntegration(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr: getRedisAddr(),
	})
	defer client.Close()

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	store := ratelimit.NewRedisStore(client)

	t.Run("increments and sets window ttl once", func(t *testing.T) {
		key := "ratelimit:integration:client1"
		client.Del(ctx, key)

		count, err := store.Incr(ctx, key, 60*time.Second)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		ttl, err := client.TTL(ctx, key).Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, 55*time.Second)

		count, err = store.Incr(ctx, key, 60*time.Second)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		// Second increment must not extend the window.
		ttl2, err := client.TTL(ctx, key).Result()
		require.NoError(t, err)
		assert.LessOrEqual(t, ttl2, ttl)

		client.Del(ctx, key)
	})

	t.Run("counter resets after expiry", func(t *testing.T) {
		key := "ratelimit:integration:client2"
		client.Del(ctx, key)

		_, err := store.Incr(ctx, key, time.Second)
		require.NoError(t, err)

		time.Sleep(1100 * time.Millisecond)

		count, err := store.Incr(ctx, key, time.Second)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		client.Del(ctx, key)
	})

	t.Run("reset deletes the counter", func(t *testing.T) {
		key := "ratelimit:integration:client3"
		client.Del(ctx, key)

		_, err := store.Incr(ctx, key, 60*time.Second)
		require.NoError(t, err)

		require.NoError(t, store.Reset(ctx, key))

		count, err := store.Incr(ctx, key, 60*time.Second)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		client.Del(ctx, key)
	})
}
