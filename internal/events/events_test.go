package events_test

import (
	"context"
	"testing"
	"time"

	"github.com/serroba/items-api/internal/cache"
	"github.com/serroba/items-api/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewInvalidationHandler(t *testing.T) {
	t.Run("evicts the items namespace", func(t *testing.T) {
		store := cache.NewMemoryStore()
		c := cache.New(store, "cache:", time.Minute, true, zap.NewNop())

		require.NoError(t, store.Set(context.Background(), "cache:items:get:1", []byte("v"), time.Minute))
		require.NoError(t, store.Set(context.Background(), "cache:users:get:1", []byte("v"), time.Minute))

		invalidator := cache.NewInvalidator(c, 4, cache.Reject, zap.NewNop())
		require.NoError(t, invalidator.Start(context.Background()))

		handler := events.NewInvalidationHandler(invalidator, zap.NewNop())

		err := handler(context.Background(), &events.ItemChangedEvent{
			ItemID:     "a2ae1d6a-6ba5-4ebd-93e9-3cbcf2c6bbc0",
			Action:     events.ActionUpdated,
			OccurredAt: time.Now(),
		})

		require.NoError(t, err)
		require.NoError(t, invalidator.Shutdown())

		_, err = store.Get(context.Background(), "cache:items:get:1")
		assert.ErrorIs(t, err, cache.ErrMiss)

		_, err = store.Get(context.Background(), "cache:users:get:1")
		assert.NoError(t, err)
	})

	t.Run("never errors even when the queue is full", func(t *testing.T) {
		c := cache.New(cache.NewMemoryStore(), "cache:", time.Minute, true, zap.NewNop())

		// Capacity 1, not started: the second enqueue hits a full queue.
		invalidator := cache.NewInvalidator(c, 1, cache.Reject, zap.NewNop())
		handler := events.NewInvalidationHandler(invalidator, zap.NewNop())

		event := &events.ItemChangedEvent{ItemID: "1", Action: events.ActionCreated}

		require.NoError(t, handler(context.Background(), event))
		assert.NoError(t, handler(context.Background(), event), "full queue must not nack the message")
	})
}
