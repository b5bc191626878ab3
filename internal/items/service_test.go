package items_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/serroba/items-api/internal/cache"
	"github.com/serroba/items-api/internal/events"
	"github.com/serroba/items-api/internal/items"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	service     *items.Service
	repo        *items.MemoryRepository
	store       *cache.MemoryStore
	invalidator *cache.Invalidator
	published   *[]events.ItemChangedEvent
}

func newFixture(t *testing.T, cacheEnabled bool) *fixture {
	t.Helper()

	repo := items.NewMemoryRepository()
	store := cache.NewMemoryStore()
	c := cache.New(store, "cache:", 5*time.Minute, cacheEnabled, zap.NewNop())

	invalidator := cache.NewInvalidator(c, 16, cache.DropOldest, zap.NewNop())
	require.NoError(t, invalidator.Start(context.Background()))

	published := &[]events.ItemChangedEvent{}
	publish := func(event *events.ItemChangedEvent) error {
		*published = append(*published, *event)

		return nil
	}

	service := items.NewService(repo, c, invalidator, publish, zap.NewNop())

	return &fixture{
		service:     service,
		repo:        repo,
		store:       store,
		invalidator: invalidator,
		published:   published,
	}
}

// settle waits for queued invalidations to execute by stopping the worker.
func (f *fixture) settle(t *testing.T) {
	t.Helper()
	require.NoError(t, f.invalidator.Shutdown())
}

func TestService_Get(t *testing.T) {
	t.Run("serves second read from cache", func(t *testing.T) {
		f := newFixture(t, true)

		created, err := f.service.Create(context.Background(), items.CreateItem{Title: "widget", Price: 9.99})
		require.NoError(t, err)
		f.settle(t)

		got, err := f.service.Get(context.Background(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, "widget", got.Title)

		// Mutate the repository behind the service's back; a cached read
		// must not observe it.
		stale := *got
		stale.Title = "changed underneath"
		require.NoError(t, f.repo.Update(context.Background(), &stale))

		got, err = f.service.Get(context.Background(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, "widget", got.Title, "second read should come from cache")
	})

	t.Run("unknown id returns ErrNotFound", func(t *testing.T) {
		f := newFixture(t, true)

		_, err := f.service.Get(context.Background(), uuid.New())

		assert.ErrorIs(t, err, items.ErrNotFound)
	})

	t.Run("not found is not cached", func(t *testing.T) {
		f := newFixture(t, true)

		id := uuid.New()

		_, err := f.service.Get(context.Background(), id)
		require.ErrorIs(t, err, items.ErrNotFound)

		require.NoError(t, f.repo.Create(context.Background(), &items.Item{ID: id, Title: "late"}))

		got, err := f.service.Get(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, "late", got.Title)
	})
}

func TestService_WriteInvalidatesReads(t *testing.T) {
	t.Run("create evicts cached list", func(t *testing.T) {
		f := newFixture(t, true)

		listed, err := f.service.List(context.Background(), items.ListFilter{Limit: 10})
		require.NoError(t, err)
		assert.Empty(t, listed)

		_, err = f.service.Create(context.Background(), items.CreateItem{Title: "widget"})
		require.NoError(t, err)
		f.settle(t)

		listed, err = f.service.List(context.Background(), items.ListFilter{Limit: 10})
		require.NoError(t, err)
		assert.Len(t, listed, 1, "list cache should have been invalidated by the write")
	})

	t.Run("update evicts cached get", func(t *testing.T) {
		f := newFixture(t, true)

		created, err := f.service.Create(context.Background(), items.CreateItem{Title: "widget"})
		require.NoError(t, err)

		_, err = f.service.Get(context.Background(), created.ID)
		require.NoError(t, err)

		title := "gadget"
		_, err = f.service.Update(context.Background(), created.ID, items.UpdateItem{Title: &title})
		require.NoError(t, err)
		f.settle(t)

		got, err := f.service.Get(context.Background(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, "gadget", got.Title)
	})

	t.Run("delete evicts cached get", func(t *testing.T) {
		f := newFixture(t, true)

		created, err := f.service.Create(context.Background(), items.CreateItem{Title: "widget"})
		require.NoError(t, err)

		_, err = f.service.Get(context.Background(), created.ID)
		require.NoError(t, err)

		require.NoError(t, f.service.Delete(context.Background(), created.ID))
		f.settle(t)

		_, err = f.service.Get(context.Background(), created.ID)
		assert.ErrorIs(t, err, items.ErrNotFound)
	})
}

func TestService_PublishesChangeEvents(t *testing.T) {
	f := newFixture(t, true)

	created, err := f.service.Create(context.Background(), items.CreateItem{Title: "widget"})
	require.NoError(t, err)

	title := "gadget"
	_, err = f.service.Update(context.Background(), created.ID, items.UpdateItem{Title: &title})
	require.NoError(t, err)

	require.NoError(t, f.service.Delete(context.Background(), created.ID))

	require.Len(t, *f.published, 3)
	assert.Equal(t, events.ActionCreated, (*f.published)[0].Action)
	assert.Equal(t, events.ActionUpdated, (*f.published)[1].Action)
	assert.Equal(t, events.ActionDeleted, (*f.published)[2].Action)
	assert.Equal(t, created.ID.String(), (*f.published)[0].ItemID)
}

func TestService_CacheDisabled(t *testing.T) {
	f := newFixture(t, false)

	created, err := f.service.Create(context.Background(), items.CreateItem{Title: "widget"})
	require.NoError(t, err)

	_, err = f.service.Get(context.Background(), created.ID)
	require.NoError(t, err)

	// With caching off every read must hit the repository directly.
	stale := *created
	stale.Title = "fresh"
	require.NoError(t, f.repo.Update(context.Background(), &stale))

	got, err := f.service.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "fresh", got.Title)
	assert.Zero(t, f.store.Len())
}

func TestService_Count(t *testing.T) {
	f := newFixture(t, true)

	count, err := f.service.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = f.service.Create(context.Background(), items.CreateItem{Title: "widget"})
	require.NoError(t, err)
	f.settle(t)

	count, err = f.service.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
