package items

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/serroba/items-api/internal/cache"
	"github.com/serroba/items-api/internal/events"
	"github.com/serroba/items-api/internal/messaging"
	"go.uber.org/zap"
)

// Service wraps a Repository with read-through caching and write-path
// invalidation. Reads are memoized under the "items" cache namespace; every
// committed write enqueues an eviction of that whole namespace and publishes
// an items.changed event for peer instances.
//
// A read racing a write may still serve the pre-write value until the
// eviction lands; the cache is eventually consistent with the repository.
type Service struct {
	repo           Repository
	cache          *cache.Cache
	invalidator    *cache.Invalidator
	publishChanged messaging.Publish[events.ItemChangedEvent]
	logger         *zap.Logger
}

// NewService creates an item service.
func NewService(
	repo Repository,
	c *cache.Cache,
	invalidator *cache.Invalidator,
	publishChanged messaging.Publish[events.ItemChangedEvent],
	logger *zap.Logger,
) *Service {
	return &Service{
		repo:           repo,
		cache:          c,
		invalidator:    invalidator,
		publishChanged: publishChanged,
		logger:         logger,
	}
}

// Get returns an item by ID, served from cache when fresh.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Item, error) {
	key := cache.Key(events.Namespace, "get", id)

	return cache.GetOrCompute(ctx, s.cache, key, 0, func(ctx context.Context) (*Item, error) {
		return s.repo.GetByID(ctx, id)
	})
}

// List returns a page of items, served from cache when fresh.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Item, error) {
	key := cache.Key(events.Namespace, "list", filter.Offset, filter.Limit)

	return cache.GetOrCompute(ctx, s.cache, key, 0, func(ctx context.Context) ([]*Item, error) {
		return s.repo.List(ctx, filter)
	})
}

// Count returns the total number of items, served from cache when fresh.
func (s *Service) Count(ctx context.Context) (int64, error) {
	key := cache.Key(events.Namespace, "count")

	return cache.GetOrCompute(ctx, s.cache, key, 0, func(ctx context.Context) (int64, error) {
		return s.repo.Count(ctx)
	})
}

// Create persists a new item and evicts cached reads.
func (s *Service) Create(ctx context.Context, in CreateItem) (*Item, error) {
	now := time.Now().UTC()
	item := &Item{
		ID:          uuid.New(),
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		ImagePath:   in.ImagePath,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}

	s.afterWrite(item.ID, events.ActionCreated)

	return item, nil
}

// Update applies a partial update and evicts cached reads.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateItem) (*Item, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		item.Title = *in.Title
	}

	if in.Description != nil {
		item.Description = *in.Description
	}

	if in.Price != nil {
		item.Price = *in.Price
	}

	if in.ImagePath != nil {
		item.ImagePath = *in.ImagePath
	}

	item.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}

	s.afterWrite(item.ID, events.ActionUpdated)

	return item, nil
}

// Delete removes an item and evicts cached reads.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.afterWrite(id, events.ActionDeleted)

	return nil
}

// afterWrite runs once the repository write committed. The caller's response
// does not wait for the eviction itself, only for it to be scheduled.
// Neither a full queue nor a publish failure fails the write.
func (s *Service) afterWrite(id uuid.UUID, action string) {
	if err := s.invalidator.Enqueue(events.Namespace + ":*"); err != nil {
		if errors.Is(err, cache.ErrQueueFull) {
			s.logger.Warn("invalidation queue full, cached reads stale until ttl",
				zap.String("item_id", id.String()),
				zap.String("action", action),
			)
		} else {
			s.logger.Warn("failed to schedule cache invalidation",
				zap.String("item_id", id.String()),
				zap.String("action", action),
				zap.Error(err),
			)
		}
	}

	event := &events.ItemChangedEvent{
		ItemID:     id.String(),
		Action:     action,
		OccurredAt: time.Now().UTC(),
	}

	if err := s.publishChanged(event); err != nil {
		s.logger.Error("failed to publish item changed event",
			zap.String("item_id", id.String()),
			zap.String("action", action),
			zap.Error(err),
		)
	}
}
