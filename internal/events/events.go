// Package events defines the item-change events that fan cache invalidation
// out to every service instance. A write commits locally, then publishes; the
// staleness window on peer instances lasts until their consumer processes the
// event, so cross-instance consistency is eventual.
package events

import (
	"context"
	"time"

	"github.com/serroba/items-api/internal/cache"
	"github.com/serroba/items-api/internal/messaging"
	"go.uber.org/zap"
)

// TopicItemChanged carries ItemChangedEvent messages.
const TopicItemChanged = "items.changed"

// Actions recorded on ItemChangedEvent.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// ItemChangedEvent is emitted after a write to an item commits.
type ItemChangedEvent struct {
	ItemID     string    `json:"itemId"`
	Action     string    `json:"action"`
	OccurredAt time.Time `json:"occurredAt"`
}

// NewInvalidationHandler returns a handler that evicts the items cache
// namespace whenever any instance commits a write. The eviction is enqueued,
// not executed inline, so a slow scan cannot back up the event stream.
func NewInvalidationHandler(invalidator *cache.Invalidator, logger *zap.Logger) messaging.Handler[ItemChangedEvent] {
	return func(_ context.Context, event *ItemChangedEvent) error {
		if err := invalidator.Enqueue(Namespace + ":*"); err != nil {
			logger.Warn("failed to enqueue invalidation for item change",
				zap.String("item_id", event.ItemID),
				zap.String("action", event.Action),
				zap.Error(err),
			)

			// Ack anyway: entries age out by TTL, and nacking would just
			// replay into the same full queue.
		}

		return nil
	}
}

// Namespace is the cache namespace item reads are stored under.
const Namespace = "items"
