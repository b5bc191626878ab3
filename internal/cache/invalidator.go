package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrQueueFull is returned by Enqueue under the Reject overflow policy when
// the queue is at capacity.
var ErrQueueFull = errors.New("invalidation queue full")

// errShutdown is returned when Enqueue is called after Shutdown.
var errShutdown = errors.New("invalidator stopped")

// OverflowPolicy selects what Enqueue does when the queue is full.
type OverflowPolicy int

const (
	// DropOldest evicts the oldest queued pattern to make room. The dropped
	// pattern is logged; entries it would have removed age out by TTL.
	DropOldest OverflowPolicy = iota
	// Reject refuses the new pattern with ErrQueueFull.
	Reject
)

// patternTimeout bounds each store round-trip so a hung scan cannot stall
// the queue indefinitely.
const patternTimeout = 30 * time.Second

// Invalidator executes pattern deletions from a bounded queue, detached from
// the requests that enqueue them. A write's invalidation is guaranteed to be
// scheduled once Enqueue returns nil, even if the originating request context
// ends immediately afterward; the deletions themselves are asynchronous and
// best-effort, so reads may see stale entries until they land (eventual, not
// immediate, consistency).
type Invalidator struct {
	cache   *Cache
	queue   chan string
	policy  OverflowPolicy
	logger  *zap.Logger
	mu      sync.Mutex
	started bool
	stopped bool
	done    chan struct{}
}

// NewInvalidator creates an invalidator with the given queue capacity.
func NewInvalidator(c *Cache, queueSize int, policy OverflowPolicy, logger *zap.Logger) *Invalidator {
	return &Invalidator{
		cache:  c,
		queue:  make(chan string, queueSize),
		policy: policy,
		logger: logger,
		done:   make(chan struct{}),
	}
}

// Start launches the worker. The context only scopes startup; queued work
// runs under the invalidator's own lifetime so caller cancellation cannot
// drop it.
func (i *Invalidator) Start(_ context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.started {
		return errors.New("invalidator already started")
	}

	i.started = true

	go i.run()

	return nil
}

// Enqueue schedules deletion of all cache entries matching pattern. It never
// blocks: a full queue is handled per the configured overflow policy.
func (i *Invalidator) Enqueue(pattern string) error {
	// The lock spans the send so Shutdown cannot close the queue mid-call.
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.stopped {
		return errShutdown
	}

	for {
		select {
		case i.queue <- pattern:
			return nil
		default:
		}

		if i.policy == Reject {
			return ErrQueueFull
		}

		select {
		case dropped := <-i.queue:
			i.logger.Warn("invalidation queue full, dropped oldest pattern",
				zap.String("dropped", dropped),
				zap.String("enqueued", pattern),
			)
		default:
			// A worker drained the queue between the two selects; retry.
		}
	}
}

func (i *Invalidator) run() {
	defer close(i.done)

	for pattern := range i.queue {
		i.invalidate(pattern)
	}
}

func (i *Invalidator) invalidate(pattern string) {
	ctx, cancel := context.WithTimeout(context.Background(), patternTimeout)
	defer cancel()

	deleted, err := i.cache.Invalidate(ctx, pattern)
	if err != nil {
		// Best-effort: the write that triggered this already succeeded.
		i.logger.Warn("cache invalidation failed",
			zap.String("pattern", pattern),
			zap.Int64("deleted", deleted),
			zap.Error(err),
		)

		return
	}

	i.logger.Debug("cache invalidated",
		zap.String("pattern", pattern),
		zap.Int64("deleted", deleted),
	)
}

// Shutdown stops accepting new patterns, drains everything already queued,
// and waits for the worker to exit.
func (i *Invalidator) Shutdown() error {
	i.mu.Lock()
	if i.stopped {
		i.mu.Unlock()

		return nil
	}

	i.stopped = true
	started := i.started
	close(i.queue)
	i.mu.Unlock()

	if started {
		<-i.done
	}

	return nil
}
