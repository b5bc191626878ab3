package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	count    int64
	expireAt time.Time
}

// MemoryStore is an in-memory implementation of Store for tests and
// single-process runs. Counters expire lazily on the next increment.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]*window
}

// NewMemoryStore creates a new in-memory rate limit store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		windows: make(map[string]*window),
	}
}

func (s *MemoryStore) Incr(_ context.Context, key string, windowLen time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()

	w, ok := s.windows[key]
	if !ok || now.After(w.expireAt) {
		w = &window{expireAt: now.Add(windowLen)}
		s.windows[key] = w
	}

	w.count++

	return w.count, nil
}

func (s *MemoryStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.windows, key)

	return nil
}

var _ Store = (*MemoryStore)(nil)
