package cache

import (
	"context"
	"path"
	"sync"
	"time"
)

type entry struct {
	value    []byte
	expireAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expireAt.IsZero() && now.After(e.expireAt)
}

// MemoryStore is an in-memory implementation of Store for tests and
// single-process runs. Patterns use path.Match glob syntax, mirroring the
// Redis MATCH subset this code relies on ("prefix:*").
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]entry
}

// NewMemoryStore creates a new in-memory cache store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]entry),
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, ErrMiss
	}

	if e.expired(time.Now()) {
		delete(s.entries, key)

		return nil, ErrMiss
	}

	return e.value, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := entry{value: value}
	if ttl > 0 {
		e.expireAt = time.Now().Add(ttl)
	}

	s.entries[key] = e

	return nil
}

func (s *MemoryStore) DeletePattern(_ context.Context, pattern string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64

	for key := range s.entries {
		ok, err := path.Match(pattern, key)
		if err != nil {
			return deleted, err
		}

		if ok {
			delete(s.entries, key)
			deleted++
		}
	}

	return deleted, nil
}

// Len reports the number of stored entries, expired or not. Test helper.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.entries)
}

var _ Store = (*MemoryStore)(nil)
