package items

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository is an in-memory implementation of Repository.
type MemoryRepository struct {
	mu    sync.RWMutex
	items map[uuid.UUID]Item
}

// NewMemoryRepository creates a new in-memory item repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		items: make(map[uuid.UUID]Item),
	}
}

func (m *MemoryRepository) Create(_ context.Context, item *Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items[item.ID] = *item

	return nil
}

func (m *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	item, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}

	return &item, nil
}

func (m *MemoryRepository) List(_ context.Context, filter ListFilter) ([]*Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := make([]*Item, 0, len(m.items))
	for id := range m.items {
		item := m.items[id]
		all = append(all, &item)
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if filter.Offset >= len(all) {
		return nil, nil
	}

	all = all[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(all) {
		all = all[:filter.Limit]
	}

	return all, nil
}

func (m *MemoryRepository) Count(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return int64(len(m.items)), nil
}

func (m *MemoryRepository) Update(_ context.Context, item *Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[item.ID]; !ok {
		return ErrNotFound
	}

	m.items[item.ID] = *item

	return nil
}

func (m *MemoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[id]; !ok {
		return ErrNotFound
	}

	delete(m.items, id)

	return nil
}

var _ Repository = (*MemoryRepository)(nil)
