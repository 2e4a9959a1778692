package fixed

import (
	"context"
	"sync"

	"github.com/AnnaCarter465/cargo-calc/expense"
	"github.com/google/uuid"
)

type MemoryStore struct {
	mu    sync.RWMutex
	items []expense.FixedItem
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) ListFixedExpenses(_ context.Context) ([]expense.FixedItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]expense.FixedItem, len(m.items))
	copy(out, m.items)

	return out, nil
}

func (m *MemoryStore) InsertFixedExpense(_ context.Context, item expense.FixedItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items = append(m.items, item)

	return nil
}

func (m *MemoryStore) DeleteFixedExpense(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, item := range m.items {
		if item.ID != id {
			continue
		}

		next := make([]expense.FixedItem, 0, len(m.items)-1)
		next = append(next, m.items[:i]...)
		m.items = append(next, m.items[i+1:]...)

		return nil
	}

	return ErrNotFound
}
