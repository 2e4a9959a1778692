package ledger

import (
	"context"
	"sync"

	"github.com/AnnaCarter465/cargo-calc/calc"
	"github.com/AnnaCarter465/cargo-calc/expense"
)

// MemoryStore keeps the history in process memory.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots []calc.Snapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) ReadAll(_ context.Context) ([]calc.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]calc.Snapshot, len(m.snapshots))
	for i, s := range m.snapshots {
		s.Expenses = expense.Copy(s.Expenses)
		out[i] = s
	}

	return out, nil
}

func (m *MemoryStore) Append(_ context.Context, s calc.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s.Expenses = expense.Copy(s.Expenses)
	m.snapshots = append(m.snapshots, s)

	return nil
}

func (m *MemoryStore) DeleteAt(_ context.Context, storageIndex int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if storageIndex < 0 || storageIndex >= len(m.snapshots) {
		return ErrIndexOutOfRange
	}

	next := make([]calc.Snapshot, 0, len(m.snapshots)-1)
	next = append(next, m.snapshots[:storageIndex]...)
	next = append(next, m.snapshots[storageIndex+1:]...)
	m.snapshots = next

	return nil
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.snapshots = nil

	return nil
}
