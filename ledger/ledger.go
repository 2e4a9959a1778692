package ledger

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/AnnaCarter465/cargo-calc/calc"
	"github.com/AnnaCarter465/cargo-calc/expense"
	"go.uber.org/zap"
)

var ErrIndexOutOfRange = errors.New("history index out of range")

// Store is a durable, insertion-ordered collection of snapshots. Every method
// is a single atomic operation on the whole collection.
type Store interface {
	ReadAll(ctx context.Context) ([]calc.Snapshot, error)
	Append(ctx context.Context, s calc.Snapshot) error
	DeleteAt(ctx context.Context, storageIndex int) error
	Clear(ctx context.Context) error
}

type Ledger struct {
	mu    sync.Mutex
	store Store
	log   *zap.Logger
	now   func() time.Time
}

type Option func(*Ledger)

func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

func New(store Store, log *zap.Logger, opts ...Option) *Ledger {
	if log == nil {
		log = zap.NewNop()
	}

	l := &Ledger{
		store: store,
		log:   log.Named("ledger"),
		now:   time.Now,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Append stamps the snapshot with the current time and stores it.
func (l *Ledger) Append(ctx context.Context, s calc.Snapshot) (calc.Snapshot, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	// TIMESTAMPTZ keeps microseconds.
	s.Timestamp = l.now().UTC().Truncate(time.Microsecond)
	s.Expenses = expense.Copy(s.Expenses)

	if err := l.store.Append(ctx, s); err != nil {
		l.log.Error("failed to append snapshot", zap.Error(err))
		return s, err
	}

	l.log.Debug("snapshot appended", zap.Time("timestamp", s.Timestamp), zap.Float64("revenue", s.Revenue))

	return s, nil
}

// ListNewestFirst returns the history, most recent first. An unreadable store
// is treated as an empty history.
func (l *Ledger) ListNewestFirst(ctx context.Context) []calc.Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	return reversed(l.readAll(ctx))
}

// Get returns the entry at displayIndex in the newest-first view.
func (l *Ledger) Get(ctx context.Context, displayIndex int) (calc.Snapshot, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	all := l.readAll(ctx)

	i, err := storageIndex(len(all), displayIndex)
	if err != nil {
		return calc.Snapshot{}, err
	}

	return all[i], nil
}

// DeleteAt removes the entry shown at displayIndex in the newest-first view.
func (l *Ledger) DeleteAt(ctx context.Context, displayIndex int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i, err := storageIndex(len(l.readAll(ctx)), displayIndex)
	if err != nil {
		return err
	}

	if err := l.store.DeleteAt(ctx, i); err != nil {
		l.log.Error("failed to delete snapshot", zap.Int("storageIndex", i), zap.Error(err))
		return err
	}

	return nil
}

func (l *Ledger) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.store.Clear(ctx); err != nil {
		l.log.Error("failed to clear history", zap.Error(err))
		return err
	}

	return nil
}

func (l *Ledger) readAll(ctx context.Context) []calc.Snapshot {
	all, err := l.store.ReadAll(ctx)
	if err != nil {
		l.log.Warn("history unreadable, using empty history", zap.Error(err))
		return nil
	}

	return all
}

// storageIndex maps a newest-first position onto insertion order.
func storageIndex(n, displayIndex int) (int, error) {
	if displayIndex < 0 || displayIndex >= n {
		return 0, ErrIndexOutOfRange
	}

	return n - 1 - displayIndex, nil
}

func reversed(all []calc.Snapshot) []calc.Snapshot {
	out := make([]calc.Snapshot, len(all))

	for i, s := range all {
		out[len(all)-1-i] = s
	}

	return out
}
