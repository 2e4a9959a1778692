package fixed

import (
	"context"
	"errors"
	"strings"

	"github.com/AnnaCarter465/cargo-calc/expense"
	"github.com/google/uuid"
)

var ErrNotFound = errors.New("fixed expense not found")

type Store interface {
	ListFixedExpenses(ctx context.Context) ([]expense.FixedItem, error)
	InsertFixedExpense(ctx context.Context, item expense.FixedItem) error
	DeleteFixedExpense(ctx context.Context, id uuid.UUID) error
}

// Registry manages the yearly fixed expenses that can be promoted into a
// period's expense list.
type Registry struct {
	store Store
	newID func() uuid.UUID
}

func NewRegistry(store Store) *Registry {
	return &Registry{store: store, newID: uuid.New}
}

func (r *Registry) Add(ctx context.Context, name string, yearlyAmount, vatRate float64) (expense.FixedItem, error) {
	item := expense.FixedItem{
		ID:           r.newID(),
		Name:         strings.TrimSpace(name),
		YearlyAmount: yearlyAmount,
		VatRate:      vatRate,
	}

	if err := r.store.InsertFixedExpense(ctx, item); err != nil {
		return expense.FixedItem{}, err
	}

	return item, nil
}

func (r *Registry) List(ctx context.Context) ([]expense.FixedItem, error) {
	return r.store.ListFixedExpenses(ctx)
}

func (r *Registry) Delete(ctx context.Context, id uuid.UUID) error {
	return r.store.DeleteFixedExpense(ctx, id)
}

// Promote returns a one-shot monthly copy of the fixed expense.
func (r *Registry) Promote(ctx context.Context, id uuid.UUID) (expense.Item, error) {
	items, err := r.store.ListFixedExpenses(ctx)
	if err != nil {
		return expense.Item{}, err
	}

	for _, item := range items {
		if item.ID == id {
			return expense.Promote(item), nil
		}
	}

	return expense.Item{}, ErrNotFound
}

type Summary struct {
	TotalYearly     float64 `json:"totalYearly"`
	TotalMonthly    float64 `json:"totalMonthly"`
	TotalMonthlyVat float64 `json:"totalMonthlyVat"`
}

func Summarize(items []expense.FixedItem) Summary {
	var yearly, yearlyVat float64

	for _, item := range items {
		yearly += item.YearlyAmount
		yearlyVat += expense.Included(item.YearlyAmount, item.VatRate)
	}

	return Summary{
		TotalYearly:     yearly,
		TotalMonthly:    expense.MonthlyAmount(yearly),
		TotalMonthlyVat: expense.MonthlyAmount(yearlyVat),
	}
}
