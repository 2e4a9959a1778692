package fixed

import (
	"context"
	"testing"

	"github.com/AnnaCarter465/cargo-calc/calc"
	"github.com/AnnaCarter465/cargo-calc/expense"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryAddListDelete(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(NewMemoryStore())

	kasko, err := r.Add(ctx, " Kasko ", 12_000, 20)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, kasko.ID)
	assert.Equal(t, "Kasko", kasko.Name)

	muayene, err := r.Add(ctx, "Muayene", 2_400, 20)
	require.NoError(t, err)

	items, err := r.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []expense.FixedItem{kasko, muayene}, items)

	require.NoError(t, r.Delete(ctx, kasko.ID))
	assert.ErrorIs(t, r.Delete(ctx, kasko.ID), ErrNotFound)

	items, err = r.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []expense.FixedItem{muayene}, items)
}

func TestPromoteIsOneShotCopy(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(NewMemoryStore())

	kasko, err := r.Add(ctx, "Kasko", 12_000, 20)
	require.NoError(t, err)

	promoted, err := r.Promote(ctx, kasko.ID)
	require.NoError(t, err)
	assert.Equal(t, expense.Item{Name: "Kasko", Amount: 1_000, VatRate: 20, Category: expense.Visible}, promoted)

	snapshot := calc.NewCalculator(nil).Compute(50_000, []expense.Item{promoted})

	require.NoError(t, r.Delete(ctx, kasko.ID))

	assert.Equal(t, float64(1_000), promoted.Amount)
	assert.Equal(t, float64(1_000), snapshot.Expenses[0].Amount)

	_, err = r.Promote(ctx, kasko.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSummarize(t *testing.T) {
	got := Summarize([]expense.FixedItem{
		{Name: "Kasko", YearlyAmount: 12_000, VatRate: 20},
		{Name: "Muayene", YearlyAmount: 1_100, VatRate: 10},
	})

	assert.Equal(t, Summary{TotalYearly: 13_100, TotalMonthly: 1_092, TotalMonthlyVat: 175}, got)
	assert.Equal(t, Summary{}, Summarize(nil))
}
