package expense

import (
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Category string

const (
	Visible Category = "visible"
	Hidden  Category = "hidden"
)

// HiddenName is the reserved expense name that is deductible but not a cash outflow.
const HiddenName = "fatura"

// CategoryOf classifies an expense by its user-entered name.
func CategoryOf(name string) Category {
	if strings.ToLower(strings.TrimSpace(name)) == HiddenName {
		return Hidden
	}

	return Visible
}

type Item struct {
	Name     string   `json:"name"`
	Amount   float64  `json:"amount"`
	VatRate  float64  `json:"vatRate"`
	Category Category `json:"category"`
}

func NewItem(name string, amount, vatRate float64) Item {
	name = strings.TrimSpace(name)

	return Item{
		Name:     name,
		Amount:   amount,
		VatRate:  vatRate,
		Category: CategoryOf(name),
	}
}

func (i Item) IsHidden() bool {
	return i.Category == Hidden
}

// Vat is the VAT share embedded in the VAT-inclusive amount.
func (i Item) Vat() float64 {
	return Included(i.Amount, i.VatRate)
}

// ExclVat is the amount with its VAT share removed.
func (i Item) ExclVat() float64 {
	return Excluded(i.Amount, i.VatRate)
}

// Included extracts the VAT component of a VAT-inclusive amount. Negative or
// indeterminate results are reported as zero.
func Included(amount, rate float64) float64 {
	return NonNegative(NonNegative(amount) * (rate / (100 + rate)))
}

// Excluded strips VAT from a VAT-inclusive amount. Negative or indeterminate
// results are reported as zero.
func Excluded(amount, rate float64) float64 {
	return NonNegative(NonNegative(amount) / (1 + rate/100))
}

func Finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}

	return v
}

func NonNegative(v float64) float64 {
	v = Finite(v)
	if v < 0 {
		return 0
	}

	return v
}

// Copy returns a slice that shares no backing array with items.
func Copy(items []Item) []Item {
	if items == nil {
		return []Item{}
	}

	out := make([]Item, len(items))
	copy(out, items)

	return out
}

type FixedItem struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	YearlyAmount float64   `json:"yearlyAmount"`
	VatRate      float64   `json:"vatRate"`
}

type MonthlyFixedExpense struct {
	Name    string  `json:"name"`
	Amount  float64 `json:"amount"`
	VatRate float64 `json:"vatRate"`
	IsFixed bool    `json:"isFixed"`
}

func Monthly(f FixedItem) MonthlyFixedExpense {
	return MonthlyFixedExpense{
		Name:    f.Name,
		Amount:  MonthlyAmount(f.YearlyAmount),
		VatRate: f.VatRate,
		IsFixed: true,
	}
}

// Promote copies a fixed item into the current period as a regular expense.
// The result is independent of f.
func Promote(f FixedItem) Item {
	return NewItem(f.Name, MonthlyAmount(f.YearlyAmount), f.VatRate)
}

// MonthlyAmount spreads a yearly amount over twelve months, rounded to the
// nearest whole unit.
func MonthlyAmount(yearly float64) float64 {
	return RoundWhole(Finite(yearly) / 12)
}

// RoundWhole rounds half away from zero.
func RoundWhole(v float64) float64 {
	return decimal.NewFromFloat(Finite(v)).Round(0).InexactFloat64()
}
