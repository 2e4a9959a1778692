package calc

import (
	"time"

	"github.com/AnnaCarter465/cargo-calc/expense"
	"github.com/AnnaCarter465/cargo-calc/tax"
	"github.com/AnnaCarter465/cargo-calc/vat"
	"github.com/shopspring/decimal"
)

// Snapshot is one complete computation. Its JSON layout is the persisted
// record layout consumed by history and export.
type Snapshot struct {
	Revenue             float64        `json:"revenue"`
	VisibleExpenseTotal float64        `json:"visibleExpenseTotal"`
	DeductibleVatTotal  float64        `json:"deductibleVatTotal"`
	OutputVat           float64        `json:"outputVat"`
	VatPayable          float64        `json:"vatPayable"`
	IncomeTaxBase       float64        `json:"incomeTaxBase"`
	IncomeTax           float64        `json:"incomeTax"`
	NetProfit           float64        `json:"netProfit"`
	Expenses            []expense.Item `json:"expenses"`
	Timestamp           time.Time      `json:"timestamp"`
}

type Calculator struct {
	brackets []tax.Bracket
}

func NewCalculator(brackets []tax.Bracket) *Calculator {
	if len(brackets) == 0 {
		brackets = tax.DefaultBrackets
	}

	return &Calculator{brackets: brackets}
}

// Compute runs the VAT and income-tax engines over the same inputs and
// combines them into a snapshot. Hidden expenses reduce both tax lines but are
// left out of the visible expense total.
func (c *Calculator) Compute(revenue float64, items []expense.Item) Snapshot {
	revenue = expense.NonNegative(revenue)

	v := vat.Compute(revenue, items)

	summary := tax.NewTax(tax.TaxConfig{Brackets: c.brackets}).
		SetRevenue(revenue).
		AddExpenses(items...).
		CalculateTaxSummary()

	s := Snapshot{
		Revenue:             Round2(revenue),
		VisibleExpenseTotal: Round2(VisibleTotal(items)),
		DeductibleVatTotal:  Round2(v.DeductibleVatTotal),
		OutputVat:           Round2(v.OutputVat),
		VatPayable:          Round2(v.VatPayable),
		IncomeTaxBase:       Round2(summary.MonthlyBase),
		IncomeTax:           Round2(summary.Tax),
		Expenses:            expense.Copy(items),
	}
	s.NetProfit = netProfit(s)

	return s
}

// netProfit is taken from the rounded fields so a stored snapshot always
// satisfies revenue - visible - vatPayable - incomeTax exactly.
func netProfit(s Snapshot) float64 {
	return decimal.NewFromFloat(s.Revenue).
		Sub(decimal.NewFromFloat(s.VisibleExpenseTotal)).
		Sub(decimal.NewFromFloat(s.VatPayable)).
		Sub(decimal.NewFromFloat(s.IncomeTax)).
		Round(2).
		InexactFloat64()
}

// TaxStatements exposes the per-bracket split of the yearly tax.
func (c *Calculator) TaxStatements(revenue float64, items []expense.Item) []tax.TaxStatement {
	return tax.NewTax(tax.TaxConfig{Brackets: c.brackets}).
		SetRevenue(revenue).
		AddExpenses(items...).
		CalculateTaxSummary().
		TaxStatements
}

func VisibleTotal(items []expense.Item) float64 {
	var total float64

	for _, item := range items {
		if item.IsHidden() {
			continue
		}

		total += expense.NonNegative(item.Amount)
	}

	return total
}

type Breakdown struct {
	HiddenExpenseTotal float64 `json:"hiddenExpenseTotal"`
	HiddenVat          float64 `json:"hiddenVat"`
	TotalTaxBurden     float64 `json:"totalTaxBurden"`
}

// Explain derives the summary figures shown next to a snapshot.
func Explain(s Snapshot) Breakdown {
	var hidden, hiddenVat float64

	for _, item := range s.Expenses {
		if !item.IsHidden() {
			continue
		}

		hidden += expense.NonNegative(item.Amount)
		hiddenVat += item.Vat()
	}

	return Breakdown{
		HiddenExpenseTotal: Round2(hidden),
		HiddenVat:          Round2(hiddenVat),
		TotalTaxBurden:     Round2(s.VatPayable + s.IncomeTax),
	}
}

// Round2 rounds a currency amount to two decimals, half away from zero.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(expense.Finite(v)).Round(2).InexactFloat64()
}
