package vat

import (
	"slices"

	"github.com/AnnaCarter465/cargo-calc/expense"
)

// FlatRate is the output VAT rate applied to revenue, in percent.
const FlatRate float64 = 20

// Rates lists the VAT rates an expense may carry, in percent.
var Rates = []float64{0, 1, 10, 20}

func Allowed(rate float64) bool {
	return slices.Contains(Rates, rate)
}

type Result struct {
	OutputVat          float64
	DeductibleVatTotal float64
	VatPayable         float64
}

// OutputVat extracts the VAT embedded in VAT-inclusive revenue at the flat rate.
func OutputVat(revenue float64) float64 {
	return expense.Included(revenue, FlatRate)
}

// DeductibleVat sums the input VAT of every expense, hidden ones included.
func DeductibleVat(items []expense.Item) float64 {
	var total float64

	for _, item := range items {
		total += item.Vat()
	}

	return total
}

// Compute derives the VAT position for one period. An excess credit is clamped
// to zero and is not carried into later periods.
func Compute(revenue float64, items []expense.Item) Result {
	output := OutputVat(revenue)
	deductible := expense.NonNegative(DeductibleVat(items))

	payable := output - deductible
	if payable < 0 {
		payable = 0
	}

	return Result{
		OutputVat:          output,
		DeductibleVatTotal: deductible,
		VatPayable:         payable,
	}
}
