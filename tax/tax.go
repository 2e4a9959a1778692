package tax

import (
	"fmt"
	"math"

	"github.com/AnnaCarter465/cargo-calc/expense"
	"github.com/AnnaCarter465/cargo-calc/vat"
)

// MonthsPerYear is used to annualize the monthly base, since bracket bounds are yearly.
const MonthsPerYear = 12

type Bracket struct {
	LowerBound         float64
	UpperBound         float64 // exclusive, math.Inf(1) for the top bracket
	MarginalRate       float64
	FixedTaxBelowBound float64
	Label              string
}

// DefaultBrackets is the yearly progressive income-tax schedule.
var DefaultBrackets = []Bracket{
	{LowerBound: 0, UpperBound: 158_000, MarginalRate: 0.15, FixedTaxBelowBound: 0, Label: "0-158,000"},
	{LowerBound: 158_000, UpperBound: 330_000, MarginalRate: 0.20, FixedTaxBelowBound: 23_700, Label: "158,000-330,000"},
	{LowerBound: 330_000, UpperBound: 1_200_000, MarginalRate: 0.27, FixedTaxBelowBound: 58_100, Label: "330,000-1,200,000"},
	{LowerBound: 1_200_000, UpperBound: 4_300_000, MarginalRate: 0.35, FixedTaxBelowBound: 293_000, Label: "1,200,000-4,300,000"},
	{LowerBound: 4_300_000, UpperBound: math.Inf(1), MarginalRate: 0.40, FixedTaxBelowBound: 1_378_000, Label: "4,300,000+"},
}

type TaxConfig struct {
	Brackets []Bracket
}

type Tax struct {
	revenue  float64
	expenses []expense.Item
	taxConf  TaxConfig
}

func NewTax(taxConf TaxConfig) *Tax {
	if len(taxConf.Brackets) == 0 {
		taxConf.Brackets = DefaultBrackets
	}

	return &Tax{
		taxConf: taxConf,
	}
}

func (t *Tax) SetRevenue(revenue float64) *Tax {
	t.revenue = expense.NonNegative(revenue)
	return t
}

func (t *Tax) AddExpenses(items ...expense.Item) *Tax {
	t.expenses = append(t.expenses, items...)
	return t
}

// MonthlyBase is the VAT-exclusive revenue less every VAT-exclusive expense,
// hidden expenses included, floored at zero.
func (t *Tax) MonthlyBase() float64 {
	revenueExclVat := expense.Excluded(t.revenue, vat.FlatRate)

	var expensesExclVat float64

	for _, item := range t.expenses {
		expensesExclVat += item.ExclVat()
	}

	base := revenueExclVat - expensesExclVat
	if base < 0 {
		return 0
	}

	return base
}

// Lookup returns the index of the bracket that holds annualBase. Each bracket
// covers (LowerBound, UpperBound]; zero and below belong to the first one.
func Lookup(brackets []Bracket, annualBase float64) int {
	if annualBase <= 0 {
		return 0
	}

	for i, b := range brackets {
		if annualBase > b.LowerBound && annualBase <= b.UpperBound {
			return i
		}
	}

	return len(brackets) - 1
}

// AnnualTax applies the bracket table to a yearly base.
func AnnualTax(brackets []Bracket, annualBase float64) float64 {
	if annualBase <= 0 || len(brackets) == 0 {
		return 0
	}

	b := brackets[Lookup(brackets, annualBase)]

	return expense.Finite(b.FixedTaxBelowBound + (annualBase-b.LowerBound)*b.MarginalRate)
}

type TaxStatement struct {
	Bracket Bracket
	Tax     float64
}

func (t *Tax) calculateTaxStatement(annualBase float64) []TaxStatement {
	var ts []TaxStatement

	for _, b := range t.taxConf.Brackets {
		portion := math.Min(annualBase, b.UpperBound) - b.LowerBound
		if portion < 0 {
			portion = 0
		}

		ts = append(ts, TaxStatement{
			Bracket: b,
			Tax:     portion * b.MarginalRate,
		})
	}

	return ts
}

type TaxSummary struct {
	TaxStatements []TaxStatement
	MonthlyBase   float64
	AnnualBase    float64
	AnnualTax     float64
	Tax           float64
}

// CalculateTaxSummary annualizes the monthly base, applies the brackets and
// brings the result back to a monthly figure.
func (t *Tax) CalculateTaxSummary() TaxSummary {
	monthly := t.MonthlyBase()
	annual := monthly * MonthsPerYear

	if annual <= 0 {
		return TaxSummary{
			TaxStatements: nil,
			MonthlyBase:   0,
			AnnualBase:    0,
			AnnualTax:     0,
			Tax:           0,
		}
	}

	annualTax := AnnualTax(t.taxConf.Brackets, annual)

	return TaxSummary{
		TaxStatements: t.calculateTaxStatement(annual),
		MonthlyBase:   monthly,
		AnnualBase:    annual,
		AnnualTax:     annualTax,
		Tax:           annualTax / MonthsPerYear,
	}
}

func (t *Tax) CalculateTax() float64 {
	return t.CalculateTaxSummary().Tax
}

// ValidateBrackets reports the first way a table fails to be ordered,
// contiguous, unbounded at the top and internally consistent.
func ValidateBrackets(brackets []Bracket) error {
	if len(brackets) == 0 {
		return fmt.Errorf("bracket table is empty")
	}

	if brackets[0].LowerBound != 0 {
		return fmt.Errorf("first bracket starts at %v, want 0", brackets[0].LowerBound)
	}

	if brackets[0].FixedTaxBelowBound != 0 {
		return fmt.Errorf("first bracket carries fixed tax %v, want 0", brackets[0].FixedTaxBelowBound)
	}

	for i, b := range brackets {
		if b.MarginalRate <= 0 || b.MarginalRate >= 1 {
			return fmt.Errorf("bracket %d: marginal rate %v out of (0,1)", i, b.MarginalRate)
		}

		if b.UpperBound <= b.LowerBound {
			return fmt.Errorf("bracket %d: upper bound %v not above lower bound %v", i, b.UpperBound, b.LowerBound)
		}

		if i == 0 {
			continue
		}

		prev := brackets[i-1]

		if prev.UpperBound != b.LowerBound {
			return fmt.Errorf("bracket %d: lower bound %v does not meet previous upper bound %v", i, b.LowerBound, prev.UpperBound)
		}

		want := prev.FixedTaxBelowBound + (prev.UpperBound-prev.LowerBound)*prev.MarginalRate
		if math.Abs(want-b.FixedTaxBelowBound) > 0.005 {
			return fmt.Errorf("bracket %d: fixed tax %v, want %v", i, b.FixedTaxBelowBound, want)
		}
	}

	if !math.IsInf(brackets[len(brackets)-1].UpperBound, 1) {
		return fmt.Errorf("top bracket must be unbounded")
	}

	return nil
}
