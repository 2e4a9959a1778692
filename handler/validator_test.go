package handler

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVatRateValidation(t *testing.T) {
	type TC struct {
		rate  int
		valid bool
	}

	tcs := []TC{
		{rate: 0, valid: true},
		{rate: 1, valid: true},
		{rate: 10, valid: true},
		{rate: 20, valid: true},
		{rate: 8, valid: false},
		{rate: 18, valid: false},
		{rate: -20, valid: false},
	}

	vl := NewValidator()

	for i, tc := range tcs {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			expenseErr := vl.Struct(ExpenseRequest{Name: "yakıt", Amount: 100, VatRate: tc.rate})
			fixedErr := vl.Struct(FixedExpenseRequest{Name: "kasko", YearlyAmount: 1_200, VatRate: tc.rate})

			if tc.valid {
				assert.NoError(t, expenseErr)
				assert.NoError(t, fixedErr)
			} else {
				assert.Error(t, expenseErr)
				assert.Error(t, fixedErr)
			}
		})
	}
}
