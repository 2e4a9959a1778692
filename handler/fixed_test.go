package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/AnnaCarter465/cargo-calc/expense"
	"github.com/AnnaCarter465/cargo-calc/fixed"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type RegistryMock struct {
	mock.Mock
}

func (o *RegistryMock) Add(ctx context.Context, name string, yearlyAmount, vatRate float64) (expense.FixedItem, error) {
	args := o.Called(ctx, name, yearlyAmount, vatRate)
	return args.Get(0).(expense.FixedItem), args.Error(1)
}

func (o *RegistryMock) List(ctx context.Context) ([]expense.FixedItem, error) {
	args := o.Called(ctx)
	return args.Get(0).([]expense.FixedItem), args.Error(1)
}

func (o *RegistryMock) Delete(ctx context.Context, id uuid.UUID) error {
	args := o.Called(ctx, id)
	return args.Error(0)
}

func (o *RegistryMock) Promote(ctx context.Context, id uuid.UUID) (expense.Item, error) {
	args := o.Called(ctx, id)
	return args.Get(0).(expense.Item), args.Error(1)
}

var kaskoID = uuid.MustParse("5f1c8e52-0a3e-4a8f-9a57-0c7a3b2f6d11")

func TestFixedExpenseAdd(t *testing.T) {
	type TC struct {
		reqbody map[string]interface{}
		mockAdd *MockSetting
		want    *expense.FixedItem
		errresp *ResponseMsg
	}

	kasko := expense.FixedItem{ID: kaskoID, Name: "Kasko", YearlyAmount: 12_000, VatRate: 20}

	tcs := []TC{
		{
			reqbody: map[string]interface{}{"name": "Kasko", "yearlyAmount": 12_000, "vatRate": 20},
			mockAdd: &MockSetting{
				Args:    []interface{}{mock.Anything, "Kasko", float64(12_000), float64(20)},
				Returns: []interface{}{kasko, nil},
			},
			want: &kasko,
		},
		{
			reqbody: map[string]interface{}{"name": "Kasko", "yearlyAmount": "much", "vatRate": 20},
			errresp: &ResponseMsg{Message: "Bad request"},
		},
		{
			reqbody: map[string]interface{}{"name": "Kasko", "yearlyAmount": 0, "vatRate": 20},
			errresp: &ResponseMsg{Message: "Bad request"},
		},
		{
			reqbody: map[string]interface{}{"name": "", "yearlyAmount": 100, "vatRate": 20},
			errresp: &ResponseMsg{Message: "Bad request"},
		},
		{
			reqbody: map[string]interface{}{"name": "Kasko", "yearlyAmount": 100, "vatRate": 8},
			errresp: &ResponseMsg{Message: "Bad request"},
		},
		{
			reqbody: map[string]interface{}{"name": "Kasko", "yearlyAmount": 12_000, "vatRate": 20},
			mockAdd: &MockSetting{
				Args:    []interface{}{mock.Anything, "Kasko", float64(12_000), float64(20)},
				Returns: []interface{}{expense.FixedItem{}, errors.New("an error")},
			},
			errresp: &ResponseMsg{Message: "Failed to add fixed expense"},
		},
	}

	for i, tc := range tcs {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			registry := new(RegistryMock)

			if tc.mockAdd != nil {
				registry.On("Add", tc.mockAdd.Args...).Return(tc.mockAdd.Returns...)
			}

			h := NewFixedExpenseHandler(NewValidator(), registry, nil)

			val, _ := json.Marshal(tc.reqbody)

			req := httptest.NewRequest(http.MethodPost, "/fixed-expenses", strings.NewReader(string(val)))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			assert.NoError(t, h.Add(echo.New().NewContext(req, rec)))

			if tc.errresp != nil {
				var errresp ResponseMsg

				assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errresp))
				assert.NotEqual(t, http.StatusCreated, rec.Code)
				assert.Equal(t, *tc.errresp, errresp)

				return
			}

			var got expense.FixedItem

			assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, http.StatusCreated, rec.Code)
			assert.Equal(t, *tc.want, got)
		})
	}
}

func TestFixedExpenseList(t *testing.T) {
	registry := new(RegistryMock)
	registry.On("List", mock.Anything).Return([]expense.FixedItem{
		{ID: kaskoID, Name: "Kasko", YearlyAmount: 12_000, VatRate: 20},
		{ID: uuid.New(), Name: "Muayene", YearlyAmount: 1_100, VatRate: 10},
	}, nil)

	h := NewFixedExpenseHandler(NewValidator(), registry, nil)

	req := httptest.NewRequest(http.MethodGet, "/fixed-expenses", nil)
	rec := httptest.NewRecorder()

	assert.NoError(t, h.List(echo.New().NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)

	var got FixedExpensesResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Items, 2)
	assert.Equal(t, expense.MonthlyFixedExpense{Name: "Kasko", Amount: 1_000, VatRate: 20, IsFixed: true}, got.Items[0].Monthly)
	assert.Equal(t, kaskoID, got.Items[0].ID)
	assert.Equal(t, fixed.Summary{TotalYearly: 13_100, TotalMonthly: 1_092, TotalMonthlyVat: 175}, got.Summary)
}

func TestFixedExpenseListFailure(t *testing.T) {
	registry := new(RegistryMock)
	registry.On("List", mock.Anything).Return([]expense.FixedItem(nil), errors.New("an error"))

	h := NewFixedExpenseHandler(NewValidator(), registry, nil)

	req := httptest.NewRequest(http.MethodGet, "/fixed-expenses", nil)
	rec := httptest.NewRecorder()

	assert.NoError(t, h.List(echo.New().NewContext(req, rec)))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestFixedExpensePromoteAndDelete(t *testing.T) {
	type TC struct {
		id       string
		promote  *MockSetting
		remove   *MockSetting
		wantCode int
	}

	tcs := []TC{
		{
			id: kaskoID.String(),
			promote: &MockSetting{
				Args:    []interface{}{mock.Anything, kaskoID},
				Returns: []interface{}{expense.NewItem("Kasko", 1_000, 20), nil},
			},
			remove: &MockSetting{
				Args:    []interface{}{mock.Anything, kaskoID},
				Returns: []interface{}{nil},
			},
			wantCode: http.StatusOK,
		},
		{
			id: kaskoID.String(),
			promote: &MockSetting{
				Args:    []interface{}{mock.Anything, kaskoID},
				Returns: []interface{}{expense.Item{}, fixed.ErrNotFound},
			},
			remove: &MockSetting{
				Args:    []interface{}{mock.Anything, kaskoID},
				Returns: []interface{}{fixed.ErrNotFound},
			},
			wantCode: http.StatusNotFound,
		},
		{
			id: kaskoID.String(),
			promote: &MockSetting{
				Args:    []interface{}{mock.Anything, kaskoID},
				Returns: []interface{}{expense.Item{}, errors.New("an error")},
			},
			remove: &MockSetting{
				Args:    []interface{}{mock.Anything, kaskoID},
				Returns: []interface{}{errors.New("an error")},
			},
			wantCode: http.StatusInternalServerError,
		},
		{
			id:       "not-a-uuid",
			wantCode: http.StatusBadRequest,
		},
	}

	for i, tc := range tcs {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			registry := new(RegistryMock)

			if tc.promote != nil {
				registry.On("Promote", tc.promote.Args...).Return(tc.promote.Returns...)
			}

			if tc.remove != nil {
				registry.On("Delete", tc.remove.Args...).Return(tc.remove.Returns...)
			}

			h := NewFixedExpenseHandler(NewValidator(), registry, nil)

			newContext := func(method string) (echo.Context, *httptest.ResponseRecorder) {
				req := httptest.NewRequest(method, "/", nil)
				rec := httptest.NewRecorder()
				c := echo.New().NewContext(req, rec)
				c.SetParamNames("id")
				c.SetParamValues(tc.id)

				return c, rec
			}

			c, rec := newContext(http.MethodPost)
			assert.NoError(t, h.Promote(c))
			assert.Equal(t, tc.wantCode, rec.Code)

			if tc.wantCode == http.StatusOK {
				var got expense.Item
				assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
				assert.Equal(t, expense.Item{Name: "Kasko", Amount: 1_000, VatRate: 20, Category: expense.Visible}, got)
			}

			c, rec = newContext(http.MethodDelete)
			assert.NoError(t, h.Delete(c))
			assert.Equal(t, tc.wantCode, rec.Code)
		})
	}
}
