package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/AnnaCarter465/cargo-calc/expense"
	"github.com/AnnaCarter465/cargo-calc/fixed"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type FixedExpenseRequest struct {
	Name         string  `json:"name" validate:"required,notblank,max=100"`
	YearlyAmount float64 `json:"yearlyAmount" validate:"number,gt=0,lte=12000000"`
	VatRate      int     `json:"vatRate" validate:"vatrate"`
}

type FixedExpenseView struct {
	expense.FixedItem
	Monthly expense.MonthlyFixedExpense `json:"monthly"`
}

type FixedExpensesResponse struct {
	Items   []FixedExpenseView `json:"items"`
	Summary fixed.Summary      `json:"summary"`
}

type IFixedRegistry interface {
	Add(ctx context.Context, name string, yearlyAmount, vatRate float64) (expense.FixedItem, error)
	List(ctx context.Context) ([]expense.FixedItem, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Promote(ctx context.Context, id uuid.UUID) (expense.Item, error)
}

type FixedExpenseHandler struct {
	vl       *validator.Validate
	registry IFixedRegistry
	log      *zap.Logger
}

func NewFixedExpenseHandler(vl *validator.Validate, registry IFixedRegistry, log *zap.Logger) *FixedExpenseHandler {
	if log == nil {
		log = zap.NewNop()
	}

	return &FixedExpenseHandler{vl, registry, log}
}

func (f *FixedExpenseHandler) List(c echo.Context) error {
	items, err := f.registry.List(c.Request().Context())
	if err != nil {
		f.log.Error("Failed to list fixed expenses", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ResponseMsg{
			Message: "Internal server error",
		})
	}

	views := make([]FixedExpenseView, 0, len(items))
	for _, item := range items {
		views = append(views, FixedExpenseView{
			FixedItem: item,
			Monthly:   expense.Monthly(item),
		})
	}

	return c.JSON(http.StatusOK, FixedExpensesResponse{
		Items:   views,
		Summary: fixed.Summarize(items),
	})
}

func (f *FixedExpenseHandler) Add(c echo.Context) error {
	var req FixedExpenseRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Bad request",
		})
	}

	if err := f.vl.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Bad request",
		})
	}

	item, err := f.registry.Add(c.Request().Context(), req.Name, req.YearlyAmount, float64(req.VatRate))
	if err != nil {
		f.log.Error("Failed to add fixed expense", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ResponseMsg{
			Message: "Failed to add fixed expense",
		})
	}

	return c.JSON(http.StatusCreated, item)
}

func (f *FixedExpenseHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Invalid fixed expense id",
		})
	}

	if err := f.registry.Delete(c.Request().Context(), id); err != nil {
		return f.registryError(c, err, "Failed to delete fixed expense")
	}

	return c.JSON(http.StatusOK, ResponseMsg{
		Message: "Fixed expense deleted",
	})
}

// Promote returns the monthly copy of a fixed expense. The caller appends it
// to the period's expense list.
func (f *FixedExpenseHandler) Promote(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Invalid fixed expense id",
		})
	}

	item, err := f.registry.Promote(c.Request().Context(), id)
	if err != nil {
		return f.registryError(c, err, "Failed to promote fixed expense")
	}

	return c.JSON(http.StatusOK, item)
}

func (f *FixedExpenseHandler) registryError(c echo.Context, err error, msg string) error {
	if errors.Is(err, fixed.ErrNotFound) {
		return c.JSON(http.StatusNotFound, ResponseMsg{
			Message: "Fixed expense not found",
		})
	}

	f.log.Error(msg, zap.Error(err))

	return c.JSON(http.StatusInternalServerError, ResponseMsg{
		Message: msg,
	})
}
