package handler

import (
	"context"
	"encoding/csv"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/AnnaCarter465/cargo-calc/calc"
	"github.com/AnnaCarter465/cargo-calc/ledger"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ILedger interface {
	Append(ctx context.Context, s calc.Snapshot) (calc.Snapshot, error)
	ListNewestFirst(ctx context.Context) []calc.Snapshot
	Get(ctx context.Context, displayIndex int) (calc.Snapshot, error)
	DeleteAt(ctx context.Context, displayIndex int) error
	Clear(ctx context.Context) error
}

type SaveResponse struct {
	CalculationResponse
	Saved   bool   `json:"saved"`
	Message string `json:"message,omitempty"`
}

type HistoryResponse struct {
	History []calc.Snapshot `json:"history"`
}

type HistoryDetailResponse struct {
	Snapshot  calc.Snapshot   `json:"snapshot"`
	Breakdown calc.Breakdown  `json:"breakdown"`
	Expenses  []ExpenseDetail `json:"expenseDetails"`
}

type HistoryHandler struct {
	calc   *CalculationHandler
	ledger ILedger
	log    *zap.Logger
}

func NewHistoryHandler(vl *validator.Validate, c *calc.Calculator, l ILedger, log *zap.Logger) *HistoryHandler {
	if log == nil {
		log = zap.NewNop()
	}

	return &HistoryHandler{NewCalculationHandler(vl, c), l, log}
}

// Save computes the request and appends the snapshot to history. A failed
// write is logged and the computed figures are still returned.
func (h *HistoryHandler) Save(c echo.Context) error {
	req, errresp := h.calc.bind(c)
	if errresp != nil {
		return c.JSON(http.StatusBadRequest, errresp)
	}

	if req.Revenue <= 0 {
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Revenue is required before saving",
		})
	}

	items := req.items()
	snapshot := h.calc.calc.Compute(req.Revenue, items)

	saved, err := h.ledger.Append(c.Request().Context(), snapshot)
	if err != nil {
		h.log.Error("Failed to save calculation", zap.Error(err))

		return c.JSON(http.StatusOK, SaveResponse{
			CalculationResponse: h.calc.respond(req.Revenue, items, snapshot),
			Saved:               false,
			Message:             "Calculation could not be saved",
		})
	}

	return c.JSON(http.StatusCreated, SaveResponse{
		CalculationResponse: h.calc.respond(req.Revenue, items, saved),
		Saved:               true,
	})
}

func (h *HistoryHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, HistoryResponse{
		History: h.ledger.ListNewestFirst(c.Request().Context()),
	})
}

func (h *HistoryHandler) Get(c echo.Context) error {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Invalid history index",
		})
	}

	s, err := h.ledger.Get(c.Request().Context(), index)
	if err != nil {
		return h.ledgerError(c, err)
	}

	return c.JSON(http.StatusOK, HistoryDetailResponse{
		Snapshot:  s,
		Breakdown: calc.Explain(s),
		Expenses:  details(s.Expenses),
	})
}

func (h *HistoryHandler) Delete(c echo.Context) error {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Invalid history index",
		})
	}

	if err := h.ledger.DeleteAt(c.Request().Context(), index); err != nil {
		return h.ledgerError(c, err)
	}

	return c.JSON(http.StatusOK, ResponseMsg{
		Message: "History entry deleted",
	})
}

func (h *HistoryHandler) Clear(c echo.Context) error {
	if err := h.ledger.Clear(c.Request().Context()); err != nil {
		return h.ledgerError(c, err)
	}

	return c.JSON(http.StatusOK, ResponseMsg{
		Message: "History cleared",
	})
}

var exportHeader = []string{
	"revenue", "visibleExpenseTotal", "deductibleVatTotal", "outputVat", "vatPayable",
	"incomeTaxBase", "incomeTax", "netProfit", "expenseCount", "timestamp",
}

// Export writes the history, newest first, as CSV.
func (h *HistoryHandler) Export(c echo.Context) error {
	history := h.ledger.ListNewestFirst(c.Request().Context())

	c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="cargo-calc-history.csv"`)
	c.Response().WriteHeader(http.StatusOK)

	w := csv.NewWriter(c.Response())

	if err := w.Write(exportHeader); err != nil {
		return err
	}

	for _, s := range history {
		row := []string{
			money(s.Revenue), money(s.VisibleExpenseTotal), money(s.DeductibleVatTotal), money(s.OutputVat),
			money(s.VatPayable), money(s.IncomeTaxBase), money(s.IncomeTax), money(s.NetProfit),
			strconv.Itoa(len(s.Expenses)), s.Timestamp.UTC().Format(time.RFC3339),
		}

		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()

	return w.Error()
}

func (h *HistoryHandler) ledgerError(c echo.Context, err error) error {
	if errors.Is(err, ledger.ErrIndexOutOfRange) {
		return c.JSON(http.StatusNotFound, ResponseMsg{
			Message: "History entry not found",
		})
	}

	h.log.Error("History operation failed", zap.Error(err))

	return c.JSON(http.StatusInternalServerError, ResponseMsg{
		Message: "Internal server error",
	})
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
