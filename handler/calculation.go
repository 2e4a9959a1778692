package handler

import (
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"

	"github.com/AnnaCarter465/cargo-calc/calc"
	"github.com/AnnaCarter465/cargo-calc/expense"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type CalculationRequest struct {
	Revenue  float64          `json:"revenue" validate:"number,gte=0,lte=10000000"`
	Expenses []ExpenseRequest `json:"expenses" validate:"dive"`
}

type ExpenseRequest struct {
	Name     string  `json:"name" validate:"required,notblank,max=100"`
	Amount   float64 `json:"amount" validate:"number,gt=0,lte=1000000"`
	VatRate  int     `json:"vatRate" validate:"vatrate"`
	Category string  `json:"category" validate:"omitempty,oneof=visible hidden"`
}

type CalculationResponse struct {
	Snapshot  calc.Snapshot   `json:"snapshot"`
	Breakdown calc.Breakdown  `json:"breakdown"`
	Expenses  []ExpenseDetail `json:"expenseDetails"`
	TaxLevel  []TaxLevel      `json:"taxLevel"`
}

type ExpenseDetail struct {
	expense.Item
	Vat     float64 `json:"vat"`
	ExclVat float64 `json:"exclVat"`
}

type TaxLevel struct {
	Level string  `json:"level"`
	Tax   float64 `json:"tax"`
}

type CalculationHandler struct {
	vl   *validator.Validate
	calc *calc.Calculator
}

func NewCalculationHandler(vl *validator.Validate, c *calc.Calculator) *CalculationHandler {
	return &CalculationHandler{vl, c}
}

// toItem fixes the expense category once, at the input boundary.
func (r ExpenseRequest) toItem() expense.Item {
	item := expense.NewItem(r.Name, r.Amount, float64(r.VatRate))

	if r.Category != "" {
		item.Category = expense.Category(r.Category)
	}

	return item
}

func (r CalculationRequest) items() []expense.Item {
	items := make([]expense.Item, 0, len(r.Expenses))

	for _, e := range r.Expenses {
		items = append(items, e.toItem())
	}

	return items
}

func (h *CalculationHandler) bind(c echo.Context) (CalculationRequest, *ResponseMsg) {
	var req CalculationRequest

	if err := c.Bind(&req); err != nil {
		return req, &ResponseMsg{Message: "Bad request"}
	}

	if err := h.vl.Struct(req); err != nil {
		return req, &ResponseMsg{Message: "Bad request"}
	}

	return req, nil
}

func (h *CalculationHandler) respond(revenue float64, items []expense.Item, s calc.Snapshot) CalculationResponse {
	var levels []TaxLevel

	for _, st := range h.calc.TaxStatements(revenue, items) {
		levels = append(levels, TaxLevel{
			Level: st.Bracket.Label,
			Tax:   calc.Round2(st.Tax),
		})
	}

	return CalculationResponse{
		Snapshot:  s,
		Breakdown: calc.Explain(s),
		Expenses:  details(s.Expenses),
		TaxLevel:  levels,
	}
}

func details(items []expense.Item) []ExpenseDetail {
	out := make([]ExpenseDetail, 0, len(items))

	for _, item := range items {
		out = append(out, ExpenseDetail{
			Item:    item,
			Vat:     calc.Round2(item.Vat()),
			ExclVat: calc.Round2(item.ExclVat()),
		})
	}

	return out
}

func (h *CalculationHandler) Calculate(c echo.Context) error {
	req, errresp := h.bind(c)
	if errresp != nil {
		return c.JSON(http.StatusBadRequest, errresp)
	}

	items := req.items()
	snapshot := h.calc.Compute(req.Revenue, items)

	return c.JSON(http.StatusOK, h.respond(req.Revenue, items, snapshot))
}

// CalculateWithCSV reads the period's expenses from a name,amount,vatRate CSV
// body; revenue comes from the query string.
func (h *CalculationHandler) CalculateWithCSV(c echo.Context) error {
	if !strings.HasPrefix(c.Request().Header.Get("Content-Type"), "text/csv") {
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Unaceptable content, require CSV content",
		})
	}

	revenue, err := strconv.ParseFloat(c.QueryParam("revenue"), 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Invalid revenue amount",
		})
	}

	rows, err := csv.NewReader(c.Request().Body).ReadAll()
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Bad request, might not be csv format",
		})
	}

	if len(rows) == 0 {
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Wrong csv content, no content",
		})
	}

	req := CalculationRequest{Revenue: revenue}

	for i, row := range rows {
		if len(row) != 3 {
			return c.JSON(http.StatusBadRequest, ResponseMsg{
				Message: "Wrong csv column length",
			})
		}

		if i == 0 {
			badcsvformat := row[0] != "name" ||
				row[1] != "amount" ||
				row[2] != "vatRate"

			if badcsvformat {
				return c.JSON(http.StatusBadRequest, ResponseMsg{
					Message: "Wrong csv header",
				})
			}

			continue
		}

		amount, err := strconv.ParseFloat(strings.Replace(strings.TrimSpace(row[1]), ",", ".", 1), 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ResponseMsg{
				Message: "Invalid expense amount",
			})
		}

		rate, err := strconv.Atoi(strings.TrimSpace(row[2]))
		if err != nil {
			return c.JSON(http.StatusBadRequest, ResponseMsg{
				Message: "Invalid vat rate",
			})
		}

		req.Expenses = append(req.Expenses, ExpenseRequest{
			Name:    row[0],
			Amount:  amount,
			VatRate: rate,
		})
	}

	if err := h.vl.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Bad request",
		})
	}

	items := req.items()
	snapshot := h.calc.Compute(req.Revenue, items)

	return c.JSON(http.StatusOK, h.respond(req.Revenue, items, snapshot))
}
