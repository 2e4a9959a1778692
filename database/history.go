package database

import (
	"context"
	"encoding/json"
	"time"

	"github.com/AnnaCarter465/cargo-calc/calc"
	"github.com/AnnaCarter465/cargo-calc/expense"
	"github.com/AnnaCarter465/cargo-calc/ledger"
	"github.com/pkg/errors"
)

// HistoryStore keeps computation snapshots in insertion (id) order.
type HistoryStore struct {
	db *DB
}

func NewHistoryStore(db *DB) *HistoryStore {
	return &HistoryStore{db}
}

func (h *HistoryStore) ReadAll(ctx context.Context) ([]calc.Snapshot, error) {
	results := []calc.Snapshot{}

	rows, err := h.db.GetSQLDB().QueryContext(
		ctx,
		`
			SELECT revenue, visible_expense_total, deductible_vat_total, output_vat, vat_payable,
			       income_tax_base, income_tax, net_profit, expenses, created_at
			FROM computation_history
			ORDER BY id
		`)
	if err != nil {
		return nil, errors.Wrap(err, "query history")
	}
	defer rows.Close()

	for rows.Next() {
		var (
			s         calc.Snapshot
			rawItems  []byte
			createdAt time.Time
		)

		err = rows.Scan(
			&s.Revenue, &s.VisibleExpenseTotal, &s.DeductibleVatTotal, &s.OutputVat, &s.VatPayable,
			&s.IncomeTaxBase, &s.IncomeTax, &s.NetProfit, &rawItems, &createdAt,
		)
		if err != nil {
			return nil, errors.Wrap(err, "scan history")
		}

		s.Expenses = []expense.Item{}
		if err := json.Unmarshal(rawItems, &s.Expenses); err != nil {
			return nil, errors.Wrap(err, "decode history expenses")
		}

		s.Timestamp = createdAt.UTC()
		results = append(results, s)
	}

	return results, errors.Wrap(rows.Err(), "iterate history")
}

func (h *HistoryStore) Append(ctx context.Context, s calc.Snapshot) error {
	rawItems, err := json.Marshal(expense.Copy(s.Expenses))
	if err != nil {
		return errors.Wrap(err, "encode history expenses")
	}

	_, err = h.db.GetSQLDB().ExecContext(
		ctx,
		`
			INSERT INTO computation_history (
				revenue, visible_expense_total, deductible_vat_total, output_vat, vat_payable,
				income_tax_base, income_tax, net_profit, expenses, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`,
		s.Revenue, s.VisibleExpenseTotal, s.DeductibleVatTotal, s.OutputVat, s.VatPayable,
		s.IncomeTaxBase, s.IncomeTax, s.NetProfit, string(rawItems), s.Timestamp.UTC(),
	)

	return errors.Wrap(err, "insert history")
}

// DeleteAt removes the row at storageIndex in insertion order in one statement.
func (h *HistoryStore) DeleteAt(ctx context.Context, storageIndex int) error {
	if storageIndex < 0 {
		return ledger.ErrIndexOutOfRange
	}

	res, err := h.db.GetSQLDB().ExecContext(
		ctx,
		`
			DELETE FROM computation_history
			WHERE id = (SELECT id FROM computation_history ORDER BY id OFFSET $1 LIMIT 1)
		`,
		storageIndex,
	)
	if err != nil {
		return errors.Wrap(err, "delete history")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "delete history")
	}

	if n == 0 {
		return ledger.ErrIndexOutOfRange
	}

	return nil
}

func (h *HistoryStore) Clear(ctx context.Context) error {
	_, err := h.db.GetSQLDB().ExecContext(ctx, `DELETE FROM computation_history`)

	return errors.Wrap(err, "clear history")
}
