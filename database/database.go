package database

import (
	"context"
	"database/sql"

	"github.com/AnnaCarter465/cargo-calc/expense"
	"github.com/AnnaCarter465/cargo-calc/fixed"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
)

type DB struct {
	sqlDB *sql.DB
}

func NewDB(dbURL string) (*DB, error) {
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, errors.Wrap(err, "open postgres")
	}

	return &DB{db}, nil
}

func (db *DB) GetSQLDB() *sql.DB {
	return db.sqlDB
}

func (db *DB) Ping(ctx context.Context) error {
	return errors.Wrap(db.sqlDB.PingContext(ctx), "ping postgres")
}

func (db *DB) Close() error {
	return db.sqlDB.Close()
}

func (db *DB) ListFixedExpenses(ctx context.Context) ([]expense.FixedItem, error) {
	results := []expense.FixedItem{}

	rows, err := db.GetSQLDB().QueryContext(
		ctx,
		`
			SELECT id, name, yearly_amount, vat_rate FROM fixed_expenses ORDER BY created_at, id
		`)
	if err != nil {
		return nil, errors.Wrap(err, "query fixed expenses")
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id           uuid.UUID
			name         string
			yearlyAmount float64
			vatRate      float64
		)

		err = rows.Scan(&id, &name, &yearlyAmount, &vatRate)
		if err != nil {
			return nil, errors.Wrap(err, "scan fixed expense")
		}

		results = append(results, expense.FixedItem{
			ID:           id,
			Name:         name,
			YearlyAmount: yearlyAmount,
			VatRate:      vatRate,
		})
	}

	return results, errors.Wrap(rows.Err(), "iterate fixed expenses")
}

func (db *DB) InsertFixedExpense(ctx context.Context, item expense.FixedItem) error {
	_, err := db.GetSQLDB().ExecContext(
		ctx,
		`
			INSERT INTO fixed_expenses (id, name, yearly_amount, vat_rate) VALUES ($1, $2, $3, $4)
		`,
		item.ID, item.Name, item.YearlyAmount, item.VatRate,
	)

	return errors.Wrap(err, "insert fixed expense")
}

func (db *DB) DeleteFixedExpense(ctx context.Context, id uuid.UUID) error {
	res, err := db.GetSQLDB().ExecContext(
		ctx,
		`
			DELETE FROM fixed_expenses WHERE id = $1
		`,
		id,
	)
	if err != nil {
		return errors.Wrap(err, "delete fixed expense")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "delete fixed expense")
	}

	if n == 0 {
		return fixed.ErrNotFound
	}

	return nil
}
