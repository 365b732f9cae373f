package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/muz4miL/academia-ledger/internal/models"
	"github.com/muz4miL/academia-ledger/internal/service"
)

func (s *Store) CreateExpense(ctx context.Context, e *models.Expense) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO expenses (id, title, category, amount, vendor, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, e.ID, e.Title, e.Category, e.Amount.Int64(), e.Vendor, e.Status, e.CreatedAt)
	return err
}

func (s *Store) Expense(ctx context.Context, id string) (*models.Expense, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, category, amount, vendor, status, paid_by, paid_at, created_at
		FROM expenses WHERE id = $1
	`, id)
	exp, err := scanExpense(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return exp, err
}

func (s *Store) Expenses(ctx context.Context) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, category, amount, vendor, status, paid_by, paid_at, created_at
		FROM expenses ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		exp, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, exp)
	}
	return expenses, rows.Err()
}

// MarkExpensePaid flips pending -> paid conditionally and mirrors the
// expense into the ledger in the same transaction.
func (s *Store) MarkExpensePaid(ctx context.Context, id, paidBy string, paidAt time.Time, entry *models.Transaction) (*models.Expense, error) {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE expenses SET status = $1, paid_by = $2, paid_at = $3
			WHERE id = $4 AND status = $5
		`, models.ExpensePaid, paidBy, paidAt, id, models.ExpensePending)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: expense %s already paid", service.ErrNoOp, id)
		}
		return applyEntriesTx(ctx, tx, []*models.Transaction{entry})
	})
	if err != nil {
		return nil, err
	}
	return s.Expense(ctx, id)
}

func (s *Store) DeleteExpense(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: expense %s", service.ErrNotFound, id)
	}
	return nil
}

func scanExpense(row rowScanner) (*models.Expense, error) {
	exp := &models.Expense{}
	var paidBy sql.NullString
	var paidAt sql.NullTime
	err := row.Scan(
		&exp.ID,
		&exp.Title,
		&exp.Category,
		&exp.Amount,
		&exp.Vendor,
		&exp.Status,
		&paidBy,
		&paidAt,
		&exp.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	exp.PaidBy = paidBy.String
	if paidAt.Valid {
		t := paidAt.Time
		exp.PaidAt = &t
	}
	return exp, nil
}
