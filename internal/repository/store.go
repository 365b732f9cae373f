// Package repository is the postgres persistence layer. Composite
// operations run in a single database transaction with the affected
// account rows locked FOR UPDATE; serialization and lock failures are
// surfaced as ErrConcurrencyConflict so the service layer can retry.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/muz4miL/academia-ledger/internal/models"
	"github.com/muz4miL/academia-ledger/internal/service"
)

type Store struct {
	db *sql.DB
}

var _ service.Store = (*Store)(nil)

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the schema.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, models.Schema)
	return err
}

// inTx runs fn inside a transaction, translating conflict errors.
func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return classify(err)
	}
	if err := tx.Commit(); err != nil {
		return classify(err)
	}
	return nil
}

// classify maps postgres failure codes onto the service taxonomy.
// 40001 serialization_failure, 40P01 deadlock_detected and 55P03
// lock_not_available are retryable; 23514 check_violation on a balance
// column means a bucket would have gone negative.
func classify(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "40001", "40P01", "55P03":
			return fmt.Errorf("%w: %v", service.ErrConcurrencyConflict, err)
		case "23514":
			return fmt.Errorf("%w: %v", service.ErrInsufficientBalance, err)
		}
	}
	return err
}

// bucketColumn whitelists the balance column for a bucket; queries are
// built with it, never with caller input.
func bucketColumn(bucket models.BalanceBucket) (string, error) {
	switch bucket {
	case models.BucketFloating:
		return "balance_floating", nil
	case models.BucketVerified:
		return "balance_verified", nil
	case models.BucketPending:
		return "balance_pending", nil
	}
	return "", fmt.Errorf("%w: unknown bucket %q", service.ErrValidation, bucket)
}

// lockAccount reads an account row FOR UPDATE inside tx.
func lockAccount(ctx context.Context, tx *sql.Tx, id string) (*models.Account, error) {
	row := tx.QueryRowContext(ctx, `
		SELECT id, name, comp_type, teacher_pct, fixed_salary, bonus,
		       balance_floating, balance_verified, balance_pending,
		       total_paid, version, created_at
		FROM accounts WHERE id = $1 FOR UPDATE
	`, id)
	acct, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: account %s", service.ErrNotFound, id)
	}
	return acct, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAccount(row rowScanner) (*models.Account, error) {
	acct := &models.Account{}
	var compType sql.NullString
	var teacherPct int
	var fixedSalary, bonus int64
	err := row.Scan(
		&acct.ID,
		&acct.Name,
		&compType,
		&teacherPct,
		&fixedSalary,
		&bonus,
		&acct.Balance.Floating,
		&acct.Balance.Verified,
		&acct.Balance.Pending,
		&acct.TotalPaid,
		&acct.Version,
		&acct.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if compType.Valid && compType.String != "" {
		acct.Compensation = &models.Compensation{
			Type:        models.CompensationType(compType.String),
			TeacherPct:  models.Percent(teacherPct),
			FixedSalary: models.Money(fixedSalary),
			Bonus:       models.Money(bonus),
		}
	}
	return acct, nil
}
