package service

import (
	"context"
	"errors"
	"time"

	"github.com/muz4miL/academia-ledger/internal/metrics"
	"github.com/muz4miL/academia-ledger/internal/models"
)

// Store is the persistence surface of the finance core. The postgres
// implementation lives in internal/repository, the in-memory one in
// internal/repository/memory. The composite Apply* methods are atomic:
// either every write in the call commits, or none do.
type Store interface {
	// Accounts.
	Account(ctx context.Context, id string) (*models.Account, error)
	Accounts(ctx context.Context) ([]*models.Account, error)
	CreateAccount(ctx context.Context, a *models.Account) error

	// Students and fee records.
	Student(ctx context.Context, id string) (*models.Student, error)
	CreateStudent(ctx context.Context, s *models.Student) error
	FeeRecord(ctx context.Context, id string) (*models.FeeRecord, error)
	CreateFeeRecord(ctx context.Context, f *models.FeeRecord) error
	FeeRecords(ctx context.Context) ([]*models.FeeRecord, error)

	// Ledger reads.
	Transaction(ctx context.Context, id string) (*models.Transaction, error)
	TransactionsByFeeRecord(ctx context.Context, feeRecordID string) ([]*models.Transaction, error)
	TransactionsByDateRange(ctx context.Context, from, to time.Time) ([]*models.Transaction, error)
	FloatingByCollector(ctx context.Context, collectedBy string) ([]*models.Transaction, error)
	SumByKind(ctx context.Context, kind models.TxnKind, from, to time.Time) (models.Money, error)

	// Ledger writes. ApplyEntries inserts each transaction and applies
	// its balance delta to AccountID's Bucket under a row lock.
	// PromoteTransactions flips FLOATING to VERIFIED for every id, or
	// rejects the whole batch if any id is not currently floating.
	ApplyEntries(ctx context.Context, entries []*models.Transaction) error
	PromoteTransactions(ctx context.Context, ids []string) (int, error)

	// Composite operations.
	ApplyDistribution(ctx context.Context, feeRecordID string, split *models.SplitDetails, entries []*models.Transaction) error
	ApplyPayout(ctx context.Context, voucher *models.TeacherPayment, entry *models.Transaction) error
	ApplyAccrual(ctx context.Context, teacherID, period string, entry *models.Transaction) error
	ApplyClosing(ctx context.Context, closing *models.DailyClosing, txnIDs []string) error

	// Expenses.
	CreateExpense(ctx context.Context, e *models.Expense) error
	Expense(ctx context.Context, id string) (*models.Expense, error)
	Expenses(ctx context.Context) ([]*models.Expense, error)
	MarkExpensePaid(ctx context.Context, id string, paidBy string, paidAt time.Time, entry *models.Transaction) (*models.Expense, error)
	DeleteExpense(ctx context.Context, id string) error

	// Audit records.
	Vouchers(ctx context.Context, teacherID string) ([]*models.TeacherPayment, error)
	Closings(ctx context.Context) ([]*models.DailyClosing, error)
	SaveReconciliationReport(ctx context.Context, r *models.ReconciliationReport) error
}

const (
	maxConflictRetries = 3
	conflictBackoff    = 25 * time.Millisecond
)

// withRetry re-runs fn on detected write conflicts a bounded number of
// times before surfacing ErrConcurrencyConflict to the caller.
func withRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt <= maxConflictRetries; attempt++ {
		if attempt > 0 {
			metrics.ConflictRetries.Inc()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(conflictBackoff):
			}
		}
		err = fn()
		if err == nil || !errors.Is(err, ErrConcurrencyConflict) {
			return err
		}
	}
	return err
}
