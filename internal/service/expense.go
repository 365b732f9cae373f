package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/muz4miL/academia-ledger/internal/models"
)

// ExpenseService records operating expenses. A recorded expense is a
// plan, not a money movement; only MarkPaid mirrors it into the ledger,
// debiting the payer's floating cash.
type ExpenseService struct {
	store  Store
	logger *zap.Logger
}

func NewExpenseService(store Store, logger *zap.Logger) *ExpenseService {
	return &ExpenseService{store: store, logger: logger}
}

// Record creates a pending expense. No ledger entry is written yet.
func (s *ExpenseService) Record(ctx context.Context, title, category string, amount models.Money, vendor string) (*models.Expense, error) {
	if title == "" {
		return nil, validationf("title is required")
	}
	if amount <= 0 {
		return nil, validationf("amount must be > 0")
	}
	exp := &models.Expense{
		ID:        uuid.New().String(),
		Title:     title,
		Category:  category,
		Amount:    amount,
		Vendor:    vendor,
		Status:    models.ExpensePending,
		CreatedAt: time.Now(),
	}
	if err := s.store.CreateExpense(ctx, exp); err != nil {
		return nil, err
	}
	s.logger.Info("expense recorded",
		zap.String("expense_id", exp.ID),
		zap.String("title", title),
		zap.Int64("amount", amount.Int64()))
	return exp, nil
}

// MarkPaid flips a pending expense to paid and only then appends the
// EXPENSE transaction, floating under paidBy's drawer.
func (s *ExpenseService) MarkPaid(ctx context.Context, expenseID, paidBy string) (*models.Expense, error) {
	exp, err := s.store.Expense(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if exp == nil {
		return nil, notFoundf("expense %s", expenseID)
	}
	if exp.Status == models.ExpensePaid {
		return nil, ErrNoOp
	}
	payer, err := s.store.Account(ctx, paidBy)
	if err != nil {
		return nil, err
	}
	if payer == nil {
		return nil, notFoundf("account %s", paidBy)
	}

	now := time.Now()
	entry := &models.Transaction{
		ID:          uuid.New().String(),
		Kind:        models.KindExpense,
		Category:    exp.Category,
		Amount:      exp.Amount,
		Description: exp.Title,
		OccurredAt:  now,
		Status:      models.StatusFloating,
		AccountID:   paidBy,
		Bucket:      models.BucketFloating,
		CollectedBy: paidBy,
	}
	var updated *models.Expense
	if err := withRetry(ctx, func() error {
		var applyErr error
		updated, applyErr = s.store.MarkExpensePaid(ctx, expenseID, paidBy, now, entry)
		return applyErr
	}); err != nil {
		return nil, err
	}
	s.logger.Info("expense paid",
		zap.String("expense_id", expenseID),
		zap.String("paid_by", paidBy),
		zap.Int64("amount", exp.Amount.Int64()))
	return updated, nil
}

// Delete removes an expense record. A transaction already mirrored from
// a paid expense stays in the ledger.
func (s *ExpenseService) Delete(ctx context.Context, expenseID string) error {
	exp, err := s.store.Expense(ctx, expenseID)
	if err != nil {
		return err
	}
	if exp == nil {
		return notFoundf("expense %s", expenseID)
	}
	return s.store.DeleteExpense(ctx, expenseID)
}

// List returns all expenses, newest first.
func (s *ExpenseService) List(ctx context.Context) ([]*models.Expense, error) {
	return s.store.Expenses(ctx)
}
