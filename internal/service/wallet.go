package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/muz4miL/academia-ledger/internal/models"
)

// WalletService owns the three-bucket balances. It is the only code
// path that mutates them, and every mutation is paired with the ledger
// entry that justifies it inside one store transaction.
type WalletService struct {
	store  Store
	logger *zap.Logger
}

func NewWalletService(store Store, logger *zap.Logger) *WalletService {
	return &WalletService{store: store, logger: logger}
}

// Balance returns the account's current buckets.
func (s *WalletService) Balance(ctx context.Context, accountID string) (*models.Account, error) {
	acct, err := s.store.Account(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if acct == nil {
		return nil, notFoundf("account %s", accountID)
	}
	return acct, nil
}

// Credit increments a bucket, writing a CREDIT entry alongside. The
// category distinguishes audit corrections from ordinary adjustments.
func (s *WalletService) Credit(ctx context.Context, accountID string, bucket models.BalanceBucket, amount models.Money, category, reason string) error {
	if amount <= 0 {
		return validationf("credit amount must be > 0")
	}
	if !bucket.Valid() {
		return validationf("unknown balance bucket %q", bucket)
	}
	if category == "" {
		return validationf("category is required")
	}
	entry := &models.Transaction{
		ID:          uuid.New().String(),
		Kind:        models.KindCredit,
		Category:    category,
		Amount:      amount,
		Description: reason,
		OccurredAt:  time.Now(),
		Status:      models.StatusVerified,
		AccountID:   accountID,
		Bucket:      bucket,
	}
	if err := withRetry(ctx, func() error {
		return s.store.ApplyEntries(ctx, []*models.Transaction{entry})
	}); err != nil {
		return err
	}
	s.logger.Info("wallet credited",
		zap.String("account_id", accountID),
		zap.String("bucket", string(bucket)),
		zap.Int64("amount", amount.Int64()))
	return nil
}

// Debit decrements a bucket and issues the payout voucher. It fails with
// ErrInsufficientBalance when the bucket cannot cover the amount; no
// partial debit ever occurs. The store fills BalanceBefore/BalanceAfter
// under the account row lock and increments TotalPaid.
func (s *WalletService) Debit(ctx context.Context, accountID string, bucket models.BalanceBucket, amount models.Money, category, description string) (*models.TeacherPayment, error) {
	if amount <= 0 {
		return nil, validationf("debit amount must be > 0")
	}
	if bucket != models.BucketVerified && bucket != models.BucketPending {
		return nil, validationf("payouts debit verified or pending, not %q", bucket)
	}

	now := time.Now()
	voucher := &models.TeacherPayment{
		ID:          uuid.New().String(),
		VoucherID:   newVoucherNumber(now),
		TeacherID:   accountID,
		AmountPaid:  amount,
		Bucket:      bucket,
		Description: description,
		PaidAt:      now,
	}
	entry := &models.Transaction{
		ID:          uuid.New().String(),
		Kind:        models.KindExpense,
		Category:    category,
		Amount:      amount,
		Description: description,
		OccurredAt:  now,
		Status:      models.StatusVerified,
		AccountID:   accountID,
		Bucket:      bucket,
		VoucherID:   voucher.VoucherID,
	}

	if err := withRetry(ctx, func() error {
		return s.store.ApplyPayout(ctx, voucher, entry)
	}); err != nil {
		return nil, err
	}
	s.logger.Info("wallet debited",
		zap.String("account_id", accountID),
		zap.String("voucher_id", voucher.VoucherID),
		zap.String("bucket", string(bucket)),
		zap.Int64("amount", amount.Int64()),
		zap.Int64("balance_after", voucher.BalanceAfter.Int64()))
	return voucher, nil
}

func newVoucherNumber(t time.Time) string {
	return fmt.Sprintf("PV-%s-%s", t.Format("20060102"), uuid.New().String()[:8])
}
