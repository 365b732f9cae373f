package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/muz4miL/academia-ledger/internal/metrics"
	"github.com/muz4miL/academia-ledger/internal/models"
)

// PayoutType selects the canonical bucket a payout debits. Revenue-share
// payouts and advances come out of verified cash; salary payouts come
// out of the pending bucket funded by payroll accrual. No payout path
// chooses its bucket ad hoc.
type PayoutType string

const (
	PayoutShare   PayoutType = "share"
	PayoutAdvance PayoutType = "advance"
	PayoutSalary  PayoutType = "salary"
)

func (t PayoutType) bucket() (models.BalanceBucket, bool) {
	switch t {
	case PayoutShare, PayoutAdvance:
		return models.BucketVerified, true
	case PayoutSalary:
		return models.BucketPending, true
	}
	return "", false
}

func (t PayoutType) category() string {
	switch t {
	case PayoutSalary:
		return models.CategorySalaryPayout
	case PayoutAdvance:
		return models.CategoryAdvance
	default:
		return models.CategorySharePayout
	}
}

// PayoutService pays teachers and owners out of their locked balances,
// producing an immutable voucher per payment.
type PayoutService struct {
	store  Store
	wallet *WalletService
	logger *zap.Logger
}

func NewPayoutService(store Store, wallet *WalletService, logger *zap.Logger) *PayoutService {
	return &PayoutService{store: store, wallet: wallet, logger: logger}
}

// Payout debits the bucket mapped from payoutType and records the payout
// as a salary/advance EXPENSE transaction referencing the voucher.
func (s *PayoutService) Payout(ctx context.Context, accountID string, amount models.Money, payoutType PayoutType, description string) (*models.TeacherPayment, error) {
	if amount <= 0 {
		return nil, validationf("payout amount must be > 0")
	}
	bucket, ok := payoutType.bucket()
	if !ok {
		return nil, validationf("unknown payout type %q", payoutType)
	}
	acct, err := s.store.Account(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if acct == nil {
		return nil, notFoundf("account %s", accountID)
	}

	voucher, err := s.wallet.Debit(ctx, accountID, bucket, amount, payoutType.category(), description)
	if err != nil {
		return nil, err
	}
	metrics.PayoutsTotal.Inc()
	s.logger.Info("payout processed",
		zap.String("account_id", accountID),
		zap.String("type", string(payoutType)),
		zap.String("voucher_id", voucher.VoucherID))
	return voucher, nil
}

// Vouchers lists an account's payout history, newest first.
func (s *PayoutService) Vouchers(ctx context.Context, accountID string) ([]*models.TeacherPayment, error) {
	return s.store.Vouchers(ctx, accountID)
}
