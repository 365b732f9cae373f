package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/muz4miL/academia-ledger/internal/models"
)

// LedgerService is the append-mostly transaction log. It owns no balance
// logic; every entry it writes carries the account/bucket pairing that
// the store applies alongside the insert.
type LedgerService struct {
	store  Store
	logger *zap.Logger
}

func NewLedgerService(store Store, logger *zap.Logger) *LedgerService {
	return &LedgerService{store: store, logger: logger}
}

// AppendParams describes one money movement to record.
type AppendParams struct {
	Kind        models.TxnKind
	Category    string
	Amount      models.Money
	Description string
	Status      models.TxnStatus
	AccountID   string
	Bucket      models.BalanceBucket
	CollectedBy string
}

// Append validates and stores a single transaction.
func (s *LedgerService) Append(ctx context.Context, p AppendParams) (*models.Transaction, error) {
	entry, err := newEntry(p)
	if err != nil {
		return nil, err
	}
	if err := withRetry(ctx, func() error {
		return s.store.ApplyEntries(ctx, []*models.Transaction{entry})
	}); err != nil {
		return nil, err
	}
	s.logger.Info("ledger entry appended",
		zap.String("transaction_id", entry.ID),
		zap.String("kind", string(entry.Kind)),
		zap.Int64("amount", entry.Amount.Int64()))
	return entry, nil
}

// FindFloating returns the transactions currently floating under a
// collector, in append order.
func (s *LedgerService) FindFloating(ctx context.Context, collectedBy string) ([]*models.Transaction, error) {
	return s.store.FloatingByCollector(ctx, collectedBy)
}

// Promote flips a batch of floating transactions to verified. The batch
// is all-or-nothing: if any id is not currently floating, nothing flips.
func (s *LedgerService) Promote(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, ErrNoOp
	}
	return s.store.PromoteTransactions(ctx, ids)
}

// Void writes a compensating reversal for a verified transaction. The
// original row is never mutated; the reversal carries the opposite kind
// and settles against the bucket the money now lives in.
func (s *LedgerService) Void(ctx context.Context, transactionID, reason string) (*models.Transaction, error) {
	orig, err := s.store.Transaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if orig == nil {
		return nil, notFoundf("transaction %s", transactionID)
	}
	if orig.Status != models.StatusVerified {
		return nil, validationf("only verified transactions can be voided")
	}
	kind := models.KindExpense
	if orig.Kind == models.KindExpense {
		kind = models.KindCredit
	}
	// A verified transaction on the floating bucket is promoted drawer
	// cash: a closing already folded it into the collector's verified
	// balance, so the correction must land there, not in the drawer
	// where the next closing's floating reset would erase it.
	bucket := orig.Bucket
	if bucket == models.BucketFloating {
		bucket = models.BucketVerified
	}
	reversal := &models.Transaction{
		ID:          uuid.New().String(),
		Kind:        kind,
		Category:    models.CategoryCorrection,
		Amount:      orig.Amount,
		Description: "reversal of " + orig.ID + ": " + reason,
		OccurredAt:  time.Now(),
		Status:      models.StatusVerified,
		AccountID:   orig.AccountID,
		Bucket:      bucket,
		CollectedBy: orig.CollectedBy,
	}
	if err := withRetry(ctx, func() error {
		return s.store.ApplyEntries(ctx, []*models.Transaction{reversal})
	}); err != nil {
		return nil, err
	}
	s.logger.Warn("transaction voided",
		zap.String("transaction_id", orig.ID),
		zap.String("reversal_id", reversal.ID),
		zap.String("reason", reason))
	return reversal, nil
}

func newEntry(p AppendParams) (*models.Transaction, error) {
	if p.Amount <= 0 {
		return nil, validationf("amount must be > 0")
	}
	if !p.Kind.Valid() {
		return nil, validationf("unknown transaction kind %q", p.Kind)
	}
	if !p.Bucket.Valid() {
		return nil, validationf("unknown balance bucket %q", p.Bucket)
	}
	if p.AccountID == "" {
		return nil, validationf("account id is required")
	}
	status := p.Status
	if status == "" {
		status = models.StatusFloating
	}
	return &models.Transaction{
		ID:          uuid.New().String(),
		Kind:        p.Kind,
		Category:    p.Category,
		Amount:      p.Amount,
		Description: p.Description,
		OccurredAt:  time.Now(),
		Status:      status,
		AccountID:   p.AccountID,
		Bucket:      p.Bucket,
		CollectedBy: p.CollectedBy,
	}, nil
}
