package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/muz4miL/academia-ledger/internal/metrics"
	"github.com/muz4miL/academia-ledger/internal/models"
)

// ClosingService locks a collector's floating cash into their verified
// balance. The snapshot is collector-scoped, not date-scoped: whatever
// is floating under closedBy at call time is promoted; entries appended
// after the snapshot roll into the next closing.
type ClosingService struct {
	store  Store
	logger *zap.Logger
}

func NewClosingService(store Store, logger *zap.Logger) *ClosingService {
	return &ClosingService{store: store, logger: logger}
}

// CloseDay promotes the snapshotted floating transactions to verified,
// folds their signed net (income minus expenses) into the closer's
// verified balance, zeroes the floating bucket, and writes one
// DailyClosing record. The whole batch commits atomically.
func (s *ClosingService) CloseDay(ctx context.Context, closedBy, notes string) (*models.DailyClosing, error) {
	closer, err := s.store.Account(ctx, closedBy)
	if err != nil {
		return nil, err
	}
	if closer == nil {
		return nil, notFoundf("account %s", closedBy)
	}

	snapshot, err := s.store.FloatingByCollector(ctx, closedBy)
	if err != nil {
		return nil, err
	}
	var net models.Money
	ids := make([]string, 0, len(snapshot))
	for _, txn := range snapshot {
		net += txn.Delta()
		ids = append(ids, txn.ID)
	}
	if len(snapshot) == 0 || net == 0 {
		return nil, ErrNoOp
	}

	closing := &models.DailyClosing{
		ID:          uuid.New().String(),
		ClosedBy:    closedBy,
		TotalLocked: net,
		TxnCount:    len(snapshot),
		Notes:       notes,
		ClosedAt:    time.Now(),
	}
	if err := withRetry(ctx, func() error {
		return s.store.ApplyClosing(ctx, closing, ids)
	}); err != nil {
		return nil, err
	}

	metrics.ClosingsTotal.Inc()
	s.logger.Info("day closed",
		zap.String("closed_by", closedBy),
		zap.Int("transactions", closing.TxnCount),
		zap.Int64("total_locked", closing.TotalLocked.Int64()))
	return closing, nil
}

// Closings lists past closings, newest first.
func (s *ClosingService) Closings(ctx context.Context) ([]*models.DailyClosing, error) {
	return s.store.Closings(ctx)
}
