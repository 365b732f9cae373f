package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/muz4miL/academia-ledger/internal/models"
)

// PayrollService accrues fixed salaries. Fixed and hybrid teachers earn
// a configured monthly amount that the distribution path never touches;
// the accrual credits the pending bucket, and salary payouts later
// drain it. One accrual per (teacher, period).
type PayrollService struct {
	store  Store
	logger *zap.Logger
}

func NewPayrollService(store Store, logger *zap.Logger) *PayrollService {
	return &PayrollService{store: store, logger: logger}
}

// AccrueSalary books a teacher's salary for one period, e.g. "2026-08".
func (s *PayrollService) AccrueSalary(ctx context.Context, teacherID, period string) (*models.Transaction, error) {
	if period == "" {
		return nil, validationf("period is required")
	}
	teacher, err := s.store.Account(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	if teacher == nil {
		return nil, notFoundf("teacher %s", teacherID)
	}
	comp := teacher.Compensation
	if !comp.EarnsSalary() {
		return nil, configurationf("teacher %s has no fixed salary", teacherID)
	}
	if comp.FixedSalary <= 0 {
		return nil, configurationf("teacher %s has a zero fixed salary", teacherID)
	}

	entry := &models.Transaction{
		ID:          uuid.New().String(),
		Kind:        models.KindCredit,
		Category:    models.CategorySalaryAccrual,
		Amount:      comp.FixedSalary,
		Description: fmt.Sprintf("salary accrual for %s", period),
		OccurredAt:  time.Now(),
		Status:      models.StatusVerified,
		AccountID:   teacherID,
		Bucket:      models.BucketPending,
	}
	if err := withRetry(ctx, func() error {
		return s.store.ApplyAccrual(ctx, teacherID, period, entry)
	}); err != nil {
		return nil, err
	}
	s.logger.Info("salary accrued",
		zap.String("teacher_id", teacherID),
		zap.String("period", period),
		zap.Int64("amount", comp.FixedSalary.Int64()))
	return entry, nil
}
