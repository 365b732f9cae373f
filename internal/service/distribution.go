package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/muz4miL/academia-ledger/internal/metrics"
	"github.com/muz4miL/academia-ledger/internal/models"
	"github.com/muz4miL/academia-ledger/pkg/redis"
)

// DistributionService splits each paid student fee between the assigned
// teacher and the academy per the teacher's compensation policy, and is
// the only producer of tuition ledger entries.
//
// Idempotency has two layers: a redis fast path keyed by fee record id,
// and the authoritative conditional flip of FeeRecord.Distributed inside
// the store transaction. The system is fully correct without redis.
type DistributionService struct {
	store  Store
	cache  *redis.Client
	logger *zap.Logger
}

func NewDistributionService(store Store, cache *redis.Client, logger *zap.Logger) *DistributionService {
	return &DistributionService{store: store, cache: cache, logger: logger}
}

// Distribute processes one paid fee record. All effects are atomic: the
// teacher-share CREDIT, the academy-share INCOME, the balance credits
// and the student's paid-amount bump commit together or not at all.
func (s *DistributionService) Distribute(ctx context.Context, feeRecordID, studentID string, paidAmount models.Money) (*models.SplitDetails, error) {
	if paidAmount <= 0 {
		return nil, validationf("paid amount must be > 0")
	}

	if done, _ := s.cache.Exists(ctx, distributedKey(feeRecordID)); done {
		return nil, fmt.Errorf("%w: fee record %s", ErrDuplicateDistribution, feeRecordID)
	}

	fee, err := s.store.FeeRecord(ctx, feeRecordID)
	if err != nil {
		return nil, err
	}
	if fee == nil {
		return nil, notFoundf("fee record %s", feeRecordID)
	}
	if fee.Distributed {
		return nil, fmt.Errorf("%w: fee record %s", ErrDuplicateDistribution, feeRecordID)
	}
	// The fee record is the source of truth for the amount; the split and
	// the student's paid-amount bump must work from the same figure.
	if paidAmount != fee.Amount {
		return nil, validationf("paid amount %d does not match fee record amount %d", paidAmount, fee.Amount)
	}
	student, err := s.store.Student(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, notFoundf("student %s", studentID)
	}

	teacherID := fee.TeacherID
	if teacherID == "" {
		teacherID = student.TeacherID
	}
	if teacherID == "" {
		return nil, configurationf("student %s has no assigned teacher", studentID)
	}
	teacher, err := s.store.Account(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	if teacher == nil {
		return nil, notFoundf("teacher %s", teacherID)
	}
	if teacher.Compensation == nil {
		return nil, configurationf("teacher %s has no compensation policy", teacherID)
	}

	split, err := ComputeSplit(paidAmount, teacher.Compensation)
	if err != nil {
		return nil, err
	}
	split.TeacherID = teacherID

	now := time.Now()
	var entries []*models.Transaction
	if split.TeacherShare > 0 {
		// The teacher's share settles against the verified bucket the
		// moment the fee is collected; it never passes through closing.
		entries = append(entries, &models.Transaction{
			ID:          uuid.New().String(),
			Kind:        models.KindCredit,
			Category:    models.CategoryTuitionShare,
			Amount:      split.TeacherShare,
			Description: fmt.Sprintf("teacher share of fee %s (%s)", feeRecordID, fee.Period),
			OccurredAt:  now,
			Status:      models.StatusVerified,
			AccountID:   teacherID,
			Bucket:      models.BucketVerified,
			CollectedBy: fee.CollectedBy,
			StudentID:   studentID,
			FeeRecordID: feeRecordID,
			Split:       split,
		})
	}
	// The academy's share is drawer cash under the collector and stays
	// floating until a day closing locks it.
	entries = append(entries, &models.Transaction{
		ID:          uuid.New().String(),
		Kind:        models.KindIncome,
		Category:    models.CategoryTuition,
		Amount:      split.AcademyShare,
		Description: fmt.Sprintf("academy share of fee %s (%s)", feeRecordID, fee.Period),
		OccurredAt:  now,
		Status:      models.StatusFloating,
		AccountID:   fee.CollectedBy,
		Bucket:      models.BucketFloating,
		CollectedBy: fee.CollectedBy,
		StudentID:   studentID,
		FeeRecordID: feeRecordID,
		Split:       split,
	})

	if err := withRetry(ctx, func() error {
		return s.store.ApplyDistribution(ctx, feeRecordID, split, entries)
	}); err != nil {
		return nil, err
	}

	s.cache.Set(ctx, distributedKey(feeRecordID), "1", 24*time.Hour)
	metrics.DistributionsTotal.Inc()
	s.logger.Info("fee distributed",
		zap.String("fee_record_id", feeRecordID),
		zap.String("teacher_id", teacherID),
		zap.Int64("teacher_share", split.TeacherShare.Int64()),
		zap.Int64("academy_share", split.AcademyShare.Int64()))
	return split, nil
}

// ComputeSplit resolves a compensation policy against a paid amount.
// The academy share is always the subtraction remainder, so the two
// shares sum to the paid amount exactly.
func ComputeSplit(amount models.Money, comp *models.Compensation) (*models.SplitDetails, error) {
	switch comp.Type {
	case models.CompensationPercentage:
		teacherShare := comp.TeacherPct.Share(amount)
		return &models.SplitDetails{
			TeacherShare: teacherShare,
			AcademyShare: amount - teacherShare,
			TeacherPct:   comp.TeacherPct,
			AcademyPct:   100 - comp.TeacherPct,
		}, nil
	case models.CompensationFixed:
		// Fixed-salary teachers earn nothing per fee; the full amount
		// flows to the academy pool and the salary is accrued by the
		// payroll cycle.
		return &models.SplitDetails{
			TeacherShare: 0,
			AcademyShare: amount,
			TeacherPct:   0,
			AcademyPct:   100,
		}, nil
	case models.CompensationHybrid:
		teacherShare := comp.TeacherPct.Share(amount) + comp.Bonus
		if teacherShare > amount {
			teacherShare = amount
		}
		return &models.SplitDetails{
			TeacherShare: teacherShare,
			AcademyShare: amount - teacherShare,
			TeacherPct:   comp.TeacherPct,
			AcademyPct:   100 - comp.TeacherPct,
		}, nil
	}
	return nil, configurationf("unknown compensation type %q", comp.Type)
}

func distributedKey(feeRecordID string) string {
	return "distributed:" + feeRecordID
}
