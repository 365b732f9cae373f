package repository

import (
	"context"

	"github.com/lib/pq"

	"github.com/muz4miL/academia-ledger/internal/models"
)

func (s *Store) Vouchers(ctx context.Context, teacherID string) ([]*models.TeacherPayment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, voucher_id, teacher_id, amount_paid, bucket, balance_before, balance_after, description, paid_at
		FROM teacher_payments WHERE teacher_id = $1 ORDER BY paid_at DESC
	`, teacherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vouchers []*models.TeacherPayment
	for rows.Next() {
		v := &models.TeacherPayment{}
		err := rows.Scan(
			&v.ID,
			&v.VoucherID,
			&v.TeacherID,
			&v.AmountPaid,
			&v.Bucket,
			&v.BalanceBefore,
			&v.BalanceAfter,
			&v.Description,
			&v.PaidAt,
		)
		if err != nil {
			return nil, err
		}
		vouchers = append(vouchers, v)
	}
	return vouchers, rows.Err()
}

func (s *Store) Closings(ctx context.Context) ([]*models.DailyClosing, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, closed_by, total_locked, txn_count, notes, closed_at
		FROM daily_closings ORDER BY closed_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var closings []*models.DailyClosing
	for rows.Next() {
		c := &models.DailyClosing{}
		err := rows.Scan(&c.ID, &c.ClosedBy, &c.TotalLocked, &c.TxnCount, &c.Notes, &c.ClosedAt)
		if err != nil {
			return nil, err
		}
		closings = append(closings, c)
	}
	return closings, rows.Err()
}

func (s *Store) SaveReconciliationReport(ctx context.Context, r *models.ReconciliationReport) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reconciliation_reports
		(id, job, processed, succeeded, skipped, failed, failure_reasons, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		r.ID,
		r.Job,
		r.Processed,
		r.Succeeded,
		r.Skipped,
		r.Failed,
		pq.Array(r.FailureReasons),
		r.StartedAt,
		r.FinishedAt,
	)
	return err
}
