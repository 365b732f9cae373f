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

// ApplyDistribution commits one fee distribution: the conditional flip
// of the distributed flag is the authoritative idempotency guard — a
// concurrent or repeated distribution of the same fee finds zero rows
// updated and the whole transaction rolls back.
func (s *Store) ApplyDistribution(ctx context.Context, feeRecordID string, split *models.SplitDetails, entries []*models.Transaction) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE fee_records
			SET distributed = TRUE, teacher_share = $1, academy_share = $2,
			    teacher_pct = $3, academy_pct = $4
			WHERE id = $5 AND distributed = FALSE
		`, split.TeacherShare.Int64(), split.AcademyShare.Int64(),
			int(split.TeacherPct), int(split.AcademyPct), feeRecordID)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: fee record %s", service.ErrDuplicateDistribution, feeRecordID)
		}

		var studentID string
		var amount int64
		if err := tx.QueryRowContext(ctx,
			`SELECT student_id, amount FROM fee_records WHERE id = $1`, feeRecordID).
			Scan(&studentID, &amount); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE students SET paid_amount = paid_amount + $1 WHERE id = $2`,
			amount, studentID); err != nil {
			return err
		}

		return applyEntriesTx(ctx, tx, entries)
	})
}

// ApplyPayout debits the voucher's bucket under the account row lock,
// filling in BalanceBefore/BalanceAfter, and records voucher and
// EXPENSE entry together. No partial debit can survive a failure.
func (s *Store) ApplyPayout(ctx context.Context, voucher *models.TeacherPayment, entry *models.Transaction) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		acct, err := lockAccount(ctx, tx, voucher.TeacherID)
		if err != nil {
			return err
		}
		before := acct.Balance.Bucket(voucher.Bucket)
		if voucher.AmountPaid > before {
			return fmt.Errorf("%w: account %s has %d in %s, needs %d",
				service.ErrInsufficientBalance, voucher.TeacherID, before, voucher.Bucket, voucher.AmountPaid)
		}
		voucher.BalanceBefore = before
		voucher.BalanceAfter = before - voucher.AmountPaid

		col, err := bucketColumn(voucher.Bucket)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`
			UPDATE accounts
			SET %s = %s - $1, total_paid = total_paid + $1, version = version + 1
			WHERE id = $2
		`, col, col), voucher.AmountPaid.Int64(), voucher.TeacherID); err != nil {
			return err
		}
		if err := insertTxn(ctx, tx, entry); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO teacher_payments
			(id, voucher_id, teacher_id, amount_paid, bucket, balance_before, balance_after, description, paid_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, voucher.ID, voucher.VoucherID, voucher.TeacherID, voucher.AmountPaid.Int64(),
			voucher.Bucket, voucher.BalanceBefore.Int64(), voucher.BalanceAfter.Int64(),
			voucher.Description, voucher.PaidAt)
		return err
	})
}

// ApplyAccrual books one salary accrual; the (teacher, period) primary
// key makes a second accrual for the same period fail cleanly.
func (s *Store) ApplyAccrual(ctx context.Context, teacherID, period string, entry *models.Transaction) error {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO salary_accruals (teacher_id, period, amount) VALUES ($1, $2, $3)
		`, teacherID, period, entry.Amount.Int64()); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: salary for %s already accrued in %s",
					service.ErrDuplicateDistribution, teacherID, period)
			}
			return err
		}
		return applyEntriesTx(ctx, tx, []*models.Transaction{entry})
	})
	return err
}

// ApplyClosing promotes the snapshot, folds its signed net into the
// closer's verified balance, zeroes floating, and writes the closing
// record — all or nothing.
func (s *Store) ApplyClosing(ctx context.Context, closing *models.DailyClosing, txnIDs []string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := lockAccount(ctx, tx, closing.ClosedBy); err != nil {
			return err
		}
		if err := promoteTx(ctx, tx, txnIDs); err != nil {
			return err
		}

		var net int64
		for _, id := range txnIDs {
			var kind models.TxnKind
			var amount int64
			if err := tx.QueryRowContext(ctx,
				`SELECT kind, amount FROM transactions WHERE id = $1`, id).
				Scan(&kind, &amount); err != nil {
				return err
			}
			if kind == models.KindExpense {
				net -= amount
			} else {
				net += amount
			}
		}
		closing.TotalLocked = models.Money(net)
		closing.TxnCount = len(txnIDs)

		if _, err := tx.ExecContext(ctx, `
			UPDATE accounts
			SET balance_verified = balance_verified + $1, balance_floating = 0, version = version + 1
			WHERE id = $2
		`, net, closing.ClosedBy); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO daily_closings (id, closed_by, total_locked, txn_count, notes, closed_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, closing.ID, closing.ClosedBy, closing.TotalLocked.Int64(), closing.TxnCount,
			closing.Notes, closing.ClosedAt)
		return err
	})
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
