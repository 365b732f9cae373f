package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/muz4miL/academia-ledger/internal/models"
	"github.com/muz4miL/academia-ledger/internal/service"
)

const txnColumns = `
	id, seq, kind, category, amount, description, occurred_at, status,
	account_id, bucket, collected_by, student_id, fee_record_id, voucher_id,
	teacher_share, academy_share, teacher_pct, academy_pct, split_teacher_id`

func (s *Store) Transaction(ctx context.Context, id string) (*models.Transaction, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT`+txnColumns+` FROM transactions WHERE id = $1`, id)
	txn, err := scanTxn(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return txn, err
}

func (s *Store) TransactionsByFeeRecord(ctx context.Context, feeRecordID string) ([]*models.Transaction, error) {
	return s.queryTxns(ctx,
		`SELECT`+txnColumns+` FROM transactions WHERE fee_record_id = $1 ORDER BY seq ASC`,
		feeRecordID)
}

func (s *Store) TransactionsByDateRange(ctx context.Context, from, to time.Time) ([]*models.Transaction, error) {
	return s.queryTxns(ctx,
		`SELECT`+txnColumns+` FROM transactions WHERE occurred_at BETWEEN $1 AND $2 ORDER BY seq ASC`,
		from, to)
}

func (s *Store) FloatingByCollector(ctx context.Context, collectedBy string) ([]*models.Transaction, error) {
	return s.queryTxns(ctx,
		`SELECT`+txnColumns+` FROM transactions WHERE status = $1 AND collected_by = $2 ORDER BY seq ASC`,
		models.StatusFloating, collectedBy)
}

func (s *Store) SumByKind(ctx context.Context, kind models.TxnKind, from, to time.Time) (models.Money, error) {
	var sum int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM transactions
		WHERE kind = $1 AND occurred_at BETWEEN $2 AND $3
	`, kind, from, to).Scan(&sum)
	return models.Money(sum), err
}

// ApplyEntries inserts each transaction and applies its balance delta to
// the account's bucket, all in one database transaction. Account rows
// are locked in order; the check constraints on verified/pending turn a
// would-be negative balance into ErrInsufficientBalance.
func (s *Store) ApplyEntries(ctx context.Context, entries []*models.Transaction) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		return applyEntriesTx(ctx, tx, entries)
	})
}

func applyEntriesTx(ctx context.Context, tx *sql.Tx, entries []*models.Transaction) error {
	for _, entry := range entries {
		if _, err := lockAccount(ctx, tx, entry.AccountID); err != nil {
			return err
		}
		col, err := bucketColumn(entry.Bucket)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`
			UPDATE accounts SET %s = %s + $1, version = version + 1 WHERE id = $2
		`, col, col), entry.Delta().Int64(), entry.AccountID); err != nil {
			return err
		}
		if err := insertTxn(ctx, tx, entry); err != nil {
			return err
		}
	}
	return nil
}

func insertTxn(ctx context.Context, tx *sql.Tx, t *models.Transaction) error {
	var teacherShare, academyShare, teacherPct, academyPct sql.NullInt64
	var splitTeacherID sql.NullString
	if t.Split != nil {
		teacherShare = sql.NullInt64{Int64: t.Split.TeacherShare.Int64(), Valid: true}
		academyShare = sql.NullInt64{Int64: t.Split.AcademyShare.Int64(), Valid: true}
		teacherPct = sql.NullInt64{Int64: int64(t.Split.TeacherPct), Valid: true}
		academyPct = sql.NullInt64{Int64: int64(t.Split.AcademyPct), Valid: true}
		splitTeacherID = sql.NullString{String: t.Split.TeacherID, Valid: true}
	}
	return tx.QueryRowContext(ctx, `
		INSERT INTO transactions
		(id, kind, category, amount, description, occurred_at, status,
		 account_id, bucket, collected_by, student_id, fee_record_id, voucher_id,
		 teacher_share, academy_share, teacher_pct, academy_pct, split_teacher_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9,
		        NULLIF($10, ''), NULLIF($11, ''), NULLIF($12, ''), NULLIF($13, ''),
		        $14, $15, $16, $17, $18)
		RETURNING seq
	`,
		t.ID, t.Kind, t.Category, t.Amount.Int64(), t.Description, t.OccurredAt, t.Status,
		t.AccountID, t.Bucket, t.CollectedBy, t.StudentID, t.FeeRecordID, t.VoucherID,
		teacherShare, academyShare, teacherPct, academyPct, splitTeacherID,
	).Scan(&t.Seq)
}

// PromoteTransactions flips a batch FLOATING -> VERIFIED. The batch is
// rejected whole if any id is missing or not currently floating.
func (s *Store) PromoteTransactions(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		return promoteTx(ctx, tx, ids)
	})
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

func promoteTx(ctx context.Context, tx *sql.Tx, ids []string) error {
	for _, id := range ids {
		var status models.TxnStatus
		err := tx.QueryRowContext(ctx,
			`SELECT status FROM transactions WHERE id = $1 FOR UPDATE`, id).Scan(&status)
		if err == sql.ErrNoRows {
			return fmt.Errorf("%w: transaction %s", service.ErrNotFound, id)
		}
		if err != nil {
			return err
		}
		if status != models.StatusFloating {
			return fmt.Errorf("%w: transaction %s is not floating", service.ErrConcurrencyConflict, id)
		}
	}
	for _, id := range ids {
		if _, err := tx.ExecContext(ctx,
			`UPDATE transactions SET status = $1 WHERE id = $2`, models.StatusVerified, id); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) queryTxns(ctx context.Context, query string, args ...interface{}) ([]*models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []*models.Transaction
	for rows.Next() {
		txn, err := scanTxn(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}
	return txns, rows.Err()
}

func scanTxn(row rowScanner) (*models.Transaction, error) {
	txn := &models.Transaction{}
	var collectedBy, studentID, feeRecordID, voucherID, splitTeacherID sql.NullString
	var teacherShare, academyShare, teacherPct, academyPct sql.NullInt64
	err := row.Scan(
		&txn.ID,
		&txn.Seq,
		&txn.Kind,
		&txn.Category,
		&txn.Amount,
		&txn.Description,
		&txn.OccurredAt,
		&txn.Status,
		&txn.AccountID,
		&txn.Bucket,
		&collectedBy,
		&studentID,
		&feeRecordID,
		&voucherID,
		&teacherShare,
		&academyShare,
		&teacherPct,
		&academyPct,
		&splitTeacherID,
	)
	if err != nil {
		return nil, err
	}
	txn.CollectedBy = collectedBy.String
	txn.StudentID = studentID.String
	txn.FeeRecordID = feeRecordID.String
	txn.VoucherID = voucherID.String
	if teacherShare.Valid {
		txn.Split = &models.SplitDetails{
			TeacherID:    splitTeacherID.String,
			TeacherShare: models.Money(teacherShare.Int64),
			AcademyShare: models.Money(academyShare.Int64),
			TeacherPct:   models.Percent(teacherPct.Int64),
			AcademyPct:   models.Percent(academyPct.Int64),
		}
	}
	return txn, nil
}
