package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/muz4miL/academia-ledger/internal/models"
)

func (s *Store) Account(ctx context.Context, id string) (*models.Account, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, comp_type, teacher_pct, fixed_salary, bonus,
		       balance_floating, balance_verified, balance_pending,
		       total_paid, version, created_at
		FROM accounts WHERE id = $1
	`, id)
	acct, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return acct, err
}

func (s *Store) Accounts(ctx context.Context) ([]*models.Account, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, comp_type, teacher_pct, fixed_salary, bonus,
		       balance_floating, balance_verified, balance_pending,
		       total_paid, version, created_at
		FROM accounts ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		acct, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, acct)
	}
	return accounts, rows.Err()
}

func (s *Store) CreateAccount(ctx context.Context, a *models.Account) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	var compType sql.NullString
	var teacherPct int
	var fixedSalary, bonus int64
	if a.Compensation != nil {
		compType = sql.NullString{String: string(a.Compensation.Type), Valid: true}
		teacherPct = int(a.Compensation.TeacherPct)
		fixedSalary = a.Compensation.FixedSalary.Int64()
		bonus = a.Compensation.Bonus.Int64()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts
		(id, name, comp_type, teacher_pct, fixed_salary, bonus,
		 balance_floating, balance_verified, balance_pending, total_paid, version, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		a.ID,
		a.Name,
		compType,
		teacherPct,
		fixedSalary,
		bonus,
		a.Balance.Floating.Int64(),
		a.Balance.Verified.Int64(),
		a.Balance.Pending.Int64(),
		a.TotalPaid.Int64(),
		a.Version,
		a.CreatedAt,
	)
	return err
}

func (s *Store) Student(ctx context.Context, id string) (*models.Student, error) {
	st := &models.Student{}
	var teacherID sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, teacher_id, total_fee, paid_amount, created_at
		FROM students WHERE id = $1
	`, id).Scan(&st.ID, &st.Name, &teacherID, &st.TotalFee, &st.PaidAmount, &st.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	st.TeacherID = teacherID.String
	return st, nil
}

func (s *Store) CreateStudent(ctx context.Context, st *models.Student) error {
	if st.CreatedAt.IsZero() {
		st.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO students (id, name, teacher_id, total_fee, paid_amount, created_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6)
	`, st.ID, st.Name, st.TeacherID, st.TotalFee.Int64(), st.PaidAmount.Int64(), st.CreatedAt)
	return err
}

func (s *Store) FeeRecord(ctx context.Context, id string) (*models.FeeRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, student_id, teacher_id, collected_by, amount, period, distributed,
		       teacher_share, academy_share, teacher_pct, academy_pct, created_at
		FROM fee_records WHERE id = $1
	`, id)
	fee, err := scanFeeRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return fee, err
}

func (s *Store) CreateFeeRecord(ctx context.Context, f *models.FeeRecord) error {
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO fee_records (id, student_id, teacher_id, collected_by, amount, period, distributed, created_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8)
	`, f.ID, f.StudentID, f.TeacherID, f.CollectedBy, f.Amount.Int64(), f.Period, f.Distributed, f.CreatedAt)
	return err
}

func (s *Store) FeeRecords(ctx context.Context) ([]*models.FeeRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, student_id, teacher_id, collected_by, amount, period, distributed,
		       teacher_share, academy_share, teacher_pct, academy_pct, created_at
		FROM fee_records ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fees []*models.FeeRecord
	for rows.Next() {
		fee, err := scanFeeRecord(rows)
		if err != nil {
			return nil, err
		}
		fees = append(fees, fee)
	}
	return fees, rows.Err()
}

func scanFeeRecord(row rowScanner) (*models.FeeRecord, error) {
	fee := &models.FeeRecord{}
	var teacherID sql.NullString
	var teacherShare, academyShare sql.NullInt64
	var teacherPct, academyPct sql.NullInt64
	err := row.Scan(
		&fee.ID,
		&fee.StudentID,
		&teacherID,
		&fee.CollectedBy,
		&fee.Amount,
		&fee.Period,
		&fee.Distributed,
		&teacherShare,
		&academyShare,
		&teacherPct,
		&academyPct,
		&fee.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	fee.TeacherID = teacherID.String
	if teacherShare.Valid {
		fee.Split = &models.SplitDetails{
			TeacherID:    fee.TeacherID,
			TeacherShare: models.Money(teacherShare.Int64),
			AcademyShare: models.Money(academyShare.Int64),
			TeacherPct:   models.Percent(teacherPct.Int64),
			AcademyPct:   models.Percent(academyPct.Int64),
		}
	}
	return fee, nil
}
