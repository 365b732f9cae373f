package models

import "time"

type FeeStatus string

const (
	FeePending FeeStatus = "pending"
	FeePartial FeeStatus = "partial"
	FeePaid    FeeStatus = "paid"
)

// Student tracks fee progress only; enrollment and personal data live in
// the student CRUD subsystem.
type Student struct {
	ID         string    `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	TeacherID  string    `json:"teacher_id" db:"teacher_id"`
	TotalFee   Money     `json:"total_fee" db:"total_fee"`
	PaidAmount Money     `json:"paid_amount" db:"paid_amount"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// FeeStatus is always derived, never stored.
func (s *Student) FeeStatus() FeeStatus {
	switch {
	case s.TotalFee == 0 || s.PaidAmount == 0:
		return FeePending
	case s.PaidAmount >= s.TotalFee:
		return FeePaid
	default:
		return FeePartial
	}
}

// FeeRecord is the source-of-truth trigger for exactly one revenue
// distribution. Distributed flips once, under the same database
// transaction as the ledger entries it produces.
type FeeRecord struct {
	ID          string        `json:"id" db:"id"`
	StudentID   string        `json:"student_id" db:"student_id"`
	TeacherID   string        `json:"teacher_id" db:"teacher_id"`
	CollectedBy string        `json:"collected_by" db:"collected_by"`
	Amount      Money         `json:"amount" db:"amount"`
	Period      string        `json:"period" db:"period"`
	Distributed bool          `json:"distributed" db:"distributed"`
	Split       *SplitDetails `json:"split_breakdown,omitempty"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
}
