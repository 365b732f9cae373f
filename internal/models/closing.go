package models

import "time"

// DailyClosing is the write-once audit record of one day closing: every
// transaction floating under ClosedBy at snapshot time was promoted to
// verified and the signed net folded into the closer's verified balance.
type DailyClosing struct {
	ID          string    `json:"id" db:"id"`
	ClosedBy    string    `json:"closed_by" db:"closed_by"`
	TotalLocked Money     `json:"total_locked" db:"total_locked"`
	TxnCount    int       `json:"txn_count" db:"txn_count"`
	Notes       string    `json:"notes" db:"notes"`
	ClosedAt    time.Time `json:"closed_at" db:"closed_at"`
}

// TeacherPayment is the immutable voucher produced by a payout. Receipt
// rendering reads these fields verbatim.
type TeacherPayment struct {
	ID            string        `json:"id" db:"id"`
	VoucherID     string        `json:"voucher_id" db:"voucher_id"`
	TeacherID     string        `json:"teacher_id" db:"teacher_id"`
	AmountPaid    Money         `json:"amount_paid" db:"amount_paid"`
	Bucket        BalanceBucket `json:"bucket" db:"bucket"`
	BalanceBefore Money         `json:"balance_before" db:"balance_before"`
	BalanceAfter  Money         `json:"balance_after" db:"balance_after"`
	Description   string        `json:"description" db:"description"`
	PaidAt        time.Time     `json:"paid_at" db:"paid_at"`
}

// ReconciliationReport is the aggregate result of one offline job run.
type ReconciliationReport struct {
	ID             string    `json:"id" db:"id"`
	Job            string    `json:"job" db:"job"`
	Processed      int       `json:"processed" db:"processed"`
	Succeeded      int       `json:"succeeded" db:"succeeded"`
	Skipped        int       `json:"skipped" db:"skipped"`
	Failed         int       `json:"failed" db:"failed"`
	FailureReasons []string  `json:"failure_reasons" db:"failure_reasons"`
	StartedAt      time.Time `json:"started_at" db:"started_at"`
	FinishedAt     time.Time `json:"finished_at" db:"finished_at"`
}
