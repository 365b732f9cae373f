package models

import "time"

type TxnKind string
type TxnStatus string
type BalanceBucket string

const (
	KindIncome  TxnKind = "income"
	KindExpense TxnKind = "expense"
	KindCredit  TxnKind = "credit"

	// A transaction is floating while the cash it represents sits in a
	// collector's drawer, and verified once a day closing has locked it
	// (or from birth, when it settles instantly against a wallet bucket).
	StatusFloating TxnStatus = "floating"
	StatusVerified TxnStatus = "verified"

	BucketFloating BalanceBucket = "floating"
	BucketVerified BalanceBucket = "verified"
	BucketPending  BalanceBucket = "pending"
)

// Ledger transaction categories. Operating expenses carry free-form
// categories; the ones below are written by the engine itself.
const (
	CategoryTuition       = "tuition"
	CategoryTuitionShare  = "tuition_share"
	CategorySalaryAccrual = "salary_accrual"
	CategorySalaryPayout  = "salary_payout"
	CategorySharePayout   = "share_payout"
	CategoryAdvance       = "advance"
	CategoryAdjustment    = "adjustment"
	CategoryCorrection    = "correction"
)

// SplitDetails records how one student payment was divided between the
// teacher and the academy. TeacherShare + AcademyShare always equals the
// paid amount.
type SplitDetails struct {
	TeacherID    string  `json:"teacher_id" db:"teacher_id"`
	TeacherShare Money   `json:"teacher_share" db:"teacher_share"`
	AcademyShare Money   `json:"academy_share" db:"academy_share"`
	TeacherPct   Percent `json:"teacher_pct" db:"teacher_pct"`
	AcademyPct   Percent `json:"academy_pct" db:"academy_pct"`
}

// Transaction is one movement of money in the ledger. Every transaction
// pairs with exactly one balance change on AccountID's Bucket; the store
// applies both inside the same database transaction.
type Transaction struct {
	ID          string    `json:"id" db:"id"`
	Seq         int64     `json:"seq" db:"seq"`
	Kind        TxnKind   `json:"kind" db:"kind"`
	Category    string    `json:"category" db:"category"`
	Amount      Money     `json:"amount" db:"amount"`
	Description string    `json:"description" db:"description"`
	OccurredAt  time.Time `json:"occurred_at" db:"occurred_at"`
	Status      TxnStatus `json:"status" db:"status"`

	// AccountID is the wallet this transaction settles against and
	// CollectedBy the staff account holding the physical cash, if any.
	AccountID   string        `json:"account_id" db:"account_id"`
	Bucket      BalanceBucket `json:"bucket" db:"bucket"`
	CollectedBy string        `json:"collected_by" db:"collected_by"`

	StudentID   string        `json:"student_id,omitempty" db:"student_id"`
	FeeRecordID string        `json:"fee_record_id,omitempty" db:"fee_record_id"`
	VoucherID   string        `json:"voucher_id,omitempty" db:"voucher_id"`
	Split       *SplitDetails `json:"split_details,omitempty"`
}

func (k TxnKind) Valid() bool {
	switch k {
	case KindIncome, KindExpense, KindCredit:
		return true
	}
	return false
}

func (b BalanceBucket) Valid() bool {
	switch b {
	case BucketFloating, BucketVerified, BucketPending:
		return true
	}
	return false
}

// Delta is the signed effect of the transaction on its bucket.
func (t *Transaction) Delta() Money {
	if t.Kind == KindExpense {
		return -t.Amount
	}
	return t.Amount
}
