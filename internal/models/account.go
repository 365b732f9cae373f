package models

import "time"

type CompensationType string

const (
	CompensationPercentage CompensationType = "percentage"
	CompensationFixed      CompensationType = "fixed"
	CompensationHybrid     CompensationType = "hybrid"
)

// Compensation is a teacher's pay policy. Percentage and hybrid teachers
// earn a share of each collected fee; fixed and hybrid teachers accrue a
// monthly salary into the pending bucket via the payroll cycle.
type Compensation struct {
	Type        CompensationType `json:"type" db:"comp_type"`
	TeacherPct  Percent          `json:"teacher_pct" db:"teacher_pct"`
	FixedSalary Money            `json:"fixed_salary" db:"fixed_salary"`
	// Bonus is the hybrid policy's per-fee bonus, taken out of the
	// academy portion of the split.
	Bonus Money `json:"bonus" db:"bonus"`
}

func (c *Compensation) EarnsShare() bool {
	return c != nil && (c.Type == CompensationPercentage || c.Type == CompensationHybrid)
}

func (c *Compensation) EarnsSalary() bool {
	return c != nil && (c.Type == CompensationFixed || c.Type == CompensationHybrid)
}

// Balance is the three-bucket wallet carried by every account.
// Verified and pending never go below zero; floating may, when expenses
// are paid out of a drawer before the day's income arrives.
type Balance struct {
	Floating Money `json:"floating" db:"balance_floating"`
	Verified Money `json:"verified" db:"balance_verified"`
	Pending  Money `json:"pending" db:"balance_pending"`
}

func (b Balance) Bucket(bucket BalanceBucket) Money {
	switch bucket {
	case BucketFloating:
		return b.Floating
	case BucketVerified:
		return b.Verified
	case BucketPending:
		return b.Pending
	}
	return 0
}

// Total is the academy's outstanding liability toward the account.
func (b Balance) Total() Money { return b.Floating + b.Verified + b.Pending }

// Account is a wallet-bearing entity: a teacher, or a staff member who
// collects cash and closes days. Teachers carry a compensation policy;
// collectors do not.
type Account struct {
	ID           string        `json:"id" db:"id"`
	Name         string        `json:"name" db:"name"`
	Compensation *Compensation `json:"compensation,omitempty"`
	Balance      Balance       `json:"balance"`
	TotalPaid    Money         `json:"total_paid" db:"total_paid"`
	Version      int64         `json:"-" db:"version"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
}
