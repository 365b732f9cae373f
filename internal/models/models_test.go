package models

import "testing"

func TestNewMoney(t *testing.T) {
	if _, err := NewMoney(-1); err == nil {
		t.Error("NewMoney(-1) should fail")
	}
	m, err := NewMoney(14000)
	if err != nil {
		t.Fatalf("NewMoney(14000): %v", err)
	}
	if m.Int64() != 14000 {
		t.Errorf("got %d, want 14000", m.Int64())
	}
}

func TestPercentShare(t *testing.T) {
	tests := []struct {
		name   string
		amount Money
		pct    Percent
		want   Money
	}{
		{"exact split", 14000, 70, 9800},
		{"rounds half up", 99, 33, 33},
		{"rounds down", 101, 33, 33},
		{"full share", 5000, 100, 5000},
		{"zero share", 5000, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pct.Share(tt.amount); got != tt.want {
				t.Errorf("Share(%d, %d%%) = %d, want %d", tt.amount, tt.pct, got, tt.want)
			}
			// The complement is always taken by subtraction; the pair
			// must conserve the amount.
			if got := tt.pct.Share(tt.amount) + (tt.amount - tt.pct.Share(tt.amount)); got != tt.amount {
				t.Errorf("shares do not sum to amount: %d != %d", got, tt.amount)
			}
		})
	}
}

func TestStudentFeeStatus(t *testing.T) {
	tests := []struct {
		name       string
		totalFee   Money
		paidAmount Money
		want       FeeStatus
	}{
		{"nothing due, nothing paid", 0, 0, FeePending},
		{"due but unpaid", 13000, 0, FeePending},
		{"paid in full", 13000, 13000, FeePaid},
		{"overpaid", 13000, 15000, FeePaid},
		{"partially paid", 25000, 20000, FeePartial},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Student{TotalFee: tt.totalFee, PaidAmount: tt.paidAmount}
			if got := s.FeeStatus(); got != tt.want {
				t.Errorf("FeeStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTransactionDelta(t *testing.T) {
	income := &Transaction{Kind: KindIncome, Amount: 100}
	if income.Delta() != 100 {
		t.Errorf("income delta = %d, want 100", income.Delta())
	}
	expense := &Transaction{Kind: KindExpense, Amount: 100}
	if expense.Delta() != -100 {
		t.Errorf("expense delta = %d, want -100", expense.Delta())
	}
	credit := &Transaction{Kind: KindCredit, Amount: 100}
	if credit.Delta() != 100 {
		t.Errorf("credit delta = %d, want 100", credit.Delta())
	}
}
