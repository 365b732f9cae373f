package service_test

import (
	"testing"
	"time"

	"github.com/muz4miL/academia-ledger/internal/models"
	"github.com/muz4miL/academia-ledger/internal/service"
)

func TestSummary(t *testing.T) {
	e := newEnv(t)
	e.addAccount(t, "teacher-A", percentageComp(70))
	e.addAccount(t, "owner", nil)
	e.addStudent(t, "student-1", "teacher-A", 14000)
	e.addFee(t, "fee-1", "student-1", "teacher-A", "owner", 14000)

	if _, err := e.distributor.Distribute(e.ctx, "fee-1", "student-1", 14000); err != nil {
		t.Fatalf("Distribute: %v", err)
	}
	exp, _ := e.expenses.Record(e.ctx, "electricity", "utilities", 3000, "")
	if _, err := e.expenses.MarkPaid(e.ctx, exp.ID, "owner"); err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}

	summary, err := e.stats.Summary(e.ctx, time.Time{}, time.Now())
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	// Income counts the academy's INCOME entry only; the teacher's CREDIT
	// is a liability transfer, not revenue.
	if summary.TotalIncome != 4200 {
		t.Errorf("income = %d, want 4200", summary.TotalIncome)
	}
	if summary.TotalExpense != 3000 {
		t.Errorf("expense = %d, want 3000", summary.TotalExpense)
	}
	if summary.Net != 1200 {
		t.Errorf("net = %d, want 1200", summary.Net)
	}
}

func TestLiabilities(t *testing.T) {
	e := newEnv(t)
	e.addAccount(t, "teacher-A", percentageComp(70))
	if err := e.wallet.Credit(e.ctx, "teacher-A", models.BucketVerified, 9800, models.CategoryAdjustment, "seed"); err != nil {
		t.Fatalf("Credit: %v", err)
	}
	if _, err := e.payouts.Payout(e.ctx, "teacher-A", 4000, service.PayoutShare, ""); err != nil {
		t.Fatalf("Payout: %v", err)
	}

	liabilities, err := e.stats.Liabilities(e.ctx)
	if err != nil {
		t.Fatalf("Liabilities: %v", err)
	}
	if len(liabilities) != 1 {
		t.Fatalf("got %d liabilities, want 1", len(liabilities))
	}
	l := liabilities[0]
	if l.Total != 5800 {
		t.Errorf("total = %d, want 5800", l.Total)
	}
	if l.TotalPaid != 4000 {
		t.Errorf("total paid = %d, want 4000", l.TotalPaid)
	}
}

func TestFloatingCash(t *testing.T) {
	e := newEnv(t)
	e.addAccount(t, "owner", nil)

	if _, err := e.ledger.Append(e.ctx, service.AppendParams{
		Kind: models.KindIncome, Category: models.CategoryTuition, Amount: 6000,
		AccountID: "owner", Bucket: models.BucketFloating, CollectedBy: "owner",
	}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if _, err := e.ledger.Append(e.ctx, service.AppendParams{
		Kind: models.KindExpense, Category: "supplies", Amount: 1500,
		AccountID: "owner", Bucket: models.BucketFloating, CollectedBy: "owner",
	}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	cash, err := e.stats.FloatingCash(e.ctx, "owner")
	if err != nil {
		t.Fatalf("FloatingCash: %v", err)
	}
	if cash != 4500 {
		t.Errorf("floating cash = %d, want 4500", cash)
	}

	if _, err := e.closings.CloseDay(e.ctx, "owner", ""); err != nil {
		t.Fatalf("CloseDay: %v", err)
	}
	cash, _ = e.stats.FloatingCash(e.ctx, "owner")
	if cash != 0 {
		t.Errorf("floating cash = %d after closing, want 0", cash)
	}
}
