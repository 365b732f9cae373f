package service_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/muz4miL/academia-ledger/internal/models"
	"github.com/muz4miL/academia-ledger/internal/service"
)

func TestCreditAndDebit(t *testing.T) {
	e := newEnv(t)
	e.addAccount(t, "teacher-A", percentageComp(70))

	if err := e.wallet.Credit(e.ctx, "teacher-A", models.BucketVerified, 5000, models.CategoryAdjustment, "manual adjustment"); err != nil {
		t.Fatalf("Credit: %v", err)
	}
	if bal := e.balance(t, "teacher-A"); bal.Verified != 5000 {
		t.Fatalf("verified = %d, want 5000", bal.Verified)
	}

	voucher, err := e.wallet.Debit(e.ctx, "teacher-A", models.BucketVerified, 2000, models.CategorySharePayout, "test payout")
	if err != nil {
		t.Fatalf("Debit: %v", err)
	}
	if voucher.BalanceBefore != 5000 || voucher.BalanceAfter != 3000 {
		t.Errorf("voucher balances = %d/%d, want 5000/3000", voucher.BalanceBefore, voucher.BalanceAfter)
	}
	if voucher.VoucherID == "" {
		t.Error("voucher has no voucher id")
	}

	acct, _ := e.store.Account(e.ctx, "teacher-A")
	if acct.Balance.Verified != 3000 {
		t.Errorf("verified = %d, want 3000", acct.Balance.Verified)
	}
	if acct.TotalPaid != 2000 {
		t.Errorf("total paid = %d, want 2000", acct.TotalPaid)
	}
}

func TestDebitInsufficientBalance(t *testing.T) {
	e := newEnv(t)
	e.addAccount(t, "teacher-A", percentageComp(70))
	if err := e.wallet.Credit(e.ctx, "teacher-A", models.BucketVerified, 1500, models.CategoryAdjustment, "seed"); err != nil {
		t.Fatalf("Credit: %v", err)
	}

	_, err := e.wallet.Debit(e.ctx, "teacher-A", models.BucketVerified, 2000, models.CategorySharePayout, "too much")
	if !errors.Is(err, service.ErrInsufficientBalance) {
		t.Fatalf("got %v, want ErrInsufficientBalance", err)
	}

	// No partial debit.
	if bal := e.balance(t, "teacher-A"); bal.Verified != 1500 {
		t.Errorf("verified = %d, want 1500 (unchanged)", bal.Verified)
	}
	vouchers, _ := e.store.Vouchers(e.ctx, "teacher-A")
	if len(vouchers) != 0 {
		t.Errorf("failed debit produced %d vouchers", len(vouchers))
	}
}

func TestCreditCategoryFlowsToLedger(t *testing.T) {
	e := newEnv(t)
	e.addAccount(t, "teacher-A", percentageComp(70))

	if err := e.wallet.Credit(e.ctx, "teacher-A", models.BucketVerified, 500, models.CategoryAdjustment, "opening balance"); err != nil {
		t.Fatalf("Credit: %v", err)
	}
	txns, err := e.store.TransactionsByDateRange(e.ctx, time.Time{}, time.Now())
	if err != nil {
		t.Fatalf("TransactionsByDateRange: %v", err)
	}
	if len(txns) != 1 {
		t.Fatalf("got %d entries, want 1", len(txns))
	}
	if txns[0].Category != models.CategoryAdjustment {
		t.Errorf("category = %q, want %q", txns[0].Category, models.CategoryAdjustment)
	}

	if err := e.wallet.Credit(e.ctx, "teacher-A", models.BucketVerified, 500, "", "no category"); !errors.Is(err, service.ErrValidation) {
		t.Errorf("empty category: got %v, want ErrValidation", err)
	}
}

func TestDebitValidation(t *testing.T) {
	e := newEnv(t)
	e.addAccount(t, "teacher-A", percentageComp(70))

	if _, err := e.wallet.Debit(e.ctx, "teacher-A", models.BucketVerified, 0, models.CategorySharePayout, ""); !errors.Is(err, service.ErrValidation) {
		t.Errorf("zero amount: got %v, want ErrValidation", err)
	}
	if _, err := e.wallet.Debit(e.ctx, "teacher-A", models.BucketFloating, 100, models.CategorySharePayout, ""); !errors.Is(err, service.ErrValidation) {
		t.Errorf("floating bucket: got %v, want ErrValidation", err)
	}
}

// Concurrent credits against the same account must never lose an
// update: N credits of x leave the balance at exactly N*x.
func TestConcurrentCreditsNoLostUpdates(t *testing.T) {
	e := newEnv(t)
	e.addAccount(t, "teacher-A", percentageComp(70))

	const n = 50
	const amount = models.Money(10)

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- e.wallet.Credit(e.ctx, "teacher-A", models.BucketVerified, amount, models.CategoryAdjustment, "stress")
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("Credit: %v", err)
		}
	}

	if bal := e.balance(t, "teacher-A"); bal.Verified != n*amount {
		t.Errorf("verified = %d, want %d", bal.Verified, n*amount)
	}
}

// Interleaved credits and debits must serialize and keep the bucket
// non-negative throughout.
func TestConcurrentCreditDebitMix(t *testing.T) {
	e := newEnv(t)
	e.addAccount(t, "teacher-A", percentageComp(70))
	if err := e.wallet.Credit(e.ctx, "teacher-A", models.BucketVerified, 10000, models.CategoryAdjustment, "seed"); err != nil {
		t.Fatalf("Credit: %v", err)
	}

	const n = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	var debited models.Money
	for i := 0; i < n; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = e.wallet.Credit(e.ctx, "teacher-A", models.BucketVerified, 100, models.CategoryAdjustment, "stress")
		}()
		go func() {
			defer wg.Done()
			if _, err := e.wallet.Debit(e.ctx, "teacher-A", models.BucketVerified, 100, models.CategorySharePayout, "stress"); err == nil {
				mu.Lock()
				debited += 100
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	bal := e.balance(t, "teacher-A")
	if bal.Verified < 0 {
		t.Fatalf("verified went negative: %d", bal.Verified)
	}
	want := models.Money(10000) + n*100 - debited
	if bal.Verified != want {
		t.Errorf("verified = %d, want %d (10000 + %d credited - %d debited)", bal.Verified, want, n*100, debited)
	}
}
