package service_test

import (
	"errors"
	"testing"
	"time"

	"github.com/muz4miL/academia-ledger/internal/models"
	"github.com/muz4miL/academia-ledger/internal/service"
)

func TestAppendValidation(t *testing.T) {
	e := newEnv(t)
	e.addAccount(t, "owner", nil)

	tests := []struct {
		name   string
		params service.AppendParams
	}{
		{"zero amount", service.AppendParams{
			Kind: models.KindIncome, Amount: 0, AccountID: "owner", Bucket: models.BucketFloating,
		}},
		{"negative amount", service.AppendParams{
			Kind: models.KindIncome, Amount: -100, AccountID: "owner", Bucket: models.BucketFloating,
		}},
		{"unknown kind", service.AppendParams{
			Kind: "transfer", Amount: 100, AccountID: "owner", Bucket: models.BucketFloating,
		}},
		{"unknown bucket", service.AppendParams{
			Kind: models.KindIncome, Amount: 100, AccountID: "owner", Bucket: "escrow",
		}},
		{"missing account", service.AppendParams{
			Kind: models.KindIncome, Amount: 100, Bucket: models.BucketFloating,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := e.ledger.Append(e.ctx, tt.params); !errors.Is(err, service.ErrValidation) {
				t.Errorf("got %v, want ErrValidation", err)
			}
		})
	}
}

func TestAppendDefaultsToFloating(t *testing.T) {
	e := newEnv(t)
	e.addAccount(t, "owner", nil)

	entry, err := e.ledger.Append(e.ctx, service.AppendParams{
		Kind:        models.KindIncome,
		Category:    models.CategoryTuition,
		Amount:      500,
		AccountID:   "owner",
		Bucket:      models.BucketFloating,
		CollectedBy: "owner",
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if entry.Status != models.StatusFloating {
		t.Errorf("status = %s, want floating by default", entry.Status)
	}
	if entry.Seq == 0 {
		t.Error("entry was not assigned a sequence number")
	}
}

func TestPromoteAllOrNothing(t *testing.T) {
	e := newEnv(t)
	e.addAccount(t, "owner", nil)

	first, err := e.ledger.Append(e.ctx, service.AppendParams{
		Kind: models.KindIncome, Category: models.CategoryTuition, Amount: 100,
		AccountID: "owner", Bucket: models.BucketFloating, CollectedBy: "owner",
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	second, err := e.ledger.Append(e.ctx, service.AppendParams{
		Kind: models.KindIncome, Category: models.CategoryTuition, Amount: 200,
		AccountID: "owner", Bucket: models.BucketFloating, CollectedBy: "owner",
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}

	// Promote the first so it is no longer floating, then try a batch
	// containing it; the batch must reject wholesale.
	if _, err := e.ledger.Promote(e.ctx, []string{first.ID}); err != nil {
		t.Fatalf("Promote: %v", err)
	}
	_, err = e.ledger.Promote(e.ctx, []string{first.ID, second.ID})
	if !errors.Is(err, service.ErrConcurrencyConflict) {
		t.Fatalf("mixed batch: got %v, want ErrConcurrencyConflict", err)
	}

	got, _ := e.store.Transaction(e.ctx, second.ID)
	if got.Status != models.StatusFloating {
		t.Errorf("second entry flipped to %s despite batch rejection", got.Status)
	}
}

func TestPromoteEmptyBatch(t *testing.T) {
	e := newEnv(t)
	if _, err := e.ledger.Promote(e.ctx, nil); !errors.Is(err, service.ErrNoOp) {
		t.Errorf("got %v, want ErrNoOp", err)
	}
}

func TestVoidWritesCompensatingReversal(t *testing.T) {
	e := newEnv(t)
	e.addAccount(t, "teacher-A", percentageComp(70))
	if err := e.wallet.Credit(e.ctx, "teacher-A", models.BucketVerified, 5000, models.CategoryAdjustment, "seed"); err != nil {
		t.Fatalf("Credit: %v", err)
	}
	txns, err := e.store.TransactionsByDateRange(e.ctx, time.Time{}, time.Now())
	if err != nil {
		t.Fatalf("TransactionsByDateRange: %v", err)
	}
	if len(txns) != 1 {
		t.Fatalf("got %d entries, want the credit alone", len(txns))
	}
	original := txns[0]

	reversal, err := e.ledger.Void(e.ctx, original.ID, "typo in amount")
	if err != nil {
		t.Fatalf("Void: %v", err)
	}
	if reversal.Kind != models.KindExpense {
		t.Errorf("reversal kind = %s, want expense (opposite of credit)", reversal.Kind)
	}
	if reversal.Category != models.CategoryCorrection {
		t.Errorf("reversal category = %s, want correction", reversal.Category)
	}
	if reversal.Amount != original.Amount {
		t.Errorf("reversal amount = %d, want %d", reversal.Amount, original.Amount)
	}

	// The reversal settles against the same bucket; the credit is undone.
	if bal := e.balance(t, "teacher-A"); bal.Verified != 0 {
		t.Errorf("verified = %d, want 0 after reversal", bal.Verified)
	}

	// The original row itself is untouched.
	got, _ := e.store.Transaction(e.ctx, original.ID)
	if got.Status != models.StatusVerified || got.Amount != original.Amount {
		t.Error("voiding mutated the original transaction")
	}
}

// Voiding drawer cash that a closing already locked must undo the
// verified balance; a floating-bucket correction would be wiped by the
// next closing's drawer reset.
func TestVoidAfterClosing(t *testing.T) {
	e := newEnv(t)
	e.addAccount(t, "owner", nil)

	first, err := e.ledger.Append(e.ctx, service.AppendParams{
		Kind: models.KindIncome, Category: models.CategoryTuition, Amount: 100,
		AccountID: "owner", Bucket: models.BucketFloating, CollectedBy: "owner",
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if _, err := e.closings.CloseDay(e.ctx, "owner", ""); err != nil {
		t.Fatalf("CloseDay: %v", err)
	}

	reversal, err := e.ledger.Void(e.ctx, first.ID, "entered against the wrong student")
	if err != nil {
		t.Fatalf("Void: %v", err)
	}
	if reversal.Bucket != models.BucketVerified {
		t.Errorf("reversal bucket = %s, want verified", reversal.Bucket)
	}
	if bal := e.balance(t, "owner"); bal.Verified != 0 {
		t.Errorf("verified = %d after void, want 0", bal.Verified)
	}

	if _, err := e.ledger.Append(e.ctx, service.AppendParams{
		Kind: models.KindIncome, Category: models.CategoryTuition, Amount: 50,
		AccountID: "owner", Bucket: models.BucketFloating, CollectedBy: "owner",
	}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if _, err := e.closings.CloseDay(e.ctx, "owner", ""); err != nil {
		t.Fatalf("CloseDay: %v", err)
	}

	// The correction survives the second closing.
	if bal := e.balance(t, "owner"); bal.Verified != 50 {
		t.Errorf("verified = %d, want 50", bal.Verified)
	}
	report, err := e.recon.VerifyLedger(e.ctx)
	if err != nil {
		t.Fatalf("VerifyLedger: %v", err)
	}
	if report.Failed != 0 {
		t.Errorf("verification failed: %v", report.FailureReasons)
	}
}

func TestVoidRejectsFloating(t *testing.T) {
	e := newEnv(t)
	e.addAccount(t, "owner", nil)
	entry, err := e.ledger.Append(e.ctx, service.AppendParams{
		Kind: models.KindIncome, Category: models.CategoryTuition, Amount: 100,
		AccountID: "owner", Bucket: models.BucketFloating, CollectedBy: "owner",
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if _, err := e.ledger.Void(e.ctx, entry.ID, "oops"); !errors.Is(err, service.ErrValidation) {
		t.Errorf("got %v, want ErrValidation", err)
	}
}

func TestVoidUnknownTransaction(t *testing.T) {
	e := newEnv(t)
	if _, err := e.ledger.Void(e.ctx, "no-such-txn", ""); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}
