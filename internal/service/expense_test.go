package service_test

import (
	"errors"
	"testing"
	"time"

	"github.com/muz4miL/academia-ledger/internal/models"
	"github.com/muz4miL/academia-ledger/internal/service"
)

func TestRecordExpenseWritesNoLedgerEntry(t *testing.T) {
	e := newEnv(t)

	exp, err := e.expenses.Record(e.ctx, "whiteboard markers", "supplies", 1200, "City Stationers")
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if exp.Status != models.ExpensePending {
		t.Errorf("status = %s, want pending", exp.Status)
	}

	txns, _ := e.store.TransactionsByDateRange(e.ctx, time.Time{}, time.Now())
	if len(txns) != 0 {
		t.Errorf("recording wrote %d ledger entries, want 0", len(txns))
	}
}

func TestRecordExpenseValidation(t *testing.T) {
	e := newEnv(t)
	if _, err := e.expenses.Record(e.ctx, "", "supplies", 100, ""); !errors.Is(err, service.ErrValidation) {
		t.Errorf("empty title: got %v, want ErrValidation", err)
	}
	if _, err := e.expenses.Record(e.ctx, "markers", "supplies", 0, ""); !errors.Is(err, service.ErrValidation) {
		t.Errorf("zero amount: got %v, want ErrValidation", err)
	}
}

func TestMarkExpensePaid(t *testing.T) {
	e := newEnv(t)
	e.addAccount(t, "owner", nil)
	exp, err := e.expenses.Record(e.ctx, "electricity bill", "utilities", 4500, "WAPDA")
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	paid, err := e.expenses.MarkPaid(e.ctx, exp.ID, "owner")
	if err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}
	if paid.Status != models.ExpensePaid {
		t.Errorf("status = %s, want paid", paid.Status)
	}
	if paid.PaidBy != "owner" {
		t.Errorf("paid by = %q, want owner", paid.PaidBy)
	}

	// Paying mirrors an EXPENSE entry into the payer's floating drawer.
	if bal := e.balance(t, "owner"); bal.Floating != -4500 {
		t.Errorf("owner floating = %d, want -4500", bal.Floating)
	}
	floating, _ := e.store.FloatingByCollector(e.ctx, "owner")
	if len(floating) != 1 {
		t.Fatalf("got %d floating entries, want 1", len(floating))
	}
	if floating[0].Kind != models.KindExpense || floating[0].Category != "utilities" {
		t.Errorf("mirrored entry: kind=%s category=%s", floating[0].Kind, floating[0].Category)
	}
}

func TestMarkExpensePaidTwice(t *testing.T) {
	e := newEnv(t)
	e.addAccount(t, "owner", nil)
	exp, _ := e.expenses.Record(e.ctx, "rent", "rent", 50000, "")

	if _, err := e.expenses.MarkPaid(e.ctx, exp.ID, "owner"); err != nil {
		t.Fatalf("first MarkPaid: %v", err)
	}
	_, err := e.expenses.MarkPaid(e.ctx, exp.ID, "owner")
	if !errors.Is(err, service.ErrNoOp) {
		t.Fatalf("second MarkPaid: got %v, want ErrNoOp", err)
	}

	// Paid once means mirrored once.
	if bal := e.balance(t, "owner"); bal.Floating != -50000 {
		t.Errorf("owner floating = %d, want -50000", bal.Floating)
	}
}

func TestMarkExpensePaidRejections(t *testing.T) {
	e := newEnv(t)
	e.addAccount(t, "owner", nil)
	exp, _ := e.expenses.Record(e.ctx, "rent", "rent", 50000, "")

	if _, err := e.expenses.MarkPaid(e.ctx, "no-such-expense", "owner"); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("unknown expense: got %v, want ErrNotFound", err)
	}
	if _, err := e.expenses.MarkPaid(e.ctx, exp.ID, "nobody"); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("unknown payer: got %v, want ErrNotFound", err)
	}
}

func TestDeleteExpenseKeepsMirroredEntry(t *testing.T) {
	e := newEnv(t)
	e.addAccount(t, "owner", nil)
	exp, _ := e.expenses.Record(e.ctx, "projector repair", "maintenance", 8000, "")
	if _, err := e.expenses.MarkPaid(e.ctx, exp.ID, "owner"); err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}

	if err := e.expenses.Delete(e.ctx, exp.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	list, _ := e.expenses.List(e.ctx)
	if len(list) != 0 {
		t.Errorf("expense list has %d entries after delete", len(list))
	}

	// The ledger never forgets; the mirrored entry survives the delete.
	floating, _ := e.store.FloatingByCollector(e.ctx, "owner")
	if len(floating) != 1 {
		t.Errorf("got %d floating entries after delete, want 1", len(floating))
	}
	if bal := e.balance(t, "owner"); bal.Floating != -8000 {
		t.Errorf("owner floating = %d, want -8000", bal.Floating)
	}
}
