package service_test

import (
	"errors"
	"testing"

	"github.com/muz4miL/academia-ledger/internal/models"
	"github.com/muz4miL/academia-ledger/internal/service"
)

func TestAccrueSalary(t *testing.T) {
	e := newEnv(t)
	e.addAccount(t, "teacher-B", fixedComp(30000))

	entry, err := e.payroll.AccrueSalary(e.ctx, "teacher-B", "2026-08")
	if err != nil {
		t.Fatalf("AccrueSalary: %v", err)
	}
	if entry.Kind != models.KindCredit || entry.Category != models.CategorySalaryAccrual {
		t.Errorf("entry: kind=%s category=%s", entry.Kind, entry.Category)
	}
	if entry.Bucket != models.BucketPending {
		t.Errorf("entry bucket = %s, want pending", entry.Bucket)
	}
	if bal := e.balance(t, "teacher-B"); bal.Pending != 30000 {
		t.Errorf("pending = %d, want 30000", bal.Pending)
	}
}

func TestAccrueSalaryOncePerPeriod(t *testing.T) {
	e := newEnv(t)
	e.addAccount(t, "teacher-B", fixedComp(30000))

	if _, err := e.payroll.AccrueSalary(e.ctx, "teacher-B", "2026-08"); err != nil {
		t.Fatalf("first AccrueSalary: %v", err)
	}
	_, err := e.payroll.AccrueSalary(e.ctx, "teacher-B", "2026-08")
	if !errors.Is(err, service.ErrDuplicateDistribution) {
		t.Fatalf("second AccrueSalary: got %v, want ErrDuplicateDistribution", err)
	}
	if bal := e.balance(t, "teacher-B"); bal.Pending != 30000 {
		t.Errorf("pending = %d, want 30000 (accrued once)", bal.Pending)
	}

	// A different period accrues fine.
	if _, err := e.payroll.AccrueSalary(e.ctx, "teacher-B", "2026-09"); err != nil {
		t.Fatalf("next period AccrueSalary: %v", err)
	}
	if bal := e.balance(t, "teacher-B"); bal.Pending != 60000 {
		t.Errorf("pending = %d, want 60000", bal.Pending)
	}
}

func TestAccrueSalaryHybrid(t *testing.T) {
	e := newEnv(t)
	e.addAccount(t, "teacher-C", &models.Compensation{
		Type:        models.CompensationHybrid,
		TeacherPct:  40,
		FixedSalary: 15000,
	})
	if _, err := e.payroll.AccrueSalary(e.ctx, "teacher-C", "2026-08"); err != nil {
		t.Fatalf("AccrueSalary: %v", err)
	}
	if bal := e.balance(t, "teacher-C"); bal.Pending != 15000 {
		t.Errorf("pending = %d, want 15000", bal.Pending)
	}
}

func TestAccrueSalaryRejections(t *testing.T) {
	e := newEnv(t)
	e.addAccount(t, "teacher-A", percentageComp(70))
	e.addAccount(t, "teacher-Z", fixedComp(0))

	if _, err := e.payroll.AccrueSalary(e.ctx, "teacher-A", "2026-08"); !errors.Is(err, service.ErrConfiguration) {
		t.Errorf("percentage teacher: got %v, want ErrConfiguration", err)
	}
	if _, err := e.payroll.AccrueSalary(e.ctx, "teacher-Z", "2026-08"); !errors.Is(err, service.ErrConfiguration) {
		t.Errorf("zero salary: got %v, want ErrConfiguration", err)
	}
	if _, err := e.payroll.AccrueSalary(e.ctx, "teacher-A", ""); !errors.Is(err, service.ErrValidation) {
		t.Errorf("empty period: got %v, want ErrValidation", err)
	}
	if _, err := e.payroll.AccrueSalary(e.ctx, "nobody", "2026-08"); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("unknown teacher: got %v, want ErrNotFound", err)
	}
}
