package service_test

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/muz4miL/academia-ledger/internal/models"
	"github.com/muz4miL/academia-ledger/internal/repository/memory"
	"github.com/muz4miL/academia-ledger/internal/service"
)

type env struct {
	ctx         context.Context
	store       *memory.Store
	ledger      *service.LedgerService
	wallet      *service.WalletService
	distributor *service.DistributionService
	payouts     *service.PayoutService
	closings    *service.ClosingService
	payroll     *service.PayrollService
	expenses    *service.ExpenseService
	recon       *service.ReconciliationService
	stats       *service.StatsService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.NewStore()
	log := zap.NewNop()
	wallet := service.NewWalletService(store, log)
	distributor := service.NewDistributionService(store, nil, log)
	return &env{
		ctx:         context.Background(),
		store:       store,
		ledger:      service.NewLedgerService(store, log),
		wallet:      wallet,
		distributor: distributor,
		payouts:     service.NewPayoutService(store, wallet, log),
		closings:    service.NewClosingService(store, log),
		payroll:     service.NewPayrollService(store, log),
		expenses:    service.NewExpenseService(store, log),
		recon:       service.NewReconciliationService(store, distributor, log),
		stats:       service.NewStatsService(store, log),
	}
}

func (e *env) addAccount(t *testing.T, id string, comp *models.Compensation) {
	t.Helper()
	err := e.store.CreateAccount(e.ctx, &models.Account{ID: id, Name: id, Compensation: comp})
	if err != nil {
		t.Fatalf("CreateAccount(%s): %v", id, err)
	}
}

func (e *env) addStudent(t *testing.T, id, teacherID string, totalFee models.Money) {
	t.Helper()
	err := e.store.CreateStudent(e.ctx, &models.Student{ID: id, Name: id, TeacherID: teacherID, TotalFee: totalFee})
	if err != nil {
		t.Fatalf("CreateStudent(%s): %v", id, err)
	}
}

func (e *env) addFee(t *testing.T, id, studentID, teacherID, collectedBy string, amount models.Money) {
	t.Helper()
	err := e.store.CreateFeeRecord(e.ctx, &models.FeeRecord{
		ID:          id,
		StudentID:   studentID,
		TeacherID:   teacherID,
		CollectedBy: collectedBy,
		Amount:      amount,
		Period:      "2026-08",
	})
	if err != nil {
		t.Fatalf("CreateFeeRecord(%s): %v", id, err)
	}
}

func (e *env) balance(t *testing.T, accountID string) models.Balance {
	t.Helper()
	acct, err := e.store.Account(e.ctx, accountID)
	if err != nil {
		t.Fatalf("Account(%s): %v", accountID, err)
	}
	if acct == nil {
		t.Fatalf("account %s not found", accountID)
	}
	return acct.Balance
}

func percentageComp(pct int) *models.Compensation {
	return &models.Compensation{Type: models.CompensationPercentage, TeacherPct: models.Percent(pct)}
}

func fixedComp(salary int64) *models.Compensation {
	return &models.Compensation{Type: models.CompensationFixed, FixedSalary: models.Money(salary)}
}

func hybridComp(pct int, bonus int64) *models.Compensation {
	return &models.Compensation{Type: models.CompensationHybrid, TeacherPct: models.Percent(pct), Bonus: models.Money(bonus)}
}
