package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/muz4miL/academia-ledger/internal/models"
)

// StatsService serves the read-only dashboard aggregations. It only
// guarantees the numbers; formatting and currency display are the
// frontend's problem.
type StatsService struct {
	store  Store
	logger *zap.Logger
}

func NewStatsService(store Store, logger *zap.Logger) *StatsService {
	return &StatsService{store: store, logger: logger}
}

// Summary is the income/expense picture for a date range.
type Summary struct {
	From         time.Time    `json:"from"`
	To           time.Time    `json:"to"`
	TotalIncome  models.Money `json:"total_income"`
	TotalExpense models.Money `json:"total_expense"`
	Net          models.Money `json:"net"`
}

func (s *StatsService) Summary(ctx context.Context, from, to time.Time) (*Summary, error) {
	income, err := s.store.SumByKind(ctx, models.KindIncome, from, to)
	if err != nil {
		return nil, err
	}
	expense, err := s.store.SumByKind(ctx, models.KindExpense, from, to)
	if err != nil {
		return nil, err
	}
	return &Summary{
		From:         from,
		To:           to,
		TotalIncome:  income,
		TotalExpense: expense,
		Net:          income - expense,
	}, nil
}

// Liability is what the academy currently owes one account.
type Liability struct {
	AccountID string         `json:"account_id"`
	Name      string         `json:"name"`
	Balance   models.Balance `json:"balance"`
	Total     models.Money   `json:"total"`
	TotalPaid models.Money   `json:"total_paid"`
}

// Liabilities returns the per-account liability, the sum of all three
// buckets per teacher/owner.
func (s *StatsService) Liabilities(ctx context.Context) ([]*Liability, error) {
	accounts, err := s.store.Accounts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*Liability, 0, len(accounts))
	for _, acct := range accounts {
		out = append(out, &Liability{
			AccountID: acct.ID,
			Name:      acct.Name,
			Balance:   acct.Balance,
			Total:     acct.Balance.Total(),
			TotalPaid: acct.TotalPaid,
		})
	}
	return out, nil
}

// FloatingCash is the unclosed drawer total for one collector.
func (s *StatsService) FloatingCash(ctx context.Context, collectedBy string) (models.Money, error) {
	txns, err := s.store.FloatingByCollector(ctx, collectedBy)
	if err != nil {
		return 0, err
	}
	var net models.Money
	for _, txn := range txns {
		net += txn.Delta()
	}
	return net, nil
}
