// Package memory is an in-memory Store used by tests and local
// development. It mirrors the postgres store's semantics: composite
// operations are atomic (validate everything, then commit) and balance
// mutations serialize on the store lock.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/muz4miL/academia-ledger/internal/models"
	"github.com/muz4miL/academia-ledger/internal/service"
)

type Store struct {
	mu sync.RWMutex

	accounts  map[string]*models.Account
	students  map[string]*models.Student
	fees      map[string]*models.FeeRecord
	txns      map[string]*models.Transaction
	expenses  map[string]*models.Expense
	vouchers  map[string]*models.TeacherPayment
	closings  []*models.DailyClosing
	accruals  map[string]bool // teacherID|period
	reports   []*models.ReconciliationReport
	nextSeq   int64
}

var _ service.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		accounts: make(map[string]*models.Account),
		students: make(map[string]*models.Student),
		fees:     make(map[string]*models.FeeRecord),
		txns:     make(map[string]*models.Transaction),
		expenses: make(map[string]*models.Expense),
		vouchers: make(map[string]*models.TeacherPayment),
		accruals: make(map[string]bool),
	}
}

// Accounts

func (s *Store) Account(ctx context.Context, id string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acct, ok := s.accounts[id]
	if !ok {
		return nil, nil
	}
	return cloneAccount(acct), nil
}

func (s *Store) Accounts(ctx context.Context) ([]*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Account, 0, len(s.accounts))
	for _, acct := range s.accounts {
		out = append(out, cloneAccount(acct))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) CreateAccount(ctx context.Context, a *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[a.ID]; exists {
		return fmt.Errorf("account %s already exists", a.ID)
	}
	s.accounts[a.ID] = cloneAccount(a)
	return nil
}

// Students and fee records

func (s *Store) Student(ctx context.Context, id string) (*models.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.students[id]
	if !ok {
		return nil, nil
	}
	cp := *st
	return &cp, nil
}

func (s *Store) CreateStudent(ctx context.Context, st *models.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *st
	s.students[st.ID] = &cp
	return nil
}

func (s *Store) FeeRecord(ctx context.Context, id string) (*models.FeeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fee, ok := s.fees[id]
	if !ok {
		return nil, nil
	}
	return cloneFee(fee), nil
}

func (s *Store) CreateFeeRecord(ctx context.Context, f *models.FeeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.fees[f.ID]; exists {
		return fmt.Errorf("fee record %s already exists", f.ID)
	}
	s.fees[f.ID] = cloneFee(f)
	return nil
}

func (s *Store) FeeRecords(ctx context.Context) ([]*models.FeeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.FeeRecord, 0, len(s.fees))
	for _, fee := range s.fees {
		out = append(out, cloneFee(fee))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Ledger reads

func (s *Store) Transaction(ctx context.Context, id string) (*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	txn, ok := s.txns[id]
	if !ok {
		return nil, nil
	}
	return cloneTxn(txn), nil
}

func (s *Store) TransactionsByFeeRecord(ctx context.Context, feeRecordID string) ([]*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Transaction
	for _, txn := range s.txns {
		if txn.FeeRecordID == feeRecordID {
			out = append(out, cloneTxn(txn))
		}
	}
	sortBySeq(out)
	return out, nil
}

func (s *Store) TransactionsByDateRange(ctx context.Context, from, to time.Time) ([]*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Transaction
	for _, txn := range s.txns {
		if !txn.OccurredAt.Before(from) && !txn.OccurredAt.After(to) {
			out = append(out, cloneTxn(txn))
		}
	}
	sortBySeq(out)
	return out, nil
}

func (s *Store) FloatingByCollector(ctx context.Context, collectedBy string) ([]*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Transaction
	for _, txn := range s.txns {
		if txn.Status == models.StatusFloating && txn.CollectedBy == collectedBy {
			out = append(out, cloneTxn(txn))
		}
	}
	sortBySeq(out)
	return out, nil
}

func (s *Store) SumByKind(ctx context.Context, kind models.TxnKind, from, to time.Time) (models.Money, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var sum models.Money
	for _, txn := range s.txns {
		if txn.Kind == kind && !txn.OccurredAt.Before(from) && !txn.OccurredAt.After(to) {
			sum += txn.Amount
		}
	}
	return sum, nil
}

// Ledger writes

func (s *Store) ApplyEntries(ctx context.Context, entries []*models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyEntriesLocked(entries)
}

// applyEntriesLocked validates every entry against current balances
// before touching anything, so a failing batch leaves no partial state.
func (s *Store) applyEntriesLocked(entries []*models.Transaction) error {
	projected := make(map[string]models.Balance)
	for _, entry := range entries {
		acct, ok := s.accounts[entry.AccountID]
		if !ok {
			return fmt.Errorf("%w: account %s", service.ErrNotFound, entry.AccountID)
		}
		bal, seen := projected[entry.AccountID]
		if !seen {
			bal = acct.Balance
		}
		bal = addToBucket(bal, entry.Bucket, entry.Delta())
		if bal.Verified < 0 || bal.Pending < 0 {
			return fmt.Errorf("%w: account %s bucket %s", service.ErrInsufficientBalance, entry.AccountID, entry.Bucket)
		}
		projected[entry.AccountID] = bal
	}
	for _, entry := range entries {
		s.nextSeq++
		entry.Seq = s.nextSeq
		s.txns[entry.ID] = cloneTxn(entry)
	}
	for id, bal := range projected {
		s.accounts[id].Balance = bal
		s.accounts[id].Version++
	}
	return nil
}

func (s *Store) PromoteTransactions(ctx context.Context, ids []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkFloatingLocked(ids); err != nil {
		return 0, err
	}
	for _, id := range ids {
		s.txns[id].Status = models.StatusVerified
	}
	return len(ids), nil
}

func (s *Store) checkFloatingLocked(ids []string) error {
	for _, id := range ids {
		txn, ok := s.txns[id]
		if !ok {
			return fmt.Errorf("%w: transaction %s", service.ErrNotFound, id)
		}
		if txn.Status != models.StatusFloating {
			return fmt.Errorf("%w: transaction %s is not floating", service.ErrConcurrencyConflict, id)
		}
	}
	return nil
}

// Composite operations

func (s *Store) ApplyDistribution(ctx context.Context, feeRecordID string, split *models.SplitDetails, entries []*models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	fee, ok := s.fees[feeRecordID]
	if !ok {
		return fmt.Errorf("%w: fee record %s", service.ErrNotFound, feeRecordID)
	}
	if fee.Distributed {
		return fmt.Errorf("%w: fee record %s", service.ErrDuplicateDistribution, feeRecordID)
	}
	student, ok := s.students[fee.StudentID]
	if !ok {
		return fmt.Errorf("%w: student %s", service.ErrNotFound, fee.StudentID)
	}
	if err := s.applyEntriesLocked(entries); err != nil {
		return err
	}
	fee.Distributed = true
	cp := *split
	fee.Split = &cp
	student.PaidAmount += fee.Amount
	return nil
}

func (s *Store) ApplyPayout(ctx context.Context, voucher *models.TeacherPayment, entry *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[voucher.TeacherID]
	if !ok {
		return fmt.Errorf("%w: account %s", service.ErrNotFound, voucher.TeacherID)
	}
	before := acct.Balance.Bucket(voucher.Bucket)
	if voucher.AmountPaid > before {
		return fmt.Errorf("%w: account %s has %d in %s, needs %d",
			service.ErrInsufficientBalance, voucher.TeacherID, before, voucher.Bucket, voucher.AmountPaid)
	}
	if err := s.applyEntriesLocked([]*models.Transaction{entry}); err != nil {
		return err
	}
	voucher.BalanceBefore = before
	voucher.BalanceAfter = before - voucher.AmountPaid
	acct.TotalPaid += voucher.AmountPaid
	s.vouchers[voucher.ID] = cloneVoucher(voucher)
	return nil
}

func (s *Store) ApplyAccrual(ctx context.Context, teacherID, period string, entry *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := teacherID + "|" + period
	if s.accruals[key] {
		return fmt.Errorf("%w: salary for %s already accrued in %s", service.ErrDuplicateDistribution, teacherID, period)
	}
	if err := s.applyEntriesLocked([]*models.Transaction{entry}); err != nil {
		return err
	}
	s.accruals[key] = true
	return nil
}

func (s *Store) ApplyClosing(ctx context.Context, closing *models.DailyClosing, txnIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	closer, ok := s.accounts[closing.ClosedBy]
	if !ok {
		return fmt.Errorf("%w: account %s", service.ErrNotFound, closing.ClosedBy)
	}
	if err := s.checkFloatingLocked(txnIDs); err != nil {
		return err
	}
	var net models.Money
	for _, id := range txnIDs {
		net += s.txns[id].Delta()
	}
	for _, id := range txnIDs {
		s.txns[id].Status = models.StatusVerified
	}
	closing.TotalLocked = net
	closing.TxnCount = len(txnIDs)
	closer.Balance.Verified += net
	closer.Balance.Floating = 0
	closer.Version++
	cp := *closing
	s.closings = append(s.closings, &cp)
	return nil
}

// Expenses

func (s *Store) CreateExpense(ctx context.Context, e *models.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *e
	s.expenses[e.ID] = &cp
	return nil
}

func (s *Store) Expense(ctx context.Context, id string) (*models.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	exp, ok := s.expenses[id]
	if !ok {
		return nil, nil
	}
	cp := *exp
	return &cp, nil
}

func (s *Store) Expenses(ctx context.Context) ([]*models.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Expense, 0, len(s.expenses))
	for _, exp := range s.expenses {
		cp := *exp
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) MarkExpensePaid(ctx context.Context, id, paidBy string, paidAt time.Time, entry *models.Transaction) (*models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.expenses[id]
	if !ok {
		return nil, fmt.Errorf("%w: expense %s", service.ErrNotFound, id)
	}
	if exp.Status == models.ExpensePaid {
		return nil, fmt.Errorf("%w: expense %s already paid", service.ErrNoOp, id)
	}
	if err := s.applyEntriesLocked([]*models.Transaction{entry}); err != nil {
		return nil, err
	}
	exp.Status = models.ExpensePaid
	exp.PaidBy = paidBy
	at := paidAt
	exp.PaidAt = &at
	cp := *exp
	return &cp, nil
}

func (s *Store) DeleteExpense(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.expenses[id]; !ok {
		return fmt.Errorf("%w: expense %s", service.ErrNotFound, id)
	}
	delete(s.expenses, id)
	return nil
}

// Audit records

func (s *Store) Vouchers(ctx context.Context, teacherID string) ([]*models.TeacherPayment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.TeacherPayment
	for _, v := range s.vouchers {
		if v.TeacherID == teacherID {
			out = append(out, cloneVoucher(v))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PaidAt.After(out[j].PaidAt) })
	return out, nil
}

func (s *Store) Closings(ctx context.Context) ([]*models.DailyClosing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.DailyClosing, 0, len(s.closings))
	for _, c := range s.closings {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ClosedAt.After(out[j].ClosedAt) })
	return out, nil
}

func (s *Store) SaveReconciliationReport(ctx context.Context, r *models.ReconciliationReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *r
	cp.FailureReasons = append([]string(nil), r.FailureReasons...)
	s.reports = append(s.reports, &cp)
	return nil
}

// ReconciliationReports returns the saved reports in save order. Not
// part of service.Store; tests use it to inspect job output.
func (s *Store) ReconciliationReports() []*models.ReconciliationReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.ReconciliationReport, 0, len(s.reports))
	for _, r := range s.reports {
		cp := *r
		cp.FailureReasons = append([]string(nil), r.FailureReasons...)
		out = append(out, &cp)
	}
	return out
}

// Helpers

func addToBucket(b models.Balance, bucket models.BalanceBucket, delta models.Money) models.Balance {
	switch bucket {
	case models.BucketFloating:
		b.Floating += delta
	case models.BucketVerified:
		b.Verified += delta
	case models.BucketPending:
		b.Pending += delta
	}
	return b
}

func sortBySeq(txns []*models.Transaction) {
	sort.Slice(txns, func(i, j int) bool { return txns[i].Seq < txns[j].Seq })
}

func cloneAccount(a *models.Account) *models.Account {
	cp := *a
	if a.Compensation != nil {
		comp := *a.Compensation
		cp.Compensation = &comp
	}
	return &cp
}

func cloneFee(f *models.FeeRecord) *models.FeeRecord {
	cp := *f
	if f.Split != nil {
		split := *f.Split
		cp.Split = &split
	}
	return &cp
}

func cloneTxn(t *models.Transaction) *models.Transaction {
	cp := *t
	if t.Split != nil {
		split := *t.Split
		cp.Split = &split
	}
	return &cp
}

func cloneVoucher(v *models.TeacherPayment) *models.TeacherPayment {
	cp := *v
	return &cp
}
