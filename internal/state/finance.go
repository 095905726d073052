package state

import (
	"context"
	"sync"

	"github.com/sandeepkv93/nexusflow/internal/client"
	"github.com/sandeepkv93/nexusflow/internal/model"
)

type TransactionFilter struct {
	Type     model.TransactionType
	Category model.TransactionCategory
}

type FinanceStore struct {
	api   API
	items collection[model.Transaction]

	mu    sync.RWMutex
	stats model.FinanceStats
}

func newFinanceStore(api API, changed func()) *FinanceStore {
	return &FinanceStore{
		api: api,
		items: collection[model.Transaction]{
			idOf:    func(t model.Transaction) string { return t.ID },
			less:    func(a, b model.Transaction) bool { return a.Date.After(b.Date) },
			changed: changed,
		},
	}
}

func (s *FinanceStore) Fetch(ctx context.Context) error {
	return s.items.fetch(func() ([]model.Transaction, error) {
		return s.api.ListTransactions(ctx, client.TransactionQuery{})
	})
}

// FetchStats asks the server for the totals of the transactions dated in r.
func (s *FinanceStore) FetchStats(ctx context.Context, r model.DateRange) (model.FinanceStats, error) {
	stats, err := s.api.FinanceStats(ctx, r)
	if err != nil {
		return model.FinanceStats{}, s.items.failed(err)
	}
	s.mu.Lock()
	s.stats = stats
	s.mu.Unlock()
	return stats, nil
}

// Stats is the result of the last FetchStats.
func (s *FinanceStore) Stats() model.FinanceStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

func (s *FinanceStore) Create(ctx context.Context, in model.TransactionInput) (model.Transaction, error) {
	tx, err := s.api.CreateTransaction(ctx, in)
	if err != nil {
		return model.Transaction{}, s.items.failed(err)
	}
	s.items.put(tx)
	return tx, nil
}

func (s *FinanceStore) Update(ctx context.Context, id string, patch model.TransactionPatch) (model.Transaction, error) {
	tx, err := s.api.UpdateTransaction(ctx, id, patch)
	if err != nil {
		return model.Transaction{}, s.items.failed(err)
	}
	s.items.put(tx)
	return tx, nil
}

func (s *FinanceStore) Delete(ctx context.Context, id string) error {
	if err := s.api.DeleteTransaction(ctx, id); err != nil {
		return s.items.failed(err)
	}
	s.items.remove(id)
	return nil
}

func (s *FinanceStore) Items() []model.Transaction {
	return s.items.snapshot()
}

func (s *FinanceStore) Loading() bool {
	loading, _ := s.items.status()
	return loading
}

func (s *FinanceStore) Err() string {
	_, err := s.items.status()
	return err
}

func (s *FinanceStore) Filter(f TransactionFilter) []model.Transaction {
	var out []model.Transaction
	for _, tx := range s.items.snapshot() {
		if f.Type != "" && tx.Type != f.Type {
			continue
		}
		if f.Category != "" && tx.Category != f.Category {
			continue
		}
		out = append(out, tx)
	}
	return out
}

func (s *FinanceStore) IncomeTotal() float64 {
	return model.SummarizeTransactions(s.items.snapshot()).TotalIncome
}

func (s *FinanceStore) ExpenseTotal() float64 {
	return model.SummarizeTransactions(s.items.snapshot()).TotalExpenses
}

func (s *FinanceStore) Balance() float64 {
	return model.SummarizeTransactions(s.items.snapshot()).Balance
}
