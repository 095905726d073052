package service

import (
	"context"
	"errors"
	"time"

	"github.com/sandeepkv93/nexusflow/internal/model"
	"github.com/sandeepkv93/nexusflow/internal/storage"
)

const entityTransaction = "Transaction"

type TransactionFilter struct {
	Type model.TransactionType
	From *time.Time
	To   *time.Time
}

type FinanceService struct {
	*deps
}

func (s *FinanceService) List(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error) {
	if filter.Type != "" && !filter.Type.IsValid() {
		return nil, Invalid("type", "unknown transaction type "+string(filter.Type))
	}
	rows, err := s.repo.ListTransactions(ctx, storage.TransactionListFilter{
		Type: string(filter.Type),
		From: filter.From,
		To:   filter.To,
	})
	if err != nil {
		return nil, Internal("fetch transactions", err)
	}
	out := make([]model.Transaction, 0, len(rows))
	for _, row := range rows {
		out = append(out, transactionFromStorage(row))
	}
	return out, nil
}

func (s *FinanceService) Get(ctx context.Context, id string) (model.Transaction, error) {
	row, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return model.Transaction{}, lookupErr(err, entityTransaction, "fetch transaction")
	}
	return transactionFromStorage(row), nil
}

func (s *FinanceService) Create(ctx context.Context, in model.TransactionInput) (model.Transaction, error) {
	if err := in.Validate(); err != nil {
		return model.Transaction{}, Validation(err)
	}
	now := s.now()
	tx := model.Transaction{
		ID:          s.newID(),
		Type:        in.Type,
		Amount:      in.Amount,
		Category:    in.Category,
		Description: in.Description,
		Date:        in.Date,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateTransaction(ctx, transactionToStorage(tx)); err != nil {
		return model.Transaction{}, Internal("create transaction", err)
	}
	s.mutated(ctx, "transaction", "create", tx.ID, 1)
	return tx, nil
}

// Update applies the patch and validates the merged transaction, so a type
// change must come with a matching category.
func (s *FinanceService) Update(ctx context.Context, id string, patch model.TransactionPatch) (model.Transaction, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return model.Transaction{}, err
	}
	next := patch.Apply(current)
	if err := model.ValidateTransaction(next); err != nil {
		return model.Transaction{}, Validation(err)
	}
	next.UpdatedAt = s.now()
	if err := s.repo.UpdateTransaction(ctx, transactionToStorage(next)); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return model.Transaction{}, NotFound(entityTransaction)
		}
		return model.Transaction{}, Internal("update transaction", err)
	}
	s.mutated(ctx, "transaction", "update", id, 1)
	return next, nil
}

func (s *FinanceService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteTransaction(ctx, id); err != nil {
		return lookupErr(err, entityTransaction, "delete transaction")
	}
	s.mutated(ctx, "transaction", "delete", id, 1)
	return nil
}

// Stats totals every transaction dated within the range, ends included.
func (s *FinanceService) Stats(ctx context.Context, r model.DateRange) (model.FinanceStats, error) {
	if err := r.Validate(); err != nil {
		return model.FinanceStats{}, Validation(err)
	}
	txs, err := s.List(ctx, TransactionFilter{From: &r.StartDate, To: &r.EndDate})
	if err != nil {
		return model.FinanceStats{}, err
	}
	return model.SummarizeTransactions(txs), nil
}
