package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: not found")

type Repository interface {
	CreateTask(ctx context.Context, in Task) error
	GetTask(ctx context.Context, id string) (Task, error)
	UpdateTask(ctx context.Context, in Task) error
	DeleteTask(ctx context.Context, id string) error
	ListTasks(ctx context.Context, filter TaskListFilter) ([]Task, error)

	CreateInventoryItem(ctx context.Context, in InventoryItem) error
	GetInventoryItem(ctx context.Context, id string) (InventoryItem, error)
	UpdateInventoryItem(ctx context.Context, in InventoryItem) error
	DeleteInventoryItem(ctx context.Context, id string) error
	ListInventoryItems(ctx context.Context, filter InventoryListFilter) ([]InventoryItem, error)

	CreateTransaction(ctx context.Context, in Transaction) error
	GetTransaction(ctx context.Context, id string) (Transaction, error)
	UpdateTransaction(ctx context.Context, in Transaction) error
	DeleteTransaction(ctx context.Context, id string) error
	ListTransactions(ctx context.Context, filter TransactionListFilter) ([]Transaction, error)

	CreateFocusSession(ctx context.Context, in FocusSession) error
	GetFocusSession(ctx context.Context, id string) (FocusSession, error)
	UpdateFocusSession(ctx context.Context, in FocusSession) error
	DeleteFocusSession(ctx context.Context, id string) error
	ListFocusSessions(ctx context.Context, filter FocusSessionListFilter) ([]FocusSession, error)

	CreateFocusPreset(ctx context.Context, in FocusPreset) error
	GetFocusPreset(ctx context.Context, id string) (FocusPreset, error)
	UpdateFocusPreset(ctx context.Context, in FocusPreset) error
	DeleteFocusPreset(ctx context.Context, id string) error
	ListFocusPresets(ctx context.Context, filter FocusPresetListFilter) ([]FocusPreset, error)

	// WithTx runs fn against a repository bound to a single transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	WithTx(ctx context.Context, fn func(Repository) error) error
}
