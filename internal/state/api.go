// Package state holds the client-side stores and the App controller that
// wires them to the REST client, the focus timer and the notification center.
package state

import (
	"context"
	"errors"
	"strings"

	"github.com/sandeepkv93/nexusflow/internal/client"
	"github.com/sandeepkv93/nexusflow/internal/model"
)

// API is the part of the REST client the stores call. *client.Client
// implements it.
type API interface {
	ListTasks(ctx context.Context, status model.TaskStatus) ([]model.Task, error)
	CreateTask(ctx context.Context, in model.TaskInput) (model.Task, error)
	UpdateTask(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error)
	DeleteTask(ctx context.Context, id string) error

	ListInventory(ctx context.Context, category string) ([]model.InventoryItem, error)
	CreateInventoryItem(ctx context.Context, in model.InventoryInput) (model.InventoryItem, error)
	UpdateInventoryItem(ctx context.Context, id string, patch model.InventoryPatch) (model.InventoryItem, error)
	DeleteInventoryItem(ctx context.Context, id string) error
	BulkDeleteInventory(ctx context.Context, ids []string) error

	ListTransactions(ctx context.Context, q client.TransactionQuery) ([]model.Transaction, error)
	CreateTransaction(ctx context.Context, in model.TransactionInput) (model.Transaction, error)
	UpdateTransaction(ctx context.Context, id string, patch model.TransactionPatch) (model.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error
	FinanceStats(ctx context.Context, r model.DateRange) (model.FinanceStats, error)

	ListFocusSessions(ctx context.Context) ([]model.FocusSession, error)
	CreateFocusSession(ctx context.Context, in model.FocusSessionInput) (model.FocusSession, error)
	UpdateFocusSession(ctx context.Context, id string, patch model.FocusSessionPatch) (model.FocusSession, error)
	DeleteFocusSession(ctx context.Context, id string) error
	FocusStats(ctx context.Context, r model.DateRange) (model.FocusStats, error)
	ListFocusPresets(ctx context.Context) ([]model.FocusPreset, error)
	CreateFocusPreset(ctx context.Context, in model.FocusPresetInput) (model.FocusPreset, error)
	DeleteFocusPreset(ctx context.Context, id string) error
}

var _ API = (*client.Client)(nil)

// errorMessage is the text a store shows for err. API errors show the
// server's message.
func errorMessage(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}
