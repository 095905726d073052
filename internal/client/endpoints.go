package client

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/sandeepkv93/nexusflow/internal/model"
)

// ListTasks lists tasks, newest first. An empty status lists every task.
func (c *Client) ListTasks(ctx context.Context, status model.TaskStatus) ([]model.Task, error) {
	v := url.Values{}
	if status != "" {
		v.Set("status", string(status))
	}
	var out []model.Task
	err := c.do(ctx, http.MethodGet, withQuery("/api/tasks", v), nil, &out)
	return out, err
}

func (c *Client) GetTask(ctx context.Context, id string) (model.Task, error) {
	var out model.Task
	err := c.do(ctx, http.MethodGet, "/api/tasks/"+escape(id), nil, &out)
	return out, err
}

func (c *Client) CreateTask(ctx context.Context, in model.TaskInput) (model.Task, error) {
	var out model.Task
	err := c.do(ctx, http.MethodPost, "/api/tasks", in, &out)
	return out, err
}

func (c *Client) UpdateTask(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error) {
	var out model.Task
	err := c.do(ctx, http.MethodPatch, "/api/tasks/"+escape(id), patch, &out)
	return out, err
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/tasks/"+escape(id), nil, nil)
}

func (c *Client) ListInventory(ctx context.Context, category string) ([]model.InventoryItem, error) {
	v := url.Values{}
	if category != "" {
		v.Set("category", category)
	}
	var out []model.InventoryItem
	err := c.do(ctx, http.MethodGet, withQuery("/api/inventory", v), nil, &out)
	return out, err
}

func (c *Client) GetInventoryItem(ctx context.Context, id string) (model.InventoryItem, error) {
	var out model.InventoryItem
	err := c.do(ctx, http.MethodGet, "/api/inventory/"+escape(id), nil, &out)
	return out, err
}

func (c *Client) CreateInventoryItem(ctx context.Context, in model.InventoryInput) (model.InventoryItem, error) {
	var out model.InventoryItem
	err := c.do(ctx, http.MethodPost, "/api/inventory", in, &out)
	return out, err
}

func (c *Client) UpdateInventoryItem(ctx context.Context, id string, patch model.InventoryPatch) (model.InventoryItem, error) {
	var out model.InventoryItem
	err := c.do(ctx, http.MethodPatch, "/api/inventory/"+escape(id), patch, &out)
	return out, err
}

func (c *Client) DeleteInventoryItem(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/inventory/"+escape(id), nil, nil)
}

func (c *Client) BulkCreateInventory(ctx context.Context, in []model.InventoryInput) ([]model.InventoryItem, error) {
	var out []model.InventoryItem
	err := c.do(ctx, http.MethodPost, "/api/inventory/bulk", in, &out)
	return out, err
}

func (c *Client) BulkUpdateInventory(ctx context.Context, updates []model.InventoryUpdate) ([]model.InventoryItem, error) {
	var out []model.InventoryItem
	err := c.do(ctx, http.MethodPatch, "/api/inventory/bulk", updates, &out)
	return out, err
}

func (c *Client) BulkDeleteInventory(ctx context.Context, ids []string) error {
	return c.do(ctx, http.MethodDelete, "/api/inventory/bulk", map[string][]string{"ids": ids}, nil)
}

type TransactionQuery struct {
	Type     model.TransactionType
	From, To *time.Time
}

func (c *Client) ListTransactions(ctx context.Context, q TransactionQuery) ([]model.Transaction, error) {
	v := url.Values{}
	if q.Type != "" {
		v.Set("type", string(q.Type))
	}
	if q.From != nil {
		v.Set("from", q.From.Format(time.RFC3339Nano))
	}
	if q.To != nil {
		v.Set("to", q.To.Format(time.RFC3339Nano))
	}
	var out []model.Transaction
	err := c.do(ctx, http.MethodGet, withQuery("/api/finance", v), nil, &out)
	return out, err
}

func (c *Client) GetTransaction(ctx context.Context, id string) (model.Transaction, error) {
	var out model.Transaction
	err := c.do(ctx, http.MethodGet, "/api/finance/"+escape(id), nil, &out)
	return out, err
}

func (c *Client) CreateTransaction(ctx context.Context, in model.TransactionInput) (model.Transaction, error) {
	var out model.Transaction
	err := c.do(ctx, http.MethodPost, "/api/finance", in, &out)
	return out, err
}

func (c *Client) UpdateTransaction(ctx context.Context, id string, patch model.TransactionPatch) (model.Transaction, error) {
	var out model.Transaction
	err := c.do(ctx, http.MethodPatch, "/api/finance/"+escape(id), patch, &out)
	return out, err
}

func (c *Client) DeleteTransaction(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/finance/"+escape(id), nil, nil)
}

func (c *Client) FinanceStats(ctx context.Context, r model.DateRange) (model.FinanceStats, error) {
	var out model.FinanceStats
	err := c.do(ctx, http.MethodPost, "/api/finance/stats", r, &out)
	return out, err
}

func (c *Client) ListFocusSessions(ctx context.Context) ([]model.FocusSession, error) {
	var out []model.FocusSession
	err := c.do(ctx, http.MethodGet, "/api/focus", nil, &out)
	return out, err
}

func (c *Client) GetFocusSession(ctx context.Context, id string) (model.FocusSession, error) {
	var out model.FocusSession
	err := c.do(ctx, http.MethodGet, "/api/focus/"+escape(id), nil, &out)
	return out, err
}

func (c *Client) CreateFocusSession(ctx context.Context, in model.FocusSessionInput) (model.FocusSession, error) {
	var out model.FocusSession
	err := c.do(ctx, http.MethodPost, "/api/focus", in, &out)
	return out, err
}

func (c *Client) UpdateFocusSession(ctx context.Context, id string, patch model.FocusSessionPatch) (model.FocusSession, error) {
	var out model.FocusSession
	err := c.do(ctx, http.MethodPatch, "/api/focus/"+escape(id), patch, &out)
	return out, err
}

func (c *Client) DeleteFocusSession(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/focus/"+escape(id), nil, nil)
}

func (c *Client) CompleteFocusSession(ctx context.Context, id string) (model.FocusSession, error) {
	var out model.FocusSession
	err := c.do(ctx, http.MethodPost, "/api/focus/"+escape(id)+"/complete", nil, &out)
	return out, err
}

func (c *Client) FocusStats(ctx context.Context, r model.DateRange) (model.FocusStats, error) {
	var out model.FocusStats
	err := c.do(ctx, http.MethodPost, "/api/focus/stats", r, &out)
	return out, err
}

func (c *Client) ListFocusPresets(ctx context.Context) ([]model.FocusPreset, error) {
	var out []model.FocusPreset
	err := c.do(ctx, http.MethodGet, "/api/focus/presets", nil, &out)
	return out, err
}

func (c *Client) CreateFocusPreset(ctx context.Context, in model.FocusPresetInput) (model.FocusPreset, error) {
	var out model.FocusPreset
	err := c.do(ctx, http.MethodPost, "/api/focus/presets", in, &out)
	return out, err
}

func (c *Client) UpdateFocusPreset(ctx context.Context, id string, patch model.FocusPresetPatch) (model.FocusPreset, error) {
	var out model.FocusPreset
	err := c.do(ctx, http.MethodPatch, "/api/focus/presets/"+escape(id), patch, &out)
	return out, err
}

func (c *Client) DeleteFocusPreset(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/focus/presets/"+escape(id), nil, nil)
}
