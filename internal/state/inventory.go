package state

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandeepkv93/nexusflow/internal/model"
)

type InventoryFilter struct {
	Search   string
	Category string
	LowStock bool
}

type InventoryStore struct {
	api   API
	items collection[model.InventoryItem]
}

func newInventoryStore(api API, changed func()) *InventoryStore {
	return &InventoryStore{
		api: api,
		items: collection[model.InventoryItem]{
			idOf:    func(i model.InventoryItem) string { return i.ID },
			less:    func(a, b model.InventoryItem) bool { return a.Name < b.Name },
			changed: changed,
		},
	}
}

func (s *InventoryStore) Fetch(ctx context.Context) error {
	return s.items.fetch(func() ([]model.InventoryItem, error) { return s.api.ListInventory(ctx, "") })
}

func (s *InventoryStore) Create(ctx context.Context, in model.InventoryInput) (model.InventoryItem, error) {
	item, err := s.api.CreateInventoryItem(ctx, in)
	if err != nil {
		return model.InventoryItem{}, s.items.failed(err)
	}
	s.items.put(item)
	return item, nil
}

func (s *InventoryStore) Update(ctx context.Context, id string, patch model.InventoryPatch) (model.InventoryItem, error) {
	item, err := s.api.UpdateInventoryItem(ctx, id, patch)
	if err != nil {
		return model.InventoryItem{}, s.items.failed(err)
	}
	s.items.put(item)
	return item, nil
}

// AdjustStock changes the quantity of a cached item by delta. The server
// rejects a result below zero.
func (s *InventoryStore) AdjustStock(ctx context.Context, id string, delta int) (model.InventoryItem, error) {
	item, ok := s.items.find(id)
	if !ok {
		return model.InventoryItem{}, s.items.failed(fmt.Errorf("inventory item %s is not loaded", id))
	}
	qty := item.Quantity + delta
	return s.Update(ctx, id, model.InventoryPatch{Quantity: &qty})
}

func (s *InventoryStore) Delete(ctx context.Context, id string) error {
	if err := s.api.DeleteInventoryItem(ctx, id); err != nil {
		return s.items.failed(err)
	}
	s.items.remove(id)
	return nil
}

func (s *InventoryStore) DeleteMany(ctx context.Context, ids []string) error {
	if err := s.api.BulkDeleteInventory(ctx, ids); err != nil {
		return s.items.failed(err)
	}
	s.items.remove(ids...)
	return nil
}

func (s *InventoryStore) Items() []model.InventoryItem {
	return s.items.snapshot()
}

func (s *InventoryStore) Loading() bool {
	loading, _ := s.items.status()
	return loading
}

func (s *InventoryStore) Err() string {
	_, err := s.items.status()
	return err
}

// Filter matches search text against name, description, category and
// location.
func (s *InventoryStore) Filter(f InventoryFilter) []model.InventoryItem {
	needle := strings.ToLower(strings.TrimSpace(f.Search))
	var out []model.InventoryItem
	for _, it := range s.items.snapshot() {
		if f.Category != "" && it.Category != f.Category {
			continue
		}
		if f.LowStock && !it.IsLowStock() {
			continue
		}
		if needle != "" &&
			!containsFold(it.Name, needle) &&
			!containsFold(it.Description, needle) &&
			!containsFold(it.Category, needle) &&
			!containsFold(it.Location, needle) {
			continue
		}
		out = append(out, it)
	}
	return out
}

// TotalValue is the stock value of every cached item.
func (s *InventoryStore) TotalValue() float64 {
	var total float64
	for _, it := range s.items.snapshot() {
		total += it.Value()
	}
	return total
}
