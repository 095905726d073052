package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/hay-kot/criterio"
	"github.com/sandeepkv93/nexusflow/internal/model"
	"github.com/sandeepkv93/nexusflow/internal/storage"
)

const entityInventory = "Inventory item"

type InventoryFilter struct {
	Category string
}

type InventoryService struct {
	*deps
}

func (s *InventoryService) List(ctx context.Context, filter InventoryFilter) ([]model.InventoryItem, error) {
	rows, err := s.repo.ListInventoryItems(ctx, storage.InventoryListFilter{Category: filter.Category})
	if err != nil {
		return nil, Internal("fetch inventory items", err)
	}
	out := make([]model.InventoryItem, 0, len(rows))
	for _, row := range rows {
		out = append(out, inventoryFromStorage(row))
	}
	return out, nil
}

func (s *InventoryService) Get(ctx context.Context, id string) (model.InventoryItem, error) {
	return getInventoryItem(ctx, s.repo, id)
}

func getInventoryItem(ctx context.Context, repo storage.Repository, id string) (model.InventoryItem, error) {
	row, err := repo.GetInventoryItem(ctx, id)
	if err != nil {
		return model.InventoryItem{}, lookupErr(err, entityInventory, "fetch inventory item")
	}
	return inventoryFromStorage(row), nil
}

func (s *InventoryService) Create(ctx context.Context, in model.InventoryInput) (model.InventoryItem, error) {
	if err := in.Validate(); err != nil {
		return model.InventoryItem{}, Validation(err)
	}
	item := s.newItem(in)
	if err := s.repo.CreateInventoryItem(ctx, inventoryToStorage(item)); err != nil {
		return model.InventoryItem{}, Internal("create inventory item", err)
	}
	s.mutated(ctx, "inventory", "create", item.ID, 1)
	return item, nil
}

func (s *InventoryService) Update(ctx context.Context, id string, patch model.InventoryPatch) (model.InventoryItem, error) {
	if err := patch.Validate(); err != nil {
		return model.InventoryItem{}, Validation(err)
	}
	next, err := s.update(ctx, s.repo, id, patch)
	if err != nil {
		return model.InventoryItem{}, err
	}
	s.mutated(ctx, "inventory", "update", id, 1)
	return next, nil
}

func (s *InventoryService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteInventoryItem(ctx, id); err != nil {
		return lookupErr(err, entityInventory, "delete inventory item")
	}
	s.mutated(ctx, "inventory", "delete", id, 1)
	return nil
}

// BulkCreate validates every input before inserting any, then inserts them
// in one transaction.
func (s *InventoryService) BulkCreate(ctx context.Context, inputs []model.InventoryInput) ([]model.InventoryItem, error) {
	if len(inputs) == 0 {
		return nil, Invalid("items", "array is empty")
	}
	var errs criterio.FieldErrorsBuilder
	for i, in := range inputs {
		errs = appendIndexed(errs, fmt.Sprintf("[%d]", i), in.Validate())
	}
	if err := errs.ToError(); err != nil {
		return nil, Validation(err)
	}

	items := make([]model.InventoryItem, 0, len(inputs))
	for _, in := range inputs {
		items = append(items, s.newItem(in))
	}
	err := s.repo.WithTx(ctx, func(tx storage.Repository) error {
		for _, item := range items {
			if err := tx.CreateInventoryItem(ctx, inventoryToStorage(item)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, Internal("create inventory items", err)
	}
	s.mutated(ctx, "inventory", "bulk_create", "", len(items))
	return items, nil
}

// BulkUpdate checks that every item exists and every patch is valid before
// applying any, then applies all patches in one transaction.
func (s *InventoryService) BulkUpdate(ctx context.Context, updates []model.InventoryUpdate) ([]model.InventoryItem, error) {
	if len(updates) == 0 {
		return nil, Invalid("items", "array is empty")
	}
	var errs criterio.FieldErrorsBuilder
	for i, u := range updates {
		prefix := fmt.Sprintf("[%d]", i)
		if u.ID == "" {
			errs = errs.Append(prefix+".id", model.ErrRequired)
		}
		errs = appendIndexed(errs, prefix+".data", u.Data.Validate())
	}
	if err := errs.ToError(); err != nil {
		return nil, Validation(err)
	}
	for _, u := range updates {
		if _, err := s.Get(ctx, u.ID); err != nil {
			return nil, err
		}
	}

	out := make([]model.InventoryItem, 0, len(updates))
	err := s.repo.WithTx(ctx, func(tx storage.Repository) error {
		for _, u := range updates {
			next, err := s.update(ctx, tx, u.ID, u.Data)
			if err != nil {
				return err
			}
			out = append(out, next)
		}
		return nil
	})
	if err != nil {
		var se *Error
		if errors.As(err, &se) {
			return nil, se
		}
		return nil, Internal("update inventory items", err)
	}
	s.mutated(ctx, "inventory", "bulk_update", "", len(out))
	return out, nil
}

// BulkDelete checks that every id exists before deleting any. Duplicate ids
// are removed once.
func (s *InventoryService) BulkDelete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return Invalid("ids", "array is empty")
	}
	unique := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, id)
	}
	for _, id := range unique {
		if _, err := s.Get(ctx, id); err != nil {
			return err
		}
	}
	err := s.repo.WithTx(ctx, func(tx storage.Repository) error {
		for _, id := range unique {
			if err := tx.DeleteInventoryItem(ctx, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return lookupErr(err, entityInventory, "delete inventory items")
	}
	s.mutated(ctx, "inventory", "bulk_delete", "", len(unique))
	return nil
}

func (s *InventoryService) newItem(in model.InventoryInput) model.InventoryItem {
	now := s.now()
	return model.InventoryItem{
		ID:          s.newID(),
		Name:        in.Name,
		Description: in.Description,
		Quantity:    in.Quantity,
		MinQuantity: in.MinQuantity,
		Price:       in.Price,
		Category:    in.Category,
		Location:    in.Location,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (s *InventoryService) update(ctx context.Context, repo storage.Repository, id string, patch model.InventoryPatch) (model.InventoryItem, error) {
	current, err := getInventoryItem(ctx, repo, id)
	if err != nil {
		return model.InventoryItem{}, err
	}
	next := patch.Apply(current)
	next.UpdatedAt = s.now()
	if err := repo.UpdateInventoryItem(ctx, inventoryToStorage(next)); err != nil {
		return model.InventoryItem{}, lookupErr(err, entityInventory, "update inventory item")
	}
	return next, nil
}

// appendIndexed copies field errors from err under prefix. A non-field error
// is recorded against prefix itself.
func appendIndexed(errs criterio.FieldErrorsBuilder, prefix string, err error) criterio.FieldErrorsBuilder {
	if err == nil {
		return errs
	}
	var fe criterio.FieldErrors
	if !errors.As(err, &fe) {
		return errs.Append(prefix, err)
	}
	for _, f := range fe {
		errs = errs.Append(prefix+"."+f.Field, f.Err)
	}
	return errs
}
