package service

import (
	"github.com/sandeepkv93/nexusflow/internal/model"
	"github.com/sandeepkv93/nexusflow/internal/storage"
)

func taskFromStorage(in storage.Task) model.Task {
	return model.Task{
		ID:          in.ID,
		Title:       in.Title,
		Description: in.Description,
		Status:      model.TaskStatus(in.Status),
		Priority:    model.TaskPriority(in.Priority),
		DueDate:     in.DueDate,
		CreatedAt:   in.CreatedAt,
		UpdatedAt:   in.UpdatedAt,
	}
}

func taskToStorage(in model.Task) storage.Task {
	return storage.Task{
		ID:          in.ID,
		Title:       in.Title,
		Description: in.Description,
		Status:      string(in.Status),
		Priority:    string(in.Priority),
		DueDate:     in.DueDate,
		CreatedAt:   in.CreatedAt,
		UpdatedAt:   in.UpdatedAt,
	}
}

func inventoryFromStorage(in storage.InventoryItem) model.InventoryItem {
	return model.InventoryItem{
		ID:          in.ID,
		Name:        in.Name,
		Description: in.Description,
		Quantity:    in.Quantity,
		MinQuantity: in.MinQuantity,
		Price:       in.Price,
		Category:    in.Category,
		Location:    in.Location,
		CreatedAt:   in.CreatedAt,
		UpdatedAt:   in.UpdatedAt,
	}
}

func inventoryToStorage(in model.InventoryItem) storage.InventoryItem {
	return storage.InventoryItem{
		ID:          in.ID,
		Name:        in.Name,
		Description: in.Description,
		Quantity:    in.Quantity,
		MinQuantity: in.MinQuantity,
		Price:       in.Price,
		Category:    in.Category,
		Location:    in.Location,
		CreatedAt:   in.CreatedAt,
		UpdatedAt:   in.UpdatedAt,
	}
}

func transactionFromStorage(in storage.Transaction) model.Transaction {
	return model.Transaction{
		ID:          in.ID,
		Type:        model.TransactionType(in.Type),
		Amount:      in.Amount,
		Category:    model.TransactionCategory(in.Category),
		Description: in.Description,
		Date:        in.Date,
		CreatedAt:   in.CreatedAt,
		UpdatedAt:   in.UpdatedAt,
	}
}

func transactionToStorage(in model.Transaction) storage.Transaction {
	return storage.Transaction{
		ID:          in.ID,
		Type:        string(in.Type),
		Amount:      in.Amount,
		Category:    string(in.Category),
		Description: in.Description,
		Date:        in.Date,
		CreatedAt:   in.CreatedAt,
		UpdatedAt:   in.UpdatedAt,
	}
}

func focusSessionFromStorage(in storage.FocusSession) model.FocusSession {
	return model.FocusSession{
		ID:        in.ID,
		Duration:  in.Duration,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		Type:      model.FocusType(in.Type),
		Completed: in.Completed,
		CreatedAt: in.CreatedAt,
		UpdatedAt: in.UpdatedAt,
	}
}

func focusSessionToStorage(in model.FocusSession) storage.FocusSession {
	return storage.FocusSession{
		ID:        in.ID,
		Duration:  in.Duration,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		Type:      string(in.Type),
		Completed: in.Completed,
		CreatedAt: in.CreatedAt,
		UpdatedAt: in.UpdatedAt,
	}
}

func focusPresetFromStorage(in storage.FocusPreset) model.FocusPreset {
	return model.FocusPreset{
		ID:          in.ID,
		Name:        in.Name,
		Description: in.Description,
		Duration:    in.Duration,
		Type:        model.FocusType(in.Type),
		CreatedAt:   in.CreatedAt,
		UpdatedAt:   in.UpdatedAt,
	}
}

func focusPresetToStorage(in model.FocusPreset) storage.FocusPreset {
	return storage.FocusPreset{
		ID:          in.ID,
		Name:        in.Name,
		Description: in.Description,
		Duration:    in.Duration,
		Type:        string(in.Type),
		CreatedAt:   in.CreatedAt,
		UpdatedAt:   in.UpdatedAt,
	}
}
