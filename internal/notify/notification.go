// Package notify derives notifications from domain data and keeps them in a
// center keyed for deduplication.
package notify

import "time"

type Level string

const (
	LevelInfo     Level = "info"
	LevelWarning  Level = "warning"
	LevelCritical Level = "critical"
)

func (l Level) IsValid() bool {
	switch l {
	case LevelInfo, LevelWarning, LevelCritical:
		return true
	default:
		return false
	}
}

type Category string

const (
	CategoryTask      Category = "task"
	CategoryFinance   Category = "finance"
	CategoryInventory Category = "inventory"
	CategoryFocus     Category = "focus"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryTask, CategoryFinance, CategoryInventory, CategoryFocus:
		return true
	default:
		return false
	}
}

// Candidate is a notification a rule wants to raise. The center assigns the
// id and timestamp when it is inserted.
type Candidate struct {
	Key      string
	Title    string
	Message  string
	Type     Level
	Category Category
	Link     string
}

type Notification struct {
	ID        string    `json:"id"`
	Key       string    `json:"key"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      Level     `json:"type"`
	Category  Category  `json:"category"`
	Read      bool      `json:"read"`
	Timestamp time.Time `json:"timestamp"`
	Link      string    `json:"link,omitempty"`

	seq uint64
}
