package storage

import "time"

type Task struct {
	ID          string
	Title       string
	Description string
	Status      string
	Priority    string
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type InventoryItem struct {
	ID          string
	Name        string
	Description string
	Quantity    int
	MinQuantity int
	Price       float64
	Category    string
	Location    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Transaction struct {
	ID          string
	Type        string
	Amount      float64
	Category    string
	Description string
	Date        time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type FocusSession struct {
	ID        string
	Duration  int
	StartTime time.Time
	EndTime   *time.Time
	Type      string
	Completed bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type FocusPreset struct {
	ID          string
	Name        string
	Description string
	Duration    int
	Type        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type TaskListFilter struct {
	Status string
	Limit  int
	Offset int
}

type InventoryListFilter struct {
	Category string
	Limit    int
	Offset   int
}

// TransactionListFilter bounds transactions by date. Both ends are
// inclusive; nil leaves that side open.
type TransactionListFilter struct {
	Type   string
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// FocusSessionListFilter bounds sessions by start time. Both ends are
// inclusive.
type FocusSessionListFilter struct {
	From          *time.Time
	To            *time.Time
	CompletedOnly bool
	Limit         int
	Offset        int
}

type FocusPresetListFilter struct {
	Limit  int
	Offset int
}
