package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/hay-kot/criterio"
)

var (
	ErrInvalidStatus   = errors.New("model: invalid task status")
	ErrInvalidPriority = errors.New("model: invalid task priority")
)

const (
	TaskTitleMax       = 100
	TaskDescriptionMax = 500
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusDone       TaskStatus = "DONE"
)

// TaskStatuses lists the Kanban columns in board order.
var TaskStatuses = []TaskStatus{TaskStatusTodo, TaskStatusInProgress, TaskStatusDone}

func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	default:
		return false
	}
}

func (s TaskStatus) Label() string {
	switch s {
	case TaskStatusTodo:
		return "To Do"
	case TaskStatusInProgress:
		return "In Progress"
	case TaskStatusDone:
		return "Done"
	default:
		return string(s)
	}
}

// Next returns the status a task advances to on the board. Done is terminal.
func (s TaskStatus) Next() TaskStatus {
	switch s {
	case TaskStatusTodo:
		return TaskStatusInProgress
	case TaskStatusInProgress, TaskStatusDone:
		return TaskStatusDone
	default:
		return s
	}
}

// Prev moves a task back one column. Todo is the first column.
func (s TaskStatus) Prev() TaskStatus {
	switch s {
	case TaskStatusDone:
		return TaskStatusInProgress
	case TaskStatusInProgress, TaskStatusTodo:
		return TaskStatusTodo
	default:
		return s
	}
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
)

func (p TaskPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

func (p TaskPriority) Label() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	default:
		return string(p)
	}
}

type Task struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	DueDate     *time.Time   `json:"dueDate,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// TaskInput is the body accepted when creating a task.
type TaskInput struct {
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	DueDate     *time.Time   `json:"dueDate,omitempty"`
}

func (in TaskInput) Validate() error {
	var errs criterio.FieldErrorsBuilder
	errs = appendText(errs, "title", in.Title, 1, TaskTitleMax)
	errs = appendText(errs, "description", in.Description, 0, TaskDescriptionMax)
	if !in.Status.IsValid() {
		errs = errs.Append("status", fmt.Errorf("%w: %q", ErrInvalidStatus, in.Status))
	}
	if !in.Priority.IsValid() {
		errs = errs.Append("priority", fmt.Errorf("%w: %q", ErrInvalidPriority, in.Priority))
	}
	return errs.ToError()
}

// TaskPatch is a partial update. Nil fields are left unchanged.
type TaskPatch struct {
	Title       *string       `json:"title,omitempty"`
	Description *string       `json:"description,omitempty"`
	Status      *TaskStatus   `json:"status,omitempty"`
	Priority    *TaskPriority `json:"priority,omitempty"`
	DueDate     *time.Time    `json:"dueDate,omitempty"`
}

func (p TaskPatch) Validate() error {
	var errs criterio.FieldErrorsBuilder
	if p.Title != nil {
		errs = appendText(errs, "title", *p.Title, 1, TaskTitleMax)
	}
	if p.Description != nil {
		errs = appendText(errs, "description", *p.Description, 0, TaskDescriptionMax)
	}
	if p.Status != nil && !p.Status.IsValid() {
		errs = errs.Append("status", fmt.Errorf("%w: %q", ErrInvalidStatus, *p.Status))
	}
	if p.Priority != nil && !p.Priority.IsValid() {
		errs = errs.Append("priority", fmt.Errorf("%w: %q", ErrInvalidPriority, *p.Priority))
	}
	return errs.ToError()
}

func (p TaskPatch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.DueDate != nil {
		due := *p.DueDate
		t.DueDate = &due
	}
	return t
}
