package model

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hay-kot/criterio"
)

func fieldErrors(t *testing.T, err error) criterio.FieldErrors {
	t.Helper()
	var fe criterio.FieldErrors
	if !errors.As(err, &fe) {
		t.Fatalf("expected field errors, got: %v", err)
	}
	return fe
}

func hasField(fe criterio.FieldErrors, field string, target error) bool {
	for _, e := range fe {
		if e.Field == field && (target == nil || errors.Is(e.Err, target)) {
			return true
		}
	}
	return false
}

func TestTaskInputValidateSuccess(t *testing.T) {
	due := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	in := TaskInput{
		Title:    "Write quarterly report",
		Status:   TaskStatusTodo,
		Priority: PriorityHigh,
		DueDate:  &due,
	}
	if err := in.Validate(); err != nil {
		t.Fatalf("expected valid task, got error: %v", err)
	}
}

func TestTaskInputValidateInvalidEnums(t *testing.T) {
	in := TaskInput{
		Title:    "Bad enums",
		Status:   TaskStatus("Inbox"),
		Priority: TaskPriority("Critical"),
	}
	fe := fieldErrors(t, in.Validate())
	if !hasField(fe, "status", ErrInvalidStatus) {
		t.Fatalf("expected status error, got: %v", fe)
	}
	if !hasField(fe, "priority", ErrInvalidPriority) {
		t.Fatalf("expected priority error, got: %v", fe)
	}
}

func TestTaskInputValidateTitleBounds(t *testing.T) {
	in := TaskInput{Title: "   ", Status: TaskStatusTodo, Priority: PriorityLow}
	if fe := fieldErrors(t, in.Validate()); !hasField(fe, "title", ErrRequired) {
		t.Fatalf("expected required title error, got: %v", fe)
	}

	in.Title = strings.Repeat("x", TaskTitleMax+1)
	if fe := fieldErrors(t, in.Validate()); !hasField(fe, "title", ErrTooLong) {
		t.Fatalf("expected too long title error, got: %v", fe)
	}

	in.Title = strings.Repeat("é", TaskTitleMax)
	if err := in.Validate(); err != nil {
		t.Fatalf("multi-byte title at limit should pass: %v", err)
	}
}

func TestTaskPatchApplyKeepsUnsetFields(t *testing.T) {
	created := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	task := Task{
		ID:          "task-1",
		Title:       "Original",
		Description: "keep me",
		Status:      TaskStatusTodo,
		Priority:    PriorityMedium,
		CreatedAt:   created,
	}
	status := TaskStatusInProgress
	got := TaskPatch{Status: &status}.Apply(task)
	if got.Status != TaskStatusInProgress {
		t.Fatalf("status = %s, want %s", got.Status, TaskStatusInProgress)
	}
	if got.Title != "Original" || got.Description != "keep me" || got.Priority != PriorityMedium {
		t.Fatalf("unexpected patched task: %#v", got)
	}
}

func TestTaskPatchValidateRejectsBadStatus(t *testing.T) {
	bad := TaskStatus("ARCHIVED")
	fe := fieldErrors(t, TaskPatch{Status: &bad}.Validate())
	if !hasField(fe, "status", ErrInvalidStatus) {
		t.Fatalf("expected status error, got: %v", fe)
	}
	if err := (TaskPatch{}).Validate(); err != nil {
		t.Fatalf("empty patch should be valid: %v", err)
	}
}

func TestTaskStatusNext(t *testing.T) {
	cases := map[TaskStatus]TaskStatus{
		TaskStatusTodo:       TaskStatusInProgress,
		TaskStatusInProgress: TaskStatusDone,
		TaskStatusDone:       TaskStatusDone,
	}
	for in, want := range cases {
		if got := in.Next(); got != want {
			t.Fatalf("%s.Next() = %s, want %s", in, got, want)
		}
	}
}

func TestTaskStatusPrev(t *testing.T) {
	cases := map[TaskStatus]TaskStatus{
		TaskStatusTodo:       TaskStatusTodo,
		TaskStatusInProgress: TaskStatusTodo,
		TaskStatusDone:       TaskStatusInProgress,
	}
	for in, want := range cases {
		if got := in.Prev(); got != want {
			t.Fatalf("%s.Prev() = %s, want %s", in, got, want)
		}
	}
}
