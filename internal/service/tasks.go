package service

import (
	"context"
	"errors"

	"github.com/sandeepkv93/nexusflow/internal/model"
	"github.com/sandeepkv93/nexusflow/internal/storage"
)

const entityTask = "Task"

type TaskFilter struct {
	Status model.TaskStatus
}

type TaskService struct {
	*deps
}

func (s *TaskService) List(ctx context.Context, filter TaskFilter) ([]model.Task, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, Invalid("status", "unknown task status "+string(filter.Status))
	}
	rows, err := s.repo.ListTasks(ctx, storage.TaskListFilter{Status: string(filter.Status)})
	if err != nil {
		return nil, Internal("fetch tasks", err)
	}
	out := make([]model.Task, 0, len(rows))
	for _, row := range rows {
		out = append(out, taskFromStorage(row))
	}
	return out, nil
}

func (s *TaskService) Get(ctx context.Context, id string) (model.Task, error) {
	row, err := s.repo.GetTask(ctx, id)
	if err != nil {
		return model.Task{}, lookupErr(err, entityTask, "fetch task")
	}
	return taskFromStorage(row), nil
}

func (s *TaskService) Create(ctx context.Context, in model.TaskInput) (model.Task, error) {
	if err := in.Validate(); err != nil {
		return model.Task{}, Validation(err)
	}
	now := s.now()
	task := model.Task{
		ID:          s.newID(),
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateTask(ctx, taskToStorage(task)); err != nil {
		return model.Task{}, Internal("create task", err)
	}
	s.mutated(ctx, "task", "create", task.ID, 1)
	return task, nil
}

func (s *TaskService) Update(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error) {
	if err := patch.Validate(); err != nil {
		return model.Task{}, Validation(err)
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return model.Task{}, err
	}
	next := patch.Apply(current)
	next.UpdatedAt = s.now()
	if err := s.repo.UpdateTask(ctx, taskToStorage(next)); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return model.Task{}, NotFound(entityTask)
		}
		return model.Task{}, Internal("update task", err)
	}
	s.mutated(ctx, "task", "update", id, 1)
	return next, nil
}

func (s *TaskService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteTask(ctx, id); err != nil {
		return lookupErr(err, entityTask, "delete task")
	}
	s.mutated(ctx, "task", "delete", id, 1)
	return nil
}
