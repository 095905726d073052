package state

import (
	"context"
	"strings"

	"github.com/sandeepkv93/nexusflow/internal/model"
)

type TaskFilter struct {
	Search   string
	Status   model.TaskStatus
	Priority model.TaskPriority
}

type TaskStore struct {
	api   API
	items collection[model.Task]
}

func newTaskStore(api API, changed func()) *TaskStore {
	return &TaskStore{
		api: api,
		items: collection[model.Task]{
			idOf:    func(t model.Task) string { return t.ID },
			less:    func(a, b model.Task) bool { return a.CreatedAt.After(b.CreatedAt) },
			changed: changed,
		},
	}
}

func (s *TaskStore) Fetch(ctx context.Context) error {
	return s.items.fetch(func() ([]model.Task, error) { return s.api.ListTasks(ctx, "") })
}

func (s *TaskStore) Create(ctx context.Context, in model.TaskInput) (model.Task, error) {
	task, err := s.api.CreateTask(ctx, in)
	if err != nil {
		return model.Task{}, s.items.failed(err)
	}
	s.items.put(task)
	return task, nil
}

func (s *TaskStore) Update(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error) {
	task, err := s.api.UpdateTask(ctx, id, patch)
	if err != nil {
		return model.Task{}, s.items.failed(err)
	}
	s.items.put(task)
	return task, nil
}

func (s *TaskStore) Delete(ctx context.Context, id string) error {
	if err := s.api.DeleteTask(ctx, id); err != nil {
		return s.items.failed(err)
	}
	s.items.remove(id)
	return nil
}

func (s *TaskStore) Items() []model.Task {
	return s.items.snapshot()
}

func (s *TaskStore) Get(id string) (model.Task, bool) {
	return s.items.find(id)
}

func (s *TaskStore) Loading() bool {
	loading, _ := s.items.status()
	return loading
}

func (s *TaskStore) Err() string {
	_, err := s.items.status()
	return err
}

// Filter matches search text against title and description, case
// insensitively. Empty fields match everything.
func (s *TaskStore) Filter(f TaskFilter) []model.Task {
	needle := strings.ToLower(strings.TrimSpace(f.Search))
	var out []model.Task
	for _, t := range s.items.snapshot() {
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.Priority != "" && t.Priority != f.Priority {
			continue
		}
		if needle != "" && !containsFold(t.Title, needle) && !containsFold(t.Description, needle) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Kanban groups tasks into one column per status.
func (s *TaskStore) Kanban() map[model.TaskStatus][]model.Task {
	board := make(map[model.TaskStatus][]model.Task, len(model.TaskStatuses))
	for _, status := range model.TaskStatuses {
		board[status] = nil
	}
	for _, t := range s.items.snapshot() {
		board[t.Status] = append(board[t.Status], t)
	}
	return board
}
