package update

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/nexusflow/internal/model"
)

var (
	statusFilters   = []model.TaskStatus{"", model.TaskStatusTodo, model.TaskStatusInProgress, model.TaskStatusDone}
	priorityFilters = []model.TaskPriority{"", model.PriorityHigh, model.PriorityMedium, model.PriorityLow}
)

func (m Model) handleTasksKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	n := len(m.visibleTasks())
	switch msg.String() {
	case "j", "down":
		m.Cursor.Tasks = moveCursor(m.Cursor.Tasks, 1, n)
	case "k", "up":
		m.Cursor.Tasks = moveCursor(m.Cursor.Tasks, -1, n)
	case "x":
		t, ok := m.selectedTask()
		if !ok {
			return m, nil
		}
		cmd := m.moveTask(t, t.Status.Next())
		return m, cmd
	case "d":
		t, ok := m.selectedTask()
		if !ok {
			return m, nil
		}
		tasks, id := m.App.Tasks, t.ID
		m.Status = StatusBar{Text: "deleting task"}
		cmd := m.track(m.mutate(fmt.Sprintf("deleted task: %s", t.Title), func(ctx context.Context) error {
			return tasks.Delete(ctx, id)
		}))
		return m, cmd
	case "f":
		m.TaskFilter.Status = cycle(statusFilters, m.TaskFilter.Status)
		m.Cursor.Tasks = 0
		m.Status = StatusBar{Text: "status filter: " + filterLabel(string(m.TaskFilter.Status))}
	case "p":
		m.TaskFilter.Priority = cycle(priorityFilters, m.TaskFilter.Priority)
		m.Cursor.Tasks = 0
		m.Status = StatusBar{Text: "priority filter: " + filterLabel(string(m.TaskFilter.Priority))}
	case "pgdown":
		m.detailViewport.ScrollDown(3)
	case "pgup":
		m.detailViewport.ScrollUp(3)
	}
	return m, nil
}

func (m Model) handleKanbanKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	cols := m.kanbanColumns()
	switch msg.String() {
	case "h", "left":
		m.Kanban.Column = clampCursor(m.Kanban.Column-1, len(cols))
		m.Kanban.Row = clampCursor(m.Kanban.Row, len(cols[m.Kanban.Column]))
	case "l", "right":
		m.Kanban.Column = clampCursor(m.Kanban.Column+1, len(cols))
		m.Kanban.Row = clampCursor(m.Kanban.Row, len(cols[m.Kanban.Column]))
	case "j", "down":
		m.Kanban.Row = moveCursor(m.Kanban.Row, 1, len(cols[m.Kanban.Column]))
	case "k", "up":
		m.Kanban.Row = moveCursor(m.Kanban.Row, -1, len(cols[m.Kanban.Column]))
	case "m":
		if t, ok := m.selectedKanbanTask(); ok {
			cmd := m.moveTask(t, t.Status.Next())
			return m, cmd
		}
	case "M":
		if t, ok := m.selectedKanbanTask(); ok {
			cmd := m.moveTask(t, t.Status.Prev())
			return m, cmd
		}
	}
	return m, nil
}

func (m *Model) moveTask(t model.Task, to model.TaskStatus) tea.Cmd {
	if to == t.Status {
		m.Status = StatusBar{Text: fmt.Sprintf("task already %s", to.Label())}
		return nil
	}
	tasks, id := m.App.Tasks, t.ID
	m.Status = StatusBar{Text: "updating task"}
	return m.track(m.mutate(fmt.Sprintf("%s: %s", t.Title, to.Label()), func(ctx context.Context) error {
		_, err := tasks.Update(ctx, id, model.TaskPatch{Status: &to})
		return err
	}))
}

func filterLabel(v string) string {
	if v == "" {
		return "all"
	}
	return v
}
