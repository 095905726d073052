package update

import (
	"fmt"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/nexusflow/internal/model"
	"github.com/sandeepkv93/nexusflow/internal/state"
	"github.com/sandeepkv93/nexusflow/internal/views"
)

// dashboardLimit caps each alert list on the dashboard.
const dashboardLimit = 5

// highPriorityTasks lists open high-priority tasks, soonest due first.
func (m Model) highPriorityTasks() []model.Task {
	var out []model.Task
	for _, t := range m.App.Tasks.Items() {
		if t.Priority == model.PriorityHigh && t.Status != model.TaskStatusDone {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].DueDate, out[j].DueDate
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})
	if len(out) > dashboardLimit {
		out = out[:dashboardLimit]
	}
	return out
}

func (m Model) handleDashboardKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	tasks := m.highPriorityTasks()
	switch msg.String() {
	case "j", "down":
		m.Cursor.Dashboard = moveCursor(m.Cursor.Dashboard, 1, len(tasks))
	case "k", "up":
		m.Cursor.Dashboard = moveCursor(m.Cursor.Dashboard, -1, len(tasks))
	case "enter":
		if m.Cursor.Dashboard >= len(tasks) {
			return m, nil
		}
		m.openTask(tasks[m.Cursor.Dashboard].ID)
	}
	return m, nil
}

// openTask switches to the Tasks view with id selected. Filters that would
// hide the task are cleared.
func (m *Model) openTask(id string) {
	task, ok := m.App.Tasks.Get(id)
	if !ok {
		m.Status = StatusBar{Text: "task no longer exists", IsError: true}
		return
	}
	index := taskIndex(m.visibleTasks(), id)
	if index < 0 {
		m.TaskFilter = state.TaskFilter{}
		index = taskIndex(m.visibleTasks(), id)
	}
	m.Cursor.Tasks = max(index, 0)
	m.CurrentView = ViewTasks
	m.Status = StatusBar{Text: "opened task: " + task.Title}
}

func taskIndex(tasks []model.Task, id string) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (m Model) renderDashboardView() string {
	app := m.App
	now := time.Now()
	data := views.DashboardPanelData{
		InventoryValue: formatMoney(app.Inventory.TotalValue()),
		Unread:         app.Notifications.UnreadCount(),
		Loading:        m.loadingIndicator(app.Tasks.Loading() || app.Inventory.Loading() || app.Finance.Loading()),
	}
	for _, err := range []string{app.Tasks.Err(), app.Inventory.Err(), app.Finance.Err(), app.Focus.Err()} {
		if err != "" {
			data.Err = err
			break
		}
	}

	for _, t := range app.Tasks.Items() {
		data.Tasks++
		switch t.Status {
		case model.TaskStatusInProgress:
			data.InProgress++
		case model.TaskStatusDone:
			data.Done++
		}
		if t.Status != model.TaskStatusDone && t.DueDate != nil && t.DueDate.Before(now) {
			data.Overdue++
		}
	}
	high := m.highPriorityTasks()
	for _, t := range high {
		data.HighPriority = append(data.HighPriority, taskItemData(t, now))
	}
	if c := clampCursor(m.Cursor.Dashboard, len(high)); c < len(high) {
		data.SelectedID = high[c].ID
	}

	for _, it := range app.Inventory.Items() {
		data.Items++
		if !it.IsLowStock() {
			continue
		}
		data.LowStock++
		if len(data.LowStockItems) < dashboardLimit {
			data.LowStockItems = append(data.LowStockItems, fmt.Sprintf("%s: %d of %d", it.Name, it.Quantity, it.MinQuantity))
		}
	}

	month := app.Finance.Stats()
	data.Income = formatMoney(month.TotalIncome)
	data.Expenses = formatMoney(month.TotalExpenses)
	data.Balance = formatMoney(month.Balance)
	data.Negative = month.Balance < 0
	data.FocusToday = focusStatsLine(app.Focus.Stats())
	return views.RenderDashboardPanel(data)
}

func focusStatsLine(s model.FocusStats) string {
	return fmt.Sprintf("%d sessions, %d min focus, %d min break, %d completed",
		s.TotalSessions, s.TotalFocusTime, s.TotalBreakTime, s.CompletedSessions)
}
