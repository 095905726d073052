package update

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sandeepkv93/nexusflow/internal/model"
	"github.com/sandeepkv93/nexusflow/internal/views"
)

func (m Model) renderCommandPalette() string {
	if !m.Palette.Active {
		return ""
	}
	return views.RenderCommandPalette(true, m.commandInput.View())
}

func (m Model) renderToast() string {
	if m.Toast == nil {
		return ""
	}
	return views.RenderNotification(string(m.Toast.Type), m.Toast.Title, m.Toast.Message)
}

func (m Model) renderTasksView() string {
	store := m.App.Tasks
	var filters []string
	if m.TaskFilter.Search != "" {
		filters = append(filters, fmt.Sprintf("search=%q", m.TaskFilter.Search))
	}
	if m.TaskFilter.Status != "" {
		filters = append(filters, "status="+string(m.TaskFilter.Status))
	}
	if m.TaskFilter.Priority != "" {
		filters = append(filters, "priority="+string(m.TaskFilter.Priority))
	}
	return views.RenderTasksPanel(views.TasksPanelData{
		ListView: m.taskList.View(),
		Filter:   strings.Join(filters, " "),
		Total:    len(store.Items()),
		Shown:    len(m.visibleTasks()),
		Loading:  m.loadingIndicator(store.Loading()),
		Err:      store.Err(),
	})
}

func (m Model) renderTaskDetail() string {
	t, ok := m.selectedTask()
	if !ok {
		return views.RenderTaskDetail(views.TaskDetailData{})
	}
	data := taskItemData(t, time.Now())
	return views.RenderTaskDetail(views.TaskDetailData{
		Task:            &data,
		DescriptionView: m.detailViewport.View(),
	})
}

func (m Model) renderKanbanView() string {
	cols := m.kanbanColumns()
	now := time.Now()
	data := views.KanbanPanelData{Column: m.Kanban.Column}
	for i, status := range model.TaskStatuses {
		col := views.KanbanColumnData{Title: status.Label()}
		for _, t := range cols[i] {
			col.Items = append(col.Items, taskItemData(t, now))
		}
		data.Columns = append(data.Columns, col)
	}
	if t, ok := m.selectedKanbanTask(); ok {
		data.SelectedID = t.ID
	}
	return views.RenderKanbanPanel(data)
}

func (m Model) renderInventoryView() string {
	store := m.App.Inventory
	low := 0
	for _, it := range store.Items() {
		if it.IsLowStock() {
			low++
		}
	}
	var filters []string
	if m.InventoryFilter.Search != "" {
		filters = append(filters, fmt.Sprintf("search=%q", m.InventoryFilter.Search))
	}
	if m.InventoryFilter.LowStock {
		filters = append(filters, "low-stock")
	}
	return views.RenderInventoryPanel(views.InventoryPanelData{
		TableView:  m.inventoryTable.View(),
		Filter:     strings.Join(filters, " "),
		TotalValue: formatMoney(store.TotalValue()),
		LowStock:   low,
		Loading:    m.loadingIndicator(store.Loading()),
		Err:        store.Err(),
	})
}

func (m Model) renderFinanceView() string {
	store := m.App.Finance
	balance := store.Balance()
	filter := ""
	if m.FinanceFilter.Type != "" {
		filter = "type=" + string(m.FinanceFilter.Type)
	}
	month := store.Stats()
	monthLine := fmt.Sprintf("income %s | expenses %s | balance %s",
		formatMoney(month.TotalIncome), formatMoney(month.TotalExpenses), formatMoney(month.Balance))
	return views.RenderFinancePanel(views.FinancePanelData{
		TableView:  m.financeTable.View(),
		Filter:     filter,
		Income:     formatMoney(store.IncomeTotal()),
		Expenses:   formatMoney(store.ExpenseTotal()),
		Balance:    formatMoney(balance),
		Negative:   balance < 0,
		Month:      monthLine,
		Categories: expenseCategories(month),
		Loading:    m.loadingIndicator(store.Loading()),
		Err:        store.Err(),
	})
}

// expenseCategories lists the expense categories of s, largest first.
func expenseCategories(s model.FinanceStats) []string {
	type entry struct {
		category model.TransactionCategory
		amount   float64
	}
	var entries []entry
	for c, amount := range s.ByCategory {
		if c.Type() == model.TransactionExpense && amount > 0 {
			entries = append(entries, entry{c, amount})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].amount != entries[j].amount {
			return entries[i].amount > entries[j].amount
		}
		return entries[i].category < entries[j].category
	})
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, fmt.Sprintf("%s %s", e.category, formatMoney(e.amount)))
	}
	return out
}

func (m Model) renderFocusView() string {
	snap := m.Focus
	typ := string(model.FocusTypeFocus)
	if snap.Session != nil {
		typ = string(snap.Session.Type)
	}
	progress := snap.Progress()
	data := views.FocusPanelData{
		Type:         typ,
		State:        focusStateLabel(snap),
		Timer:        formatDuration(snap.TimeLeft),
		ProgressView: m.focusProgress.ViewAs(progress),
		ProgressPct:  int(progress * 100),
		Err:          m.App.Focus.Err(),
	}
	if snap.Last != nil {
		status := "stopped early"
		if snap.Last.Completed {
			status = "completed"
		}
		data.LastSession = fmt.Sprintf("%d min %s, %s", snap.Last.Duration, snap.Last.Type, status)
	}
	if snap.Err != nil {
		data.Err = snap.Err.Error()
	}
	for _, p := range m.App.Focus.Presets() {
		data.Presets = append(data.Presets, fmt.Sprintf("%s (%d min %s)", p.Name, p.Duration, p.Type))
	}
	data.Today = focusStatsLine(m.App.Focus.Stats())
	for i, s := range m.App.Focus.Sessions() {
		if i == historyLimit {
			break
		}
		data.History = append(data.History, sessionLine(s))
	}
	return views.RenderFocusPanel(data)
}

// historyLimit caps the sessions listed in the Focus panel.
const historyLimit = 5

func sessionLine(s model.FocusSession) string {
	status := "in progress"
	switch {
	case s.Completed:
		status = "completed"
	case s.EndTime != nil:
		status = "stopped early"
	}
	return fmt.Sprintf("%s %d min %s, %s", s.StartTime.Local().Format("Jan 2 15:04"), s.Duration, s.Type, status)
}

func (m Model) renderNotificationsView() string {
	center := m.App.Notifications
	now := time.Now()
	data := views.NotificationsPanelData{Unread: center.UnreadCount()}
	for _, n := range center.List() {
		data.Items = append(data.Items, views.NotificationItemData{
			ID:      n.ID,
			Title:   n.Title,
			Message: n.Message,
			Level:   string(n.Type),
			Read:    n.Read,
			When:    formatAge(n.Timestamp, now),
		})
	}
	if sel, ok := m.selectedNotification(); ok {
		data.SelectedID = sel.ID
	}
	return views.RenderNotificationsPanel(data)
}

func (m Model) loadingIndicator(loading bool) string {
	if !loading {
		return ""
	}
	return m.syncSpinner.View()
}

func taskItemData(t model.Task, now time.Time) views.TaskItemData {
	data := views.TaskItemData{
		ID:       t.ID,
		Title:    t.Title,
		Status:   t.Status.Label(),
		Priority: string(t.Priority),
	}
	if t.DueDate != nil {
		data.Due = t.DueDate.Format("2006-01-02")
		data.Overdue = t.Status != model.TaskStatusDone && t.DueDate.Before(now)
	}
	return data
}
