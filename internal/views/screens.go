package views

import (
	"fmt"
	"strings"
)

type TaskItemData struct {
	ID       string
	Title    string
	Status   string
	Priority string
	Due      string
	Overdue  bool
}

type TasksPanelData struct {
	ListView string
	Filter   string
	Total    int
	Shown    int
	Loading  string
	Err      string
}

type TaskDetailData struct {
	Task            *TaskItemData
	DescriptionView string
}

type KanbanColumnData struct {
	Title string
	Items []TaskItemData
}

type KanbanPanelData struct {
	Columns    []KanbanColumnData
	Column     int
	SelectedID string
}

type InventoryPanelData struct {
	TableView  string
	Filter     string
	TotalValue string
	LowStock   int
	Loading    string
	Err        string
}

type FinancePanelData struct {
	TableView string
	Filter    string
	Income    string
	Expenses  string
	Balance   string
	Negative  bool
	// Month summarizes the server's stats for the current month and
	// Categories lists its expense categories, largest first.
	Month      string
	Categories []string
	Loading    string
	Err        string
}

type FocusPanelData struct {
	Type         string
	State        string
	Timer        string
	ProgressView string
	ProgressPct  int
	Presets      []string
	LastSession  string
	Today        string
	History      []string
	Err          string
}

type DashboardPanelData struct {
	Tasks          int
	InProgress     int
	Done           int
	Overdue        int
	Items          int
	LowStock       int
	InventoryValue string
	Income         string
	Expenses       string
	Balance        string
	Negative       bool
	FocusToday     string
	Unread         int
	HighPriority   []TaskItemData
	SelectedID     string
	LowStockItems  []string
	Loading        string
	Err            string
}

type NotificationItemData struct {
	ID      string
	Title   string
	Message string
	Level   string
	Read    bool
	When    string
}

type NotificationsPanelData struct {
	Items      []NotificationItemData
	SelectedID string
	Unread     int
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	Commands    []string
	HelpView    string
}

func RenderTasksPanel(data TasksPanelData) string {
	var b strings.Builder
	b.WriteString("tasks:\n")
	b.WriteString(fmt.Sprintf("showing %d of %d", data.Shown, data.Total))
	if data.Filter != "" {
		b.WriteString(" | filter: " + data.Filter)
	}
	b.WriteString("\n")
	writeLoadState(&b, data.Loading, data.Err)
	b.WriteString("actions: [j/k]move [x]advance [d]delete [f]status [p]priority\n")
	if data.Shown == 0 {
		b.WriteString(mutedStyle.Render("(no tasks)"))
		return strings.TrimSpace(b.String())
	}
	b.WriteString(data.ListView)
	return strings.TrimSpace(b.String())
}

func RenderTaskDetail(data TaskDetailData) string {
	if data.Task == nil {
		return "details:\n(no selection)"
	}
	t := data.Task
	var b strings.Builder
	b.WriteString("details:\n")
	b.WriteString(fmt.Sprintf("title: %s\n", t.Title))
	b.WriteString(fmt.Sprintf("status: %s | priority: %s\n", t.Status, priorityBadge(t.Priority)))
	if t.Due != "" {
		due := "due: " + t.Due
		if t.Overdue {
			due = errorStyle.Render(due + " (overdue)")
		}
		b.WriteString(due + "\n")
	}
	b.WriteString("\n" + data.DescriptionView)
	return strings.TrimSpace(b.String())
}

func RenderKanbanPanel(data KanbanPanelData) string {
	var b strings.Builder
	b.WriteString("kanban:\n")
	b.WriteString("actions: [h/l]column [j/k]move [m]advance [M]move back\n")
	for i, col := range data.Columns {
		title := fmt.Sprintf("%s (%d)", strings.ToUpper(col.Title), len(col.Items))
		if i == data.Column {
			title = headerStyle.Render("> " + title)
		}
		b.WriteString("\n" + title + "\n")
		if len(col.Items) == 0 {
			b.WriteString(mutedStyle.Render("  (empty)") + "\n")
			continue
		}
		for _, item := range col.Items {
			cursor := " "
			if item.ID == data.SelectedID {
				cursor = ">"
			}
			b.WriteString(fmt.Sprintf("%s %s %s\n", cursor, priorityBadge(item.Priority), item.Title))
		}
	}
	return strings.TrimSpace(b.String())
}

func RenderInventoryPanel(data InventoryPanelData) string {
	var b strings.Builder
	b.WriteString("inventory:\n")
	b.WriteString(fmt.Sprintf("total value: %s", data.TotalValue))
	if data.LowStock > 0 {
		b.WriteString(" | " + warningStyle.Render(fmt.Sprintf("low stock: %d", data.LowStock)))
	}
	if data.Filter != "" {
		b.WriteString(" | filter: " + data.Filter)
	}
	b.WriteString("\n")
	writeLoadState(&b, data.Loading, data.Err)
	b.WriteString("actions: [j/k]move [+/-]stock [l]low-stock [d]delete\n")
	b.WriteString(data.TableView)
	return strings.TrimSpace(b.String())
}

func RenderFinancePanel(data FinancePanelData) string {
	var b strings.Builder
	b.WriteString("finance:\n")
	balance := incomeStyle.Render(data.Balance)
	if data.Negative {
		balance = errorStyle.Render(data.Balance)
	}
	b.WriteString(fmt.Sprintf("income: %s | expenses: %s | balance: %s\n", data.Income, data.Expenses, balance))
	if data.Filter != "" {
		b.WriteString("filter: " + data.Filter + "\n")
	}
	if data.Month != "" {
		b.WriteString("this month: " + data.Month + "\n")
	}
	if len(data.Categories) > 0 {
		b.WriteString("top expenses: " + strings.Join(data.Categories, ", ") + "\n")
	}
	writeLoadState(&b, data.Loading, data.Err)
	b.WriteString("actions: [j/k]move [t]type filter [d]delete\n")
	b.WriteString(data.TableView)
	return strings.TrimSpace(b.String())
}

func RenderFocusPanel(data FocusPanelData) string {
	var b strings.Builder
	b.WriteString("focus:\n")
	b.WriteString(fmt.Sprintf("session: %s | state: %s\n", strings.ToUpper(data.Type), data.State))
	b.WriteString(fmt.Sprintf("timer: %s\n", data.Timer))
	b.WriteString(fmt.Sprintf("progress: %s %d%%\n", data.ProgressView, data.ProgressPct))
	if data.LastSession != "" {
		b.WriteString("last: " + data.LastSession + "\n")
	}
	if data.Err != "" {
		b.WriteString(errorStyle.Render("error: "+data.Err) + "\n")
	}
	if data.Today != "" {
		b.WriteString("today: " + data.Today + "\n")
	}
	b.WriteString("actions: [space]start/pause [b]break [s]stop\n")
	if len(data.Presets) > 0 {
		b.WriteString("\npresets (/preset <name>, /preset add|rm):\n")
		for _, p := range data.Presets {
			b.WriteString("- " + p + "\n")
		}
	}
	if len(data.History) > 0 {
		b.WriteString("\nhistory:\n")
		for _, h := range data.History {
			b.WriteString("- " + h + "\n")
		}
	}
	return strings.TrimSpace(b.String())
}

func RenderDashboardPanel(data DashboardPanelData) string {
	var b strings.Builder
	b.WriteString("dashboard:\n")
	writeLoadState(&b, data.Loading, data.Err)
	tasks := fmt.Sprintf("tasks: %d | in progress: %d | done: %d", data.Tasks, data.InProgress, data.Done)
	if data.Overdue > 0 {
		tasks += " | " + errorStyle.Render(fmt.Sprintf("overdue: %d", data.Overdue))
	}
	b.WriteString(tasks + "\n")
	stock := fmt.Sprintf("inventory: %d items worth %s", data.Items, data.InventoryValue)
	if data.LowStock > 0 {
		stock += " | " + warningStyle.Render(fmt.Sprintf("low stock: %d", data.LowStock))
	}
	b.WriteString(stock + "\n")
	balance := incomeStyle.Render(data.Balance)
	if data.Negative {
		balance = errorStyle.Render(data.Balance)
	}
	b.WriteString(fmt.Sprintf("this month: income %s | expenses %s | balance %s\n", data.Income, data.Expenses, balance))
	b.WriteString("focus today: " + data.FocusToday + "\n")
	b.WriteString(fmt.Sprintf("unread notifications: %d\n", data.Unread))
	b.WriteString("actions: [j/k]move [enter]open task\n")

	b.WriteString("\nhigh priority:\n")
	if len(data.HighPriority) == 0 {
		b.WriteString(mutedStyle.Render("  (none open)") + "\n")
	}
	for _, t := range data.HighPriority {
		cursor := " "
		if t.ID == data.SelectedID {
			cursor = ">"
		}
		line := fmt.Sprintf("%s %s %s (%s)", cursor, priorityBadge(t.Priority), t.Title, t.Status)
		if t.Due != "" {
			line += " due " + t.Due
		}
		if t.Overdue {
			line = errorStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\nlow stock:\n")
	if len(data.LowStockItems) == 0 {
		b.WriteString(mutedStyle.Render("  (all stocked)") + "\n")
	}
	for _, it := range data.LowStockItems {
		b.WriteString("- " + warningStyle.Render(it) + "\n")
	}
	return strings.TrimSpace(b.String())
}

func RenderNotificationsPanel(data NotificationsPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("notifications: %d unread\n", data.Unread))
	b.WriteString("actions: [j/k]move [enter]read [a]read all [d]remove [c]clear\n")
	if len(data.Items) == 0 {
		b.WriteString(mutedStyle.Render("(nothing to report)"))
		return strings.TrimSpace(b.String())
	}
	for _, n := range data.Items {
		cursor := " "
		if n.ID == data.SelectedID {
			cursor = ">"
		}
		line := fmt.Sprintf("%s %s %s: %s (%s)", cursor, levelBadge(n.Level), n.Title, n.Message, n.When)
		if n.Read {
			line = mutedStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimSpace(b.String())
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: %s", input)
}

// RenderNotification is the one-line toast for the newest notification.
func RenderNotification(level string, title string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("notification: %s %s: %s", levelBadge(level), title, body)
}

func RenderHelpPanel(data HelpPanelData) string {
	out := fmt.Sprintf("help:\n%s view:\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
	if len(data.Commands) > 0 {
		out += "\ncommands:\n" + strings.Join(data.Commands, "\n")
	}
	return out
}

func writeLoadState(b *strings.Builder, loading string, err string) {
	if loading != "" {
		b.WriteString(loading + " loading\n")
	}
	if err != "" {
		b.WriteString(errorStyle.Render("error: "+err) + "\n")
	}
}

func priorityBadge(priority string) string {
	switch strings.ToUpper(priority) {
	case "HIGH":
		return errorStyle.Render("[HIGH]")
	case "MEDIUM":
		return warningStyle.Render("[MED]")
	default:
		return mutedStyle.Render("[LOW]")
	}
}

func levelBadge(level string) string {
	switch level {
	case "critical":
		return errorStyle.Render("[CRITICAL]")
	case "warning":
		return warningStyle.Render("[WARNING]")
	default:
		return statusStyle.Render("[INFO]")
	}
}
