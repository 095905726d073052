package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/sandeepkv93/nexusflow/internal/model"
	"github.com/sandeepkv93/nexusflow/internal/notify"
	"github.com/sandeepkv93/nexusflow/internal/views"
)

func (m *Model) initBubbleComponents() {
	m.taskList = list.New([]list.Item{}, list.NewDefaultDelegate(), 56, 12)
	m.taskList.Title = "Tasks"
	m.taskList.SetShowHelp(false)
	m.taskList.SetFilteringEnabled(false)

	m.inventoryTable = table.New(table.WithColumns([]table.Column{
		{Title: "Name", Width: 20},
		{Title: "Qty", Width: 5},
		{Title: "Min", Width: 5},
		{Title: "Price", Width: 9},
		{Title: "Location", Width: 12},
	}), table.WithRows([]table.Row{}), table.WithFocused(true), table.WithHeight(10))

	m.financeTable = table.New(table.WithColumns([]table.Column{
		{Title: "Date", Width: 10},
		{Title: "Type", Width: 8},
		{Title: "Category", Width: 14},
		{Title: "Amount", Width: 10},
		{Title: "Note", Width: 12},
	}), table.WithRows([]table.Row{}), table.WithFocused(true), table.WithHeight(10))

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.focusProgress = progress.New(progress.WithDefaultGradient())

	m.syncSpinner = spinner.New()
	m.syncSpinner.Spinner = spinner.Dot

	m.helpModel = help.New()
	m.detailViewport = viewport.New(54, 12)
}

// syncBubbleData copies store state into the bubble components after every
// update.
func (m *Model) syncBubbleData() {
	listWidth, listHeight, tableHeight, viewportHeight := densityDimensions(m.uiDensity)
	m.taskList.SetSize(listWidth, listHeight)
	m.inventoryTable.SetHeight(tableHeight)
	m.financeTable.SetHeight(tableHeight)
	m.detailViewport.Height = viewportHeight
	if m.App == nil {
		return
	}

	tasks := m.visibleTasks()
	m.Cursor.Tasks = clampCursor(m.Cursor.Tasks, len(tasks))
	items := make([]list.Item, 0, len(tasks))
	for _, t := range tasks {
		desc := fmt.Sprintf("%s | %s", t.Status.Label(), t.Priority.Label())
		if t.DueDate != nil {
			desc += " | due " + t.DueDate.Format("2006-01-02")
		}
		items = append(items, listItem{id: t.ID, title: t.Title, description: desc})
	}
	m.taskList.SetItems(items)
	if len(items) > 0 {
		m.taskList.Select(m.Cursor.Tasks)
	}

	inventory := m.visibleInventory()
	m.Cursor.Inventory = clampCursor(m.Cursor.Inventory, len(inventory))
	rows := make([]table.Row, 0, len(inventory))
	for _, it := range inventory {
		name := it.Name
		if it.IsLowStock() {
			name = "! " + name
		}
		rows = append(rows, table.Row{name, fmt.Sprint(it.Quantity), fmt.Sprint(it.MinQuantity), formatMoney(it.Price), it.Location})
	}
	m.inventoryTable.SetRows(rows)
	if len(rows) > 0 {
		m.inventoryTable.SetCursor(m.Cursor.Inventory)
	}

	txs := m.visibleTransactions()
	m.Cursor.Finance = clampCursor(m.Cursor.Finance, len(txs))
	rows = make([]table.Row, 0, len(txs))
	for _, tx := range txs {
		amount := formatMoney(tx.Amount)
		if tx.Type == model.TransactionExpense {
			amount = "-" + amount
		}
		rows = append(rows, table.Row{tx.Date.Format("2006-01-02"), string(tx.Type), string(tx.Category), amount, tx.Description})
	}
	m.financeTable.SetRows(rows)
	if len(rows) > 0 {
		m.financeTable.SetCursor(m.Cursor.Finance)
	}

	m.Cursor.Notifications = clampCursor(m.Cursor.Notifications, len(m.App.Notifications.List()))

	if m.commandInput.Value() != m.Palette.Input {
		m.commandInput.SetValue(m.Palette.Input)
	}
	if m.Palette.Active {
		m.commandInput.Focus()
	} else {
		m.commandInput.Blur()
	}

	if t, ok := m.selectedTask(); ok {
		key := t.ID + "\x00" + t.Description
		if key != m.detailFor {
			md := t.Description
			if strings.TrimSpace(md) == "" {
				md = "_No description_"
			}
			m.detailViewport.SetContent(views.RenderMarkdown(md))
			m.detailFor = key
		}
	}

	_ = m.focusProgress.SetPercent(m.Focus.Progress())
}

func densityDimensions(level int) (listWidth int, listHeight int, tableHeight int, viewportHeight int) {
	switch level {
	case 2:
		return 60, 14, 12, 14
	case 3:
		return 64, 16, 14, 16
	default:
		return 56, 12, 10, 12
	}
}

func (m *Model) cycleDensity() {
	m.uiDensity++
	if m.uiDensity > 3 {
		m.uiDensity = 1
	}
	m.Status = StatusBar{Text: fmt.Sprintf("density level: %d", m.uiDensity)}
}

func (m Model) visibleTasks() []model.Task {
	return m.App.Tasks.Filter(m.TaskFilter)
}

func (m Model) visibleInventory() []model.InventoryItem {
	return m.App.Inventory.Filter(m.InventoryFilter)
}

func (m Model) visibleTransactions() []model.Transaction {
	return m.App.Finance.Filter(m.FinanceFilter)
}

func (m Model) selectedTask() (model.Task, bool) {
	tasks := m.visibleTasks()
	if m.Cursor.Tasks < 0 || m.Cursor.Tasks >= len(tasks) {
		return model.Task{}, false
	}
	return tasks[m.Cursor.Tasks], true
}

func (m Model) selectedInventory() (model.InventoryItem, bool) {
	items := m.visibleInventory()
	if m.Cursor.Inventory < 0 || m.Cursor.Inventory >= len(items) {
		return model.InventoryItem{}, false
	}
	return items[m.Cursor.Inventory], true
}

func (m Model) selectedTransaction() (model.Transaction, bool) {
	txs := m.visibleTransactions()
	if m.Cursor.Finance < 0 || m.Cursor.Finance >= len(txs) {
		return model.Transaction{}, false
	}
	return txs[m.Cursor.Finance], true
}

func (m Model) selectedNotification() (notify.Notification, bool) {
	all := m.App.Notifications.List()
	if m.Cursor.Notifications < 0 || m.Cursor.Notifications >= len(all) {
		return notify.Notification{}, false
	}
	return all[m.Cursor.Notifications], true
}

// kanbanColumns returns the board in status order.
func (m Model) kanbanColumns() [][]model.Task {
	board := m.App.Tasks.Kanban()
	cols := make([][]model.Task, len(model.TaskStatuses))
	for i, s := range model.TaskStatuses {
		cols[i] = board[s]
	}
	return cols
}

func (m Model) selectedKanbanTask() (model.Task, bool) {
	cols := m.kanbanColumns()
	if m.Kanban.Column < 0 || m.Kanban.Column >= len(cols) {
		return model.Task{}, false
	}
	col := cols[m.Kanban.Column]
	if m.Kanban.Row < 0 || m.Kanban.Row >= len(col) {
		return model.Task{}, false
	}
	return col[m.Kanban.Row], true
}
