package update

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/nexusflow/internal/model"
	"github.com/sandeepkv93/nexusflow/internal/state"
)

var transactionFilters = []model.TransactionType{"", model.TransactionIncome, model.TransactionExpense}

func (m Model) handleInventoryKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	n := len(m.visibleInventory())
	switch msg.String() {
	case "j", "down":
		m.Cursor.Inventory = moveCursor(m.Cursor.Inventory, 1, n)
	case "k", "up":
		m.Cursor.Inventory = moveCursor(m.Cursor.Inventory, -1, n)
	case "+", "=":
		cmd := m.adjustSelectedStock(1)
		return m, cmd
	case "-":
		cmd := m.adjustSelectedStock(-1)
		return m, cmd
	case "l":
		m.InventoryFilter.LowStock = !m.InventoryFilter.LowStock
		m.Cursor.Inventory = 0
		m.Status = StatusBar{Text: fmt.Sprintf("low-stock only: %t", m.InventoryFilter.LowStock)}
	case "d":
		item, ok := m.selectedInventory()
		if !ok {
			return m, nil
		}
		inventory, id := m.App.Inventory, item.ID
		m.Status = StatusBar{Text: "deleting item"}
		cmd := m.track(m.mutate(fmt.Sprintf("deleted item: %s", item.Name), func(ctx context.Context) error {
			return inventory.Delete(ctx, id)
		}))
		return m, cmd
	}
	return m, nil
}

func (m *Model) adjustSelectedStock(delta int) tea.Cmd {
	item, ok := m.selectedInventory()
	if !ok {
		return nil
	}
	return m.adjustStock(item, delta)
}

func (m *Model) adjustStock(item model.InventoryItem, delta int) tea.Cmd {
	inventory, id := m.App.Inventory, item.ID
	m.Status = StatusBar{Text: "updating stock"}
	return m.track(m.mutate(fmt.Sprintf("%s stock %+d", item.Name, delta), func(ctx context.Context) error {
		_, err := inventory.AdjustStock(ctx, id, delta)
		return err
	}))
}

func (m Model) handleFinanceKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	n := len(m.visibleTransactions())
	switch msg.String() {
	case "j", "down":
		m.Cursor.Finance = moveCursor(m.Cursor.Finance, 1, n)
	case "k", "up":
		m.Cursor.Finance = moveCursor(m.Cursor.Finance, -1, n)
	case "t":
		m.FinanceFilter.Type = cycle(transactionFilters, m.FinanceFilter.Type)
		m.FinanceFilter.Category = ""
		m.Cursor.Finance = 0
		m.Status = StatusBar{Text: "type filter: " + filterLabel(string(m.FinanceFilter.Type))}
	case "d":
		tx, ok := m.selectedTransaction()
		if !ok {
			return m, nil
		}
		finance, id := m.App.Finance, tx.ID
		m.Status = StatusBar{Text: "deleting transaction"}
		cmd := m.track(m.mutate("deleted transaction", func(ctx context.Context) error {
			if err := finance.Delete(ctx, id); err != nil {
				return err
			}
			_, err := finance.FetchStats(ctx, state.ThisMonth(time.Now()))
			return err
		}))
		return m, cmd
	}
	return m, nil
}

func (m Model) handleNotificationsKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	center := m.App.Notifications
	n := len(center.List())
	switch msg.String() {
	case "j", "down":
		m.Cursor.Notifications = moveCursor(m.Cursor.Notifications, 1, n)
	case "k", "up":
		m.Cursor.Notifications = moveCursor(m.Cursor.Notifications, -1, n)
	case "enter":
		if sel, ok := m.selectedNotification(); ok && center.MarkAsRead(sel.ID) {
			m.Status = StatusBar{Text: "marked as read"}
		}
	case "a":
		center.MarkAllAsRead()
		m.Status = StatusBar{Text: "all notifications read"}
	case "d":
		if sel, ok := m.selectedNotification(); ok && center.Remove(sel.ID) {
			if m.Toast != nil && m.Toast.ID == sel.ID {
				m.Toast = nil
			}
			m.Status = StatusBar{Text: "notification removed"}
		}
	case "c":
		center.ClearAll()
		m.Toast = nil
		m.Cursor.Notifications = 0
		m.Status = StatusBar{Text: "notifications cleared"}
	}
	return m, nil
}
