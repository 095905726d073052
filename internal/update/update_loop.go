package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/nexusflow/internal/focus"
	"github.com/sandeepkv93/nexusflow/internal/state"
	"github.com/sandeepkv93/nexusflow/internal/views"
)

func (m Model) Init() tea.Cmd {
	if m.App == nil {
		return nil
	}
	return tea.Batch(m.refreshCmd(), waitForEventCmd(m.App.Events()))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next.syncBubbleData()
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(typed)
	case tea.WindowSizeMsg:
		m.Width = typed.Width
		return m, nil
	case spinner.TickMsg:
		if m.pending > 0 {
			var cmd tea.Cmd
			m.syncSpinner, cmd = m.syncSpinner.Update(typed)
			return m, cmd
		}
	case SwitchViewMsg:
		if isKnownView(typed.View) {
			m.CurrentView = typed.View
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
		}
		return m, nil
	case RefreshedMsg:
		m.settle()
		if typed.Err != nil {
			m.LastError = typed.Err
			m.Status = StatusBar{Text: "refresh failed: " + typed.Err.Error(), IsError: true}
			return m, nil
		}
		m.Status = StatusBar{Text: "data refreshed"}
		return m, nil
	case MutationMsg:
		m.settle()
		if typed.Err != nil {
			m.LastError = typed.Err
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			return m, nil
		}
		m.Status = StatusBar{Text: typed.Text}
		return m, nil
	case FocusUpdatedMsg:
		m.settle()
		if typed.Err != nil {
			m.LastError = typed.Err
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			return m, nil
		}
		m.Focus = typed.Snapshot
		if typed.Snapshot.Err != nil {
			m.Status = StatusBar{Text: "session not recorded: " + typed.Snapshot.Err.Error(), IsError: true}
			return m, nil
		}
		m.Status = StatusBar{Text: fmt.Sprintf("focus %s", focusStateLabel(typed.Snapshot))}
		return m, nil
	case StatsRefreshedMsg:
		if typed.Err != nil {
			m.LastError = typed.Err
			m.Status = StatusBar{Text: "stats not refreshed: " + typed.Err.Error(), IsError: true}
		}
		return m, nil
	case AppEventMsg:
		m.applyEvent(typed.Event)
		next := waitForEventCmd(m.App.Events())
		if ev := typed.Event; ev.Kind == state.EventFocus &&
			(ev.Focus.Type == focus.EventCompleted || ev.Focus.Type == focus.EventStopped) {
			return m, tea.Batch(next, m.statsCmd())
		}
		return m, next
	}
	return m, nil
}

func (m *Model) applyEvent(ev state.Event) {
	switch ev.Kind {
	case state.EventFocus:
		m.Focus = ev.Focus.Snapshot
		switch ev.Focus.Type {
		case focus.EventCompleted:
			m.Status = StatusBar{Text: "focus session complete"}
		case focus.EventStopped:
			m.Status = StatusBar{Text: "focus session stopped"}
		}
	case state.EventNotifications:
		if len(ev.Notifications) == 0 {
			return
		}
		newest := ev.Notifications[len(ev.Notifications)-1]
		m.Toast = &newest
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.Palette.Active {
		if msg.String() == m.Keys.Help {
			m.HelpVisible = !m.HelpVisible
			return m, nil
		}
		return m.handlePaletteKey(msg)
	}

	switch msg.String() {
	case "/":
		m.Palette.Active = true
		m.Palette.Input = ""
		m.Status = StatusBar{Text: "command palette active"}
		return m, nil
	case m.Keys.Tasks:
		m.CurrentView = ViewTasks
		return m, nil
	case m.Keys.Kanban:
		m.CurrentView = ViewKanban
		return m, nil
	case m.Keys.Inventory:
		m.CurrentView = ViewInventory
		return m, nil
	case m.Keys.Finance:
		m.CurrentView = ViewFinance
		return m, nil
	case m.Keys.Focus:
		m.CurrentView = ViewFocus
		return m, nil
	case m.Keys.Notifications:
		m.CurrentView = ViewNotifications
		return m, nil
	case m.Keys.Dashboard:
		m.CurrentView = ViewDashboard
		return m, nil
	case m.Keys.Help:
		m.HelpVisible = !m.HelpVisible
		if m.HelpVisible {
			m.Status = StatusBar{Text: "help shown"}
		} else {
			m.Status = StatusBar{Text: "help hidden"}
		}
		return m, nil
	case m.Keys.Refresh:
		m.Status = StatusBar{Text: "refreshing"}
		cmd := m.track(m.refreshCmd())
		return m, cmd
	case "D":
		m.cycleDensity()
		return m, nil
	case "esc":
		m.Toast = nil
		return m, nil
	case "ctrl+c", m.Keys.Quit:
		m.Quitting = true
		return m, tea.Quit
	}

	switch m.CurrentView {
	case ViewTasks:
		return m.handleTasksKey(msg)
	case ViewKanban:
		return m.handleKanbanKey(msg)
	case ViewInventory:
		return m.handleInventoryKey(msg)
	case ViewFinance:
		return m.handleFinanceKey(msg)
	case ViewFocus:
		return m.handleFocusKey(msg)
	case ViewNotifications:
		return m.handleNotificationsKey(msg)
	case ViewDashboard:
		return m.handleDashboardKey(msg)
	}
	return m, nil
}

func (m Model) View() string {
	if m.App == nil {
		return "nexusflow: not connected"
	}
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	var left, right string
	switch m.CurrentView {
	case ViewTasks:
		left = m.renderTasksView()
		right = m.renderTaskDetail()
	case ViewKanban:
		left = m.renderKanbanView()
	case ViewInventory:
		left = m.renderInventoryView()
	case ViewFinance:
		left = m.renderFinanceView()
	case ViewFocus:
		left = m.renderFocusView()
	case ViewNotifications:
		left = m.renderNotificationsView()
	case ViewDashboard:
		left = m.renderDashboardView()
	}
	right = strings.TrimSpace(strings.Join([]string{right, m.renderCommandPalette(), m.renderHelpIfVisible()}, "\n\n"))

	header := fmt.Sprintf("nexusflow | view: %s | unread: %d", m.CurrentView, m.App.Notifications.UnreadCount())
	if m.pending > 0 {
		header += " | " + m.syncSpinner.View() + " syncing"
	}
	if snap := m.Focus; snap.IsActive() {
		header += " | focus " + formatDuration(snap.TimeLeft)
	}

	tabs := make([]string, 0, len(allViews))
	for _, v := range allViews {
		tabs = append(tabs, string(v))
	}

	return views.RenderApp(views.AppData{
		Header:       header,
		Tabs:         tabs,
		ActiveTab:    string(m.CurrentView),
		LeftPane:     left,
		RightPane:    right,
		StatusLine:   status,
		StatusError:  m.Status.IsError,
		Notification: m.renderToast(),
		Footer:       fmt.Sprintf("keys: 1-7 views | / cmd | %s refresh | %s help | %s quit", m.Keys.Refresh, m.Keys.Help, m.Keys.Quit),
		Width:        m.Width,
	})
}

func isKnownView(v View) bool {
	for _, known := range allViews {
		if v == known {
			return true
		}
	}
	return false
}

func focusStateLabel(s focus.Snapshot) string {
	switch s.State {
	case focus.StateRunning:
		return "running"
	case focus.StatePaused:
		return "paused"
	case focus.StateCompleted:
		return "complete"
	default:
		return "idle"
	}
}
