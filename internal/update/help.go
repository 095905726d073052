package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"

	"github.com/sandeepkv93/nexusflow/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

var paletteCommands = []string{
	"/add <title> [due:YYYY-MM-DD] [prio:low|medium|high] [desc:text]",
	"/done <n>",
	"/start <minutes> [focus|break]",
	"/preset <name> | /preset add <name> <minutes> [focus|break] | /preset rm <name>",
	"/expense|/income <amount> <category> [note]",
	"/stock <n> <+/-delta>",
	"/item add <name> [qty:N] [min:N] [price:X] [cat:C] [loc:L] [desc:text]",
	"/item set <n> <field:value>... | /item rm <n>...",
	"/search [text]",
	"/read",
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return m.renderHelpView()
}

func (m Model) renderHelpView() string {
	bindings := m.helpBindings()
	var plain []string
	for _, kb := range m.viewBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		CurrentView: string(m.CurrentView),
		Bindings:    plain,
		Commands:    paletteCommands,
		HelpView: m.helpModel.View(helpKeyMap{
			short: bindings,
			full:  [][]key.Binding{bindings},
		}),
	})
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.Tasks, Action: "switch to Tasks"},
		{Key: m.Keys.Kanban, Action: "switch to Kanban"},
		{Key: m.Keys.Inventory, Action: "switch to Inventory"},
		{Key: m.Keys.Finance, Action: "switch to Finance"},
		{Key: m.Keys.Focus, Action: "switch to Focus"},
		{Key: m.Keys.Notifications, Action: "switch to Notifications"},
		{Key: m.Keys.Dashboard, Action: "switch to Dashboard"},
		{Key: "/", Action: "open command palette"},
		{Key: m.Keys.Refresh, Action: "reload all data"},
		{Key: "D", Action: "cycle density"},
		{Key: "esc", Action: "dismiss notification"},
		{Key: m.Keys.Help, Action: "toggle help panel"},
		{Key: m.Keys.Quit, Action: "quit app"},
	}
}

func (m Model) viewBindings() []KeyBinding {
	switch m.CurrentView {
	case ViewTasks:
		return []KeyBinding{
			{Key: "j/k", Action: "move selection"},
			{Key: "x", Action: "advance status"},
			{Key: "d", Action: "delete task"},
			{Key: "f/p", Action: "cycle status / priority filter"},
			{Key: "pgup/pgdown", Action: "scroll description"},
		}
	case ViewKanban:
		return []KeyBinding{
			{Key: "h/l", Action: "previous/next column"},
			{Key: "j/k", Action: "move within column"},
			{Key: "m/M", Action: "move task forward / back"},
		}
	case ViewInventory:
		return []KeyBinding{
			{Key: "j/k", Action: "move selection"},
			{Key: "+/-", Action: "adjust stock by one"},
			{Key: "l", Action: "toggle low-stock filter"},
			{Key: "d", Action: "delete item"},
		}
	case ViewFinance:
		return []KeyBinding{
			{Key: "j/k", Action: "move selection"},
			{Key: "t", Action: "cycle type filter"},
			{Key: "d", Action: "delete transaction"},
		}
	case ViewFocus:
		return []KeyBinding{
			{Key: "space", Action: "start/pause/resume"},
			{Key: "b", Action: "start a break"},
			{Key: "s", Action: "stop and record"},
		}
	case ViewNotifications:
		return []KeyBinding{
			{Key: "j/k", Action: "move selection"},
			{Key: "enter", Action: "mark as read"},
			{Key: "a", Action: "mark all as read"},
			{Key: "d/c", Action: "remove / clear all"},
		}
	case ViewDashboard:
		return []KeyBinding{
			{Key: "j/k", Action: "move through high-priority tasks"},
			{Key: "enter", Action: "open task in Tasks"},
		}
	default:
		return []KeyBinding{{Key: "-", Action: "no contextual bindings"}}
	}
}

func (m Model) helpBindings() []key.Binding {
	out := make([]key.Binding, 0, len(m.globalBindings())+len(m.viewBindings()))
	for _, kb := range m.globalBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	for _, kb := range m.viewBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
