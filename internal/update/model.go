package update

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/sandeepkv93/nexusflow/internal/focus"
	"github.com/sandeepkv93/nexusflow/internal/notify"
	"github.com/sandeepkv93/nexusflow/internal/state"
)

type View string

const (
	ViewTasks         View = "Tasks"
	ViewKanban        View = "Kanban"
	ViewInventory     View = "Inventory"
	ViewFinance       View = "Finance"
	ViewFocus         View = "Focus"
	ViewNotifications View = "Notifications"
	ViewDashboard     View = "Dashboard"
)

var allViews = []View{ViewTasks, ViewKanban, ViewInventory, ViewFinance, ViewFocus, ViewNotifications, ViewDashboard}

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Tasks         string
	Kanban        string
	Inventory     string
	Finance       string
	Focus         string
	Notifications string
	Dashboard     string
	Refresh       string
	Help          string
	Quit          string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type KanbanState struct {
	Column int
	Row    int
}

type Cursors struct {
	Tasks         int
	Inventory     int
	Finance       int
	Notifications int
	Dashboard     int
}

type Model struct {
	CurrentView     View
	App             *state.App
	TaskFilter      state.TaskFilter
	InventoryFilter state.InventoryFilter
	FinanceFilter   state.TransactionFilter
	Cursor          Cursors
	Kanban          KanbanState
	Focus           focus.Snapshot
	Toast           *notify.Notification
	Palette         CommandPaletteState
	HelpVisible     bool
	Status          StatusBar
	Keys            GlobalKeyMap
	Quitting        bool
	LastError       error
	Width           int

	ctx     context.Context
	timeout time.Duration
	pending int
	// Bubble components used for rich TUI controls
	taskList       list.Model
	inventoryTable table.Model
	financeTable   table.Model
	commandInput   textinput.Model
	focusProgress  progress.Model
	syncSpinner    spinner.Model
	helpModel      help.Model
	detailViewport viewport.Model
	detailFor      string
	uiDensity      int
}

type RuntimeConfig struct {
	// RequestTimeout bounds every API call started from the UI.
	RequestTimeout time.Duration
	Density        int
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{RequestTimeout: 10 * time.Second, Density: 1}
}

type listItem struct {
	id          string
	title       string
	description string
}

func (i listItem) FilterValue() string { return i.title + " " + i.description }
func (i listItem) Title() string       { return i.title }
func (i listItem) Description() string { return i.description }

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

// AppEventMsg wraps one event drained from the App's event channel.
type AppEventMsg struct {
	Event state.Event
}

type RefreshedMsg struct {
	Err error
}

// MutationMsg reports the outcome of an API call started from the UI.
type MutationMsg struct {
	Text string
	Err  error
}

// StatsRefreshedMsg reports a reload of the focus and finance stats.
type StatsRefreshedMsg struct {
	Err error
}

type FocusUpdatedMsg struct {
	Snapshot focus.Snapshot
	Err      error
}

func NewModel(app *state.App) Model {
	return NewModelWithConfig(context.Background(), app, DefaultRuntimeConfig())
}

func NewModelWithConfig(ctx context.Context, app *state.App, cfg RuntimeConfig) Model {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRuntimeConfig().RequestTimeout
	}
	if cfg.Density < 1 || cfg.Density > 3 {
		cfg.Density = 1
	}
	m := Model{
		CurrentView: ViewTasks,
		App:         app,
		Keys: GlobalKeyMap{
			Tasks:         "1",
			Kanban:        "2",
			Inventory:     "3",
			Finance:       "4",
			Focus:         "5",
			Notifications: "6",
			Dashboard:     "7",
			Refresh:       "R",
			Help:          "?",
			Quit:          "q",
		},
		ctx:       ctx,
		timeout:   cfg.RequestTimeout,
		uiDensity: cfg.Density,
	}
	if app != nil {
		m.Focus = app.Timer().Snapshot()
	}
	m.initBubbleComponents()
	m.syncBubbleData()
	return m
}
