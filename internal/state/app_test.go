package state

import (
	"context"
	"errors"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandeepkv93/nexusflow/internal/client"
	"github.com/sandeepkv93/nexusflow/internal/focus"
	"github.com/sandeepkv93/nexusflow/internal/httpapi"
	"github.com/sandeepkv93/nexusflow/internal/model"
	"github.com/sandeepkv93/nexusflow/internal/notify"
	"github.com/sandeepkv93/nexusflow/internal/scheduler"
	"github.com/sandeepkv93/nexusflow/internal/service"
	"github.com/sandeepkv93/nexusflow/internal/storage"
)

type manualDriver struct {
	ticks []func()
}

type manualHandle struct{}

func (manualHandle) Cancel() {}

func (d *manualDriver) Every(_ time.Duration, tick func()) (focus.Handle, error) {
	d.ticks = append(d.ticks, tick)
	return manualHandle{}, nil
}

func (d *manualDriver) fire(n int) {
	tick := d.ticks[len(d.ticks)-1]
	for i := 0; i < n; i++ {
		tick()
	}
}

func newClient(t *testing.T) *client.Client {
	t.Helper()
	repo, err := storage.Open("sqlite://" + filepath.Join(t.TempDir(), "state-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	require.NoError(t, repo.MigrateUp())

	srv := httptest.NewServer(httpapi.NewRouter(service.New(repo), httpapi.Options{Logger: zerolog.Nop()}))
	t.Cleanup(srv.Close)
	return client.New(client.Config{BaseURL: srv.URL, Timeout: 5 * time.Second})
}

type fixture struct {
	app    *App
	engine *scheduler.Engine
	driver *manualDriver
}

func newFixture(t *testing.T, api API, mutate func(*Config)) fixture {
	t.Helper()
	engine := scheduler.NewEngine()
	engine.Start()
	t.Cleanup(engine.Stop)

	driver := &manualDriver{}
	cfg := Config{Driver: driver, NotifySchedule: "@every 1h", Logger: zerolog.Nop()}
	if mutate != nil {
		mutate(&cfg)
	}
	app, err := NewApp(api, engine, notify.NewCenter(), cfg)
	require.NoError(t, err)
	return fixture{app: app, engine: engine, driver: driver}
}

func TestExpenseUpdatesTotals(t *testing.T) {
	f := newFixture(t, newClient(t), nil)
	ctx := context.Background()
	require.NoError(t, f.app.Refresh(ctx))

	incomeBefore := f.app.Finance.IncomeTotal()
	balanceBefore := f.app.Finance.Balance()
	expenseBefore := f.app.Finance.ExpenseTotal()

	_, err := f.app.Finance.Create(ctx, model.TransactionInput{
		Type:     model.TransactionExpense,
		Amount:   50,
		Category: model.CategoryFood,
		Date:     time.Now(),
	})
	require.NoError(t, err)

	assert.InDelta(t, expenseBefore+50, f.app.Finance.ExpenseTotal(), 0.001)
	assert.InDelta(t, balanceBefore-50, f.app.Finance.Balance(), 0.001)
	assert.InDelta(t, incomeBefore, f.app.Finance.IncomeTotal(), 0.001)
	assert.Len(t, f.app.Finance.Filter(TransactionFilter{Type: model.TransactionExpense}), 1)
	assert.Empty(t, f.app.Finance.Filter(TransactionFilter{Category: model.CategorySalary}))
}

func TestOverdueTaskRaisesOneCriticalNotification(t *testing.T) {
	f := newFixture(t, newClient(t), nil)
	ctx := context.Background()

	yesterday := time.Now().Add(-24 * time.Hour)
	task, err := f.app.Tasks.Create(ctx, model.TaskInput{
		Title:    "Submit expenses",
		Status:   model.TaskStatusTodo,
		Priority: model.PriorityMedium,
		DueDate:  &yesterday,
	})
	require.NoError(t, err)

	require.NoError(t, f.app.Tasks.Fetch(ctx))
	f.app.CheckTasks()

	list := f.app.Notifications.List()
	require.Len(t, list, 1)
	assert.Equal(t, "task-overdue-"+task.ID, list[0].Key)
	assert.Equal(t, notify.LevelCritical, list[0].Type)

	select {
	case ev := <-f.app.Events():
		assert.Equal(t, EventNotifications, ev.Kind)
		require.Len(t, ev.Notifications, 1)
	default:
		t.Fatal("expected a notifications event")
	}
}

func TestTaskStoreFilterAndKanban(t *testing.T) {
	f := newFixture(t, newClient(t), nil)
	ctx := context.Background()

	for _, in := range []model.TaskInput{
		{Title: "Draft budget", Description: "quarterly numbers", Status: model.TaskStatusTodo, Priority: model.PriorityHigh},
		{Title: "Review PR", Status: model.TaskStatusInProgress, Priority: model.PriorityLow},
		{Title: "Ship release", Status: model.TaskStatusDone, Priority: model.PriorityHigh},
	} {
		_, err := f.app.Tasks.Create(ctx, in)
		require.NoError(t, err)
	}

	assert.Len(t, f.app.Tasks.Filter(TaskFilter{Search: "QUARTERLY"}), 1)
	assert.Len(t, f.app.Tasks.Filter(TaskFilter{Priority: model.PriorityHigh}), 2)
	assert.Len(t, f.app.Tasks.Filter(TaskFilter{Status: model.TaskStatusDone, Priority: model.PriorityHigh}), 1)

	board := f.app.Tasks.Kanban()
	assert.Len(t, board[model.TaskStatusTodo], 1)
	assert.Len(t, board[model.TaskStatusInProgress], 1)
	assert.Len(t, board[model.TaskStatusDone], 1)

	items := f.app.Tasks.Items()
	require.NoError(t, f.app.Tasks.Delete(ctx, items[0].ID))
	assert.Len(t, f.app.Tasks.Items(), 2)
	assert.Empty(t, f.app.Tasks.Err())
}

func TestInventoryNegativeStockRejected(t *testing.T) {
	f := newFixture(t, newClient(t), nil)
	ctx := context.Background()

	item, err := f.app.Inventory.Create(ctx, model.InventoryInput{
		Name: "Printer paper", Quantity: 3, MinQuantity: 2, Price: 5, Category: "office_supplies", Location: "Closet",
	})
	require.NoError(t, err)

	_, err = f.app.Inventory.AdjustStock(ctx, item.ID, -5)
	require.Error(t, err)
	assert.NotEmpty(t, f.app.Inventory.Err())
	assert.Equal(t, 3, f.app.Inventory.Items()[0].Quantity)

	updated, err := f.app.Inventory.AdjustStock(ctx, item.ID, -1)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Quantity)
	assert.Empty(t, f.app.Inventory.Err())

	low := f.app.Inventory.Filter(InventoryFilter{LowStock: true})
	require.Len(t, low, 1)
	assert.Len(t, f.app.Inventory.Filter(InventoryFilter{Search: "closet"}), 1)
	assert.Empty(t, f.app.Inventory.Filter(InventoryFilter{Category: "kitchen"}))
	assert.InDelta(t, 10, f.app.Inventory.TotalValue(), 0.001)

	var keys []string
	for _, n := range f.app.Notifications.List() {
		keys = append(keys, n.Key)
	}
	assert.Contains(t, keys, "inventory-low-stock-"+item.ID)
}

type flakyAPI struct {
	API
	fail bool
}

func (f *flakyAPI) ListTasks(ctx context.Context, status model.TaskStatus) ([]model.Task, error) {
	if f.fail {
		return nil, &client.APIError{Status: 500, Code: "INTERNAL_ERROR", Message: "Failed to fetch tasks"}
	}
	return f.API.ListTasks(ctx, status)
}

func TestFetchFailureSemantics(t *testing.T) {
	api := &flakyAPI{API: newClient(t), fail: true}
	f := newFixture(t, api, nil)
	ctx := context.Background()

	require.Error(t, f.app.Tasks.Fetch(ctx))
	assert.Empty(t, f.app.Tasks.Items())
	assert.Equal(t, "Failed to fetch tasks", f.app.Tasks.Err())
	assert.False(t, f.app.Tasks.Loading())

	api.fail = false
	_, err := f.app.Tasks.Create(ctx, model.TaskInput{Title: "Keep me", Status: model.TaskStatusTodo, Priority: model.PriorityLow})
	require.NoError(t, err)
	require.NoError(t, f.app.Tasks.Fetch(ctx))
	require.Len(t, f.app.Tasks.Items(), 1)

	api.fail = true
	require.Error(t, f.app.Tasks.Fetch(ctx))
	assert.Len(t, f.app.Tasks.Items(), 1, "a failed reload keeps prior data")
	assert.Equal(t, "Failed to fetch tasks", f.app.Tasks.Err())
}

func TestFocusTimerRecordsThroughStore(t *testing.T) {
	f := newFixture(t, newClient(t), nil)
	ctx := context.Background()
	require.NoError(t, f.app.Focus.Fetch(ctx))

	snap, err := f.app.StartFocus(ctx, 1, model.FocusTypeFocus)
	require.NoError(t, err)
	require.NotNil(t, snap.Session)
	require.NotEmpty(t, snap.Session.ID)
	require.Len(t, f.app.Focus.Sessions(), 1)

	_, err = f.app.StartDefault(ctx, model.FocusTypeBreak)
	assert.ErrorIs(t, err, focus.ErrSessionActive)

	inserted := f.app.CheckFocus()
	require.Len(t, inserted, 1)
	assert.Equal(t, "focus-ending-"+snap.Session.ID, inserted[0].Key)

	f.driver.fire(60)
	sessions := f.app.Focus.Sessions()
	require.Len(t, sessions, 1)
	assert.True(t, sessions[0].Completed)
	assert.NotNil(t, sessions[0].EndTime)
	assert.Equal(t, 1, sessions[0].Duration)

	var keys []string
	for _, n := range f.app.Notifications.List() {
		keys = append(keys, n.Key)
	}
	assert.Contains(t, keys, "focus-complete-"+snap.Session.ID)
	assert.Nil(t, f.app.CheckFocus(), "nothing is running")
}

func TestRefreshStatsCoversTodayAndThisMonth(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	f := newFixture(t, newClient(t), func(c *Config) { c.Now = func() time.Time { return now } })
	ctx := context.Background()

	for _, in := range []model.TransactionInput{
		{Type: model.TransactionIncome, Amount: 1000, Category: model.CategorySalary, Date: now},
		{Type: model.TransactionExpense, Amount: 200, Category: model.CategoryFood, Date: now.Add(time.Hour)},
		{Type: model.TransactionExpense, Amount: 50, Category: model.CategoryFood, Date: now.AddDate(0, -1, 0)},
	} {
		_, err := f.app.Finance.Create(ctx, in)
		require.NoError(t, err)
	}
	_, err := f.app.StartFocus(ctx, 1, model.FocusTypeFocus)
	require.NoError(t, err)
	f.driver.fire(60)

	require.NoError(t, f.app.RefreshStats(ctx))
	assert.Equal(t, model.FocusStats{TotalSessions: 1, TotalFocusTime: 1, CompletedSessions: 1}, f.app.Focus.Stats())

	stats := f.app.Finance.Stats()
	assert.InDelta(t, 1000, stats.TotalIncome, 0.001)
	assert.InDelta(t, 200, stats.TotalExpenses, 0.001, "last month's expense is outside the range")
	assert.InDelta(t, 200, stats.ByCategory[model.CategoryFood], 0.001)
}

func TestTodayAndThisMonth(t *testing.T) {
	now := time.Date(2026, 2, 14, 18, 30, 0, 0, time.UTC)
	day := Today(now)
	assert.Equal(t, time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC), day.StartDate)
	assert.True(t, day.Contains(time.Date(2026, 2, 14, 23, 59, 59, 0, time.UTC)))
	assert.False(t, day.Contains(time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)))

	month := ThisMonth(now)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), month.StartDate)
	assert.True(t, month.Contains(time.Date(2026, 2, 28, 12, 0, 0, 0, time.UTC)))
	assert.False(t, month.Contains(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))
}

func TestStopDiscardsBreakOnServer(t *testing.T) {
	f := newFixture(t, newClient(t), nil)
	ctx := context.Background()

	_, err := f.app.StartDefault(ctx, model.FocusTypeBreak)
	require.NoError(t, err)
	f.driver.fire(30)
	_, err = f.app.Timer().Stop(ctx)
	require.NoError(t, err)
	assert.Empty(t, f.app.Focus.Sessions())

	require.NoError(t, f.app.Focus.Fetch(ctx))
	assert.Empty(t, f.app.Focus.Sessions())
}

func TestStartPreset(t *testing.T) {
	f := newFixture(t, newClient(t), nil)
	ctx := context.Background()
	require.NoError(t, f.app.Focus.Fetch(ctx))
	require.NotEmpty(t, f.app.Focus.Presets())

	preset := f.app.Focus.Presets()[0]
	snap, err := f.app.StartPreset(ctx, preset.Name)
	require.NoError(t, err)
	assert.Equal(t, preset.Duration*60, snap.TimeLeft)

	_, err = f.app.StartPreset(ctx, "no such preset")
	require.Error(t, err)
}

func TestCloseCancelsFocusCheck(t *testing.T) {
	f := newFixture(t, newClient(t), nil)
	require.Equal(t, 1, f.engine.Pending())

	_, err := f.app.StartFocus(context.Background(), 10, model.FocusTypeFocus)
	require.NoError(t, err)
	f.driver.fire(120)

	require.NoError(t, f.app.Close(context.Background()))
	assert.Equal(t, 0, f.engine.Pending())
	assert.Equal(t, focus.StateIdle, f.app.Timer().Snapshot().State)

	sessions := f.app.Focus.Sessions()
	require.Len(t, sessions, 1)
	assert.Equal(t, 2, sessions[0].Duration, "elapsed minutes are recorded")
	assert.False(t, sessions[0].Completed)

	require.NoError(t, f.app.Close(context.Background()), "close is idempotent")
}

func TestEventsDropWhenFull(t *testing.T) {
	f := newFixture(t, newClient(t), func(c *Config) { c.EventBuffer = 1 })

	_, err := f.app.StartFocus(context.Background(), 5, model.FocusTypeFocus)
	require.NoError(t, err)
	f.driver.fire(3)

	assert.Len(t, f.app.Events(), 1)
	assert.Equal(t, uint64(3), f.app.Dropped())
}

func TestNewAppRejectsBadSchedule(t *testing.T) {
	engine := scheduler.NewEngine()
	_, err := NewApp(newClient(t), engine, nil, Config{NotifySchedule: "sometimes"})
	assert.True(t, errors.Is(err, scheduler.ErrInvalidSchedule))
}
