package state

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/sandeepkv93/nexusflow/internal/focus"
	"github.com/sandeepkv93/nexusflow/internal/model"
	"github.com/sandeepkv93/nexusflow/internal/notify"
	"github.com/sandeepkv93/nexusflow/internal/scheduler"
)

const focusCheckJob = "focus-notification-check"

type Config struct {
	FocusMinutes   int
	BreakMinutes   int
	NotifySchedule string
	EventBuffer    int
	Now            func() time.Time
	Logger         zerolog.Logger
	// Driver ticks the focus timer. Nil uses the scheduler engine.
	Driver focus.Driver
}

type EventKind string

const (
	EventFocus         EventKind = "focus"
	EventNotifications EventKind = "notifications"
)

// Event is what the UI drains from Events: a timer change or a batch of
// newly raised notifications.
type Event struct {
	Kind          EventKind
	Focus         focus.Event
	Notifications []notify.Notification
}

// App owns the stores, the focus timer and the notification center.
type App struct {
	Tasks         *TaskStore
	Inventory     *InventoryStore
	Finance       *FinanceStore
	Focus         *FocusStore
	Notifications *notify.Center

	cfg      Config
	timer    *focus.Timer
	checkJob *scheduler.Handle
	events   chan Event
	dropped  atomic.Uint64
	now      func() time.Time
	log      zerolog.Logger
	closed   sync.Once
}

// NewApp wires the stores to api and schedules the periodic focus check on
// engine. The engine must be started by the caller.
func NewApp(api API, engine *scheduler.Engine, center *notify.Center, cfg Config) (*App, error) {
	if cfg.FocusMinutes <= 0 {
		cfg.FocusMinutes = 25
	}
	if cfg.BreakMinutes <= 0 {
		cfg.BreakMinutes = 5
	}
	if cfg.NotifySchedule == "" {
		cfg.NotifySchedule = "@every 30s"
	}
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = 64
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if center == nil {
		center = notify.NewCenter()
	}
	schedule, err := scheduler.ParseSchedule(cfg.NotifySchedule)
	if err != nil {
		return nil, err
	}

	a := &App{
		Notifications: center,
		cfg:           cfg,
		events:        make(chan Event, cfg.EventBuffer),
		now:           cfg.Now,
		log:           cfg.Logger,
	}
	a.Tasks = newTaskStore(api, func() { a.CheckTasks() })
	a.Inventory = newInventoryStore(api, func() { a.CheckInventory() })
	a.Finance = newFinanceStore(api, func() { a.CheckFinance() })
	a.Focus = newFocusStore(api)

	driver := cfg.Driver
	if driver == nil {
		driver = focus.EngineDriver{Engine: engine}
	}
	a.timer = focus.NewTimer(driver,
		focus.WithRecorder(a.Focus),
		focus.WithClock(cfg.Now),
		focus.WithListener(a.onFocusEvent),
	)
	a.Focus.setTimer(a.timer)

	a.checkJob, err = engine.Schedule(focusCheckJob, schedule, func(time.Time) { a.CheckFocus() })
	if err != nil {
		return nil, fmt.Errorf("schedule focus check: %w", err)
	}
	return a, nil
}

// Events delivers timer changes and new notifications. Sends never block;
// events are dropped when the buffer is full.
func (a *App) Events() <-chan Event {
	return a.events
}

func (a *App) Dropped() uint64 {
	return a.dropped.Load()
}

func (a *App) Timer() *focus.Timer {
	return a.timer
}

// Refresh fetches every store and the stats.
func (a *App) Refresh(ctx context.Context) error {
	return errors.Join(
		a.Tasks.Fetch(ctx),
		a.Inventory.Fetch(ctx),
		a.Finance.Fetch(ctx),
		a.Focus.Fetch(ctx),
		a.RefreshStats(ctx),
	)
}

// RefreshStats fetches today's focus stats and this month's finance stats.
func (a *App) RefreshStats(ctx context.Context) error {
	now := a.now()
	_, focusErr := a.Focus.FetchStats(ctx, Today(now))
	_, financeErr := a.Finance.FetchStats(ctx, ThisMonth(now))
	return errors.Join(focusErr, financeErr)
}

// Today spans the calendar day of now, in now's location.
func Today(now time.Time) model.DateRange {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return model.DateRange{StartDate: start, EndDate: start.AddDate(0, 0, 1).Add(-time.Nanosecond)}
}

// ThisMonth spans the calendar month of now, in now's location.
func ThisMonth(now time.Time) model.DateRange {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return model.DateRange{StartDate: start, EndDate: start.AddDate(0, 1, 0).Add(-time.Nanosecond)}
}

func (a *App) CheckTasks() []notify.Notification {
	return a.raise(notify.TaskRules(a.Tasks.Items(), a.now()))
}

func (a *App) CheckFinance() []notify.Notification {
	return a.raise(notify.FinanceRules(a.Finance.Items(), a.now()))
}

func (a *App) CheckInventory() []notify.Notification {
	return a.raise(notify.InventoryRules(a.Inventory.Items()))
}

// CheckFocus warns when the running session is about to end.
func (a *App) CheckFocus() []notify.Notification {
	snap := a.timer.Snapshot()
	if !snap.IsActive() {
		return nil
	}
	return a.raise(notify.FocusRules(snap.Session, time.Duration(snap.TimeLeft)*time.Second))
}

func (a *App) StartFocus(ctx context.Context, minutes int, typ model.FocusType) (focus.Snapshot, error) {
	return a.timer.Start(ctx, minutes, typ)
}

// StartDefault starts a session with the configured focus or break length.
func (a *App) StartDefault(ctx context.Context, typ model.FocusType) (focus.Snapshot, error) {
	minutes := a.cfg.FocusMinutes
	if typ == model.FocusTypeBreak {
		minutes = a.cfg.BreakMinutes
	}
	return a.timer.Start(ctx, minutes, typ)
}

func (a *App) StartPreset(ctx context.Context, name string) (focus.Snapshot, error) {
	p, err := a.Focus.FindPreset(name)
	if err != nil {
		return focus.Snapshot{}, err
	}
	return a.timer.Start(ctx, p.Duration, p.Type)
}

// Close cancels the focus check and stops an active session so its elapsed
// time is recorded.
func (a *App) Close(ctx context.Context) error {
	var err error
	a.closed.Do(func() {
		if a.checkJob != nil {
			a.checkJob.Cancel()
		}
		if _, stopErr := a.timer.Stop(ctx); stopErr != nil && !errors.Is(stopErr, focus.ErrNoSession) {
			err = stopErr
		}
	})
	return err
}

func (a *App) onFocusEvent(ev focus.Event) {
	if ev.Type == focus.EventCompleted && ev.Snapshot.Last != nil {
		a.raise([]notify.Candidate{notify.FocusComplete(*ev.Snapshot.Last)})
	}
	a.publish(Event{Kind: EventFocus, Focus: ev})
}

func (a *App) raise(cands []notify.Candidate) []notify.Notification {
	inserted := a.Notifications.Apply(cands)
	if len(inserted) > 0 {
		a.log.Debug().Int("count", len(inserted)).Msg("notifications raised")
		a.publish(Event{Kind: EventNotifications, Notifications: inserted})
	}
	return inserted
}

func (a *App) publish(ev Event) {
	select {
	case a.events <- ev:
	default:
		a.dropped.Add(1)
	}
}
