// Package focus implements the focus timer: a countdown that records a focus
// or break session when it starts and when it ends.
package focus

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sandeepkv93/nexusflow/internal/model"
)

var (
	ErrSessionActive   = errors.New("focus: a session is already active")
	ErrNotRunning      = errors.New("focus: timer is not running")
	ErrNotPaused       = errors.New("focus: timer is not paused")
	ErrNoSession       = errors.New("focus: no active session")
	ErrInvalidDuration = errors.New("focus: duration must be positive")
)

type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StatePaused    State = "paused"
	StateCompleted State = "completed"
)

// Handle cancels a periodic tick started by a Driver.
type Handle interface {
	Cancel()
}

// Driver calls tick every interval until the returned handle is cancelled.
type Driver interface {
	Every(interval time.Duration, tick func()) (Handle, error)
}

// Recorder persists the session behind the timer.
type Recorder interface {
	StartSession(ctx context.Context, in model.FocusSessionInput) (model.FocusSession, error)
	FinishSession(ctx context.Context, id string, patch model.FocusSessionPatch) (model.FocusSession, error)
	DiscardSession(ctx context.Context, id string) error
}

type EventType string

const (
	EventStarted   EventType = "started"
	EventTicked    EventType = "ticked"
	EventPaused    EventType = "paused"
	EventResumed   EventType = "resumed"
	EventCompleted EventType = "completed"
	EventStopped   EventType = "stopped"
)

type Event struct {
	Type     EventType
	Snapshot Snapshot
}

// Snapshot is a copy of the timer state. Session is the active session, Last
// the most recently finished one.
type Snapshot struct {
	State    State
	TimeLeft int
	Session  *model.FocusSession
	Last     *model.FocusSession
	Err      error
}

func (s Snapshot) IsActive() bool {
	return s.State == StateRunning
}

// Progress is the elapsed fraction of the active session in [0, 1].
func (s Snapshot) Progress() float64 {
	if s.Session == nil || s.Session.Duration <= 0 {
		return 0
	}
	total := float64(s.Session.Duration * 60)
	return (total - float64(s.TimeLeft)) / total
}

type Option func(*Timer)

func WithRecorder(r Recorder) Option {
	return func(t *Timer) { t.recorder = r }
}

func WithClock(now func() time.Time) Option {
	return func(t *Timer) { t.now = now }
}

// WithListener is called after every state change, outside the timer lock.
func WithListener(fn func(Event)) Option {
	return func(t *Timer) { t.listener = fn }
}

func WithRecordTimeout(d time.Duration) Option {
	return func(t *Timer) { t.recordTimeout = d }
}

type Timer struct {
	mu            sync.Mutex
	driver        Driver
	recorder      Recorder
	listener      func(Event)
	now           func() time.Time
	recordTimeout time.Duration

	state      State
	session    *model.FocusSession
	last       *model.FocusSession
	timeLeft   int
	handle     Handle
	generation uint64
	starting   bool
	lastErr    error
}

func NewTimer(driver Driver, opts ...Option) *Timer {
	t := &Timer{
		driver:        driver,
		now:           time.Now,
		recordTimeout: 10 * time.Second,
		state:         StateIdle,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Timer) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

// Start begins a session of the given length in minutes.
func (t *Timer) Start(ctx context.Context, minutes int, typ model.FocusType) (Snapshot, error) {
	if minutes <= 0 {
		return Snapshot{}, fmt.Errorf("%w: %d", ErrInvalidDuration, minutes)
	}
	if !typ.IsValid() {
		return Snapshot{}, fmt.Errorf("%w: %q", model.ErrInvalidFocusType, typ)
	}

	t.mu.Lock()
	if t.state == StateRunning || t.state == StatePaused || t.starting {
		t.mu.Unlock()
		return Snapshot{}, ErrSessionActive
	}
	t.starting = true
	t.mu.Unlock()

	// The recorder may be a network call, so it runs without the lock.
	start := t.now()
	session := model.FocusSession{Duration: minutes, StartTime: start, Type: typ}
	var recErr error
	if t.recorder != nil {
		rec, err := t.recorder.StartSession(ctx, model.FocusSessionInput{Duration: minutes, StartTime: start, Type: typ})
		if err != nil {
			recErr = fmt.Errorf("record session start: %w", err)
		} else {
			session = rec
		}
	}

	t.mu.Lock()
	t.starting = false
	if err := t.startDriverLocked(); err != nil {
		t.mu.Unlock()
		return Snapshot{}, err
	}
	t.lastErr = recErr
	t.session = &session
	t.timeLeft = minutes * 60
	t.state = StateRunning
	snap := t.snapshotLocked()
	t.mu.Unlock()

	t.emit(EventStarted, snap)
	return snap, nil
}

// Tick advances the running timer by one second.
func (t *Timer) Tick() {
	t.mu.Lock()
	gen := t.generation
	t.mu.Unlock()
	t.tick(gen)
}

func (t *Timer) tick(gen uint64) {
	t.mu.Lock()
	if gen != t.generation || t.state != StateRunning {
		t.mu.Unlock()
		return
	}
	if t.timeLeft > 0 {
		t.timeLeft--
	}
	if t.timeLeft > 0 {
		snap := t.snapshotLocked()
		t.mu.Unlock()
		t.emit(EventTicked, snap)
		return
	}

	t.stopDriverLocked()
	end := t.now()
	finished := *t.session
	finished.EndTime = &end
	finished.Completed = true
	pending := finished
	t.last = &pending
	t.session = nil
	t.state = StateIdle
	gen = t.generation
	t.mu.Unlock()

	var recErr error
	if t.recorder != nil && finished.ID != "" {
		ctx, cancel := context.WithTimeout(context.Background(), t.recordTimeout)
		completed := true
		rec, err := t.recorder.FinishSession(ctx, finished.ID, model.FocusSessionPatch{EndTime: &end, Completed: &completed})
		cancel()
		if err != nil {
			recErr = fmt.Errorf("record session completion: %w", err)
		} else {
			finished = rec
		}
	}

	snap := t.settle(gen, finished, recErr)
	snap.State = StateCompleted
	t.emit(EventCompleted, snap)
}

func (t *Timer) Pause() (Snapshot, error) {
	t.mu.Lock()
	if t.state != StateRunning {
		t.mu.Unlock()
		return Snapshot{}, ErrNotRunning
	}
	t.stopDriverLocked()
	t.state = StatePaused
	snap := t.snapshotLocked()
	t.mu.Unlock()

	t.emit(EventPaused, snap)
	return snap, nil
}

func (t *Timer) Resume() (Snapshot, error) {
	t.mu.Lock()
	if t.state != StatePaused {
		t.mu.Unlock()
		return Snapshot{}, ErrNotPaused
	}
	if err := t.startDriverLocked(); err != nil {
		t.mu.Unlock()
		return Snapshot{}, err
	}
	t.state = StateRunning
	snap := t.snapshotLocked()
	t.mu.Unlock()

	t.emit(EventResumed, snap)
	return snap, nil
}

// Stop ends the session early. Elapsed focus time is recorded as a partial
// session of at least one minute; a break stopped early is discarded.
func (t *Timer) Stop(ctx context.Context) (Snapshot, error) {
	t.mu.Lock()
	if t.state != StateRunning && t.state != StatePaused {
		t.mu.Unlock()
		return Snapshot{}, ErrNoSession
	}
	t.stopDriverLocked()

	session := *t.session
	elapsed := session.Duration*60 - t.timeLeft
	keep := session.Type == model.FocusTypeFocus && elapsed > 0
	minutes := elapsed / 60
	if minutes < 1 {
		minutes = 1
	}
	end := t.now()
	if keep {
		session.Duration = minutes
		session.EndTime = &end
		session.Completed = false
		pending := session
		t.last = &pending
	}
	t.session = nil
	t.timeLeft = 0
	t.state = StateIdle
	gen := t.generation
	t.mu.Unlock()

	var recErr error
	switch {
	case t.recorder == nil || session.ID == "":
	case keep:
		completed := false
		rec, err := t.recorder.FinishSession(ctx, session.ID, model.FocusSessionPatch{
			Duration:  &minutes,
			EndTime:   &end,
			Completed: &completed,
		})
		if err != nil {
			recErr = fmt.Errorf("record partial session: %w", err)
		} else {
			session = rec
		}
	default:
		if err := t.recorder.DiscardSession(ctx, session.ID); err != nil {
			recErr = fmt.Errorf("discard session: %w", err)
		}
	}

	var snap Snapshot
	if keep {
		snap = t.settle(gen, session, recErr)
	} else {
		snap = t.settleErr(gen, recErr)
	}
	t.emit(EventStopped, snap)
	return snap, nil
}

// settle stores the recorded version of a finished session, unless a new
// session started while the recorder ran. The snapshot describes the
// finished session either way.
func (t *Timer) settle(gen uint64, finished model.FocusSession, recErr error) Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	if gen == t.generation {
		t.last = &finished
		t.lastErr = recErr
		return t.snapshotLocked()
	}
	return Snapshot{State: StateIdle, Last: &finished, Err: recErr}
}

func (t *Timer) settleErr(gen uint64, recErr error) Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	if gen == t.generation {
		t.lastErr = recErr
		return t.snapshotLocked()
	}
	snap := Snapshot{State: StateIdle, Err: recErr}
	if t.last != nil {
		l := *t.last
		snap.Last = &l
	}
	return snap
}

// startDriverLocked bumps the generation so ticks from an older driver
// handle are ignored.
func (t *Timer) startDriverLocked() error {
	t.stopDriverLocked()
	t.generation++
	gen := t.generation
	h, err := t.driver.Every(time.Second, func() { t.tick(gen) })
	if err != nil {
		return fmt.Errorf("start focus ticker: %w", err)
	}
	t.handle = h
	return nil
}

func (t *Timer) stopDriverLocked() {
	t.generation++
	if t.handle != nil {
		t.handle.Cancel()
		t.handle = nil
	}
}

func (t *Timer) snapshotLocked() Snapshot {
	snap := Snapshot{State: t.state, TimeLeft: t.timeLeft, Err: t.lastErr}
	if t.session != nil {
		s := *t.session
		snap.Session = &s
	}
	if t.last != nil {
		l := *t.last
		snap.Last = &l
	}
	return snap
}

func (t *Timer) emit(kind EventType, snap Snapshot) {
	if t.listener != nil {
		t.listener(Event{Type: kind, Snapshot: snap})
	}
}
