// Package scheduler runs recurring jobs on a single loop goroutine. Job
// firings never overlap, and each job can be cancelled through its Handle.
package scheduler

import (
	"container/heap"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

var (
	ErrEngineStopped   = errors.New("scheduler: engine stopped")
	ErrInvalidSchedule = errors.New("scheduler: invalid schedule")
)

// RunFunc is called on the engine goroutine with the firing time.
type RunFunc func(now time.Time)

type job struct {
	id        uint64
	name      string
	schedule  cron.Schedule
	run       RunFunc
	cancelled bool
}

type queueItem struct {
	at  time.Time
	seq uint64
	job *job
}

type priorityQueue []queueItem

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].at.Equal(pq[j].at) {
		return pq[i].seq < pq[j].seq
	}
	return pq[i].at.Before(pq[j].at)
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
}

func (pq *priorityQueue) Push(x any) {
	*pq = append(*pq, x.(queueItem))
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[0 : n-1]
	return item
}

type Engine struct {
	mu      sync.Mutex
	queue   priorityQueue
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	nextID  uint64
	seq     uint64
	runs    uint64

	now   func() time.Time
	log   zerolog.Logger
	onRun func(name string)
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithRunHook is called after every job run, for example to count runs.
func WithRunHook(fn func(name string)) Option {
	return func(e *Engine) { e.onRun = fn }
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		queue:  make(priorityQueue, 0),
		wakeup: make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
		now:    time.Now,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ParseSchedule accepts a standard five-field cron spec or a descriptor
// such as "@every 30s" or "@hourly".
func ParseSchedule(spec string) (cron.Schedule, error) {
	s, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidSchedule, spec, err)
	}
	return s, nil
}

// Interval fires every d from the previous firing. Unlike cron.Every it keeps
// sub-second precision.
type Interval time.Duration

func (i Interval) Next(t time.Time) time.Time {
	return t.Add(time.Duration(i))
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started || e.stopped {
		return
	}
	e.started = true
	heap.Init(&e.queue)
	go e.loop()
}

// Stop halts the loop and waits for a running job to return. Jobs cannot be
// scheduled afterwards.
func (e *Engine) Stop() {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	started := e.started
	close(e.stopCh)
	e.mu.Unlock()
	if started {
		<-e.doneCh
	}
}

// Schedule registers run to fire at each time produced by s, starting after
// now.
func (e *Engine) Schedule(name string, s cron.Schedule, run RunFunc) (*Handle, error) {
	if s == nil || run == nil {
		return nil, ErrInvalidSchedule
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return nil, ErrEngineStopped
	}
	first := s.Next(e.now())
	if first.IsZero() {
		return nil, fmt.Errorf("%w: %s never fires", ErrInvalidSchedule, name)
	}

	e.nextID++
	j := &job{id: e.nextID, name: name, schedule: s, run: run}
	e.push(first, j)
	e.signalWakeup()
	return &Handle{engine: e, job: j}, nil
}

// Runs is the number of job runs so far.
func (e *Engine) Runs() uint64 {
	return atomic.LoadUint64(&e.runs)
}

// Pending is the number of jobs waiting for their next firing.
func (e *Engine) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, item := range e.queue {
		if !item.job.cancelled {
			n++
		}
	}
	return n
}

func (e *Engine) loop() {
	defer close(e.doneCh)

	var timer *time.Timer
	for {
		next, hasNext := e.peek()
		if !hasNext {
			select {
			case <-e.wakeup:
				continue
			case <-e.stopCh:
				return
			}
		}

		wait := next.Sub(e.now())
		if wait < 0 {
			wait = 0
		}
		timer = resetTimer(timer, wait)

		select {
		case <-timer.C:
			now := e.now()
			for _, item := range e.popDue(now) {
				select {
				case <-e.stopCh:
					return
				default:
				}
				e.fire(item.job, now)
			}
		case <-e.wakeup:
			continue
		case <-e.stopCh:
			stopTimer(timer)
			return
		}
	}
}

func (e *Engine) fire(j *job, now time.Time) {
	if e.isCancelled(j) {
		return
	}
	e.runJob(j, now)
	atomic.AddUint64(&e.runs, 1)
	if e.onRun != nil {
		e.onRun(j.name)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if j.cancelled || e.stopped {
		return
	}
	next := j.schedule.Next(now)
	if next.IsZero() {
		return
	}
	e.push(next, j)
}

func (e *Engine) runJob(j *job, now time.Time) {
	defer func() {
		if v := recover(); v != nil {
			e.log.Error().Str("job", j.name).Interface("panic", v).Msg("scheduled job panicked")
		}
	}()
	j.run(now)
}

func (e *Engine) isCancelled(j *job) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return j.cancelled
}

func (e *Engine) push(at time.Time, j *job) {
	e.seq++
	heap.Push(&e.queue, queueItem{at: at, seq: e.seq, job: j})
}

func (e *Engine) signalWakeup() {
	select {
	case e.wakeup <- struct{}{}:
	default:
	}
}

// peek drops cancelled entries at the head and returns the next firing time.
func (e *Engine) peek() (time.Time, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for len(e.queue) > 0 && e.queue[0].job.cancelled {
		heap.Pop(&e.queue)
	}
	if len(e.queue) == 0 {
		return time.Time{}, false
	}
	return e.queue[0].at, true
}

func (e *Engine) popDue(now time.Time) []queueItem {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]queueItem, 0)
	for len(e.queue) > 0 {
		next := e.queue[0]
		if next.at.After(now) {
			break
		}
		item := heap.Pop(&e.queue).(queueItem)
		if !item.job.cancelled {
			out = append(out, item)
		}
	}
	return out
}

func resetTimer(timer *time.Timer, d time.Duration) *time.Timer {
	if timer == nil {
		return time.NewTimer(d)
	}
	stopTimer(timer)
	timer.Reset(d)
	return timer
}

func stopTimer(timer *time.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}
