package notify

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Center holds at most one notification per key. An unread notification
// blocks new ones with the same key; a read one is replaced.
type Center struct {
	mu    sync.Mutex
	byKey map[string]*Notification
	seq   uint64

	now     func() time.Time
	newID   func() string
	desktop DesktopNotifier
	log     zerolog.Logger
}

type Option func(*Center)

func WithClock(now func() time.Time) Option {
	return func(c *Center) { c.now = now }
}

func WithIDGenerator(fn func() string) Option {
	return func(c *Center) { c.newID = fn }
}

// WithDesktop sends every newly inserted notification to d.
func WithDesktop(d DesktopNotifier) Option {
	return func(c *Center) { c.desktop = d }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Center) { c.log = l }
}

func NewCenter(opts ...Option) *Center {
	c := &Center{
		byKey: make(map[string]*Notification),
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Upsert inserts cand unless an unread notification with the same key
// exists. It reports whether a notification was inserted.
func (c *Center) Upsert(cand Candidate) (Notification, bool) {
	c.mu.Lock()
	if existing, ok := c.byKey[cand.Key]; ok && !existing.Read {
		c.mu.Unlock()
		return *existing, false
	}
	c.seq++
	n := &Notification{
		ID:        c.newID(),
		Key:       cand.Key,
		Title:     cand.Title,
		Message:   cand.Message,
		Type:      cand.Type,
		Category:  cand.Category,
		Timestamp: c.now(),
		Link:      cand.Link,
		seq:       c.seq,
	}
	c.byKey[cand.Key] = n
	out := *n
	c.mu.Unlock()

	c.deliver(out)
	return out, true
}

// Apply upserts every candidate and returns the ones that were inserted.
func (c *Center) Apply(cands []Candidate) []Notification {
	var inserted []Notification
	for _, cand := range cands {
		if n, ok := c.Upsert(cand); ok {
			inserted = append(inserted, n)
		}
	}
	return inserted
}

func (c *Center) MarkAsRead(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, n := range c.byKey {
		if n.ID == id {
			n.Read = true
			return true
		}
	}
	return false
}

func (c *Center) MarkAllAsRead() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, n := range c.byKey {
		n.Read = true
	}
}

func (c *Center) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, n := range c.byKey {
		if n.ID == id {
			delete(c.byKey, key)
			return true
		}
	}
	return false
}

func (c *Center) ClearAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byKey = make(map[string]*Notification)
}

// List returns the notifications newest first.
func (c *Center) List() []Notification {
	c.mu.Lock()
	out := make([]Notification, 0, len(c.byKey))
	for _, n := range c.byKey {
		out = append(out, *n)
	}
	c.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].seq > out[j].seq
		}
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}

func (c *Center) UnreadCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, item := range c.byKey {
		if !item.Read {
			n++
		}
	}
	return n
}

func (c *Center) deliver(n Notification) {
	if c.desktop == nil {
		return
	}
	if err := c.desktop.Send(n); err != nil {
		c.log.Warn().Err(err).Str("key", n.Key).Msg("desktop notification failed")
	}
}
