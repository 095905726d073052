package state

import (
	"sort"
	"sync"
)

// collection is the cache behind every store: the items, a loading flag and
// the last error message.
type collection[T any] struct {
	mu      sync.RWMutex
	items   []T
	loading bool
	err     string
	loaded  bool

	idOf    func(T) string
	less    func(a, b T) bool
	changed func()
}

// fetch replaces the items with the result of load. A failed first load
// leaves the list empty; a failed reload keeps the previous items.
func (c *collection[T]) fetch(load func() ([]T, error)) error {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()

	items, err := load()

	c.mu.Lock()
	c.loading = false
	if err != nil {
		c.err = errorMessage(err)
		if !c.loaded {
			c.items = nil
		}
		c.mu.Unlock()
		return err
	}
	c.items = items
	c.loaded = true
	c.err = ""
	c.sortLocked()
	c.mu.Unlock()

	c.notify()
	return nil
}

// failed records the error of a mutation without touching the items.
func (c *collection[T]) failed(err error) error {
	c.mu.Lock()
	c.err = errorMessage(err)
	c.mu.Unlock()
	return err
}

// put inserts item or replaces the one with the same id.
func (c *collection[T]) put(item T) {
	c.mu.Lock()
	id := c.idOf(item)
	replaced := false
	for i := range c.items {
		if c.idOf(c.items[i]) == id {
			c.items[i] = item
			replaced = true
			break
		}
	}
	if !replaced {
		c.items = append(c.items, item)
	}
	c.err = ""
	c.sortLocked()
	c.mu.Unlock()

	c.notify()
}

func (c *collection[T]) remove(ids ...string) {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	c.mu.Lock()
	kept := c.items[:0]
	for _, item := range c.items {
		if !drop[c.idOf(item)] {
			kept = append(kept, item)
		}
	}
	c.items = kept
	c.err = ""
	c.mu.Unlock()

	c.notify()
}

func (c *collection[T]) find(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, item := range c.items {
		if c.idOf(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

func (c *collection[T]) snapshot() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

func (c *collection[T]) status() (loading bool, err string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading, c.err
}

func (c *collection[T]) sortLocked() {
	if c.less == nil {
		return
	}
	sort.SliceStable(c.items, func(i, j int) bool { return c.less(c.items[i], c.items[j]) })
}

func (c *collection[T]) notify() {
	if c.changed != nil {
		c.changed()
	}
}
