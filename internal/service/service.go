// Package service holds the domain services. Each one validates input,
// persists through storage.Repository and returns model values or *Error.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sandeepkv93/nexusflow/internal/storage"
)

// Observer is told about every successful mutation. The metrics package
// implements it with a Prometheus counter.
type Observer interface {
	Mutation(entity, op string, n int)
}

type noopObserver struct{}

func (noopObserver) Mutation(string, string, int) {}

type deps struct {
	repo     storage.Repository
	now      func() time.Time
	newID    func() string
	log      zerolog.Logger
	observer Observer
}

type Option func(*deps)

func WithClock(now func() time.Time) Option {
	return func(d *deps) { d.now = now }
}

func WithIDGenerator(fn func() string) Option {
	return func(d *deps) { d.newID = fn }
}

func WithLogger(l zerolog.Logger) Option {
	return func(d *deps) { d.log = l }
}

func WithObserver(o Observer) Option {
	return func(d *deps) {
		if o != nil {
			d.observer = o
		}
	}
}

// Services bundles one service per domain over a shared repository.
type Services struct {
	Tasks     *TaskService
	Inventory *InventoryService
	Finance   *FinanceService
	Focus     *FocusService
}

func New(repo storage.Repository, opts ...Option) *Services {
	d := &deps{
		repo:     repo,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
		log:      zerolog.Nop(),
		observer: noopObserver{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return &Services{
		Tasks:     &TaskService{deps: d},
		Inventory: &InventoryService{deps: d},
		Finance:   &FinanceService{deps: d},
		Focus:     &FocusService{deps: d},
	}
}

// lookupErr maps a repository read failure to NotFound or Internal.
func lookupErr(err error, entity, op string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return NotFound(entity)
	}
	return Internal(op, err)
}

func (d *deps) mutated(ctx context.Context, entity, op, id string, n int) {
	d.observer.Mutation(entity, op, n)
	d.log.Debug().Ctx(ctx).Str("entity", entity).Str("op", op).Str("id", id).Int("count", n).Msg("mutation applied")
}
