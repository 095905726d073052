package state

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sandeepkv93/nexusflow/internal/focus"
	"github.com/sandeepkv93/nexusflow/internal/model"
)

// FocusStore caches sessions, presets and stats. It is also the timer's
// Recorder, so sessions the timer records show up in the cache.
type FocusStore struct {
	api      API
	sessions collection[model.FocusSession]
	presets  collection[model.FocusPreset]

	mu    sync.RWMutex
	stats model.FocusStats
	timer *focus.Timer
}

var _ focus.Recorder = (*FocusStore)(nil)

func newFocusStore(api API) *FocusStore {
	return &FocusStore{
		api: api,
		sessions: collection[model.FocusSession]{
			idOf: func(s model.FocusSession) string { return s.ID },
			less: func(a, b model.FocusSession) bool { return a.StartTime.After(b.StartTime) },
		},
		presets: collection[model.FocusPreset]{
			idOf: func(p model.FocusPreset) string { return p.ID },
			less: func(a, b model.FocusPreset) bool { return a.Name < b.Name },
		},
	}
}

// Fetch loads sessions and presets. Both are attempted; the first error is
// returned.
func (s *FocusStore) Fetch(ctx context.Context) error {
	sessErr := s.sessions.fetch(func() ([]model.FocusSession, error) { return s.api.ListFocusSessions(ctx) })
	presetErr := s.presets.fetch(func() ([]model.FocusPreset, error) { return s.api.ListFocusPresets(ctx) })
	if sessErr != nil {
		return sessErr
	}
	return presetErr
}

func (s *FocusStore) FetchStats(ctx context.Context, r model.DateRange) (model.FocusStats, error) {
	stats, err := s.api.FocusStats(ctx, r)
	if err != nil {
		return model.FocusStats{}, s.sessions.failed(err)
	}
	s.mu.Lock()
	s.stats = stats
	s.mu.Unlock()
	return stats, nil
}

func (s *FocusStore) Stats() model.FocusStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

func (s *FocusStore) Timer() *focus.Timer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.timer
}

func (s *FocusStore) setTimer(t *focus.Timer) {
	s.mu.Lock()
	s.timer = t
	s.mu.Unlock()
}

func (s *FocusStore) Sessions() []model.FocusSession {
	return s.sessions.snapshot()
}

func (s *FocusStore) Presets() []model.FocusPreset {
	return s.presets.snapshot()
}

func (s *FocusStore) Loading() bool {
	a, _ := s.sessions.status()
	b, _ := s.presets.status()
	return a || b
}

func (s *FocusStore) Err() string {
	if _, err := s.sessions.status(); err != "" {
		return err
	}
	_, err := s.presets.status()
	return err
}

func (s *FocusStore) CreatePreset(ctx context.Context, in model.FocusPresetInput) (model.FocusPreset, error) {
	p, err := s.api.CreateFocusPreset(ctx, in)
	if err != nil {
		return model.FocusPreset{}, s.presets.failed(err)
	}
	s.presets.put(p)
	return p, nil
}

func (s *FocusStore) DeletePreset(ctx context.Context, id string) error {
	if err := s.api.DeleteFocusPreset(ctx, id); err != nil {
		return s.presets.failed(err)
	}
	s.presets.remove(id)
	return nil
}

// FindPreset matches name case insensitively.
func (s *FocusStore) FindPreset(name string) (model.FocusPreset, error) {
	for _, p := range s.presets.snapshot() {
		if strings.EqualFold(p.Name, strings.TrimSpace(name)) {
			return p, nil
		}
	}
	return model.FocusPreset{}, fmt.Errorf("no preset named %q", name)
}

func (s *FocusStore) StartSession(ctx context.Context, in model.FocusSessionInput) (model.FocusSession, error) {
	session, err := s.api.CreateFocusSession(ctx, in)
	if err != nil {
		return model.FocusSession{}, s.sessions.failed(err)
	}
	s.sessions.put(session)
	return session, nil
}

func (s *FocusStore) FinishSession(ctx context.Context, id string, patch model.FocusSessionPatch) (model.FocusSession, error) {
	session, err := s.api.UpdateFocusSession(ctx, id, patch)
	if err != nil {
		return model.FocusSession{}, s.sessions.failed(err)
	}
	s.sessions.put(session)
	return session, nil
}

func (s *FocusStore) DiscardSession(ctx context.Context, id string) error {
	if err := s.api.DeleteFocusSession(ctx, id); err != nil {
		return s.sessions.failed(err)
	}
	s.sessions.remove(id)
	return nil
}
