package service

import (
	"context"
	"errors"

	"github.com/sandeepkv93/nexusflow/internal/model"
	"github.com/sandeepkv93/nexusflow/internal/storage"
)

const (
	entityFocusSession = "Focus session"
	entityFocusPreset  = "Focus preset"
)

type FocusService struct {
	*deps
}

func (s *FocusService) List(ctx context.Context) ([]model.FocusSession, error) {
	rows, err := s.repo.ListFocusSessions(ctx, storage.FocusSessionListFilter{})
	if err != nil {
		return nil, Internal("fetch focus sessions", err)
	}
	return focusSessionsFromStorage(rows), nil
}

func (s *FocusService) Get(ctx context.Context, id string) (model.FocusSession, error) {
	row, err := s.repo.GetFocusSession(ctx, id)
	if err != nil {
		return model.FocusSession{}, lookupErr(err, entityFocusSession, "fetch focus session")
	}
	return focusSessionFromStorage(row), nil
}

// Create records a session. A session created with an end time is
// considered completed.
func (s *FocusService) Create(ctx context.Context, in model.FocusSessionInput) (model.FocusSession, error) {
	if err := in.Validate(); err != nil {
		return model.FocusSession{}, Validation(err)
	}
	now := s.now()
	session := model.FocusSession{
		ID:        s.newID(),
		Duration:  in.Duration,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		Type:      in.Type,
		Completed: in.EndTime != nil,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateFocusSession(ctx, focusSessionToStorage(session)); err != nil {
		return model.FocusSession{}, Internal("create focus session", err)
	}
	s.mutated(ctx, "focus_session", "create", session.ID, 1)
	return session, nil
}

func (s *FocusService) Update(ctx context.Context, id string, patch model.FocusSessionPatch) (model.FocusSession, error) {
	if err := patch.Validate(); err != nil {
		return model.FocusSession{}, Validation(err)
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return model.FocusSession{}, err
	}
	next := patch.Apply(current)
	if next.EndTime != nil && next.EndTime.Before(next.StartTime) {
		return model.FocusSession{}, Invalid("endTime", "endTime is before startTime")
	}
	return s.save(ctx, next, "update")
}

// Complete marks the session completed with the current time as its end.
func (s *FocusService) Complete(ctx context.Context, id string) (model.FocusSession, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return model.FocusSession{}, err
	}
	end := s.now()
	current.Completed = true
	current.EndTime = &end
	return s.save(ctx, current, "complete")
}

func (s *FocusService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteFocusSession(ctx, id); err != nil {
		return lookupErr(err, entityFocusSession, "delete focus session")
	}
	s.mutated(ctx, "focus_session", "delete", id, 1)
	return nil
}

// Stats summarizes completed sessions whose start time falls within the
// range, ends included.
func (s *FocusService) Stats(ctx context.Context, r model.DateRange) (model.FocusStats, error) {
	if err := r.Validate(); err != nil {
		return model.FocusStats{}, Validation(err)
	}
	rows, err := s.repo.ListFocusSessions(ctx, storage.FocusSessionListFilter{
		From:          &r.StartDate,
		To:            &r.EndDate,
		CompletedOnly: true,
	})
	if err != nil {
		return model.FocusStats{}, Internal("get focus stats", err)
	}
	return model.SummarizeFocusSessions(focusSessionsFromStorage(rows)), nil
}

func (s *FocusService) save(ctx context.Context, next model.FocusSession, op string) (model.FocusSession, error) {
	next.UpdatedAt = s.now()
	if err := s.repo.UpdateFocusSession(ctx, focusSessionToStorage(next)); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return model.FocusSession{}, NotFound(entityFocusSession)
		}
		return model.FocusSession{}, Internal(op+" focus session", err)
	}
	s.mutated(ctx, "focus_session", op, next.ID, 1)
	return next, nil
}

func (s *FocusService) ListPresets(ctx context.Context) ([]model.FocusPreset, error) {
	rows, err := s.repo.ListFocusPresets(ctx, storage.FocusPresetListFilter{})
	if err != nil {
		return nil, Internal("fetch focus presets", err)
	}
	out := make([]model.FocusPreset, 0, len(rows))
	for _, row := range rows {
		out = append(out, focusPresetFromStorage(row))
	}
	return out, nil
}

func (s *FocusService) GetPreset(ctx context.Context, id string) (model.FocusPreset, error) {
	row, err := s.repo.GetFocusPreset(ctx, id)
	if err != nil {
		return model.FocusPreset{}, lookupErr(err, entityFocusPreset, "fetch focus preset")
	}
	return focusPresetFromStorage(row), nil
}

func (s *FocusService) CreatePreset(ctx context.Context, in model.FocusPresetInput) (model.FocusPreset, error) {
	if err := in.Validate(); err != nil {
		return model.FocusPreset{}, Validation(err)
	}
	now := s.now()
	preset := model.FocusPreset{
		ID:          s.newID(),
		Name:        in.Name,
		Description: in.Description,
		Duration:    in.Duration,
		Type:        in.Type,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateFocusPreset(ctx, focusPresetToStorage(preset)); err != nil {
		return model.FocusPreset{}, Internal("create focus preset", err)
	}
	s.mutated(ctx, "focus_preset", "create", preset.ID, 1)
	return preset, nil
}

func (s *FocusService) UpdatePreset(ctx context.Context, id string, patch model.FocusPresetPatch) (model.FocusPreset, error) {
	if err := patch.Validate(); err != nil {
		return model.FocusPreset{}, Validation(err)
	}
	current, err := s.GetPreset(ctx, id)
	if err != nil {
		return model.FocusPreset{}, err
	}
	next := patch.Apply(current)
	next.UpdatedAt = s.now()
	if err := s.repo.UpdateFocusPreset(ctx, focusPresetToStorage(next)); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return model.FocusPreset{}, NotFound(entityFocusPreset)
		}
		return model.FocusPreset{}, Internal("update focus preset", err)
	}
	s.mutated(ctx, "focus_preset", "update", id, 1)
	return next, nil
}

func (s *FocusService) DeletePreset(ctx context.Context, id string) error {
	if err := s.repo.DeleteFocusPreset(ctx, id); err != nil {
		return lookupErr(err, entityFocusPreset, "delete focus preset")
	}
	s.mutated(ctx, "focus_preset", "delete", id, 1)
	return nil
}

func focusSessionsFromStorage(rows []storage.FocusSession) []model.FocusSession {
	out := make([]model.FocusSession, 0, len(rows))
	for _, row := range rows {
		out = append(out, focusSessionFromStorage(row))
	}
	return out
}
