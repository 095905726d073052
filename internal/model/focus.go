package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/hay-kot/criterio"
)

var ErrInvalidFocusType = errors.New("model: invalid focus type")

const (
	PresetNameMax        = 100
	PresetDescriptionMax = 500
)

type FocusType string

const (
	FocusTypeFocus FocusType = "focus"
	FocusTypeBreak FocusType = "break"
)

func (t FocusType) IsValid() bool {
	switch t {
	case FocusTypeFocus, FocusTypeBreak:
		return true
	default:
		return false
	}
}

func (t FocusType) Label() string {
	switch t {
	case FocusTypeFocus:
		return "Focus"
	case FocusTypeBreak:
		return "Break"
	default:
		return string(t)
	}
}

type FocusSession struct {
	ID        string     `json:"id"`
	Duration  int        `json:"duration"`
	StartTime time.Time  `json:"startTime"`
	EndTime   *time.Time `json:"endTime,omitempty"`
	Type      FocusType  `json:"type"`
	Completed bool       `json:"completed"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Remaining is the wall-clock time left in the session at now. It is
// negative once the planned duration has passed.
func (s FocusSession) Remaining(now time.Time) time.Duration {
	return s.StartTime.Add(time.Duration(s.Duration) * time.Minute).Sub(now)
}

type FocusSessionInput struct {
	Duration  int        `json:"duration"`
	StartTime time.Time  `json:"startTime"`
	EndTime   *time.Time `json:"endTime,omitempty"`
	Type      FocusType  `json:"type"`
}

func (in FocusSessionInput) Validate() error {
	var errs criterio.FieldErrorsBuilder
	errs = appendPositiveInt(errs, "duration", in.Duration)
	if in.StartTime.IsZero() {
		errs = errs.Append("startTime", ErrRequired)
	}
	if in.EndTime != nil && in.EndTime.Before(in.StartTime) {
		errs = errs.Append("endTime", errors.New("model: endTime is before startTime"))
	}
	if !in.Type.IsValid() {
		errs = errs.Append("type", fmt.Errorf("%w: %q", ErrInvalidFocusType, in.Type))
	}
	return errs.ToError()
}

type FocusSessionPatch struct {
	Duration  *int       `json:"duration,omitempty"`
	StartTime *time.Time `json:"startTime,omitempty"`
	EndTime   *time.Time `json:"endTime,omitempty"`
	Type      *FocusType `json:"type,omitempty"`
	Completed *bool      `json:"completed,omitempty"`
}

func (p FocusSessionPatch) Validate() error {
	var errs criterio.FieldErrorsBuilder
	if p.Duration != nil {
		errs = appendPositiveInt(errs, "duration", *p.Duration)
	}
	if p.StartTime != nil && p.StartTime.IsZero() {
		errs = errs.Append("startTime", ErrRequired)
	}
	if p.Type != nil && !p.Type.IsValid() {
		errs = errs.Append("type", fmt.Errorf("%w: %q", ErrInvalidFocusType, *p.Type))
	}
	return errs.ToError()
}

func (p FocusSessionPatch) Apply(s FocusSession) FocusSession {
	if p.Duration != nil {
		s.Duration = *p.Duration
	}
	if p.StartTime != nil {
		s.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		end := *p.EndTime
		s.EndTime = &end
	}
	if p.Type != nil {
		s.Type = *p.Type
	}
	if p.Completed != nil {
		s.Completed = *p.Completed
	}
	return s
}

type FocusPreset struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Duration    int       `json:"duration"`
	Type        FocusType `json:"type"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type FocusPresetInput struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Duration    int       `json:"duration"`
	Type        FocusType `json:"type"`
}

func (in FocusPresetInput) Validate() error {
	var errs criterio.FieldErrorsBuilder
	errs = appendText(errs, "name", in.Name, 1, PresetNameMax)
	errs = appendText(errs, "description", in.Description, 0, PresetDescriptionMax)
	errs = appendPositiveInt(errs, "duration", in.Duration)
	if !in.Type.IsValid() {
		errs = errs.Append("type", fmt.Errorf("%w: %q", ErrInvalidFocusType, in.Type))
	}
	return errs.ToError()
}

type FocusPresetPatch struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	Duration    *int       `json:"duration,omitempty"`
	Type        *FocusType `json:"type,omitempty"`
}

func (p FocusPresetPatch) Validate() error {
	var errs criterio.FieldErrorsBuilder
	if p.Name != nil {
		errs = appendText(errs, "name", *p.Name, 1, PresetNameMax)
	}
	if p.Description != nil {
		errs = appendText(errs, "description", *p.Description, 0, PresetDescriptionMax)
	}
	if p.Duration != nil {
		errs = appendPositiveInt(errs, "duration", *p.Duration)
	}
	if p.Type != nil && !p.Type.IsValid() {
		errs = errs.Append("type", fmt.Errorf("%w: %q", ErrInvalidFocusType, *p.Type))
	}
	return errs.ToError()
}

func (p FocusPresetPatch) Apply(in FocusPreset) FocusPreset {
	if p.Name != nil {
		in.Name = *p.Name
	}
	if p.Description != nil {
		in.Description = *p.Description
	}
	if p.Duration != nil {
		in.Duration = *p.Duration
	}
	if p.Type != nil {
		in.Type = *p.Type
	}
	return in
}

type FocusStats struct {
	TotalSessions     int `json:"totalSessions"`
	TotalFocusTime    int `json:"totalFocusTime"`
	TotalBreakTime    int `json:"totalBreakTime"`
	CompletedSessions int `json:"completedSessions"`
}

// SummarizeFocusSessions totals minutes per session type. Callers pass the
// sessions already filtered to the range of interest.
func SummarizeFocusSessions(sessions []FocusSession) FocusStats {
	var out FocusStats
	for _, s := range sessions {
		out.TotalSessions++
		switch s.Type {
		case FocusTypeFocus:
			out.TotalFocusTime += s.Duration
		case FocusTypeBreak:
			out.TotalBreakTime += s.Duration
		}
		if s.Completed {
			out.CompletedSessions++
		}
	}
	return out
}
