package model

import (
	"testing"
	"time"
)

func TestFocusSessionInputValidate(t *testing.T) {
	start := time.Date(2026, 2, 9, 9, 0, 0, 0, time.UTC)
	in := FocusSessionInput{Duration: 25, StartTime: start, Type: FocusTypeFocus}
	if err := in.Validate(); err != nil {
		t.Fatalf("expected valid session, got: %v", err)
	}

	in.Duration = 0
	in.Type = "nap"
	fe := fieldErrors(t, in.Validate())
	if !hasField(fe, "duration", ErrNotPositive) || !hasField(fe, "type", ErrInvalidFocusType) {
		t.Fatalf("expected duration and type errors, got: %v", fe)
	}
}

func TestFocusSessionRemaining(t *testing.T) {
	start := time.Date(2026, 2, 9, 9, 0, 0, 0, time.UTC)
	s := FocusSession{Duration: 25, StartTime: start}
	if got := s.Remaining(start.Add(21 * time.Minute)); got != 4*time.Minute {
		t.Fatalf("remaining = %s, want 4m", got)
	}
}

func TestSummarizeFocusSessions(t *testing.T) {
	sessions := []FocusSession{
		{Duration: 25, Type: FocusTypeFocus, Completed: true},
		{Duration: 50, Type: FocusTypeFocus, Completed: true},
		{Duration: 5, Type: FocusTypeBreak, Completed: true},
	}
	got := SummarizeFocusSessions(sessions)
	want := FocusStats{TotalSessions: 3, TotalFocusTime: 75, TotalBreakTime: 5, CompletedSessions: 3}
	if got != want {
		t.Fatalf("stats = %#v, want %#v", got, want)
	}
}

func TestFocusPresetPatchValidate(t *testing.T) {
	name := ""
	fe := fieldErrors(t, FocusPresetPatch{Name: &name}.Validate())
	if !hasField(fe, "name", ErrRequired) {
		t.Fatalf("expected name error, got: %v", fe)
	}
}
