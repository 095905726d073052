package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
)

func TestMigrateRoundTripCompatibility(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate-roundtrip.db")
	db, err := sqlx.Open(DriverSQLite, dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := MigrateUp(db); err != nil {
		t.Fatalf("first migrate up failed: %v", err)
	}

	if err := MigrateUp(db); err != nil {
		t.Fatalf("repeated migrate up failed: %v", err)
	}

	if err := MigrateDown(db); err != nil {
		t.Fatalf("migrate down failed: %v", err)
	}

	if err := MigrateUp(db); err != nil {
		t.Fatalf("second migrate up failed: %v", err)
	}

	repo, err := NewSQLRepository(db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}

	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	if err := repo.CreateTask(t.Context(), Task{
		ID:        "task-rt-1",
		Title:     "Roundtrip task",
		Status:    "TODO",
		Priority:  "MEDIUM",
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		t.Fatalf("insert after roundtrip failed: %v", err)
	}

	got, err := repo.GetTask(t.Context(), "task-rt-1")
	if err != nil {
		t.Fatalf("get after roundtrip failed: %v", err)
	}
	if got.Title != "Roundtrip task" {
		t.Fatalf("unexpected title after roundtrip: %q", got.Title)
	}

	presets, err := repo.ListFocusPresets(t.Context(), FocusPresetListFilter{})
	if err != nil {
		t.Fatalf("list presets: %v", err)
	}
	if len(presets) != 4 {
		t.Fatalf("expected 4 default presets after roundtrip, got %d", len(presets))
	}
}

func TestMigrationsListedInOrder(t *testing.T) {
	got := Migrations()
	if len(got) < 2 {
		t.Fatalf("expected at least two migrations, got %v", got)
	}
	for i := 1; i < len(got); i++ {
		if got[i-1] >= got[i] {
			t.Fatalf("migrations out of order: %v", got)
		}
	}
}

func TestDeletedDefaultPresetStaysDeletedAfterRestart(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate-restart.db")
	open := func() *SQLRepository {
		t.Helper()
		db, err := sqlx.Open(DriverSQLite, dbPath)
		if err != nil {
			t.Fatalf("open db: %v", err)
		}
		if err := MigrateUp(db); err != nil {
			t.Fatalf("migrate up: %v", err)
		}
		repo, err := NewSQLRepository(db)
		if err != nil {
			t.Fatalf("new repo: %v", err)
		}
		return repo
	}

	repo := open()
	if err := repo.DeleteFocusPreset(t.Context(), "preset-pomodoro"); err != nil {
		t.Fatalf("delete preset: %v", err)
	}
	if err := repo.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	repo = open()
	defer repo.Close()
	if _, err := repo.GetFocusPreset(t.Context(), "preset-pomodoro"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected deleted preset to stay deleted, got %v", err)
	}
	presets, err := repo.ListFocusPresets(t.Context(), FocusPresetListFilter{})
	if err != nil {
		t.Fatalf("list presets: %v", err)
	}
	if len(presets) != 3 {
		t.Fatalf("expected 3 presets, got %d", len(presets))
	}
}

func TestAppliedMigrationsRecorded(t *testing.T) {
	db, err := sqlx.Open(DriverSQLite, filepath.Join(t.TempDir(), "migrate-versions.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
	got, err := AppliedMigrations(db)
	if err != nil {
		t.Fatalf("applied migrations: %v", err)
	}
	want := []string{"0001_init", "0002_default_presets"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}

	if err := MigrateDown(db); err != nil {
		t.Fatalf("migrate down: %v", err)
	}
	got, err = AppliedMigrations(db)
	if err != nil {
		t.Fatalf("applied migrations after down: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no applied migrations after down, got %v", got)
	}
}
