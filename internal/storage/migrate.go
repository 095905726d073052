package storage

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const createMigrationsTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
    version TEXT PRIMARY KEY,
    applied_at TEXT NOT NULL
)`

// MigrateUp applies the up migrations that have not run yet, in version
// order. Each version runs in its own transaction together with its
// schema_migrations row, so seed data is inserted exactly once.
func MigrateUp(db *sqlx.DB) error {
	applied, err := appliedVersions(db)
	if err != nil {
		return err
	}
	for _, name := range Migrations() {
		version := migrationVersion(name)
		if applied[version] {
			continue
		}
		err := runMigration(db, name, func(tx *sqlx.Tx) error {
			_, err := tx.Exec(tx.Rebind("INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)"),
				version, time.Now().UTC().Format(timeLayout))
			return err
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// MigrateDown reverts the applied migrations in reverse version order.
func MigrateDown(db *sqlx.DB) error {
	applied, err := appliedVersions(db)
	if err != nil {
		return err
	}
	entries, err := fs.Glob(migrationFiles, "migrations/*.down.sql")
	if err != nil {
		return fmt.Errorf("glob migrations: %w", err)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(entries)))
	for _, name := range entries {
		version := migrationVersion(name)
		if !applied[version] {
			continue
		}
		err := runMigration(db, name, func(tx *sqlx.Tx) error {
			_, err := tx.Exec(tx.Rebind("DELETE FROM schema_migrations WHERE version = ?"), version)
			return err
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// AppliedMigrations lists the recorded versions in apply order.
func AppliedMigrations(db *sqlx.DB) ([]string, error) {
	applied, err := appliedVersions(db)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(applied))
	for v := range applied {
		out = append(out, v)
	}
	sort.Strings(out)
	return out, nil
}

func appliedVersions(db *sqlx.DB) (map[string]bool, error) {
	if _, err := db.Exec(createMigrationsTable); err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}
	var versions []string
	if err := db.Select(&versions, "SELECT version FROM schema_migrations"); err != nil {
		return nil, fmt.Errorf("read schema_migrations: %w", err)
	}
	applied := make(map[string]bool, len(versions))
	for _, v := range versions {
		applied[v] = true
	}
	return applied, nil
}

func runMigration(db *sqlx.DB, name string, record func(*sqlx.Tx) error) error {
	sqlBytes, err := migrationFiles.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read migration %s: %w", name, err)
	}
	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("begin migration %s: %w", name, err)
	}
	if _, err := tx.Exec(string(sqlBytes)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("apply migration %s: %w", name, err)
	}
	if err := record(tx); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("record migration %s: %w", name, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %s: %w", name, err)
	}
	return nil
}

// migrationVersion maps "migrations/0002_default_presets.up.sql" to
// "0002_default_presets".
func migrationVersion(name string) string {
	base := path.Base(name)
	base = strings.TrimSuffix(base, ".up.sql")
	return strings.TrimSuffix(base, ".down.sql")
}

// Migrations lists the embedded up migrations in apply order.
func Migrations() []string {
	entries, _ := fs.Glob(migrationFiles, "migrations/*.up.sql")
	sort.Strings(entries)
	return entries
}
