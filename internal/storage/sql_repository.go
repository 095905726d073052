package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// timeLayout is fixed width so stored timestamps compare correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// SQLRepository implements Repository on SQLite or PostgreSQL. Queries are
// written with ? placeholders and rebound for the active driver.
type SQLRepository struct {
	db  *sqlx.DB
	ext sqlx.ExtContext
}

func NewSQLRepository(db *sqlx.DB) (*SQLRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	return &SQLRepository{db: db, ext: db}, nil
}

// ParseDatabaseURL maps a DATABASE_URL to a driver name and DSN. postgres://
// and postgresql:// select PostgreSQL; sqlite://, file: and bare paths select
// SQLite.
func ParseDatabaseURL(raw string) (driver, dsn string, err error) {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return "", "", errors.New("storage: empty database url")
	case strings.HasPrefix(raw, "postgres://"), strings.HasPrefix(raw, "postgresql://"):
		return DriverPostgres, raw, nil
	case strings.HasPrefix(raw, "sqlite://"):
		return DriverSQLite, strings.TrimPrefix(raw, "sqlite://"), nil
	case strings.Contains(raw, "://"):
		return "", "", fmt.Errorf("storage: unsupported database url scheme: %s", raw)
	default:
		return DriverSQLite, raw, nil
	}
}

// Open connects to the database named by a DATABASE_URL.
func Open(databaseURL string) (*SQLRepository, error) {
	driver, dsn, err := ParseDatabaseURL(databaseURL)
	if err != nil {
		return nil, err
	}
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("enable foreign keys: %w", err)
		}
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	repo, err := NewSQLRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLRepository) Close() error {
	return r.db.Close()
}

func (r *SQLRepository) DriverName() string {
	return r.db.DriverName()
}

func (r *SQLRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLRepository) MigrateUp() error {
	return MigrateUp(r.db)
}

func (r *SQLRepository) MigrateDown() error {
	return MigrateDown(r.db)
}

func (r *SQLRepository) WithTx(ctx context.Context, fn func(Repository) error) error {
	if _, inTx := r.ext.(*sqlx.Tx); inTx {
		return fn(r)
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(&SQLRepository{db: r.db, ext: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *SQLRepository) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return r.ext.ExecContext(ctx, r.ext.Rebind(query), args...)
}

func (r *SQLRepository) queryRow(ctx context.Context, query string, args ...any) *sqlx.Row {
	return r.ext.QueryRowxContext(ctx, r.ext.Rebind(query), args...)
}

func (r *SQLRepository) query(ctx context.Context, query string, args ...any) (*sqlx.Rows, error) {
	return r.ext.QueryxContext(ctx, r.ext.Rebind(query), args...)
}

const taskColumns = `id, title, description, status, priority, due_date, created_at, updated_at`

func (r *SQLRepository) CreateTask(ctx context.Context, in Task) error {
	_, err := r.exec(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.Title, in.Description, in.Status, in.Priority,
		nullTime(in.DueDate), mustTime(in.CreatedAt), mustTime(in.UpdatedAt),
	)
	return err
}

func (r *SQLRepository) GetTask(ctx context.Context, id string) (Task, error) {
	row := r.queryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Task{}, ErrNotFound
		}
		return Task{}, err
	}
	return task, nil
}

func (r *SQLRepository) UpdateTask(ctx context.Context, in Task) error {
	res, err := r.exec(ctx, `
		UPDATE tasks
		SET title = ?, description = ?, status = ?, priority = ?, due_date = ?, updated_at = ?
		WHERE id = ?`,
		in.Title, in.Description, in.Status, in.Priority, nullTime(in.DueDate), mustTime(in.UpdatedAt), in.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLRepository) DeleteTask(ctx context.Context, id string) error {
	res, err := r.exec(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLRepository) ListTasks(ctx context.Context, filter TaskListFilter) ([]Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks`
	args := make([]any, 0, 3)
	if filter.Status != "" {
		query += ` WHERE status = ?`
		args = append(args, filter.Status)
	}
	query += ` ORDER BY created_at DESC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Task, 0)
	for rows.Next() {
		task, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, task)
	}
	return out, rows.Err()
}

const inventoryColumns = `id, name, description, quantity, min_quantity, price, category, location, created_at, updated_at`

func (r *SQLRepository) CreateInventoryItem(ctx context.Context, in InventoryItem) error {
	_, err := r.exec(ctx, `
		INSERT INTO inventory_items (`+inventoryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.Name, in.Description, in.Quantity, in.MinQuantity, in.Price, in.Category, in.Location,
		mustTime(in.CreatedAt), mustTime(in.UpdatedAt),
	)
	return err
}

func (r *SQLRepository) GetInventoryItem(ctx context.Context, id string) (InventoryItem, error) {
	row := r.queryRow(ctx, `SELECT `+inventoryColumns+` FROM inventory_items WHERE id = ?`, id)
	item, err := scanInventoryItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return InventoryItem{}, ErrNotFound
		}
		return InventoryItem{}, err
	}
	return item, nil
}

func (r *SQLRepository) UpdateInventoryItem(ctx context.Context, in InventoryItem) error {
	res, err := r.exec(ctx, `
		UPDATE inventory_items
		SET name = ?, description = ?, quantity = ?, min_quantity = ?, price = ?, category = ?, location = ?, updated_at = ?
		WHERE id = ?`,
		in.Name, in.Description, in.Quantity, in.MinQuantity, in.Price, in.Category, in.Location,
		mustTime(in.UpdatedAt), in.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLRepository) DeleteInventoryItem(ctx context.Context, id string) error {
	res, err := r.exec(ctx, `DELETE FROM inventory_items WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLRepository) ListInventoryItems(ctx context.Context, filter InventoryListFilter) ([]InventoryItem, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory_items`
	args := make([]any, 0, 3)
	if filter.Category != "" {
		query += ` WHERE category = ?`
		args = append(args, filter.Category)
	}
	query += ` ORDER BY name ASC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]InventoryItem, 0)
	for rows.Next() {
		item, scanErr := scanInventoryItem(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

const transactionColumns = `id, type, amount, category, description, date, created_at, updated_at`

func (r *SQLRepository) CreateTransaction(ctx context.Context, in Transaction) error {
	_, err := r.exec(ctx, `
		INSERT INTO transactions (`+transactionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.Type, in.Amount, in.Category, in.Description,
		mustTime(in.Date), mustTime(in.CreatedAt), mustTime(in.UpdatedAt),
	)
	return err
}

func (r *SQLRepository) GetTransaction(ctx context.Context, id string) (Transaction, error) {
	row := r.queryRow(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)
	item, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Transaction{}, ErrNotFound
		}
		return Transaction{}, err
	}
	return item, nil
}

func (r *SQLRepository) UpdateTransaction(ctx context.Context, in Transaction) error {
	res, err := r.exec(ctx, `
		UPDATE transactions
		SET type = ?, amount = ?, category = ?, description = ?, date = ?, updated_at = ?
		WHERE id = ?`,
		in.Type, in.Amount, in.Category, in.Description, mustTime(in.Date), mustTime(in.UpdatedAt), in.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLRepository) DeleteTransaction(ctx context.Context, id string) error {
	res, err := r.exec(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLRepository) ListTransactions(ctx context.Context, filter TransactionListFilter) ([]Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions`
	args := make([]any, 0, 5)
	conds := make([]string, 0, 3)
	if filter.Type != "" {
		conds = append(conds, `type = ?`)
		args = append(args, filter.Type)
	}
	if filter.From != nil {
		conds = append(conds, `date >= ?`)
		args = append(args, mustTime(*filter.From))
	}
	if filter.To != nil {
		conds = append(conds, `date <= ?`)
		args = append(args, mustTime(*filter.To))
	}
	query += whereClause(conds)
	query += ` ORDER BY date DESC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Transaction, 0)
	for rows.Next() {
		item, scanErr := scanTransaction(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

const focusSessionColumns = `id, duration, start_time, end_time, type, completed, created_at, updated_at`

func (r *SQLRepository) CreateFocusSession(ctx context.Context, in FocusSession) error {
	_, err := r.exec(ctx, `
		INSERT INTO focus_sessions (`+focusSessionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.Duration, mustTime(in.StartTime), nullTime(in.EndTime), in.Type, boolInt(in.Completed),
		mustTime(in.CreatedAt), mustTime(in.UpdatedAt),
	)
	return err
}

func (r *SQLRepository) GetFocusSession(ctx context.Context, id string) (FocusSession, error) {
	row := r.queryRow(ctx, `SELECT `+focusSessionColumns+` FROM focus_sessions WHERE id = ?`, id)
	item, err := scanFocusSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return FocusSession{}, ErrNotFound
		}
		return FocusSession{}, err
	}
	return item, nil
}

func (r *SQLRepository) UpdateFocusSession(ctx context.Context, in FocusSession) error {
	res, err := r.exec(ctx, `
		UPDATE focus_sessions
		SET duration = ?, start_time = ?, end_time = ?, type = ?, completed = ?, updated_at = ?
		WHERE id = ?`,
		in.Duration, mustTime(in.StartTime), nullTime(in.EndTime), in.Type, boolInt(in.Completed),
		mustTime(in.UpdatedAt), in.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLRepository) DeleteFocusSession(ctx context.Context, id string) error {
	res, err := r.exec(ctx, `DELETE FROM focus_sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLRepository) ListFocusSessions(ctx context.Context, filter FocusSessionListFilter) ([]FocusSession, error) {
	query := `SELECT ` + focusSessionColumns + ` FROM focus_sessions`
	args := make([]any, 0, 5)
	conds := make([]string, 0, 3)
	if filter.From != nil {
		conds = append(conds, `start_time >= ?`)
		args = append(args, mustTime(*filter.From))
	}
	if filter.To != nil {
		conds = append(conds, `start_time <= ?`)
		args = append(args, mustTime(*filter.To))
	}
	if filter.CompletedOnly {
		conds = append(conds, `completed = ?`)
		args = append(args, 1)
	}
	query += whereClause(conds)
	query += ` ORDER BY start_time DESC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]FocusSession, 0)
	for rows.Next() {
		item, scanErr := scanFocusSession(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

const focusPresetColumns = `id, name, description, duration, type, created_at, updated_at`

func (r *SQLRepository) CreateFocusPreset(ctx context.Context, in FocusPreset) error {
	_, err := r.exec(ctx, `
		INSERT INTO focus_presets (`+focusPresetColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.Name, in.Description, in.Duration, in.Type, mustTime(in.CreatedAt), mustTime(in.UpdatedAt),
	)
	return err
}

func (r *SQLRepository) GetFocusPreset(ctx context.Context, id string) (FocusPreset, error) {
	row := r.queryRow(ctx, `SELECT `+focusPresetColumns+` FROM focus_presets WHERE id = ?`, id)
	item, err := scanFocusPreset(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return FocusPreset{}, ErrNotFound
		}
		return FocusPreset{}, err
	}
	return item, nil
}

func (r *SQLRepository) UpdateFocusPreset(ctx context.Context, in FocusPreset) error {
	res, err := r.exec(ctx, `
		UPDATE focus_presets
		SET name = ?, description = ?, duration = ?, type = ?, updated_at = ?
		WHERE id = ?`,
		in.Name, in.Description, in.Duration, in.Type, mustTime(in.UpdatedAt), in.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLRepository) DeleteFocusPreset(ctx context.Context, id string) error {
	res, err := r.exec(ctx, `DELETE FROM focus_presets WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLRepository) ListFocusPresets(ctx context.Context, filter FocusPresetListFilter) ([]FocusPreset, error) {
	query := `SELECT ` + focusPresetColumns + ` FROM focus_presets ORDER BY name ASC`
	args := make([]any, 0, 2)
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]FocusPreset, 0)
	for rows.Next() {
		item, scanErr := scanFocusPreset(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func nullTime(v *time.Time) any {
	if v == nil {
		return nil
	}
	return v.UTC().Format(timeLayout)
}

func mustTime(v time.Time) string {
	return v.UTC().Format(timeLayout)
}

func parseNullableTime(v sql.NullString) (*time.Time, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	tm, err := time.Parse(time.RFC3339Nano, v.String)
	if err != nil {
		return nil, err
	}
	return &tm, nil
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, v)
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func whereClause(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	return ` WHERE ` + strings.Join(conds, ` AND `)
}

// applyPagination appends LIMIT/OFFSET. OFFSET is only emitted with a
// LIMIT because SQLite rejects it on its own.
func applyPagination(args *[]any, limit, offset int) string {
	if limit <= 0 {
		return ""
	}
	sql := " LIMIT ?"
	*args = append(*args, limit)
	if offset > 0 {
		sql += " OFFSET ?"
		*args = append(*args, offset)
	}
	return sql
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (Task, error) {
	var out Task
	var due sql.NullString
	var created, updated string
	if err := s.Scan(&out.ID, &out.Title, &out.Description, &out.Status, &out.Priority, &due, &created, &updated); err != nil {
		return Task{}, err
	}
	dueDate, err := parseNullableTime(due)
	if err != nil {
		return Task{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return Task{}, err
	}
	updatedAt, err := parseRequiredTime(updated)
	if err != nil {
		return Task{}, err
	}
	out.DueDate = dueDate
	out.CreatedAt = createdAt
	out.UpdatedAt = updatedAt
	return out, nil
}

func scanInventoryItem(s scanner) (InventoryItem, error) {
	var out InventoryItem
	var created, updated string
	if err := s.Scan(&out.ID, &out.Name, &out.Description, &out.Quantity, &out.MinQuantity, &out.Price,
		&out.Category, &out.Location, &created, &updated); err != nil {
		return InventoryItem{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return InventoryItem{}, err
	}
	updatedAt, err := parseRequiredTime(updated)
	if err != nil {
		return InventoryItem{}, err
	}
	out.CreatedAt = createdAt
	out.UpdatedAt = updatedAt
	return out, nil
}

func scanTransaction(s scanner) (Transaction, error) {
	var out Transaction
	var date, created, updated string
	if err := s.Scan(&out.ID, &out.Type, &out.Amount, &out.Category, &out.Description, &date, &created, &updated); err != nil {
		return Transaction{}, err
	}
	dateAt, err := parseRequiredTime(date)
	if err != nil {
		return Transaction{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return Transaction{}, err
	}
	updatedAt, err := parseRequiredTime(updated)
	if err != nil {
		return Transaction{}, err
	}
	out.Date = dateAt
	out.CreatedAt = createdAt
	out.UpdatedAt = updatedAt
	return out, nil
}

func scanFocusSession(s scanner) (FocusSession, error) {
	var out FocusSession
	var start, created, updated string
	var end sql.NullString
	var completed int
	if err := s.Scan(&out.ID, &out.Duration, &start, &end, &out.Type, &completed, &created, &updated); err != nil {
		return FocusSession{}, err
	}
	startAt, err := parseRequiredTime(start)
	if err != nil {
		return FocusSession{}, err
	}
	endAt, err := parseNullableTime(end)
	if err != nil {
		return FocusSession{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return FocusSession{}, err
	}
	updatedAt, err := parseRequiredTime(updated)
	if err != nil {
		return FocusSession{}, err
	}
	out.StartTime = startAt
	out.EndTime = endAt
	out.Completed = completed == 1
	out.CreatedAt = createdAt
	out.UpdatedAt = updatedAt
	return out, nil
}

func scanFocusPreset(s scanner) (FocusPreset, error) {
	var out FocusPreset
	var created, updated string
	if err := s.Scan(&out.ID, &out.Name, &out.Description, &out.Duration, &out.Type, &created, &updated); err != nil {
		return FocusPreset{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return FocusPreset{}, err
	}
	updatedAt, err := parseRequiredTime(updated)
	if err != nil {
		return FocusPreset{}, err
	}
	out.CreatedAt = createdAt
	out.UpdatedAt = updatedAt
	return out, nil
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
