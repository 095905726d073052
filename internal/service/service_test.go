package service

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/sandeepkv93/nexusflow/internal/model"
	"github.com/sandeepkv93/nexusflow/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

type fixture struct {
	svc      *Services
	repo     *storage.SQLRepository
	clock    *fakeClock
	observer *recordingObserver
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingObserver struct {
	mu     sync.Mutex
	counts map[string]int
}

func (o *recordingObserver) Mutation(entity, op string, n int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.counts[entity+"/"+op] += n
}

func (o *recordingObserver) Count(key string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.counts[key]
}

func setup(t *testing.T) fixture {
	t.Helper()
	repo, err := storage.Open("sqlite://" + filepath.Join(t.TempDir(), "service-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	require.NoError(t, repo.MigrateUp())

	clock := &fakeClock{now: baseTime}
	observer := &recordingObserver{counts: map[string]int{}}
	seq := 0
	svc := New(repo,
		WithClock(clock.Now),
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("id-%03d", seq)
		}),
		WithObserver(observer),
	)
	return fixture{svc: svc, repo: repo, clock: clock, observer: observer}
}

func ptr[T any](v T) *T {
	return &v
}

func requireKind(t *testing.T, err error, kind Kind) *Error {
	t.Helper()
	require.Error(t, err)
	var se *Error
	require.ErrorAs(t, err, &se)
	require.Equal(t, kind, se.Kind)
	return se
}

func TestErrorFormatting(t *testing.T) {
	err := Internal("fetch tasks", fmt.Errorf("disk full"))
	assert.Equal(t, "INTERNAL_ERROR: Failed to fetch tasks: disk full", err.Error())
	assert.Equal(t, "NOT_FOUND: Task not found", NotFound("Task").Error())
	assert.Equal(t, KindInternal, KindOf(fmt.Errorf("plain")))
	assert.True(t, IsNotFound(fmt.Errorf("wrap: %w", NotFound("Task"))))
	assert.False(t, IsValidation(nil))
}

func TestValidationFlattensFieldErrors(t *testing.T) {
	err := Validation(model.TaskInput{Status: "nope", Priority: model.PriorityLow}.Validate())
	assert.Equal(t, "Validation error", err.Message)
	fields := map[string]bool{}
	for _, f := range err.Fields {
		fields[f.Field] = true
	}
	assert.True(t, fields["title"])
	assert.True(t, fields["status"])
}

func TestTaskLifecycle(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	due := baseTime.Add(48 * time.Hour)

	created, err := f.svc.Tasks.Create(ctx, model.TaskInput{
		Title:    "Plan sprint",
		Status:   model.TaskStatusTodo,
		Priority: model.PriorityHigh,
		DueDate:  &due,
	})
	require.NoError(t, err)
	assert.Equal(t, "id-001", created.ID)
	assert.Equal(t, baseTime, created.CreatedAt)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	f.clock.Advance(time.Minute)
	updated, err := f.svc.Tasks.Update(ctx, created.ID, model.TaskPatch{Status: ptr(model.TaskStatusInProgress)})
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusInProgress, updated.Status)
	assert.Equal(t, "Plan sprint", updated.Title)
	assert.Equal(t, baseTime.Add(time.Minute), updated.UpdatedAt)
	assert.Equal(t, baseTime, updated.CreatedAt)

	got, err := f.svc.Tasks.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusInProgress, got.Status)
	require.NotNil(t, got.DueDate)
	assert.True(t, got.DueDate.Equal(due))

	list, err := f.svc.Tasks.List(ctx, TaskFilter{Status: model.TaskStatusInProgress})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, f.svc.Tasks.Delete(ctx, created.ID))
	_, err = f.svc.Tasks.Get(ctx, created.ID)
	se := requireKind(t, err, KindNotFound)
	assert.Equal(t, "Task not found", se.Message)

	assert.Equal(t, 1, f.observer.Count("task/create"))
	assert.Equal(t, 1, f.observer.Count("task/update"))
	assert.Equal(t, 1, f.observer.Count("task/delete"))
}

func TestTaskValidationAndMissing(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.Tasks.Create(ctx, model.TaskInput{Title: "", Status: model.TaskStatusTodo, Priority: model.PriorityLow})
	requireKind(t, err, KindValidation)

	_, err = f.svc.Tasks.List(ctx, TaskFilter{Status: "ARCHIVED"})
	requireKind(t, err, KindValidation)

	_, err = f.svc.Tasks.Update(ctx, "missing", model.TaskPatch{Title: ptr("x")})
	requireKind(t, err, KindNotFound)

	err = f.svc.Tasks.Delete(ctx, "missing")
	requireKind(t, err, KindNotFound)

	assert.Equal(t, 0, f.observer.Count("task/create"))
}

func inventoryInput(name string, qty, minQty int) model.InventoryInput {
	return model.InventoryInput{
		Name:        name,
		Quantity:    qty,
		MinQuantity: minQty,
		Price:       2.5,
		Category:    string(model.InventoryOfficeSupplies),
		Location:    "Shelf A",
	}
}

func TestInventoryCRUD(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	item, err := f.svc.Inventory.Create(ctx, inventoryInput("Paper", 3, 5))
	require.NoError(t, err)
	assert.True(t, item.IsLowStock())

	updated, err := f.svc.Inventory.Update(ctx, item.ID, model.InventoryPatch{
		Quantity: ptr(20),
		Category: ptr(""),
	})
	require.NoError(t, err)
	assert.Equal(t, 20, updated.Quantity)
	assert.Equal(t, string(model.InventoryOfficeSupplies), updated.Category)
	assert.False(t, updated.IsLowStock())

	_, err = f.svc.Inventory.Update(ctx, item.ID, model.InventoryPatch{Quantity: ptr(-1)})
	requireKind(t, err, KindValidation)

	list, err := f.svc.Inventory.List(ctx, InventoryFilter{Category: string(model.InventoryOfficeSupplies)})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, f.svc.Inventory.Delete(ctx, item.ID))
	requireKind(t, f.svc.Inventory.Delete(ctx, item.ID), KindNotFound)
}

func TestInventoryBulkCreateIsAllOrNothing(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.Inventory.BulkCreate(ctx, []model.InventoryInput{
		inventoryInput("Pens", 10, 2),
		inventoryInput("", 1, 0),
	})
	se := requireKind(t, err, KindValidation)
	require.NotEmpty(t, se.Fields)
	assert.Equal(t, "[1].name", se.Fields[0].Field)

	list, err := f.svc.Inventory.List(ctx, InventoryFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)

	items, err := f.svc.Inventory.BulkCreate(ctx, []model.InventoryInput{
		inventoryInput("Pens", 10, 2),
		inventoryInput("Staples", 1, 4),
	})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 2, f.observer.Count("inventory/bulk_create"))

	_, err = f.svc.Inventory.BulkCreate(ctx, nil)
	requireKind(t, err, KindValidation)
}

func TestInventoryBulkUpdate(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	items, err := f.svc.Inventory.BulkCreate(ctx, []model.InventoryInput{
		inventoryInput("Pens", 10, 2),
		inventoryInput("Staples", 1, 4),
	})
	require.NoError(t, err)

	_, err = f.svc.Inventory.BulkUpdate(ctx, []model.InventoryUpdate{
		{ID: items[0].ID, Data: model.InventoryPatch{Quantity: ptr(0)}},
		{ID: "missing", Data: model.InventoryPatch{Quantity: ptr(5)}},
	})
	requireKind(t, err, KindNotFound)

	first, err := f.svc.Inventory.Get(ctx, items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 10, first.Quantity, "no update is applied when any id is missing")

	updated, err := f.svc.Inventory.BulkUpdate(ctx, []model.InventoryUpdate{
		{ID: items[0].ID, Data: model.InventoryPatch{Quantity: ptr(1)}},
		{ID: items[1].ID, Data: model.InventoryPatch{Location: ptr("Drawer")}},
	})
	require.NoError(t, err)
	require.Len(t, updated, 2)
	assert.Equal(t, 1, updated[0].Quantity)
	assert.Equal(t, "Drawer", updated[1].Location)

	_, err = f.svc.Inventory.BulkUpdate(ctx, []model.InventoryUpdate{{Data: model.InventoryPatch{Price: ptr(-2.0)}}})
	se := requireKind(t, err, KindValidation)
	fields := []string{}
	for _, fe := range se.Fields {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"[0].id", "[0].data.price"}, fields)
}

func TestInventoryBulkDelete(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	items, err := f.svc.Inventory.BulkCreate(ctx, []model.InventoryInput{
		inventoryInput("Pens", 10, 2),
		inventoryInput("Staples", 1, 4),
		inventoryInput("Tape", 3, 1),
	})
	require.NoError(t, err)

	err = f.svc.Inventory.BulkDelete(ctx, []string{items[0].ID, "missing"})
	requireKind(t, err, KindNotFound)
	list, err := f.svc.Inventory.List(ctx, InventoryFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 3)

	require.NoError(t, f.svc.Inventory.BulkDelete(ctx, []string{items[0].ID, items[1].ID, items[0].ID}))
	list, err = f.svc.Inventory.List(ctx, InventoryFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Tape", list[0].Name)
	assert.Equal(t, 2, f.observer.Count("inventory/bulk_delete"))

	requireKind(t, f.svc.Inventory.BulkDelete(ctx, []string{}), KindValidation)
}

func TestFinanceCRUDAndStats(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	march := func(day int) time.Time { return time.Date(2026, 3, day, 12, 0, 0, 0, time.UTC) }

	inputs := []model.TransactionInput{
		{Type: model.TransactionIncome, Amount: 3000, Category: model.CategorySalary, Date: march(1)},
		{Type: model.TransactionExpense, Amount: 120.5, Category: model.CategoryFood, Date: march(5)},
		{Type: model.TransactionExpense, Amount: 80, Category: model.CategoryFood, Date: march(20)},
		{Type: model.TransactionExpense, Amount: 999, Category: model.CategoryShopping, Date: time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)},
	}
	for _, in := range inputs {
		_, err := f.svc.Finance.Create(ctx, in)
		require.NoError(t, err)
	}

	stats, err := f.svc.Finance.Stats(ctx, model.DateRange{StartDate: march(1), EndDate: march(20)})
	require.NoError(t, err)
	assert.InDelta(t, 3000, stats.TotalIncome, 0.001)
	assert.InDelta(t, 200.5, stats.TotalExpenses, 0.001)
	assert.InDelta(t, 2799.5, stats.Balance, 0.001)
	assert.InDelta(t, 200.5, stats.ByCategory[model.CategoryFood], 0.001)
	assert.NotContains(t, stats.ByCategory, model.CategoryShopping)

	_, err = f.svc.Finance.Stats(ctx, model.DateRange{StartDate: march(20), EndDate: march(1)})
	requireKind(t, err, KindValidation)

	expenses, err := f.svc.Finance.List(ctx, TransactionFilter{Type: model.TransactionExpense})
	require.NoError(t, err)
	assert.Len(t, expenses, 3)
	assert.True(t, expenses[0].Date.After(expenses[1].Date), "newest first")
}

func TestFinanceUpdateValidatesMergedTransaction(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	tx, err := f.svc.Finance.Create(ctx, model.TransactionInput{
		Type: model.TransactionExpense, Amount: 10, Category: model.CategoryFood, Date: baseTime,
	})
	require.NoError(t, err)

	_, err = f.svc.Finance.Update(ctx, tx.ID, model.TransactionPatch{Type: ptr(model.TransactionIncome)})
	se := requireKind(t, err, KindValidation)
	require.Len(t, se.Fields, 1)
	assert.Equal(t, "category", se.Fields[0].Field)

	updated, err := f.svc.Finance.Update(ctx, tx.ID, model.TransactionPatch{
		Type:     ptr(model.TransactionIncome),
		Category: ptr(model.CategoryOtherIncome),
	})
	require.NoError(t, err)
	assert.Equal(t, model.TransactionIncome, updated.Type)

	_, err = f.svc.Finance.Update(ctx, "missing", model.TransactionPatch{Amount: ptr(1.0)})
	requireKind(t, err, KindNotFound)
	require.NoError(t, f.svc.Finance.Delete(ctx, tx.ID))
}

func TestFocusSessionsAndStats(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	end := baseTime.Add(25 * time.Minute)

	done, err := f.svc.Focus.Create(ctx, model.FocusSessionInput{
		Duration: 25, StartTime: baseTime, EndTime: &end, Type: model.FocusTypeFocus,
	})
	require.NoError(t, err)
	assert.True(t, done.Completed)

	running, err := f.svc.Focus.Create(ctx, model.FocusSessionInput{
		Duration: 5, StartTime: baseTime.Add(30 * time.Minute), Type: model.FocusTypeBreak,
	})
	require.NoError(t, err)
	assert.False(t, running.Completed)
	assert.Nil(t, running.EndTime)

	window := model.DateRange{StartDate: baseTime.Add(-time.Hour), EndDate: baseTime.Add(time.Hour)}
	stats, err := f.svc.Focus.Stats(ctx, window)
	require.NoError(t, err)
	assert.Equal(t, model.FocusStats{TotalSessions: 1, TotalFocusTime: 25, CompletedSessions: 1}, stats)

	f.clock.Advance(40 * time.Minute)
	completed, err := f.svc.Focus.Complete(ctx, running.ID)
	require.NoError(t, err)
	assert.True(t, completed.Completed)
	require.NotNil(t, completed.EndTime)
	assert.Equal(t, baseTime.Add(40*time.Minute), *completed.EndTime)

	stats, err = f.svc.Focus.Stats(ctx, window)
	require.NoError(t, err)
	assert.Equal(t, model.FocusStats{TotalSessions: 2, TotalFocusTime: 25, TotalBreakTime: 5, CompletedSessions: 2}, stats)

	_, err = f.svc.Focus.Update(ctx, done.ID, model.FocusSessionPatch{EndTime: ptr(baseTime.Add(-time.Minute))})
	requireKind(t, err, KindValidation)

	_, err = f.svc.Focus.Complete(ctx, "missing")
	requireKind(t, err, KindNotFound)

	list, err := f.svc.Focus.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, running.ID, list[0].ID)
}

func TestFocusPresets(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	defaults, err := f.svc.Focus.ListPresets(ctx)
	require.NoError(t, err)
	assert.Len(t, defaults, 4)

	preset, err := f.svc.Focus.CreatePreset(ctx, model.FocusPresetInput{Name: "Sprint", Duration: 15, Type: model.FocusTypeFocus})
	require.NoError(t, err)

	_, err = f.svc.Focus.CreatePreset(ctx, model.FocusPresetInput{Name: "Bad", Duration: 0, Type: model.FocusTypeFocus})
	requireKind(t, err, KindValidation)

	updated, err := f.svc.Focus.UpdatePreset(ctx, preset.ID, model.FocusPresetPatch{Duration: ptr(20)})
	require.NoError(t, err)
	assert.Equal(t, 20, updated.Duration)
	assert.Equal(t, "Sprint", updated.Name)

	require.NoError(t, f.svc.Focus.DeletePreset(ctx, preset.ID))
	_, err = f.svc.Focus.GetPreset(ctx, preset.ID)
	requireKind(t, err, KindNotFound)
}
