package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/sandeepkv93/nexusflow/internal/httputil"
	"github.com/sandeepkv93/nexusflow/internal/metrics"
	"github.com/sandeepkv93/nexusflow/internal/middleware"
	"github.com/sandeepkv93/nexusflow/internal/model"
	"github.com/sandeepkv93/nexusflow/internal/service"
	"github.com/sandeepkv93/nexusflow/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, mutate func(*Options)) http.Handler {
	t.Helper()
	repo, err := storage.Open("sqlite://" + filepath.Join(t.TempDir(), "api-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	require.NoError(t, repo.MigrateUp())

	svc := service.New(repo, service.WithClock(func() time.Time { return fixedNow }))
	opts := Options{
		Logger:      zerolog.Nop(),
		CORSOrigins: []string{"http://localhost:5173"},
		Ping:        repo.Ping,
		Now:         func() time.Time { return fixedNow },
	}
	if mutate != nil {
		mutate(&opts)
	}
	return NewRouter(svc, opts)
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	h := newTestServer(t, nil)
	rec := do(t, h, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]string](t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "2026-05-01T08:00:00Z", body["timestamp"])
}

func TestHealthReportsDatabaseFailure(t *testing.T) {
	h := newTestServer(t, func(o *Options) {
		o.Ping = func(context.Context) error { return errors.New("down") }
	})
	rec := do(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestTaskEndpoints(t *testing.T) {
	h := newTestServer(t, nil)

	rec := do(t, h, http.MethodPost, "/api/tasks", map[string]any{
		"title": "Write report", "status": "TODO", "priority": "HIGH",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[model.Task](t, rec)
	assert.NotEmpty(t, created.ID)

	rec = do(t, h, http.MethodPatch, "/api/tasks/"+created.ID, map[string]any{"status": "DONE"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.TaskStatusDone, decode[model.Task](t, rec).Status)

	rec = do(t, h, http.MethodPut, "/api/tasks/"+created.ID, map[string]any{"title": "Final report"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/tasks?status=DONE", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	tasks := decode[[]model.Task](t, rec)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Final report", tasks[0].Title)

	rec = do(t, h, http.MethodDelete, "/api/tasks/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = do(t, h, http.MethodDelete, "/api/tasks/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decode[httputil.ErrorBody](t, rec)
	assert.Equal(t, httputil.CodeNotFound, body.Error.Code)
	assert.Equal(t, "Task not found", body.Error.Message)
}

func TestValidationErrorsCarryFieldDetails(t *testing.T) {
	h := newTestServer(t, nil)

	rec := do(t, h, http.MethodPost, "/api/tasks", map[string]any{
		"title": strings.Repeat("x", 101), "status": "LATER", "priority": "HIGH",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Error struct {
			Code    string               `json:"code"`
			Details []service.FieldError `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, httputil.CodeValidation, body.Error.Code)
	fields := []string{}
	for _, d := range body.Error.Details {
		fields = append(fields, d.Field)
	}
	assert.ElementsMatch(t, []string{"title", "status"}, fields)
}

func TestMalformedJSONIsValidationError(t *testing.T) {
	h := newTestServer(t, nil)
	for _, body := range []string{"{not json", ""} {
		rec := do(t, h, http.MethodPost, "/api/inventory", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, httputil.CodeValidation, decode[httputil.ErrorBody](t, rec).Error.Code)
	}
}

func TestInventoryBulkEndpoints(t *testing.T) {
	h := newTestServer(t, nil)

	rec := do(t, h, http.MethodPost, "/api/inventory/bulk", []map[string]any{
		{"name": "Pens", "quantity": 10, "minQuantity": 2, "price": 1.5, "category": "office_supplies", "location": "A"},
		{"name": "Chair", "quantity": 1, "minQuantity": 1, "price": 90, "category": "furniture", "location": "B"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	items := decode[[]model.InventoryItem](t, rec)
	require.Len(t, items, 2)

	rec = do(t, h, http.MethodPatch, "/api/inventory/bulk", []map[string]any{
		{"id": items[0].ID, "data": map[string]any{"quantity": 4}},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 4, decode[[]model.InventoryItem](t, rec)[0].Quantity)

	rec = do(t, h, http.MethodPatch, "/api/inventory/"+items[0].ID, map[string]any{"quantity": -3})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(t, h, http.MethodGet, "/api/inventory/"+items[0].ID, nil)
	assert.Equal(t, 4, decode[model.InventoryItem](t, rec).Quantity)

	rec = do(t, h, http.MethodDelete, "/api/inventory/bulk", map[string]any{"ids": []string{items[0].ID, "missing"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodDelete, "/api/inventory/bulk", map[string]any{"ids": []string{items[0].ID, items[1].ID}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]bool{"success": true}, decode[map[string]bool](t, rec))

	rec = do(t, h, http.MethodGet, "/api/inventory", nil)
	assert.Empty(t, decode[[]model.InventoryItem](t, rec))
}

func TestFinanceEndpoints(t *testing.T) {
	h := newTestServer(t, nil)
	post := func(kind, category string, amount float64, date string) {
		rec := do(t, h, http.MethodPost, "/api/finance", map[string]any{
			"type": kind, "category": category, "amount": amount, "date": date,
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}
	post("income", "salary", 100, "2026-04-01T00:00:00Z")
	post("expense", "food", 50, "2026-04-02T00:00:00Z")
	post("expense", "utilities", 20, "2026-06-02T00:00:00Z")

	rec := do(t, h, http.MethodPost, "/api/finance", map[string]any{
		"type": "income", "category": "food", "amount": 1, "date": "2026-04-01T00:00:00Z",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/finance/stats", map[string]any{
		"startDate": "2026-04-01T00:00:00Z", "endDate": "2026-04-30T23:59:59Z",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[model.FinanceStats](t, rec)
	assert.InDelta(t, 100, stats.TotalIncome, 0.001)
	assert.InDelta(t, 50, stats.TotalExpenses, 0.001)
	assert.InDelta(t, 50, stats.Balance, 0.001)

	rec = do(t, h, http.MethodGet, "/api/finance?type=expense&from=2026-06-01", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.Transaction](t, rec), 1)

	rec = do(t, h, http.MethodGet, "/api/finance?from=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFocusEndpoints(t *testing.T) {
	h := newTestServer(t, nil)

	rec := do(t, h, http.MethodGet, "/api/focus/presets", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.FocusPreset](t, rec), 4)

	rec = do(t, h, http.MethodPost, "/api/focus", map[string]any{
		"duration": 25, "startTime": "2026-05-01T07:00:00Z", "type": "focus",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	session := decode[model.FocusSession](t, rec)
	assert.False(t, session.Completed)

	rec = do(t, h, http.MethodPost, fmt.Sprintf("/api/focus/%s/complete", session.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	completed := decode[model.FocusSession](t, rec)
	assert.True(t, completed.Completed)
	require.NotNil(t, completed.EndTime)
	assert.True(t, completed.EndTime.Equal(fixedNow))

	rec = do(t, h, http.MethodPost, "/api/focus/stats", map[string]any{
		"startDate": "2026-05-01T00:00:00Z", "endDate": "2026-05-01T23:59:59Z",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.FocusStats{TotalSessions: 1, TotalFocusTime: 25, CompletedSessions: 1}, decode[model.FocusStats](t, rec))

	rec = do(t, h, http.MethodPost, "/api/focus/presets", map[string]any{"name": "Quick", "duration": 10, "type": "break"})
	require.Equal(t, http.StatusCreated, rec.Code)
	preset := decode[model.FocusPreset](t, rec)

	rec = do(t, h, http.MethodPut, "/api/focus/presets/"+preset.ID, map[string]any{"duration": 12})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 12, decode[model.FocusPreset](t, rec).Duration)

	rec = do(t, h, http.MethodDelete, "/api/focus/presets/"+preset.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodDelete, "/api/focus/"+session.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, h, http.MethodGet, "/api/focus/"+session.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUnknownRouteAndMethod(t *testing.T) {
	h := newTestServer(t, nil)
	rec := do(t, h, http.MethodGet, "/api/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, httputil.CodeNotFound, decode[httputil.ErrorBody](t, rec).Error.Code)
}

func TestAuthAndMetricsWiring(t *testing.T) {
	m := metrics.New()
	h := newTestServer(t, func(o *Options) {
		o.AuthSecret = "secret"
		o.Metrics = m
	})

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/health", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, h, http.MethodGet, "/api/tasks", nil).Code)

	token, err := middleware.IssueToken("secret", "tester", jwtClaimsValidForHour())
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `nexusflow_http_requests_total{method="GET",route="/api/tasks",status="200"} 1`)
}

func TestRateLimitWiring(t *testing.T) {
	h := newTestServer(t, func(o *Options) {
		o.RateLimiter = middleware.NewRateLimiter(1)
	})
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/tasks", nil).Code)
	rec := do(t, h, http.MethodGet, "/api/tasks", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, httputil.CodeRateLimited, decode[httputil.ErrorBody](t, rec).Error.Code)
}

func jwtClaimsValidForHour() jwt.RegisteredClaims {
	return jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}
}
