package v1

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockview/internal/domain/views"
	"stockview/internal/infrastructure/cache"
	"stockview/internal/infrastructure/metrics"
	"stockview/internal/metadata"
	"stockview/pkg/logger"
)

type stubSource map[string][]any

func (s stubSource) Records(_ context.Context, collection string, _ bool) ([]any, error) {
	records, ok := s[collection]
	if !ok {
		return nil, errors.New("backend down")
	}
	return records, nil
}

type stubBackend struct{ err error }

func (b stubBackend) Version(context.Context) (map[string]any, error) {
	return map[string]any{"server_version": "17.0"}, b.err
}

type stubSnapshots struct {
	oldest time.Time
	loaded bool
}

func (s stubSnapshots) GetStats() cache.Stats {
	return cache.Stats{Collections: []cache.CollectionStats{{Name: "transfers", Records: 2}}}
}

func (s stubSnapshots) OnDemand() bool { return false }

func (s stubSnapshots) OldestFetch() (time.Time, bool) { return s.oldest, s.loaded }

func testConfig() RouterConfig {
	reg := metadata.NewRegistry()
	reg.Register(metadata.EntityDef{Name: "transfers", Type: metadata.TypeView})

	return RouterConfig{
		Logger: logger.Nop(),
		Views: views.NewService(stubSource{
			"transfers": {
				map[string]any{"id": 1, "name": "WH/INT/001", "state": "assigned"},
				map[string]any{"id": 2, "name": "WH/OUT/002", "state": "done"},
			},
		}, nil),
		MetadataRegistry: reg,
		Metrics:          metrics.NewRegistry(),
		Backend:          stubBackend{},
		Snapshots:        stubSnapshots{oldest: time.Now(), loaded: true},
		MaxSnapshotAge:   time.Hour,
		Version:          "test",
	}
}

func do(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	if strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "{") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func TestNormalize_IsolatesBadRecord(t *testing.T) {
	router := NewRouter(testConfig())

	rec, body := do(t, router, http.MethodPost, "/api/v1/normalize/transfers", `[
		{"id": 7, "name": "WH/INT/00007", "state": "assigned", "partner_id": [3, "Azure Interior"], "move_line_ids": [1, 2, 3]},
		42,
		{"name": "WH/INT/00008"}
	]`)
	require.Equal(t, http.StatusOK, rec.Code)

	items := body["items"].([]any)
	require.Len(t, items, 2)
	first := items[0].(map[string]any)
	assert.Equal(t, "7", first["id"])
	assert.Equal(t, "ready", first["status"])
	assert.Equal(t, "Azure Interior", first["contact"])
	assert.EqualValues(t, 3, first["operations"])
	assert.Equal(t, "draft", items[1].(map[string]any)["status"])

	errs := body["errors"].([]any)
	require.Len(t, errs, 1)
	assert.EqualValues(t, 1, errs[0].(map[string]any)["index"])
	assert.Equal(t, "MALFORMED_RECORD", errs[0].(map[string]any)["code"])
}

func TestNormalize_Valuation(t *testing.T) {
	router := NewRouter(testConfig())

	rec, body := do(t, router, http.MethodPost, "/api/v1/normalize/valuation", `{
		"quants": [{"product_id": [1, "Desk"], "quantity": 2}, {"product_id": [1, "Desk"], "quantity": 1.5}],
		"products": [{"id": 1, "display_name": "Desk", "standard_price": 10.1}]
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	items := body["items"].([]any)
	require.Len(t, items, 1)
	line := items[0].(map[string]any)
	assert.EqualValues(t, 3.5, line["quantity"])
	assert.Equal(t, "35.35", line["totalValue"])
	assert.Equal(t, "Uncategorized", line["category"])
}

func TestNormalize_Errors(t *testing.T) {
	router := NewRouter(testConfig())

	tests := []struct {
		name   string
		target string
		body   string
		status int
		code   string
	}{
		{"unknown entity", "/api/v1/normalize/invoices", `[]`, http.StatusNotFound, "UNKNOWN_ENTITY"},
		{"object instead of array", "/api/v1/normalize/rules", `{"id": 1}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"broken json", "/api/v1/normalize/rules", `[{"id": `, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"valuation not object", "/api/v1/normalize/valuation", `[1]`, http.StatusBadRequest, "VALIDATION_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := do(t, router, http.MethodPost, tt.target, tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, body["code"])
		})
	}
}

func TestViews_ListAndFilter(t *testing.T) {
	router := NewRouter(testConfig())

	rec, body := do(t, router, http.MethodGet, "/api/v1/views/transfers?filter=status:eq:ready", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2, body["total"])
	assert.EqualValues(t, 1, body["count"])

	rec, body = do(t, router, http.MethodGet, `/api/v1/views/transfers?where=item.reference.contains(%22OUT%22)`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, body["count"])
}

func TestViews_Errors(t *testing.T) {
	router := NewRouter(testConfig())

	tests := []struct {
		name   string
		target string
		status int
		code   string
	}{
		{"bad filter", "/api/v1/views/transfers?filter=status:like:x", http.StatusBadRequest, "VALIDATION_ERROR"},
		{"bad expression", "/api/v1/views/transfers?where=item.status%20==", http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unknown entity", "/api/v1/views/invoices", http.StatusNotFound, "UNKNOWN_ENTITY"},
		{"backend down", "/api/v1/views/rules", http.StatusBadGateway, "BACKEND_UNAVAILABLE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := do(t, router, http.MethodGet, tt.target, "")
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, body["code"])
		})
	}
}

func TestViews_Summary(t *testing.T) {
	router := NewRouter(testConfig())

	rec, body := do(t, router, http.MethodGet, "/api/v1/views/transfers/summary", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"ready": 1.0, "done": 1.0}, body["byStatus"])
}

func TestMeta(t *testing.T) {
	router := NewRouter(testConfig())

	rec, _ := do(t, router, http.MethodGet, "/api/v1/meta/entities", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"transfers"`)

	rec, body := do(t, router, http.MethodGet, "/api/v1/meta/entities/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "UNKNOWN_ENTITY", body["code"])
}

func TestHealth(t *testing.T) {
	cfg := testConfig()
	rec, _ := do(t, NewRouter(cfg), http.MethodGet, "/health/ready", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	cfg.Backend = stubBackend{err: errors.New("refused")}
	rec, body := do(t, NewRouter(cfg), http.MethodGet, "/health/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, body["checks"].(map[string]any)["backend"], "refused")

	cfg = testConfig()
	cfg.Snapshots = stubSnapshots{oldest: time.Now().Add(-2 * time.Hour), loaded: true}
	rec, _ = do(t, NewRouter(cfg), http.MethodGet, "/health/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec, _ = do(t, NewRouter(cfg), http.MethodGet, "/health/live", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealth_OnDemandSnapshotsAreReady(t *testing.T) {
	store := cache.NewSnapshotStore(cache.FetcherFunc(func(context.Context, string) ([]any, error) {
		return []any{}, nil
	}), cache.Config{RefreshInterval: 5 * time.Minute})
	require.NoError(t, store.Start(context.Background()))
	defer store.Stop()

	cfg := testConfig()
	cfg.Snapshots = store
	cfg.MaxSnapshotAge = 15 * time.Minute

	rec, body := do(t, NewRouter(cfg), http.MethodGet, "/health/ready", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "on-demand", body["checks"].(map[string]any)["snapshots"])
}

func TestTraceHeaders(t *testing.T) {
	router := NewRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	req.Header.Set("X-Request-ID", "req-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "req-1", rec.Header().Get("X-Request-ID"))
	assert.NotEmpty(t, rec.Header().Get("X-Trace-ID"))
}

func TestRecovery(t *testing.T) {
	router := NewRouter(testConfig())
	router.GET("/boom", func(*gin.Context) { panic("boom") })

	rec, body := do(t, router, http.MethodGet, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "INTERNAL_ERROR", body["code"])
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestMetricsEndpoint(t *testing.T) {
	cfg := testConfig()
	router := NewRouter(cfg)
	do(t, router, http.MethodPost, "/api/v1/normalize/scraps", `[{"name": "SP/1"}, "x"]`)

	rec, _ := do(t, router, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `stockview_records_rejected_total{entity="scraps"} 1`)
}

func TestNewHandler_Gzip(t *testing.T) {
	records := make([]string, 200)
	for i := range records {
		records[i] = `{"name": "WH/INT/00001", "state": "done", "origin": "SO-0001"}`
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/normalize/transfers", strings.NewReader("["+strings.Join(records, ",")+"]"))
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()

	NewHandler(testConfig()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
}
