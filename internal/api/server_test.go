package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/okra/internal/app"
	"github.com/alexanderramin/okra/internal/domain"
	"github.com/alexanderramin/okra/internal/intelligence"
	"github.com/alexanderramin/okra/internal/progress"
	"github.com/alexanderramin/okra/internal/service"
	"github.com/alexanderramin/okra/internal/telemetry"
	"github.com/alexanderramin/okra/internal/testutil"
)

type harness struct {
	t      *testing.T
	set    *service.Set
	server *Server
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	reg := prometheus.NewRegistry()
	metrics, err := telemetry.NewMetrics(reg)
	require.NoError(t, err)

	set := service.NewSet(testutil.NewTestDB(t), progress.Default(), metrics)
	suggestions, err := intelligence.NewSuggestionService(set.KeyResults, set.Objectives, set.Calc, nil, 4)
	require.NoError(t, err)

	srv := NewServer(Services{
		Objectives:  set.Objectives,
		KeyResults:  set.KeyResults,
		Initiatives: set.Initiatives,
		Metrics:     set.Metrics,
		Dashboard:   set.Dashboard,
		Preview:     set.Preview,
		Suggestions: suggestions,
		Calc:        set.Calc,
		Gatherer:    reg,
	}, Options{CORSOrigins: []string{"http://localhost:5173"}})
	return &harness{t: t, set: set, server: srv}
}

func (h *harness) do(method, path string, body any) *httptest.ResponseRecorder {
	h.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(h.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

// seed creates GRO01 with one increase_to key result (0 -> 100).
func (h *harness) seed() (objectiveJSON, measuredJSON) {
	h.t.Helper()
	rec := h.do(http.MethodPost, "/api/v1/objectives", map[string]any{
		"short_id": "GRO01", "title": "Grow revenue", "period": "2026-Q4",
	})
	require.Equal(h.t, http.StatusCreated, rec.Code, rec.Body.String())
	obj := decode[objectiveJSON](h.t, rec)

	rec = h.do(http.MethodPost, "/api/v1/objectives/GRO01/key-results", map[string]any{
		"title": "Reach 100 customers", "type": "increase_to", "base_value": "0", "target_value": 100,
	})
	require.Equal(h.t, http.StatusCreated, rec.Code, rec.Body.String())
	return obj, decode[measuredJSON](h.t, rec)
}

func TestHealth(t *testing.T) {
	h := newHarness(t)
	rec := h.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestObjectiveLifecycle(t *testing.T) {
	h := newHarness(t)
	obj, _ := h.seed()
	assert.Equal(t, "GRO01", obj.ShortID)
	assert.Equal(t, domain.ObjectiveActive, obj.Status)

	rec := h.do(http.MethodGet, "/api/v1/objectives/gro01", nil)
	require.Equal(t, http.StatusOK, rec.Code, "short IDs resolve case-insensitively")
	assert.Equal(t, obj.ID, decode[objectiveJSON](t, rec).ID)

	rec = h.do(http.MethodPut, "/api/v1/objectives/GRO01", map[string]any{"title": "Grow ARR", "target_date": "2026-12-31"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[objectiveJSON](t, rec)
	assert.Equal(t, "Grow ARR", updated.Title)
	require.NotNil(t, updated.TargetDate)
	assert.Equal(t, "2026-12-31", *updated.TargetDate)
	assert.Equal(t, "2026-Q4", updated.Period, "omitted fields are kept")

	rec = h.do(http.MethodPost, "/api/v1/objectives/GRO01/archive", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(http.MethodGet, "/api/v1/objectives", nil)
	assert.Empty(t, decode[[]objectiveJSON](t, rec))
	rec = h.do(http.MethodGet, "/api/v1/objectives?archived=true", nil)
	assert.Len(t, decode[[]objectiveJSON](t, rec), 1)

	rec = h.do(http.MethodPost, "/api/v1/objectives/GRO01/unarchive", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(http.MethodDelete, "/api/v1/objectives/GRO01?force=true", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = h.do(http.MethodGet, "/api/v1/objectives/GRO01", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateObjective_Errors(t *testing.T) {
	h := newHarness(t)
	h.seed()

	rec := h.do(http.MethodPost, "/api/v1/objectives", map[string]any{"short_id": "bad", "title": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[errorBody](t, rec)
	require.Len(t, body.Fields, 1)
	assert.Equal(t, "short_id", body.Fields[0].Field)

	rec = h.do(http.MethodPost, "/api/v1/objectives", map[string]any{"short_id": "GRO01", "title": "dup"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = h.do(http.MethodPost, "/api/v1/objectives", map[string]any{"short_id": "NEW01", "title": "x", "target_date": "soon"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(http.MethodPost, "/api/v1/objectives", map[string]any{"short_id": "NEW01", "title": "x", "parent_id": "NOPE01"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/objectives", strings.NewReader("{"))
	rec = httptest.NewRecorder()
	h.server.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestKeyResultCheckIn(t *testing.T) {
	h := newHarness(t)
	_, kr := h.seed()
	assert.Equal(t, domain.StatusNotStarted, kr.Progress.Status)

	rec := h.do(http.MethodPost, "/api/v1/key-results/"+kr.ID+"/check-ins", map[string]any{"value": "85", "note": "great week"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	res := decode[checkInResultJSON](t, rec)
	assert.Equal(t, 85.0, res.Progress.Percentage)
	assert.Equal(t, domain.StatusOnTrack, res.Progress.Status)
	assert.True(t, res.Crossed)
	assert.Equal(t, apiSource, res.CheckIn.Source)

	rec = h.do(http.MethodPost, "/api/v1/key-results/"+kr.ID+"/check-ins", map[string]any{"value": "lots"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = h.do(http.MethodPost, "/api/v1/key-results/"+kr.ID+"/check-ins", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(http.MethodGet, "/api/v1/key-results/"+kr.ID+"/check-ins?limit=5", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	history := decode[[]checkInJSON](t, rec)
	require.Len(t, history, 1)
	assert.Equal(t, "great week", history[0].Note)

	rec = h.do(http.MethodGet, "/api/v1/key-results/"+kr.ID+"/check-ins?limit=0", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestKeyResultCRUD(t *testing.T) {
	h := newHarness(t)
	_, kr := h.seed()

	rec := h.do(http.MethodPost, "/api/v1/objectives/GRO01/key-results", map[string]any{"title": "No target", "type": "increase_to"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = h.do(http.MethodPost, "/api/v1/objectives/GRO01/key-results", map[string]any{"title": "Bad type", "type": "grow_by", "target_value": 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(http.MethodPut, "/api/v1/key-results/"+kr.ID, map[string]any{"target_value": 200, "unit": "currency"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[measuredJSON](t, rec)
	assert.Equal(t, 200.0, got.Measure.TargetValue)
	assert.Equal(t, domain.UnitCurrency, got.Measure.Unit)
	assert.Equal(t, "Reach 100 customers", got.Title)

	rec = h.do(http.MethodGet, "/api/v1/objectives/GRO01/key-results", nil)
	assert.Len(t, decode[[]measuredJSON](t, rec), 1)

	rec = h.do(http.MethodDelete, "/api/v1/key-results/"+kr.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = h.do(http.MethodGet, "/api/v1/key-results/"+kr.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInitiativesTasksAndMetrics(t *testing.T) {
	h := newHarness(t)
	_, kr := h.seed()

	rec := h.do(http.MethodPost, "/api/v1/key-results/"+kr.ID+"/initiatives", map[string]any{"title": "Launch referrals", "due_date": "2026-11-30"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	in := decode[initiativeJSON](t, rec)
	assert.Equal(t, domain.InitiativePlanned, in.Status)

	rec = h.do(http.MethodPut, "/api/v1/initiatives/"+in.ID+"/status", map[string]any{"status": "in_progress"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.InitiativeInProgress, decode[initiativeJSON](t, rec).Status)
	rec = h.do(http.MethodPut, "/api/v1/initiatives/"+in.ID+"/status", map[string]any{"status": "exploded"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(http.MethodPost, "/api/v1/initiatives/"+in.ID+"/tasks", map[string]any{"title": "Design reward"})
	require.Equal(t, http.StatusCreated, rec.Code)
	task := decode[taskJSON](t, rec)

	rec = h.do(http.MethodPost, "/api/v1/tasks/"+task.ID+"/reopen", nil)
	assert.Equal(t, http.StatusConflict, rec.Code, "reopening an open task")
	rec = h.do(http.MethodPost, "/api/v1/tasks/"+task.ID+"/done", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[taskJSON](t, rec).Done)

	rec = h.do(http.MethodGet, "/api/v1/initiatives/"+in.ID+"/tasks", nil)
	assert.Len(t, decode[[]taskJSON](t, rec), 1)

	rec = h.do(http.MethodPost, "/api/v1/initiatives/"+in.ID+"/success-metrics", map[string]any{
		"title": "Referral share", "type": "increase_to", "unit": "percentage", "base_value": 0, "target_value": 20,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	metric := decode[measuredJSON](t, rec)

	rec = h.do(http.MethodPost, "/api/v1/success-metrics/"+metric.ID+"/check-ins", map[string]any{"value": 10})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 50.0, decode[checkInResultJSON](t, rec).Progress.Percentage)

	rec = h.do(http.MethodGet, "/api/v1/success-metrics/"+metric.ID+"/check-ins", nil)
	assert.Len(t, decode[[]checkInJSON](t, rec), 1)

	rec = h.do(http.MethodDelete, "/api/v1/tasks/"+task.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = h.do(http.MethodDelete, "/api/v1/success-metrics/"+metric.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = h.do(http.MethodDelete, "/api/v1/initiatives/"+in.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestDashboardAndPreview(t *testing.T) {
	h := newHarness(t)
	_, kr := h.seed()
	_, err := h.set.KeyResults.CheckIn(context.Background(), app.CheckInRequest{SubjectID: kr.ID, Value: 65})
	require.NoError(t, err)

	rec := h.do(http.MethodGet, "/api/v1/dashboard?period=2026-Q4", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	dash := decode[app.DashboardResponse](t, rec)
	require.Len(t, dash.Objectives, 1)
	assert.Equal(t, domain.StatusAtRisk, dash.Objectives[0].Progress.Status)
	assert.Equal(t, 1, dash.Summary.CountsByStatus[domain.StatusAtRisk])

	rec = h.do(http.MethodGet, "/api/v1/dashboard?scope=NOPE01", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = h.do(http.MethodGet, "/api/v1/dashboard?archived=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(http.MethodPost, "/api/v1/preview", map[string]any{
		"type": "decrease_to", "base_value": 100, "current_value": "25", "target_value": 0, "has_updates": true,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	preview := decode[app.PreviewResponse](t, rec)
	assert.Equal(t, 75.0, preview.Percentage)
	assert.Equal(t, "75.0%", preview.Formatted)
}

func TestSuggestions(t *testing.T) {
	h := newHarness(t)
	_, kr := h.seed()

	rec := h.do(http.MethodGet, "/api/v1/key-results/"+kr.ID+"/suggestions", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[app.SuggestionResponse](t, rec)
	assert.Equal(t, app.SuggestionFromRules, resp.Source)
	assert.NotEmpty(t, resp.Suggestions)

	h.server.svc.Suggestions = nil
	rec = h.do(http.MethodGet, "/api/v1/key-results/"+kr.ID+"/suggestions", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newHarness(t)
	h.seed()

	rec := h.do(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `okra_use_cases_total{outcome="success",use_case="create-objective"} 1`)
}

func TestCORS(t *testing.T) {
	h := newHarness(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/objectives", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	h.server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRun_StopsOnCancel(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.server.Run(ctx, "127.0.0.1:0") }()
	cancel()
	assert.NoError(t, <-done)
}
