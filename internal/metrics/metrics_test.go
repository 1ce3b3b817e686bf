package metrics

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deusflow/cryptonews/internal/pipeline"
)

func TestRecordSelection(t *testing.T) {
	m := New()
	m.RecordSelection(pipeline.Stats{Input: 10, HistoryDuplicates: 2, Excluded: 1, BelowThreshold: 4, BatchDuplicates: 1, Selected: 3})
	m.RecordSelection(pipeline.Stats{Input: 5, Selected: 1})
	m.RecordEnrich(true)
	m.RecordEnrich(false)
	m.RecordPublish(true)

	st := m.GetStats()
	assert.EqualValues(t, 15, st["fetched"])
	assert.EqualValues(t, 4, st["selected"])
	assert.EqualValues(t, 1, st["enrich_ok"])
	assert.EqualValues(t, 1, st["enrich_failed"])
	assert.EqualValues(t, 1, st["published_ok"])
}

func TestHealthHandler(t *testing.T) {
	m := New()
	m.RecordRun("abc", 2*time.Second)

	rec := httptest.NewRecorder()
	m.HealthHandler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	m.SetError("history save failed")
	rec = httptest.NewRecorder()
	m.HealthHandler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "history save failed", body["last_error"])
}

func TestMetricsHandler(t *testing.T) {
	m := New()
	m.RecordRun("run-42", time.Second)

	rec := httptest.NewRecorder()
	m.MetricsHandler(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "run-42", body["last_run_id"])
	assert.EqualValues(t, 1000, body["last_processing_time_ms"])
}
