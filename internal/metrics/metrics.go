package metrics

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/deusflow/cryptonews/internal/pipeline"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	Runs              int64
	Fetched           int64
	HistoryDuplicates int64
	Excluded          int64
	Clickbait         int64
	BelowThreshold    int64
	BatchDuplicates   int64
	Selected          int64
	EnrichOK          int64
	EnrichFailed      int64
	PublishedOK       int64
	PublishFailed     int64

	// Timings
	LastProcessingTime    time.Duration
	AverageProcessingTime time.Duration
	TotalProcessingTime   time.Duration

	// Status
	LastRunID     string
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = New()

func New() *Metrics {
	return &Metrics{IsHealthy: true}
}

// RecordSelection adds the stage counts of one run.
func (m *Metrics) RecordSelection(s pipeline.Stats) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Fetched += int64(s.Input)
	m.HistoryDuplicates += int64(s.HistoryDuplicates)
	m.Excluded += int64(s.Excluded)
	m.Clickbait += int64(s.Clickbait)
	m.BelowThreshold += int64(s.BelowThreshold)
	m.BatchDuplicates += int64(s.BatchDuplicates)
	m.Selected += int64(s.Selected)
}

func (m *Metrics) RecordEnrich(ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ok {
		m.EnrichOK++
	} else {
		m.EnrichFailed++
	}
}

func (m *Metrics) RecordPublish(ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ok {
		m.PublishedOK++
	} else {
		m.PublishFailed++
	}
}

// RecordRun marks a finished run as healthy.
func (m *Metrics) RecordRun(runID string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Runs++
	m.LastRunID = runID
	m.LastRunTime = time.Now()
	m.LastProcessingTime = duration
	m.TotalProcessingTime += duration
	m.AverageProcessingTime = m.TotalProcessingTime / time.Duration(m.Runs)
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) GetStats() map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]any{
		"runs":                       m.Runs,
		"fetched":                    m.Fetched,
		"history_duplicates":         m.HistoryDuplicates,
		"excluded":                   m.Excluded,
		"clickbait":                  m.Clickbait,
		"below_threshold":            m.BelowThreshold,
		"batch_duplicates":           m.BatchDuplicates,
		"selected":                   m.Selected,
		"enrich_ok":                  m.EnrichOK,
		"enrich_failed":              m.EnrichFailed,
		"published_ok":               m.PublishedOK,
		"publish_failed":             m.PublishFailed,
		"last_processing_time_ms":    m.LastProcessingTime.Milliseconds(),
		"average_processing_time_ms": m.AverageProcessingTime.Milliseconds(),
		"last_run_id":                m.LastRunID,
		"last_run_time":              formatTime(m.LastRunTime),
		"last_error_time":            formatTime(m.LastErrorTime),
		"last_error":                 m.LastError,
		"is_healthy":                 m.IsHealthy,
	}
}

// HealthHandler answers 503 while the last run ended in error.
func (m *Metrics) HealthHandler(w http.ResponseWriter, r *http.Request) {
	stats := m.GetStats()

	status := "ok"
	w.Header().Set("Content-Type", "application/json")
	if !stats["is_healthy"].(bool) {
		status = "error"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":     status,
		"last_run":   stats["last_run_time"],
		"last_error": stats["last_error"],
	})
}

func (m *Metrics) MetricsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(m.GetStats())
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
