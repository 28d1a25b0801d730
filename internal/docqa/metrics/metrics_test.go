package metrics

import (
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestMetrics() *Metrics {
	m := Get()
	m.Reset()
	return m
}

func TestGetReturnsSingleton(t *testing.T) {
	m1 := Get()
	m2 := Get()
	assert.Same(t, m1, m2)
}

func TestRecordIngest(t *testing.T) {
	m := newTestMetrics()

	m.RecordIngest(12, nil)
	assert.Equal(t, uint64(1), atomic.LoadUint64(&m.documentsIngested))
	assert.Equal(t, uint64(12), atomic.LoadUint64(&m.passagesIndexed))

	m.RecordIngest(0, assert.AnError)
	assert.Equal(t, uint64(1), atomic.LoadUint64(&m.documentsIngested))
	assert.Equal(t, uint64(1), atomic.LoadUint64(&m.ingestErrors))
}

func TestRecordQuestion(t *testing.T) {
	m := newTestMetrics()

	m.RecordQuestion(nil)
	m.RecordQuestion(assert.AnError)
	assert.Equal(t, uint64(2), atomic.LoadUint64(&m.questionsTotal))
	assert.Equal(t, uint64(1), atomic.LoadUint64(&m.questionsErrors))
}

func TestRecordGeneration(t *testing.T) {
	m := newTestMetrics()

	m.RecordGeneration(500*time.Millisecond, nil)
	assert.Equal(t, uint64(1), atomic.LoadUint64(&m.generationTotal))
	assert.InDelta(t, 0.5, m.generationDuration, 0.01)

	m.RecordGeneration(100*time.Millisecond, assert.AnError)
	assert.Equal(t, uint64(2), atomic.LoadUint64(&m.generationTotal))
	assert.Equal(t, uint64(1), atomic.LoadUint64(&m.generationErrors))
	// Failed calls do not contribute to duration.
	assert.InDelta(t, 0.5, m.generationDuration, 0.01)
}

func TestExportContainsCounters(t *testing.T) {
	m := newTestMetrics()
	m.RecordIngest(3, nil)
	m.RecordQuestion(nil)
	m.RecordSuggestionFallback()

	out := m.Export("docqa")
	assert.Contains(t, out, "docqa_documents_ingested_total 1")
	assert.Contains(t, out, "docqa_passages_indexed_total 3")
	assert.Contains(t, out, "docqa_questions_total 1")
	assert.Contains(t, out, "docqa_suggestion_fallbacks_total 1")
	assert.True(t, strings.Contains(out, "# TYPE docqa_uptime_seconds gauge"))
}

func TestStats(t *testing.T) {
	m := newTestMetrics()
	m.RecordRetrieval(200 * time.Millisecond)
	m.RecordRetrieval(100 * time.Millisecond)

	stats := m.Stats()
	retrieval := stats["retrieval"].(map[string]any)
	assert.Equal(t, uint64(2), retrieval["total"])
	assert.InDelta(t, 0.15, retrieval["avg_duration_secs"].(float64), 0.01)
}
