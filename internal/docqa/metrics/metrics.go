// Package metrics collects business metrics for the document QA service.
package metrics

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics holds service counters. All counters are updated atomically.
type Metrics struct {
	documentsIngested uint64
	passagesIndexed   uint64
	ingestErrors      uint64

	questionsTotal  uint64
	questionsErrors uint64

	retrievalDuration float64 // seconds
	retrievalTotal    uint64

	generationTotal    uint64
	generationDuration float64 // seconds
	generationErrors   uint64

	suggestionFallbacks uint64

	startTime  time.Time
	durationMu sync.Mutex
}

var (
	global *Metrics
	once   sync.Once
)

// Get returns the global metrics instance.
func Get() *Metrics {
	once.Do(func() {
		global = &Metrics{startTime: time.Now()}
	})
	return global
}

// RecordIngest records a document ingestion.
func (m *Metrics) RecordIngest(passages int, err error) {
	if err != nil {
		atomic.AddUint64(&m.ingestErrors, 1)
		return
	}
	atomic.AddUint64(&m.documentsIngested, 1)
	atomic.AddUint64(&m.passagesIndexed, uint64(passages))
}

// RecordQuestion records an answered question.
func (m *Metrics) RecordQuestion(err error) {
	atomic.AddUint64(&m.questionsTotal, 1)
	if err != nil {
		atomic.AddUint64(&m.questionsErrors, 1)
	}
}

// RecordRetrieval records a similarity search.
func (m *Metrics) RecordRetrieval(duration time.Duration) {
	atomic.AddUint64(&m.retrievalTotal, 1)
	m.durationMu.Lock()
	m.retrievalDuration += duration.Seconds()
	m.durationMu.Unlock()
}

// RecordGeneration records a model generation call.
func (m *Metrics) RecordGeneration(duration time.Duration, err error) {
	atomic.AddUint64(&m.generationTotal, 1)
	if err != nil {
		atomic.AddUint64(&m.generationErrors, 1)
		return
	}
	m.durationMu.Lock()
	m.generationDuration += duration.Seconds()
	m.durationMu.Unlock()
}

// RecordSuggestionFallback records a degraded suggestion generation.
func (m *Metrics) RecordSuggestionFallback() {
	atomic.AddUint64(&m.suggestionFallbacks, 1)
}

// Export renders the metrics in Prometheus text format.
func (m *Metrics) Export(namespace string) string {
	var sb strings.Builder

	counter := func(name, help string, value uint64) {
		sb.WriteString(fmt.Sprintf("# HELP %s_%s %s\n", namespace, name, help))
		sb.WriteString(fmt.Sprintf("# TYPE %s_%s counter\n", namespace, name))
		sb.WriteString(fmt.Sprintf("%s_%s %d\n\n", namespace, name, value))
	}

	counter("documents_ingested_total", "Total documents ingested.", atomic.LoadUint64(&m.documentsIngested))
	counter("passages_indexed_total", "Total passages indexed.", atomic.LoadUint64(&m.passagesIndexed))
	counter("ingest_errors_total", "Number of ingestion errors.", atomic.LoadUint64(&m.ingestErrors))
	counter("questions_total", "Total questions answered.", atomic.LoadUint64(&m.questionsTotal))
	counter("questions_errors_total", "Number of question errors.", atomic.LoadUint64(&m.questionsErrors))
	counter("retrieval_total", "Total similarity searches.", atomic.LoadUint64(&m.retrievalTotal))
	counter("generation_total", "Total model generation calls.", atomic.LoadUint64(&m.generationTotal))
	counter("generation_errors_total", "Number of generation errors.", atomic.LoadUint64(&m.generationErrors))
	counter("suggestion_fallbacks_total", "Number of degraded suggestion generations.", atomic.LoadUint64(&m.suggestionFallbacks))

	m.durationMu.Lock()
	retrievalDuration := m.retrievalDuration
	generationDuration := m.generationDuration
	m.durationMu.Unlock()

	sb.WriteString(fmt.Sprintf("# HELP %s_retrieval_duration_seconds_total Total retrieval duration.\n", namespace))
	sb.WriteString(fmt.Sprintf("# TYPE %s_retrieval_duration_seconds_total counter\n", namespace))
	sb.WriteString(fmt.Sprintf("%s_retrieval_duration_seconds_total %.6f\n\n", namespace, retrievalDuration))

	sb.WriteString(fmt.Sprintf("# HELP %s_generation_duration_seconds_total Total generation duration.\n", namespace))
	sb.WriteString(fmt.Sprintf("# TYPE %s_generation_duration_seconds_total counter\n", namespace))
	sb.WriteString(fmt.Sprintf("%s_generation_duration_seconds_total %.6f\n\n", namespace, generationDuration))

	sb.WriteString(fmt.Sprintf("# HELP %s_uptime_seconds Service uptime in seconds.\n", namespace))
	sb.WriteString(fmt.Sprintf("# TYPE %s_uptime_seconds gauge\n", namespace))
	sb.WriteString(fmt.Sprintf("%s_uptime_seconds %.2f\n", namespace, time.Since(m.startTime).Seconds()))

	return sb.String()
}

// Stats returns the current counters for the stats API.
func (m *Metrics) Stats() map[string]any {
	m.durationMu.Lock()
	retrievalDuration := m.retrievalDuration
	generationDuration := m.generationDuration
	m.durationMu.Unlock()

	retrievalTotal := atomic.LoadUint64(&m.retrievalTotal)
	avgRetrieval := 0.0
	if retrievalTotal > 0 {
		avgRetrieval = retrievalDuration / float64(retrievalTotal)
	}

	generationTotal := atomic.LoadUint64(&m.generationTotal)
	avgGeneration := 0.0
	if generationTotal > 0 {
		avgGeneration = generationDuration / float64(generationTotal)
	}

	return map[string]any{
		"ingest": map[string]any{
			"documents": atomic.LoadUint64(&m.documentsIngested),
			"passages":  atomic.LoadUint64(&m.passagesIndexed),
			"errors":    atomic.LoadUint64(&m.ingestErrors),
		},
		"questions": map[string]any{
			"total":  atomic.LoadUint64(&m.questionsTotal),
			"errors": atomic.LoadUint64(&m.questionsErrors),
		},
		"retrieval": map[string]any{
			"total":             retrievalTotal,
			"avg_duration_secs": avgRetrieval,
		},
		"generation": map[string]any{
			"total":             generationTotal,
			"avg_duration_secs": avgGeneration,
			"errors":            atomic.LoadUint64(&m.generationErrors),
		},
		"suggestions": map[string]any{
			"fallbacks": atomic.LoadUint64(&m.suggestionFallbacks),
		},
		"uptime_seconds": time.Since(m.startTime).Seconds(),
	}
}

// Reset clears all counters. Intended for tests.
func (m *Metrics) Reset() {
	atomic.StoreUint64(&m.documentsIngested, 0)
	atomic.StoreUint64(&m.passagesIndexed, 0)
	atomic.StoreUint64(&m.ingestErrors, 0)
	atomic.StoreUint64(&m.questionsTotal, 0)
	atomic.StoreUint64(&m.questionsErrors, 0)
	atomic.StoreUint64(&m.retrievalTotal, 0)
	atomic.StoreUint64(&m.generationTotal, 0)
	atomic.StoreUint64(&m.generationErrors, 0)
	atomic.StoreUint64(&m.suggestionFallbacks, 0)

	m.durationMu.Lock()
	m.retrievalDuration = 0
	m.generationDuration = 0
	m.startTime = time.Now()
	m.durationMu.Unlock()
}
