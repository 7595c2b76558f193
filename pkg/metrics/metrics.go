// Package metrics provides Prometheus metrics for the evaluator service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Manager owns all Prometheus collectors for the service.
type Manager struct {
	registry *prometheus.Registry

	// Evaluation metrics
	submissionsEvaluated prometheus.Counter
	validationFailures   prometheus.Counter
	evaluationDuration   prometheus.Histogram
	finalScores          prometheus.Histogram

	// Test-data metrics
	batchesIssued prometheus.Counter

	// Leaderboard metrics
	leaderboardUpdates prometheus.Counter
	leaderboardRejects prometheus.Counter
	leaderboardEntries prometheus.Gauge
	flushDuration      prometheus.Histogram
	flushErrors        prometheus.Counter
	submitLogErrors    prometheus.Counter

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

var defaultManager = NewManager()

// NewManager creates a Manager with its own registry and registers all
// collectors on it.
func NewManager() *Manager {
	m := &Manager{registry: prometheus.NewRegistry()}

	m.submissionsEvaluated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "evaluator",
		Name:      "submissions_evaluated_total",
		Help:      "Total number of submissions evaluated.",
	})
	m.validationFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "evaluator",
		Name:      "validation_failures_total",
		Help:      "Total number of submissions rejected by validation.",
	})
	m.evaluationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "evaluator",
		Name:      "evaluation_duration_seconds",
		Help:      "Time spent scoring one submission.",
		Buckets:   prometheus.DefBuckets,
	})
	m.finalScores = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "evaluator",
		Name:      "final_score",
		Help:      "Distribution of final submission scores.",
		Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
	})
	m.batchesIssued = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "evaluator",
		Name:      "test_data_batches_issued_total",
		Help:      "Total number of test-data batches issued to participants.",
	})
	m.leaderboardUpdates = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "leaderboard",
		Name:      "updates_total",
		Help:      "Accepted leaderboard writes (new entry or improved score).",
	})
	m.leaderboardRejects = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "leaderboard",
		Name:      "rejects_total",
		Help:      "Submissions that did not beat the stored best score.",
	})
	m.leaderboardEntries = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "leaderboard",
		Name:      "entries",
		Help:      "Current number of participants on the board.",
	})
	m.flushDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "leaderboard",
		Name:      "flush_duration_seconds",
		Help:      "Time spent flushing leaderboard state to durable storage.",
		Buckets:   prometheus.DefBuckets,
	})
	m.flushErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "leaderboard",
		Name:      "flush_errors_total",
		Help:      "Failed durable flushes.",
	})
	m.submitLogErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "leaderboard",
		Name:      "submit_log_errors_total",
		Help:      "Failed submission-history writes.",
	})
	m.httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by endpoint, method and status.",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by endpoint, method and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint", "method", "status"})

	m.registry.MustRegister(
		m.submissionsEvaluated,
		m.validationFailures,
		m.evaluationDuration,
		m.finalScores,
		m.batchesIssued,
		m.leaderboardUpdates,
		m.leaderboardRejects,
		m.leaderboardEntries,
		m.flushDuration,
		m.flushErrors,
		m.submitLogErrors,
		m.httpRequests,
		m.httpRequestDuration,
	)

	return m
}

// GetRegistry returns the registry backing the default manager. The health
// endpoint serves it via promhttp.
func GetRegistry() *prometheus.Registry {
	return defaultManager.registry
}

// Package-level recording helpers backed by the default manager.

func RecordSubmissionEvaluated()           { defaultManager.submissionsEvaluated.Inc() }
func RecordValidationFailure()             { defaultManager.validationFailures.Inc() }
func RecordEvaluationDuration(sec float64) { defaultManager.evaluationDuration.Observe(sec) }
func RecordFinalScore(score float64)       { defaultManager.finalScores.Observe(score) }
func RecordBatchIssued()                   { defaultManager.batchesIssued.Inc() }
func RecordLeaderboardUpdate()             { defaultManager.leaderboardUpdates.Inc() }
func RecordLeaderboardReject()             { defaultManager.leaderboardRejects.Inc() }
func UpdateLeaderboardEntries(count int)   { defaultManager.leaderboardEntries.Set(float64(count)) }
func RecordFlushDuration(sec float64)      { defaultManager.flushDuration.Observe(sec) }
func RecordFlushError()                    { defaultManager.flushErrors.Inc() }
func RecordSubmitLogError()                { defaultManager.submitLogErrors.Inc() }

func RecordHTTPRequest(endpoint, method, status string) {
	defaultManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

func RecordHTTPRequestDuration(endpoint, method, status string, sec float64) {
	defaultManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(sec)
}
