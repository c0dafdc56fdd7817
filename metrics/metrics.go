package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// QueriesCreatedTotal counts accepted query submissions.
	QueriesCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "societyhub",
		Subsystem: "queries",
		Name:      "created_total",
		Help:      "Total number of queries submitted by residents.",
	})

	// StatusTransitionsTotal counts lifecycle transitions by target status.
	StatusTransitionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "societyhub",
		Subsystem: "queries",
		Name:      "status_transitions_total",
		Help:      "Total number of query status transitions, labeled by target status.",
	}, []string{"status"})

	// AuditsTotal counts AI resolution audits by outcome: passed, failed
	// or fail_open (provider error treated as passed).
	AuditsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "societyhub",
		Subsystem: "audit",
		Name:      "results_total",
		Help:      "Total number of AI resolution audits, labeled by outcome.",
	}, []string{"result"})

	// AuditDurationSeconds is end-to-end time of one audit call.
	AuditDurationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "societyhub",
		Subsystem: "audit",
		Name:      "duration_seconds",
		Help:      "End-to-end time of one AI audit call.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 60},
	})

	// TranscriptionsTotal counts voice transcription attempts by result.
	TranscriptionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "societyhub",
		Subsystem: "audit",
		Name:      "transcriptions_total",
		Help:      "Total number of voice note transcription attempts, labeled by result.",
	}, []string{"result"})

	// SnapshotFailuresTotal counts failed state snapshot writes. Failed
	// writes are absorbed; this counter is the only trace they leave.
	SnapshotFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "societyhub",
		Subsystem: "state",
		Name:      "snapshot_failures_total",
		Help:      "Total number of failed state snapshot writes.",
	})
)

// Register registers all collectors with the default registry. Safe to
// call more than once.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			QueriesCreatedTotal,
			StatusTransitionsTotal,
			AuditsTotal,
			AuditDurationSeconds,
			TranscriptionsTotal,
			SnapshotFailuresTotal,
		)
	})
}
