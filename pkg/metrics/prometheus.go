package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	auditsTotal    *prometheus.CounterVec
	errorsTotal    *prometheus.CounterVec
	reportsSent    *prometheus.CounterVec
	cacheEvents    *prometheus.CounterVec
	fairnessScore  *prometheus.GaugeVec
	auditDuration  *prometheus.HistogramVec
	datasetSize    prometheus.Histogram
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		auditsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fairlens_audits_total",
				Help: "Total number of audits run",
			},
			[]string{"profile", "outcome"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fairlens_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		reportsSent: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fairlens_reports_sent_total",
				Help: "Total number of report summaries delivered to a sink",
			},
			[]string{"sink"},
		),
		cacheEvents: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fairlens_report_cache_events_total",
				Help: "Report cache hits and misses",
			},
			[]string{"event"},
		),
		fairnessScore: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fairlens_last_fairness_score",
				Help: "Fairness score of the most recent audit per profile",
			},
			[]string{"profile"},
		),
		auditDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fairlens_audit_duration_seconds",
				Help:    "Duration of audit pipeline stages in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		datasetSize: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "fairlens_audit_dataset_size",
				Help:    "Number of records per audited dataset",
				Buckets: []float64{10, 100, 1_000, 10_000, 100_000, 1_000_000},
			},
		),
	}
}

// RecordAudit records a completed or failed audit run.
func (r *Recorder) RecordAudit(profile, outcome string) {
	r.auditsTotal.WithLabelValues(profile, outcome).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordReportSent records a report summary delivered to a sink backend.
func (r *Recorder) RecordReportSent(sink string) {
	r.reportsSent.WithLabelValues(sink).Inc()
}

// RecordCacheEvent records a report cache hit or miss.
func (r *Recorder) RecordCacheEvent(event string) {
	r.cacheEvents.WithLabelValues(event).Inc()
}

// RecordFairnessScore records the score of the latest audit for a profile.
func (r *Recorder) RecordFairnessScore(profile string, score float64) {
	r.fairnessScore.WithLabelValues(profile).Set(score)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.auditDuration.WithLabelValues(op).Observe(seconds)
}

// RecordDatasetSize records the record count of one audited dataset.
func (r *Recorder) RecordDatasetSize(n int) {
	r.datasetSize.Observe(float64(n))
}
