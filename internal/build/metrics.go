package build

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "docsite"

// Metrics tracks generation results. All collectors are safe for concurrent use.
type Metrics struct {
	pages     *prometheus.CounterVec
	skipped   prometheus.Counter
	written   prometheus.Counter
	unchanged prometheus.Counter
	failures  *prometheus.CounterVec
	duration  prometheus.Histogram
}

// NewMetrics creates the generation metrics and registers them on reg. A nil
// registerer leaves the collectors unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		pages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "pages_total",
			Help:      "Catalog pages rendered, by mode.",
		}, []string{"mode"}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "pages_skipped_total",
			Help:      "Catalog pages without a reference URI skipped in doc mode.",
		}),
		written: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "targets_written_total",
			Help:      "Output files written because their content changed.",
		}),
		unchanged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "targets_unchanged_total",
			Help:      "Output files left untouched because their digest matched.",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "page_failures_total",
			Help:      "Pages that failed to generate, by error code.",
		}, []string{"code"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "generation_duration_seconds",
			Help:      "Duration of complete generation runs.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
	}

	if reg != nil {
		reg.MustRegister(m.pages, m.skipped, m.written, m.unchanged, m.failures, m.duration)
	}

	return m
}

// RecordPage counts a page rendered in mode.
func (m *Metrics) RecordPage(mode string) {
	m.pages.WithLabelValues(mode).Inc()
}

// RecordSkipped counts a page skipped for lack of a URI.
func (m *Metrics) RecordSkipped() {
	m.skipped.Inc()
}

// RecordTarget counts a target as written or unchanged.
func (m *Metrics) RecordTarget(written bool) {
	if written {
		m.written.Inc()
		return
	}
	m.unchanged.Inc()
}

// RecordFailure counts a failed page by error code.
func (m *Metrics) RecordFailure(code string) {
	m.failures.WithLabelValues(code).Inc()
}

// ObserveRun records the duration of a generation run.
func (m *Metrics) ObserveRun(d time.Duration) {
	m.duration.Observe(d.Seconds())
}
