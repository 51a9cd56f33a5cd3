// Package metrics exposes Prometheus collectors for ranking runs.
package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Drop reasons.
const (
	ReasonPanic     = "panic"
	ReasonTimeout   = "timeout"
	ReasonDuplicate = "duplicate"
)

// Manager owns the ranking collectors. A CLI run is short lived, so the
// collected values are written to a node-exporter textfile instead of being
// served.
type Manager struct {
	namespace string
	buckets   []float64
	registry  *prometheus.Registry

	postingsScored  *prometheus.CounterVec
	postingsDropped *prometheus.CounterVec
	scoreLatency    prometheus.Histogram
	batchDuration   prometheus.Histogram
	batchSize       prometheus.Gauge
	lastRunUnix     prometheus.Gauge
}

// NewManager creates a Manager on its own registry unless one is supplied.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "jobrank",
		buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}

	auto := promauto.With(m.registry)

	m.postingsScored = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "ranker",
		Name:      "postings_scored_total",
		Help:      "Postings scored, by whether the semantic similarity was computed exactly",
	}, []string{"semantic_exact"})

	m.postingsDropped = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "ranker",
		Name:      "postings_dropped_total",
		Help:      "Postings dropped from a batch, by reason",
	}, []string{"reason"})

	m.scoreLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "ranker",
		Name:      "posting_score_duration_seconds",
		Help:      "Time spent scoring one posting",
		Buckets:   m.buckets,
	})

	m.batchDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "ranker",
		Name:      "batch_duration_seconds",
		Help:      "Time spent ranking one batch",
		Buckets:   m.buckets,
	})

	m.batchSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "ranker",
		Name:      "batch_size",
		Help:      "Number of postings in the last batch",
	})

	m.lastRunUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "ranker",
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time the last batch finished",
	})

	return m
}

// RecordScored records one scored posting.
func (m *Manager) RecordScored(d time.Duration, semanticExact bool) {
	m.postingsScored.WithLabelValues(strconv.FormatBool(semanticExact)).Inc()
	m.scoreLatency.Observe(d.Seconds())
}

// RecordDropped records a posting dropped for reason.
func (m *Manager) RecordDropped(reason string) {
	m.postingsDropped.WithLabelValues(reason).Inc()
}

// RecordBatch records a finished batch.
func (m *Manager) RecordBatch(size int, d time.Duration) {
	m.batchSize.Set(float64(size))
	m.batchDuration.Observe(d.Seconds())
	m.lastRunUnix.SetToCurrentTime()
}

// Registry returns the registry the collectors live on.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes all collected metrics to path in the text exposition
// format, atomically.
func (m *Manager) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
