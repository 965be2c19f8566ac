// Package metrics exports estimator progress as Prometheus metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/randomizedcoder/coprime-pi/internal/accum"
	"github.com/randomizedcoder/coprime-pi/internal/coprime"
)

const namespace = "coprime_pi"

// Metrics holds all Prometheus metrics for one estimator run.
//
// Metrics implements accum.Sink (totals, estimate) and the pool's batch
// observer (per-worker batch counts and durations).
//
// Thread Safety: Safe for concurrent use (Prometheus metrics are thread-safe).
type Metrics struct {
	// Samples counts merged sample pairs.
	Samples prometheus.Counter

	// Hits counts merged coprime pairs.
	Hits prometheus.Counter

	// Batches counts merged batches by worker.
	Batches *prometheus.CounterVec

	// Estimate is the estimate after the latest merge.
	Estimate prometheus.Gauge

	// Saturated is 1 once the totals have saturated.
	Saturated prometheus.Gauge

	// Workers is the number of running workers.
	Workers prometheus.Gauge

	// BatchDurationSeconds measures how long one RunBatch takes.
	BatchDurationSeconds prometheus.Histogram
}

// New creates all metrics and registers them with reg.
// A nil reg leaves the metrics unregistered.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Samples: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "samples_total",
			Help:      "Total sample pairs merged into the accumulator",
		}),
		Hits: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hits_total",
			Help:      "Total coprime pairs merged into the accumulator",
		}),
		Batches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_total",
			Help:      "Total batches completed by worker",
		}, []string{"worker"}),
		Estimate: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "estimate",
			Help:      "Current estimate of pi",
		}),
		Saturated: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "saturated",
			Help:      "1 once the sample counters have saturated",
		}),
		Workers: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "workers",
			Help:      "Number of running sampling workers",
		}),
		BatchDurationSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_duration_seconds",
			Help:      "Time to sample one batch",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 16),
		}),
	}
}

// Report records one merge. It is called under the accumulator lock.
//
// Samples and Hits follow the accumulator totals and freeze with them:
// once a snapshot is saturated no further batches are added, so the
// counters never run past the pinned totals.
func (m *Metrics) Report(s accum.Snapshot) error {
	m.Estimate.Set(s.Totals.Estimate())
	if s.Totals.Saturated {
		m.Saturated.Set(1)
		return nil
	}
	m.Samples.Add(float64(s.Batch.Size))
	m.Hits.Add(float64(s.Batch.Hits))
	return nil
}

// ObserveBatch records one completed batch for a worker.
func (m *Metrics) ObserveBatch(worker int, _ coprime.BatchResult, d time.Duration) {
	m.Batches.WithLabelValues(strconv.Itoa(worker)).Inc()
	m.BatchDurationSeconds.Observe(d.Seconds())
}

// WorkerStarted increments the running worker gauge.
func (m *Metrics) WorkerStarted(int) {
	m.Workers.Inc()
}

// WorkerStopped decrements the running worker gauge.
func (m *Metrics) WorkerStopped(int) {
	m.Workers.Dec()
}
