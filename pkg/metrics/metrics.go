// Package metrics provides performance tracking and observability for the
// objectpool library using Prometheus metrics. It offers collectors for pool
// ownership indicators: objects accepted, objects released, bulk transfers,
// and teardown latency.
//
// # Overview
//
// The metrics package provides:
//   - Prometheus-compatible metrics collection
//   - Pre-defined metrics for pool lifecycle operations
//   - Teardown latency tracking utilities
//   - Thread-safe metric recording
//   - Automatic metric registration
//
// # Basic Usage
//
//	// Record accepted objects
//	metrics.ObjectsAccepted.WithLabelValues("query_state").Inc()
//
//	// Track teardown latency
//	timer := metrics.NewTimer("pool_clear")
//	pool.Clear()
//	duration := timer.Stop()
//	metrics.ClearDuration.WithLabelValues("query_state").Observe(duration.Seconds())
//
// # Metric Types
//
// Counter: Monotonically increasing values (e.g., total objects released)
// Gauge: Values that can go up or down (e.g., objects currently owned)
// Histogram: Distribution of values (e.g., teardown latency percentiles)
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector provides a centralized metrics collection interface for one named
// pool. It wraps the package-level Prometheus metrics and records against the
// pool's label. Each named pool owns its own collector.
type Collector struct {
	name      string    // Pool name for labeling
	startTime time.Time // Collector creation time
}

// NewCollector creates a new metrics collector for a named pool.
// The name parameter identifies the pool in metric labels.
//
// Example:
//
//	collector := metrics.NewCollector("query_state")
//	collector.ObjectAccepted()
//	collector.PoolCleared(42, elapsed)
func NewCollector(name string) *Collector {
	return &Collector{
		name:      name,
		startTime: time.Now(),
	}
}

// Name returns the pool name this collector records against
func (c *Collector) Name() string {
	return c.name
}

// StartTime returns when the collector was created
func (c *Collector) StartTime() time.Time {
	return c.startTime
}

// ObjectAccepted records one object entering the pool's ownership.
func (c *Collector) ObjectAccepted() {
	ObjectsAccepted.WithLabelValues(c.name).Inc()
	OwnedObjects.WithLabelValues(c.name).Inc()
}

// ObjectsTransferredIn records a bulk ownership transfer of n objects into the pool.
func (c *Collector) ObjectsTransferredIn(n int) {
	ObjectsTransferred.WithLabelValues(c.name).Add(float64(n))
	OwnedObjects.WithLabelValues(c.name).Add(float64(n))
}

// ObjectsTransferredOut records a bulk ownership transfer of n objects out of the pool.
func (c *Collector) ObjectsTransferredOut(n int) {
	OwnedObjects.WithLabelValues(c.name).Sub(float64(n))
}

// PoolCleared records a teardown that released n objects in the given duration.
func (c *Collector) PoolCleared(n int, elapsed time.Duration) {
	ObjectsReleased.WithLabelValues(c.name).Add(float64(n))
	OwnedObjects.WithLabelValues(c.name).Sub(float64(n))
	ClearDuration.WithLabelValues(c.name).Observe(elapsed.Seconds())
}

var (
	// ObjectsAccepted tracks the total number of objects accepted into pools.
	// Labels: pool (pool name)
	//
	// Example:
	//	metrics.ObjectsAccepted.WithLabelValues("query_state").Inc()
	ObjectsAccepted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "objectpool_objects_accepted_total",
			Help: "Total number of objects accepted into pools",
		},
		[]string{"pool"},
	)

	// ObjectsReleased tracks the total number of objects released by pool teardown.
	// Labels: pool (pool name)
	ObjectsReleased = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "objectpool_objects_released_total",
			Help: "Total number of objects released by pool teardown",
		},
		[]string{"pool"},
	)

	// ObjectsTransferred tracks objects moved between pools via bulk transfer.
	// Labels: pool (receiving pool name)
	ObjectsTransferred = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "objectpool_objects_transferred_total",
			Help: "Total number of objects received via bulk ownership transfer",
		},
		[]string{"pool"},
	)

	// OwnedObjects tracks the number of objects currently owned by each pool.
	// Labels: pool (pool name)
	OwnedObjects = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "objectpool_owned_objects",
			Help: "Number of objects currently owned",
		},
		[]string{"pool"},
	)

	// ClearDuration tracks the distribution of pool teardown latencies in seconds.
	// Teardown runs every captured release capability, so the buckets span from
	// microsecond-scale empty clears to second-scale pools holding expensive
	// destructors. Labels: pool (pool name)
	ClearDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "objectpool_clear_duration_seconds",
			Help: "Pool teardown latency in seconds",
			Buckets: []float64{
				1e-6, // 1μs - empty or tiny pools
				1e-5, // 10μs - reference-drop only teardown
				1e-4, // 100μs - small pools with cheap releases
				1e-3, // 1ms - standard teardown
				1e-2, // 10ms - large pools
				1e-1, // 100ms - release capabilities doing I/O
				1,    // 1s - pathological teardown
			},
		},
		[]string{"pool"},
	)
)

// Timer provides a simple timing mechanism for measuring operation durations.
// It captures the start time on creation and calculates elapsed time on stop.
type Timer struct {
	start time.Time
	name  string
}

// NewTimer creates a new timer and starts timing immediately.
// The name parameter is for identification in logs or metrics.
//
// Example:
//
//	timer := metrics.NewTimer("pool_clear")
//	pool.Clear()
//	elapsed := timer.Stop()
func NewTimer(name string) *Timer {
	return &Timer{
		start: time.Now(),
		name:  name,
	}
}

// Stop stops the timer and returns the elapsed duration
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}

// Name returns the timer's name
func (t *Timer) Name() string {
	return t.name
}
