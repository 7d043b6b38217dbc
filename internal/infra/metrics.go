package infra

import (
	"sync/atomic"
	"time"
)

// Metrics provides lightweight observability without external dependencies.
// Uses atomic operations for thread-safety.
type Metrics struct {
	// Counters
	ordersSubmitted atomic.Uint64
	ordersRejected  atomic.Uint64
	tradesExecuted  atomic.Uint64
	cancelsHonored  atomic.Uint64
	cancelsMissed   atomic.Uint64

	// Latency tracking
	latencySumNs atomic.Int64
	latencyCount atomic.Uint64

	// Gauges
	restingOrders atomic.Int64
	peakResting   atomic.Int64
}

// GlobalMetrics is the singleton metrics instance.
var GlobalMetrics = &Metrics{}

// RecordSubmitted records an accepted order submission.
func (m *Metrics) RecordSubmitted() {
	m.ordersSubmitted.Add(1)
}

// RecordRejected records a submission refused by validation.
func (m *Metrics) RecordRejected() {
	m.ordersRejected.Add(1)
}

// RecordTrades records n executed trades.
func (m *Metrics) RecordTrades(n uint64) {
	if n > 0 {
		m.tradesExecuted.Add(n)
	}
}

// RecordCancel records a cancel request and whether it removed an order.
func (m *Metrics) RecordCancel(honored bool) {
	if honored {
		m.cancelsHonored.Add(1)
	} else {
		m.cancelsMissed.Add(1)
	}
}

// RecordCommand records one processed command with its latency.
func (m *Metrics) RecordCommand(latencyNs int64) {
	m.latencySumNs.Add(latencyNs)
	m.latencyCount.Add(1)
}

// ObserveResting sets the resting order gauge and tracks its peak.
func (m *Metrics) ObserveResting(count int64) {
	m.restingOrders.Store(count)
	for {
		peak := m.peakResting.Load()
		if count <= peak {
			return
		}
		if m.peakResting.CompareAndSwap(peak, count) {
			return
		}
	}
}

// MetricsSnapshot is a point-in-time view of all metrics.
type MetricsSnapshot struct {
	OrdersSubmitted uint64
	OrdersRejected  uint64
	TradesExecuted  uint64
	CancelsHonored  uint64
	CancelsMissed   uint64
	AvgCommandNs    int64
	RestingOrders   int64
	PeakResting     int64
	Timestamp       time.Time
}

// Snapshot returns current metrics as a snapshot.
func (m *Metrics) Snapshot() MetricsSnapshot {
	var avgLatency int64
	count := m.latencyCount.Load()
	if count > 0 {
		avgLatency = m.latencySumNs.Load() / int64(count)
	}

	return MetricsSnapshot{
		OrdersSubmitted: m.ordersSubmitted.Load(),
		OrdersRejected:  m.ordersRejected.Load(),
		TradesExecuted:  m.tradesExecuted.Load(),
		CancelsHonored:  m.cancelsHonored.Load(),
		CancelsMissed:   m.cancelsMissed.Load(),
		AvgCommandNs:    avgLatency,
		RestingOrders:   m.restingOrders.Load(),
		PeakResting:     m.peakResting.Load(),
		Timestamp:       time.Now(),
	}
}

// Reset clears all metrics (for testing).
func (m *Metrics) Reset() {
	m.ordersSubmitted.Store(0)
	m.ordersRejected.Store(0)
	m.tradesExecuted.Store(0)
	m.cancelsHonored.Store(0)
	m.cancelsMissed.Store(0)
	m.latencySumNs.Store(0)
	m.latencyCount.Store(0)
	m.restingOrders.Store(0)
	m.peakResting.Store(0)
}
