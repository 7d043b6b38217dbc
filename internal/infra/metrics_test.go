package infra

import (
	"testing"
)

func TestMetrics_RecordCommand(t *testing.T) {
	m := &Metrics{}

	m.RecordCommand(1000)
	m.RecordCommand(2000)
	m.RecordCommand(3000)

	snap := m.Snapshot()

	// Average latency: (1000 + 2000 + 3000) / 3 = 2000
	if snap.AvgCommandNs != 2000 {
		t.Errorf("Expected avg latency 2000, got %d", snap.AvgCommandNs)
	}
}

func TestMetrics_Counters(t *testing.T) {
	m := &Metrics{}

	m.RecordSubmitted()
	m.RecordSubmitted()
	m.RecordRejected()
	m.RecordTrades(3)
	m.RecordTrades(0)

	snap := m.Snapshot()
	if snap.OrdersSubmitted != 2 {
		t.Errorf("Expected 2 submitted, got %d", snap.OrdersSubmitted)
	}
	if snap.OrdersRejected != 1 {
		t.Errorf("Expected 1 rejected, got %d", snap.OrdersRejected)
	}
	if snap.TradesExecuted != 3 {
		t.Errorf("Expected 3 trades, got %d", snap.TradesExecuted)
	}
}

func TestMetrics_Cancels(t *testing.T) {
	m := &Metrics{}

	m.RecordCancel(true)
	m.RecordCancel(true)
	m.RecordCancel(false)

	snap := m.Snapshot()
	if snap.CancelsHonored != 2 {
		t.Errorf("Expected 2 honored cancels, got %d", snap.CancelsHonored)
	}
	if snap.CancelsMissed != 1 {
		t.Errorf("Expected 1 missed cancel, got %d", snap.CancelsMissed)
	}
}

func TestMetrics_ObserveResting(t *testing.T) {
	m := &Metrics{}

	m.ObserveResting(10)
	m.ObserveResting(25)
	m.ObserveResting(5)

	snap := m.Snapshot()
	if snap.RestingOrders != 5 {
		t.Errorf("Expected gauge 5, got %d", snap.RestingOrders)
	}
	if snap.PeakResting != 25 {
		t.Errorf("Expected peak 25, got %d", snap.PeakResting)
	}
}

func TestMetrics_Reset(t *testing.T) {
	m := &Metrics{}

	m.RecordSubmitted()
	m.RecordCommand(1000)
	m.ObserveResting(7)

	m.Reset()
	snap := m.Snapshot()

	if snap.OrdersSubmitted != 0 {
		t.Error("Expected 0 submitted after reset")
	}
	if snap.AvgCommandNs != 0 {
		t.Error("Expected 0 avg latency after reset")
	}
	if snap.RestingOrders != 0 || snap.PeakResting != 0 {
		t.Error("Expected resting gauges cleared after reset")
	}
}
