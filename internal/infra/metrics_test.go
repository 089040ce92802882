package infra

import (
	"testing"
)

func TestMetrics_Counters(t *testing.T) {
	m := &Metrics{}

	m.RecordUserAccepted()
	m.RecordUserAccepted()
	m.RecordUserRejected()
	m.RecordBackgroundTrade()
	m.RecordGeneratorTick()

	snap := m.Snapshot()

	if snap.UserAccepted != 2 {
		t.Errorf("Expected 2 accepted, got %d", snap.UserAccepted)
	}
	if snap.UserRejected != 1 {
		t.Errorf("Expected 1 rejected, got %d", snap.UserRejected)
	}
	if snap.BackgroundTrades != 1 {
		t.Errorf("Expected 1 background trade, got %d", snap.BackgroundTrades)
	}
	if snap.GeneratorTicks != 1 {
		t.Errorf("Expected 1 tick, got %d", snap.GeneratorTicks)
	}
}

func TestMetrics_Reset(t *testing.T) {
	m := &Metrics{}

	m.RecordUserAccepted()
	m.RecordUserRejected()
	m.RecordBackgroundTrade()

	m.Reset()
	snap := m.Snapshot()

	if snap.UserAccepted != 0 {
		t.Error("Expected 0 accepted after reset")
	}
	if snap.UserRejected != 0 {
		t.Error("Expected 0 rejected after reset")
	}
	if snap.BackgroundTrades != 0 {
		t.Error("Expected 0 background trades after reset")
	}
}
