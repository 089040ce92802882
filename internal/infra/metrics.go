package infra

import (
	"sync/atomic"
	"time"
)

// Metrics provides lightweight observability without external dependencies.
// Uses atomic operations for thread-safety.
type Metrics struct {
	userAccepted     atomic.Uint64
	userRejected     atomic.Uint64
	backgroundTrades atomic.Uint64
	generatorTicks   atomic.Uint64
}

// GlobalMetrics is the singleton metrics instance.
var GlobalMetrics = &Metrics{}

// RecordUserAccepted records one accepted user trade.
func (m *Metrics) RecordUserAccepted() {
	m.userAccepted.Add(1)
}

// RecordUserRejected records one rejected user trade.
func (m *Metrics) RecordUserRejected() {
	m.userRejected.Add(1)
}

// RecordBackgroundTrade records one applied synthetic trade.
func (m *Metrics) RecordBackgroundTrade() {
	m.backgroundTrades.Add(1)
}

// RecordGeneratorTick records one generator firing.
func (m *Metrics) RecordGeneratorTick() {
	m.generatorTicks.Add(1)
}

// MetricsSnapshot is a point-in-time view of all metrics.
type MetricsSnapshot struct {
	UserAccepted     uint64
	UserRejected     uint64
	BackgroundTrades uint64
	GeneratorTicks   uint64
	Timestamp        time.Time
}

// Snapshot returns current metrics as a snapshot.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		UserAccepted:     m.userAccepted.Load(),
		UserRejected:     m.userRejected.Load(),
		BackgroundTrades: m.backgroundTrades.Load(),
		GeneratorTicks:   m.generatorTicks.Load(),
		Timestamp:        time.Now(),
	}
}

// Reset clears all metrics (for testing).
func (m *Metrics) Reset() {
	m.userAccepted.Store(0)
	m.userRejected.Store(0)
	m.backgroundTrades.Store(0)
	m.generatorTicks.Store(0)
}
