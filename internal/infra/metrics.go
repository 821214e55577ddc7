package infra

import (
	"sync/atomic"
	"time"
)

// Metrics provides lightweight observability without external dependencies.
// Uses atomic operations for thread-safety.
type Metrics struct {
	// Counters
	messagesProcessed   atomic.Uint64
	tradesIngested      atomic.Uint64
	tradesDroppedWindow atomic.Uint64
	tradesDroppedLate   atomic.Uint64
	parseFailures       atomic.Uint64
	unknownMessages     atomic.Uint64
	snapshotsAggregated atomic.Uint64

	// Gauges
	connected atomic.Int32 // 1 = connected, 0 = disconnected
}

// GlobalMetrics is the singleton metrics instance.
var GlobalMetrics = &Metrics{}

// RecordMessage records one dispatched inbound message.
func (m *Metrics) RecordMessage() {
	m.messagesProcessed.Add(1)
}

// RecordTradesIngested records trades folded into the candle series.
func (m *Metrics) RecordTradesIngested(n int) {
	m.tradesIngested.Add(uint64(n))
}

// RecordWindowDrop records a trade discarded for falling outside the active window.
func (m *Metrics) RecordWindowDrop() {
	m.tradesDroppedWindow.Add(1)
}

// RecordLateDrop records a trade discarded for targeting an already-closed bucket.
func (m *Metrics) RecordLateDrop() {
	m.tradesDroppedLate.Add(1)
}

// RecordParseFailure records a numeric wire field that failed to parse.
func (m *Metrics) RecordParseFailure() {
	m.parseFailures.Add(1)
}

// RecordUnknownMessage records an inbound message with an unrecognized type tag.
func (m *Metrics) RecordUnknownMessage() {
	m.unknownMessages.Add(1)
}

// RecordSnapshot records one aggregated order book snapshot.
func (m *Metrics) RecordSnapshot() {
	m.snapshotsAggregated.Add(1)
}

// SetConnected sets the feed connection gauge.
func (m *Metrics) SetConnected(up bool) {
	if up {
		m.connected.Store(1)
	} else {
		m.connected.Store(0)
	}
}

// MetricsSnapshot is a point-in-time view of all metrics.
type MetricsSnapshot struct {
	MessagesProcessed   uint64
	TradesIngested      uint64
	TradesDroppedWindow uint64
	TradesDroppedLate   uint64
	ParseFailures       uint64
	UnknownMessages     uint64
	SnapshotsAggregated uint64
	Connected           bool
	Timestamp           time.Time
}

// Snapshot returns current metrics as a snapshot.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		MessagesProcessed:   m.messagesProcessed.Load(),
		TradesIngested:      m.tradesIngested.Load(),
		TradesDroppedWindow: m.tradesDroppedWindow.Load(),
		TradesDroppedLate:   m.tradesDroppedLate.Load(),
		ParseFailures:       m.parseFailures.Load(),
		UnknownMessages:     m.unknownMessages.Load(),
		SnapshotsAggregated: m.snapshotsAggregated.Load(),
		Connected:           m.connected.Load() == 1,
		Timestamp:           time.Now(),
	}
}

// Reset clears all metrics (for testing).
func (m *Metrics) Reset() {
	m.messagesProcessed.Store(0)
	m.tradesIngested.Store(0)
	m.tradesDroppedWindow.Store(0)
	m.tradesDroppedLate.Store(0)
	m.parseFailures.Store(0)
	m.unknownMessages.Store(0)
	m.snapshotsAggregated.Store(0)
	m.connected.Store(0)
}
