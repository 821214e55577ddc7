package infra

import "testing"

func TestMetricsCounters(t *testing.T) {
	m := &Metrics{}

	m.RecordMessage()
	m.RecordMessage()
	m.RecordTradesIngested(5)
	m.RecordWindowDrop()
	m.RecordLateDrop()
	m.RecordLateDrop()
	m.RecordParseFailure()
	m.RecordUnknownMessage()
	m.RecordSnapshot()
	m.SetConnected(true)

	snap := m.Snapshot()
	if snap.MessagesProcessed != 2 {
		t.Errorf("messages: want 2, got %d", snap.MessagesProcessed)
	}
	if snap.TradesIngested != 5 {
		t.Errorf("trades: want 5, got %d", snap.TradesIngested)
	}
	if snap.TradesDroppedWindow != 1 {
		t.Errorf("window drops: want 1, got %d", snap.TradesDroppedWindow)
	}
	if snap.TradesDroppedLate != 2 {
		t.Errorf("late drops: want 2, got %d", snap.TradesDroppedLate)
	}
	if snap.ParseFailures != 1 {
		t.Errorf("parse failures: want 1, got %d", snap.ParseFailures)
	}
	if snap.UnknownMessages != 1 {
		t.Errorf("unknown messages: want 1, got %d", snap.UnknownMessages)
	}
	if snap.SnapshotsAggregated != 1 {
		t.Errorf("snapshots: want 1, got %d", snap.SnapshotsAggregated)
	}
	if !snap.Connected {
		t.Error("connected gauge should be true")
	}
}

func TestMetricsReset(t *testing.T) {
	m := &Metrics{}
	m.RecordMessage()
	m.SetConnected(true)

	m.Reset()

	snap := m.Snapshot()
	if snap.MessagesProcessed != 0 || snap.Connected {
		t.Errorf("reset did not clear metrics: %+v", snap)
	}
}

func TestMetricsConcurrentAccess(t *testing.T) {
	m := &Metrics{}
	done := make(chan struct{})

	for i := 0; i < 10; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 1000; j++ {
				m.RecordMessage()
				m.RecordTradesIngested(1)
			}
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}

	snap := m.Snapshot()
	if snap.MessagesProcessed != 10000 {
		t.Errorf("messages: want 10000, got %d", snap.MessagesProcessed)
	}
	if snap.TradesIngested != 10000 {
		t.Errorf("trades: want 10000, got %d", snap.TradesIngested)
	}
}
