package app

import (
	"path/filepath"
	"testing"
	"time"

	"chartfeed_go/internal/domain"
	"chartfeed_go/internal/infra/storage"
	"chartfeed_go/internal/service"
)

func testBootstrap(t *testing.T) *Bootstrap {
	t.Helper()
	store, err := storage.NewStorageAt(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	return &Bootstrap{Storage: store}
}

func TestPersistSessionRoundTrip(t *testing.T) {
	b := testBootstrap(t)
	b.WindowFrom = time.Date(2026, 8, 24, 9, 30, 0, 0, time.Local).Unix()
	b.WindowTo = time.Date(2026, 8, 24, 16, 0, 0, 0, time.Local).Unix()
	b.IntervalSeconds = 300

	if err := b.PersistSession(); err != nil {
		t.Fatalf("PersistSession failed: %v", err)
	}

	prefs, err := b.Storage.LoadPrefMap()
	if err != nil {
		t.Fatalf("LoadPrefMap failed: %v", err)
	}
	if prefs[domain.PrefCandleInterval] != "300" {
		t.Errorf("interval pref: got %q", prefs[domain.PrefCandleInterval])
	}

	// The persisted strings must resolve back to the same session.
	rf := service.NewRangeFilter("09:30")
	from, to, err := rf.Resolve(prefs[domain.PrefStartDate], prefs[domain.PrefEndDate], time.Now())
	if err != nil {
		t.Fatalf("persisted prefs failed to resolve: %v", err)
	}
	if from != b.WindowFrom {
		t.Errorf("from: want %d, got %d", b.WindowFrom, from)
	}
	if to != b.WindowTo {
		t.Errorf("to: want %d, got %d", b.WindowTo, to)
	}
}

func TestPersistSessionOpenEnded(t *testing.T) {
	b := testBootstrap(t)
	b.WindowFrom = time.Date(2026, 8, 24, 9, 30, 0, 0, time.Local).Unix()
	b.WindowTo = 0
	b.IntervalSeconds = 60

	if err := b.PersistSession(); err != nil {
		t.Fatalf("PersistSession failed: %v", err)
	}

	prefs, err := b.Storage.LoadPrefMap()
	if err != nil {
		t.Fatalf("LoadPrefMap failed: %v", err)
	}
	if _, ok := prefs[domain.PrefEndDate]; ok {
		t.Error("open-ended session must not persist an end date")
	}
	if prefs[domain.PrefStartDate] == "" {
		t.Error("start date must be persisted")
	}
}
