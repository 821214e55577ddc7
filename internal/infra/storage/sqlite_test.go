package storage

import (
	"path/filepath"
	"testing"

	"chartfeed_go/internal/domain"
)

// setupTestDB creates an isolated store under t.TempDir.
func setupTestDB(t *testing.T) *Storage {
	t.Helper()
	s, err := NewStorageAt(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	return s
}

func TestSaveAndLoadPrefs(t *testing.T) {
	s := setupTestDB(t)

	if err := s.SavePref(domain.PrefStartDate, "2026-08-20"); err != nil {
		t.Fatalf("SavePref failed: %v", err)
	}
	if err := s.SavePref(domain.PrefEndDate, "2026-08-21"); err != nil {
		t.Fatalf("SavePref failed: %v", err)
	}
	if err := s.SavePref(domain.PrefCandleInterval, "300"); err != nil {
		t.Fatalf("SavePref failed: %v", err)
	}

	prefs, err := s.LoadPrefMap()
	if err != nil {
		t.Fatalf("LoadPrefMap failed: %v", err)
	}
	if prefs[domain.PrefStartDate] != "2026-08-20" {
		t.Errorf("start date: got %q", prefs[domain.PrefStartDate])
	}
	if prefs[domain.PrefEndDate] != "2026-08-21" {
		t.Errorf("end date: got %q", prefs[domain.PrefEndDate])
	}
	if prefs[domain.PrefCandleInterval] != "300" {
		t.Errorf("interval: got %q", prefs[domain.PrefCandleInterval])
	}
}

func TestSavePrefOverwrites(t *testing.T) {
	s := setupTestDB(t)

	if err := s.SavePref(domain.PrefCandleInterval, "60"); err != nil {
		t.Fatalf("SavePref failed: %v", err)
	}
	if err := s.SavePref(domain.PrefCandleInterval, "300"); err != nil {
		t.Fatalf("SavePref failed: %v", err)
	}

	prefs, err := s.LoadPrefMap()
	if err != nil {
		t.Fatalf("LoadPrefMap failed: %v", err)
	}
	if prefs[domain.PrefCandleInterval] != "300" {
		t.Errorf("expected overwritten value 300, got %q", prefs[domain.PrefCandleInterval])
	}
	if len(prefs) != 1 {
		t.Errorf("expected a single row per key, got %d", len(prefs))
	}
}

func TestLoadPrefMapEmpty(t *testing.T) {
	s := setupTestDB(t)

	prefs, err := s.LoadPrefMap()
	if err != nil {
		t.Fatalf("LoadPrefMap failed: %v", err)
	}
	if len(prefs) != 0 {
		t.Errorf("fresh store should be empty, got %d prefs", len(prefs))
	}
}

func TestDeletePref(t *testing.T) {
	s := setupTestDB(t)

	if err := s.SavePref(domain.PrefStartDate, "2026-08-20"); err != nil {
		t.Fatalf("SavePref failed: %v", err)
	}
	if err := s.DeletePref(domain.PrefStartDate); err != nil {
		t.Fatalf("DeletePref failed: %v", err)
	}
	if err := s.DeletePref("never-existed"); err != nil {
		t.Fatalf("deleting a missing key must not fail: %v", err)
	}

	prefs, err := s.LoadPrefMap()
	if err != nil {
		t.Fatalf("LoadPrefMap failed: %v", err)
	}
	if _, ok := prefs[domain.PrefStartDate]; ok {
		t.Error("deleted pref still present")
	}
}
