package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"chartfeed_go/internal/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Storage persists user chart preferences in SQLite. The aggregation
// core never touches it: only raw preference strings live here, and the
// core consumes resolved values.
type Storage struct {
	db *gorm.DB
}

// NewStorage creates a new SQLite storage instance at the default path.
func NewStorage() (*Storage, error) {
	dbPath, err := getDBPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve DB path: %w", err)
	}
	return NewStorageAt(dbPath)
}

// NewStorageAt opens (and migrates) a store at an explicit path.
func NewStorageAt(dbPath string) (*Storage, error) {
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create DB directory: %w", err)
	}

	// Connect to SQLite (Pure Go)
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&domain.ChartPref{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Storage{db: db}, nil
}

// getDBPath resolves the database file path based on OS
func getDBPath() (string, error) {
	var configDir string
	var err error

	if runtime.GOOS == "windows" {
		configDir = os.Getenv("LOCALAPPDATA")
		if configDir == "" {
			configDir, err = os.UserConfigDir()
		}
	} else {
		configDir, err = os.UserConfigDir()
	}

	if err != nil {
		return "", err
	}

	return filepath.Join(configDir, "ChartFeed", "data", "chartfeed.db"), nil
}

// SavePref saves a user chart preference
func (s *Storage) SavePref(key, value string) error {
	pref := domain.ChartPref{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}
	return s.db.Save(&pref).Error
}

// LoadPrefMap loads all user chart preferences as a map
func (s *Storage) LoadPrefMap() (map[string]string, error) {
	var prefs []domain.ChartPref
	if err := s.db.Find(&prefs).Error; err != nil {
		return nil, err
	}

	result := make(map[string]string)
	for _, p := range prefs {
		result[p.Key] = p.Value
	}
	return result, nil
}

// DeletePref removes a preference; missing keys are not an error.
func (s *Storage) DeletePref(key string) error {
	return s.db.Where("key = ?", key).Delete(&domain.ChartPref{}).Error
}
