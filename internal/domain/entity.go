package domain

import (
	"time"
)

// Persisted preference keys. Raw values live in the pref store; the
// aggregation core only ever sees them resolved to epoch seconds and an
// interval width.
const (
	PrefStartDate      = "startDate"
	PrefEndDate        = "endDate"
	PrefCandleInterval = "candleInterval"
)

// ChartPref represents a user-specific chart setting (Key-Value)
type ChartPref struct {
	Key       string    `gorm:"primaryKey" json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
