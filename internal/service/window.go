package service

import (
	"fmt"
	"time"

	"chartfeed_go/internal/domain"
)

const (
	// DefaultSessionOpen is the fallback session open wall-clock time.
	DefaultSessionOpen = "09:30"

	dateTimeLayout = "2006-01-02 15:04:05"
	dateLayout     = "2006-01-02"
)

// RangeFilter resolves the active time window and its bounds from raw
// session settings. Stateless apart from the configured session open.
type RangeFilter struct {
	openHour   int
	openMinute int
}

// NewRangeFilter builds a filter whose default window starts at the
// given "HH:MM" local session open; an unparseable value falls back to
// DefaultSessionOpen.
func NewRangeFilter(sessionOpen string) *RangeFilter {
	t, err := time.Parse("15:04", sessionOpen)
	if err != nil {
		t, _ = time.Parse("15:04", DefaultSessionOpen)
	}
	return &RangeFilter{openHour: t.Hour(), openMinute: t.Minute()}
}

// DefaultWindow returns the window used when no start preference is
// persisted: from the most recent session open at or before now, with
// an open-ended upper bound (to = 0). If now is earlier than today's
// session open, yesterday's open is used.
func (r *RangeFilter) DefaultWindow(now time.Time) (from, to int64) {
	open := time.Date(now.Year(), now.Month(), now.Day(), r.openHour, r.openMinute, 0, 0, now.Location())
	if open.After(now) {
		open = open.AddDate(0, 0, -1)
	}
	return open.Unix(), 0
}

// Resolve converts raw persisted date/time strings to epoch seconds.
//
// An absent start falls back to DefaultWindow. An absent end resolves
// to now — a historical range request needs a concrete upper bound —
// but live trade filtering still treats the window as open-ended
// (to = 0 sentinel, see CandleService.Ingest).
func (r *RangeFilter) Resolve(rawStart, rawEnd string, now time.Time) (from, to int64, err error) {
	if rawStart == "" {
		from, _ = r.DefaultWindow(now)
	} else {
		start, perr := parseLocal(rawStart, now.Location())
		if perr != nil {
			return 0, 0, fmt.Errorf("%w: start %q: %v", domain.ErrInvalidRange, rawStart, perr)
		}
		from = start.Unix()
	}

	if rawEnd == "" {
		to = now.Unix()
	} else {
		end, perr := parseLocal(rawEnd, now.Location())
		if perr != nil {
			return 0, 0, fmt.Errorf("%w: end %q: %v", domain.ErrInvalidRange, rawEnd, perr)
		}
		to = end.Unix()
	}

	if to < from {
		return 0, 0, fmt.Errorf("%w: end %d precedes start %d", domain.ErrInvalidRange, to, from)
	}
	return from, to, nil
}

func parseLocal(raw string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation(dateTimeLayout, raw, loc); err == nil {
		return t, nil
	}
	return time.ParseInLocation(dateLayout, raw, loc)
}
