package service

import (
	"log/slog"
	"sort"

	"chartfeed_go/internal/domain"
	"chartfeed_go/internal/infra"
)

// AggregatorState tracks which bucket is currently open. It is owned
// exclusively by one CandleService per session; there is no ambient
// module-level state.
type AggregatorState struct {
	IntervalSeconds int64
	CurrentBucket   int64
	HasCurrent      bool
}

// CandleService maintains the OHLCV candle series for one instrument.
// The series grows by append (new bucket) or in-place update of its
// last element (the single open candle) only; it never shrinks or
// reorders. All closed candles are immutable.
//
// Not safe for concurrent use: exactly one dispatcher goroutine owns it.
type CandleService struct {
	state  AggregatorState
	series []domain.Candle
	seeded bool
}

// IngestResult reports what a batch changed so the renderer can apply
// minimal updates instead of redrawing the whole series. Appended holds
// the end-of-batch values of every candle the batch opened, including
// trades that landed in those buckets later in the same batch.
type IngestResult struct {
	Appended    []domain.Candle
	LastMutated bool
}

// NewCandleService creates an empty, unseeded candle service.
func NewCandleService(intervalSeconds int64) *CandleService {
	return &CandleService{
		state: AggregatorState{IntervalSeconds: intervalSeconds},
	}
}

// Seed initializes the series to exactly the given candles and derives
// the open bucket from the last element. Must be called before the
// first live ingestion; the server owns historical bucketing and the
// service only continues it live.
func (s *CandleService) Seed(candles []domain.Candle) {
	s.series = make([]domain.Candle, len(candles))
	copy(s.series, candles)

	if len(s.series) > 0 {
		last := s.series[len(s.series)-1]
		s.state.CurrentBucket = last.BucketStart
		s.state.HasCurrent = true
	} else {
		s.state.CurrentBucket = 0
		s.state.HasCurrent = false
	}
	s.seeded = true
}

// Seeded reports whether Seed has been called since creation or the
// last interval change.
func (s *CandleService) Seeded() bool {
	return s.seeded
}

// Ingest folds a batch of live trades into the series.
//
// Trades outside [windowFrom, windowTo] are discarded (informational,
// not an error); windowTo <= 0 means the window is open-ended, which is
// how live trades are filtered. The surviving trades are stable-sorted
// by timestamp before bucket assignment so candle construction is
// monotonic regardless of transport-level reordering. A trade whose
// bucket precedes the open one is dropped silently: the historical/live
// split is owned by the server and closed buckets are never backfilled.
func (s *CandleService) Ingest(trades []domain.Trade, windowFrom, windowTo int64) IngestResult {
	var res IngestResult

	batch := make([]domain.Trade, 0, len(trades))
	for _, t := range trades {
		if t.Timestamp < windowFrom || (windowTo > 0 && t.Timestamp > windowTo) {
			infra.GlobalMetrics.RecordWindowDrop()
			slog.Info("trade outside active window",
				slog.Int64("timestamp", t.Timestamp),
				slog.Int64("from", windowFrom),
				slog.Int64("to", windowTo))
			continue
		}
		batch = append(batch, t)
	}

	// Ties keep arrival order: bucket assignment depends on monotonic processing.
	sort.SliceStable(batch, func(i, j int) bool {
		return batch[i].Timestamp < batch[j].Timestamp
	})

	appended := 0
	for _, t := range batch {
		bucket := floorBucket(t.Timestamp, s.state.IntervalSeconds)

		switch {
		case !s.state.HasCurrent || bucket > s.state.CurrentBucket:
			// Close the current candle and open a new one. Skipped
			// buckets are not gap-filled; callers must tolerate holes.
			s.series = append(s.series, domain.NewCandleFromTrade(bucket, t))
			s.state.CurrentBucket = bucket
			s.state.HasCurrent = true
			appended++

		case bucket == s.state.CurrentBucket:
			s.series[len(s.series)-1].ApplyTrade(t)
			res.LastMutated = true

		default:
			// Late trade for an already-closed bucket: documented
			// limitation, dropped without error.
			infra.GlobalMetrics.RecordLateDrop()
		}
	}

	// Copy appended candles from the series tail only now: later trades
	// in the batch may have folded into them, and the renderer must see
	// their final values, not their opening ones.
	if appended > 0 {
		res.Appended = append(res.Appended, s.series[len(s.series)-appended:]...)
	}

	infra.GlobalMetrics.RecordTradesIngested(len(batch))
	return res
}

// floorBucket floors a timestamp to its bucket start. Integer division
// truncates toward zero, so negative timestamps need one more step down.
func floorBucket(ts, interval int64) int64 {
	bucket := (ts / interval) * interval
	if ts < 0 && ts%interval != 0 {
		bucket -= interval
	}
	return bucket
}

// SetInterval changes the bucket width. Existing candles are no longer
// aligned, so this is a full reset: the series is cleared and the
// service must be re-seeded from a fresh historical query before the
// next ingestion.
func (s *CandleService) SetInterval(intervalSeconds int64) {
	s.state = AggregatorState{IntervalSeconds: intervalSeconds}
	s.series = nil
	s.seeded = false
}

// Interval returns the active bucket width in seconds.
func (s *CandleService) Interval() int64 {
	return s.state.IntervalSeconds
}

// Series returns a copy of the full candle series for full redraws.
func (s *CandleService) Series() []domain.Candle {
	out := make([]domain.Candle, len(s.series))
	copy(out, s.series)
	return out
}

// Current returns the open candle, if any.
func (s *CandleService) Current() (domain.Candle, bool) {
	if !s.state.HasCurrent || len(s.series) == 0 {
		return domain.Candle{}, false
	}
	return s.series[len(s.series)-1], true
}

// State returns a copy of the aggregator state (external reads only).
func (s *CandleService) State() AggregatorState {
	return s.state
}
