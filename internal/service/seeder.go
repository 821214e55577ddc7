package service

import (
	"sort"

	"chartfeed_go/internal/domain"
)

// Seeder bridges historical query responses into aggregator state and
// the raw trade series.
type Seeder struct {
	candles *CandleService
}

// NewSeeder creates a seeder bound to one candle service.
func NewSeeder(candles *CandleService) *Seeder {
	return &Seeder{candles: candles}
}

// SeedFromOHLC feeds server-supplied historical candles into the candle
// service. The server owns historical bucketing; candles are ordered by
// bucket start defensively before seeding. Returns the seeded count.
func (s *Seeder) SeedFromOHLC(candles []domain.Candle) int {
	ordered := make([]domain.Candle, len(candles))
	copy(ordered, candles)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].BucketStart < ordered[j].BucketStart
	})

	s.candles.Seed(ordered)
	return len(ordered)
}

// SortTrades returns a copy of the trades sorted ascending by
// timestamp, for the raw price-series view. Independent of candle
// aggregation.
func (s *Seeder) SortTrades(trades []domain.Trade) []domain.Trade {
	out := make([]domain.Trade, len(trades))
	copy(out, trades)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp < out[j].Timestamp
	})
	return out
}
