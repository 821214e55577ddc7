package domain

import "github.com/shopspring/decimal"

// Trade is a single executed trade on the instrument.
// Immutable once received; timestamps are epoch seconds on the wire.
type Trade struct {
	Timestamp int64           `json:"timestamp"`
	Price     decimal.Decimal `json:"price"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// Candle is one OHLCV bucket. BucketStart is always a multiple of the
// aggregation interval.
type Candle struct {
	BucketStart int64           `json:"time"`
	Open        decimal.Decimal `json:"open"`
	High        decimal.Decimal `json:"high"`
	Low         decimal.Decimal `json:"low"`
	Close       decimal.Decimal `json:"close"`
	Volume      decimal.Decimal `json:"volume"`
}

// NewCandleFromTrade opens a fresh candle for the given bucket with all
// four prices at the trade price.
func NewCandleFromTrade(bucketStart int64, t Trade) Candle {
	return Candle{
		BucketStart: bucketStart,
		Open:        t.Price,
		High:        t.Price,
		Low:         t.Price,
		Close:       t.Price,
		Volume:      t.Quantity,
	}
}

// ApplyTrade folds a same-bucket trade into the candle.
func (c *Candle) ApplyTrade(t Trade) {
	if c.Open.IsZero() && c.Volume.IsZero() {
		c.Open = t.Price
	}
	if t.Price.GreaterThan(c.High) {
		c.High = t.Price
	}
	if t.Price.LessThan(c.Low) {
		c.Low = t.Price
	}
	c.Close = t.Price
	c.Volume = c.Volume.Add(t.Quantity)
}

// WellFormed reports whether the OHLCV invariants hold:
// high >= max(open, close, low), low <= min(open, close, high), volume >= 0.
func (c Candle) WellFormed() bool {
	if c.High.LessThan(c.Open) || c.High.LessThan(c.Close) || c.High.LessThan(c.Low) {
		return false
	}
	if c.Low.GreaterThan(c.Open) || c.Low.GreaterThan(c.Close) || c.Low.GreaterThan(c.High) {
		return false
	}
	return !c.Volume.IsNegative()
}
