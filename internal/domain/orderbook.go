package domain

import (
	"bytes"

	"github.com/shopspring/decimal"
)

// FlexDecimal decodes a numeric wire field that may arrive as a JSON
// number or as a string ("2" vs 2). A value that parses as neither is
// recorded as invalid instead of failing the whole document, so one bad
// order never takes down the snapshot it arrived in.
type FlexDecimal struct {
	Value decimal.Decimal
	Valid bool
}

func (f *FlexDecimal) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		f.Valid = false
		return nil
	}
	if data[0] == '"' && data[len(data)-1] == '"' && len(data) >= 2 {
		data = data[1 : len(data)-1]
	}
	d, err := decimal.NewFromString(string(data))
	if err != nil {
		f.Valid = false
		return nil
	}
	f.Value = d
	f.Valid = true
	return nil
}

func (f FlexDecimal) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return []byte(f.Value.String()), nil
}

// BookOrder is one resting order at a price level as the exchange
// publishes it. Only the quantity matters for depth aggregation.
type BookOrder struct {
	Quantity FlexDecimal `json:"quantity"`
}

// OrderBookSnapshot is a full replacement view of the book keyed by
// price (as the exchange encodes it, a string). There is no incremental
// diffing: each snapshot supersedes the previous one entirely.
type OrderBookSnapshot struct {
	Bids map[string][]BookOrder `json:"bids"`
	Asks map[string][]BookOrder `json:"asks"`
}

// OrderBookLevel is one netted, ranked depth level. Derived per
// snapshot, never persisted.
type OrderBookLevel struct {
	Price    decimal.Decimal `json:"price"`
	Quantity decimal.Decimal `json:"quantity"`
}

// DepthView is the ranked top-of-book handed to the renderer.
// MaxQuantity is the largest displayed level on either side and is zero
// when both sides are empty, so downstream scaling never divides by zero.
type DepthView struct {
	Bids        []OrderBookLevel `json:"bids"`
	Asks        []OrderBookLevel `json:"asks"`
	MaxQuantity decimal.Decimal  `json:"max_quantity"`
}
