package service

import (
	"sort"

	"chartfeed_go/internal/domain"
	"chartfeed_go/internal/infra"

	"github.com/shopspring/decimal"
)

// DefaultDepth is the number of levels shown per side when the caller
// does not specify one.
const DefaultDepth = 10

// AggregateDepth reduces a raw snapshot into ranked, netted levels.
//
// Pure with respect to its inputs: no retained state, identical
// snapshots produce identical output on every call. Quantities that
// fail to parse drop only that order; the level still appears if other
// orders at the price parsed. A price key that cannot be parsed drops
// the level. Bids rank by price descending, asks ascending, each side
// truncated to depth.
func AggregateDepth(snap domain.OrderBookSnapshot, depth int) domain.DepthView {
	if depth <= 0 {
		depth = DefaultDepth
	}

	bids := aggregateSide(snap.Bids, func(a, b decimal.Decimal) bool { return a.GreaterThan(b) })
	asks := aggregateSide(snap.Asks, func(a, b decimal.Decimal) bool { return a.LessThan(b) })

	if len(bids) > depth {
		bids = bids[:depth]
	}
	if len(asks) > depth {
		asks = asks[:depth]
	}

	maxQty := decimal.Zero
	for _, lvl := range bids {
		if lvl.Quantity.GreaterThan(maxQty) {
			maxQty = lvl.Quantity
		}
	}
	for _, lvl := range asks {
		if lvl.Quantity.GreaterThan(maxQty) {
			maxQty = lvl.Quantity
		}
	}

	return domain.DepthView{Bids: bids, Asks: asks, MaxQuantity: maxQty}
}

// aggregateSide nets each price level and ranks the result with the
// given ordering.
func aggregateSide(side map[string][]domain.BookOrder, before func(a, b decimal.Decimal) bool) []domain.OrderBookLevel {
	levels := make([]domain.OrderBookLevel, 0, len(side))
	for rawPrice, orders := range side {
		price, err := decimal.NewFromString(rawPrice)
		if err != nil {
			infra.GlobalMetrics.RecordParseFailure()
			continue
		}

		total := decimal.Zero
		for _, o := range orders {
			if !o.Quantity.Valid {
				infra.GlobalMetrics.RecordParseFailure()
				continue
			}
			total = total.Add(o.Quantity.Value)
		}
		levels = append(levels, domain.OrderBookLevel{Price: price, Quantity: total})
	}

	sort.Slice(levels, func(i, j int) bool {
		return before(levels[i].Price, levels[j].Price)
	})
	return levels
}
