package event

import "chartfeed_go/internal/domain"

// Kind is the wire type tag of an inbound feed message.
type Kind string

const (
	KindHistoricalTrades Kind = "historical_trades"
	KindHistoricalOHLC   Kind = "historical_ohlc"
	KindNewTrades        Kind = "new_trades"
	KindOrderBookUpdate  Kind = "order_book_update"
)

// Message is the tagged union over the four inbound message kinds. The
// dispatcher switches exhaustively over the concrete types; anything
// else is dropped with a diagnostic.
type Message interface {
	MessageKind() Kind
}

// HistoricalTradesMessage carries the response to a raw-trade history
// request. Feeds the raw price series, not the candle aggregator.
type HistoricalTradesMessage struct {
	Trades []domain.Trade
}

func (*HistoricalTradesMessage) MessageKind() Kind { return KindHistoricalTrades }

// HistoricalOHLCMessage carries server-side bucketed candles used to
// seed the live aggregator. The server owns historical bucketing.
type HistoricalOHLCMessage struct {
	Candles []domain.Candle
}

func (*HistoricalOHLCMessage) MessageKind() Kind { return KindHistoricalOHLC }

// NewTradesMessage carries a batch of live trades. This is the hotpath
// message; acquire it from the pool and release it after dispatch.
type NewTradesMessage struct {
	Trades []domain.Trade
}

func (*NewTradesMessage) MessageKind() Kind { return KindNewTrades }

// OrderBookUpdateMessage carries a full replacement book snapshot.
type OrderBookUpdateMessage struct {
	Snapshot domain.OrderBookSnapshot
}

func (*OrderBookUpdateMessage) MessageKind() Kind { return KindOrderBookUpdate }
