package domain

import "context"

// Renderer is the drawing boundary. The core never draws; it hands the
// renderer minimal updates so a chart can redraw incrementally instead
// of rebuilding the whole series on every trade.
type Renderer interface {
	DrawFullSeries(candles []Candle)
	AppendCandles(candles []Candle)
	UpdateCurrentCandle(candle Candle)
	DrawDepth(view DepthView)
}

// Transport defines the feed connection to the exchange simulator.
type Transport interface {
	Connect(ctx context.Context) error
	Disconnect()
	IsConnected() bool

	SubscribeTrades() error
	SubscribeOrderBook() error
	UnsubscribeOrderBook() error
	RequestHistorical(fromTime, toTime int64) error
	RequestHistoricalOHLC(fromTime, toTime, candleInterval int64) error
}

// PrefStore persists user chart preferences between sessions. The core
// never reads raw preference strings; it only consumes resolved values.
type PrefStore interface {
	SavePref(key, value string) error
	LoadPrefMap() (map[string]string, error)
}
