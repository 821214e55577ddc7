package feed

import (
	"encoding/json"
	"fmt"
	"time"

	"chartfeed_go/internal/domain"
	"chartfeed_go/internal/event"

	"github.com/shopspring/decimal"
)

const (
	maxRetries  = 10
	readTimeout = 60 * time.Second
)

// envelope carries only the type tag; payload decoding happens per kind.
type envelope struct {
	Type string `json:"type"`
}

// tradesPayload is shared by historical_trades and new_trades.
type tradesPayload struct {
	Trades []domain.Trade `json:"trades"`
}

// wireCandle is the server's historical_ohlc element; "time" maps to
// the bucket start.
type wireCandle struct {
	Time   int64           `json:"time"`
	Open   decimal.Decimal `json:"open"`
	High   decimal.Decimal `json:"high"`
	Low    decimal.Decimal `json:"low"`
	Close  decimal.Decimal `json:"close"`
	Volume decimal.Decimal `json:"volume"`
}

type ohlcPayload struct {
	Data []wireCandle `json:"data"`
}

type bookPayload struct {
	Data domain.OrderBookSnapshot `json:"data"`
}

// subscribeRequest is the outbound request shape. All timestamps on the
// wire are epoch seconds.
type subscribeRequest struct {
	Type           string `json:"type"`
	Symbol         string `json:"symbol,omitempty"`
	FromTime       int64  `json:"from_time,omitempty"`
	ToTime         int64  `json:"to_time,omitempty"`
	CandleInterval int64  `json:"candle_interval,omitempty"`
}

// Decode turns one raw feed frame into a typed message. Unknown tags
// return domain.ErrUnknownMessage; undecodable payloads return a
// MalformedMessageError. Either way the caller drops the frame and
// prior state stays untouched.
func Decode(raw []byte) (event.Message, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &domain.MalformedMessageError{Err: err}
	}

	switch event.Kind(env.Type) {
	case event.KindNewTrades:
		var p tradesPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, &domain.MalformedMessageError{Kind: env.Type, Err: err}
		}
		msg := event.AcquireNewTradesMessage()
		msg.Trades = append(msg.Trades, p.Trades...)
		return msg, nil

	case event.KindHistoricalTrades:
		var p tradesPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, &domain.MalformedMessageError{Kind: env.Type, Err: err}
		}
		return &event.HistoricalTradesMessage{Trades: p.Trades}, nil

	case event.KindHistoricalOHLC:
		var p ohlcPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, &domain.MalformedMessageError{Kind: env.Type, Err: err}
		}
		candles := make([]domain.Candle, 0, len(p.Data))
		for _, w := range p.Data {
			candles = append(candles, domain.Candle{
				BucketStart: w.Time,
				Open:        w.Open,
				High:        w.High,
				Low:         w.Low,
				Close:       w.Close,
				Volume:      w.Volume,
			})
		}
		return &event.HistoricalOHLCMessage{Candles: candles}, nil

	case event.KindOrderBookUpdate:
		var p bookPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, &domain.MalformedMessageError{Kind: env.Type, Err: err}
		}
		if p.Data.Bids == nil && p.Data.Asks == nil {
			return nil, &domain.MalformedMessageError{Kind: env.Type, Err: fmt.Errorf("missing bid/ask maps")}
		}
		msg := event.AcquireOrderBookUpdateMessage()
		msg.Snapshot = p.Data
		return msg, nil

	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownMessage, env.Type)
	}
}
