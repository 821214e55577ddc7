package feed

import (
	"errors"
	"testing"

	"chartfeed_go/internal/domain"
	"chartfeed_go/internal/event"

	"github.com/shopspring/decimal"
)

func TestDecode_NewTrades(t *testing.T) {
	raw := []byte(`{"type":"new_trades","trades":[
		{"timestamp":1000,"price":10.5,"quantity":2},
		{"timestamp":1001,"price":"10.6","quantity":"1.5"}
	]}`)

	msg, err := Decode(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	trades, ok := msg.(*event.NewTradesMessage)
	if !ok {
		t.Fatalf("expected NewTradesMessage, got %T", msg)
	}
	defer event.ReleaseNewTradesMessage(trades)

	if len(trades.Trades) != 2 {
		t.Fatalf("expected 2 trades, got %d", len(trades.Trades))
	}
	if trades.Trades[0].Timestamp != 1000 {
		t.Errorf("timestamp: got %d", trades.Trades[0].Timestamp)
	}
	if !trades.Trades[1].Price.Equal(decimal.NewFromFloat(10.6)) {
		t.Errorf("string-encoded price should parse, got %v", trades.Trades[1].Price)
	}
}

func TestDecode_HistoricalOHLC(t *testing.T) {
	raw := []byte(`{"type":"historical_ohlc","data":[
		{"time":960,"open":10,"high":10.5,"low":9.8,"close":10.2,"volume":8}
	]}`)

	msg, err := Decode(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ohlc, ok := msg.(*event.HistoricalOHLCMessage)
	if !ok {
		t.Fatalf("expected HistoricalOHLCMessage, got %T", msg)
	}
	if len(ohlc.Candles) != 1 {
		t.Fatalf("expected 1 candle, got %d", len(ohlc.Candles))
	}
	c := ohlc.Candles[0]
	if c.BucketStart != 960 {
		t.Errorf("bucket start: got %d", c.BucketStart)
	}
	if !c.WellFormed() {
		t.Errorf("decoded candle violates OHLCV invariants: %+v", c)
	}
}

func TestDecode_HistoricalTrades(t *testing.T) {
	raw := []byte(`{"type":"historical_trades","trades":[{"timestamp":10,"price":1,"quantity":1}]}`)

	msg, err := Decode(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := msg.(*event.HistoricalTradesMessage); !ok {
		t.Fatalf("expected HistoricalTradesMessage, got %T", msg)
	}
}

func TestDecode_OrderBookUpdate(t *testing.T) {
	raw := []byte(`{"type":"order_book_update","data":{
		"bids":{"10.0":[{"quantity":"2"},{"quantity":3}]},
		"asks":{"10.1":[{"quantity":null}]}
	}}`)

	msg, err := Decode(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	book, ok := msg.(*event.OrderBookUpdateMessage)
	if !ok {
		t.Fatalf("expected OrderBookUpdateMessage, got %T", msg)
	}
	defer event.ReleaseOrderBookUpdateMessage(book)

	bids := book.Snapshot.Bids["10.0"]
	if len(bids) != 2 {
		t.Fatalf("expected 2 bid orders, got %d", len(bids))
	}
	if !bids[0].Quantity.Valid || !bids[0].Quantity.Value.Equal(decimal.NewFromInt(2)) {
		t.Errorf("string quantity should parse: %+v", bids[0].Quantity)
	}
	if !bids[1].Quantity.Valid || !bids[1].Quantity.Value.Equal(decimal.NewFromInt(3)) {
		t.Errorf("number quantity should parse: %+v", bids[1].Quantity)
	}
	asks := book.Snapshot.Asks["10.1"]
	if len(asks) != 1 || asks[0].Quantity.Valid {
		t.Errorf("null quantity must decode as invalid, not fail: %+v", asks)
	}
}

func TestDecode_UnknownType(t *testing.T) {
	_, err := Decode([]byte(`{"type":"heartbeat"}`))
	if !errors.Is(err, domain.ErrUnknownMessage) {
		t.Errorf("expected ErrUnknownMessage, got %v", err)
	}
}

func TestDecode_Malformed(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"invalid json", `{not json`},
		{"bad trades payload", `{"type":"new_trades","trades":"nope"}`},
		{"book without sides", `{"type":"order_book_update","data":{}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode([]byte(tc.raw))
			var malformed *domain.MalformedMessageError
			if !errors.As(err, &malformed) {
				t.Errorf("expected MalformedMessageError, got %v", err)
			}
		})
	}
}
