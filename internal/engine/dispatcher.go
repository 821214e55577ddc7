package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"chartfeed_go/internal/domain"
	"chartfeed_go/internal/event"
	"chartfeed_go/internal/infra"
	"chartfeed_go/internal/service"
)

// maxRawTrades bounds the raw price-series view kept for full redraws.
const maxRawTrades = 100_000

// Dispatcher is the core single-threaded message processor. Every
// inbound feed message flows through it strictly in arrival order, and
// it is the only goroutine that ever touches aggregator state, so the
// core needs no locking.
type Dispatcher struct {
	inbox    chan event.Message
	candles  *service.CandleService
	seeder   *service.Seeder
	renderer domain.Renderer
	depth    int

	windowFrom int64
	windowTo   int64

	rawTrades []domain.Trade
}

// NewDispatcher creates a dispatcher routing to the given candle
// service and renderer. depth <= 0 falls back to service.DefaultDepth.
func NewDispatcher(inboxSize int, candles *service.CandleService, renderer domain.Renderer, depth int) *Dispatcher {
	return &Dispatcher{
		inbox:    make(chan event.Message, inboxSize),
		candles:  candles,
		seeder:   service.NewSeeder(candles),
		renderer: renderer,
		depth:    depth,
	}
}

// Inbox returns the message channel. The transport worker sends here.
func (d *Dispatcher) Inbox() chan<- event.Message {
	return d.inbox
}

// SetWindow sets the active ingestion window. windowTo <= 0 keeps live
// filtering open-ended.
func (d *Dispatcher) SetWindow(from, to int64) {
	d.windowFrom = from
	d.windowTo = to
}

// Run starts the main event loop. This MUST be run in a single goroutine.
func (d *Dispatcher) Run(ctx context.Context) {
	slog.Info("Dispatcher started (single-thread message loop)")

	defer func() {
		if r := recover(); r != nil {
			slog.Error("CRITICAL_PANIC_DETECTED", slog.Any("panic", r))
			d.DumpState("panic_dump.json")
			panic(fmt.Sprintf("HALTED: %v", r))
		}
	}()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Dispatcher stopping...")
			return
		case msg := <-d.inbox:
			d.Dispatch(msg)
		}
	}
}

// Dispatch routes one inbound message. Exported so tests and replay
// tooling can drive the loop synchronously.
func (d *Dispatcher) Dispatch(msg event.Message) {
	infra.GlobalMetrics.RecordMessage()

	switch m := msg.(type) {
	case *event.HistoricalOHLCMessage:
		d.handleHistoricalOHLC(m)
	case *event.HistoricalTradesMessage:
		d.handleHistoricalTrades(m)
	case *event.NewTradesMessage:
		d.handleNewTrades(m)
		event.ReleaseNewTradesMessage(m)
	case *event.OrderBookUpdateMessage:
		d.handleOrderBookUpdate(m)
		event.ReleaseOrderBookUpdateMessage(m)
	default:
		infra.GlobalMetrics.RecordUnknownMessage()
		slog.Warn("Unknown message type", slog.Any("kind", msg.MessageKind()))
	}
}

func (d *Dispatcher) handleHistoricalOHLC(m *event.HistoricalOHLCMessage) {
	n := d.seeder.SeedFromOHLC(m.Candles)
	slog.Info("Candle series seeded", slog.Int("candles", n))
	d.renderer.DrawFullSeries(d.candles.Series())
}

func (d *Dispatcher) handleHistoricalTrades(m *event.HistoricalTradesMessage) {
	d.rawTrades = d.seeder.SortTrades(m.Trades)
	if len(d.rawTrades) > maxRawTrades {
		d.rawTrades = d.rawTrades[len(d.rawTrades)-maxRawTrades:]
	}
	slog.Info("Raw trade series loaded", slog.Int("trades", len(d.rawTrades)))
}

func (d *Dispatcher) handleNewTrades(m *event.NewTradesMessage) {
	if !d.candles.Seeded() {
		// Live trades before the historical seed would misalign the
		// open bucket; drop the batch and wait for the seed response.
		slog.Warn("Dropping live trades before seed", slog.Int("trades", len(m.Trades)))
		return
	}

	res := d.candles.Ingest(m.Trades, d.windowFrom, d.windowTo)

	d.rawTrades = append(d.rawTrades, m.Trades...)
	if len(d.rawTrades) > maxRawTrades {
		d.rawTrades = d.rawTrades[len(d.rawTrades)-maxRawTrades:]
	}

	if len(res.Appended) > 0 {
		d.renderer.AppendCandles(res.Appended)
	}
	if res.LastMutated {
		if current, ok := d.candles.Current(); ok {
			d.renderer.UpdateCurrentCandle(current)
		}
	}
}

func (d *Dispatcher) handleOrderBookUpdate(m *event.OrderBookUpdateMessage) {
	view := service.AggregateDepth(m.Snapshot, d.depth)
	infra.GlobalMetrics.RecordSnapshot()
	d.renderer.DrawDepth(view)
}

// ChangeInterval resets the aggregator for a new bucket width and asks
// the server for a fresh historical seed. Reset happens first: live
// trades arriving before the seed response hit the seed gate and are
// dropped instead of landing in misaligned buckets.
func (d *Dispatcher) ChangeInterval(t domain.Transport, intervalSeconds, histFrom, histTo int64) error {
	d.candles.SetInterval(intervalSeconds)
	slog.Info("Candle interval changed, reseeding",
		slog.Int64("interval_sec", intervalSeconds),
		slog.Int64("from", histFrom),
		slog.Int64("to", histTo))
	return t.RequestHistoricalOHLC(histFrom, histTo, intervalSeconds)
}

// RawTrades returns a copy of the raw price series (external read).
func (d *Dispatcher) RawTrades() []domain.Trade {
	out := make([]domain.Trade, len(d.rawTrades))
	copy(out, d.rawTrades)
	return out
}

// DumpState writes the aggregator state to a file (for post-mortem).
func (d *Dispatcher) DumpState(filename string) {
	slog.Info("Dumping internal state...", slog.String("file", filename))

	data := struct {
		State     service.AggregatorState `json:"state"`
		Series    []domain.Candle         `json:"series"`
		RawTrades int                     `json:"raw_trades"`
	}{
		State:     d.candles.State(),
		Series:    d.candles.Series(),
		RawTrades: len(d.rawTrades),
	}

	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		slog.Error("Failed to marshal state", slog.Any("error", err))
		return
	}

	if err := os.WriteFile(filename, b, 0644); err != nil {
		slog.Error("Failed to write state dump", slog.Any("error", err))
	}
}
