package render

import (
	"log/slog"

	"chartfeed_go/internal/domain"
)

// LogRenderer is a headless renderer that summarizes chart updates to
// the structured log. The real chart lives outside this process; this
// implementation keeps the session observable without one.
type LogRenderer struct{}

// NewLogRenderer creates a log-backed renderer.
func NewLogRenderer() *LogRenderer {
	return &LogRenderer{}
}

func (r *LogRenderer) DrawFullSeries(candles []domain.Candle) {
	attrs := []any{slog.Int("candles", len(candles))}
	if len(candles) > 0 {
		last := candles[len(candles)-1]
		attrs = append(attrs,
			slog.Int64("last_bucket", last.BucketStart),
			slog.String("last_close", last.Close.String()))
	}
	slog.Info("Full series drawn", attrs...)
}

func (r *LogRenderer) AppendCandles(candles []domain.Candle) {
	for _, c := range candles {
		slog.Info("Candle opened",
			slog.Int64("bucket", c.BucketStart),
			slog.String("open", c.Open.String()),
			slog.String("volume", c.Volume.String()))
	}
}

func (r *LogRenderer) UpdateCurrentCandle(candle domain.Candle) {
	slog.Debug("Current candle updated",
		slog.Int64("bucket", candle.BucketStart),
		slog.String("close", candle.Close.String()),
		slog.String("volume", candle.Volume.String()))
}

func (r *LogRenderer) DrawDepth(view domain.DepthView) {
	attrs := []any{
		slog.Int("bid_levels", len(view.Bids)),
		slog.Int("ask_levels", len(view.Asks)),
		slog.String("max_qty", view.MaxQuantity.String()),
	}
	if len(view.Bids) > 0 {
		attrs = append(attrs, slog.String("best_bid", view.Bids[0].Price.String()))
	}
	if len(view.Asks) > 0 {
		attrs = append(attrs, slog.String("best_ask", view.Asks[0].Price.String()))
	}
	slog.Debug("Depth drawn", attrs...)
}
