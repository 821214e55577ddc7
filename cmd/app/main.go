package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"chartfeed_go/internal/app"
	"chartfeed_go/internal/engine"
	"chartfeed_go/internal/event"
	"chartfeed_go/internal/infra"
	"chartfeed_go/internal/infra/feed"
	"chartfeed_go/internal/render"
	"chartfeed_go/internal/service"

	_ "net/http/pprof" // For pprof profiling
)

func main() {
	// 1. Pprof Server (for performance profiling)
	go func() {
		// Localhost only for security
		slog.Info("Pprof server started on localhost:6060")
		if err := http.ListenAndServe("localhost:6060", nil); err != nil {
			slog.Error("Pprof server failed", slog.Any("error", err))
		}
	}()

	// 2. System Bootstrapping
	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(); err != nil {
		slog.Error("Bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}
	cfg := bootstrap.Config

	// 3. Graceful Shutdown Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Core: candle service + dispatcher (the single-thread loop)
	event.Warmup()
	candles := service.NewCandleService(bootstrap.IntervalSeconds)
	renderer := render.NewLogRenderer()
	dispatcher := engine.NewDispatcher(cfg.Chart.InboxSize, candles, renderer, cfg.Chart.Depth)
	// Live filtering is open-ended above the resolved start.
	dispatcher.SetWindow(bootstrap.WindowFrom, 0)

	go dispatcher.Run(ctx)
	slog.InfoContext(ctx, "Dispatcher started")

	// 5. Feed worker (gateway to the exchange simulator)
	worker := feed.NewWorker(cfg.Feed.WSURL, cfg.Feed.Symbol, dispatcher.Inbox())
	if err := worker.Connect(ctx); err != nil {
		slog.Error("Failed to connect feed", slog.Any("error", err))
		os.Exit(1)
	}
	defer worker.Disconnect()

	// 6. Seed and subscribe. Historical responses seed the aggregator;
	// live streams continue it.
	if err := worker.RequestHistoricalOHLC(bootstrap.WindowFrom, bootstrap.WindowTo, bootstrap.IntervalSeconds); err != nil {
		slog.Warn("Historical OHLC request failed", slog.Any("error", err))
	}
	if err := worker.RequestHistorical(bootstrap.WindowFrom, bootstrap.WindowTo); err != nil {
		slog.Warn("Historical trades request failed", slog.Any("error", err))
	}
	if err := worker.SubscribeTrades(); err != nil {
		slog.Warn("Trade subscription failed", slog.Any("error", err))
	}
	if err := worker.SubscribeOrderBook(); err != nil {
		slog.Warn("Order book subscription failed", slog.Any("error", err))
	}

	slog.InfoContext(ctx, "ChartFeed session running. Press Ctrl+C to exit.")

	// Wait for shutdown signal
	<-ctx.Done()

	if err := bootstrap.PersistSession(); err != nil {
		slog.Warn("Failed to persist session prefs", slog.Any("error", err))
	}

	snap := infra.GlobalMetrics.Snapshot()
	slog.Info("Shutting down gracefully...",
		slog.Uint64("messages", snap.MessagesProcessed),
		slog.Uint64("trades", snap.TradesIngested),
		slog.Uint64("late_drops", snap.TradesDroppedLate),
		slog.Uint64("parse_failures", snap.ParseFailures))
}
