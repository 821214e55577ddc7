package app

import (
	"log/slog"
	"strconv"
	"time"

	"chartfeed_go/internal/domain"
	"chartfeed_go/internal/infra"
	"chartfeed_go/internal/infra/storage"
	"chartfeed_go/internal/service"
)

// Bootstrap orchestrates the application startup sequence
type Bootstrap struct {
	Config  *infra.Config
	Storage *storage.Storage

	// Resolved session settings
	WindowFrom      int64
	WindowTo        int64
	IntervalSeconds int64
}

// NewBootstrap creates a new Bootstrap instance
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize performs core system initialization (config, logger, prefs).
func (b *Bootstrap) Initialize() error {
	slog.Info("Bootstrapping ChartFeed...")

	// 1. Load Config
	cfg, err := infra.LoadConfig("configs/config.yaml")
	if err != nil {
		return err // Let main handle the error
	}
	b.Config = cfg

	// 2. Setup Logger
	logger := infra.NewLogger(cfg)
	slog.SetDefault(logger)

	// 3. Initialize preference store (DB)
	store, err := storage.NewStorage()
	if err != nil {
		return err
	}
	b.Storage = store
	slog.Info("Preference store initialized")

	// 4. Resolve session window and interval from persisted prefs
	if err := b.resolveSession(time.Now()); err != nil {
		return err
	}

	return nil
}

// resolveSession turns persisted preference strings into the resolved
// {from, to, interval} values the core consumes. Unset or unparseable
// prefs fall back to config defaults; a bad range is reported, not fatal.
func (b *Bootstrap) resolveSession(now time.Time) error {
	prefs, err := b.Storage.LoadPrefMap()
	if err != nil {
		return err
	}

	sessionOpen := b.Config.Chart.SessionOpen
	if sessionOpen == "" {
		sessionOpen = service.DefaultSessionOpen
	}
	rf := service.NewRangeFilter(sessionOpen)

	from, to, err := rf.Resolve(prefs[domain.PrefStartDate], prefs[domain.PrefEndDate], now)
	if err != nil {
		slog.Warn("Persisted range invalid, using default window", slog.Any("error", err))
		from, to = rf.DefaultWindow(now)
		to = now.Unix()
	}
	b.WindowFrom = from
	b.WindowTo = to

	b.IntervalSeconds = b.Config.Chart.CandleIntervalSec
	if raw, ok := prefs[domain.PrefCandleInterval]; ok {
		if sec, perr := strconv.ParseInt(raw, 10, 64); perr == nil && sec > 0 {
			b.IntervalSeconds = sec
		} else {
			slog.Warn("Persisted candle interval invalid", slog.String("value", raw))
		}
	}

	slog.Info("Session resolved",
		slog.Int64("from", b.WindowFrom),
		slog.Int64("to", b.WindowTo),
		slog.Int64("interval_sec", b.IntervalSeconds))
	return nil
}

const prefTimeLayout = "2006-01-02 15:04:05"

// PersistSession writes the resolved session back to the store so the
// next run restores the same window and interval. An open-ended upper
// bound stays unset so the next resolution picks a fresh "now".
func (b *Bootstrap) PersistSession() error {
	start := time.Unix(b.WindowFrom, 0).Format(prefTimeLayout)
	end := ""
	if b.WindowTo > 0 {
		end = time.Unix(b.WindowTo, 0).Format(prefTimeLayout)
	}
	return b.SavePrefs(start, end, b.IntervalSeconds)
}

// SavePrefs writes the current session settings back to the store so
// the next session starts where this one left off.
func (b *Bootstrap) SavePrefs(startDate, endDate string, intervalSeconds int64) error {
	if startDate != "" {
		if err := b.Storage.SavePref(domain.PrefStartDate, startDate); err != nil {
			return err
		}
	}
	if endDate != "" {
		if err := b.Storage.SavePref(domain.PrefEndDate, endDate); err != nil {
			return err
		}
	}
	return b.Storage.SavePref(domain.PrefCandleInterval, strconv.FormatInt(intervalSeconds, 10))
}
