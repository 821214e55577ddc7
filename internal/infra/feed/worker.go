package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"chartfeed_go/internal/domain"
	"chartfeed_go/internal/event"
	"chartfeed_go/internal/infra"

	"github.com/gorilla/websocket"
)

// Worker handles the exchange simulator WebSocket connection. Inbound
// frames are decoded and delivered to the dispatcher inbox in arrival
// order; outbound requests share one thread-safe write path.
type Worker struct {
	url       string
	symbol    string
	inbox     chan<- event.Message
	conn      *websocket.Conn
	mu        sync.RWMutex
	writeMu   sync.Mutex
	connected bool
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// NewWorker creates a feed worker for one instrument.
func NewWorker(url, symbol string, inbox chan<- event.Message) *Worker {
	return &Worker{
		url:    url,
		symbol: symbol,
		inbox:  inbox,
	}
}

// Connect starts the WebSocket connection loop.
func (w *Worker) Connect(ctx context.Context) error {
	ctx, w.cancel = context.WithCancel(ctx)
	w.wg.Add(1)
	go w.connectionLoop(ctx)
	return nil
}

func (w *Worker) connectionLoop(ctx context.Context) {
	defer w.wg.Done()
	retryCount := 0
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := w.connect(ctx); err != nil {
			slog.Warn("Feed connection failed", slog.Any("error", err), slog.Int("retry", retryCount))
			delay := infra.CalculateBackoff(retryCount)
			retryCount++
			if retryCount > maxRetries {
				retryCount = 0
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
				continue
			}
		} else {
			retryCount = 0
			w.readLoop(ctx)
		}
	}
}

func (w *Worker) connect(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	header := make(http.Header)

	conn, _, err := dialer.DialContext(ctx, w.url, header)
	if err != nil {
		return fmt.Errorf("dial failed: %w", domain.NewNetworkError("connect", err))
	}

	w.mu.Lock()
	w.conn = conn
	w.connected = true
	w.mu.Unlock()
	infra.GlobalMetrics.SetConnected(true)

	slog.Info("Feed connected", slog.String("url", w.url), slog.String("symbol", w.symbol))
	return nil
}

// IsConnected reports whether a live connection is up.
func (w *Worker) IsConnected() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.connected
}

// SubscribeTrades asks the server to start streaming live trades.
func (w *Worker) SubscribeTrades() error {
	return w.sendRequest(subscribeRequest{Type: "subscribe_trades", Symbol: w.symbol})
}

// SubscribeOrderBook asks the server to start streaming book snapshots.
func (w *Worker) SubscribeOrderBook() error {
	return w.sendRequest(subscribeRequest{Type: "subscribe_order_book", Symbol: w.symbol})
}

// UnsubscribeOrderBook stops the book snapshot stream. This is the only
// cancel-like operation at the feed boundary.
func (w *Worker) UnsubscribeOrderBook() error {
	return w.sendRequest(subscribeRequest{Type: "unsubscribe_order_book", Symbol: w.symbol})
}

// RequestHistorical asks for raw trades within [fromTime, toTime].
func (w *Worker) RequestHistorical(fromTime, toTime int64) error {
	return w.sendRequest(subscribeRequest{
		Type:     "request_historical",
		Symbol:   w.symbol,
		FromTime: fromTime,
		ToTime:   toTime,
	})
}

// RequestHistoricalOHLC asks for server-side bucketed candles.
func (w *Worker) RequestHistoricalOHLC(fromTime, toTime, candleInterval int64) error {
	return w.sendRequest(subscribeRequest{
		Type:           "request_historical_ohlc",
		Symbol:         w.symbol,
		FromTime:       fromTime,
		ToTime:         toTime,
		CandleInterval: candleInterval,
	})
}

func (w *Worker) sendRequest(req subscribeRequest) error {
	b, err := json.Marshal(req)
	if err != nil {
		return err
	}
	return w.threadSafeWrite(websocket.TextMessage, b)
}

func (w *Worker) threadSafeWrite(msgType int, data []byte) error {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.conn == nil {
		return domain.NewNetworkError("write", errors.New("no conn"))
	}
	return w.conn.WriteMessage(msgType, data)
}

func (w *Worker) readLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		// Copy under the lock; Disconnect nils w.conn from another goroutine.
		w.mu.RLock()
		conn := w.conn
		w.mu.RUnlock()
		if conn == nil {
			return
		}

		conn.SetReadDeadline(time.Now().Add(readTimeout))
		_, raw, err := conn.ReadMessage()
		if err != nil {
			w.closeConnection()
			return
		}
		w.handleMessage(ctx, raw)
	}
}

func (w *Worker) handleMessage(ctx context.Context, raw []byte) {
	msg, err := Decode(raw)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownMessage) {
			infra.GlobalMetrics.RecordUnknownMessage()
		} else {
			infra.GlobalMetrics.RecordParseFailure()
		}
		slog.Warn("Dropping feed frame", slog.Any("error", err))
		return
	}

	// Blocking send: frames must reach the dispatcher in arrival order.
	select {
	case <-ctx.Done():
	case w.inbox <- msg:
	}
}

func (w *Worker) closeConnection() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.conn != nil {
		w.conn.Close()
		w.conn = nil
	}
	w.connected = false
	infra.GlobalMetrics.SetConnected(false)
}

// Disconnect stops the connection loop and waits for it to exit.
func (w *Worker) Disconnect() {
	if w.cancel != nil {
		w.cancel()
	}
	w.closeConnection()
	w.wg.Wait()
}
