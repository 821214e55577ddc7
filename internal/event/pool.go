package event

import (
	"sync"
)

// Pools for the two high-frequency message kinds. Use these to reduce
// GC pressure in the hotpath.
//
// Usage:
//
//	msg := AcquireNewTradesMessage()
//	msg.Trades = append(msg.Trades, trades...)
//	// ... dispatch ...
//	ReleaseNewTradesMessage(msg)  // Return to pool after processing
var newTradesPool = sync.Pool{
	New: func() interface{} {
		return &NewTradesMessage{}
	},
}

// AcquireNewTradesMessage gets a NewTradesMessage from the pool.
// The returned message has an empty (but possibly pre-allocated) batch.
func AcquireNewTradesMessage() *NewTradesMessage {
	return newTradesPool.Get().(*NewTradesMessage)
}

// ReleaseNewTradesMessage returns a NewTradesMessage to the pool.
// The batch is truncated but its backing array is kept for reuse.
func ReleaseNewTradesMessage(msg *NewTradesMessage) {
	if msg == nil {
		return
	}
	msg.Trades = msg.Trades[:0]
	newTradesPool.Put(msg)
}

// OrderBookUpdateMessage pool
var orderBookPool = sync.Pool{
	New: func() interface{} {
		return &OrderBookUpdateMessage{}
	},
}

// AcquireOrderBookUpdateMessage gets an OrderBookUpdateMessage from the pool.
func AcquireOrderBookUpdateMessage() *OrderBookUpdateMessage {
	return orderBookPool.Get().(*OrderBookUpdateMessage)
}

// ReleaseOrderBookUpdateMessage returns an OrderBookUpdateMessage to the pool.
func ReleaseOrderBookUpdateMessage(msg *OrderBookUpdateMessage) {
	if msg == nil {
		return
	}
	msg.Snapshot.Bids = nil
	msg.Snapshot.Asks = nil
	orderBookPool.Put(msg)
}

// Warmup pre-allocates message objects to reduce GC pressure at startup.
// It acquires and releases a batch of messages.
func Warmup() {
	const batchSize = 1000

	tradeMsgs := make([]*NewTradesMessage, 0, batchSize)
	for i := 0; i < batchSize; i++ {
		tradeMsgs = append(tradeMsgs, AcquireNewTradesMessage())
	}
	for _, msg := range tradeMsgs {
		ReleaseNewTradesMessage(msg)
	}

	bookMsgs := make([]*OrderBookUpdateMessage, 0, batchSize)
	for i := 0; i < batchSize; i++ {
		bookMsgs = append(bookMsgs, AcquireOrderBookUpdateMessage())
	}
	for _, msg := range bookMsgs {
		ReleaseOrderBookUpdateMessage(msg)
	}
}
