package infra

import (
	"math/rand"
	"time"
)

const (
	backoffBase = 1 * time.Second
	backoffMax  = 60 * time.Second
)

// CalculateBackoff returns an exponential reconnect delay with jitter.
// retry 0 -> ~1s, doubling up to the 60s cap.
func CalculateBackoff(retry int) time.Duration {
	if retry < 0 {
		retry = 0
	}
	delay := backoffBase << uint(retry)
	if delay > backoffMax || delay <= 0 {
		delay = backoffMax
	}
	// Up to 20% jitter to avoid reconnect stampedes
	jitter := time.Duration(rand.Int63n(int64(delay) / 5))
	return delay + jitter
}
