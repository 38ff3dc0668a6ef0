package await

import (
	"context"
	"time"
)

type tickerAwaiter struct {
	*time.Ticker
}

// Tick awaits a periodic tick. The underlying ticker lives as long as
// the awaiter, so Tick is meant for process-lifetime loops.
func Tick(interval time.Duration) Awaiter {
	return &tickerAwaiter{time.NewTicker(interval)}
}

func (t *tickerAwaiter) Await(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-t.Ticker.C:
		return true
	}
}
