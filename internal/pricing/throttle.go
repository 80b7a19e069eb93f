package pricing

import (
	"context"
	"time"
)

// Throttle paces marketplace requests.
type Throttle interface {
	Wait(ctx context.Context) error
}

// FixedDelay pauses for the same duration before every request.
type FixedDelay struct {
	Delay time.Duration
}

// DefaultDelay keeps request volume inside the marketplace's usage terms.
const DefaultDelay = 400 * time.Millisecond

func (f FixedDelay) Wait(ctx context.Context) error {
	if f.Delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(f.Delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
