package scheduler

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
)

// Poll calls fn immediately and then every interval until ctx is cancelled
// or fn returns an error. It returns ctx.Err() on cancellation.
func Poll(ctx context.Context, clock clockwork.Clock, interval time.Duration, fn func(context.Context) error) error {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if err := fn(ctx); err != nil {
		return err
	}

	ticker := clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.Chan():
			if err := fn(ctx); err != nil {
				return err
			}
		}
	}
}
