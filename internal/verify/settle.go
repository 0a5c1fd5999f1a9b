package verify

import (
	"context"
	"time"
)

// Probe reads the rendered state once and compares it with the expected
// state.
type Probe func(ctx context.Context) ([]Discrepancy, error)

// Settle runs probe until it reports no discrepancies or window elapses,
// polling every interval. It returns the last discrepancies seen. A probe
// error ends the wait immediately.
func Settle(ctx context.Context, window, interval time.Duration, probe Probe) ([]Discrepancy, error) {
	last, err := probe(ctx)
	if err != nil || len(last) == 0 || window <= 0 {
		return last, err
	}
	if interval <= 0 {
		interval = window
	}

	deadline := time.NewTimer(window)
	defer deadline.Stop()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return last, ctx.Err()
		case <-deadline.C:
			return last, nil
		case <-ticker.C:
			last, err = probe(ctx)
			if err != nil || len(last) == 0 {
				return last, err
			}
		}
	}
}
