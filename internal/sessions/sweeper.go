package sessions

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper purges expired session rows on a fixed interval. SweepExpired is
// idempotent, so overlapping runs need no coordination.
type Sweeper struct {
	store    SessionStore
	interval time.Duration
}

func NewSweeper(store SessionStore, interval time.Duration) *Sweeper {
	return &Sweeper{store: store, interval: interval}
}

func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			count, err := s.store.SweepExpired(ctx)
			if err != nil {
				slog.Error("Failed to sweep expired sessions", "error", err)
				continue
			}
			if count > 0 {
				slog.Info("Swept expired sessions", "count", count)
			}
		}
	}
}
