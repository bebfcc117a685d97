package services

import (
	"context"
	"log/slog"
	"time"
)

// refreshTarget is the slice of SportDataService the refresher needs.
type refreshTarget interface {
	RefreshAll(ctx context.Context) error
}

// Refresher polls the remote API on a fixed interval so cached data stays
// inside the freshness window without waiting for a reader to trip a fetch.
type Refresher struct {
	target   refreshTarget
	logger   *slog.Logger
	interval time.Duration
}

// NewRefresher wires a refresher. A non-positive interval falls back to
// CacheTTL.
func NewRefresher(target refreshTarget, logger *slog.Logger, interval time.Duration) *Refresher {
	if interval <= 0 {
		interval = CacheTTL
	}
	return &Refresher{target: target, logger: logger, interval: interval}
}

// Run refreshes once immediately, then on every tick until the context is
// cancelled. Refresh failures are logged and the loop keeps going.
func (r *Refresher) Run(ctx context.Context) {
	r.logger.InfoContext(ctx, "refresher started", "interval", r.interval.String())

	if err := r.target.RefreshAll(ctx); err != nil {
		r.logger.WarnContext(ctx, "initial refresh failed", "err", err)
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.logger.InfoContext(ctx, "refresher stopped")
			return
		case <-ticker.C:
			if err := r.target.RefreshAll(ctx); err != nil {
				r.logger.WarnContext(ctx, "refresh failed", "err", err)
			}
		}
	}
}
