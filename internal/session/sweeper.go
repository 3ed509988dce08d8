package session

import (
	"context"
	"time"

	"scambait-lab/pkg/logger"
)

// Sweeper periodically evicts sessions past their maximum age.
type Sweeper struct {
	store    *Store
	maxAge   time.Duration
	interval time.Duration
	logger   *logger.Logger
}

// NewSweeper creates a sweeper. Zero values fall back to 24h age and
// 15m interval.
func NewSweeper(store *Store, maxAge, interval time.Duration, log *logger.Logger) *Sweeper {
	if maxAge <= 0 {
		maxAge = 24 * time.Hour
	}
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &Sweeper{
		store:    store,
		maxAge:   maxAge,
		interval: interval,
		logger:   log.WithComponent("session-sweeper"),
	}
}

// Run sweeps until the context is cancelled.
func (sw *Sweeper) Run(ctx context.Context) error {
	sw.logger.Info().
		Dur("max_age", sw.maxAge).
		Dur("interval", sw.interval).
		Msg("sweeper started")

	ticker := time.NewTicker(sw.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			sw.logger.Info().Msg("sweeper stopped")
			return ctx.Err()
		case <-ticker.C:
			sw.store.EvictOlderThan(sw.maxAge)
		}
	}
}
