// Package pipeline drives the live games cache on a fixed cadence.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/alanyoungcy/livescores/internal/domain"
)

// LiveGamesFetcher is the query the refresher calls on every tick.
type LiveGamesFetcher interface {
	GetLiveGames(ctx context.Context) ([]domain.GameRecord, error)
}

// Refresher calls GetLiveGames on a ticker, standing in for a UI that polls
// the cache. Failed ticks are logged; the next tick is the retry.
type Refresher struct {
	source   LiveGamesFetcher
	interval time.Duration
	logger   *slog.Logger

	// onResult, when set, observes every tick. Used by tests.
	onResult func(games []domain.GameRecord, err error)
}

// NewRefresher creates a Refresher.
func NewRefresher(source LiveGamesFetcher, interval time.Duration, logger *slog.Logger) *Refresher {
	return &Refresher{
		source:   source,
		interval: interval,
		logger:   logger.With(slog.String("component", "refresher")),
	}
}

// RunOnce performs a single tick.
func (r *Refresher) RunOnce(ctx context.Context) ([]domain.GameRecord, error) {
	start := time.Now()
	games, err := r.source.GetLiveGames(ctx)
	if r.onResult != nil {
		r.onResult(games, err)
	}
	if err != nil {
		r.logger.ErrorContext(ctx, "live games refresh failed",
			slog.Duration("duration", time.Since(start)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	r.logger.DebugContext(ctx, "live games refreshed",
		slog.Int("games", len(games)),
		slog.Duration("duration", time.Since(start)),
	)
	return games, nil
}

// Run ticks immediately and then every interval until ctx is cancelled. A
// tick already in flight at cancellation runs to completion; Run returns
// after it.
func (r *Refresher) Run(ctx context.Context) error {
	r.logger.InfoContext(ctx, "refresher starting", slog.Duration("interval", r.interval))

	_, _ = r.RunOnce(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("refresher stopped")
			return ctx.Err()
		case <-ticker.C:
			_, _ = r.RunOnce(ctx)
		}
	}
}
