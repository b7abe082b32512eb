package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alanyoungcy/livescores/internal/pipeline"
	"github.com/alanyoungcy/livescores/internal/server"
	"github.com/alanyoungcy/livescores/internal/server/handler"
)

const shutdownTimeout = 5 * time.Second

// ServeMode runs the HTTP API and, when enabled, the background refresher.
// Without the refresher the cache refreshes lazily on requests.
func (a *App) ServeMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "entering serve mode")

	g, ctx := errgroup.WithContext(ctx)

	if a.cfg.Poller.Enabled {
		a.startRefresher(ctx, g, deps)
	}
	if a.cfg.Server.Enabled {
		a.startHTTPServer(ctx, g, deps)
	}

	g.Go(func() error {
		<-ctx.Done()
		return ctx.Err()
	})

	return g.Wait()
}

// PollMode keeps the cache warm without serving HTTP. With Redis enabled each
// snapshot is published for other processes.
func (a *App) PollMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "entering poll mode")

	g, ctx := errgroup.WithContext(ctx)
	a.startRefresher(ctx, g, deps)
	return g.Wait()
}

// OnceMode runs a single refresh cycle and writes the result as JSON.
func (a *App) OnceMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "entering once mode")

	snap, err := deps.LiveGames.GetLiveSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("once mode: %w", err)
	}

	out := struct {
		Games       any       `json:"games"`
		Count       int       `json:"count"`
		RefreshedAt time.Time `json:"refreshed_at"`
		CycleID     string    `json:"cycle_id"`
	}{
		Games:       snap.Games,
		Count:       len(snap.Games),
		RefreshedAt: snap.RefreshedAt.UTC(),
		CycleID:     snap.CycleID,
	}

	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("once mode: write output: %w", err)
	}
	return nil
}

// startRefresher adds the refresher loop to g. A cancelled context is a clean
// stop.
func (a *App) startRefresher(ctx context.Context, g *errgroup.Group, deps *Dependencies) {
	r := pipeline.NewRefresher(deps.LiveGames, a.cfg.Poller.Interval.Duration, a.logger)
	g.Go(func() error {
		err := r.Run(ctx)
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("refresher: %w", err)
	})
}

// startHTTPServer adds the HTTP server and its shutdown watcher to g.
func (a *App) startHTTPServer(ctx context.Context, g *errgroup.Group, deps *Dependencies) {
	srv := server.NewServer(server.Config{
		Port:        a.cfg.Server.Port,
		CORSOrigins: a.cfg.Server.CORSOrigins,
		APIKey:      a.cfg.Server.APIKey,
		RateLimit:   a.cfg.Server.RateLimit,
		RateWindow:  a.cfg.Server.RateWindow.Duration,
	}, server.Handlers{
		Health:    handler.NewHealthHandler(),
		LiveGames: handler.NewLiveGamesHandler(deps.LiveGames, a.logger),
		Status:    handler.NewStatusHandler(a.cfg.Mode, deps.LiveGames, deps.Markets, deps.Scores),
	}, deps.RateLimiter, a.logger)

	g.Go(func() error {
		a.logger.InfoContext(ctx, "HTTP server listening",
			slog.Int("port", a.cfg.Server.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d/api/live-games", a.cfg.Server.Port)),
		)
		return srv.Start()
	})

	g.Go(func() error {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return nil
	})
}
