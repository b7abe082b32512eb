package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/alanyoungcy/livescores/internal/correlate"
	"github.com/alanyoungcy/livescores/internal/domain"
)

// MarketProvider supplies the market half of a refresh cycle.
type MarketProvider interface {
	FetchMarkets(ctx context.Context) ([]domain.Market, error)
}

// ScoreProvider supplies the scoreboard half of a refresh cycle.
type ScoreProvider interface {
	GetAllScores(ctx context.Context) ([]domain.GameRecord, error)
}

// Notifier delivers operator alerts.
type Notifier interface {
	Notify(ctx context.Context, event, title, message string) error
}

// Notification event types emitted by LiveGamesService.
const (
	EventRefreshFailed    = "refresh_failed"
	EventRefreshRecovered = "refresh_recovered"
)

const (
	publishTimeout = 2 * time.Second
	notifyTimeout  = 15 * time.Second
)

// LiveGamesConfig configures a LiveGamesService.
type LiveGamesConfig struct {
	// RefreshInterval is how long a non-empty snapshot is served before the
	// next call refetches.
	RefreshInterval time.Duration
	Taxonomy        domain.SportsTaxonomy
	// PublishChannel receives each new snapshot as JSON when a Publisher is
	// set. Empty disables publishing.
	PublishChannel string
}

// LiveGamesService owns the combined, correlated game list. Calls within the
// refresh interval are served from the last snapshot; otherwise markets and
// scores are fetched concurrently and correlated into a new snapshot that
// replaces the old one atomically.
type LiveGamesService struct {
	markets   MarketProvider
	scores    ScoreProvider
	cfg       LiveGamesConfig
	publisher domain.Publisher
	notifier  Notifier
	logger    *slog.Logger

	now   func() time.Time
	newID func() string

	snapshot atomic.Pointer[domain.LiveGamesSnapshot]
	failing  atomic.Bool
	group    singleflight.Group
}

// NewLiveGamesService creates a LiveGamesService. publisher and notifier may
// be nil.
func NewLiveGamesService(
	markets MarketProvider,
	scores ScoreProvider,
	cfg LiveGamesConfig,
	publisher domain.Publisher,
	notifier Notifier,
	logger *slog.Logger,
) *LiveGamesService {
	return &LiveGamesService{
		markets:   markets,
		scores:    scores,
		cfg:       cfg,
		publisher: publisher,
		notifier:  notifier,
		logger:    logger.With(slog.String("component", "live_games")),
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// GetLiveGames returns the games that currently have an active sports market.
// It prefers a stale snapshot over an error and fails only when a refresh
// fails and no non-empty snapshot exists.
func (s *LiveGamesService) GetLiveGames(ctx context.Context) ([]domain.GameRecord, error) {
	snap, err := s.GetLiveSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Games, nil
}

// GetLiveSnapshot is GetLiveGames returning the whole snapshot, so the games,
// timestamp and cycle id always belong together.
func (s *LiveGamesService) GetLiveSnapshot(ctx context.Context) (*domain.LiveGamesSnapshot, error) {
	if snap := s.snapshot.Load(); s.fresh(snap, s.now()) {
		return snap, nil
	}

	// The refresh is detached from the caller so a caller going away does
	// not abort fetches other callers are waiting on.
	v, err, _ := s.group.Do("refresh", func() (any, error) {
		return s.refresh(context.WithoutCancel(ctx))
	})
	if err != nil {
		if prev := s.snapshot.Load(); prev != nil && len(prev.Games) > 0 {
			s.logger.WarnContext(ctx, "refresh failed, serving cached games",
				slog.Int("cached", len(prev.Games)),
				slog.Time("refreshed_at", prev.RefreshedAt),
				slog.String("error", err.Error()),
			)
			return prev, nil
		}
		return nil, fmt.Errorf("live_games: %w: %w", domain.ErrNoData, err)
	}

	return v.(*domain.LiveGamesSnapshot), nil
}

// Snapshot returns the current snapshot, or nil before the first successful
// refresh.
func (s *LiveGamesService) Snapshot() *domain.LiveGamesSnapshot {
	return s.snapshot.Load()
}

// RefreshInterval returns the configured refresh interval.
func (s *LiveGamesService) RefreshInterval() time.Duration {
	return s.cfg.RefreshInterval
}

func (s *LiveGamesService) fresh(snap *domain.LiveGamesSnapshot, now time.Time) bool {
	return snap != nil && len(snap.Games) > 0 && now.Sub(snap.RefreshedAt) < s.cfg.RefreshInterval
}

// refresh runs one STALE cycle. The timestamp is taken before the fetches so
// the snapshot age reflects when its data was requested.
func (s *LiveGamesService) refresh(ctx context.Context) (*domain.LiveGamesSnapshot, error) {
	now := s.now()
	if snap := s.snapshot.Load(); s.fresh(snap, now) {
		return snap, nil
	}

	cycleID := s.newID()
	logger := s.logger.With(slog.String("cycle_id", cycleID))
	start := time.Now()

	var (
		markets []domain.Market
		scores  []domain.GameRecord
	)

	// No shared context: a failure on one side must not cancel the other,
	// which still refreshes its own cache.
	var g errgroup.Group
	g.Go(func() error {
		m, err := s.markets.FetchMarkets(ctx)
		if err != nil {
			return fmt.Errorf("markets: %w", err)
		}
		markets = m
		return nil
	})
	g.Go(func() error {
		sc, err := s.scores.GetAllScores(ctx)
		if err != nil {
			return fmt.Errorf("scores: %w", err)
		}
		scores = sc
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.ErrorContext(ctx, "refresh cycle failed",
			slog.Duration("duration", time.Since(start)),
			slog.String("error", err.Error()),
		)
		s.onFailure(cycleID, err)
		return nil, err
	}

	snap := &domain.LiveGamesSnapshot{
		Games:       correlate.Correlate(markets, scores, s.cfg.Taxonomy),
		RefreshedAt: now,
		CycleID:     cycleID,
	}
	s.snapshot.Store(snap)

	logger.InfoContext(ctx, "refresh cycle complete",
		slog.Int("markets", len(markets)),
		slog.Int("games", len(scores)),
		slog.Int("live_games", len(snap.Games)),
		slog.Duration("duration", time.Since(start)),
	)

	if logger.Enabled(ctx, slog.LevelDebug) {
		active := correlate.FilterActiveSportsMarkets(markets, s.cfg.Taxonomy)
		for _, game := range snap.Games {
			m, _ := correlate.MatchingMarket(game, active)
			logger.DebugContext(ctx, "live game",
				slog.String("game", game.Key()),
				slog.String("market_id", m.ID),
			)
		}
	}

	s.publish(ctx, logger, snap)
	s.onSuccess(cycleID)

	return snap, nil
}

// publish fans the snapshot out to other processes. Failures are logged only.
func (s *LiveGamesService) publish(ctx context.Context, logger *slog.Logger, snap *domain.LiveGamesSnapshot) {
	if s.publisher == nil || s.cfg.PublishChannel == "" {
		return
	}

	payload, err := json.Marshal(snap)
	if err != nil {
		logger.ErrorContext(ctx, "marshal snapshot failed", slog.String("error", err.Error()))
		return
	}

	pctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := s.publisher.Publish(pctx, s.cfg.PublishChannel, payload); err != nil {
		logger.WarnContext(ctx, "publish snapshot failed",
			slog.String("channel", s.cfg.PublishChannel),
			slog.String("error", err.Error()),
		)
	}
}

// onFailure alerts once per failure streak.
func (s *LiveGamesService) onFailure(cycleID string, err error) {
	if s.failing.Swap(true) {
		return
	}
	s.notify(EventRefreshFailed, "Live games refresh failed",
		fmt.Sprintf("cycle %s: %v", cycleID, err))
}

// onSuccess alerts when a failure streak ends.
func (s *LiveGamesService) onSuccess(cycleID string) {
	if !s.failing.Swap(false) {
		return
	}
	s.notify(EventRefreshRecovered, "Live games refresh recovered",
		fmt.Sprintf("cycle %s succeeded", cycleID))
}

func (s *LiveGamesService) notify(event, title, message string) {
	if s.notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := s.notifier.Notify(ctx, event, title, message); err != nil {
			s.logger.Warn("notification failed",
				slog.String("event", event),
				slog.String("error", err.Error()),
			)
		}
	}()
}
