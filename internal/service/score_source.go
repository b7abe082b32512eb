package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/alanyoungcy/livescores/internal/domain"
	"github.com/alanyoungcy/livescores/internal/platform/espn"
)

// ScoreboardFetcher retrieves a raw scoreboard for a path.
type ScoreboardFetcher interface {
	FetchScoreboard(ctx context.Context, path string) (espn.Scoreboard, error)
}

// ScoreSource fetches and normalises scoreboards for a fixed set of sports.
type ScoreSource struct {
	fetcher ScoreboardFetcher
	sports  []domain.Sport
	logger  *slog.Logger

	mu       sync.RWMutex
	lastGood map[domain.Sport][]domain.GameRecord
}

// NewScoreSource creates a ScoreSource for sports. An empty list means every
// supported sport.
func NewScoreSource(fetcher ScoreboardFetcher, sports []domain.Sport, logger *slog.Logger) *ScoreSource {
	if len(sports) == 0 {
		sports = domain.AllSports
	}
	return &ScoreSource{
		fetcher:  fetcher,
		sports:   sports,
		logger:   logger.With(slog.String("component", "score_source")),
		lastGood: make(map[domain.Sport][]domain.GameRecord, len(sports)),
	}
}

// Sports returns the configured sports in fetch order.
func (s *ScoreSource) Sports() []domain.Sport {
	return s.sports
}

// FetchSport fetches one sport's scoreboard and maps every event. Events that
// cannot be mapped are logged and dropped.
func (s *ScoreSource) FetchSport(ctx context.Context, sport domain.Sport) ([]domain.GameRecord, error) {
	path := sport.ScoreboardPath()
	if path == "" {
		return nil, fmt.Errorf("score_source: unknown sport %q", sport)
	}

	sb, err := s.fetcher.FetchScoreboard(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("score_source: fetch %s: %w", sport, err)
	}

	games := make([]domain.GameRecord, 0, len(sb.Events))
	for i, raw := range sb.Events {
		ev, err := espn.DecodeEvent(raw)
		if err != nil {
			s.logger.WarnContext(ctx, "dropping undecodable event",
				slog.String("sport", string(sport)),
				slog.Int("index", i),
				slog.String("error", err.Error()),
			)
			continue
		}
		game, err := mapEvent(sport, ev)
		if err != nil {
			s.logger.WarnContext(ctx, "dropping unmappable event",
				slog.String("sport", string(sport)),
				slog.String("event_id", string(ev.ID)),
				slog.String("error", err.Error()),
			)
			continue
		}
		games = append(games, game)
	}

	s.mu.Lock()
	s.lastGood[sport] = games
	s.mu.Unlock()

	return games, nil
}

// GetAllScores fetches every configured sport concurrently and concatenates
// the results in sport order. A failing sport is logged and skipped. When every
// sport fails the last good results are returned instead; an error is returned
// only when no sport has ever succeeded.
func (s *ScoreSource) GetAllScores(ctx context.Context) ([]domain.GameRecord, error) {
	results := make([][]domain.GameRecord, len(s.sports))
	errs := make([]error, len(s.sports))

	var g errgroup.Group
	for i, sport := range s.sports {
		g.Go(func() error {
			games, err := s.FetchSport(ctx, sport)
			if err != nil {
				s.logger.ErrorContext(ctx, "error fetching scores",
					slog.String("sport", string(sport)),
					slog.String("error", err.Error()),
				)
				errs[i] = err
				return nil
			}
			results[i] = games
			return nil
		})
	}
	_ = g.Wait()

	var all []domain.GameRecord
	failed := 0
	for i := range s.sports {
		if errs[i] != nil {
			failed++
			continue
		}
		all = append(all, results[i]...)
	}

	if len(s.sports) > 0 && failed == len(s.sports) {
		err := fmt.Errorf("score_source: all sports failed: %w", errors.Join(errs...))
		stale, ok := s.cached()
		if !ok {
			return nil, err
		}
		s.logger.WarnContext(ctx, "all sports failed, serving cached scores",
			slog.Int("cached", len(stale)),
			slog.String("error", err.Error()),
		)
		return stale, nil
	}
	if all == nil {
		all = []domain.GameRecord{}
	}
	return all, nil
}

// LastGood returns the most recent successful result for a sport.
func (s *ScoreSource) LastGood(sport domain.Sport) ([]domain.GameRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	games, ok := s.lastGood[sport]
	return games, ok
}

// cached concatenates the last good result of every sport that has one, in
// sport order.
func (s *ScoreSource) cached() ([]domain.GameRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	found := false
	all := []domain.GameRecord{}
	for _, sport := range s.sports {
		games, ok := s.lastGood[sport]
		if !ok {
			continue
		}
		found = true
		all = append(all, games...)
	}
	return all, found
}

var (
	errNoCompetitor = errors.New("competitor not found")
	errNoTeamName   = errors.New("competitor has no team name")
)

// mapEvent converts a scoreboard event into a GameRecord.
func mapEvent(sport domain.Sport, ev espn.APIEvent) (domain.GameRecord, error) {
	home, ok := ev.Competitor("home")
	if !ok {
		return domain.GameRecord{}, fmt.Errorf("home %w", errNoCompetitor)
	}
	away, ok := ev.Competitor("away")
	if !ok {
		return domain.GameRecord{}, fmt.Errorf("away %w", errNoCompetitor)
	}
	if home.Team.Name == "" || away.Team.Name == "" {
		return domain.GameRecord{}, errNoTeamName
	}

	game := domain.GameRecord{
		ID:            string(ev.ID),
		Sport:         sport,
		HomeTeam:      home.Team.Name,
		AwayTeam:      away.Team.Name,
		HomeScore:     domain.ParseScore(home.Score.Text()),
		AwayScore:     domain.ParseScore(away.Score.Text()),
		Status:        ev.Status.Type.Name,
		Period:        int(ev.Status.Period),
		TimeRemaining: ev.Status.DisplayClock,
	}

	if sport == domain.SportMLB {
		game.InningState = inningState(ev.Status.Type.Detail)
	}

	return game, nil
}

// inningState reads "Top"/"Bottom" out of a status detail like "Bottom 5th".
func inningState(detail string) string {
	switch {
	case strings.Contains(detail, domain.InningTop):
		return domain.InningTop
	case strings.Contains(detail, domain.InningBottom):
		return domain.InningBottom
	default:
		return ""
	}
}
