package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/alanyoungcy/livescores/internal/correlate"
	"github.com/alanyoungcy/livescores/internal/domain"
)

// MarketFetcher retrieves active markets from the market API.
type MarketFetcher interface {
	GetMarkets(ctx context.Context) ([]domain.Market, error)
}

// marketCache is the immutable state swapped in after each successful fetch.
type marketCache struct {
	markets   []domain.Market
	fetchedAt time.Time
}

// MarketSource throttles and caches market fetches. A fetch within interval of
// the last successful one is served from cache, and a failed fetch falls back
// to a non-empty cache.
type MarketSource struct {
	fetcher  MarketFetcher
	interval time.Duration
	taxonomy domain.SportsTaxonomy
	now      func() time.Time
	logger   *slog.Logger

	cache atomic.Pointer[marketCache]
}

// NewMarketSource creates a MarketSource.
func NewMarketSource(fetcher MarketFetcher, interval time.Duration, taxonomy domain.SportsTaxonomy, logger *slog.Logger) *MarketSource {
	return &MarketSource{
		fetcher:  fetcher,
		interval: interval,
		taxonomy: taxonomy,
		now:      time.Now,
		logger:   logger.With(slog.String("component", "market_source")),
	}
}

// FetchMarkets returns the current market set, hitting the API only when the
// cache is older than the fetch interval.
func (s *MarketSource) FetchMarkets(ctx context.Context) ([]domain.Market, error) {
	now := s.now()
	cached := s.cache.Load()
	if cached != nil && now.Sub(cached.fetchedAt) < s.interval {
		return cached.markets, nil
	}

	markets, err := s.fetcher.GetMarkets(ctx)
	if err != nil {
		if cached != nil && len(cached.markets) > 0 {
			s.logger.WarnContext(ctx, "market fetch failed, serving cached markets",
				slog.Int("cached", len(cached.markets)),
				slog.Time("cached_at", cached.fetchedAt),
				slog.String("error", err.Error()),
			)
			return cached.markets, nil
		}
		return nil, fmt.Errorf("market_source: fetch markets: %w", err)
	}

	s.cache.Store(&marketCache{markets: markets, fetchedAt: now})
	s.logger.DebugContext(ctx, "fetched markets", slog.Int("count", len(markets)))
	return markets, nil
}

// Markets returns the cached market set without any I/O.
func (s *MarketSource) Markets() []domain.Market {
	if c := s.cache.Load(); c != nil {
		return c.markets
	}
	return nil
}

// Taxonomy returns the sports taxonomy the source filters with.
func (s *MarketSource) Taxonomy() domain.SportsTaxonomy {
	return s.taxonomy
}

// FilterActiveSportsMarkets keeps active sports markets with volume.
func (s *MarketSource) FilterActiveSportsMarkets(markets []domain.Market) []domain.Market {
	return correlate.FilterActiveSportsMarkets(markets, s.taxonomy)
}

// ExtractTeams parses the "<home> vs. <away>" secondary title of a market.
func (s *MarketSource) ExtractTeams(market domain.Market) (domain.Teams, bool) {
	return market.ExtractTeams()
}
