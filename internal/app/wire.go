package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alanyoungcy/livescores/internal/cache/redis"
	"github.com/alanyoungcy/livescores/internal/config"
	"github.com/alanyoungcy/livescores/internal/domain"
	"github.com/alanyoungcy/livescores/internal/notify"
	"github.com/alanyoungcy/livescores/internal/platform/alphaarcade"
	"github.com/alanyoungcy/livescores/internal/platform/espn"
	"github.com/alanyoungcy/livescores/internal/service"
)

// Dependencies bundles everything the modes need. It is constructed by Wire
// and torn down by the returned cleanup function.
type Dependencies struct {
	Markets   *service.MarketSource
	Scores    *service.ScoreSource
	LiveGames *service.LiveGamesService

	// RateLimiter is nil when Redis is disabled.
	RateLimiter domain.RateLimiter
	Notifier    *notify.Notifier
}

// Wire constructs the upstream clients, sources, cache and optional Redis and
// notification backends from cfg.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}
	taxonomy := cfg.AlphaArcade.Taxonomy()

	// --- Upstreams ---
	marketClient := alphaarcade.NewClient(cfg.AlphaArcade.MarketsURL, cfg.AlphaArcade.Timeout.Duration, logger)
	deps.Markets = service.NewMarketSource(marketClient, cfg.AlphaArcade.FetchInterval.Duration, taxonomy, logger)

	espnClient := espn.New(cfg.ESPN.BaseURL, cfg.ESPN.UserAgent, cfg.ESPN.Timeout.Duration)
	deps.Scores = service.NewScoreSource(espnClient, cfg.ESPN.ParsedSports(), logger)

	// --- Redis (optional) ---
	var publisher domain.Publisher
	if cfg.Redis.Enabled {
		redisClient, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		}, logger)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { _ = redisClient.Close() })

		publisher = redis.NewSnapshotPublisher(redisClient, cfg.Aggregator.LatestTTL.Duration)
		deps.RateLimiter = redis.NewRateLimiter(redisClient)
	}

	// --- Notifications ---
	var senders []notify.Sender
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "" {
		senders = append(senders, notify.NewTelegramSender(
			cfg.Notify.TelegramToken,
			cfg.Notify.TelegramChatID,
		))
	}
	if cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.Notify.DiscordWebhookURL))
	}
	deps.Notifier = notify.NewNotifier(senders, cfg.Notify.Events, logger)

	var notifier service.Notifier
	if deps.Notifier.Enabled() {
		notifier = deps.Notifier
	}

	// --- Live games cache ---
	deps.LiveGames = service.NewLiveGamesService(
		deps.Markets,
		deps.Scores,
		service.LiveGamesConfig{
			RefreshInterval: cfg.Aggregator.RefreshInterval.Duration,
			Taxonomy:        taxonomy,
			PublishChannel:  cfg.Aggregator.PublishChannel,
		},
		publisher,
		notifier,
		logger,
	)

	return deps, cleanup, nil
}
