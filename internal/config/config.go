// Package config defines the livescores configuration and its validation.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/alanyoungcy/livescores/internal/domain"
	"github.com/alanyoungcy/livescores/internal/platform/alphaarcade"
	"github.com/alanyoungcy/livescores/internal/platform/espn"
)

// Config is the root configuration structure. Fields are populated from a TOML
// file and then optionally overridden by LIVESCORES_* environment variables.
type Config struct {
	AlphaArcade AlphaArcadeConfig `toml:"alphaarcade"`
	ESPN        ESPNConfig        `toml:"espn"`
	Aggregator  AggregatorConfig  `toml:"aggregator"`
	Poller      PollerConfig      `toml:"poller"`
	Server      ServerConfig      `toml:"server"`
	Redis       RedisConfig       `toml:"redis"`
	Notify      NotifyConfig      `toml:"notify"`
	Profiling   ProfilingConfig   `toml:"profiling"`
	Mode        string            `toml:"mode"`
	LogLevel    string            `toml:"log_level"`
}

// AlphaArcadeConfig configures the market feed.
type AlphaArcadeConfig struct {
	MarketsURL string   `toml:"markets_url"`
	Timeout    duration `toml:"timeout"`
	// FetchInterval is the throttle floor between successful market fetches.
	FetchInterval duration `toml:"fetch_interval"`
	// SportsCategories are exact category names treated as sports.
	SportsCategories []string `toml:"sports_categories"`
	// SportsCategoryPrefix matches machine category names such as "SPORTS_NBA".
	SportsCategoryPrefix string `toml:"sports_category_prefix"`
}

// Taxonomy returns the sports taxonomy described by the config.
func (c AlphaArcadeConfig) Taxonomy() domain.SportsTaxonomy {
	return domain.SportsTaxonomy{
		Prefix:     c.SportsCategoryPrefix,
		Categories: append([]string(nil), c.SportsCategories...),
	}
}

// ESPNConfig configures the scoreboard feed.
type ESPNConfig struct {
	BaseURL   string   `toml:"base_url"`
	Timeout   duration `toml:"timeout"`
	UserAgent string   `toml:"user_agent"`
	// Sports lists the leagues to poll, in result order.
	Sports []string `toml:"sports"`
}

// ParsedSports converts Sports to domain values. Unknown names are reported
// by Validate and skipped here.
func (c ESPNConfig) ParsedSports() []domain.Sport {
	out := make([]domain.Sport, 0, len(c.Sports))
	for _, name := range c.Sports {
		if s, ok := domain.ParseSport(name); ok {
			out = append(out, s)
		}
	}
	return out
}

// AggregatorConfig configures the combined live-games cache.
type AggregatorConfig struct {
	RefreshInterval duration `toml:"refresh_interval"`
	// PublishChannel is the Redis channel snapshots are published on when
	// Redis is enabled. Empty disables publishing.
	PublishChannel string   `toml:"publish_channel"`
	LatestTTL      duration `toml:"latest_ttl"`
}

// PollerConfig configures the in-process refresh loop.
type PollerConfig struct {
	Enabled  bool     `toml:"enabled"`
	Interval duration `toml:"interval"`
}

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Enabled     bool     `toml:"enabled"`
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
	// APIKey, when set, is required in the X-API-Key header on /api routes
	// other than health.
	APIKey string `toml:"api_key"`
	// RateLimit is the number of requests per RateWindow per client. Zero
	// disables limiting. Requires Redis.
	RateLimit  int      `toml:"rate_limit"`
	RateWindow duration `toml:"rate_window"`
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// NotifyConfig holds notification channel credentials.
type NotifyConfig struct {
	TelegramToken     string   `toml:"telegram_token"`
	TelegramChatID    string   `toml:"telegram_chat_id"`
	DiscordWebhookURL string   `toml:"discord_webhook_url"`
	Events            []string `toml:"events"`
}

// ProfilingConfig configures continuous profiling.
type ProfilingConfig struct {
	Enabled         bool   `toml:"enabled"`
	ServerAddress   string `toml:"server_address"`
	ApplicationName string `toml:"application_name"`
}

// duration is a wrapper around time.Duration that supports TOML string decoding
// (e.g. "30s").
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with the values in config.example.toml.
func Defaults() Config {
	tax := domain.DefaultSportsTaxonomy()
	return Config{
		AlphaArcade: AlphaArcadeConfig{
			MarketsURL:           alphaarcade.DefaultMarketsURL,
			Timeout:              duration{15 * time.Second},
			FetchInterval:        duration{30 * time.Second},
			SportsCategories:     tax.Categories,
			SportsCategoryPrefix: tax.Prefix,
		},
		ESPN: ESPNConfig{
			BaseURL:   espn.DefaultBaseURL,
			Timeout:   duration{15 * time.Second},
			UserAgent: espn.DefaultUserAgent,
			Sports:    []string{"MLB", "NBA", "NFL", "NHL"},
		},
		Aggregator: AggregatorConfig{
			RefreshInterval: duration{30 * time.Second},
			PublishChannel:  "livescores:snapshot",
			LatestTTL:       duration{5 * time.Minute},
		},
		Poller: PollerConfig{
			Enabled:  true,
			Interval: duration{30 * time.Second},
		},
		Server: ServerConfig{
			Enabled:     true,
			Port:        8000,
			CORSOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
			RateLimit:   0,
			RateWindow:  duration{time.Minute},
		},
		Redis: RedisConfig{
			Enabled:    false,
			Addr:       "localhost:6379",
			PoolSize:   10,
			MaxRetries: 3,
		},
		Notify: NotifyConfig{
			Events: []string{"refresh_failed", "refresh_recovered"},
		},
		Profiling: ProfilingConfig{
			Enabled:         false,
			ServerAddress:   "http://localhost:4040",
			ApplicationName: "livescores",
		},
		Mode:     "serve",
		LogLevel: "info",
	}
}

// validModes enumerates the accepted values for Config.Mode.
var validModes = map[string]bool{
	"serve": true,
	"poll":  true,
	"once":  true,
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks Config for invalid or missing values and returns a combined
// error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	mode := strings.ToLower(c.Mode)
	if !validModes[mode] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: serve, poll, once)", c.Mode))
	}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	// Upstreams
	if !validURL(c.AlphaArcade.MarketsURL) {
		errs = append(errs, fmt.Sprintf("alphaarcade: markets_url %q is not an absolute URL", c.AlphaArcade.MarketsURL))
	}
	if c.AlphaArcade.Timeout.Duration <= 0 {
		errs = append(errs, "alphaarcade: timeout must be > 0")
	}
	if c.AlphaArcade.FetchInterval.Duration < 0 {
		errs = append(errs, "alphaarcade: fetch_interval must be >= 0")
	}
	if len(c.AlphaArcade.SportsCategories) == 0 && c.AlphaArcade.SportsCategoryPrefix == "" {
		errs = append(errs, "alphaarcade: sports_categories or sports_category_prefix must be set")
	}
	if !validURL(c.ESPN.BaseURL) {
		errs = append(errs, fmt.Sprintf("espn: base_url %q is not an absolute URL", c.ESPN.BaseURL))
	}
	if c.ESPN.Timeout.Duration <= 0 {
		errs = append(errs, "espn: timeout must be > 0")
	}
	for _, s := range c.ESPN.Sports {
		if _, ok := domain.ParseSport(s); !ok {
			errs = append(errs, fmt.Sprintf("espn: unknown sport %q (valid: MLB, NBA, NFL, NHL)", s))
		}
	}

	// Aggregation
	if c.Aggregator.RefreshInterval.Duration <= 0 {
		errs = append(errs, "aggregator: refresh_interval must be > 0")
	}
	if c.Poller.Enabled && c.Poller.Interval.Duration <= 0 {
		errs = append(errs, "poller: interval must be > 0 when enabled")
	}

	// Server
	if mode == "serve" && c.Server.Enabled {
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, fmt.Sprintf("server: port must be 1-65535, got %d", c.Server.Port))
		}
	}
	if c.Server.RateLimit < 0 {
		errs = append(errs, "server: rate_limit must be >= 0")
	}
	if c.Server.RateLimit > 0 {
		if c.Server.RateWindow.Duration <= 0 {
			errs = append(errs, "server: rate_window must be > 0 when rate_limit is set")
		}
		if !c.Redis.Enabled {
			errs = append(errs, "server: rate_limit requires redis.enabled")
		}
	}

	// Redis
	if c.Redis.Enabled {
		if c.Redis.Addr == "" {
			errs = append(errs, "redis: addr must not be empty")
		}
		if c.Redis.PoolSize < 1 {
			errs = append(errs, "redis: pool_size must be >= 1")
		}
	}

	// Notify: token and chat id travel together.
	if (c.Notify.TelegramToken == "") != (c.Notify.TelegramChatID == "") {
		errs = append(errs, "notify: telegram_token and telegram_chat_id must be set together")
	}

	// Profiling
	if c.Profiling.Enabled && c.Profiling.ServerAddress == "" {
		errs = append(errs, "profiling: server_address must be set when enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func validURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && u.Host != ""
}
