package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads the TOML file at path over the built-in defaults, loads a .env
// file if present, and applies LIVESCORES_* environment overrides. A missing
// file at path leaves the defaults in place. The returned Config has NOT been
// validated; call Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config: decode %s: %w", path, err)
			}
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides overwrites Config fields from LIVESCORES_* variables that
// are set and non-empty. Values that fail to parse are ignored.
func applyEnvOverrides(cfg *Config) {
	// ── Alpha Arcade ──
	setStr(&cfg.AlphaArcade.MarketsURL, "LIVESCORES_ALPHAARCADE_MARKETS_URL")
	setDuration(&cfg.AlphaArcade.Timeout, "LIVESCORES_ALPHAARCADE_TIMEOUT")
	setDuration(&cfg.AlphaArcade.FetchInterval, "LIVESCORES_ALPHAARCADE_FETCH_INTERVAL")
	setStringSlice(&cfg.AlphaArcade.SportsCategories, "LIVESCORES_ALPHAARCADE_SPORTS_CATEGORIES")
	setStr(&cfg.AlphaArcade.SportsCategoryPrefix, "LIVESCORES_ALPHAARCADE_SPORTS_CATEGORY_PREFIX")

	// ── ESPN ──
	setStr(&cfg.ESPN.BaseURL, "LIVESCORES_ESPN_BASE_URL")
	setDuration(&cfg.ESPN.Timeout, "LIVESCORES_ESPN_TIMEOUT")
	setStr(&cfg.ESPN.UserAgent, "LIVESCORES_ESPN_USER_AGENT")
	setStringSlice(&cfg.ESPN.Sports, "LIVESCORES_ESPN_SPORTS")

	// ── Aggregator ──
	setDuration(&cfg.Aggregator.RefreshInterval, "LIVESCORES_AGGREGATOR_REFRESH_INTERVAL")
	setStr(&cfg.Aggregator.PublishChannel, "LIVESCORES_AGGREGATOR_PUBLISH_CHANNEL")
	setDuration(&cfg.Aggregator.LatestTTL, "LIVESCORES_AGGREGATOR_LATEST_TTL")

	// ── Poller ──
	setBool(&cfg.Poller.Enabled, "LIVESCORES_POLLER_ENABLED")
	setDuration(&cfg.Poller.Interval, "LIVESCORES_POLLER_INTERVAL")

	// ── Server ──
	setBool(&cfg.Server.Enabled, "LIVESCORES_SERVER_ENABLED")
	setInt(&cfg.Server.Port, "LIVESCORES_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "LIVESCORES_SERVER_CORS_ORIGINS")
	setStr(&cfg.Server.APIKey, "LIVESCORES_SERVER_API_KEY")
	setInt(&cfg.Server.RateLimit, "LIVESCORES_SERVER_RATE_LIMIT")
	setDuration(&cfg.Server.RateWindow, "LIVESCORES_SERVER_RATE_WINDOW")

	// ── Redis ──
	setBool(&cfg.Redis.Enabled, "LIVESCORES_REDIS_ENABLED")
	setStr(&cfg.Redis.Addr, "LIVESCORES_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "LIVESCORES_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "LIVESCORES_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "LIVESCORES_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "LIVESCORES_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "LIVESCORES_REDIS_TLS_ENABLED")

	// ── Notify ──
	setStr(&cfg.Notify.TelegramToken, "LIVESCORES_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "LIVESCORES_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "LIVESCORES_NOTIFY_DISCORD_WEBHOOK_URL")
	setStringSlice(&cfg.Notify.Events, "LIVESCORES_NOTIFY_EVENTS")

	// ── Profiling ──
	setBool(&cfg.Profiling.Enabled, "LIVESCORES_PROFILING_ENABLED")
	setStr(&cfg.Profiling.ServerAddress, "LIVESCORES_PROFILING_SERVER_ADDRESS")
	setStr(&cfg.Profiling.ApplicationName, "LIVESCORES_PROFILING_APPLICATION_NAME")

	// ── Top-level ──
	setStr(&cfg.Mode, "LIVESCORES_MODE")
	setStr(&cfg.LogLevel, "LIVESCORES_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	var cleaned []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			cleaned = append(cleaned, p)
		}
	}
	if len(cleaned) > 0 {
		*dst = cleaned
	}
}
