package domain

import (
	"context"
	"time"
)

// RateLimiter provides distributed rate limiting.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// Publisher fans refreshed snapshots out to other processes.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}
