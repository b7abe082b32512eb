package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/alanyoungcy/livescores/internal/domain"
)

// SnapshotPublisher fans snapshots out over Redis Pub/Sub. When latestTTL is
// positive the payload is also stored under "<channel>:latest" so a late
// subscriber can read the current snapshot without waiting for the next cycle.
type SnapshotPublisher struct {
	rdb       *redis.Client
	latestTTL time.Duration
}

// NewSnapshotPublisher creates a SnapshotPublisher backed by c.
func NewSnapshotPublisher(c *Client, latestTTL time.Duration) *SnapshotPublisher {
	return &SnapshotPublisher{rdb: c.rdb, latestTTL: latestTTL}
}

// LatestKey returns the key holding the most recent payload for channel.
func LatestKey(channel string) string {
	return channel + ":latest"
}

// Publish sends payload to channel and, if configured, records it as the
// latest snapshot. Both writes go out in one pipeline.
func (p *SnapshotPublisher) Publish(ctx context.Context, channel string, payload []byte) error {
	_, err := p.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		if p.latestTTL > 0 {
			pipe.Set(ctx, LatestKey(channel), payload, p.latestTTL)
		}
		pipe.Publish(ctx, channel, payload)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis: publish %s: %w", channel, err)
	}
	return nil
}

// latest returns the most recently published payload for channel, or
// domain.ErrNotFound when none is stored.
func (p *SnapshotPublisher) latest(ctx context.Context, channel string) ([]byte, error) {
	data, err := p.rdb.Get(ctx, LatestKey(channel)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("redis: latest %s: %w", channel, err)
	}
	return data, nil
}

// Compile-time interface check.
var _ domain.Publisher = (*SnapshotPublisher)(nil)
