package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// MarkerCache implements ports.RollbackMarkerCache. It only speeds up the
// already-rolled-back check; the durable marker lives in the ledger store.
type MarkerCache struct {
	client goredis.Cmdable
	prefix string
}

// NewMarkerCache creates a Redis-backed rollback marker cache.
func NewMarkerCache(client goredis.Cmdable) *MarkerCache {
	return &MarkerCache{
		client: client,
		prefix: "ledger:rollback:",
	}
}

// IsRolledBack reports whether a marker is cached for the correlation id.
func (c *MarkerCache) IsRolledBack(ctx context.Context, correlationID string) (bool, error) {
	n, err := c.client.Exists(ctx, c.prefix+correlationID).Result()
	if err != nil {
		return false, fmt.Errorf("redis marker exists: %w", err)
	}
	return n > 0, nil
}

// MarkRolledBack caches the marker. A zero ttl keeps it forever.
func (c *MarkerCache) MarkRolledBack(ctx context.Context, correlationID string, ttl time.Duration) error {
	err := c.client.SetArgs(ctx, c.prefix+correlationID, 1, goredis.SetArgs{
		Mode: "NX",
		TTL:  ttl,
	}).Err()
	if err != nil && !errors.Is(err, goredis.Nil) {
		return fmt.Errorf("redis marker set: %w", err)
	}
	return nil
}

// Ping implements ports.HealthChecker.
func (c *MarkerCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Name implements ports.HealthChecker.
func (c *MarkerCache) Name() string {
	return "redis"
}
