package health

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisChecker checks Redis connectivity.
type RedisChecker struct {
	client *redis.Client
	name   string
}

// NewRedisChecker creates a new Redis health checker.
func NewRedisChecker(client *redis.Client) *RedisChecker {
	return &RedisChecker{
		client: client,
		name:   "redis",
	}
}

// Name returns the name of the checker.
func (r *RedisChecker) Name() string {
	return r.name
}

// Check pings Redis. Redis only carries optional command fan-in and state
// announcements, so an outage degrades the service rather than downing it.
func (r *RedisChecker) Check(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return Degraded(fmt.Errorf("redis ping failed: %w", err))
	}

	info, err := r.client.Info(ctx, "clients").Result()
	if err != nil {
		return Degraded(fmt.Errorf("failed to get redis info: %w", err))
	}
	if len(info) == 0 {
		return Degraded(fmt.Errorf("empty redis info response"))
	}

	return nil
}
