package control

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/redis/go-redis/v9"

	"github.com/zsiec/tint/internal/config"
	"github.com/zsiec/tint/internal/logger"
)

// NewRedisClient builds a client from cfg. Only the first address is used.
func NewRedisClient(cfg *config.RedisConfig) *redis.Client {
	addr := "localhost:6379"
	if len(cfg.Addresses) > 0 {
		addr = cfg.Addresses[0]
	}
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
	})
}

// RedisSource receives one token per message published on a channel.
type RedisSource struct {
	pubsub  *redis.PubSub
	channel string
	logger  logger.Logger
	closed  atomic.Bool
}

// SubscribeRedis subscribes to channel and waits for the subscription to be
// confirmed, so no message published after it returns is missed.
func SubscribeRedis(ctx context.Context, client *redis.Client, channel string, log logger.Logger) (*RedisSource, error) {
	ps := client.Subscribe(ctx, channel)
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", channel, err)
	}
	return &RedisSource{
		pubsub:  ps,
		channel: channel,
		logger:  logger.WithComponent(log, "control_redis").WithField("channel", channel),
	}, nil
}

func (s *RedisSource) Transport() string {
	return TransportRedis
}

// Next returns the payload of the next message.
func (s *RedisSource) Next(ctx context.Context) (string, error) {
	msg, err := s.pubsub.ReceiveMessage(ctx)
	if err != nil {
		if s.closed.Load() {
			return "", ErrClosed
		}
		return "", fmt.Errorf("failed to receive from %s: %w", s.channel, err)
	}
	return msg.Payload, nil
}

// Close unsubscribes and unblocks Next.
func (s *RedisSource) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.pubsub.Close()
}
