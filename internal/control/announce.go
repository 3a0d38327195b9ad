package control

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/zsiec/tint/internal/config"
	"github.com/zsiec/tint/internal/filter"
)

// ModeState is the JSON document written by RedisAnnouncer.
type ModeState struct {
	Mode      string    `json:"mode"`
	Label     string    `json:"label"`
	Token     string    `json:"token"`
	Value     int       `json:"value"`
	ChangedAt time.Time `json:"changed_at"`
}

// NewModeState describes m at time t.
func NewModeState(m filter.Mode, t time.Time) ModeState {
	token, _ := TokenFor(m)
	return ModeState{
		Mode:      m.Name(),
		Label:     m.Label(),
		Token:     token,
		Value:     int(m),
		ChangedAt: t.UTC(),
	}
}

// RedisAnnouncer stores the current mode under a key and publishes every
// change on a channel. Nothing is read back at startup.
type RedisAnnouncer struct {
	client  *redis.Client
	key     string
	channel string
	ttl     time.Duration
	now     func() time.Time
}

// NewRedisAnnouncer creates an announcer from cfg's state settings.
func NewRedisAnnouncer(client *redis.Client, cfg *config.RedisConfig) *RedisAnnouncer {
	return &RedisAnnouncer{
		client:  client,
		key:     cfg.StateKey,
		channel: cfg.StateChannel,
		ttl:     cfg.StateTTL,
		now:     time.Now,
	}
}

// Announce writes and publishes m atomically.
func (a *RedisAnnouncer) Announce(ctx context.Context, m filter.Mode) error {
	data, err := json.Marshal(NewModeState(m, a.now()))
	if err != nil {
		return fmt.Errorf("failed to marshal mode state: %w", err)
	}

	_, err = a.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if a.key != "" {
			pipe.Set(ctx, a.key, data, a.ttl)
		}
		if a.channel != "" {
			pipe.Publish(ctx, a.channel, data)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to announce mode: %w", err)
	}
	return nil
}
