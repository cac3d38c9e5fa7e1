package notify

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spigell/career-navigator/internal/logger"
)

const (
	DefaultChannel = "career-navigator:analysis-updated"
	publishTimeout = 5 * time.Second
)

// RedisPublisher forwards events to a Redis pub/sub channel so other processes
// can refresh their views.
type RedisPublisher struct {
	client  *redis.Client
	channel string
	logger  *zap.Logger
}

func NewRedisPublisher(client *redis.Client, channel string, log *zap.Logger) (*RedisPublisher, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if channel = strings.TrimSpace(channel); channel == "" {
		channel = DefaultChannel
	}

	return &RedisPublisher{client: client, channel: channel, logger: logger.WithFields(log)}, nil
}

// Publish sends ev as JSON. Errors are returned to the caller.
func (p *RedisPublisher) Publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, p.channel, payload).Err()
}

// Subscriber adapts the publisher to a Hub subscriber. Failures are logged and
// dropped.
func (p *RedisPublisher) Subscriber() Subscriber {
	return func(ev Event) {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		if err := p.Publish(ctx, ev); err != nil {
			p.logger.Warn("publish analysis event to redis failed",
				zap.String("channel", p.channel),
				zap.String(logger.FieldEventID, ev.ID.String()),
				zap.Error(err),
			)
		}
	}
}

// Channel returns the pub/sub channel events are sent to.
func (p *RedisPublisher) Channel() string {
	return p.channel
}
