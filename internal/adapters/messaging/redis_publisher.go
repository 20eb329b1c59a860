package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"smart-parking/internal/core/domain"

	"github.com/redis/go-redis/v9"
)

// Publisher is the subset of *redis.Client used to fan out events
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisPublisher publishes occupancy events as JSON on a pub/sub channel
type RedisPublisher struct {
	client  Publisher
	channel string
}

// NewRedisPublisher creates a new occupancy event publisher
func NewRedisPublisher(client Publisher, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

// Publish sends the event to every subscriber of the channel
func (p *RedisPublisher) Publish(ctx context.Context, event domain.OccupancyEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", event.Type, err)
	}

	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish %s event: %w", event.Type, err)
	}
	return nil
}
