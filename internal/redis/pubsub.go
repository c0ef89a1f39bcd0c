package redisclient

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// AttendanceChannel is subscribed to by the admin dashboard for live
// attendance updates.
const AttendanceChannel = "attendance"

// Publisher pushes domain events onto a Redis pub/sub channel.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

type redisPublisher struct {
	client *redis.Client
}

func NewRedisPublisher(client *redis.Client) Publisher {
	return &redisPublisher{client: client}
}

func (p *redisPublisher) Publish(ctx context.Context, channel string, payload []byte) error {
	if err := p.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", channel, err)
	}
	return nil
}
