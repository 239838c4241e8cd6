package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Service defines the order-event queue operations
type Service interface {
	PublishOrderCreated(ctx context.Context, event OrderCreatedEvent) error
	ConsumeOrderCreated(ctx context.Context) (*OrderCreatedEvent, error)
}

type RedisQueue struct {
	client *redis.Client
	name   string
}

func NewRedisQueue(client *redis.Client, name string) *RedisQueue {
	return &RedisQueue{client: client, name: name}
}

// OrderCreatedEvent is published once an order row has been persisted; the
// worker picks it up for fulfillment notification.
type OrderCreatedEvent struct {
	OrderID    int64     `json:"order_id"`
	UserExtID  string    `json:"user_ext_id"`
	TotalPrice float64   `json:"total_price"`
	CreatedAt  time.Time `json:"created_at"`
}

// PublishOrderCreated pushes an order-created event onto the Redis list.
func (q *RedisQueue) PublishOrderCreated(ctx context.Context, event OrderCreatedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := q.client.LPush(ctx, q.name, data).Err(); err != nil {
		return fmt.Errorf("failed to push event to queue: %w", err)
	}
	return nil
}

// ConsumeOrderCreated pops the next event from the queue. Returns (nil, nil)
// when none is available within the poll window so the caller can re-check
// its context.
func (q *RedisQueue) ConsumeOrderCreated(ctx context.Context) (*OrderCreatedEvent, error) {
	// Short timeout instead of blocking forever so context cancellation is
	// observed promptly.
	result, err := q.client.BRPop(ctx, 5*time.Second, q.name).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // no event available
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("failed to pop event from queue: %w", err)
	}

	if len(result) < 2 {
		return nil, fmt.Errorf("invalid queue response")
	}

	var event OrderCreatedEvent
	if err := json.Unmarshal([]byte(result[1]), &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	return &event, nil
}
