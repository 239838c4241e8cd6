package main

import (
	"context"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/danisworo/shopapi/internal/platform/queue"
)

// RefreshTokenPurger deletes refresh token rows whose expiry has passed.
type RefreshTokenPurger interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Processor consumes order-created events and periodically purges expired
// refresh tokens. The purge stands in for a database TTL index: tokens past
// their expiry are already rejected at refresh time, the purge just removes
// the dead rows.
type Processor struct {
	queueService  queue.Service
	tokens        RefreshTokenPurger
	purgeInterval time.Duration
}

func NewProcessor(queueService queue.Service, tokens RefreshTokenPurger, purgeInterval time.Duration) *Processor {
	if purgeInterval <= 0 {
		purgeInterval = time.Hour
	}
	return &Processor{
		queueService:  queueService,
		tokens:        tokens,
		purgeInterval: purgeInterval,
	}
}

// Start blocks until the context is cancelled.
func (p *Processor) Start(ctx context.Context) error {
	zlog.Info().Dur("purge_interval", p.purgeInterval).Msg("Processor started")

	// One pass at startup so a long downtime does not leave stale rows
	// until the first tick.
	p.purgeExpiredTokens(ctx)

	go func() {
		ticker := time.NewTicker(p.purgeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.purgeExpiredTokens(ctx)
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			zlog.Info().Msg("Processor stopped")
			return ctx.Err()
		default:
			event, err := p.queueService.ConsumeOrderCreated(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				zlog.Error().Err(err).Msg("Error consuming order event")
				continue
			}
			if event == nil {
				// Poll window elapsed with no event.
				continue
			}
			p.handleOrderCreated(event)
		}
	}
}

// handleOrderCreated stands in for the fulfillment pipeline; the demo only
// logs the notification.
func (p *Processor) handleOrderCreated(event *queue.OrderCreatedEvent) {
	zlog.Info().
		Int64("order_id", event.OrderID).
		Str("user_ext_id", event.UserExtID).
		Float64("total_price", event.TotalPrice).
		Msg("Order received for fulfillment")
}

func (p *Processor) purgeExpiredTokens(ctx context.Context) {
	deleted, err := p.tokens.DeleteExpired(ctx, time.Now())
	if err != nil {
		zlog.Error().Err(err).Msg("Refresh token purge failed")
		return
	}
	if deleted > 0 {
		zlog.Info().Int64("deleted", deleted).Msg("Purged expired refresh tokens")
	}
}
