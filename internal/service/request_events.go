package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/command-center/internal/config"
	"github.com/stemsi/command-center/internal/model"
)

// RequestEventBus carries request lifecycle events over Redis Pub/Sub so
// every API instance can push them to its connected clients.
type RequestEventBus struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewRequestEventBus creates a new RequestEventBus.
func NewRequestEventBus(rdb *redis.Client, log zerolog.Logger) *RequestEventBus {
	return &RequestEventBus{
		rdb: rdb,
		log: log.With().Str("component", "request_event_bus").Logger(),
	}
}

// PublishRequestEvent implements EventPublisher. The event is broadcast to
// live subscribers and queued for the audit worker in one MULTI/EXEC.
func (b *RequestEventBus) PublishRequestEvent(ctx context.Context, evt model.RequestEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	pipe := b.rdb.TxPipeline()
	pipe.Publish(ctx, config.CacheKey.RequestEventsChannel(), payload)
	pipe.RPush(ctx, config.WorkerKey.RequestAuditQueue, payload)
	_, err = pipe.Exec(ctx)
	return err
}

// Subscribe streams events until ctx is cancelled. The returned channel is
// closed when the subscription ends. Events that fail to decode are dropped.
func (b *RequestEventBus) Subscribe(ctx context.Context) (<-chan model.RequestEvent, error) {
	pubsub := b.rdb.Subscribe(ctx, config.CacheKey.RequestEventsChannel())
	// Wait for the subscription confirmation so no event published after
	// Subscribe returns can be missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe: %w", err)
	}

	out := make(chan model.RequestEvent, 16)
	go func() {
		defer close(out)
		defer pubsub.Close()

		msgs := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var evt model.RequestEvent
				if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
					b.log.Warn().Err(err).Msg("Dropping undecodable request event")
					continue
				}
				select {
				case out <- evt:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// VisibleTo reports whether the caller may see the event.
func VisibleTo(caller *Claims, evt model.RequestEvent) bool {
	return caller.Role == model.RoleAdmin || caller.AccountID == evt.AccountID
}
