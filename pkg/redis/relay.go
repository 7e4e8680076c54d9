package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ghain/storefront-backend/internal/app/service"
	"github.com/ghain/storefront-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	publishTimeout = 2 * time.Second
	outboxSize     = 256
)

// envelope tags an event with the instance that published it.
type envelope struct {
	Instance string              `json:"instance"`
	Event    service.ChangeEvent `json:"event"`
}

// Relay shares storage change events between server instances over a Redis
// channel, so tabs of one visitor connected to different instances still
// hear about each other's writes.
type Relay struct {
	client   *redis.Client
	channel  string
	instance string
	target   service.Subscriber

	// Local events waiting to be published by Run
	outbox chan service.ChangeEvent
}

// NewRelay creates a relay delivering remote events to target.
func NewRelay(client *redis.Client, channel string, target service.Subscriber) *Relay {
	return &Relay{
		client:   client,
		channel:  channel,
		instance: uuid.NewString(),
		target:   target,
		outbox:   make(chan service.ChangeEvent, outboxSize),
	}
}

// Instance returns the id stamped on events published by this relay.
func (r *Relay) Instance() string {
	return r.instance
}

// OnStorageChange queues a locally produced event for Run to publish. It
// never blocks: when the queue is full the event is dropped.
func (r *Relay) OnStorageChange(event service.ChangeEvent) {
	select {
	case r.outbox <- event:
	default:
		logger.Warn("Relay outbox full, storage event dropped", map[string]interface{}{
			"session_id": event.Session,
			"key":        event.Key,
		})
	}
}

func (r *Relay) publish(ctx context.Context, event service.ChangeEvent) {
	payload, err := json.Marshal(envelope{Instance: r.instance, Event: event})
	if err != nil {
		logger.Error("Failed to encode storage event", err, nil)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
		logger.Error("Failed to publish storage event", err, map[string]interface{}{
			"channel": r.channel,
			"key":     event.Key,
		})
	}
}

// Run subscribes to the channel, publishes queued local events and forwards
// events from other instances until ctx is cancelled. It returns once the
// subscription is closed.
func (r *Relay) Run(ctx context.Context) error {
	sub := r.client.Subscribe(ctx, r.channel)
	defer sub.Close()

	// Wait for the subscription to be confirmed
	if _, err := sub.Receive(ctx); err != nil {
		logger.Error("Failed to subscribe to storage events", err, map[string]interface{}{
			"channel": r.channel,
		})
		return err
	}

	logger.Info("Storage event relay subscribed", map[string]interface{}{
		"channel":  r.channel,
		"instance": r.instance,
	})

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			logger.Info("Storage event relay stopped", nil)
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			r.deliver(msg.Payload)
		case event := <-r.outbox:
			r.publish(ctx, event)
		}
	}
}

func (r *Relay) deliver(payload string) {
	var env envelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		logger.Warn("Dropping malformed storage event", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if env.Instance == r.instance {
		return
	}
	r.target.OnStorageChange(env.Event)
}
