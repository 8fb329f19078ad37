package adapter

import (
	"context"
	"encoding/json"
	"log"

	redis "github.com/redis/go-redis/v9"

	"github.com/AbdurRehman26/asaancar-chat/internal/infrastructure/broadcast/port"
	"github.com/AbdurRehman26/asaancar-chat/internal/infrastructure/realtime"
)

// envelope is the wire form carried over Redis pub/sub. The exclusion target
// travels with the event so every node applies it when fanning out to its
// local subscribers.
type envelope struct {
	ExcludeUserID string     `json:"exclude_user_id,omitempty"`
	Event         port.Event `json:"event"`
}

// RedisPublisher publishes events to the conversation's Redis channel so
// subscribers connected to any node receive them. Each node runs a Listener
// that feeds its local hub.
type RedisPublisher struct {
	client *redis.Client
}

func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

var _ port.Publisher = (*RedisPublisher)(nil)

func (p *RedisPublisher) Publish(ctx context.Context, event port.Event, excludeUserID string) error {
	payload, err := json.Marshal(envelope{ExcludeUserID: excludeUserID, Event: event})
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, realtime.ChannelName(event.ConversationID), payload).Err()
}

// Listener subscribes to all conversation channels on Redis and relays
// incoming envelopes into the local hub.
type Listener struct {
	client *redis.Client
	hub    *realtime.Hub
	pubsub *redis.PubSub
}

func NewListener(client *redis.Client, hub *realtime.Hub) *Listener {
	return &Listener{client: client, hub: hub}
}

// Start begins relaying in a background goroutine until Stop is called.
func (l *Listener) Start(ctx context.Context) {
	l.pubsub = l.client.PSubscribe(ctx, realtime.ChannelName("*"))
	go func() {
		for msg := range l.pubsub.Channel() {
			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				log.Printf("broadcast: drop malformed envelope on %s: %v", msg.Channel, err)
				continue
			}
			payload, err := json.Marshal(env.Event)
			if err != nil {
				continue
			}
			l.hub.Broadcast(msg.Channel, payload, env.ExcludeUserID)
		}
	}()
}

// Stop closes the subscription, which also ends the relay goroutine.
func (l *Listener) Stop() {
	if l.pubsub != nil {
		_ = l.pubsub.Close()
	}
}
