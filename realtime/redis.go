package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type envelope struct {
	Origin string          `json:"origin"`
	Data   json.RawMessage `json:"data"`
}

// RedisBridge relays hub events between API instances over Redis pub/sub.
// Each instance ignores the messages it published itself.
type RedisBridge struct {
	rdb     *redis.Client
	channel string
	origin  string
	hub     *Hub
}

func NewRedisBridge(url, channel string, hub *Hub) (*RedisBridge, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	return &RedisBridge{
		rdb:     redis.NewClient(opts),
		channel: channel,
		origin:  uuid.NewString(),
		hub:     hub,
	}, nil
}

func (b *RedisBridge) Publish(ctx context.Context, data []byte) error {
	msg, err := json.Marshal(envelope{Origin: b.origin, Data: data})
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, msg).Err()
}

// Run subscribes to the channel and feeds remote events into the hub until
// ctx is cancelled.
func (b *RedisBridge) Run(ctx context.Context) error {
	if err := b.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	sub := b.rdb.Subscribe(ctx, b.channel)
	defer sub.Close()

	log.WithField("channel", b.channel).Info("📡 Order feed bridged through Redis")
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			b.handle(msg.Payload)
		}
	}
}

func (b *RedisBridge) handle(payload string) {
	var env envelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		log.WithError(err).Warn("Dropping malformed order feed message")
		return
	}
	if env.Origin == b.origin {
		return
	}
	b.hub.deliver(env.Data)
}

func (b *RedisBridge) Close() error {
	return b.rdb.Close()
}
