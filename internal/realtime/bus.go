package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/redis/go-redis/v9"
)

// Bus carries pushes between API instances so a user connected to another
// process still gets them.
type Bus interface {
	Publish(ctx context.Context, userID int64, data []byte) error
	Subscribe(ctx context.Context, deliver func(userID int64, data []byte)) error
}

type busEnvelope struct {
	UserID int64           `json:"user_id"`
	Data   json.RawMessage `json:"data"`
}

// RedisBus relays over a single Redis pub/sub channel.
type RedisBus struct {
	rdb     *redis.Client
	channel string
}

func NewRedisBus(rdb *redis.Client, channel string) *RedisBus {
	return &RedisBus{rdb: rdb, channel: channel}
}

func (b *RedisBus) Publish(ctx context.Context, userID int64, data []byte) error {
	payload, err := json.Marshal(busEnvelope{UserID: userID, Data: data})
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, payload).Err()
}

// Subscribe blocks until ctx is cancelled.
func (b *RedisBus) Subscribe(ctx context.Context, deliver func(userID int64, data []byte)) error {
	pubsub := b.rdb.Subscribe(ctx, b.channel)
	defer pubsub.Close()

	// Wait for the subscription to be confirmed before consuming.
	if _, err := pubsub.Receive(ctx); err != nil {
		return err
	}

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return errors.New("redis bus channel closed")
			}
			var env busEnvelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				log.Printf("bus_decode_error channel=%s error=%q", b.channel, err)
				continue
			}
			deliver(env.UserID, env.Data)
		}
	}
}
