package redis

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/confsync"
)

// PubSub implements confsync.Broadcaster over Redis PUBLISH/SUBSCRIBE.
// Delivery follows Redis pub/sub semantics: best-effort, at-most-once,
// only to subscribers connected at publish time.
type PubSub struct {
	client redis.UniversalClient
}

// NewPubSub wraps a connected Redis client as a broadcast transport.
func NewPubSub(client redis.UniversalClient) *PubSub {
	return &PubSub{client: client}
}

func (p *PubSub) Publish(ctx context.Context, channel string, payload []byte) error {
	return p.client.Publish(ctx, channel, payload).Err()
}

// Subscribe opens one Redis pub/sub connection covering the given
// channels and pumps its messages into the returned subscription until
// it is closed.
func (p *PubSub) Subscribe(ctx context.Context, channels ...string) (confsync.Subscription, error) {
	pubsub := p.client.Subscribe(ctx, channels...)

	// Force the SUBSCRIBE round-trip so a dead connection surfaces
	// here instead of as a silent message drought.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, err
	}

	sub := &subscription{
		pubsub:   pubsub,
		messages: make(chan confsync.InboundMessage),
	}
	go sub.pump()
	return sub, nil
}

type subscription struct {
	pubsub    *redis.PubSub
	messages  chan confsync.InboundMessage
	closeOnce sync.Once
	closeErr  error
}

func (s *subscription) Messages() <-chan confsync.InboundMessage {
	return s.messages
}

// Close terminates the Redis subscription; pump then drains and closes
// the message channel. Idempotent.
func (s *subscription) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.pubsub.Close()
	})
	return s.closeErr
}

func (s *subscription) pump() {
	defer close(s.messages)
	for msg := range s.pubsub.Channel() {
		s.messages <- confsync.InboundMessage{
			Channel: msg.Channel,
			Payload: []byte(msg.Payload),
		}
	}
}
