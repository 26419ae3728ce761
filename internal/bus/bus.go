// internal/bus/bus.go
package bus

import (
	"github.com/cskr/pubsub"
	"github.com/rs/zerolog"
)

const subscriberCapacity = 128

// Subscription is a receive channel for one or more topics.
type Subscription chan interface{}

// MessageBus decouples event producers from in-process consumers.
type MessageBus interface {
	Publish(topic string, msg interface{})
	Subscribe(topics ...string) Subscription
	Unsubscribe(ch Subscription, topics ...string)
	Close()
}

// PubSubBus implements MessageBus on cskr/pubsub.
type PubSubBus struct {
	ps  *pubsub.PubSub
	log zerolog.Logger
}

func New(log zerolog.Logger) *PubSubBus {
	return &PubSubBus{
		ps:  pubsub.New(subscriberCapacity),
		log: log,
	}
}

func (b *PubSubBus) Publish(topic string, msg interface{}) {
	b.log.Debug().Str("topic", topic).Msg("publish")
	b.ps.Pub(msg, topic)
}

func (b *PubSubBus) Subscribe(topics ...string) Subscription {
	return b.ps.Sub(topics...)
}

func (b *PubSubBus) Unsubscribe(ch Subscription, topics ...string) {
	go b.ps.Unsub(ch, topics...)
	for range ch {
	}
}

func (b *PubSubBus) Close() {
	b.ps.Shutdown()
}
