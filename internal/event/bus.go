package event

import (
	"sync"
	"sync/atomic"
)

// Handler receives published events.
type Handler interface {
	Handle(event TopicProvider)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(event TopicProvider)

// Handle calls the wrapped function.
func (f HandlerFunc) Handle(event TopicProvider) { f(event) }

// Subscription identifies one registered handler on the bus.
type Subscription struct {
	id    uint64
	topic Topic
}

// Topic returns the topic this subscription listens on.
func (s Subscription) Topic() Topic { return s.topic }

// SubscriptionOption customizes a subscription.
type SubscriptionOption func(*subscriber)

// Once removes the subscription after its first delivery.
func Once() SubscriptionOption {
	return func(s *subscriber) { s.once = true }
}

type subscriber struct {
	id      uint64
	topic   Topic
	handler Handler
	once    bool
}

// Stats reports cumulative bus activity.
type Stats struct {
	EventsPublished   uint64
	EventsDelivered   uint64
	ActiveSubscribers int
}

// Bus delivers events synchronously to subscribers in subscription order.
// Publish blocks until every matching handler has run, which guarantees
// observers see commits in store order without buffering or reordering.
type Bus struct {
	mu     sync.Mutex
	nextID uint64
	subs   []subscriber

	// deliverMu serializes publishes so handlers never interleave.
	// Held without mu, so handlers may subscribe and unsubscribe freely.
	deliverMu sync.Mutex

	published atomic.Uint64
	delivered atomic.Uint64
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a handler for one topic.
func (b *Bus) Subscribe(t Topic, handler Handler, opts ...SubscriptionOption) (Subscription, error) {
	if handler == nil {
		return Subscription{}, ErrNilHandler
	}
	if t == "" {
		return Subscription{}, ErrInvalidTopic
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := subscriber{id: b.nextID, topic: t, handler: handler}
	for _, opt := range opts {
		opt(&sub)
	}
	b.subs = append(b.subs, sub)
	return Subscription{id: sub.id, topic: t}, nil
}

// SubscribeFunc registers a function handler for one topic.
func (b *Bus) SubscribeFunc(t Topic, fn HandlerFunc, opts ...SubscriptionOption) (Subscription, error) {
	return b.Subscribe(t, fn, opts...)
}

// Unsubscribe removes a subscription.
func (b *Bus) Unsubscribe(sub Subscription) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.removeLocked(sub.id)
}

func (b *Bus) removeLocked(id uint64) error {
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return nil
		}
	}
	return ErrSubscriptionNotFound
}

// Publish delivers an event to every subscriber of its topic, in the order
// they subscribed, and returns once all handlers have run. Concurrent
// publishes are serialized so no observer sees events out of order.
func (b *Bus) Publish(event TopicProvider) error {
	if event == nil || event.EventTopic() == "" {
		return ErrInvalidEvent
	}

	b.deliverMu.Lock()
	defer b.deliverMu.Unlock()

	b.published.Add(1)

	t := event.EventTopic()
	b.mu.Lock()
	matched := make([]subscriber, 0, len(b.subs))
	for _, s := range b.subs {
		if s.topic == t {
			matched = append(matched, s)
		}
	}
	b.mu.Unlock()

	for _, s := range matched {
		s.handler.Handle(event)
		b.delivered.Add(1)
		if s.once {
			b.mu.Lock()
			_ = b.removeLocked(s.id)
			b.mu.Unlock()
		}
	}
	return nil
}

// Stats returns cumulative counters and the live subscriber count.
func (b *Bus) Stats() Stats {
	b.mu.Lock()
	active := len(b.subs)
	b.mu.Unlock()
	return Stats{
		EventsPublished:   b.published.Load(),
		EventsDelivered:   b.delivered.Load(),
		ActiveSubscribers: active,
	}
}
