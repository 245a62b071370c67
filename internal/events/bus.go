// Package events carries change notifications between the ledger services
// and anything that displays or forwards ledger data.
package events

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Topic names a family of changes.
type Topic string

// Topics published by the ledger services.
const (
	TopicTransactions Topic = "transactions"
	TopicCategories   Topic = "categories"
	TopicBudgets      Topic = "budgets"
)

// AllTopics lists every topic.
var AllTopics = []Topic{TopicTransactions, TopicCategories, TopicBudgets}

// Action describes what happened to the entity.
type Action string

// Actions.
const (
	ActionCreated  Action = "created"
	ActionUpdated  Action = "updated"
	ActionDeleted  Action = "deleted"
	ActionImported Action = "imported"
)

// Event is a single change notification. ID is the entity id, or the
// "YYYY-MM" period for budget changes.
type Event struct {
	OccurredAt time.Time `json:"occurred_at"`
	Topic      Topic     `json:"topic"`
	Action     Action    `json:"action"`
	ID         string    `json:"id"`
}

// NewEvent stamps an event with the current time.
func NewEvent(topic Topic, action Action, id string) Event {
	return Event{
		OccurredAt: time.Now().UTC(),
		Topic:      topic,
		Action:     action,
		ID:         id,
	}
}

// Handler receives events.
type Handler func(ctx context.Context, e Event)

// Publisher is what mutating services depend on.
type Publisher interface {
	Publish(ctx context.Context, e Event)
}

type subscription struct {
	handler Handler
	id      int
}

// Bus is a synchronous in-process publish/subscribe hub. Handlers run in
// subscription order on the publisher's goroutine.
type Bus struct {
	subs   map[Topic][]subscription
	nextID int
	mu     sync.RWMutex
}

var _ Publisher = (*Bus)(nil)

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[Topic][]subscription)}
}

// Subscribe registers h for topic and returns a function that removes it.
// Calling the returned function more than once is harmless.
func (b *Bus) Subscribe(topic Topic, h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs[topic] = append(b.subs[topic], subscription{id: id, handler: h})

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(topic, id) })
	}
}

// SubscribeAll registers h for every topic.
func (b *Bus) SubscribeAll(h Handler) func() {
	cancels := make([]func(), 0, len(AllTopics))
	for _, topic := range AllTopics {
		cancels = append(cancels, b.Subscribe(topic, h))
	}
	return func() {
		for _, cancel := range cancels {
			cancel()
		}
	}
}

func (b *Bus) remove(topic Topic, id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subs[topic]
	for i, s := range subs {
		if s.id == id {
			b.subs[topic] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Publish delivers e to every handler subscribed to its topic. A handler
// that panics is logged and skipped; the rest still run.
func (b *Bus) Publish(ctx context.Context, e Event) {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}

	b.mu.RLock()
	subs := make([]subscription, len(b.subs[e.Topic]))
	copy(subs, b.subs[e.Topic])
	b.mu.RUnlock()

	for _, s := range subs {
		deliver(ctx, s.handler, e)
	}
}

func deliver(ctx context.Context, h Handler, e Event) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "event handler panicked",
				"topic", e.Topic,
				"action", e.Action,
				"id", e.ID,
				"panic", r)
		}
	}()
	h(ctx, e)
}

// Subscribers returns the number of handlers registered for topic.
func (b *Bus) Subscribers(topic Topic) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}

// Discard is a Publisher that drops every event.
var Discard Publisher = discard{}

type discard struct{}

func (discard) Publish(context.Context, Event) {}
