package internal

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Direction tells MemoryBus.Deliver which way host traffic is flowing
type Direction int

const (
	DirectionSend Direction = iota // the host page is sending the message
	DirectionRecv                  // the host page is receiving the message
)

// MessageSink is notified of every message posted to the host
type MessageSink interface {
	Record(msg Message) error
}

type subscription struct {
	id        int
	eventType string
	handler   Handler
	opts      SubscribeOptions
	fired     atomic.Bool
}

// MemoryBus is an in-process Bus. Handlers run synchronously in registration order.
type MemoryBus struct {
	mu           sync.Mutex
	subs         []*subscription
	suppressions []*Suppression
	outbox       []Message
	sink         MessageSink
	registered   bool
	nextID       int
	newID        func() string
}

// NewMemoryBus creates an unregistered bus. sink may be nil.
func NewMemoryBus(sink MessageSink) *MemoryBus {
	return &MemoryBus{
		sink:  sink,
		newID: uuid.NewString,
	}
}

// Register joins the bus
func (b *MemoryBus) Register() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.registered = true
}

// Unregister leaves the bus and drops every subscription and pending block
func (b *MemoryBus) Unregister() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.registered = false
	b.subs = nil
	b.suppressions = nil
}

// Registered reports whether the bus is joined
func (b *MemoryBus) Registered() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.registered
}

// UUID returns a fresh identifier
func (b *MemoryBus) UUID() string {
	return b.newID()
}

// PostMessage hands msg to the host. Messages posted while unregistered are dropped.
func (b *MemoryBus) PostMessage(msg Message) {
	b.mu.Lock()
	if !b.registered {
		b.mu.Unlock()
		LogWarn("Dropping %s message: bus is not registered", msg.EventType)
		return
	}
	b.outbox = append(b.outbox, msg)
	sink := b.sink
	b.mu.Unlock()

	LogDebug("Posted %s message (persist=%t)", msg.EventType, msg.Persist)
	if sink == nil {
		return
	}
	if err := sink.Record(msg); err != nil {
		LogWarn("Failed to record %s message: %v", msg.EventType, err)
	}
}

// On subscribes handler to host traffic of eventType
func (b *MemoryBus) On(eventType string, handler Handler, opts SubscribeOptions) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	sub := &subscription{
		id:        b.nextID,
		eventType: eventType,
		handler:   handler,
		opts:      opts,
	}
	b.subs = append(b.subs, sub)
	return Subscription{cancel: func() { b.remove(sub.id) }}
}

// Block installs a suppression token
func (b *MemoryBus) Block(s *Suppression) {
	if s == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.suppressions = append(b.suppressions, s)
}

// Deliver routes host traffic to subscribers. It returns false when a
// suppression token swallowed the message.
func (b *MemoryBus) Deliver(msg Message, dir Direction) bool {
	b.mu.Lock()
	for i, s := range b.suppressions {
		if s.Consume(msg.EventType) {
			b.suppressions = append(b.suppressions[:i:i], b.suppressions[i+1:]...)
			b.mu.Unlock()
			LogDebug("Blocked %s message", msg.EventType)
			return false
		}
	}

	var targets []*subscription
	for _, sub := range b.subs {
		if sub.eventType == msg.EventType && sub.accepts(dir) {
			targets = append(targets, sub)
		}
	}
	b.mu.Unlock()

	for _, sub := range targets {
		if sub.opts.Once {
			// A once handler leaves the bus only when it is actually invoked
			if !sub.fired.CompareAndSwap(false, true) {
				continue
			}
			b.remove(sub.id)
		}
		if !sub.handler(msg) {
			break
		}
	}
	return true
}

// Messages returns a copy of every posted message in order
func (b *MemoryBus) Messages() []Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Message, len(b.outbox))
	copy(out, b.outbox)
	return out
}

// SubscriberCount returns the number of live subscriptions
func (b *MemoryBus) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// PendingBlocks returns the number of unspent suppression tokens
func (b *MemoryBus) PendingBlocks() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.suppressions)
}

func (b *MemoryBus) remove(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, sub := range b.subs {
		if sub.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

func (s *subscription) accepts(dir Direction) bool {
	if dir == DirectionSend {
		return s.opts.Send
	}
	return s.opts.Recv
}
