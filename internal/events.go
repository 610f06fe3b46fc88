package internal

import (
	"encoding/json"
	"sync"
)

// Inbound tool event names
const (
	EventRoll          = "roll"
	EventRenderedRoll  = "rendered-roll"
	EventPendingRoll   = "pending-roll"
	EventFulfilledRoll = "fulfilled-roll"
	EventDisconnect    = "disconnect"

	// Names used by the browser extension
	EventPendingRollAlias   = "MBPendingRoll"
	EventFulfilledRollAlias = "MBFulfilledRoll"
)

// Event is a named inbound event with a JSON payload
type Event struct {
	Name    string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Listener is a registered event callback
type Listener struct {
	id   int
	name string
}

// Name returns the event name the listener is attached to
func (l Listener) Name() string {
	return l.name
}

type listenerEntry struct {
	Listener
	fn func(Event)
}

// EventTarget dispatches named events to listeners in registration order
type EventTarget struct {
	mu        sync.Mutex
	listeners []listenerEntry
	nextID    int
}

// NewEventTarget creates an empty EventTarget
func NewEventTarget() *EventTarget {
	return &EventTarget{}
}

// AddListener attaches fn to events called name
func (t *EventTarget) AddListener(name string, fn func(Event)) Listener {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextID++
	l := Listener{id: t.nextID, name: name}
	t.listeners = append(t.listeners, listenerEntry{Listener: l, fn: fn})
	return l
}

// RemoveListener detaches l. Unknown listeners are ignored.
func (t *EventTarget) RemoveListener(l Listener) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, entry := range t.listeners {
		if entry.id == l.id {
			t.listeners = append(t.listeners[:i:i], t.listeners[i+1:]...)
			return
		}
	}
}

// Dispatch runs every listener for ev.Name and returns how many ran
func (t *EventTarget) Dispatch(ev Event) int {
	t.mu.Lock()
	var fns []func(Event)
	for _, entry := range t.listeners {
		if entry.name == ev.Name {
			fns = append(fns, entry.fn)
		}
	}
	t.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
	return len(fns)
}

// ListenerCount returns the number of attached listeners
func (t *EventTarget) ListenerCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.listeners)
}
