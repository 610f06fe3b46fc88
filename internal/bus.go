package internal

import (
	"encoding/json"
	"fmt"
)

// Game log event types
const (
	EventTypePendingRoll   = "dice/roll/pending"
	EventTypeFulfilledRoll = "dice/roll/fulfilled"
	EventTypeCustomRequest = "custom/beyond20/request"
	EventTypeCustomRoll    = "custom/beyond20/roll"
)

// Message is a game log bus message. Routing fields are omitted when unknown.
type Message struct {
	Persist       bool   `json:"persist"`
	EventType     string `json:"eventType"`
	EntityType    string `json:"entityType,omitempty"`
	EntityID      string `json:"entityId,omitempty"`
	GameID        string `json:"gameId,omitempty"`
	MessageScope  string `json:"messageScope,omitempty"`
	MessageTarget string `json:"messageTarget,omitempty"`
	UserID        string `json:"userId,omitempty"`
	Data          any    `json:"data,omitempty"`
}

// Handler receives bus traffic. Returning false stops propagation to later subscribers.
type Handler func(msg Message) bool

// SubscribeOptions scopes a subscription
type SubscribeOptions struct {
	Once bool // deregister after the first delivery
	Send bool // deliver messages the host is sending
	Recv bool // deliver messages the host is receiving
}

// Subscription is returned by Bus.On
type Subscription struct {
	cancel func()
}

// Cancel removes the subscription. Safe to call more than once.
func (s Subscription) Cancel() {
	if s.cancel != nil {
		s.cancel()
	}
}

// Bus is the host's page-to-page message transport
type Bus interface {
	PostMessage(msg Message)
	On(eventType string, handler Handler, opts SubscribeOptions) Subscription
	Block(s *Suppression)
	UUID() string
	Register()
	Unregister()
}

// DecodeData converts a message payload into dst. Payloads may arrive as
// raw JSON, decoded maps or typed structs.
func DecodeData(data any, dst any) error {
	var raw []byte
	switch v := data.(type) {
	case nil:
		return nil
	case json.RawMessage:
		raw = v
	case []byte:
		raw = v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode message data: %w", err)
		}
		raw = b
	}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("failed to decode message data: %w", err)
	}
	return nil
}
