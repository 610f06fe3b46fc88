package internal

import "sync/atomic"

// Suppression is a single-use token that swallows the next bus message of one
// event type before any subscriber sees it. The relay issues one per pending
// roll so the host's own fulfilled message does not duplicate the relayed one.
type Suppression struct {
	eventType string
	spent     atomic.Bool
}

// NewSuppression creates an unspent token for eventType
func NewSuppression(eventType string) *Suppression {
	return &Suppression{eventType: eventType}
}

// EventType returns the event type the token applies to
func (s *Suppression) EventType() string {
	return s.eventType
}

// Consume reports whether msgType is blocked by this token. It returns true at
// most once over the token's lifetime.
func (s *Suppression) Consume(msgType string) bool {
	if msgType != s.eventType {
		return false
	}
	return s.spent.CompareAndSwap(false, true)
}

// Spent reports whether the token has already blocked a message
func (s *Suppression) Spent() bool {
	return s.spent.Load()
}
