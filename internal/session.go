package internal

import "fmt"

// SentinelSetID is sent when no dice set is known. Leaving setId out makes the
// game log fall back to its default dice theme, so an invalid id is used instead.
const SentinelSetID = "8201337"

// RollExchangeContext is the routing data captured from the host's pending
// roll, reused to correlate the fulfilled roll that follows
type RollExchangeContext struct {
	EntityType    string `json:"entityType,omitempty"`
	EntityID      string `json:"entityId,omitempty"`
	GameID        string `json:"gameId,omitempty"`
	MessageScope  string `json:"messageScope,omitempty"`
	MessageTarget string `json:"messageTarget,omitempty"`
	UserID        string `json:"userId,omitempty"`
	Context       any    `json:"context,omitempty"`
	RollID        string `json:"rollId,omitempty"`
	SetID         string `json:"setId,omitempty"`
}

// rollEnvelopeData is the data block of a host pending roll
type rollEnvelopeData struct {
	Context any `json:"context"`
	RollID  any `json:"rollId"`
	SetID   any `json:"setId"`
}

// contextFromMessage captures the envelope of a host pending roll
func contextFromMessage(msg Message) RollExchangeContext {
	var data rollEnvelopeData
	if err := DecodeData(msg.Data, &data); err != nil {
		LogDebug("Ignoring undecodable pending roll data: %v", err)
	}
	return RollExchangeContext{
		EntityType:    msg.EntityType,
		EntityID:      msg.EntityID,
		GameID:        msg.GameID,
		MessageScope:  msg.MessageScope,
		MessageTarget: msg.MessageTarget,
		UserID:        msg.UserID,
		Context:       data.Context,
		RollID:        stringValue(data.RollID),
		SetID:         stringValue(data.SetID),
	}
}

// envelope copies the routing fields onto a new message
func (c RollExchangeContext) envelope(eventType string, persist bool, data any) Message {
	return Message{
		Persist:       persist,
		EventType:     eventType,
		EntityType:    c.EntityType,
		EntityID:      c.EntityID,
		GameID:        c.GameID,
		MessageScope:  c.MessageScope,
		MessageTarget: c.MessageTarget,
		UserID:        c.UserID,
		Data:          data,
	}
}

func stringValue(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}
