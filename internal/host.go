package internal

import (
	"encoding/json"

	"github.com/google/uuid"
)

// HostMessageEvent is the script event that injects raw host bus traffic
const HostMessageEvent = "host-message"

// HostMessage is the payload of a host-message script event
type HostMessage struct {
	Direction string  `json:"direction"` // "send" (default) or "recv"
	Message   Message `json:"message"`
}

// HostSimulator plays the game log's own dice roller during a replay: it
// announces a pending roll after the tool's pending event and emits its own
// fulfilled roll after the tool's fulfilled event.
type HostSimulator struct {
	bus   *MemoryBus
	cfg   HostConfig
	newID func() string

	blocked int
}

// NewHostSimulator creates a simulator delivering into bus
func NewHostSimulator(bus *MemoryBus, cfg HostConfig) *HostSimulator {
	return &HostSimulator{bus: bus, cfg: cfg, newID: uuid.NewString}
}

// Blocked returns how many host messages were swallowed by the bus
func (h *HostSimulator) Blocked() int {
	return h.blocked
}

// Observe reacts to a tool event the relay has already handled
func (h *HostSimulator) Observe(ev Event) {
	switch ev.Name {
	case EventPendingRoll, EventPendingRollAlias:
		h.deliver(h.message(EventTypePendingRoll, false, batchName(ev)), DirectionSend)
	case EventFulfilledRoll, EventFulfilledRollAlias:
		h.deliver(h.message(EventTypeFulfilledRoll, true, batchName(ev)), DirectionSend)
	}
}

// Inject delivers a scripted host message
func (h *HostSimulator) Inject(hm HostMessage) {
	dir := DirectionSend
	if hm.Direction == "recv" {
		dir = DirectionRecv
	}
	h.deliver(hm.Message, dir)
}

func (h *HostSimulator) deliver(msg Message, dir Direction) {
	if !h.bus.Deliver(msg, dir) {
		h.blocked++
	}
}

func (h *HostSimulator) message(eventType string, persist bool, action string) Message {
	return Message{
		Persist:       persist,
		EventType:     eventType,
		EntityType:    h.cfg.EntityType,
		EntityID:      h.cfg.EntityID,
		GameID:        h.cfg.GameID,
		MessageScope:  h.cfg.MessageScope,
		MessageTarget: h.cfg.MessageTarget,
		UserID:        h.cfg.UserID,
		Data: map[string]any{
			"action": action,
			"context": map[string]any{
				"entityId":      h.cfg.EntityID,
				"entityType":    h.cfg.EntityType,
				"messageScope":  h.cfg.MessageScope,
				"messageTarget": h.cfg.MessageTarget,
			},
			"rollId": h.newID(),
			"rolls":  []any{},
			"setId":  h.cfg.SetID,
		},
	}
}

func batchName(ev Event) string {
	var aux struct {
		Name string `json:"name"`
	}
	if len(ev.Payload) > 0 {
		_ = json.Unmarshal(ev.Payload, &aux)
	}
	return aux.Name
}
