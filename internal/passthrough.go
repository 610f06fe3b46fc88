package internal

import "encoding/json"

// Tool request actions that are forwarded without normalization
const (
	ActionRoll         = "roll"
	ActionRenderedRoll = "rendered-roll"
)

// RollRequest is a tool roll or rendered-roll payload, kept verbatim
type RollRequest struct {
	Action string
	Raw    json.RawMessage
}

// CustomRequestData is the data of a custom request message
type CustomRequestData struct {
	Request json.RawMessage `json:"request"`
}

// CustomRollData is the data of a custom rendered-roll message
type CustomRollData struct {
	Request json.RawMessage `json:"request,omitempty"`
	Render  json.RawMessage `json:"render,omitempty"`
}

// ParseRollRequest reads the action of a tool payload and keeps the raw JSON
func ParseRollRequest(payload json.RawMessage) (RollRequest, error) {
	var aux struct {
		Action string `json:"action"`
	}
	if err := json.Unmarshal(payload, &aux); err != nil {
		return RollRequest{}, &DecodeError{Event: "roll", Err: err}
	}
	return RollRequest{Action: aux.Action, Raw: payload}, nil
}

// FormatPassThrough wraps a tool request in a non-persisted bus message.
// Unknown actions yield no message.
func FormatPassThrough(req RollRequest) (Message, bool) {
	switch req.Action {
	case ActionRoll:
		return Message{
			Persist:   false,
			EventType: EventTypeCustomRequest,
			Data:      CustomRequestData{Request: req.Raw},
		}, true
	case ActionRenderedRoll:
		var aux struct {
			Request json.RawMessage `json:"request"`
			HTML    json.RawMessage `json:"html"`
		}
		if err := json.Unmarshal(req.Raw, &aux); err != nil {
			LogDebug("Ignoring malformed rendered roll: %v", err)
		}
		return Message{
			Persist:   false,
			EventType: EventTypeCustomRoll,
			Data:      CustomRollData{Request: aux.Request, Render: aux.HTML},
		}, true
	default:
		return Message{}, false
	}
}
