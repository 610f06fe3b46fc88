package internal

import (
	"encoding/json"
	"strings"
	"sync"
)

// PendingRollData is the data of a relayed pending roll
type PendingRollData struct {
	Action  string           `json:"action"`
	Context any              `json:"context,omitempty"`
	RollID  string           `json:"rollId,omitempty"`
	Rolls   []NormalizedRoll `json:"rolls"`
	SetID   string           `json:"setId,omitempty"`
}

// FulfilledRollData is the data of a relayed fulfilled roll
type FulfilledRollData struct {
	Action  string           `json:"action"`
	Rolls   []NormalizedRoll `json:"rolls"`
	Context any              `json:"context,omitempty"`
	RollID  string           `json:"rollId,omitempty"`
	SetID   string           `json:"setId"`
}

// Relay correlates the tool's pending and fulfilled rolls with the game log.
// It keeps only the most recent exchange context: pending and fulfilled
// pairs are expected to arrive without interleaving.
type Relay struct {
	bus        Bus
	normalizer *Normalizer

	mu        sync.Mutex
	session   *RollExchangeContext
	target    *EventTarget
	listeners []Listener
}

// NewRelay creates a Relay posting to bus
func NewRelay(bus Bus) *Relay {
	return &Relay{
		bus:        bus,
		normalizer: NewNormalizer(),
	}
}

// Context returns a copy of the current exchange context, if any
func (r *Relay) Context() (RollExchangeContext, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session == nil {
		return RollExchangeContext{}, false
	}
	return *r.session, true
}

// AnnouncePending waits for the host's next outgoing pending roll, captures its
// context and replaces it with the normalized batch. The host's own next
// fulfilled roll is blocked so only the relayed one reaches the game log.
func (r *Relay) AnnouncePending(batch RollBatch) {
	r.bus.On(EventTypePendingRoll, func(msg Message) bool {
		ctx := contextFromMessage(msg)

		r.mu.Lock()
		r.session = &ctx
		r.mu.Unlock()

		r.bus.PostMessage(ctx.envelope(EventTypePendingRoll, false, PendingRollData{
			Action:  batch.Name,
			Context: ctx.Context,
			RollID:  ctx.RollID,
			Rolls:   r.normalizer.NormalizeRolls(batch.Rolls, false),
			SetID:   ctx.SetID,
		}))
		LogDebug("Relayed pending roll %q (rollId=%s)", batch.Name, ctx.RollID)

		// Stop propagation
		return false
	}, SubscribeOptions{Once: true, Send: true, Recv: false})

	r.bus.Block(NewSuppression(EventTypeFulfilledRoll))
}

// AnnounceFulfilled posts the resolved batch using the last pending context.
// A fresh rollId is stored afterwards so a burst of fulfilled rolls (critical
// hits) does not overwrite earlier entries in the game log.
func (r *Relay) AnnounceFulfilled(batch RollBatch) {
	r.mu.Lock()
	if r.session == nil {
		r.session = &RollExchangeContext{SetID: SentinelSetID}
	}
	ctx := *r.session
	r.mu.Unlock()

	setID := ctx.SetID
	if setID == "" {
		setID = SentinelSetID
	}

	r.bus.PostMessage(ctx.envelope(EventTypeFulfilledRoll, true, FulfilledRollData{
		Action:  fulfilledAction(batch.Name),
		Rolls:   r.normalizer.NormalizeRolls(batch.Rolls, true),
		Context: ctx.Context,
		RollID:  ctx.RollID,
		SetID:   setID,
	}))
	LogDebug("Relayed fulfilled roll %q (rollId=%s)", batch.Name, ctx.RollID)

	// The lock is not held while posting; sinks may call back into the relay
	r.mu.Lock()
	if r.session != nil {
		r.session.RollID = r.bus.UUID()
	}
	r.mu.Unlock()
}

// SendRoll forwards a roll or rendered-roll request as-is
func (r *Relay) SendRoll(req RollRequest) {
	msg, ok := FormatPassThrough(req)
	if !ok {
		return
	}
	r.bus.PostMessage(msg)
}

// Connect joins the bus and listens for tool events on target
func (r *Relay) Connect(target *EventTarget) {
	r.bus.Register()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.target = target
	r.listeners = append(r.listeners,
		target.AddListener(EventRenderedRoll, r.onRollRequest),
		target.AddListener(EventRoll, r.onRollRequest),
		target.AddListener(EventPendingRoll, r.onPendingRoll),
		target.AddListener(EventPendingRollAlias, r.onPendingRoll),
		target.AddListener(EventFulfilledRoll, r.onFulfilledRoll),
		target.AddListener(EventFulfilledRollAlias, r.onFulfilledRoll),
		target.AddListener(EventDisconnect, func(Event) { r.Disconnect() }),
	)
}

// Disconnect removes every listener and leaves the bus
func (r *Relay) Disconnect() {
	r.mu.Lock()
	target, listeners := r.target, r.listeners
	r.target, r.listeners = nil, nil
	r.mu.Unlock()

	if target != nil {
		for _, l := range listeners {
			target.RemoveListener(l)
		}
	}
	r.bus.Unregister()
	LogDebug("Relay disconnected")
}

func (r *Relay) onRollRequest(ev Event) {
	req, err := ParseRollRequest(ev.Payload)
	if err != nil {
		LogDebug("Dropping %s event: %v", ev.Name, err)
		return
	}
	r.SendRoll(req)
}

func (r *Relay) onPendingRoll(ev Event) {
	batch, err := decodeBatch(ev)
	if err != nil {
		LogDebug("Dropping %s event: %v", ev.Name, err)
		return
	}
	r.AnnouncePending(batch)
}

func (r *Relay) onFulfilledRoll(ev Event) {
	batch, err := decodeBatch(ev)
	if err != nil {
		LogDebug("Dropping %s event: %v", ev.Name, err)
		return
	}
	r.AnnounceFulfilled(batch)
}

func decodeBatch(ev Event) (RollBatch, error) {
	var batch RollBatch
	if len(ev.Payload) == 0 {
		return batch, nil
	}
	if err := json.Unmarshal(ev.Payload, &batch); err != nil {
		return RollBatch{}, &DecodeError{Event: ev.Name, Err: err}
	}
	return batch, nil
}

// fulfilledAction collapses "Initiative(+5)" style names; the encounter
// tracker only recognizes the bare "Initiative" action.
func fulfilledAction(name string) string {
	if strings.HasPrefix(name, "Initiative") {
		return "Initiative"
	}
	return name
}
