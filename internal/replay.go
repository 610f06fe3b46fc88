package internal

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// ReplayStats summarizes a replay run
type ReplayStats struct {
	Events    int // script events read
	Unhandled int // events no listener picked up
	Skipped   int // undecodable script lines
	Blocked   int // host messages swallowed by suppression
	Posted    int // messages posted to the host
}

// Replayer feeds a JSONL event script through a connected relay
type Replayer struct {
	target *EventTarget
	relay  *Relay
	bus    *MemoryBus
	host   *HostSimulator
}

// NewReplayer connects a relay to bus. host may be nil to disable simulation,
// in which case only scripted host-message events reach the bus.
func NewReplayer(bus *MemoryBus, host *HostSimulator) *Replayer {
	target := NewEventTarget()
	relay := NewRelay(bus)
	relay.Connect(target)
	return &Replayer{
		target: target,
		relay:  relay,
		bus:    bus,
		host:   host,
	}
}

// Relay returns the connected relay
func (r *Replayer) Relay() *Relay {
	return r.relay
}

// Run processes events line by line until EOF or ctx is done
func (r *Replayer) Run(ctx context.Context, events io.Reader) (ReplayStats, error) {
	var stats ReplayStats
	injector := r.host
	if injector == nil {
		injector = &HostSimulator{bus: r.bus}
	}

	scanner := bufio.NewScanner(events)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 || line[0] == '#' {
			continue
		}

		var ev Event
		if err := json.Unmarshal(line, &ev); err != nil || ev.Name == "" {
			LogWarn("Skipping script line %d: not an event", lineNo)
			stats.Skipped++
			continue
		}
		stats.Events++

		if ev.Name == HostMessageEvent {
			var hm HostMessage
			if err := json.Unmarshal(ev.Payload, &hm); err != nil {
				LogWarn("Skipping script line %d: %v", lineNo, &DecodeError{Event: ev.Name, Err: err})
				stats.Skipped++
				continue
			}
			injector.Inject(hm)
			continue
		}

		if r.target.Dispatch(ev) == 0 {
			LogDebug("No listener for %s event on line %d", ev.Name, lineNo)
			stats.Unhandled++
			continue
		}
		if r.host != nil && r.bus.Registered() {
			r.host.Observe(ev)
		}
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("failed to read event script: %w", err)
	}

	stats.Blocked = injector.Blocked()
	stats.Posted = len(r.bus.Messages())
	return stats, nil
}
