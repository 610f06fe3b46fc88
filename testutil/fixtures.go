package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ScriptEvent is one line of a replay event script
type ScriptEvent struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload,omitempty"`
}

// DamageRollJSON is a resolved "2d6+3" damage roll in the tool's encoding
const DamageRollJSON = `{
	"type": "damage",
	"formula": "2d6+3",
	"parts": [
		{"formula": "2d6", "amount": 2, "faces": 6, "modifiers": [],
		 "rolls": [{"roll": 4, "discarded": false}, {"roll": 2, "discarded": false}], "total": 6},
		"+",
		3
	],
	"total": 9
}`

// PendingAttackJSON is an unresolved "1d20+5" to-hit roll in the tool's encoding
const PendingAttackJSON = `{
	"type": "to-hit",
	"formula": "1d20+5",
	"parts": [
		{"formula": "1d20", "amount": 1, "faces": 20, "modifiers": [], "rolls": []},
		"+",
		5
	]
}`

// RollBatch builds a pending-roll or fulfilled-roll payload from raw roll JSON
func RollBatch(name string, rolls ...string) map[string]interface{} {
	raw := make([]json.RawMessage, 0, len(rolls))
	for _, r := range rolls {
		raw = append(raw, json.RawMessage(r))
	}
	return map[string]interface{}{
		"name":  name,
		"rolls": raw,
	}
}

// WriteEventScript writes events as a JSONL replay script and returns its path
func WriteEventScript(t *testing.T, dir string, events []ScriptEvent) string {
	t.Helper()
	var b strings.Builder
	for _, ev := range events {
		b.Write(JSONMarshal(t, ev))
		b.WriteByte('\n')
	}
	path := filepath.Join(dir, "events.jsonl")
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		t.Fatalf("Failed to write event script: %v", err)
	}
	return path
}

// WriteRollFixture writes raw roll JSON to a file and returns its path
func WriteRollFixture(t *testing.T, dir, rollJSON string) string {
	t.Helper()
	path := filepath.Join(dir, "roll.json")
	if err := os.WriteFile(path, []byte(rollJSON), 0644); err != nil {
		t.Fatalf("Failed to write roll fixture: %v", err)
	}
	return path
}

// AttackScript is a pending/fulfilled exchange followed by a disconnect
func AttackScript() []ScriptEvent {
	return []ScriptEvent{
		{Event: "pending-roll", Payload: RollBatch("Longsword", PendingAttackJSON)},
		{Event: "fulfilled-roll", Payload: RollBatch("Longsword", DamageRollJSON)},
		{Event: "roll", Payload: map[string]interface{}{"action": "roll", "type": "skill", "character": "Tester"}},
		{Event: "disconnect"},
	}
}
