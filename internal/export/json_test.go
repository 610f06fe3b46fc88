package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/iksnae/dice-relay/internal"
)

func TestJSONExporter_Export(t *testing.T) {
	tests := []struct {
		name     string
		messages []internal.Message
		wantLen  int
	}{
		{
			name:     "relayed messages",
			messages: internal.CreateTestMessages(),
			wantLen:  3,
		},
		{
			name:     "empty",
			messages: []internal.Message{},
			wantLen:  0,
		},
		{
			name:     "nil",
			messages: nil,
			wantLen:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exporter := &JSONExporter{}
			var buf bytes.Buffer

			if err := exporter.Export(tt.messages, &buf); err != nil {
				t.Fatalf("Export() error = %v", err)
			}

			var decoded []map[string]interface{}
			if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
				t.Fatalf("Export() produced invalid JSON: %v", err)
			}
			if decoded == nil || len(decoded) != tt.wantLen {
				t.Errorf("decoded %d messages, want %d", len(decoded), tt.wantLen)
			}
		})
	}
}

func TestJSONExporter_WireFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONExporter{}).Export(internal.CreateTestMessages(), &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	output := buf.String()
	for _, want := range []string{`"eventType": "dice/roll/fulfilled"`, `"persist": true`, `"diceNotationStr": "2d6+3"`, `"setId": "00101"`} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %s", want)
		}
	}
	// Pretty-printed
	if !strings.Contains(output, "\n  ") {
		t.Error("JSON output should be indented")
	}
}

func TestJSONExporter_Extension(t *testing.T) {
	exporter := &JSONExporter{}
	if got := exporter.Extension(); got != "json" {
		t.Errorf("Extension() = %v, want json", got)
	}
}
