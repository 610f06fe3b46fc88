package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iksnae/dice-relay/internal"
)

// JSONLExporter exports posted messages in JSONL format (one message per line)
type JSONLExporter struct{}

// Export writes messages to w
func (e *JSONLExporter) Export(messages []internal.Message, w io.Writer) error {
	enc := json.NewEncoder(w)

	for i, msg := range messages {
		if err := enc.Encode(msg); err != nil {
			return fmt.Errorf("failed to encode message %d: %w", i, err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
