package export

import (
	"encoding/json"
	"io"

	"github.com/iksnae/dice-relay/internal"
)

// JSONExporter exports posted messages as a pretty-printed JSON array
type JSONExporter struct{}

// Export writes messages to w
func (e *JSONExporter) Export(messages []internal.Message, w io.Writer) error {
	if messages == nil {
		messages = []internal.Message{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(messages)
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}
