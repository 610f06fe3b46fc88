package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iksnae/dice-relay/internal"
	"gopkg.in/yaml.v3"
)

// YAMLExporter exports posted messages in YAML format
type YAMLExporter struct{}

// Export writes messages to w. Keys use the same names as the JSON wire format.
func (e *YAMLExporter) Export(messages []internal.Message, w io.Writer) error {
	docs := make([]interface{}, 0, len(messages))
	for i, msg := range messages {
		doc, err := wireValue(msg)
		if err != nil {
			return fmt.Errorf("failed to convert message %d: %w", i, err)
		}
		docs = append(docs, doc)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()

	return enc.Encode(docs)
}

// Extension returns the file extension for this format
func (e *YAMLExporter) Extension() string {
	return "yaml"
}

// wireValue converts v to generic maps and slices through its JSON encoding
func wireValue(v interface{}) (interface{}, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
