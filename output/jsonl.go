package output

import (
	"bytes"
	"encoding/json"
	"fmt"

	"EventLens/core"
)

// JSONLWriter implements the Writer interface for JSON Lines reports.
type JSONLWriter struct {
	path    string
	buf     bytes.Buffer
	encoder *json.Encoder
}

// NewJSONLWriter creates a JSON Lines report writer targeting the given path.
func NewJSONLWriter(outputPath string) *JSONLWriter {
	w := &JSONLWriter{path: outputPath}
	w.encoder = json.NewEncoder(&w.buf)
	w.encoder.SetEscapeHTML(false)
	return w
}

// Write encodes the events, one JSON document per line.
func (w *JSONLWriter) Write(events []*core.Event) error {
	for _, event := range events {
		if err := w.encoder.Encode(event); err != nil {
			return fmt.Errorf("failed to encode event to JSON: %w", err)
		}
	}
	return nil
}

// Close writes the finished document to disk in one shot.
func (w *JSONLWriter) Close() error {
	return writeAtomic(w.path, w.buf.Bytes())
}
