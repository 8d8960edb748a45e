package output

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"EventLens/core"
)

// Common errors
var (
	ErrUnsupportedFormat = errors.New("unsupported output format")
)

// Writer defines the interface for all report emitters. Emitters build the
// full document in memory and write it in one shot at Close, so a failed
// run never leaves a partially-written report behind.
type Writer interface {
	// Write renders the events into the in-memory document
	Write(events []*core.Event) error

	// Close flushes the document to its destination
	Close() error
}

// GetWriter returns the appropriate writer for the given format
func GetWriter(format, outputPath string) (Writer, error) {
	format = strings.ToLower(format)

	switch format {
	case "csv":
		return NewCSVWriter(outputPath), nil
	case "html":
		return NewHTMLWriter(outputPath), nil
	case "jsonl":
		return NewJSONLWriter(outputPath), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// writeAtomic writes the finished document to path in a single call.
func writeAtomic(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}
