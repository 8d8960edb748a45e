package output

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"EventLens/core"
)

// csvHeader uses the labels the field mapper recognizes, with the message
// last, so a written report re-parses into the same mapped fields. The
// extractor-derived columns in between are ignored on re-read and
// recomputed from the message.
var csvHeader = []string{
	"Date and Time",
	"Level",
	"Source",
	"Event ID",
	"Account Name",
	"Security ID",
	"Process Name",
	"Explanation",
	"Message",
}

// CSVWriter implements the Writer interface for CSV reports.
type CSVWriter struct {
	path   string
	buf    bytes.Buffer
	writer *csv.Writer
}

// NewCSVWriter creates a CSV report writer targeting the given path.
func NewCSVWriter(outputPath string) *CSVWriter {
	w := &CSVWriter{path: outputPath}
	w.writer = csv.NewWriter(&w.buf)
	return w
}

// Write renders the events as CSV rows. The multi-line message field is
// quoted by the encoder, newlines preserved.
func (w *CSVWriter) Write(events []*core.Event) error {
	if w.buf.Len() == 0 {
		if err := w.writer.Write(csvHeader); err != nil {
			return fmt.Errorf("failed to write CSV header: %w", err)
		}
	}

	for _, event := range events {
		record := []string{
			event.TimeString(),
			event.Level,
			event.Source,
			event.IDString(),
			event.AccountName,
			event.SecurityID,
			event.ProcessName,
			event.Explanation,
			event.Message,
		}

		if err := w.writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	w.writer.Flush()
	return w.writer.Error()
}

// Close writes the finished document to disk in one shot.
func (w *CSVWriter) Close() error {
	w.writer.Flush()
	if err := w.writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV writer: %w", err)
	}
	return writeAtomic(w.path, w.buf.Bytes())
}
