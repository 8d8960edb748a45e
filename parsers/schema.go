package parsers

import (
	"fmt"
	"strings"
)

// Known header labels per canonical field (case-insensitive matching).
// Matching is by recognized label, not by hardcoded position, so exports
// from different Event Viewer versions and locales map the same way.
// English and Portuguese variants, plus the short forms some export tools
// emit.
var (
	levelLabels = []string{
		"level", "nivel", "keywords",
	}
	timestampLabels = []string{
		"date and time", "date/time", "datetime", "timestamp", "date",
		"time created", "data e hora",
	}
	sourceLabels = []string{
		"source", "provider", "provider name", "fonte",
	}
	eventIDLabels = []string{
		"event id", "eventid", "id", "id do evento",
	}
	messageLabels = []string{
		"message", "description", "general", "mensagem", "descricao",
	}
)

// Schema is the label-to-index mapping captured from the header line.
// Index -1 means the column was not present in this export.
type Schema struct {
	Level     int
	Timestamp int
	Source    int
	EventID   int
	Message   int

	// Columns is the total header column count.
	Columns int
}

// FixedColumns returns how many leading columns precede the free-text
// message. Everything from the message column onward is message text.
func (s *Schema) FixedColumns() int {
	return s.Message
}

// ReadSchema builds a Schema from the header fields. The message column must
// be the last recognized column: the export dialect places the free-text
// body at the end of each record, and columns after it cannot be told apart
// from message content.
func ReadSchema(header []string) (*Schema, error) {
	s := &Schema{Level: -1, Timestamp: -1, Source: -1, EventID: -1, Message: -1, Columns: len(header)}

	for i, label := range header {
		norm := normalizeLabel(label)
		switch {
		case s.Level < 0 && matchLabel(norm, levelLabels):
			s.Level = i
		case s.Timestamp < 0 && matchLabel(norm, timestampLabels):
			s.Timestamp = i
		case s.Source < 0 && matchLabel(norm, sourceLabels):
			s.Source = i
		case s.EventID < 0 && matchLabel(norm, eventIDLabels):
			s.EventID = i
		case s.Message < 0 && matchLabel(norm, messageLabels):
			s.Message = i
		}
		// Unrecognized columns are ignored, not errors.
	}

	if s.Timestamp < 0 && s.Level < 0 {
		return nil, fmt.Errorf("%w: header has no recognized level or timestamp column", ErrParse)
	}
	if s.Message < 0 {
		return nil, fmt.Errorf("%w: header has no recognized message column", ErrParse)
	}
	if s.Message != len(header)-1 {
		return nil, fmt.Errorf("%w: message column must be last (found at %d of %d)", ErrParse, s.Message+1, len(header))
	}

	return s, nil
}

func normalizeLabel(label string) string {
	norm := strings.ToLower(strings.TrimSpace(label))
	norm = strings.Trim(norm, `"`)
	// Strip accents seen in localized exports so "Nível" matches "nivel".
	replacer := strings.NewReplacer("í", "i", "ã", "a", "ç", "c", "é", "e", "ó", "o")
	return replacer.Replace(norm)
}

func matchLabel(norm string, known []string) bool {
	for _, k := range known {
		if norm == k {
			return true
		}
	}
	return false
}
