package parsers

import (
	"strconv"
	"strings"
	"time"

	"EventLens/core"
)

// Timestamp layouts to try when parsing the timestamp column. Event Viewer
// formats the value per the machine locale, so several shapes show up in
// the wild.
var exportTimestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04",
	"1/2/2006 3:04:05 PM",
	"01/02/2006 3:04:05 PM",
	"1/2/2006 15:04:05",
	"02/01/2006 15:04:05",
	"2.1.2006 15:04:05",
	"2006/01/02 15:04:05",
}

// Mapper builds partially-populated events from reassembled raw records,
// using the label positions captured in the Schema.
type Mapper struct {
	schema *Schema
	delim  rune
}

// NewMapper creates a field mapper for the given schema and delimiter.
func NewMapper(schema *Schema, delim rune) *Mapper {
	return &Mapper{schema: schema, delim: delim}
}

// Map converts one raw record into an Event. Records with fewer columns
// than the fixed set produce an event whose absent fields carry the missing
// marker; they are never dropped. Short reports whether that happened.
func (m *Mapper) Map(record string) (event *core.Event, short bool) {
	fields, message, complete := splitRecord(record, m.delim, m.schema.FixedColumns())
	short = !complete

	e := &core.Event{
		Level:   m.fixedField(fields, m.schema.Level),
		Source:  m.fixedField(fields, m.schema.Source),
		Message: strings.TrimSpace(unquoteField(message)),
	}

	m.mapTimestamp(e, fields)
	m.mapEventID(e, fields)

	return e, short
}

func (m *Mapper) fixedField(fields []string, idx int) string {
	if idx < 0 || idx >= len(fields) {
		return core.MissingField
	}
	return strings.TrimSpace(unquoteField(fields[idx]))
}

func (m *Mapper) mapTimestamp(e *core.Event, fields []string) {
	raw := m.fixedField(fields, m.schema.Timestamp)
	if raw == core.MissingField || raw == "" {
		e.TimestampRaw = core.MissingField
		return
	}

	for _, layout := range exportTimestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			e.Timestamp = ts
			e.TimeOK = true
			return
		}
	}

	// Unparseable timestamps are kept verbatim, never dropped.
	e.TimestampRaw = raw
}

func (m *Mapper) mapEventID(e *core.Event, fields []string) {
	raw := m.fixedField(fields, m.schema.EventID)
	if raw == core.MissingField {
		e.EventIDRaw = core.MissingField
		return
	}

	if id, err := strconv.Atoi(raw); err == nil {
		e.EventID = id
		return
	}
	e.EventIDRaw = raw
}

// splitRecord splits a raw record into its fixed leading fields plus the
// trailing message text, honoring double-quoted fields (with "" escapes)
// so delimiters and newlines inside quotes do not split. complete is false
// when the record ran out before all fixed columns were seen.
func splitRecord(record string, delim rune, fixed int) (fields []string, message string, complete bool) {
	fields = make([]string, 0, fixed)
	var cur strings.Builder
	inQuotes := false
	runes := []rune(record)

	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case c == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				cur.WriteRune(c)
				cur.WriteRune(c)
				i++
				continue
			}
			inQuotes = !inQuotes
			cur.WriteRune(c)
		case c == delim && !inQuotes:
			fields = append(fields, cur.String())
			cur.Reset()
			if len(fields) == fixed {
				// Everything after the last fixed delimiter is
				// message text, delimiters and all.
				return fields, string(runes[i+1:]), true
			}
		default:
			cur.WriteRune(c)
		}
	}

	if cur.Len() > 0 || len(fields) > 0 {
		fields = append(fields, cur.String())
	}
	return fields, "", false
}

// unquoteField strips one pair of surrounding double quotes and collapses
// doubled quotes, mirroring how the export tool writes quoted values.
func unquoteField(field string) string {
	trimmed := strings.TrimSpace(field)
	if len(trimmed) >= 2 && strings.HasPrefix(trimmed, `"`) && strings.HasSuffix(trimmed, `"`) {
		trimmed = trimmed[1 : len(trimmed)-1]
		return strings.ReplaceAll(trimmed, `""`, `"`)
	}
	return field
}
