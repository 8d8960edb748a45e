package parsers

import (
	"fmt"
	"regexp"
	"strings"
)

// Event Viewer "save as CSV" output is not valid single-line CSV: the
// free-text message spans multiple physical lines and is not consistently
// quoted. A logical record is recovered by anchoring on lines whose leading
// fixed fields have the expected shape; every line that does not anchor is a
// continuation of the previous record's message.

// dateTokenPattern recognizes the date/time-like token that identifies an
// anchor line. Covers ISO-ish, slashed, and dotted date forms with a
// following clock time, optionally quoted.
var dateTokenPattern = regexp.MustCompile(`^\s*"?\d{1,4}[-/.]\d{1,2}[-/.]\d{1,4}[ T]\d{1,2}:\d{2}`)

// Reassembler recovers logical records from the physical lines of an export
// file. It is built from the Schema captured at header-read time so the
// anchor test knows how many fixed fields precede the message and where the
// timestamp column sits.
type Reassembler struct {
	schema *Schema
	delim  rune
}

// NewReassembler creates a reassembler for the given header schema and
// field delimiter.
func NewReassembler(schema *Schema, delim rune) *Reassembler {
	return &Reassembler{schema: schema, delim: delim}
}

// Records reassembles the data lines (header already removed) into one raw
// record string per logical event. Continuation lines are appended to the
// previous record's text with a newline separator.
//
// An empty input yields an empty slice. A first data line that does not
// anchor is fatal: there is no record to attach continuations to.
func (r *Reassembler) Records(lines []string) ([]string, error) {
	records := make([]string, 0, len(lines))

	for i, line := range lines {
		if len(records) == 0 && strings.TrimSpace(line) == "" {
			// Blank lines before the first record carry nothing.
			continue
		}

		if r.isAnchor(line) {
			records = append(records, line)
			continue
		}

		if len(records) == 0 {
			return nil, fmt.Errorf("%w: line %d does not match the record shape and no prior record exists", ErrParse, i+2)
		}

		// Continuation of the previous record's message field.
		records[len(records)-1] += "\n" + line
	}

	return records, nil
}

// isAnchor reports whether a physical line starts a new logical record.
//
// When the timestamp is the leading column the date/time token alone marks a
// record start; such lines still anchor when trailing columns are missing,
// and the mapper fills the gaps with missing markers. When the timestamp
// sits deeper in the row the full fixed-column shape is required, since a
// bare date inside free prose is common but a whole delimited prefix is not.
func (r *Reassembler) isAnchor(line string) bool {
	fields, _, complete := splitRecord(line, r.delim, r.schema.FixedColumns())

	tsIdx := r.schema.Timestamp
	if tsIdx == 0 {
		return len(fields) > 1 && dateTokenPattern.MatchString(fields[0])
	}

	if !complete {
		return false
	}
	if tsIdx > 0 && tsIdx < len(fields) {
		return dateTokenPattern.MatchString(fields[tsIdx])
	}

	// No timestamp column in this export; fall back to the level column
	// being a short bare token, which continuation prose practically
	// never is.
	lvlIdx := r.schema.Level
	if lvlIdx < 0 || lvlIdx >= len(fields) {
		return false
	}
	lvl := strings.TrimSpace(unquoteField(fields[lvlIdx]))
	return lvl != "" && len(lvl) <= 32 && !strings.ContainsAny(lvl, ":\\/")
}
