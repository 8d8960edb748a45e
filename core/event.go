package core

import (
	"strconv"
	"time"
)

// Field markers used when a value could not be recovered from the input.
const (
	// MissingField marks a fixed column that was absent from a short record.
	MissingField = "(missing)"

	// ExplanationUnavailable marks an event ID whose explanation could not
	// be resolved, either because lookup was disabled or because it failed.
	ExplanationUnavailable = "N/A"
)

// Event represents a normalized Windows event log entry
type Event struct {
	// Timestamp is the parsed event time. Zero when TimestampRaw holds an
	// unparseable value; TimeOK distinguishes the two cases.
	Timestamp    time.Time `json:"timestamp"`
	TimestampRaw string    `json:"timestamp_raw,omitempty"`
	TimeOK       bool      `json:"-"`

	Level  string `json:"level"`
	Source string `json:"source"`

	// EventID is the numeric event identifier. When the input value is not
	// an integer it is kept verbatim in EventIDRaw and EventID stays zero.
	EventID    int    `json:"event_id"`
	EventIDRaw string `json:"event_id_raw,omitempty"`

	// Message is the full free-text body with embedded newlines preserved.
	Message string `json:"message"`

	// Attributes recovered from the message text by pattern extraction.
	// Empty means no pattern matched, which is an expected state.
	AccountName string `json:"account_name,omitempty"`
	SecurityID  string `json:"security_id,omitempty"`
	ProcessName string `json:"process_name,omitempty"`
	LogonID     string `json:"logon_id,omitempty"`
	ObjectName  string `json:"object_name,omitempty"`
	LogonType   string `json:"logon_type,omitempty"`

	// Explanation is populated lazily by the resolver. Empty until resolved;
	// ExplanationUnavailable when resolution failed or was disabled.
	Explanation string `json:"explanation,omitempty"`
}

// IDString returns the event ID as it should appear in output and filters:
// the parsed integer when available, otherwise the raw value.
func (e *Event) IDString() string {
	if e.EventIDRaw != "" {
		return e.EventIDRaw
	}
	return strconv.Itoa(e.EventID)
}

// TimeString returns the timestamp formatted for output, falling back to
// the raw input text when parsing failed.
func (e *Event) TimeString() string {
	if !e.TimeOK {
		return e.TimestampRaw
	}
	return e.Timestamp.Format("2006-01-02 15:04:05")
}

// Events is an ordered collection of events. Input order is preserved
// through the whole pipeline.
type Events []*Event
