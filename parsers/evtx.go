package parsers

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/0xrawsec/golang-evtx/evtx"

	"EventLens/core"
	"EventLens/internal/logger"
)

// Local path definitions for EVTX elements not in the library
var (
	providerPath = evtx.Path("/Event/System/Provider/Name")
	levelPath    = evtx.Path("/Event/System/Level")
)

// Numeric EVTX levels mapped to the labels Event Viewer shows, so EVTX
// input filters the same way as text exports.
var evtxLevelNames = map[int64]string{
	0: "LogAlways",
	1: "Critical",
	2: "Error",
	3: "Warning",
	4: "Information",
	5: "Verbose",
}

// EvtxParser implements the Parser interface for native Windows Event Log
// (.evtx) files. Reassembly does not apply to the binary format; extraction,
// explanation lookup, and filtering work on the resulting events unchanged.
type EvtxParser struct{}

// CanParse checks if this parser can handle the given file
func (p *EvtxParser) CanParse(filePath string) bool {
	ext := strings.ToLower(filepath.Ext(filePath))
	return ext == ".evtx"
}

// Parse parses an EVTX file and returns a slice of events
func (p *EvtxParser) Parse(filePath string) ([]*core.Event, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open EVTX file: %w", err)
	}
	defer file.Close()

	ef, err := evtx.New(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	var events []*core.Event
	for e := range ef.FastEvents() {
		if event := p.convertEvtxEvent(e); event != nil {
			events = append(events, event)
		}
	}

	logger.Info("Parsed EVTX file: %s (found %d events)", filePath, len(events))
	return events, nil
}

// convertEvtxEvent converts a golang-evtx event map to our core.Event type
func (p *EvtxParser) convertEvtxEvent(e *evtx.GoEvtxMap) *core.Event {
	if e == nil {
		return nil
	}

	event := &core.Event{}

	if systemTime, err := e.GetTime(&evtx.SystemTimePath); err == nil {
		event.Timestamp = systemTime
		event.TimeOK = true
	} else {
		event.TimestampRaw = core.MissingField
	}

	if eid, err := e.GetInt(&evtx.EventIDPath); err == nil {
		event.EventID = int(eid)
	} else {
		event.EventIDRaw = core.MissingField
	}

	if provider, err := e.GetString(&providerPath); err == nil {
		event.Source = provider
	} else if channel, err := e.GetString(&evtx.ChannelPath); err == nil {
		event.Source = channel
	} else {
		event.Source = core.MissingField
	}

	if lvl, err := e.GetInt(&levelPath); err == nil {
		if name, ok := evtxLevelNames[lvl]; ok {
			event.Level = name
		} else {
			event.Level = fmt.Sprintf("Level %d", lvl)
		}
	} else {
		event.Level = core.MissingField
	}

	event.Message = p.buildEventMessage(e)

	return event
}

// buildEventMessage flattens the EventData section into the same "Label:
// value" line shape the text exports carry, so the entity extraction rules
// apply to EVTX input as well.
func (p *EvtxParser) buildEventMessage(e *evtx.GoEvtxMap) string {
	dataPath := evtx.Path("/Event/EventData")

	data, err := e.GetMap(&dataPath)
	if err != nil || data == nil {
		return ""
	}

	keys := make([]string, 0, len(*data))
	for key := range *data {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s: %v", splitCamelCase(key), (*data)[key])
	}
	return b.String()
}

// splitCamelCase turns EVTX data names like "TargetUserName" into the
// spaced labels ("Target User Name") the extraction patterns expect.
func splitCamelCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			prev := rune(s[i-1])
			if prev >= 'a' && prev <= 'z' {
				b.WriteByte(' ')
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}
