package parsers

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"EventLens/core"
)

const exportHeader = "Date and Time,Level,Source,Event ID,Message"

func writeTempExport(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}
	return path
}

func TestParseSingleEventWithEmbeddedNewlines(t *testing.T) {
	content := exportHeader + "\n" +
		`2024-01-01 10:00,Audit Failure,Security,4625,"An account failed to log on.` + "\n" +
		"Account Name: bob\n" +
		`Security ID: S-1-5-21-111-222-1001"` + "\n"

	p := &ExportParser{}
	events, err := p.Parse(writeTempExport(t, content))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	e := events[0]
	if e.EventID != 4625 {
		t.Errorf("expected event id 4625, got %d", e.EventID)
	}
	if e.Level != "Audit Failure" {
		t.Errorf("expected level %q, got %q", "Audit Failure", e.Level)
	}
	if e.Source != "Security" {
		t.Errorf("expected source %q, got %q", "Security", e.Source)
	}
	if !e.TimeOK {
		t.Errorf("expected parsed timestamp, got raw %q", e.TimestampRaw)
	}
	if !strings.Contains(e.Message, "Account Name: bob") {
		t.Errorf("message lost continuation line: %q", e.Message)
	}
	if !strings.Contains(e.Message, "\n") {
		t.Errorf("message newlines not preserved: %q", e.Message)
	}
	if strings.HasPrefix(e.Message, `"`) || strings.HasSuffix(e.Message, `"`) {
		t.Errorf("message quotes not stripped: %q", e.Message)
	}
}

func TestParseHeaderOnly(t *testing.T) {
	p := &ExportParser{}

	for _, content := range []string{exportHeader, exportHeader + "\n", exportHeader + "\r\n"} {
		events, err := p.Parse(writeTempExport(t, content))
		if err != nil {
			t.Fatalf("Parse failed for header-only file: %v", err)
		}
		if len(events) != 0 {
			t.Errorf("expected no events, got %d", len(events))
		}
	}
}

func TestParseRecordCountWithContinuations(t *testing.T) {
	content := exportHeader + "\n" +
		"2024-01-01 10:00,Information,Service Control Manager,7036,The service entered the running state.\n" +
		`2024-01-01 10:01,Audit Failure,Security,4625,"An account failed to log on.` + "\n" +
		"Account Name: alice\n" +
		`Logon Type: 3"` + "\n" +
		"2024-01-01 10:02,Warning,Dhcp,1003,Lease renewal failed.\n"

	p := &ExportParser{}
	events, err := p.Parse(writeTempExport(t, content))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if events[1].EventID != 4625 {
		t.Errorf("middle event id = %d, want 4625", events[1].EventID)
	}
	if events[2].EventID != 1003 {
		t.Errorf("events out of order: last id = %d", events[2].EventID)
	}
}

func TestParseFirstDataLineNotAnchorable(t *testing.T) {
	content := exportHeader + "\n" +
		"this line does not look like a record at all\n" +
		"2024-01-01 10:00,Information,Source,1,msg\n"

	p := &ExportParser{}
	_, err := p.Parse(writeTempExport(t, content))
	if err == nil {
		t.Fatal("expected fatal parse error, got nil")
	}
	if !errors.Is(err, ErrParse) {
		t.Errorf("expected ErrParse, got %v", err)
	}
}

func TestParseEmptyFile(t *testing.T) {
	p := &ExportParser{}
	_, err := p.Parse(writeTempExport(t, ""))
	if !errors.Is(err, ErrParse) {
		t.Errorf("expected ErrParse for empty file, got %v", err)
	}
}

func TestParseShortRecordKeptWithMarkers(t *testing.T) {
	content := exportHeader + "\n" +
		"2024-01-01 10:00,Information\n" +
		"2024-01-01 10:01,Information,Source,42,complete record\n"

	p := &ExportParser{}
	events, err := p.Parse(writeTempExport(t, content))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if p.ShortRecords != 1 {
		t.Errorf("ShortRecords = %d, want 1", p.ShortRecords)
	}

	short := events[0]
	if short.Source != core.MissingField {
		t.Errorf("missing source = %q, want marker", short.Source)
	}
	if short.EventIDRaw != core.MissingField {
		t.Errorf("missing event id raw = %q, want marker", short.EventIDRaw)
	}
	if short.Level != "Information" {
		t.Errorf("present field lost: level = %q", short.Level)
	}
}

func TestParseUnparseableTimestampKeptRaw(t *testing.T) {
	content := exportHeader + "\n" +
		"13/32/9999 99:99,Information,Source,1,msg\n"

	p := &ExportParser{}
	events, err := p.Parse(writeTempExport(t, content))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	e := events[0]
	if e.TimeOK {
		t.Error("expected timestamp parse failure")
	}
	if e.TimestampRaw != "13/32/9999 99:99" {
		t.Errorf("raw timestamp = %q", e.TimestampRaw)
	}
}

func TestParseNonIntegerEventID(t *testing.T) {
	content := exportHeader + "\n" +
		"2024-01-01 10:00,Information,Source,ABC-1,msg\n"

	p := &ExportParser{}
	events, err := p.Parse(writeTempExport(t, content))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if events[0].EventIDRaw != "ABC-1" {
		t.Errorf("raw event id = %q, want ABC-1", events[0].EventIDRaw)
	}
	if events[0].IDString() != "ABC-1" {
		t.Errorf("IDString = %q, want ABC-1", events[0].IDString())
	}
}

func TestParseReorderedColumns(t *testing.T) {
	content := "Level,Date and Time,Source,Task Category,Event ID,Message\n" +
		"Information,2024-01-01 10:00,Service Control Manager,None,7036,The service entered the running state.\n"

	p := &ExportParser{}
	events, err := p.Parse(writeTempExport(t, content))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	e := events[0]
	if e.Level != "Information" {
		t.Errorf("level = %q", e.Level)
	}
	if e.EventID != 7036 {
		t.Errorf("event id = %d, want 7036", e.EventID)
	}
	if !e.TimeOK {
		t.Errorf("timestamp not parsed from reordered column")
	}
}

func TestParseSemicolonDelimiter(t *testing.T) {
	content := "Date and Time;Level;Source;Event ID;Message\n" +
		"2024-01-01 10:00;Warning;Dhcp;1003;Lease renewal failed.\n"

	p := &ExportParser{}
	events, err := p.Parse(writeTempExport(t, content))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(events) != 1 || events[0].EventID != 1003 {
		t.Fatalf("semicolon export not parsed: %+v", events)
	}
}

func TestParseBOMStripped(t *testing.T) {
	content := "\xEF\xBB\xBF" + exportHeader + "\n" +
		"2024-01-01 10:00,Information,Source,1,msg\n"

	p := &ExportParser{}
	events, err := p.Parse(writeTempExport(t, content))
	if err != nil {
		t.Fatalf("Parse failed with BOM: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
}
