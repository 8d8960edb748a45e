package output

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EventLens/core"
	"EventLens/parsers"
)

func reportEvents() []*core.Event {
	ts := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	return []*core.Event{
		{
			Timestamp:   ts,
			TimeOK:      true,
			Level:       "Audit Failure",
			Source:      "Microsoft-Windows-Security-Auditing",
			EventID:     4625,
			AccountName: "bob",
			SecurityID:  "S-1-5-21-1-2-3-1001",
			ProcessName: `C:\Windows\System32\winlogon.exe`,
			Explanation: "An account failed to log on.",
			Message:     "An account failed to log on.\n\nSubject:\n\tAccount Name:\tbob",
		},
		{
			Timestamp: ts.Add(time.Minute),
			TimeOK:    true,
			Level:     "Information",
			Source:    "Service Control Manager",
			EventID:   7036,
			Message:   `The "Spooler" service entered the running state.`,
		},
	}
}

func TestCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	events := reportEvents()

	w := NewCSVWriter(path)
	require.NoError(t, w.Write(events))
	require.NoError(t, w.Close())

	// A written report must parse back into the same mapped fields.
	parser := &parsers.ExportParser{}
	parsed, err := parser.Parse(path)
	require.NoError(t, err)
	require.Len(t, parsed, len(events))

	for i, got := range parsed {
		want := events[i]
		assert.Equal(t, want.TimeString(), got.TimeString(), "event %d timestamp", i)
		assert.Equal(t, want.Level, got.Level, "event %d level", i)
		assert.Equal(t, want.Source, got.Source, "event %d source", i)
		assert.Equal(t, want.IDString(), got.IDString(), "event %d id", i)
		assert.Equal(t, want.Message, got.Message, "event %d message", i)
	}
	assert.Zero(t, parser.ShortRecords)
}

func TestCSVHeaderWrittenOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	events := reportEvents()

	w := NewCSVWriter(path)
	require.NoError(t, w.Write(events[:1]))
	require.NoError(t, w.Write(events[1:]))
	require.NoError(t, w.Close())

	parsed, err := (&parsers.ExportParser{}).Parse(path)
	require.NoError(t, err)
	assert.Len(t, parsed, 2)
}

func TestCSVEmptyReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")

	w := NewCSVWriter(path)
	require.NoError(t, w.Write(nil))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Date and Time,Level,Source,Event ID")
}

func TestGetWriter(t *testing.T) {
	dir := t.TempDir()

	for _, format := range []string{"csv", "HTML", "jsonl"} {
		w, err := GetWriter(format, filepath.Join(dir, "out."+format))
		require.NoError(t, err, format)
		require.NotNil(t, w, format)
	}

	_, err := GetWriter("xml", filepath.Join(dir, "out.xml"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
