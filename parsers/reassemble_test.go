package parsers

import (
	"errors"
	"strings"
	"testing"
)

func testSchema(t *testing.T) *Schema {
	t.Helper()
	schema, err := ReadSchema([]string{"Date and Time", "Level", "Source", "Event ID", "Message"})
	if err != nil {
		t.Fatalf("ReadSchema failed: %v", err)
	}
	return schema
}

func TestReassembleContinuationLines(t *testing.T) {
	r := NewReassembler(testSchema(t), ',')

	lines := []string{
		`2024-01-01 10:00,Information,Source,1,"first line`,
		"second line",
		`third line"`,
		"2024-01-01 10:01,Warning,Source,2,single line",
	}

	records, err := r.Records(lines)
	if err != nil {
		t.Fatalf("Records failed: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if got := strings.Count(records[0], "\n"); got != 2 {
		t.Errorf("first record has %d embedded newlines, want 2", got)
	}
	if !strings.HasSuffix(records[0], `third line"`) {
		t.Errorf("continuation not appended: %q", records[0])
	}
}

func TestReassembleEmptyInput(t *testing.T) {
	r := NewReassembler(testSchema(t), ',')

	records, err := r.Records(nil)
	if err != nil {
		t.Fatalf("Records failed on empty input: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}

func TestReassembleNoAnchorIsFatal(t *testing.T) {
	r := NewReassembler(testSchema(t), ',')

	_, err := r.Records([]string{"free text without any record shape"})
	if !errors.Is(err, ErrParse) {
		t.Errorf("expected ErrParse, got %v", err)
	}
}

func TestReassembleAnchorDetection(t *testing.T) {
	r := NewReassembler(testSchema(t), ',')

	tests := []struct {
		name   string
		line   string
		anchor bool
	}{
		{"iso datetime", "2024-01-01 10:00,Information,Source,1,msg", true},
		{"us datetime", "1/2/2024 3:04:05 PM,Information,Source,1,msg", true},
		{"quoted datetime", `"2024-01-01 10:00",Information,Source,1,msg`, true},
		{"short but dated", "2024-01-01 10:00,Information", true},
		{"prose with colon", "Account Name: bob", false},
		{"prose with commas", "a sentence, with commas, and more, of them, here", false},
		{"date inside prose", "logged at 2024-01-01 10:00, retrying", false},
		{"blank", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.isAnchor(tt.line); got != tt.anchor {
				t.Errorf("isAnchor(%q) = %v, want %v", tt.line, got, tt.anchor)
			}
		})
	}
}
