package parsers

import (
	"errors"
	"path/filepath"
	"strings"

	"EventLens/core"
)

// Common errors
var (
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrParse indicates the input file could not be interpreted as an
	// event log export at all. It is fatal for the run: no report is
	// produced for a file that fails this way.
	ErrParse = errors.New("failed to parse export file")
)

// Parser defines the interface for all input file parsers
type Parser interface {
	// Parse parses a file and returns the ordered slice of events
	Parse(filePath string) ([]*core.Event, error)

	// CanParse checks if this parser can handle the given file
	CanParse(filePath string) bool
}

// GetParserForFile returns the appropriate parser for the given file
func GetParserForFile(filePath string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filePath))

	switch ext {
	case ".evtx":
		return &EvtxParser{}, nil
	case ".csv", ".txt", ".log":
		return &ExportParser{}, nil
	}

	// Event Viewer saves "comma separated" exports with arbitrary names;
	// treat anything else as the text export dialect.
	return &ExportParser{}, nil
}
