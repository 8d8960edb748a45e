package parsers

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"EventLens/core"
	"EventLens/internal/logger"
)

// ExportParser implements the Parser interface for the text export dialect
// Event Viewer produces via "Save selected events as CSV".
type ExportParser struct {
	// ShortRecords counts records that were kept with missing-field
	// markers during the last Parse call.
	ShortRecords int
}

// CanParse checks if this parser can handle the given file
func (p *ExportParser) CanParse(filePath string) bool {
	ext := strings.ToLower(filepath.Ext(filePath))
	return ext == ".csv" || ext == ".txt" || ext == ".log"
}

// Parse reads the whole export file, reassembles logical records, and maps
// them into events. The input is bounded and fully buffered; a file whose
// first data line cannot be anchored fails the run with ErrParse.
func (p *ExportParser) Parse(filePath string) ([]*core.Event, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open export file: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read export file: %w", err)
	}
	content = stripBOM(content)

	events, err := p.parseContent(content)
	if err != nil {
		return nil, err
	}

	logger.Info("Parsed export file: %s (found %d events)", filePath, len(events))
	return events, nil
}

func (p *ExportParser) parseContent(content []byte) ([]*core.Event, error) {
	p.ShortRecords = 0

	headerLine, rest, found := cutLine(content)
	if !found && len(headerLine) == 0 {
		return nil, fmt.Errorf("%w: file is empty", ErrParse)
	}

	delim := detectDelimiter(content)

	headerFields, _, _ := splitRecord(headerLine, delim, 64)
	for i := range headerFields {
		headerFields[i] = unquoteField(headerFields[i])
	}
	schema, err := ReadSchema(headerFields)
	if err != nil {
		return nil, err
	}

	lines := splitLines(rest)

	reassembler := NewReassembler(schema, delim)
	records, err := reassembler.Records(lines)
	if err != nil {
		return nil, err
	}

	mapper := NewMapper(schema, delim)
	events := make([]*core.Event, 0, len(records))
	for _, record := range records {
		event, short := mapper.Map(record)
		if short {
			p.ShortRecords++
		}
		events = append(events, event)
	}

	return events, nil
}

// cutLine splits content at the first line break, returning the first line
// without its terminator.
func cutLine(content []byte) (line string, rest []byte, found bool) {
	idx := bytes.IndexByte(content, '\n')
	if idx < 0 {
		return string(bytes.TrimSuffix(content, []byte("\r"))), nil, false
	}
	first := bytes.TrimSuffix(content[:idx], []byte("\r"))
	return string(first), content[idx+1:], true
}

// splitLines splits content into physical lines, tolerating both LF and
// CRLF endings. A trailing newline does not produce a final empty line.
func splitLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}

	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(content))
	// Increase buffer to 1MB to handle long message lines
	const maxScannerBuffer = 1024 * 1024
	scanner.Buffer(make([]byte, maxScannerBuffer), maxScannerBuffer)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines
}

// stripBOM removes a UTF-8 BOM from the beginning of content
func stripBOM(content []byte) []byte {
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:]
	}
	return content
}

// detectDelimiter auto-detects whether the export uses comma or semicolon,
// which varies with the machine locale.
func detectDelimiter(content []byte) rune {
	reader := bufio.NewReader(bytes.NewReader(content))
	firstLine, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return ','
	}

	commaCount := strings.Count(firstLine, ",")
	semicolonCount := strings.Count(firstLine, ";")

	if semicolonCount > commaCount {
		return ';'
	}
	return ','
}
