package output

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"EventLens/core"
)

// HTMLWriter implements the Writer interface for the interactive HTML
// report: a self-contained document with expandable rows and dark-mode
// styling keyed to the OS preference.
type HTMLWriter struct {
	path   string
	events []*core.Event
}

// NewHTMLWriter creates an HTML report writer targeting the given path.
func NewHTMLWriter(outputPath string) *HTMLWriter {
	return &HTMLWriter{path: outputPath}
}

// Write collects the events for rendering.
func (w *HTMLWriter) Write(events []*core.Event) error {
	w.events = append(w.events, events...)
	return nil
}

// Close renders the full document in memory and writes it in one shot.
func (w *HTMLWriter) Close() error {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, w.templateData()); err != nil {
		return fmt.Errorf("failed to render HTML report: %w", err)
	}
	return writeAtomic(w.path, buf.Bytes())
}

type htmlRow struct {
	Index       int
	Timestamp   string
	Level       string
	LevelClass  string
	EventID     string
	Explanation string
	Message     string
	AccountName string
	SecurityID  string
	ProcessName string
	ObjectName  string
}

type htmlReport struct {
	Generated string
	Rows      []htmlRow
}

func (w *HTMLWriter) templateData() htmlReport {
	report := htmlReport{
		Generated: time.Now().Format("2006-01-02 15:04:05"),
		Rows:      make([]htmlRow, 0, len(w.events)),
	}

	for i, e := range w.events {
		report.Rows = append(report.Rows, htmlRow{
			Index:       i,
			Timestamp:   e.TimeString(),
			Level:       e.Level,
			LevelClass:  levelClass(e.Level),
			EventID:     e.IDString(),
			Explanation: e.Explanation,
			Message:     e.Message,
			AccountName: e.AccountName,
			SecurityID:  e.SecurityID,
			ProcessName: e.ProcessName,
			ObjectName:  e.ObjectName,
		})
	}

	return report
}

// levelClass maps an event level to its CSS class. Unknown levels get no
// class and render unstyled.
func levelClass(level string) string {
	switch strings.ToLower(level) {
	case "critical", "error":
		return "level-critical"
	case "warning":
		return "level-warning"
	case "information":
		return "level-information"
	case "audit failure", "falha da auditoria":
		return "level-critical"
	case "audit success", "sucesso da auditoria", "verbose", "logalways":
		return "level-muted"
	}
	return ""
}

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Event Log Report</title>
<style>
:root {
  --bg-color: #f4f7f9; --text-color: #333; --container-bg: #fff;
  --header-bg: #2c3e50; --header-color: #fff; --border-color: #ddd;
  --row-alt-bg: #f2f2f2; --row-hover-bg: #e8f4fd; --row-active-bg: #d1e9fc;
  --details-bg: #fafafa; --details-text: #555; --shadow-color: rgba(0,0,0,0.1);
}
@media (prefers-color-scheme: dark) {
  :root {
    --bg-color: #1a1a1a; --text-color: #e0e0e0; --container-bg: #2c2c2c;
    --header-bg: #1f2937; --header-color: #fff; --border-color: #444;
    --row-alt-bg: #333; --row-hover-bg: #3a4149; --row-active-bg: #4a5159;
    --details-bg: #222; --details-text: #ccc; --shadow-color: rgba(0,0,0,0.4);
  }
}
body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif; margin: 0; background-color: var(--bg-color); color: var(--text-color); }
.container { max-width: 1400px; margin: 20px auto; padding: 20px; background-color: var(--container-bg); box-shadow: 0 2px 10px var(--shadow-color); border-radius: 8px; }
h1 { border-bottom: 2px solid var(--border-color); padding-bottom: 10px; }
#search { width: 100%; box-sizing: border-box; padding: 10px; margin-top: 10px; border: 1px solid var(--border-color); border-radius: 4px; background-color: var(--details-bg); color: var(--text-color); }
table { width: 100%; border-collapse: collapse; margin-top: 20px; }
th, td { padding: 12px 15px; text-align: left; border-bottom: 1px solid var(--border-color); }
th { background-color: var(--header-bg); color: var(--header-color); }
.summary-row { cursor: pointer; }
.summary-row:nth-child(4n+1) { background-color: var(--row-alt-bg); }
.summary-row:hover { background-color: var(--row-hover-bg); }
.summary-row.active { background-color: var(--row-active-bg); }
.details-row { display: none; }
.details-cell { background-color: var(--details-bg); padding: 20px; }
.details-cell pre { white-space: pre-wrap; word-wrap: break-word; font-family: 'Consolas', 'Monaco', monospace; font-size: 0.9em; color: var(--details-text); }
.level { font-weight: bold; }
.level-critical { color: #e74c3c; }
.level-warning { color: #f39c12; }
.level-information { color: #3498db; }
.level-muted { color: #7f8c8d; }
.details, .explanation { word-break: break-word; font-size: 0.9em; }
</style>
<script>
function toggleDetails(index) {
  var detailsRow = document.getElementById('details-' + index);
  var summaryRow = document.getElementById('summary-' + index);
  if (detailsRow.style.display === 'table-row') {
    detailsRow.style.display = 'none';
    summaryRow.classList.remove('active');
  } else {
    detailsRow.style.display = 'table-row';
    summaryRow.classList.add('active');
  }
}
function filterRows() {
  var term = document.getElementById('search').value.toLowerCase();
  var rows = document.querySelectorAll('.summary-row');
  rows.forEach(function (row) {
    var details = document.getElementById(row.id.replace('summary', 'details'));
    var text = row.textContent.toLowerCase() + ' ' + details.textContent.toLowerCase();
    var show = term === '' || text.indexOf(term) !== -1;
    row.style.display = show ? '' : 'none';
    if (!show) {
      details.style.display = 'none';
      row.classList.remove('active');
    }
  });
}
</script>
</head>
<body>
<div class="container">
<h1>Event Log Report</h1>
<p>Generated on: {{.Generated}}. Click on a row to see the full event message.</p>
<input id="search" type="text" placeholder="Filter events..." oninput="filterRows()">
<table>
<thead><tr><th>Timestamp</th><th>Level</th><th>Event ID</th><th>Details</th><th class="explanation">Explanation</th></tr></thead>
<tbody>
{{range .Rows}}<tr id="summary-{{.Index}}" class="summary-row" onclick="toggleDetails({{.Index}})">
<td>{{.Timestamp}}</td>
<td><span class="level {{.LevelClass}}">{{.Level}}</span></td>
<td>{{.EventID}}</td>
<td class="details">{{if .AccountName}}<strong>Account:</strong> {{.AccountName}}<br>{{end}}{{if .SecurityID}}<strong>SID:</strong> {{.SecurityID}}<br>{{end}}{{if .ProcessName}}<strong>Process:</strong> {{.ProcessName}}<br>{{end}}{{if .ObjectName}}<strong>File:</strong> {{.ObjectName}}{{end}}</td>
<td class="explanation">{{.Explanation}}</td>
</tr>
<tr id="details-{{.Index}}" class="details-row">
<td colspan="5" class="details-cell"><pre><strong>Full Message:</strong>
{{.Message}}</pre></td>
</tr>
{{end}}</tbody>
</table>
</div>
</body>
</html>
`))
