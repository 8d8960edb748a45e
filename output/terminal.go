package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"EventLens/core"
)

// Printer renders events as readable blocks on a terminal. It is the
// default emitter when no report file is requested.
type Printer struct {
	out io.Writer

	levelColors map[string]*color.Color
	label       *color.Color
}

// NewPrinter creates a terminal printer writing to out.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{
		out:   out,
		label: color.New(color.Bold),
		levelColors: map[string]*color.Color{
			"critical":             color.New(color.FgRed, color.Bold),
			"error":                color.New(color.FgRed),
			"audit failure":        color.New(color.FgRed),
			"falha da auditoria":   color.New(color.FgRed),
			"warning":              color.New(color.FgYellow),
			"information":          color.New(color.FgBlue),
			"audit success":        color.New(color.FgGreen),
			"sucesso da auditoria": color.New(color.FgGreen),
		},
	}
}

// Print writes the events, one block per event, followed by a count line.
func (p *Printer) Print(events []*core.Event) {
	if len(events) == 0 {
		fmt.Fprintln(p.out, "No events found matching the criteria.")
		return
	}

	fmt.Fprintf(p.out, "Displaying %d event(s):\n\n", len(events))

	rule := strings.Repeat("-", 80)
	for _, e := range events {
		fmt.Fprintln(p.out, rule)
		p.field("Timestamp", e.TimeString())
		p.coloredField("Level", e.Level)
		p.field("Event ID", e.IDString())
		if e.Explanation != "" && e.Explanation != core.ExplanationUnavailable {
			p.field("Meaning", e.Explanation)
		}
		if e.AccountName != "" || e.SecurityID != "" {
			p.field("Account", fmt.Sprintf("%s (SID: %s)", orDash(e.AccountName), orDash(e.SecurityID)))
		}
		if e.ObjectName != "" {
			p.field("File Path", e.ObjectName)
		}
		if e.ProcessName != "" {
			p.field("Process", e.ProcessName)
		}
		p.field("Message", e.Message)
	}
	fmt.Fprintln(p.out, rule)
}

func (p *Printer) field(name, value string) {
	fmt.Fprintf(p.out, "  %s %s\n", p.label.Sprintf("%-10s", name+":"), value)
}

func (p *Printer) coloredField(name, value string) {
	if c, ok := p.levelColors[strings.ToLower(value)]; ok {
		value = c.Sprint(value)
	}
	p.field(name, value)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
