package formatters

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/a3tai/project-alpha/internal/scan"
)

// TextFormatter renders reports for a console
type TextFormatter struct{}

// NewTextFormatter creates a new text formatter
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{}
}

func (f *TextFormatter) Name() string {
	return "text"
}

func (f *TextFormatter) Description() string {
	return "Human-readable console output"
}

type palette struct {
	key    *color.Color
	value  *color.Color
	header *color.Color
}

func newPalette(noColor bool) palette {
	p := palette{
		key:    color.New(color.FgCyan, color.Bold),
		value:  color.New(color.FgGreen),
		header: color.New(color.FgYellow),
	}
	if noColor {
		p.key.DisableColor()
		p.value.DisableColor()
		p.header.DisableColor()
	}
	return p
}

func (f *TextFormatter) Format(report *Report, options Options) (string, error) {
	p := newPalette(options.NoColor)
	var b strings.Builder

	switch report.Kind {
	case KindDates:
		f.formatDates(&b, report, options, p)
	case KindTimes:
		f.writeEncrypted(&b, report, p)
		f.formatTimes(&b, report, p)
	case KindPages:
		if report.Document == nil {
			return "", fmt.Errorf("pages report has no document")
		}
		f.writeEncrypted(&b, report, p)
		f.formatPages(&b, report, p)
	default:
		return "", fmt.Errorf("unknown report kind: %q", report.Kind)
	}

	return strings.TrimRight(b.String(), "\n"), nil
}

func (f *TextFormatter) writeEncrypted(b *strings.Builder, report *Report, p palette) {
	if report.Document == nil {
		return
	}
	fmt.Fprintf(b, "%s %t\n\n", p.header.Sprint("encrypted:"), report.Document.Encrypted)
}

func (f *TextFormatter) formatDates(b *strings.Builder, report *Report, options Options, p palette) {
	if len(report.Pairs) == 0 {
		b.WriteString("No dates found.")
		return
	}

	if options.Pairs {
		for _, pair := range report.Pairs {
			fmt.Fprintf(b, "%s => %s\n", p.key.Sprint(pair.Date.Text), p.value.Sprintf("%q", pair.Description))
		}
		return
	}

	m := scan.NewMapping(report.Pairs)
	for _, k := range m.Keys() {
		v, _ := m.Get(k)
		fmt.Fprintf(b, "%s => %s\n", p.key.Sprint(k), p.value.Sprintf("%q", v))
	}
}

func (f *TextFormatter) formatTimes(b *strings.Builder, report *Report, p palette) {
	if len(report.Times) == 0 {
		b.WriteString("No times found.")
		return
	}

	for _, m := range report.Times {
		fmt.Fprintf(b, "Time %s Found at index %d\n", p.value.Sprint(m.Text), m.Index)
	}
}

func (f *TextFormatter) formatPages(b *strings.Builder, report *Report, p palette) {
	doc := report.Document
	if len(doc.Pages) == 0 {
		fmt.Fprintf(b, "No pages extracted (%d total).", doc.TotalPages)
		return
	}

	for i, page := range doc.Pages {
		b.WriteString(p.header.Sprintf("--- Page %d of %d ---", i+1, doc.TotalPages))
		b.WriteString("\n")
		b.WriteString(page)
		b.WriteString("\n")
	}
}
