// Package formatters renders scan reports as JSON, YAML or console text.
package formatters

import (
	"fmt"
	"sort"

	"github.com/a3tai/project-alpha/internal/pdf"
	"github.com/a3tai/project-alpha/internal/scan"
)

// Kind is the type of result a report carries
type Kind string

const (
	KindDates Kind = "dates"
	KindTimes Kind = "times"
	KindPages Kind = "pages"
)

// Report is the outcome of one run
type Report struct {
	Kind     Kind
	Pairs    []scan.DatePair
	Times    []scan.TimeMatch
	Document *pdf.Document // set for PDF input; required for KindPages
}

// Options controls rendering
type Options struct {
	Pretty  bool // indent JSON and YAML by four spaces
	Pairs   bool // render dates as an ordered pair list instead of a mapping
	NoColor bool // disable ANSI colors in text output
}

// Formatter renders a report
type Formatter interface {
	// Name returns the name used to select the formatter (e.g. "json")
	Name() string

	// Description returns a one-line summary for usage output
	Description() string

	// Format renders the report
	Format(report *Report, options Options) (string, error)
}

// Registry holds formatters by name
type Registry struct {
	formatters map[string]Formatter
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		formatters: make(map[string]Formatter),
	}
}

// Register adds a formatter, replacing any formatter with the same name
func (r *Registry) Register(formatter Formatter) {
	r.formatters[formatter.Name()] = formatter
}

// Get retrieves a formatter by name
func (r *Registry) Get(name string) (Formatter, bool) {
	formatter, exists := r.formatters[name]
	return formatter, exists
}

// Names returns the registered formatter names, sorted
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.formatters))
	for name := range r.formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var defaultRegistry = NewRegistry()

func init() {
	defaultRegistry.Register(NewJSONFormatter())
	defaultRegistry.Register(NewYAMLFormatter())
	defaultRegistry.Register(NewTextFormatter())
}

// Get retrieves a formatter from the default registry
func Get(name string) (Formatter, error) {
	formatter, ok := defaultRegistry.Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown output format: %s (available: %v)", name, defaultRegistry.Names())
	}
	return formatter, nil
}

// Names lists the formats of the default registry
func Names() []string {
	return defaultRegistry.Names()
}

// payload converts the report into the value that structured formats serialise
func payload(report *Report, options Options) (interface{}, error) {
	switch report.Kind {
	case KindDates:
		if options.Pairs {
			out := make([][2]string, 0, len(report.Pairs))
			for _, p := range report.Pairs {
				out = append(out, [2]string{p.Date.Text, p.Description})
			}
			return out, nil
		}
		return scan.NewMapping(report.Pairs), nil

	case KindTimes:
		if report.Times == nil {
			return []scan.TimeMatch{}, nil
		}
		return report.Times, nil

	case KindPages:
		if report.Document == nil {
			return nil, fmt.Errorf("pages report has no document")
		}
		return report.Document, nil
	}

	return nil, fmt.Errorf("unknown report kind: %q", report.Kind)
}
