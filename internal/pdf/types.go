package pdf

// Document is the text extracted from a PDF file, one entry per extracted page
type Document struct {
	Path       string   `json:"path" yaml:"path"`
	Version    string   `json:"version,omitempty" yaml:"version,omitempty"`
	Encrypted  bool     `json:"encrypted" yaml:"encrypted"`
	TotalPages int      `json:"total_pages" yaml:"total_pages"`
	Pages      []string `json:"pages" yaml:"pages"`
}

// FirstPage returns the text of the first extracted page
func (d *Document) FirstPage() (string, error) {
	if len(d.Pages) == 0 {
		return "", &ExtractionError{Op: "first_page", Path: d.Path, Err: ErrNoPages}
	}
	return d.Pages[0], nil
}

// PagePolicy decides how many pages of a document are extracted
type PagePolicy int

const (
	// SkipLastPage extracts pages 1 through total-1. A single-page document yields nothing.
	SkipLastPage PagePolicy = iota
	// AllPages extracts every page
	AllPages
)

// Limit returns the last page number to extract for a document with total pages
func (p PagePolicy) Limit(total int) int {
	if p == AllPages {
		return total
	}
	if total < 1 {
		return 0
	}
	return total - 1
}

// String returns the policy name
func (p PagePolicy) String() string {
	if p == AllPages {
		return "all_pages"
	}
	return "skip_last_page"
}
