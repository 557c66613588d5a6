package pdf

import (
	"errors"
	"fmt"
)

var (
	ErrNoPages      = errors.New("no pages extracted")
	ErrFileEmpty    = errors.New("file is empty")
	ErrFileTooLarge = errors.New("file too large")
	ErrIsDirectory  = errors.New("path is a directory, not a file")
)

// ExtractionError records which step of PDF extraction failed and for which file
type ExtractionError struct {
	Op   string
	Path string
	Page int // 0 when the failure is not tied to a page
	Err  error
}

func (e *ExtractionError) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("pdf %s failed for %s (page %d): %v", e.Op, e.Path, e.Page, e.Err)
	}
	return fmt.Sprintf("pdf %s failed for %s: %v", e.Op, e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
