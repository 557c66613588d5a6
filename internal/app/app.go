// Package app runs a single command-line scan.
package app

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/a3tai/project-alpha/internal/config"
	"github.com/a3tai/project-alpha/internal/formatters"
	"github.com/a3tai/project-alpha/internal/pdf"
	"github.com/a3tai/project-alpha/internal/scan"
	"github.com/a3tai/project-alpha/internal/source"
)

// ErrPagesNeedDocument is returned when a page listing is asked for text input
var ErrPagesNeedDocument = errors.New("scan=pages needs a PDF document argument")

// NewDocumentReader builds the PDF reader for cfg
func NewDocumentReader(cfg *config.Config) *pdf.Reader {
	policy := pdf.SkipLastPage
	if cfg.IncludeLastPage {
		policy = pdf.AllPages
	}
	return pdf.NewReader(cfg.MaxFileSize, policy)
}

// Run loads the configured input, scans it and writes the rendered report to w
func Run(cfg *config.Config, w io.Writer) error {
	return RunWith(cfg, w, NewDocumentReader(cfg))
}

// RunWith is Run with an explicit document reader
func RunWith(cfg *config.Config, w io.Writer, reader source.DocumentReader) error {
	req := source.Request{
		Path:     cfg.InputPath,
		File:     cfg.File,
		Text:     cfg.Text,
		FileType: cfg.FileType,
		Trim:     cfg.Trim,
	}

	scanKind := ResolveScan(cfg.Scan, req)

	report, err := buildReport(scanKind, req, reader)
	if err != nil {
		return err
	}

	formatName := ResolveFormat(cfg.Format, report.Kind)
	formatter, err := formatters.Get(formatName)
	if err != nil {
		return err
	}

	options := formatters.Options{
		Pretty:  cfg.Pretty,
		Pairs:   cfg.Pairs,
		NoColor: cfg.NoColor || !isTerminal(w),
	}

	out, err := formatter.Format(report, options)
	if err != nil {
		return fmt.Errorf("failed to format %s report: %w", report.Kind, err)
	}

	logrus.WithFields(logrus.Fields{
		"scan":   report.Kind,
		"format": formatName,
	}).Debug("writing report")

	_, err = fmt.Fprintln(w, out)
	return err
}

// ResolveScan maps "auto" to times for a positional document and dates for -file or -text
func ResolveScan(scanKind string, req source.Request) formatters.Kind {
	if scanKind != config.ScanAuto && scanKind != "" {
		return formatters.Kind(scanKind)
	}
	if req.File == "" && req.Text == "" && req.Path != "" {
		return formatters.KindTimes
	}
	return formatters.KindDates
}

// ResolveFormat maps "auto" to JSON for dates and text otherwise
func ResolveFormat(format string, kind formatters.Kind) string {
	if format != config.FormatAuto && format != "" {
		return format
	}
	if kind == formatters.KindDates {
		return config.FormatJSON
	}
	return config.FormatText
}

func buildReport(kind formatters.Kind, req source.Request, reader source.DocumentReader) (*formatters.Report, error) {
	if kind == formatters.KindPages {
		return buildPagesReport(req, reader)
	}

	src, err := source.Load(req, reader)
	if err != nil {
		return nil, err
	}

	report := &formatters.Report{Kind: kind, Document: src.Document}
	switch kind {
	case formatters.KindDates:
		report.Pairs = scan.SegmentDates(src.Body)
		logrus.WithField("count", len(report.Pairs)).Debug("segmented dates")
	case formatters.KindTimes:
		report.Times = scan.CollectTimes(src.Body)
		logrus.WithField("count", len(report.Times)).Debug("scanned times")
	default:
		return nil, fmt.Errorf("unknown scan: %s", kind)
	}
	return report, nil
}

func buildPagesReport(req source.Request, reader source.DocumentReader) (*formatters.Report, error) {
	if req.Path == "" || req.FileType == source.FileTypeTxt {
		return nil, ErrPagesNeedDocument
	}
	if reader == nil {
		return nil, fmt.Errorf("no PDF reader configured for %s", req.Path)
	}

	doc, err := reader.ReadFile(req.Path)
	if err != nil {
		return nil, err
	}
	return &formatters.Report{Kind: formatters.KindPages, Document: doc}, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
