// Package source turns command-line input into the text handed to the scanners.
package source

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"

	"github.com/a3tai/project-alpha/internal/pdf"
)

// File types accepted for a positional document
const (
	FileTypePDF  = "pdf"
	FileTypeTxt  = "txt"
	FileTypeDocx = "docx"
)

// Kind says where the text came from
type Kind string

const (
	KindTextFile Kind = "file"
	KindLiteral  Kind = "text"
	KindDocument Kind = "document"
)

// ErrNoInput is returned when neither a file, a text argument nor a document was given
var ErrNoInput = errors.New("no input: provide a document path, -file or -text")

// Request describes the input options of one run
type Request struct {
	Path     string // positional document
	File     string // -file, plain text
	Text     string // -text, literal
	FileType string // pdf, txt or docx; applies to Path only
	Trim     bool   // trim surrounding whitespace from the loaded text
}

// Text is the loaded source text
type Text struct {
	Kind     Kind
	Path     string
	Body     string
	Document *pdf.Document // set when Body came from a PDF
}

// DocumentReader reads the pages of a PDF document
type DocumentReader interface {
	ReadFile(path string) (*pdf.Document, error)
}

// Load resolves the request into text. A -file argument wins over -text, and both win
// over a positional document; empty values count as absent.
func Load(req Request, reader DocumentReader) (*Text, error) {
	var (
		src *Text
		err error
	)

	switch {
	case req.File != "":
		logrus.WithField("file", req.File).Info("reading from a text file")
		src, err = loadTextFile(req.File, KindTextFile)
	case req.Text != "":
		logrus.Info("reading string of text")
		src = &Text{Kind: KindLiteral, Body: req.Text}
	case req.Path != "":
		src, err = loadDocument(req, reader)
	default:
		return nil, ErrNoInput
	}
	if err != nil {
		return nil, err
	}

	if req.Trim {
		src.Body = strings.TrimSpace(src.Body)
	}

	return src, nil
}

func loadDocument(req Request, reader DocumentReader) (*Text, error) {
	fileType := req.FileType
	if fileType == "" {
		fileType = FileTypePDF
	}

	log := logrus.WithField("path", req.Path)
	switch fileType {
	case FileTypeTxt:
		log.Info("TEXT MODE ENABLED")
		return loadTextFile(req.Path, KindDocument)
	case FileTypeDocx:
		log.Warn("DOCX MODE ENABLED: no docx reader, using PDF extraction")
	case FileTypePDF:
		log.Info("PDF MODE ENABLED")
	default:
		return nil, fmt.Errorf("unsupported file type: %s", fileType)
	}

	if reader == nil {
		return nil, fmt.Errorf("no PDF reader configured for %s", req.Path)
	}

	doc, err := reader.ReadFile(req.Path)
	if err != nil {
		return nil, err
	}

	body, err := doc.FirstPage()
	if err != nil {
		return nil, err
	}

	return &Text{Kind: KindDocument, Path: req.Path, Body: body, Document: doc}, nil
}

// loadTextFile reads a whole file, replacing invalid UTF-8 sequences with U+FFFD
func loadTextFile(path string, kind Kind) (*Text, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read file: %w", err)
	}

	body, _, err := transform.String(runes.ReplaceIllFormed(), string(data))
	if err != nil {
		return nil, fmt.Errorf("cannot decode file %s: %w", path, err)
	}

	return &Text{Kind: kind, Path: path, Body: body}, nil
}
