package pdf

import (
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/sirupsen/logrus"
)

// Reader extracts per-page text from PDF files
type Reader struct {
	validator *Validator
	policy    PagePolicy
}

// NewReader creates a new PDF reader with the specified size limit and page policy
func NewReader(maxFileSize int64, policy PagePolicy) *Reader {
	return &Reader{
		validator: NewValidator(maxFileSize),
		policy:    policy,
	}
}

// Policy returns the page policy used by ReadFile
func (r *Reader) Policy() PagePolicy {
	return r.policy
}

// ReadFile extracts the text of a PDF file page by page.
//
// The encrypted flag is informational: encrypted files are read like any other and
// usually fail to open or produce empty text.
func (r *Reader) ReadFile(path string) (*Document, error) {
	if _, err := r.validator.ValidateFile(path); err != nil {
		return nil, &ExtractionError{Op: "validate", Path: path, Err: err}
	}

	log := logrus.WithField("path", path)
	info, inspectErr := inspect(path)
	if inspectErr != nil {
		log.WithError(inspectErr).Debug("pdfcpu inspection failed, falling back to trailer inspection")
	}

	f, pdfReader, err := pdf.Open(path)
	if err != nil {
		return nil, &ExtractionError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	doc := &Document{
		Path:       path,
		TotalPages: pdfReader.NumPage(),
		Pages:      []string{},
	}
	if info != nil {
		doc.Version = info.version
	}
	doc.Encrypted = encryptedFlag(info, pdfReader.Trailer())

	log.WithFields(logrus.Fields{
		"encrypted": doc.Encrypted,
		"pages":     doc.TotalPages,
		"policy":    r.policy.String(),
	}).Info("opened PDF")

	limit := r.policy.Limit(doc.TotalPages)
	for pageNum := 1; pageNum <= limit; pageNum++ {
		page := pdfReader.Page(pageNum)
		if page.V.IsNull() {
			doc.Pages = append(doc.Pages, "")
			continue
		}

		content, err := pageText(page)
		if err != nil {
			return nil, &ExtractionError{Op: "extract_text", Path: path, Page: pageNum, Err: err}
		}

		doc.Pages = append(doc.Pages, ToASCII(content))
	}

	return doc, nil
}

// pageText extracts the plain text of one page, turning a parser panic into an error
func pageText(page pdf.Page) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("text extraction panicked: %v", rec)
		}
	}()

	return page.GetPlainText(nil)
}

// encryptedFlag prefers the pdfcpu inspection and falls back to the trailer's Encrypt entry
func encryptedFlag(info *docInfo, trailer pdf.Value) bool {
	if info != nil {
		return info.encrypted
	}
	return !trailer.Key("Encrypt").IsNull()
}

type docInfo struct {
	version   string
	encrypted bool
}

// inspect reads the document structure with pdfcpu to learn its header version and
// whether it carries an encryption dictionary
func inspect(path string) (info *docInfo, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			info, err = nil, fmt.Errorf("pdfcpu inspection panicked: %v", rec)
		}
	}()

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(file, conf)
	if err != nil {
		return nil, err
	}

	return &docInfo{
		version:   ctx.HeaderVersion.String(),
		encrypted: ctx.Encrypt != nil,
	}, nil
}
