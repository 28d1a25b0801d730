package biz

import (
	"bytes"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/kart-io/logger"
	"github.com/ledongthuc/pdf"

	"github.com/kart-io/docqa/internal/model"
	"github.com/kart-io/docqa/pkg/errors"
)

// Extractor turns raw uploads into extracted text pages.
type Extractor struct{}

// NewExtractor creates an extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract extracts text from the upload. TXT files yield a single page with
// no page number; PDF files yield one page per physical page, 1-indexed.
// Unsupported extensions and undecodable text are invalid-input errors.
func (e *Extractor) Extract(filename string, content []byte) ([]model.Page, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		return e.extractText(content)
	case ".pdf":
		return e.extractPDF(content)
	default:
		return nil, errors.ErrUnsupportedFileType
	}
}

func (e *Extractor) extractText(content []byte) ([]model.Page, error) {
	if !utf8.Valid(content) {
		return nil, errors.ErrInvalidEncoding
	}

	text := strings.TrimSpace(string(content))
	if text == "" {
		return nil, errors.ErrEmptyDocument
	}

	return []model.Page{{Text: text}}, nil
}

func (e *Extractor) extractPDF(content []byte) ([]model.Page, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, errors.ErrProcessing.WithCause(err)
	}

	var pages []model.Page
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Keep the rest of the document usable when one page is broken.
			logger.Warnw("Skipping unparseable PDF page", "page", i, "error", err)
			continue
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		num := i
		pages = append(pages, model.Page{Number: &num, Text: text})
	}

	if len(pages) == 0 {
		return nil, errors.ErrEmptyDocument
	}

	return pages, nil
}
