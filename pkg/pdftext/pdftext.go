// Package pdftext extracts plain text from PDF pages.
// The PDF library is hidden behind Extractor so callers depend only on
// page enumeration and per-page text, and so malformed input surfaces
// as an error rather than a panic.
package pdftext

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/ledongthuc/pdf"
)

var (
	// ErrEmpty indicates no bytes were provided.
	ErrEmpty = errors.New("empty pdf data")
	// ErrParse indicates the data could not be decoded as a PDF document.
	ErrParse = errors.New("parse pdf")
	// ErrPageRange indicates a page number outside 1..NumPages.
	ErrPageRange = errors.New("page out of range")
)

// Extractor opens PDF documents for text extraction.
type Extractor interface {
	Open(data []byte) (Document, error)
}

// Document is an opened PDF document.
type Document interface {
	// NumPages returns the page count declared by the document.
	NumPages() int
	// PageText returns the plain text of page n (1-indexed).
	PageText(ctx context.Context, n int) (string, error)
}

type extractor struct{}

// New returns an Extractor backed by github.com/ledongthuc/pdf.
func New() Extractor {
	return extractor{}
}

func (extractor) Open(data []byte) (doc Document, err error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}

	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = fmt.Errorf("%w: %v", ErrParse, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	return &document{reader: reader, pages: reader.NumPage()}, nil
}

type document struct {
	reader *pdf.Reader
	pages  int
}

func (d *document) NumPages() int {
	return d.pages
}

func (d *document) PageText(ctx context.Context, n int) (text string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if n < 1 || n > d.pages {
		return "", fmt.Errorf("%w: %d of %d", ErrPageRange, n, d.pages)
	}

	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%w: page %d: %v", ErrParse, n, r)
		}
	}()

	page := d.reader.Page(n)
	if page.V.IsNull() {
		return "", nil
	}

	text, err = page.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("%w: page %d: %w", ErrParse, n, err)
	}
	return text, nil
}
