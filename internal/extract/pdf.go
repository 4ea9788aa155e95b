// Package extract provides page-by-page text extraction from PDF knowledge base files.
package extract

import (
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Document is an open PDF read one page at a time. Page contents are never
// held together in memory; callers pull pages as needed and Close when done.
type Document struct {
	file   *os.File
	reader *pdf.Reader
	path   string
}

// OpenPDF opens the PDF at path for page-wise reading.
func OpenPDF(path string) (*Document, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open PDF %s: %w", path, err)
	}
	return &Document{file: f, reader: r, path: path}, nil
}

// NumPages returns the total page count.
func (d *Document) NumPages() int {
	return d.reader.NumPage()
}

// PageText extracts the plain text of page n (1-based), trimmed of surrounding
// whitespace. An empty string means the page carries no extractable text.
func (d *Document) PageText(n int) (string, error) {
	page := d.reader.Page(n)
	if page.V.IsNull() {
		return "", nil
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("extract page %d of %s: %w", n, d.path, err)
	}
	return strings.TrimSpace(text), nil
}

// Close releases the underlying file handle.
func (d *Document) Close() error {
	return d.file.Close()
}
