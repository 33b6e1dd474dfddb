package pdfdoc

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	rpdf "rsc.io/pdf"
)

// ErrOpen is returned when the bytes are not a readable PDF.
var ErrOpen = errors.New("cannot open PDF")

// Document is an opened PDF. It exposes page count and per-page text items;
// rendering is left to viewers.
type Document struct {
	r *rpdf.Reader
}

func Open(data []byte) (doc *Document, err error) {
	// rsc.io/pdf panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("%w: %v", ErrOpen, r)
		}
	}()
	r, err := rpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpen, err)
	}
	return &Document{r: r}, nil
}

func OpenFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Open(data)
}

func (d *Document) PageCount() (n int) {
	defer func() {
		if recover() != nil {
			n = 0
		}
	}()
	return d.r.NumPage()
}

// PageText returns the text items of page n (1-based) in content order.
func (d *Document) PageText(n int) (items []string, err error) {
	if n < 1 || n > d.PageCount() {
		return nil, fmt.Errorf("page %d out of range", n)
	}
	defer func() {
		if r := recover(); r != nil {
			items, err = nil, fmt.Errorf("page %d: malformed content: %v", n, r)
		}
	}()
	p := d.r.Page(n)
	if p.V.IsNull() {
		return nil, fmt.Errorf("page %d: missing page object", n)
	}
	content := p.Content()
	glyphs := make([]glyph, 0, len(content.Text))
	for _, t := range content.Text {
		glyphs = append(glyphs, glyph{s: t.S, x: t.X, y: t.Y, w: t.W, size: t.FontSize})
	}
	return groupGlyphs(glyphs), nil
}
