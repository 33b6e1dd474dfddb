// Package extract turns an opened document into the bounded plain text used
// as grounding context for every model call.
package extract

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/thywilljoshua/pdf-reader/internal/logger"
)

const (
	// MaxPages is the number of leading pages read.
	MaxPages = 40
	// MaxChars caps the extracted text, counted in characters. The cut is
	// not sentence-aware and may split a word.
	MaxChars = 28000
)

// PageSource is the part of the document renderer the extractor consumes.
type PageSource interface {
	PageCount() int
	PageText(n int) ([]string, error)
}

// Document is the extracted text of one loaded document.
type Document struct {
	Name      string
	Text      string
	PageCount int
}

type ExtractionError struct {
	Reason string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extract: %s: %v", e.Reason, e.Err)
	}
	return "extract: " + e.Reason
}

func (e *ExtractionError) Unwrap() error { return e.Err }

type Extractor struct {
	log *logger.Logger
}

func New(log *logger.Logger) *Extractor {
	return &Extractor{log: logger.OrNop(log)}
}

// Extract reads pages 1..min(PageCount, MaxPages) in order. Each page's items
// are joined with single spaces and terminated by a newline; the whole text is
// trimmed and cut to MaxChars. Unreadable pages are skipped; if none can be
// read the call fails with *ExtractionError.
func (x *Extractor) Extract(ctx context.Context, name string, src PageSource) (Document, error) {
	total := src.PageCount()
	if total <= 0 {
		return Document{}, &ExtractionError{Reason: "document has no pages"}
	}
	limit := min(total, MaxPages)

	var b strings.Builder
	read := 0
	var firstErr error
	for n := 1; n <= limit; n++ {
		if err := ctx.Err(); err != nil {
			return Document{}, &ExtractionError{Reason: "cancelled", Err: err}
		}
		items, err := src.PageText(n)
		if err != nil {
			x.log.Warn("skipping unreadable page", "document", name, "page", n, "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		read++
		b.WriteString(strings.Join(items, " "))
		b.WriteByte('\n')
	}
	if read == 0 {
		return Document{}, &ExtractionError{Reason: "no pages could be read", Err: firstErr}
	}

	text, truncated := truncate(strings.TrimSpace(b.String()), MaxChars)
	x.log.Info("document extracted",
		"document", name,
		"pages_total", total,
		"pages_read", read,
		"chars", utf8.RuneCountInString(text),
		"truncated", truncated,
	)
	return Document{Name: name, Text: text, PageCount: total}, nil
}

func truncate(s string, n int) (string, bool) {
	count := 0
	for i := range s {
		if count == n {
			return s[:i], true
		}
		count++
	}
	return s, false
}
