// Package export writes a QuestionSet as an MDX study sheet.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/thywilljoshua/pdf-reader/internal/session"
)

// RenderStudySheet renders front matter followed by one accordion per
// question, numbered as in the reading assistant.
func RenderStudySheet(title string, qs session.QuestionSet) string {
	var b strings.Builder
	fmt.Fprintf(&b, "---\ntitle: \"%s\"\ndescription: \"%d exam questions\"\n---\n\n", escapeQuotes(title), len(qs))
	b.WriteString("# ")
	b.WriteString(escapeMDX(title))
	b.WriteString("\n\n")

	if len(qs) == 0 {
		b.WriteString("No questions were generated.\n")
		return b.String()
	}

	b.WriteString("<AccordionGroup>\n")
	for i, q := range qs {
		label := fmt.Sprintf("Q%d: %s", i+1, strings.TrimSpace(q.Question))
		fmt.Fprintf(&b, "  <Accordion title=\"%s\">\n", escapeAttr(label))
		for _, para := range paragraphs(q.Answer) {
			b.WriteString("    ")
			b.WriteString(escapeMDX(para))
			b.WriteString("\n\n")
		}
		b.WriteString("  </Accordion>\n")
	}
	b.WriteString("</AccordionGroup>\n")
	return b.String()
}

// WriteStudySheet writes <slug>.mdx into outDir and registers it in the
// directory's docs.json, creating both as needed. It returns the page path.
func WriteStudySheet(outDir, title string, qs session.QuestionSet) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", err
	}
	slug := slugify(title)
	if slug == "" {
		slug = "study-sheet"
	}
	file := filepath.Join(outDir, slug+".mdx")
	if err := os.WriteFile(file, []byte(RenderStudySheet(title, qs)), 0o644); err != nil {
		return "", err
	}
	if err := addToDocsJSON(filepath.Join(outDir, "docs.json"), slug); err != nil {
		return "", fmt.Errorf("update docs.json: %w", err)
	}
	return file, nil
}

func paragraphs(s string) []string {
	var out []string
	for _, p := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		out = []string{"_No answer provided._"}
	}
	return out
}

var mdxEscaper = strings.NewReplacer("<", "&lt;", "{", "&#123;", "}", "&#125;")

// escapeMDX keeps model text from being parsed as JSX.
func escapeMDX(s string) string { return mdxEscaper.Replace(s) }

var attrEscaper = strings.NewReplacer("&", "&amp;", "\"", "&quot;", "<", "&lt;", "{", "&#123;", "}", "&#125;")

func escapeAttr(s string) string { return attrEscaper.Replace(s) }

func escapeQuotes(s string) string { return strings.ReplaceAll(s, "\"", "\\\"") }
