// Package typst serializes extracted papers into a Typst source file
// holding a single `#let papers = (...)` binding.
package typst

import (
	"fmt"
	"io"
	"strings"

	"github.com/ayatough/zotero-typst-exporter/models"
)

// Escape makes a string safe inside a Typst string literal. Backslashes
// are doubled before quotes are escaped; the other order would re-escape
// the backslashes introduced for the quotes.
func Escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return s
}

// Unescape inverts Escape.
func Unescape(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// Write emits the papers as a Typst dictionary in insertion order.
func Write(w io.Writer, papers *models.PaperSet) error {
	var b strings.Builder
	b.WriteString("#let papers = (\n")
	for _, key := range papers.Keys() {
		paper, _ := papers.Get(key)
		writePaper(&b, key, paper)
	}
	b.WriteString(")\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func writePaper(b *strings.Builder, key string, paper models.Paper) {
	fmt.Fprintf(b, "  %s: (\n", key)
	fmt.Fprintf(b, "    title: %s,\n", quote(paper.Title))
	fmt.Fprintf(b, "    authors: (%s),\n", quotedList(paper.Authors))
	// year is always emitted, even when empty; month only when known.
	fmt.Fprintf(b, "    year: %s,\n", quote(paper.Year))
	if paper.Month != "" {
		fmt.Fprintf(b, "    month: %s,\n", quote(paper.Month))
	}

	b.WriteString("    annotations: (\n")
	for _, anno := range paper.Annotations {
		writeAnnotation(b, anno)
	}
	b.WriteString("    ),\n")
	b.WriteString("  ),\n")
}

func writeAnnotation(b *strings.Builder, anno models.Annotation) {
	b.WriteString("      (\n")
	fmt.Fprintf(b, "        type: %s,\n", quote(string(anno.Type)))
	fmt.Fprintf(b, "        text: %s,\n", quote(anno.Text))
	fmt.Fprintf(b, "        comment: %s,\n", quote(anno.Comment))
	fmt.Fprintf(b, "        tags: (%s),\n", tagList(anno.Tags))
	fmt.Fprintf(b, "        page: %d,\n", anno.Page)
	if anno.Image != "" {
		fmt.Fprintf(b, "        image: %s,\n", quote(anno.Image))
	}
	b.WriteString("      ),\n")
}

func quote(s string) string {
	return `"` + Escape(s) + `"`
}

func quotedList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = quote(v)
	}
	return strings.Join(quoted, ", ")
}

// tagList renders a Typst array literal body for tags. A single-element
// array needs a trailing comma, otherwise Typst reads the parentheses as
// grouping rather than a one-element array.
func tagList(tags []string) string {
	s := quotedList(tags)
	if len(tags) == 1 {
		s += ","
	}
	return s
}
