package citations

import (
	"fmt"
	"strings"

	"github.com/ayatough/zotero-typst-exporter/models"
)

// GenerateBibTeXEntry creates a BibTeX entry from item metadata, ready for
// inclusion in a .bib file.
func GenerateBibTeXEntry(metadata *models.ItemMetadata, citekey string) string {
	if citekey == "" {
		citekey = "unknown"
	}
	entryType := mapItemTypeToBibTeX(metadata.ItemType)

	var b strings.Builder
	b.WriteString(fmt.Sprintf("@%s{%s,\n", entryType, citekey))

	writeField := func(name, value string) {
		if value != "" {
			b.WriteString(fmt.Sprintf("  %s = {%s},\n", name, value))
		}
	}

	writeField("title", escapeBibTeX(metadata.Title))
	if len(metadata.Authors) > 0 {
		writeField("author", formatBibTeXAuthors(metadata.Authors))
	}
	if metadata.Publication != "" {
		writeField(publicationFieldName(entryType), escapeBibTeX(metadata.Publication))
	}
	writeField("year", extractYear(metadata.PublicationDate))
	writeField("volume", metadata.Volume)
	writeField("number", metadata.Issue)
	if metadata.Pages != "" {
		writeField("pages", formatBibTeXPages(metadata.Pages))
	}
	writeField("publisher", escapeBibTeX(metadata.Publisher))
	writeField("doi", metadata.DOI)
	writeField("issn", metadata.ISSN)
	writeField("isbn", metadata.ISBN)
	writeField("url", metadata.URL)
	writeField("abstract", escapeBibTeX(metadata.Abstract))

	entry := strings.TrimSuffix(b.String(), ",\n")
	return entry + "\n}\n"
}

// GenerateBibTeXFile assembles multiple entries into one .bib file.
func GenerateBibTeXFile(entries []string) string {
	var b strings.Builder
	b.WriteString("% BibTeX bibliography file\n")
	b.WriteString("% Generated by zotero-typst-exporter\n\n")
	for i, entry := range entries {
		b.WriteString(entry)
		if i < len(entries)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// mapItemTypeToBibTeX maps Zotero item types to BibTeX entry types.
func mapItemTypeToBibTeX(itemType string) string {
	switch strings.ToLower(itemType) {
	case "article", "journalarticle":
		return "article"
	case "book":
		return "book"
	case "inbook", "bookchapter", "booksection":
		return "inbook"
	case "incollection":
		return "incollection"
	case "inproceedings", "conferencepaper":
		return "inproceedings"
	case "mastersthesis":
		return "mastersthesis"
	case "phdthesis", "thesis", "dissertation":
		return "phdthesis"
	case "techreport", "report":
		return "techreport"
	case "unpublished", "manuscript":
		return "unpublished"
	case "proceedings":
		return "proceedings"
	default:
		return "misc"
	}
}

// publicationFieldName returns the BibTeX field holding the venue for the
// given entry type.
func publicationFieldName(entryType string) string {
	switch entryType {
	case "inproceedings", "inbook", "incollection":
		return "booktitle"
	default:
		return "journal"
	}
}

// formatBibTeXAuthors joins authors with " and ", converting "First Last"
// to "Last, First" where needed.
func formatBibTeXAuthors(authors []string) string {
	var formatted []string
	for _, author := range authors {
		if strings.Contains(author, ",") {
			formatted = append(formatted, strings.TrimSpace(author))
			continue
		}
		parts := strings.Fields(author)
		switch {
		case len(parts) >= 2:
			last := parts[len(parts)-1]
			first := strings.Join(parts[:len(parts)-1], " ")
			formatted = append(formatted, fmt.Sprintf("%s, %s", last, first))
		case len(parts) == 1:
			formatted = append(formatted, parts[0])
		}
	}
	return strings.Join(formatted, " and ")
}

// formatBibTeXPages converts single-dash page ranges to BibTeX double
// dashes without touching ranges that already use them.
func formatBibTeXPages(pages string) string {
	pages = strings.ReplaceAll(pages, "--", "\x00")
	pages = strings.ReplaceAll(pages, "-", "--")
	return strings.ReplaceAll(pages, "\x00", "--")
}

// escapeBibTeX escapes LaTeX-special characters in free-text fields.
func escapeBibTeX(text string) string {
	text = strings.ReplaceAll(text, "\\", "\\textbackslash{}")
	text = strings.ReplaceAll(text, "%", "\\%")
	text = strings.ReplaceAll(text, "&", "\\&")
	text = strings.ReplaceAll(text, "_", "\\_")
	text = strings.ReplaceAll(text, "$", "\\$")
	text = strings.ReplaceAll(text, "#", "\\#")
	return text
}
