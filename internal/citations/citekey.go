// Package citations generates citation keys and BibTeX entries from item
// metadata.
package citations

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/ayatough/zotero-typst-exporter/models"
)

var yearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// GenerateCitekey creates a pandoc-style citekey from metadata.
// Format: author(s)Year (e.g., "smith2020", "smithJones2021", "smithEtAl2020").
// If a collision is detected, a letter suffix is appended (a, b, c, ...).
func GenerateCitekey(metadata *models.ItemMetadata, existingCitekeys map[string]bool) string {
	base := extractAuthorPart(metadata.Authors) + extractYear(metadata.PublicationDate)
	if base == "" {
		base = "unknown"
	}
	base = sanitizeCitekey(base)

	citekey := base
	for suffix := 'a'; existingCitekeys[citekey] && suffix <= 'z'; suffix++ {
		citekey = base + string(suffix)
	}
	return citekey
}

// extractYear extracts a 4-digit year from a publication date string.
// Handles formats like "2020", "2020-01-15", "January 2020".
func extractYear(pubDate string) string {
	return yearPattern.FindString(pubDate)
}

// extractAuthorPart creates the author portion of the citekey:
// one author -> last name; two -> both last names camel-cased;
// three or more -> first last name + "EtAl".
func extractAuthorPart(authors []string) string {
	switch len(authors) {
	case 0:
		return ""
	case 1:
		return lastNameOf(authors[0])
	case 2:
		return lastNameOf(authors[0]) + capitalize(lastNameOf(authors[1]))
	default:
		return lastNameOf(authors[0]) + "EtAl"
	}
}

// lastNameOf extracts and lowercases the last name from "Last, First",
// "First Last", or a bare name. Multi-part last names are camel-cased
// ("von Neumann" -> "vonNeumann").
func lastNameOf(author string) string {
	if author == "" {
		return ""
	}

	var lastName string
	if strings.Contains(author, ",") {
		lastName = strings.TrimSpace(strings.Split(author, ",")[0])
	} else {
		parts := strings.Fields(author)
		if len(parts) > 0 {
			lastName = parts[len(parts)-1]
		}
	}

	parts := strings.Fields(lastName)
	if len(parts) <= 1 {
		return strings.ToLower(lastName)
	}
	result := strings.ToLower(parts[0])
	for _, p := range parts[1:] {
		result += capitalize(strings.ToLower(p))
	}
	return result
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// sanitizeCitekey keeps the citekey pandoc-compatible: letters, digits and
// underscores only, never starting with a digit.
func sanitizeCitekey(citekey string) string {
	var b strings.Builder
	for _, r := range citekey {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
		}
	}
	sanitized := b.String()
	if sanitized == "" {
		return "unknown"
	}
	if unicode.IsDigit(rune(sanitized[0])) {
		sanitized = "ref" + sanitized
	}
	return sanitized
}
