// Package dateparse extracts a year and month from the heterogeneous date
// strings Zotero stores on items.
package dateparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// 2024-06-19, 2024/06/19, 2024-06
	numericPattern = regexp.MustCompile(`(\d{4})[/-](\d{2})(?:[/-]\d{2})?`)
	// Japanese locale form: "10月 23, 2023"
	japanesePattern = regexp.MustCompile(`(\d{1,2})月\s+\d{1,2},\s+(\d{4})`)
)

// Parse extracts (year, month) from a date string. Both are returned as
// strings, month zero-padded to two digits; both are empty when the string
// is unrecognized. ISO 8601 timestamps are tried before the numeric
// pattern: a timestamp also matches the numeric form, but its calendar
// fields must come from a real parse.
func Parse(raw string) (year, month string) {
	if raw == "" {
		return "", ""
	}

	if strings.Contains(raw, "T") {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return strconv.Itoa(t.Year()), fmt.Sprintf("%02d", int(t.Month()))
		}
		// fall through on parse failure
	}

	if m := numericPattern.FindStringSubmatch(raw); m != nil {
		if n, err := strconv.Atoi(m[2]); err == nil && n >= 1 && n <= 12 {
			return m[1], m[2]
		}
	}

	if m := japanesePattern.FindStringSubmatch(raw); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 || n > 12 {
			return "", ""
		}
		return m[2], fmt.Sprintf("%02d", n)
	}

	return "", ""
}
