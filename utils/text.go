package utils

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Normalize produces a stable comparison key from portal text: NFKC
// normalization, non-breaking spaces replaced with regular spaces, internal
// whitespace runs collapsed, trimmed, upper-cased. Accented characters are
// preserved as-is. Idempotent.
func Normalize(s string) string {
	s = norm.NFKC.String(s)
	s = strings.ReplaceAll(s, " ", " ")
	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.ToUpper(strings.TrimSpace(s))
}

// ParseCount parses a locale-formatted count like "1.234" or "1,234" into an
// integer. Both "." and "," are treated as thousands separators, never as
// decimal points. Returns 0 on empty input or any parse failure.
func ParseCount(s string) int {
	cleaned := strings.NewReplacer(".", "", ",", "").Replace(strings.TrimSpace(s))
	if cleaned == "" {
		return 0
	}
	n, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0
	}
	return n
}
