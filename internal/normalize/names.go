package normalize

import (
	"regexp"
	"strings"
)

var multiSpace = regexp.MustCompile(`\s+`)

// NormalizeName lowercases, collapses whitespace, and trims the input.
// Used to match spreadsheet headers against column aliases.
func NormalizeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return multiSpace.ReplaceAllString(strings.ToLower(s), " ")
}

// CleanText trims and collapses whitespace but keeps the original case, so
// payer and provider names group consistently while still reading naturally.
func CleanText(s string) string {
	return multiSpace.ReplaceAllString(strings.TrimSpace(s), " ")
}
