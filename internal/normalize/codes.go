package normalize

import (
	"regexp"
	"strings"
)

var (
	anySpace     = regexp.MustCompile(`\s+`)
	floatNumeric = regexp.MustCompile(`^[0-9]+\.0+$`)
)

// NormalizeCode trims, uppercases and removes internal whitespace from a
// procedure or diagnosis code. Punctuation such as ICD dots and CPT modifier
// dashes is kept.
func NormalizeCode(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	// Numeric codes read from spreadsheets can arrive as "99213.0".
	if floatNumeric.MatchString(s) {
		s = s[:strings.IndexByte(s, '.')]
	}
	return anySpace.ReplaceAllString(strings.ToUpper(s), "")
}
