package helper

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeEmail folds an email into its natural-key form:
// NFKC, invisible format characters removed, trimmed, lower-cased.
func NormalizeEmail(raw string) string {
	s := norm.NFKC.String(raw)
	s = strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Cf, r) {
			return -1
		}
		return r
	}, s)
	return strings.ToLower(strings.TrimSpace(s))
}
