package records

import (
	"strings"
	"unicode"
)

// Normalize converts free text into a lowercase underscore-delimited slug:
// every character that is not a letter, digit or whitespace becomes an
// underscore, whitespace runs collapse into a single underscore. Total and
// idempotent. Callers supply their own fallback for empty input.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	inSpace := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			inSpace = true
			continue
		}
		if inSpace {
			b.WriteByte('_')
			inSpace = false
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteByte('_')
		}
	}
	if inSpace {
		b.WriteByte('_')
	}
	return b.String()
}
