package pattern

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Sanitize turns a display name into a pattern identifier: namespace
// separators become underscores and every other rune that is not a letter,
// digit or underscore is dropped. Names are NFC-normalized first so that
// decomposed accents survive as letters.
//
// Distinct names may sanitize to the same identifier; no attempt is made to
// tell them apart.
func Sanitize(name string) string {
	name = norm.NFC.String(name)
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r == '.' || r == ':':
			b.WriteByte('_')
		case r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r):
			b.WriteRune(r)
		}
	}
	return b.String()
}
