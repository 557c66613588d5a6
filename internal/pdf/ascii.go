package pdf

import (
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

var nonASCII = runes.Remove(runes.Predicate(func(r rune) bool {
	return r > unicode.MaxASCII
}))

// ToASCII drops every character outside the 7-bit range. Accented letters are removed,
// not folded, so "café" becomes "caf".
func ToASCII(s string) string {
	out, _, err := transform.String(nonASCII, s)
	if err != nil {
		return s
	}
	return out
}
