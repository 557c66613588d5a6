package scan

import (
	"iter"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// timeLookahead is how many characters past a start position the scanner inspects.
// Positions closer than this to the end of the text are never examined.
const timeLookahead = 4

// TimeMatch is a time-of-day candidate found by ScanTimes
type TimeMatch struct {
	Text  string `json:"time" yaml:"time"`
	Index int    `json:"index" yaml:"index"` // character offset of the first digit
}

// ScanTimes returns the time-of-day candidates in text, in order of their starting offset.
//
// Accepted shapes are DD:D, DD:DD, D:D and D:DD. Every position is tried independently,
// so a match starting one character inside a previous one (14:30 then 4:30) is reported too.
func ScanTimes(text string) iter.Seq[TimeMatch] {
	chars := []rune(text)

	return func(yield func(TimeMatch) bool) {
		for s := 0; s+timeLookahead < len(chars); s++ {
			end := matchTimeAt(chars, s)
			if end == 0 {
				continue
			}
			if !yield(TimeMatch{Text: string(chars[s:end]), Index: s}) {
				return
			}
		}
	}
}

// CollectTimes drains ScanTimes into a slice
func CollectTimes(text string) []TimeMatch {
	matches := []TimeMatch{}
	for m := range ScanTimes(text) {
		matches = append(matches, m)
	}
	return matches
}

// matchTimeAt returns the end offset of a match starting at s, or 0 when there is none.
// The caller guarantees s+timeLookahead is a valid index.
func matchTimeAt(chars []rune, s int) int {
	if !isDigit(chars[s]) {
		return 0
	}

	switch {
	case isDigit(chars[s+1]):
		if chars[s+2] != ':' || !isDigit(chars[s+3]) {
			return 0
		}
		if isDigit(chars[s+4]) {
			return s + 5
		}
		return s + 4

	case chars[s+1] == ':':
		if !isDigit(chars[s+2]) {
			return 0
		}
		if isDigit(chars[s+3]) {
			return s + 4
		}
		return s + 3
	}

	return 0
}

// isDigit reports whether r is a decimal digit or a compatibility form of exactly
// one digit, such as superscript two or circled one. Fractions like one half
// decompose to two digits and are rejected.
func isDigit(r rune) bool {
	if unicode.IsDigit(r) {
		return true
	}
	if !unicode.Is(unicode.No, r) {
		return false
	}

	digits := 0
	for _, d := range norm.NFKD.String(string(r)) {
		if unicode.IsDigit(d) {
			digits++
		}
	}
	return digits == 1
}
