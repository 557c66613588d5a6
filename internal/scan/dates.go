package scan

import (
	"regexp"
	"strings"
)

// DefaultDatePattern matches day-month tokens such as 14-Jan, 2-feb or 31-December.
// The month is case-insensitive; the day is only loosely range-checked (0-29, 30, 31).
var DefaultDatePattern = regexp.MustCompile(
	`\b([0-2][0-9]|3[01]|[0-9])-(?i:(` +
		`Jan(?:uary)?|Feb(?:ruary)?|Mar(?:ch)?|Apr(?:il)?|May|June?|July?|Aug(?:ust)?|` +
		`Sep(?:t(?:ember)?|tember)?|Oct(?:ober)?|Nov(?:ember)?|Dec(?:ember)?))\b`,
)

// DateToken is one day-month match and its byte offsets in the source text
type DateToken struct {
	Text  string `json:"text" yaml:"text"`
	Start int    `json:"start" yaml:"start"`
	End   int    `json:"end" yaml:"end"`
}

// DatePair attaches a description to a date token
type DatePair struct {
	Date        DateToken `json:"date" yaml:"date"`
	Description string    `json:"description" yaml:"description"`
}

// SegmentDates runs Segment with DefaultDatePattern
func SegmentDates(text string) []DatePair {
	return Segment(text, DefaultDatePattern)
}

// Segment splits text at successive date tokens found by pattern.
//
// Each token is paired with the text between its end and the start of the next token,
// with newline characters trimmed from both ends. The last token has no successor to
// close its description and is dropped, so text with a single token yields no pairs.
func Segment(text string, pattern *regexp.Regexp) []DatePair {
	if pattern == nil {
		pattern = DefaultDatePattern
	}

	// FindAll resumes each search at the previous match end, which is the same walk
	// as repeatedly searching from the last description start.
	locs := pattern.FindAllStringIndex(text, -1)

	pairs := []DatePair{}
	for i := 0; i+1 < len(locs); i++ {
		cur, next := locs[i], locs[i+1]
		pairs = append(pairs, DatePair{
			Date: DateToken{
				Text:  text[cur[0]:cur[1]],
				Start: cur[0],
				End:   cur[1],
			},
			Description: strings.Trim(text[cur[1]:next[0]], "\n"),
		})
	}

	return pairs
}
