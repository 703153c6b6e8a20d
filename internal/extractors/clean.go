package extractors

import (
	"regexp"
	"strings"
)

var (
	newlineRuns = regexp.MustCompile(`\n+`)
	blankRuns   = regexp.MustCompile(`(\n\s*\n)+`)
)

// CleanText normalizes a fetched body for display: newline runs collapse to
// one, the text is trimmed, whitespace-only lines are dropped, and every
// remaining line break becomes a paragraph break.
func CleanText(raw string) string {
	s := strings.ReplaceAll(raw, "\r\n", "\n")
	s = newlineRuns.ReplaceAllString(s, "\n")
	s = strings.TrimSpace(s)
	s = blankRuns.ReplaceAllString(s, "\n")
	return strings.ReplaceAll(s, "\n", "\n\n")
}
