package safety

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// SnippetWidth is the maximum snippet length in characters
	SnippetWidth = 240
	placeholder  = " [...]"
)

var lineBreaks = regexp.MustCompile(`(?i)<br\s*/?>|\r?\n`)

// Snippet flattens a feed description to a single line
// of at most width characters.
func Snippet(description string, width int) string {
	return shorten(lineBreaks.ReplaceAllString(description, " "), width)
}

// shorten collapses whitespace and, when the text is longer than width,
// keeps as many leading words as fit together with the placeholder.
func shorten(text string, width int) string {
	words := strings.Fields(text)
	joined := strings.Join(words, " ")
	if utf8.RuneCountInString(joined) <= width {
		return joined
	}

	limit := width - utf8.RuneCountInString(placeholder)
	size, keep := 0, 0
	for i, w := range words {
		l := utf8.RuneCountInString(w)
		if i > 0 {
			l++
		}
		if size+l > limit {
			break
		}
		size += l
		keep = i + 1
	}
	if keep == 0 {
		return strings.TrimLeft(placeholder, " ")
	}
	return strings.Join(words[:keep], " ") + placeholder
}
