// Package render formats station metadata for terminal cells.
package render

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
)

// Clean prepares directory text for display. Station names and tags come
// from user submissions and often carry tabs, newlines, control bytes or
// runs of spaces. Invalid UTF-8 is dropped and whitespace collapses to a
// single space.
func Clean(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range strings.ToValidUTF8(s, "") {
		switch {
		case unicode.IsSpace(r):
			space = b.Len() > 0
			continue
		case unicode.IsControl(r), r == unicode.ReplacementChar:
			continue
		}
		if space {
			b.WriteByte(' ')
			space = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Truncate cleans s and cuts it to maxWidth cells, ending in "…" when cut.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	return runewidth.Truncate(Clean(s), maxWidth, "…")
}

// TruncateAndPad truncates s and pads it with spaces to exactly width cells.
func TruncateAndPad(s string, width int) string {
	return runewidth.FillRight(Truncate(s, width), max(width, 0))
}

// Separator is a horizontal rule width cells wide.
func Separator(width int) string {
	return strings.Repeat("─", max(width, 0))
}
