package tui

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// sanitize drops control characters and invalid UTF-8 from file names and
// URIs so they cannot break the terminal.
func sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == utf8.RuneError && size <= 1:
		case r == '\t' || r == '\u00a0':
			b.WriteByte(' ')
		case unicode.IsControl(r):
		default:
			b.WriteString(s[i : i+size])
		}
		i += size
	}
	return b.String()
}

// fit sanitizes s and truncates it to width cells, wide runes counted twice.
func fit(s string, width int) string {
	return runewidth.Truncate(sanitize(s), width, "…")
}
