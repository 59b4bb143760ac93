package export

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Widths are display widths (screen columns), not byte or rune counts, so
// CJK text and emoji line up in the terminal.

// StringWidth returns the display width of a string
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// TruncateToWidth truncates s with "..." if it exceeds maxWidth columns
func TruncateToWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if maxWidth <= 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

// PadToWidth pads s with spaces to width columns. Wider strings are
// returned unchanged.
func PadToWidth(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// PadLeftToWidth right-aligns s in width columns
func PadLeftToWidth(s string, width int) string {
	return runewidth.FillLeft(s, width)
}

// Wrap breaks s into lines of at most maxWidth columns, preferring to break
// after a space. A word wider than maxWidth is split.
func Wrap(s string, maxWidth int) []string {
	if maxWidth <= 0 || StringWidth(s) <= maxWidth {
		return []string{s}
	}

	var lines []string
	for s != "" {
		idx := breakPoint(s, maxWidth)
		lines = append(lines, strings.TrimRight(s[:idx], " "))
		s = strings.TrimLeft(s[idx:], " ")
	}
	return lines
}

// breakPoint returns the byte index to break s at so the first part fits
// in maxWidth columns
func breakPoint(s string, maxWidth int) int {
	width := 0
	lastSpace := -1
	for i, r := range s {
		rw := runewidth.RuneWidth(r)
		if width+rw > maxWidth {
			if r == ' ' {
				return i
			}
			if lastSpace > 0 {
				return lastSpace + 1
			}
			if i == 0 {
				// Always make progress
				return len(string(r))
			}
			return i
		}
		width += rw
		if r == ' ' {
			lastSpace = i
		}
	}
	return len(s)
}
