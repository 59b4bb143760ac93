// Package export renders outline documents as plain text for the terminal:
// an indented outline view and a word count report.
package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pstuifzand/sermonedit/internal/model"
	"github.com/pstuifzand/sermonedit/internal/outline"
)

// Options control the outline view
type Options struct {
	// Width limits every line to this many columns. Zero means unlimited.
	Width int
	// Wrap wraps long paragraphs instead of truncating them
	Wrap bool
	// WordCounts appends the word count under each heading
	WordCounts bool
	// ShowHidden includes blocks inside collapsed sections and below the
	// showing depth
	ShowHidden bool
}

// Lines renders the outline of the engine's document, one entry per block.
// Blocks are indented two spaces per ancestor. Headings start with "-", or
// "+" when collapsed, list items with "*", or "1." in the numbered style.
func Lines(eng *outline.Engine, opts Options) []string {
	var out []string
	for n := range eng.Document().AllBlocks() {
		if !opts.ShowHidden && (n.HiddenByParent() || n.BelowThreshold()) {
			continue
		}
		out = append(out, blockLines(eng, n, opts)...)
	}
	return out
}

func blockLines(eng *outline.Engine, n *model.Node, opts Options) []string {
	depth := 0
	for range model.AncestorsOf(n) {
		depth++
	}
	indent := strings.Repeat("  ", depth)

	text := strings.Join(strings.Fields(n.TextContent()), " ")
	marker := ""
	switch {
	case n.IsHeading() && n.Hidden():
		marker = "+ "
	case n.IsHeading():
		marker = "- "
	case n.ListItem() && n.AltA():
		marker = "1. "
	case n.ListItem():
		marker = "* "
	}
	if n.IsHeading() && opts.WordCounts {
		if words := model.WordDisplay(n.ChildWords()); words != "" {
			text += " " + words
		}
	}

	head := indent + marker
	if opts.Width <= 0 {
		return []string{head + text}
	}
	room := max(opts.Width-StringWidth(head), 1)
	if !opts.Wrap || n.IsHeading() {
		return []string{head + TruncateToWidth(text, room)}
	}
	wrapped := Wrap(text, room)
	out := make([]string, len(wrapped))
	hang := strings.Repeat(" ", StringWidth(head))
	for i, line := range wrapped {
		if i == 0 {
			out[i] = head + line
		} else {
			out[i] = hang + line
		}
	}
	return out
}

// WriteOutline writes the outline view to w
func WriteOutline(w io.Writer, eng *outline.Engine, opts Options) error {
	for _, line := range Lines(eng, opts) {
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return fmt.Errorf("failed to write outline: %w", err)
		}
	}
	return nil
}

// Summary is a one-line description of the document, e.g. "12 blocks,
// 340 words"
func Summary(eng *outline.Engine) string {
	blocks := eng.Document().BlockCount()
	words := eng.TotalWords()
	return pluralize(blocks, "block") + ", " + pluralize(words, "word")
}

func pluralize(n int, noun string) string {
	s := strconv.Itoa(n) + " " + noun
	if n != 1 {
		s += "s"
	}
	return s
}
