package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/sermonedit/internal/model"
	"github.com/pstuifzand/sermonedit/internal/outline"
)

// sermon builds a small outline with a numbered list and a collapsed
// section
func sermon(t *testing.T) *outline.Engine {
	t.Helper()
	doc := model.NewDocument()
	eng := outline.New(doc)
	add := func(tag, text string) *model.Node {
		b := doc.NewBlock(tag, text)
		doc.Append(doc.Root(), b)
		return b
	}
	add(model.TagH1, "Sermon")
	add(model.TagP, "Opening  words here")
	add(model.TagH2, "Point one")
	for _, text := range []string{"first item", "second item"} {
		item := add(model.TagP, text)
		eng.SetListLevel(item, 1)
		doc.SetFlag(item, model.AttrAltA, true)
	}
	collapsed := add(model.TagH2, "Point two")
	add(model.TagP, "secret text")
	eng.Hide(collapsed)
	eng.RecountAll()
	doc.TakeRecords()
	return eng
}

func TestLines(t *testing.T) {
	eng := sermon(t)
	assert.Equal(t, []string{
		"- Sermon (7 words)",
		"  Opening words here",
		"  - Point one (4 words)",
		"    1. first item",
		"    1. second item",
		"  + Point two (2 words)",
	}, Lines(eng, Options{WordCounts: true}))
}

func TestLinesShowHidden(t *testing.T) {
	eng := sermon(t)
	lines := Lines(eng, Options{ShowHidden: true})
	require.Len(t, lines, 7)
	assert.Equal(t, "- Sermon", lines[0])
	assert.Equal(t, "    secret text", lines[6])
}

func TestLinesSkipBlocksBelowShowingDepth(t *testing.T) {
	eng := sermon(t)
	eng.SetShowingDepth(1)
	eng.ApplyShowingDepth()
	assert.Equal(t, []string{
		"- Sermon",
		"  - Point one",
		"  + Point two",
	}, Lines(eng, Options{}))
}

func TestLinesTruncate(t *testing.T) {
	eng := sermon(t)
	lines := Lines(eng, Options{Width: 12, WordCounts: true})
	assert.Equal(t, "- Sermon ...", lines[0])
	for _, line := range lines {
		assert.LessOrEqual(t, StringWidth(line), 12, line)
	}
}

func TestLinesWrap(t *testing.T) {
	eng := sermon(t)
	lines := Lines(eng, Options{Width: 10, Wrap: true})
	assert.Equal(t, "  Opening", lines[1])
	assert.Equal(t, "  words", lines[2])
	assert.Equal(t, "  here", lines[3])
}

func TestWriteOutline(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, WriteOutline(&sb, sermon(t), Options{}))
	assert.True(t, strings.HasPrefix(sb.String(), "- Sermon\n  Opening words here\n"))
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "7 blocks, 7 words", Summary(sermon(t)))

	eng := outline.New(model.NewDocument())
	eng.Document().EnsureNotEmpty()
	assert.Equal(t, "1 block, 0 words", Summary(eng))
}

func TestComputeStats(t *testing.T) {
	s := ComputeStats(sermon(t))
	assert.Equal(t, 7, s.Blocks)
	assert.Equal(t, 3, s.Headings)
	assert.Equal(t, 4, s.Paragraphs)
	assert.Equal(t, 2, s.ListItems)
	assert.Equal(t, 1, s.Collapsed)
	assert.Equal(t, 7, s.Words)
	assert.Equal(t, 9, s.AllWords)
	require.Len(t, s.Sections, 3)
	assert.Equal(t, SectionStat{Title: "Point two", Level: 1, Words: 2, Collapsed: true}, s.Sections[2])
}

func TestWriteStats(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, WriteStats(&sb, ComputeStats(sermon(t)), 30))
	out := sb.String()
	assert.Contains(t, out, "Blocks:     7 (3 headings, 4 paragraphs, 2 list items)\n")
	assert.Contains(t, out, "Words:      7 (9 including collapsed sections)\n")
	assert.Contains(t, out, "Collapsed:  1\n")
	assert.Contains(t, out, PadToWidth("Sermon", 28)+" 7\n")
	assert.Contains(t, out, PadToWidth("  Point two +", 28)+" 2\n")
}

func TestTruncateToWidth(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello world", 8, "hello..."},
		{"hello", 3, "hel"},
		{"hello", 0, ""},
		{"日本語テキスト", 7, "日本..."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TruncateToWidth(tt.in, tt.width), tt.in)
	}
}

func TestPadToWidth(t *testing.T) {
	assert.Equal(t, "ab   ", PadToWidth("ab", 5))
	assert.Equal(t, "日本 ", PadToWidth("日本", 5))
	assert.Equal(t, "abcdef", PadToWidth("abcdef", 3))
	assert.Equal(t, "   42", PadLeftToWidth("42", 5))
}

func TestWrap(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  []string
	}{
		{"short", 10, []string{"short"}},
		{"alpha beta gamma", 10, []string{"alpha beta", "gamma"}},
		{"abcdefghij", 4, []string{"abcd", "efgh", "ij"}},
		{"日本語テキスト", 6, []string{"日本語", "テキス", "ト"}},
		{"anything", 0, []string{"anything"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Wrap(tt.in, tt.width), tt.in)
	}
}
