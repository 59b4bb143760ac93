package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pstuifzand/sermonedit/internal/model"
	"github.com/pstuifzand/sermonedit/internal/outline"
)

// SectionStat is the word count of one heading
type SectionStat struct {
	Title     string
	Level     int
	Words     int
	Collapsed bool
}

// Stats summarises a document
type Stats struct {
	Blocks     int
	Headings   int
	Paragraphs int
	ListItems  int
	Collapsed  int
	// Words is the total the outline shows, collapsed sections excluded
	Words int
	// AllWords counts every paragraph, collapsed or not
	AllWords int
	Sections []SectionStat
}

// ComputeStats collects the statistics of the engine's document. Word
// counts are taken from the outline caches, so recount first if they may be
// stale.
func ComputeStats(eng *outline.Engine) Stats {
	var s Stats
	for n := range eng.Document().AllBlocks() {
		s.Blocks++
		if n.Hidden() {
			s.Collapsed++
		}
		if n.IsHeading() {
			s.Headings++
			s.Sections = append(s.Sections, SectionStat{
				Title:     strings.Join(strings.Fields(n.TextContent()), " "),
				Level:     model.LevelOf(n),
				Words:     n.ChildWords(),
				Collapsed: n.Hidden(),
			})
			continue
		}
		s.Paragraphs++
		if n.ListItem() {
			s.ListItems++
		}
		s.AllWords += eng.WordCount(n)
	}
	s.Words = eng.TotalWords()
	return s
}

// WriteStats writes a report of s to w. Section titles are indented by
// level and truncated so the counts line up within width columns.
func WriteStats(w io.Writer, s Stats, width int) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Blocks:     %d (%d headings, %d paragraphs, %d list items)\n",
		s.Blocks, s.Headings, s.Paragraphs, s.ListItems)
	fmt.Fprintf(&sb, "Words:      %d", s.Words)
	if s.AllWords != s.Words {
		fmt.Fprintf(&sb, " (%d including collapsed sections)", s.AllWords)
	}
	sb.WriteString("\n")
	if s.Collapsed > 0 {
		fmt.Fprintf(&sb, "Collapsed:  %d\n", s.Collapsed)
	}

	if len(s.Sections) > 0 {
		sb.WriteString("\n")
		countWidth := 0
		for _, sec := range s.Sections {
			countWidth = max(countWidth, len(strconv.Itoa(sec.Words)))
		}
		titleWidth := max(width-countWidth-1, 10)
		for _, sec := range s.Sections {
			title := strings.Repeat("  ", sec.Level) + sec.Title
			if sec.Collapsed {
				title += " +"
			}
			sb.WriteString(PadToWidth(TruncateToWidth(title, titleWidth), titleWidth))
			sb.WriteString(" ")
			sb.WriteString(PadLeftToWidth(strconv.Itoa(sec.Words), countWidth))
			sb.WriteString("\n")
		}
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("failed to write stats: %w", err)
	}
	return nil
}
