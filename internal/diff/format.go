package diff

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// BuildDiffLines converts a DiffResult into formatted display lines
func BuildDiffLines(result *DiffResult, verbose bool) []DiffLine {
	var lines []DiffLine

	// New blocks section
	if len(result.NewBlocks) > 0 {
		lines = append(lines, DiffLine{Type: DiffTypeNewSection, Content: "New Blocks:"})
		lines = append(lines, DiffLine{Type: DiffTypeBlank})
		for _, b := range result.NewBlocks {
			lines = append(lines, formatNewBlock(b, verbose)...)
		}
	}

	// Deleted blocks section
	if len(result.DeletedBlocks) > 0 {
		lines = append(lines, DiffLine{Type: DiffTypeDeletedSection, Content: "Deleted Blocks:"})
		lines = append(lines, DiffLine{Type: DiffTypeBlank})
		for _, b := range result.DeletedBlocks {
			lines = append(lines, DiffLine{Type: DiffTypeDeletedItem, Content: blockHeader(b), Indent: 1})
		}
		lines = append(lines, DiffLine{Type: DiffTypeBlank})
	}

	// Modified blocks section
	if len(result.ModifiedBlocks) > 0 {
		lines = append(lines, DiffLine{Type: DiffTypeModifiedSection, Content: "Modified Blocks:"})
		lines = append(lines, DiffLine{Type: DiffTypeBlank})
		for _, change := range result.ModifiedBlocks {
			lines = append(lines, formatModifiedBlock(change)...)
		}
	}

	if !result.Empty() {
		lines = append(lines, DiffLine{Type: DiffTypeSummary, Content: "=== Summary ==="})
		lines = append(lines, DiffLine{
			Type: DiffTypeSummary,
			Content: fmt.Sprintf("  %d modified, %d added, %d deleted, %d unchanged",
				len(result.ModifiedBlocks), len(result.NewBlocks), len(result.DeletedBlocks), result.Unchanged),
		})
	}

	return lines
}

func blockHeader(b *BlockData) string {
	return fmt.Sprintf("%d %s: %s", b.Position+1, kindName(b), truncateText(b.Text, 60))
}

// kindName names a block the way the outline shows it, e.g. H2 or P1
func kindName(b *BlockData) string {
	if b.ListDepth > 0 {
		return fmt.Sprintf("%s%d", b.Tag, b.ListDepth)
	}
	return b.Tag
}

// formatNewBlock creates display lines for a newly added block
func formatNewBlock(b *BlockData, verbose bool) []DiffLine {
	lines := []DiffLine{{Type: DiffTypeNewItem, Content: blockHeader(b), Indent: 1}}
	if verbose {
		if b.Numbered {
			lines = append(lines, DiffLine{Type: DiffTypeItemDetail, Content: "LIST: numbered", Indent: 2})
		}
		if b.Collapsed {
			lines = append(lines, DiffLine{Type: DiffTypeItemDetail, Content: "COLLAPSED", Indent: 2})
		}
	}
	lines = append(lines, DiffLine{Type: DiffTypeBlank})
	return lines
}

// formatModifiedBlock creates display lines for a modified block
func formatModifiedBlock(change *BlockChange) []DiffLine {
	old, b := change.OldBlock, change.Block
	lines := []DiffLine{{Type: DiffTypeModifiedItem, Content: blockHeader(b), Indent: 1}}

	detail := func(format string, args ...any) {
		lines = append(lines, DiffLine{Type: DiffTypeItemDetail, Content: fmt.Sprintf(format, args...), Indent: 2})
	}

	if change.TextChanged {
		detail("TEXT: %s → %s", truncateText(old.Text, 40), truncateText(b.Text, 40))
	}
	if change.KindChanged {
		detail("KIND: %s → %s", old.Tag, b.Tag)
	}
	if change.ListChanged {
		detail("LIST: %s → %s", listName(old), listName(b))
	}
	if change.CollapsedChanged {
		if b.Collapsed {
			detail("COLLAPSED")
		} else {
			detail("EXPANDED")
		}
	}
	if change.Moved {
		detail("MOVED: position %d → %d", old.Position+1, b.Position+1)
	}

	lines = append(lines, DiffLine{Type: DiffTypeBlank})
	return lines
}

func listName(b *BlockData) string {
	switch {
	case b.ListDepth == 0:
		return "none"
	case b.Numbered:
		return fmt.Sprintf("numbered depth %d", b.ListDepth)
	default:
		return fmt.Sprintf("depth %d", b.ListDepth)
	}
}

// FormatLines renders display lines as plain text, two spaces per indent
func FormatLines(lines []DiffLine) string {
	var sb strings.Builder
	for _, l := range lines {
		if l.Type != DiffTypeBlank {
			sb.WriteString(strings.Repeat("  ", l.Indent))
			sb.WriteString(l.Content)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// truncateText limits text width for display
func truncateText(text string, maxWidth int) string {
	return runewidth.Truncate(text, maxWidth, "...")
}
