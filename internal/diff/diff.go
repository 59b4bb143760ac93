// Package diff compares two outline documents block by block.
package diff

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/pstuifzand/sermonedit/internal/model"
)

// ComputeDiff compares two documents and returns a DiffResult
// This is the main entry point for computing differences
func ComputeDiff(doc1, doc2 *model.Document) *DiffResult {
	return analyzeChanges(BlocksOf(doc1), BlocksOf(doc2))
}

// BlocksOf extracts the comparable state of every block of doc
func BlocksOf(doc *model.Document) []*BlockData {
	var out []*BlockData
	for n := range doc.AllBlocks() {
		out = append(out, &BlockData{
			Position:  len(out),
			Tag:       n.Tag,
			Text:      strings.Join(strings.Fields(n.TextContent()), " "),
			ListDepth: n.IndentLevel(),
			Numbered:  n.ListItem() && n.AltA(),
			Collapsed: n.Hidden(),
		})
	}
	return out
}

// key identifies a block for sequence matching. List depth and collapsed
// state are compared afterwards so a re-indented block shows as modified.
func key(b *BlockData) string {
	return b.Tag + "\x00" + b.Text
}

func keys(blocks []*BlockData) []string {
	out := make([]string, len(blocks))
	for i, b := range blocks {
		out[i] = key(b)
	}
	return out
}

// analyzeChanges aligns the two block sequences and classifies every
// difference
func analyzeChanges(old, new []*BlockData) *DiffResult {
	result := &DiffResult{}

	matcher := difflib.NewMatcher(keys(old), keys(new))
	for _, op := range matcher.GetOpCodes() {
		switch op.Tag {
		case 'e':
			for k := 0; k < op.I2-op.I1; k++ {
				if change := compareBlocks(old[op.I1+k], new[op.J1+k]); change != nil {
					result.ModifiedBlocks = append(result.ModifiedBlocks, change)
				} else {
					result.Unchanged++
				}
			}
		case 'd':
			result.DeletedBlocks = append(result.DeletedBlocks, old[op.I1:op.I2]...)
		case 'i':
			result.NewBlocks = append(result.NewBlocks, new[op.J1:op.J2]...)
		case 'r':
			pairReplaced(result, old[op.I1:op.I2], new[op.J1:op.J2])
		}
	}

	detectMoves(result)

	sort.SliceStable(result.ModifiedBlocks, func(i, j int) bool {
		return result.ModifiedBlocks[i].Block.Position < result.ModifiedBlocks[j].Block.Position
	})
	return result
}

// pairReplaced matches the blocks of a replaced range by position. Two
// blocks pair when they share either their kind or their text, otherwise
// they count as a deletion and an addition.
func pairReplaced(result *DiffResult, old, new []*BlockData) {
	n := min(len(old), len(new))
	for k := 0; k < n; k++ {
		o, b := old[k], new[k]
		if o.Tag != b.Tag && o.Text != b.Text {
			result.DeletedBlocks = append(result.DeletedBlocks, o)
			result.NewBlocks = append(result.NewBlocks, b)
			continue
		}
		result.ModifiedBlocks = append(result.ModifiedBlocks, compareBlocks(o, b))
	}
	result.DeletedBlocks = append(result.DeletedBlocks, old[n:]...)
	result.NewBlocks = append(result.NewBlocks, new[n:]...)
}

// detectMoves turns a deletion and an addition of the same block into a
// move
func detectMoves(result *DiffResult) {
	var kept []*BlockData
	for _, b := range result.NewBlocks {
		idx := -1
		for i, o := range result.DeletedBlocks {
			if key(o) == key(b) {
				idx = i
				break
			}
		}
		if idx < 0 {
			kept = append(kept, b)
			continue
		}
		o := result.DeletedBlocks[idx]
		result.DeletedBlocks = append(result.DeletedBlocks[:idx], result.DeletedBlocks[idx+1:]...)

		change := compareBlocks(o, b)
		if change == nil {
			change = &BlockChange{Block: b, OldBlock: o}
		}
		change.Moved = true
		result.ModifiedBlocks = append(result.ModifiedBlocks, change)
	}
	result.NewBlocks = kept
}

// compareBlocks checks if a block changed and returns the changes
func compareBlocks(old, new *BlockData) *BlockChange {
	change := &BlockChange{
		Block:            new,
		OldBlock:         old,
		TextChanged:      old.Text != new.Text,
		KindChanged:      old.Tag != new.Tag,
		ListChanged:      old.ListDepth != new.ListDepth || old.Numbered != new.Numbered,
		CollapsedChanged: old.Collapsed != new.Collapsed,
	}
	if !change.TextChanged && !change.KindChanged && !change.ListChanged && !change.CollapsedChanged {
		return nil
	}
	return change
}

// Unified returns a unified diff of two rendered outlines. It is empty
// when the outlines are the same.
func Unified(a, b []string, fromName, toName string, context int) (string, error) {
	out, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        withNewlines(a),
		B:        withNewlines(b),
		FromFile: fromName,
		ToFile:   toName,
		Context:  context,
	})
	if err != nil {
		return "", fmt.Errorf("failed to build unified diff: %w", err)
	}
	return out, nil
}

func withNewlines(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l + "\n"
	}
	return out
}
