// Package selection maps the host selection onto the block sequence and
// keeps it usable across structural edits.
package selection

import (
	"cmp"
	"iter"

	"github.com/pstuifzand/sermonedit/internal/model"
	"github.com/pstuifzand/sermonedit/internal/outline"
)

// Selection is a normalized range: Start never comes after End.
type Selection struct {
	Start      model.Point
	End        model.Point
	StartBlock *model.Node
	EndBlock   *model.Node

	// FocusBeforeAnchor records that the host focus was the start.
	FocusBeforeAnchor bool
	Valid             bool
}

// Update reads the live selection of s.
func (sel *Selection) Update(s Surface) {
	anchor, focus := s.Selection()
	sel.setOrdered(anchor, focus)
}

// Set selects the range between two points given in either order.
func (sel *Selection) Set(anchor, focus model.Point) {
	sel.setOrdered(anchor, focus)
}

// Collapse turns the selection into a caret at p.
func (sel *Selection) Collapse(p model.Point) {
	sel.setOrdered(p, p)
}

func (sel *Selection) setOrdered(anchor, focus model.Point) {
	*sel = Selection{}
	if anchor.IsZero() || focus.IsZero() {
		return
	}
	order, ok := orderPoints(anchor, focus)
	if !ok {
		return
	}
	if order > 0 {
		anchor, focus = focus, anchor
		sel.FocusBeforeAnchor = true
	}
	sel.Start, sel.End = anchor, focus
	sel.StartBlock = blockFor(anchor)
	sel.EndBlock = blockFor(focus)
	sel.Valid = sel.StartBlock != nil && sel.EndBlock != nil
}

// blockFor returns the block holding p. A point on the document root
// resolves to the block at its offset.
func blockFor(p model.Point) *model.Node {
	if p.Node.Type != model.DocumentNode {
		return model.BlockOf(p.Node)
	}
	if b := p.Node.ChildAt(p.Offset); b != nil {
		return b
	}
	return p.Node.LastChild()
}

// orderPoints compares two host points. Points inside the same block are
// compared by their text offset within it.
func orderPoints(a, b model.Point) (int, bool) {
	if a.Node == b.Node {
		return cmp.Compare(a.Offset, b.Offset), true
	}
	if model.CommonAncestor(a.Node, b.Node) == nil {
		return 0, false
	}
	block := model.BlockOf(a.Node)
	if block != nil && block == model.BlockOf(b.Node) {
		oa := OffsetWithinNode(block, a.Node, a.Offset)
		ob := OffsetWithinNode(block, b.Node, b.Offset)
		if oa >= 0 && ob >= 0 && oa != ob {
			return cmp.Compare(oa, ob), true
		}
	}
	return model.ComparePoints(a, b), true
}

// IsRange reports whether the selection spans any content.
func (sel Selection) IsRange() bool {
	return sel.Valid && sel.Start != sel.End
}

// IsSingleBlock reports whether both ends lie in one block.
func (sel Selection) IsSingleBlock() bool {
	return sel.Valid && sel.StartBlock == sel.EndBlock
}

// StartOffset is the text offset of Start within its block.
func (sel Selection) StartOffset() int {
	return OffsetWithinNode(sel.StartBlock, sel.Start.Node, sel.Start.Offset)
}

// EndOffset is the text offset of End within its block.
func (sel Selection) EndOffset() int {
	return OffsetWithinNode(sel.EndBlock, sel.End.Node, sel.End.Offset)
}

// AtBlockStart reports whether the selection is a caret at the start of its
// block.
func (sel Selection) AtBlockStart() bool {
	return sel.Valid && !sel.IsRange() && sel.StartOffset() == 0
}

// Clone returns a copy that is unaffected by later updates.
func (sel *Selection) Clone() Selection {
	return *sel
}

// Restore pushes the selection onto s. It returns false, without touching
// s, when an end is not attached to the document any more.
func (sel *Selection) Restore(s Surface) bool {
	if !sel.Valid || !sel.Start.Node.IsConnected() || !sel.End.Node.IsConnected() {
		return false
	}
	anchor, focus := sel.Start, sel.End
	if sel.FocusBeforeAnchor {
		anchor, focus = focus, anchor
	}
	s.SetSelection(anchor, focus)
	s.ScrollIntoView(focus)
	return true
}

// RepairReplaced points ends that referenced old at replacement instead.
func (sel *Selection) RepairReplaced(old, replacement *model.Node) {
	if sel.Start.Node == old {
		sel.Start.Node = replacement
	}
	if sel.End.Node == old {
		sel.End.Node = replacement
	}
	if sel.StartBlock == old {
		sel.StartBlock = replacement
	}
	if sel.EndBlock == old {
		sel.EndBlock = replacement
	}
}

func endOf(n *model.Node) model.Point {
	return model.Point{Node: n, Offset: n.ChildCount()}
}

func (sel *Selection) extendTo(block *model.Node) {
	if block == nil || block == sel.EndBlock {
		return
	}
	sel.EndBlock = block
	sel.End = endOf(block)
}

// ExpandToIncludeHiddenTail grows the selection over the invisible blocks
// that follow its last block.
func (sel *Selection) ExpandToIncludeHiddenTail(e *outline.Engine) {
	sel.extendTo(e.ThisOrLastHiddenChild(sel.EndBlock))
}

// ExpandToIncludeLastChild grows the selection over the subtree of its last
// block.
func (sel *Selection) ExpandToIncludeLastChild(e *outline.Engine) {
	sel.extendTo(e.ThisOrLastChild(sel.EndBlock))
}

// ExpandToIncludeChildrenBelowLevel grows the selection over the following
// blocks deeper than level.
func (sel *Selection) ExpandToIncludeChildrenBelowLevel(level int) {
	last := sel.EndBlock
	for cur := last.NextSibling(); cur != nil; cur = cur.NextSibling() {
		if !cur.IsElement() {
			continue
		}
		if model.LevelOf(cur) <= level {
			break
		}
		last = cur
	}
	sel.extendTo(last)
}

// ExpandToIncludeAllChildren grows the selection so every selected block
// has its whole subtree selected.
func (sel *Selection) ExpandToIncludeAllChildren() {
	shallowest := model.LevelOf(sel.StartBlock)
	for n := range sel.Blocks() {
		shallowest = min(shallowest, model.LevelOf(n))
	}
	sel.ExpandToIncludeChildrenBelowLevel(shallowest)
}

// Reanchor moves ends that sit in a block folded away by the showing depth
// to the nearest shown block. It reports whether anything moved.
func (sel *Selection) Reanchor(e *outline.Engine) bool {
	if !sel.Valid {
		return false
	}
	start := survivor(e, sel.StartBlock)
	end := survivor(e, sel.EndBlock)
	if start == sel.StartBlock && end == sel.EndBlock {
		return false
	}
	if start == nil || end == nil {
		return false
	}
	if start == end {
		sel.Collapse(model.Point{Node: start, Offset: 0})
		return true
	}
	if start != sel.StartBlock {
		sel.StartBlock = start
		sel.Start = model.Point{Node: start, Offset: 0}
	}
	if end != sel.EndBlock {
		sel.EndBlock = end
		sel.End = endOf(end)
	}
	return true
}

func survivor(e *outline.Engine, n *model.Node) *model.Node {
	if !n.BelowThreshold() {
		return n
	}
	threshold := e.Threshold()
	if res := e.PreviousVisibleSiblingAtLevelOrAbove(n, threshold); res.Found() {
		return res.Node
	}
	return e.NextVisibleSiblingAtLevelOrAbove(n, threshold).Node
}

// Blocks yields the selected blocks in order.
func (sel *Selection) Blocks() iter.Seq[*model.Node] {
	if !sel.Valid {
		return func(func(*model.Node) bool) {}
	}
	return model.BlocksBetween(sel.StartBlock, sel.EndBlock)
}

// BlocksReversed yields the selected blocks from last to first.
func (sel *Selection) BlocksReversed() iter.Seq[*model.Node] {
	if !sel.Valid {
		return func(func(*model.Node) bool) {}
	}
	return model.BlocksBetweenReversed(sel.StartBlock, sel.EndBlock)
}

// FullyVisibleBlocks yields the selected blocks that are expanded and shown.
func (sel *Selection) FullyVisibleBlocks(e *outline.Engine) iter.Seq[*model.Node] {
	return func(yield func(*model.Node) bool) {
		for n := range sel.Blocks() {
			if e.IsFullyVisible(n) && !yield(n) {
				return
			}
		}
	}
}
