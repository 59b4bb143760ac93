package app

import (
	"slices"

	"github.com/pstuifzand/sermonedit/internal/history"
	"github.com/pstuifzand/sermonedit/internal/model"
	"github.com/pstuifzand/sermonedit/internal/selection"
)

// Promote raises every fully visible selected block one level
func (e *Editor) Promote() bool {
	return e.adjustLevel(e.outline.Promote)
}

// Demote lowers every fully visible selected block one level
func (e *Editor) Demote() bool {
	return e.adjustLevel(e.outline.Demote)
}

func (e *Editor) adjustLevel(op func(*model.Node) (*model.Node, bool)) bool {
	e.Begin(CategoryPromote)
	if !e.update() {
		return false
	}
	single := e.sel.IsSingleBlock()
	changed := false
	for _, n := range slices.Collect(e.sel.FullyVisibleBlocks(e.outline)) {
		replacement, ok := op(n)
		if !ok {
			continue
		}
		changed = true
		if single {
			e.outline.MatchContextListType(replacement)
		}
	}
	if changed {
		e.outline.RecountAll()
	}
	e.finish()
	return changed
}

// Indent handles Tab. A range demotes the selected blocks. A caret at the
// start of a paragraph makes it one list level deeper. Anything else is not
// handled.
func (e *Editor) Indent() bool {
	if !e.update() {
		return false
	}
	return e.indent()
}

func (e *Editor) indent() bool {
	if e.sel.IsRange() {
		return e.Demote()
	}
	if !e.sel.AtBlockStart() || model.LevelOf(e.sel.StartBlock) < model.PLevel {
		return false
	}
	e.Begin(CategoryPromote)
	n := e.sel.StartBlock
	before := n.IndentLevel()
	if e.outline.SetListLevel(n, before+1) == before {
		e.finish()
		return false
	}
	e.outline.MatchContextListType(n)
	e.outline.RecountAll()
	e.finish()
	return true
}

// MoveUp moves the selected blocks, with their collapsed tail, above the
// previous visible block
func (e *Editor) MoveUp() bool {
	e.Begin(CategoryMove)
	e.sectionHighlight = false
	if !e.update() {
		return false
	}
	before := e.sel.Clone()
	defer e.restoreAfterMove(before)

	e.sel.ExpandToIncludeHiddenTail(e.outline)
	blocks := slices.Collect(e.sel.Blocks())
	start := e.sel.StartBlock

	if prev := e.outline.PreviousVisibleSibling(start); prev.Found() {
		e.doc.InsertBefore(e.doc.Root(), prev.Node, blocks...)
	} else if start != e.doc.FirstBlock() {
		e.doc.Prepend(e.doc.Root(), blocks...)
	} else {
		return false
	}
	e.outline.RecountAll()
	return true
}

// MoveDown moves the selected blocks, with their collapsed tail, below the
// next visible block and its collapsed tail
func (e *Editor) MoveDown() bool {
	e.Begin(CategoryMove)
	e.sectionHighlight = false
	if !e.update() {
		return false
	}
	before := e.sel.Clone()
	defer e.restoreAfterMove(before)

	e.sel.ExpandToIncludeHiddenTail(e.outline)
	blocks := slices.Collect(e.sel.Blocks())
	end := e.sel.EndBlock

	if next := e.outline.NextVisibleSibling(end); next.Found() {
		e.doc.InsertAfter(e.outline.ThisOrLastHiddenChild(next.Node), blocks...)
	} else if end != e.doc.LastBlock() {
		e.doc.Append(e.doc.Root(), blocks...)
	} else {
		return false
	}
	e.outline.RecountAll()
	return true
}

// MoveSectionUp moves the current block and all of its children above the
// previous section of the same or a higher level
func (e *Editor) MoveSectionUp() bool {
	e.Begin(CategoryMove)
	e.sectionHighlight = true
	if !e.update() || !e.sel.IsSingleBlock() {
		return false
	}
	before := e.sel.Clone()
	defer e.restoreAfterMove(before)

	e.sel.ExpandToIncludeAllChildren()
	blocks := slices.Collect(e.sel.Blocks())
	start := e.sel.StartBlock
	level := model.LevelOf(start)

	prev := e.outline.PreviousVisibleSiblingAtLevelOrAbove(start, level)
	if !prev.Found() {
		return false
	}
	e.doc.InsertBefore(e.doc.Root(), prev.Node, blocks...)
	e.outline.RecountAll()
	return true
}

// MoveSectionDown moves the current block and all of its children below the
// next section of the same or a higher level
func (e *Editor) MoveSectionDown() bool {
	e.Begin(CategoryMove)
	e.sectionHighlight = true
	if !e.update() || !e.sel.IsSingleBlock() {
		return false
	}
	before := e.sel.Clone()
	defer e.restoreAfterMove(before)

	e.sel.ExpandToIncludeAllChildren()
	blocks := slices.Collect(e.sel.Blocks())
	start, end := e.sel.StartBlock, e.sel.EndBlock
	level := model.LevelOf(start)
	root := e.doc.Root()

	next := e.outline.NextVisibleSiblingAtLevelOrAbove(e.outline.ThisOrLastChild(start), level)
	if next.Found() {
		if after := e.outline.NextVisibleSiblingAtLevelOrAbove(next.Node, level); after.Found() {
			e.doc.InsertBefore(root, after.Node, blocks...)
			e.outline.RecountAll()
			return true
		}
	}
	if end == e.doc.LastBlock() {
		return false
	}
	e.doc.Append(root, blocks...)
	e.outline.RecountAll()
	return true
}

// restoreAfterMove puts back the selection as it was before expansion
func (e *Editor) restoreAfterMove(before selection.Selection) {
	e.sel = before
	e.finish()
}

// ToggleHide collapses or expands every selected block, last one first
func (e *Editor) ToggleHide() bool {
	e.Begin(CategoryHide)
	if !e.update() {
		return false
	}
	needsRecount := false
	for _, n := range slices.Collect(e.sel.BlocksReversed()) {
		needsRecount = e.outline.ToggleHidden(n) || needsRecount
	}
	if needsRecount {
		e.outline.RecountAll()
	}
	e.finish()
	return true
}

// RemoveBlocks deletes the selected blocks and their collapsed tail
// outright. The caret lands on the block that follows them.
func (e *Editor) RemoveBlocks() bool {
	e.Begin(CategoryRemove)
	if !e.update() {
		return false
	}
	e.sel.ExpandToIncludeHiddenTail(e.outline)
	blocks := slices.Collect(e.sel.Blocks())
	if len(blocks) == 0 {
		return false
	}
	prev := blocks[0].PreviousSibling()
	next := blocks[len(blocks)-1].NextSibling()
	for _, n := range blocks {
		e.doc.Remove(n)
	}

	switch {
	case next != nil:
		e.caret(startOf(next))
	case prev != nil:
		e.caret(endOf(prev))
	default:
		e.caret(startOf(e.doc.EnsureNotEmpty()))
	}
	e.outline.ApplyShowingDepth()
	e.outline.RecountAll()
	e.finish()
	return true
}

// ToggleAltA switches the first alternate style of the selected
// paragraphs. The style is cleared only when every one of them has it.
func (e *Editor) ToggleAltA() bool {
	return e.toggleStyle(CategoryToggleAltA, model.AttrAltA)
}

// ToggleAltB switches the second alternate style of the selected
// paragraphs.
func (e *Editor) ToggleAltB() bool {
	return e.toggleStyle(CategoryToggleAltB, model.AttrAltB)
}

func (e *Editor) toggleStyle(c Category, attr model.Attr) bool {
	e.Begin(c)
	if !e.update() {
		return false
	}
	var targets []*model.Node
	allSet := true
	for n := range e.sel.FullyVisibleBlocks(e.outline) {
		if model.LevelOf(n) < model.PLevel {
			continue
		}
		targets = append(targets, n)
		allSet = allSet && n.Flag(attr)
	}
	for _, n := range targets {
		e.doc.SetFlag(n, attr, !allSet)
	}
	e.finish()
	return len(targets) > 0
}

// SetShowingDepth folds the outline to depth and moves the selection off
// blocks that disappeared
func (e *Editor) SetShowingDepth(depth int) bool {
	e.Begin(NoCategory)
	e.update()
	if !e.outline.SetShowingDepth(depth) {
		return false
	}
	e.sel.Reanchor(e.outline)
	e.finish()
	return true
}

// ShowMore reveals one more level of the outline
func (e *Editor) ShowMore() bool {
	return e.SetShowingDepth(e.outline.ShowingDepth() + 1)
}

// ShowLess hides the deepest visible level of the outline
func (e *Editor) ShowLess() bool {
	return e.SetShowingDepth(e.outline.ShowingDepth() - 1)
}

// Undo reverts the last step and selects what it touched
func (e *Editor) Undo() bool {
	return e.replay(e.history.Undo, "Nothing to undo")
}

// Redo reapplies the last undone step
func (e *Editor) Redo() bool {
	return e.replay(e.history.Redo, "Nothing to redo")
}

func (e *Editor) replay(step func() history.Result, empty string) bool {
	e.Begin(CategoryUndoRedo)
	e.sectionHighlight = false
	res := step()
	if !res.Applied {
		e.SetStatus(empty)
		return false
	}
	if !res.Start.IsZero() {
		e.sel.Set(inBlock(res.Start), inBlock(res.End))
	}
	e.finish()
	return true
}

// inBlock turns a point between blocks into a point inside the block at it
func inBlock(p model.Point) model.Point {
	switch {
	case p.Node.Type != model.DocumentNode:
		return p
	case p.Node.ChildAt(p.Offset) != nil:
		return startOf(p.Node.ChildAt(p.Offset))
	case p.Node.LastChild() != nil:
		return endOf(p.Node.LastChild())
	}
	return p
}
