package app

import (
	"slices"
	"strings"
	"unicode"

	"github.com/pstuifzand/sermonedit/internal/model"
	"github.com/pstuifzand/sermonedit/internal/selection"
)

// InsertText types text at the selection, replacing a range first. Typing
// coalesces into one undo step until the text contains a space. A space at
// the start of a paragraph indents it instead.
func (e *Editor) InsertText(text string) bool {
	if text == "" || !e.update() {
		return false
	}
	if text == " " && e.sel.AtBlockStart() && e.indent() {
		return true
	}

	e.Begin(CategoryText)
	e.sectionHighlight = false
	recount := false
	if e.sel.IsRange() {
		e.deleteSelection()
		recount = true
	}

	block := e.sel.StartBlock
	offset := e.sel.StartOffset()
	at := pointAt(block, offset)
	if at.Node.IsText() {
		runes := []rune(at.Node.Data())
		off := min(at.Offset, len(runes))
		e.doc.SetText(at.Node, string(runes[:off])+text+string(runes[off:]))
	} else {
		e.doc.Append(block, e.doc.NewText(text))
	}
	e.caret(pointAt(block, offset+len([]rune(text))))

	if recount {
		e.outline.RecountAll()
	} else {
		e.refreshWords(block)
	}
	e.finish()
	if strings.ContainsFunc(text, unicode.IsSpace) {
		e.history.Boundary()
	}
	return true
}

// Backspace handles the backspace key. At the start of a list item it
// outdents by one level. Otherwise it deletes like the host would: the
// range, the rune before the caret, or the boundary with the previous block.
func (e *Editor) Backspace() bool {
	e.Begin(CategoryBackspace)
	e.sectionHighlight = false
	if !e.update() {
		return false
	}
	block := e.sel.StartBlock

	if e.sel.AtBlockStart() && model.LevelOf(block) > model.PLevel {
		e.outline.SetListLevel(block, block.IndentLevel()-1)
		e.outline.RecountAll()
		e.finish()
		return true
	}

	switch {
	case e.sel.IsRange():
		e.deleteSelection()
		e.outline.RecountAll()
	case e.sel.StartOffset() > 0:
		offset := e.sel.StartOffset()
		at := pointAt(block, offset)
		runes := []rune(at.Node.Data())
		e.doc.SetText(at.Node, string(runes[:at.Offset-1])+string(runes[at.Offset:]))
		e.caret(pointAt(block, offset-1))
		e.refreshWords(block)
	default:
		prev := e.outline.PreviousVisibleSibling(block)
		if !prev.Found() {
			return false
		}
		e.mergeInto(prev.Node, block)
		e.outline.RecountAll()
	}
	e.finish()
	return true
}

// mergeInto appends the content of block to target, removes block and puts
// the caret at the seam
func (e *Editor) mergeInto(target, block *model.Node) {
	seam := selection.TextLength(target)
	e.doc.MoveChildren(block, target)
	e.doc.Remove(block)
	e.doc.ClearWordCounters(target)
	e.caret(pointAt(target, seam))
}

// Enter splits the block at the selection. At the start of a list item it
// turns the item back into a plain paragraph. Headings are continued by a
// plain paragraph, and a split that leaves only whitespace behind creates a
// clean empty one.
func (e *Editor) Enter() bool {
	e.Begin(CategoryEnter)
	e.sectionHighlight = false
	if !e.update() {
		return false
	}

	if e.sel.AtBlockStart() && model.LevelOf(e.sel.StartBlock) > model.PLevel {
		e.outline.SetListLevel(e.sel.StartBlock, 0)
		e.outline.RecountAll()
		e.finish()
		return true
	}

	if e.sel.IsRange() {
		e.deleteSelection()
	}
	block := e.sel.StartBlock
	e.doc.ClearWordCounters(block)

	fresh := e.doc.NewElement(model.TagP)
	if block.IsHeading() && e.sel.StartOffset() == 0 && selection.TextLength(block) > 0 {
		// The heading keeps its text, an empty paragraph opens above it
		e.doc.InsertBefore(e.doc.Root(), block, fresh)
		e.caret(startOf(block))
		e.outline.ApplyShowingDepth()
		e.outline.RecountAll()
		e.finish()
		return true
	}
	anchor := block
	if block.Hidden() {
		anchor = e.outline.ThisOrLastHiddenChild(block)
	}
	e.doc.InsertAfter(anchor, fresh)
	if !block.IsHeading() {
		e.outline.SetListLevel(fresh, block.IndentLevel())
		e.doc.SetFlag(fresh, model.AttrAltA, block.AltA())
		e.doc.SetFlag(fresh, model.AttrAltB, block.AltB())
	}

	e.doc.SplitAt(block, pointAt(block, e.sel.StartOffset()), fresh)
	if strings.TrimSpace(fresh.TextContent()) == "" {
		for c := fresh.FirstChild(); c != nil; c = fresh.FirstChild() {
			e.doc.Remove(c)
		}
	}

	e.caret(startOf(fresh))
	e.outline.ApplyShowingDepth()
	e.outline.RecountAll()
	e.finish()
	return true
}

// deleteSelection removes the selected content. The start and end blocks
// are joined and every block between them is deleted. The caret ends up
// where the range started.
func (e *Editor) deleteSelection() {
	start, end := e.sel.StartBlock, e.sel.EndBlock
	startOffset, endOffset := e.sel.StartOffset(), e.sel.EndOffset()

	tail := e.doc.NewElement(end.Tag)
	e.doc.SplitAt(end, pointAt(end, endOffset), tail)
	cut := e.doc.NewElement(start.Tag)
	e.doc.SplitAt(start, pointAt(start, startOffset), cut)

	if start != end {
		between := slices.Collect(model.BlocksBetween(start, end))
		for _, n := range between[1:] {
			e.doc.Remove(n)
		}
	}
	e.doc.MoveChildren(tail, start)
	e.doc.ClearWordCounters(start)
	e.caret(pointAt(start, startOffset))
}

// Select puts the host selection between anchor and focus and processes
// the change
func (e *Editor) Select(anchor, focus model.Point) {
	e.Begin(CategoryMoveCaret)
	e.surface.SetSelection(anchor, focus)
	e.SelectionChanged()
}

// MoveCaret moves the caret by delta runes, crossing into neighbouring
// visible blocks
func (e *Editor) MoveCaret(delta int) bool {
	if !e.update() {
		return false
	}
	e.Begin(CategoryMoveCaret)
	block := e.sel.EndBlock
	offset := e.sel.EndOffset() + delta
	for offset < 0 {
		prev := e.outline.PreviousVisibleSibling(block)
		if !prev.Found() {
			offset = 0
			break
		}
		block = prev.Node
		offset += selection.TextLength(block) + 1
	}
	for offset > selection.TextLength(block) {
		next := e.outline.NextVisibleSibling(block)
		if !next.Found() {
			offset = selection.TextLength(block)
			break
		}
		offset -= selection.TextLength(block) + 1
		block = next.Node
	}
	p := pointAt(block, offset)
	e.surface.SetSelection(p, p)
	e.SelectionChanged()
	return true
}

// MoveLine moves the caret to the previous (-1) or next (1) visible block,
// keeping the offset where the block is long enough
func (e *Editor) MoveLine(direction int) bool {
	if !e.update() {
		return false
	}
	e.Begin(CategoryMoveCaret)
	offset := e.sel.EndOffset()
	var target *model.Node
	if direction < 0 {
		target = e.outline.PreviousVisibleSibling(e.sel.EndBlock).Node
	} else {
		target = e.outline.NextVisibleSibling(e.sel.EndBlock).Node
	}
	if target == nil {
		return false
	}
	p := pointAt(target, min(offset, selection.TextLength(target)))
	e.surface.SetSelection(p, p)
	e.SelectionChanged()
	return true
}

// SelectionChanged processes a change of the host selection or of the text
// under it. The selected blocks are recounted: a change confined to one
// block is propagated, anything else recounts the whole outline.
func (e *Editor) SelectionChanged() {
	if !e.update() {
		e.highlight()
		return
	}
	var single *model.Node
	delta := 0
	bigChange := false
	for n := range e.sel.FullyVisibleBlocks(e.outline) {
		d := e.outline.RefreshWordCount(n)
		switch {
		case !d.HadValidCache:
			bigChange = true
		case d.Delta != 0 && single != nil:
			bigChange = true
		case d.Delta != 0:
			single, delta = n, d.Delta
		}
	}
	switch {
	case bigChange:
		e.outline.RecountAll()
	case single != nil && !single.Hidden() && model.LevelOf(single) >= model.PLevel:
		e.outline.PropagateDelta(single, delta, true)
	}
	e.highlight()
	if e.history.Flush() {
		e.dirty = true
	}
}
