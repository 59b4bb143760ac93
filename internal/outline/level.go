package outline

import (
	"github.com/pstuifzand/sermonedit/internal/model"
)

var promotion = map[string]string{
	model.TagP:  model.TagH4,
	model.TagH4: model.TagH3,
	model.TagH3: model.TagH2,
	model.TagH2: model.TagH1,
}

var demotion = map[string]string{
	model.TagH1: model.TagH2,
	model.TagH2: model.TagH3,
	model.TagH3: model.TagH4,
	model.TagH4: model.TagP,
}

// SetListLevel sets the list depth of a paragraph and returns the depth
// that was applied. Depth 0 makes it a plain paragraph again.
func (e *Engine) SetListLevel(n *model.Node, depth int) int {
	if !n.IsParagraph() {
		return 0
	}
	depth = min(max(depth, 0), model.MaxIndent)

	wasList := n.IndentLevel() > 0
	if wasList != (depth > 0) {
		e.doc.SetFlag(n, model.AttrAltA, false)
		e.doc.SetFlag(n, model.AttrAltB, false)
	}

	if depth > 0 {
		e.doc.SetFlag(n, model.AttrListItem, true)
		e.doc.SetFlag(n, model.AttrEvenList, depth%2 == 0)
	} else {
		e.doc.SetFlag(n, model.AttrListItem, false)
		e.doc.SetFlag(n, model.AttrEvenList, false)
	}
	model.LevelOf(n)
	e.doc.SetAttr(n, model.AttrLevel, model.PLevel+depth)
	return depth
}

// Promote moves a block one step up the outline. It returns the block that
// now holds the content, which differs from n after a kind conversion, and
// whether anything changed.
func (e *Engine) Promote(n *model.Node) (*model.Node, bool) {
	if n.IsParagraph() {
		if depth := n.IndentLevel(); depth > 0 {
			e.SetListLevel(n, depth-1)
			return n, true
		}
	}
	tag, ok := promotion[n.Tag]
	if !ok {
		return n, false
	}
	return e.convert(n, tag), true
}

// Demote moves a block one step down the outline. Paragraphs become list
// items. Nothing happens when the result would be folded away by the
// current showing depth.
func (e *Engine) Demote(n *model.Node) (*model.Node, bool) {
	if n.IsParagraph() {
		depth := n.IndentLevel()
		if depth >= model.MaxIndent || model.PLevel+depth+1 > e.Threshold() {
			return n, false
		}
		e.SetListLevel(n, depth+1)
		return n, true
	}
	tag, ok := demotion[n.Tag]
	if !ok || model.LevelForTag(tag) > e.Threshold() {
		return n, false
	}
	return e.convert(n, tag), true
}

// convert swaps n for a new element of kind tag holding the same inline
// content and metadata.
func (e *Engine) convert(n *model.Node, tag string) *model.Node {
	replacement := e.doc.NewElement(tag)
	e.doc.CopyDataFromTo(n, replacement)
	prepareDetached(e.doc, replacement, tag)

	e.doc.InsertBefore(n.Parent(), n, replacement)
	e.doc.Remove(n)
	e.doc.MoveChildren(n, replacement)

	if e.OnReplace != nil {
		e.OnReplace(n, replacement)
	}
	return replacement
}

// prepareDetached fixes up the metadata of a block that is not yet part of
// the document, so none of it is recorded.
func prepareDetached(doc *model.Document, n *model.Node, tag string) {
	release := doc.Suppress()
	defer release()
	doc.SetAttr(n, model.AttrLevel, model.LevelForTag(tag))
	if n.IsHeading() {
		doc.SetFlag(n, model.AttrListItem, false)
		doc.SetFlag(n, model.AttrEvenList, false)
		doc.SetFlag(n, model.AttrAltA, false)
		doc.SetFlag(n, model.AttrAltB, false)
	}
}

// MatchContextListType gives a list item the numbering style of the list
// item before it at the same depth.
func (e *Engine) MatchContextListType(n *model.Node) {
	if !n.ListItem() {
		return
	}
	sib := e.PreviousVisibleSiblingAtLevel(n, model.LevelOf(n))
	if sib.Node == nil || !sib.Node.ListItem() {
		return
	}
	e.doc.SetFlag(n, model.AttrAltA, sib.Node.AltA())
}
