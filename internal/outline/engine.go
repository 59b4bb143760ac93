// Package outline implements the level, word-count and visibility rules that
// turn the flat block sequence of a model.Document into an outline.
package outline

import (
	"github.com/pstuifzand/sermonedit/internal/model"
)

// Engine binds the outline rules to one document.
type Engine struct {
	doc          *model.Document
	showingDepth int

	// OnReplace is called after a block was swapped for a block of another
	// kind, so holders of references (the selection) can follow it.
	OnReplace func(old, replacement *model.Node)
}

// New creates an engine with everything showing.
func New(doc *model.Document) *Engine {
	return &Engine{
		doc:          doc,
		showingDepth: model.MaxShowing,
	}
}

// Document returns the document the engine works on.
func (e *Engine) Document() *model.Document {
	return e.doc
}

// SiblingResult is the outcome of a sibling search. Immediate is true when
// no skipped node lay between the start node and Node.
type SiblingResult struct {
	Node      *model.Node
	Immediate bool
}

// Found reports whether the search found a node.
func (r SiblingResult) Found() bool { return r.Node != nil }

// visible reports whether a block takes part in sibling searches.
func visible(n *model.Node) bool {
	return !n.HiddenByParent() && !n.BelowThreshold()
}

func (e *Engine) searchBackward(n *model.Node, match func(*model.Node) bool) SiblingResult {
	res := SiblingResult{Immediate: true}
	for cur := n.PreviousSibling(); cur != nil; cur = cur.PreviousSibling() {
		if cur.IsElement() && visible(cur) && match(cur) {
			res.Node = cur
			return res
		}
		res.Immediate = false
	}
	return SiblingResult{}
}

func (e *Engine) searchForward(n *model.Node, match func(*model.Node) bool) SiblingResult {
	res := SiblingResult{Immediate: true}
	for cur := n.NextSibling(); cur != nil; cur = cur.NextSibling() {
		if cur.IsElement() && visible(cur) && match(cur) {
			res.Node = cur
			return res
		}
		res.Immediate = false
	}
	return SiblingResult{}
}

// PreviousVisibleSiblingAtLevelOrAbove finds the nearest preceding visible
// block whose level is at most level.
func (e *Engine) PreviousVisibleSiblingAtLevelOrAbove(n *model.Node, level int) SiblingResult {
	return e.searchBackward(n, func(c *model.Node) bool { return model.LevelOf(c) <= level })
}

// NextVisibleSiblingAtLevelOrAbove finds the nearest following visible block
// whose level is at most level.
func (e *Engine) NextVisibleSiblingAtLevelOrAbove(n *model.Node, level int) SiblingResult {
	return e.searchForward(n, func(c *model.Node) bool { return model.LevelOf(c) <= level })
}

// PreviousVisibleSiblingAtLevel finds the nearest preceding visible block at
// exactly level. The search ends without a result at a shallower block.
func (e *Engine) PreviousVisibleSiblingAtLevel(n *model.Node, level int) SiblingResult {
	res := e.PreviousVisibleSiblingAtLevelOrAbove(n, level)
	if res.Node != nil && model.LevelOf(res.Node) != level {
		return SiblingResult{}
	}
	return res
}

// NextVisibleSiblingAtLevel finds the nearest following visible block at
// exactly level.
func (e *Engine) NextVisibleSiblingAtLevel(n *model.Node, level int) SiblingResult {
	res := e.NextVisibleSiblingAtLevelOrAbove(n, level)
	if res.Node != nil && model.LevelOf(res.Node) != level {
		return SiblingResult{}
	}
	return res
}

// PreviousVisibleSibling finds the nearest preceding visible block.
func (e *Engine) PreviousVisibleSibling(n *model.Node) SiblingResult {
	return e.searchBackward(n, func(*model.Node) bool { return true })
}

// NextVisibleSibling finds the nearest following visible block.
func (e *Engine) NextVisibleSibling(n *model.Node) SiblingResult {
	return e.searchForward(n, func(*model.Node) bool { return true })
}

// ThisOrLastHiddenChild returns the last block of the invisible tail that
// follows n: descendants hidden by a collapsed ancestor, or folded away by
// the showing depth. Without such a tail it returns n.
func (e *Engine) ThisOrLastHiddenChild(n *model.Node) *model.Node {
	if n == nil {
		return nil
	}
	last := n
	lvl := model.LevelOf(n)
	for cur := n.NextSibling(); cur != nil; cur = cur.NextSibling() {
		if !cur.IsElement() {
			continue
		}
		if model.LevelOf(cur) <= lvl || visible(cur) {
			break
		}
		last = cur
	}
	return last
}

// ThisOrLastChild returns the last block contained by n, or n itself.
func (e *Engine) ThisOrLastChild(n *model.Node) *model.Node {
	last := n
	for c := range model.ChildrenOf(n) {
		last = c
	}
	return last
}
