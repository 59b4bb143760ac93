package outline

import (
	"github.com/pstuifzand/sermonedit/internal/model"
)

// Hide collapses n and marks everything it contains as hidden by it.
func (e *Engine) Hide(n *model.Node) {
	e.doc.SetFlag(n, model.AttrHidden, true)
	for c := range model.ChildrenOf(n) {
		e.doc.SetFlag(c, model.AttrHiddenParent, true)
	}
}

// Unhide expands n. Descendants stay hidden while another collapsed block,
// inside n or above it, still covers them.
func (e *Engine) Unhide(n *model.Node) {
	e.doc.SetFlag(n, model.AttrHidden, false)
	if n.HiddenByParent() {
		return
	}

	// armed holds the levels of collapsed blocks whose subtree is still being
	// walked, shallowest first.
	var armed []int
	for c := range model.ChildrenOf(n) {
		lvl := model.LevelOf(c)
		for len(armed) > 0 && armed[len(armed)-1] >= lvl {
			armed = armed[:len(armed)-1]
		}
		if len(armed) == 0 {
			e.doc.SetFlag(c, model.AttrHiddenParent, false)
		}
		if c.Hidden() {
			armed = append(armed, lvl)
		}
	}
}

// ToggleHidden collapses or expands n and moves the words of its subtree
// out of or back into the totals of its ancestors. It returns true when the
// caller has to recount because n had no valid total.
func (e *Engine) ToggleHidden(n *model.Node) bool {
	invalid := n.ChildWords() == model.NoValue
	total := e.contribution(n)

	hiding := !n.Hidden()
	if hiding {
		e.Hide(n)
		total = -total
	} else {
		e.Unhide(n)
	}

	if invalid {
		return true
	}
	return !e.PropagateDelta(n, total, n.HiddenByParent())
}

// ShowingDepth returns the global folding depth.
func (e *Engine) ShowingDepth() int {
	return e.showingDepth
}

// Threshold is the deepest level shown at the current showing depth.
func (e *Engine) Threshold() int {
	return thresholdFor(e.showingDepth)
}

func thresholdFor(depth int) int {
	if depth >= model.MaxShowing {
		return model.PLevel + model.MaxIndent
	}
	return depth
}

// SetShowingDepth folds away every block deeper than depth and reports
// whether the depth changed.
func (e *Engine) SetShowingDepth(depth int) bool {
	depth = min(max(depth, 0), model.MaxShowing)
	changed := depth != e.showingDepth
	e.showingDepth = depth
	e.ApplyShowingDepth()
	return changed
}

// IncreaseShowingDepth shows one more level.
func (e *Engine) IncreaseShowingDepth() bool {
	return e.SetShowingDepth(e.showingDepth + 1)
}

// DecreaseShowingDepth shows one level less.
func (e *Engine) DecreaseShowingDepth() bool {
	return e.SetShowingDepth(e.showingDepth - 1)
}

// ApplyShowingDepth refreshes the below-threshold flag of every block, for
// example after blocks were restored by undo.
func (e *Engine) ApplyShowingDepth() {
	release := e.doc.Suppress()
	defer release()

	threshold := e.Threshold()
	for n := range e.doc.AllBlocks() {
		e.doc.SetFlag(n, model.AttrFocusedParent, model.LevelOf(n) > threshold)
	}
}

// IsFullyVisible reports whether n is expanded and shown.
func (e *Engine) IsFullyVisible(n *model.Node) bool {
	return !n.Hidden() && !n.HiddenByParent() && !n.BelowThreshold()
}
