package history

import (
	"cmp"

	"github.com/pstuifzand/sermonedit/internal/model"
	"github.com/pstuifzand/sermonedit/internal/selection"
)

// selectingAttrs are the attributes whose restoration selects their block.
// Word counts and collapse flags of descendants change alongside many edits
// and would stretch the selection over unrelated blocks.
var selectingAttrs = map[model.Attr]bool{
	model.AttrLevel:    true,
	model.AttrHidden:   true,
	model.AttrListItem: true,
	model.AttrEvenList: true,
	model.AttrAltA:     true,
	model.AttrAltB:     true,
}

// invert applies the inverse of r. It returns false when r does not fit
// the document any more.
func invert(doc *model.Document, r model.Record, ranges *touched) bool {
	switch r.Type {
	case model.RecordInsert:
		return invertInsert(doc, r, ranges)
	case model.RecordRemove:
		return invertRemove(doc, r, ranges)
	case model.RecordAttribute:
		if r.Target == nil {
			return false
		}
		doc.SetAttr(r.Target, r.Attr, r.OldValue)
		if selectingAttrs[r.Attr] && r.Target.IsBlock() {
			ranges.add(model.Point{Node: r.Target, Offset: 0}, endOf(r.Target))
		}
		return true
	case model.RecordText:
		if !r.Target.IsText() {
			return false
		}
		current := r.Target.Data()
		doc.SetText(r.Target, r.OldText)
		start, end := changedRange(r.OldText, current)
		ranges.add(model.Point{Node: r.Target, Offset: start}, model.Point{Node: r.Target, Offset: end})
		return true
	}
	return false
}

func invertInsert(doc *model.Document, r model.Record, ranges *touched) bool {
	if r.Target == nil || len(r.Added) == 0 {
		return false
	}
	for i := len(r.Added) - 1; i >= 0; i-- {
		if r.Added[i].Parent() != r.Target {
			return false
		}
	}
	for i := len(r.Added) - 1; i >= 0; i-- {
		n := r.Added[i]
		prev, next := n.PreviousSibling(), n.NextSibling()
		idx := n.Index()
		doc.Remove(n)

		var at model.Point
		switch {
		case r.Target.Type != model.DocumentNode:
			at = model.Point{Node: r.Target, Offset: idx}
		case prev != nil:
			at = endOf(prev)
		case next != nil:
			at = model.Point{Node: next, Offset: 0}
		default:
			continue
		}
		ranges.add(at, at)
	}
	return true
}

func invertRemove(doc *model.Document, r model.Record, ranges *touched) bool {
	if r.Target == nil || len(r.Removed) == 0 {
		return false
	}
	for _, n := range r.Removed {
		if n.Parent() != nil {
			return false
		}
	}
	for _, n := range r.Removed {
		switch {
		case r.NextSibling != nil && r.NextSibling.Parent() == r.Target:
			doc.InsertBefore(r.Target, r.NextSibling, n)
		case r.PreviousSibling != nil && r.PreviousSibling.Parent() == r.Target:
			doc.InsertAfter(r.PreviousSibling, n)
		default:
			doc.Append(r.Target, n)
		}
		ranges.add(model.Point{Node: n, Offset: 0}, endOf(n))
	}
	return true
}

func endOf(n *model.Node) model.Point {
	return model.Point{Node: n, Offset: n.Length()}
}

// changedRange compares the restored text with the text it replaces and
// returns the rune range of restored that differs. The common suffix never
// overlaps the common prefix, and when the length changed the range is at
// least as wide as the difference.
func changedRange(restored, replaced string) (int, int) {
	a, b := []rune(restored), []rune(replaced)
	shortest := min(len(a), len(b))

	prefix := 0
	for prefix < shortest && a[prefix] == b[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < shortest-prefix && a[len(a)-1-suffix] == b[len(b)-1-suffix] {
		suffix++
	}

	start, end := prefix, len(a)-suffix
	if grow := len(a) - len(b); grow > 0 && end-start < grow {
		end = min(start+grow, len(a))
	}
	return start, end
}

// touched gathers the ranges affected by a replay.
type touched struct {
	ranges  [][2]model.Point
	applied bool
}

func (t *touched) add(start, end model.Point) {
	t.ranges = append(t.ranges, [2]model.Point{start, end})
}

// order compares points in the document. Points inside one block are
// compared by their text offset, so the end of a run and the start of the
// next one are equivalent.
func order(a, b model.Point) int {
	block := model.BlockOf(a.Node)
	if block != nil && block == model.BlockOf(b.Node) {
		oa := selection.OffsetWithinNode(block, a.Node, a.Offset)
		ob := selection.OffsetWithinNode(block, b.Node, b.Offset)
		if oa >= 0 && ob >= 0 {
			return cmp.Compare(oa, ob)
		}
	}
	return model.ComparePoints(a, b)
}

// prefer reports whether candidate should replace current: when it lies
// further in direction (-1 for starts, 1 for ends), or is equivalent and
// more deeply nested.
func prefer(candidate, current model.Point, direction int) bool {
	if current.IsZero() {
		return true
	}
	switch order(candidate, current) {
	case direction:
		return true
	case 0:
		return model.Depth(candidate.Node) > model.Depth(current.Node)
	}
	return false
}

// result spans the earliest start and the latest end of the ranges that
// are still part of the document.
func (t *touched) result() Result {
	res := Result{Applied: t.applied}
	for _, r := range t.ranges {
		start, end := r[0], r[1]
		if !start.Node.IsConnected() || !end.Node.IsConnected() {
			continue
		}
		if prefer(start, res.Start, -1) {
			res.Start = start
		}
		if prefer(end, res.End, 1) {
			res.End = end
		}
	}
	return res
}
