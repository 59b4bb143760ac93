package selection

import (
	"math"

	"github.com/pstuifzand/sermonedit/internal/model"
)

// EndOfNode asks FindNodeAndOffsetAt for the end of its container.
const EndOfNode = math.MaxInt

// OffsetWithinNode converts the boundary point (target, offset) into a text
// offset counted from the start of container. It returns -1 when target is
// not inside container.
func OffsetWithinNode(container, target *model.Node, offset int) int {
	if container == nil || target == nil || !container.Contains(target) {
		return -1
	}
	if target.IsText() {
		total := 0
		for t := range model.TextLeaves(container) {
			if t == target {
				return total + min(max(offset, 0), t.Length())
			}
			total += t.Length()
		}
		return -1
	}

	p := model.Point{Node: target, Offset: offset}
	total := 0
	for t := range model.TextLeaves(container) {
		if model.ComparePoints(model.Point{Node: t, Offset: t.Length()}, p) > 0 {
			break
		}
		total += t.Length()
	}
	return total
}

// FindNodeAndOffsetAt finds the text position at a text offset counted from
// the start of container. A position between two runs resolves to the end
// of the first. When offset lies past the end, the end of the last run is
// returned with overshot set.
func FindNodeAndOffsetAt(container *model.Node, offset int) (model.Point, bool) {
	var last *model.Node
	total := 0
	for t := range model.TextLeaves(container) {
		length := t.Length()
		if offset <= total+length {
			return model.Point{Node: t, Offset: max(offset-total, 0)}, false
		}
		total += length
		last = t
	}
	if last == nil {
		return model.Point{Node: container, Offset: 0}, offset > 0
	}
	return model.Point{Node: last, Offset: last.Length()}, true
}

// TextLength returns the number of runes of text inside n.
func TextLength(n *model.Node) int {
	total := 0
	for t := range model.TextLeaves(n) {
		total += t.Length()
	}
	return total
}
