package model

import "iter"

// Every generator below reads the next sibling before yielding, so the
// yielded node may be removed by the loop body. Nodes inserted after the
// cursor are picked up; nodes inserted before it are not.

// AllBlocks yields every block in document order.
func (d *Document) AllBlocks() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for cur := d.root.firstChild; cur != nil; {
			next := cur.next
			if cur.Type == ElementNode && !yield(cur) {
				return
			}
			cur = next
		}
	}
}

// AllBlocksReversed yields every block from last to first.
func (d *Document) AllBlocksReversed() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for cur := d.root.lastChild; cur != nil; {
			prev := cur.prev
			if cur.Type == ElementNode && !yield(cur) {
				return
			}
			cur = prev
		}
	}
}

// BlockCount returns the number of blocks.
func (d *Document) BlockCount() int {
	count := 0
	for range d.AllBlocks() {
		count++
	}
	return count
}

// Blocks returns the blocks as a slice.
func (d *Document) Blocks() []*Node {
	var blocks []*Node
	for b := range d.AllBlocks() {
		blocks = append(blocks, b)
	}
	return blocks
}

func childrenWhere(n *Node, keep func(*Node) bool) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		if n == nil {
			return
		}
		lvl := LevelOf(n)
		for cur := n.next; cur != nil; {
			next := cur.next
			if cur.Type == ElementNode {
				if LevelOf(cur) <= lvl {
					return
				}
				if (keep == nil || keep(cur)) && !yield(cur) {
					return
				}
			}
			cur = next
		}
	}
}

// ChildrenOf yields every block strictly contained by n: the run of
// following blocks with a level greater than n's.
func ChildrenOf(n *Node) iter.Seq[*Node] {
	return childrenWhere(n, nil)
}

// VisibleChildrenOf is ChildrenOf skipping blocks under a hidden ancestor.
// Skipped blocks do not end the run.
func VisibleChildrenOf(n *Node) iter.Seq[*Node] {
	return childrenWhere(n, func(c *Node) bool { return !c.HiddenByParent() })
}

// FullyVisibleChildrenOf also skips blocks that are hidden themselves.
func FullyVisibleChildrenOf(n *Node) iter.Seq[*Node] {
	return childrenWhere(n, func(c *Node) bool { return !c.HiddenByParent() && !c.Hidden() })
}

// DirectChildrenOf yields the immediate descendants of n: each contained
// block that has no nearer containing block between it and n.
func DirectChildrenOf(n *Node) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		var stack []int
		for c := range ChildrenOf(n) {
			lvl := LevelOf(c)
			for len(stack) > 0 && stack[len(stack)-1] >= lvl {
				stack = stack[:len(stack)-1]
			}
			direct := len(stack) == 0
			stack = append(stack, lvl)
			if direct && !yield(c) {
				return
			}
		}
	}
}

// ParentOf returns the nearest preceding block with a strictly lower level.
func ParentOf(n *Node) *Node {
	if n == nil {
		return nil
	}
	lvl := LevelOf(n)
	for cur := n.prev; cur != nil; cur = cur.prev {
		if cur.Type == ElementNode && LevelOf(cur) < lvl {
			return cur
		}
	}
	return nil
}

// AncestorsOf yields the strict ancestors of n, nearest first.
func AncestorsOf(n *Node) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for p := ParentOf(n); p != nil; p = ParentOf(p) {
			if !yield(p) {
				return
			}
		}
	}
}

// BlocksBetween yields blocks from first to last inclusive. It stops at the
// end of the document if last is never reached.
func BlocksBetween(first, last *Node) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for cur := first; cur != nil; {
			next := cur.next
			isLast := cur == last || next == nil
			if cur.Type == ElementNode && !yield(cur) {
				return
			}
			if isLast {
				return
			}
			cur = next
		}
	}
}

// BlocksBetweenReversed yields blocks from last back to first inclusive.
func BlocksBetweenReversed(first, last *Node) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for cur := last; cur != nil; {
			prev := cur.prev
			isFirst := cur == first || prev == nil
			if cur.Type == ElementNode && !yield(cur) {
				return
			}
			if isFirst {
				return
			}
			cur = prev
		}
	}
}

// TextLeaves yields the text nodes under n in depth-first order.
func TextLeaves(n *Node) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		walkText(n, yield)
	}
}

func walkText(n *Node, yield func(*Node) bool) bool {
	if n.Type == TextNode {
		return yield(n)
	}
	for c := n.firstChild; c != nil; c = c.next {
		if !walkText(c, yield) {
			return false
		}
	}
	return true
}
