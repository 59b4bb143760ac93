package model

import "cmp"

// Point is a boundary position: a rune offset inside a text node, or a child
// index inside any other node.
type Point struct {
	Node   *Node
	Offset int
}

// IsZero reports whether p has no node.
func (p Point) IsZero() bool { return p.Node == nil }

// BlockOf returns the block containing n (n itself when it is a block).
func BlockOf(n *Node) *Node {
	for cur := n; cur != nil; cur = cur.parent {
		if cur.IsBlock() {
			return cur
		}
	}
	return nil
}

// CommonAncestor returns the deepest node containing both a and b.
func CommonAncestor(a, b *Node) *Node {
	if a == nil || b == nil {
		return nil
	}
	seen := make(map[*Node]struct{})
	for cur := a; cur != nil; cur = cur.parent {
		seen[cur] = struct{}{}
	}
	for cur := b; cur != nil; cur = cur.parent {
		if _, ok := seen[cur]; ok {
			return cur
		}
	}
	return nil
}

// childToward returns the child of ancestor that contains n.
func childToward(ancestor, n *Node) *Node {
	for cur := n; cur != nil; cur = cur.parent {
		if cur.parent == ancestor {
			return cur
		}
	}
	return nil
}

// CompareNodes orders two nodes of the same tree in document order
// (pre-order). It returns -1, 0 or 1, and 0 for nodes of different trees.
func CompareNodes(a, b *Node) int {
	if a == b {
		return 0
	}
	common := CommonAncestor(a, b)
	if common == nil {
		return 0
	}
	if common == a {
		return -1
	}
	if common == b {
		return 1
	}
	ca, cb := childToward(common, a), childToward(common, b)
	for cur := ca.next; cur != nil; cur = cur.next {
		if cur == cb {
			return -1
		}
	}
	return 1
}

// ComparePoints orders two boundary points the way a DOM range does.
func ComparePoints(a, b Point) int {
	if a.Node == b.Node {
		return cmp.Compare(a.Offset, b.Offset)
	}
	if a.Node.Contains(b.Node) {
		idx := childToward(a.Node, b.Node).Index()
		if idx < a.Offset {
			return 1
		}
		return -1
	}
	if b.Node.Contains(a.Node) {
		return -ComparePoints(b, a)
	}
	return CompareNodes(a.Node, b.Node)
}

// Depth returns the number of ancestors of n.
func Depth(n *Node) int {
	depth := 0
	for cur := n.parent; cur != nil; cur = cur.parent {
		depth++
	}
	return depth
}
