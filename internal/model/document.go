package model

import "strings"

// RecordType is the kind of an observed mutation.
type RecordType int

const (
	RecordInsert RecordType = iota
	RecordRemove
	RecordAttribute
	RecordText
)

func (t RecordType) String() string {
	switch t {
	case RecordInsert:
		return "insert"
	case RecordRemove:
		return "remove"
	case RecordAttribute:
		return "attribute"
	case RecordText:
		return "text"
	}
	return "unknown"
}

// Record describes one primitive mutation with enough context to invert
// it. For inserts and removals Target is the parent and the sibling fields
// describe the surroundings of the affected nodes at the time of the change.
type Record struct {
	Type            RecordType
	Target          *Node
	Added           []*Node
	Removed         []*Node
	PreviousSibling *Node
	NextSibling     *Node
	Attr            Attr
	OldValue        int
	OldText         string
}

// Document owns the node tree and the queue of observed mutations.
type Document struct {
	root       *Node
	pending    []Record
	suppressed int
}

// NewDocument creates an empty document. Use EnsureNotEmpty to get the
// single empty paragraph a live outline always has.
func NewDocument() *Document {
	d := &Document{}
	d.root = newNode(d, DocumentNode, "")
	return d
}

// Root returns the document container.
func (d *Document) Root() *Node { return d.root }

// NewElement creates a detached element.
func (d *Document) NewElement(tag string) *Node {
	return newNode(d, ElementNode, strings.ToUpper(tag))
}

// NewText creates a detached text node.
func (d *Document) NewText(text string) *Node {
	n := newNode(d, TextNode, "#text")
	n.text = text
	return n
}

// NewBlock creates a detached block holding a single text run.
func (d *Document) NewBlock(tag, text string) *Node {
	b := d.NewElement(tag)
	if text != "" {
		d.link(b, d.NewText(text), nil)
	}
	return b
}

// FirstBlock returns the first block of the document.
func (d *Document) FirstBlock() *Node {
	for c := d.root.firstChild; c != nil; c = c.next {
		if c.Type == ElementNode {
			return c
		}
	}
	return nil
}

// LastBlock returns the last block of the document.
func (d *Document) LastBlock() *Node {
	for c := d.root.lastChild; c != nil; c = c.prev {
		if c.Type == ElementNode {
			return c
		}
	}
	return nil
}

// EnsureNotEmpty appends an empty paragraph when the document has no blocks.
// It returns the paragraph it added, or nil.
func (d *Document) EnsureNotEmpty() *Node {
	if d.FirstBlock() != nil {
		return nil
	}
	p := d.NewElement(TagP)
	d.Append(d.root, p)
	return p
}

// Suppress starts a scope during which mutations are not queued for
// observers. The returned release func ends the scope; calling it more than
// once has no further effect.
func (d *Document) Suppress() func() {
	d.suppressed++
	released := false
	return func() {
		if released {
			return
		}
		released = true
		d.suppressed--
	}
}

// Observing reports whether mutations are currently queued.
func (d *Document) Observing() bool { return d.suppressed == 0 }

// TakeRecords drains and returns the mutations observed so far, in the order
// they were applied.
func (d *Document) TakeRecords() []Record {
	records := d.pending
	d.pending = nil
	return records
}

// PendingRecords returns the number of queued mutations.
func (d *Document) PendingRecords() int { return len(d.pending) }

func (d *Document) queue(r Record) {
	if d.suppressed > 0 {
		return
	}
	d.pending = append(d.pending, r)
}

// InsertBefore inserts nodes into parent before ref (nil appends). Nodes that
// are already attached are removed from their current position first.
func (d *Document) InsertBefore(parent, ref *Node, nodes ...*Node) {
	for _, n := range nodes {
		if n == nil || n == ref {
			continue
		}
		if n.parent != nil {
			d.Remove(n)
		}
		d.link(parent, n, ref)
		d.queue(Record{
			Type:            RecordInsert,
			Target:          parent,
			Added:           []*Node{n},
			PreviousSibling: n.prev,
			NextSibling:     n.next,
		})
	}
}

// Append adds nodes at the end of parent.
func (d *Document) Append(parent *Node, nodes ...*Node) {
	d.InsertBefore(parent, nil, nodes...)
}

// Prepend adds nodes at the start of parent, keeping their order.
func (d *Document) Prepend(parent *Node, nodes ...*Node) {
	d.InsertBefore(parent, parent.firstChild, nodes...)
}

// InsertAfter places nodes right after ref, keeping their order.
func (d *Document) InsertAfter(ref *Node, nodes ...*Node) {
	if ref == nil || ref.parent == nil {
		return
	}
	parent := ref.parent
	anchor := ref
	for _, n := range nodes {
		if n == nil || n == anchor {
			continue
		}
		next := anchor.next
		if next == n {
			anchor = n
			continue
		}
		d.InsertBefore(parent, next, n)
		anchor = n
	}
}

// Remove detaches n from its parent.
func (d *Document) Remove(n *Node) {
	if n == nil || n.parent == nil {
		return
	}
	parent, prev, next := n.parent, n.prev, n.next
	d.unlink(n)
	d.queue(Record{
		Type:            RecordRemove,
		Target:          parent,
		Removed:         []*Node{n},
		PreviousSibling: prev,
		NextSibling:     next,
	})
}

// ReplaceWith puts replacement where n is and detaches n.
func (d *Document) ReplaceWith(n, replacement *Node) {
	if n == nil || n.parent == nil || n == replacement {
		return
	}
	d.InsertBefore(n.parent, n, replacement)
	d.Remove(n)
}

// MoveChildren moves every child of from to the end of to.
func (d *Document) MoveChildren(from, to *Node) {
	for c := from.firstChild; c != nil; {
		next := c.next
		d.Append(to, c)
		c = next
	}
}

// SetText replaces the data of a text node.
func (d *Document) SetText(n *Node, text string) {
	if n == nil || n.Type != TextNode || n.text == text {
		return
	}
	old := n.text
	n.text = text
	d.queue(Record{Type: RecordText, Target: n, OldText: old})
}

// SetAttr assigns an attribute value. Assigning the current value is a no-op.
func (d *Document) SetAttr(n *Node, a Attr, value int) {
	if n == nil || n.attrs[a] == value {
		return
	}
	old := n.attrs[a]
	n.attrs[a] = value
	d.queue(Record{Type: RecordAttribute, Target: n, Attr: a, OldValue: old})
}

// Cache fills a missing cache attribute. It does nothing when the attribute
// already holds a value, and is never recorded.
func (d *Document) Cache(n *Node, a Attr, value int) {
	if n == nil || n.attrs[a] != NoValue {
		return
	}
	n.attrs[a] = value
}

// SetFlag assigns a boolean attribute.
func (d *Document) SetFlag(n *Node, a Attr, on bool) {
	value := 0
	if on {
		value = 1
	}
	d.SetAttr(n, a, value)
}

// ClearWordCounters invalidates the word caches of a block.
func (d *Document) ClearWordCounters(n *Node) {
	d.SetAttr(n, AttrNodeWords, NoValue)
	d.SetAttr(n, AttrChildWords, NoValue)
}

// CopyDataFromTo transplants the level, word and list metadata of one block
// onto a detached block. Nothing is recorded since to is not yet part of the
// document.
func (d *Document) CopyDataFromTo(from, to *Node) {
	to.attrs = from.attrs
	to.attrs[AttrActiveParagraph] = 0
	to.attrs[AttrActiveSection] = 0
}

// SplitAt moves everything after point (a text position inside block) into
// the empty element into, cloning inline wrappers that straddle the split.
func (d *Document) SplitAt(block *Node, point Point, into *Node) {
	var left *Node
	parent := point.Node
	switch {
	case point.Node.IsText():
		t := point.Node
		parent = t.parent
		runes := []rune(t.text)
		off := clamp(point.Offset, 0, len(runes))
		switch {
		case off == 0:
			left = t.prev
		case off >= len(runes):
			left = t
		default:
			tail := d.NewText(string(runes[off:]))
			d.SetText(t, string(runes[:off]))
			d.InsertAfter(t, tail)
			left = t
		}
	default:
		left = point.Node.ChildAt(point.Offset - 1)
	}

	for parent != nil && parent != block {
		clone := d.NewElement(parent.Tag)
		d.moveAfter(parent, left, clone)
		if clone.firstChild != nil {
			d.InsertAfter(parent, clone)
		}
		left = parent
		parent = parent.parent
	}
	if parent == block {
		d.moveAfter(block, left, into)
	}
}

func (d *Document) moveAfter(parent, left, to *Node) {
	start := parent.firstChild
	if left != nil {
		start = left.next
	}
	for c := start; c != nil; {
		next := c.next
		d.Append(to, c)
		c = next
	}
}

func (d *Document) link(parent, n, ref *Node) {
	n.parent = parent
	if ref == nil || ref.parent != parent {
		n.prev = parent.lastChild
		n.next = nil
		if parent.lastChild != nil {
			parent.lastChild.next = n
		} else {
			parent.firstChild = n
		}
		parent.lastChild = n
		return
	}
	n.prev = ref.prev
	n.next = ref
	if ref.prev != nil {
		ref.prev.next = n
	} else {
		parent.firstChild = n
	}
	ref.prev = n
}

func (d *Document) unlink(n *Node) {
	parent := n.parent
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		parent.firstChild = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		parent.lastChild = n.prev
	}
	n.parent, n.prev, n.next = nil, nil, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
