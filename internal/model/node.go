// Package model contains the flat block model of an outline document.
//
// A document is a root container whose element children are the blocks
// (H1-H4 and P). Blocks hold inline content: text nodes and opaque inline
// wrappers. Hierarchy is never stored as containment; it is inferred from
// each block's level.
package model

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	// PLevel is the level shared by every paragraph-kind block.
	PLevel = 100
	// MaxIndent is the deepest list depth a paragraph may have.
	MaxIndent = 8
	// MaxShowing is the showing depth at which everything is visible.
	MaxShowing = 4
	// NoValue marks a count attribute whose cache is missing.
	NoValue = -1
)

// NodeType distinguishes the document root, elements and text.
type NodeType int

const (
	DocumentNode NodeType = iota
	ElementNode
	TextNode
)

// Block tags. Inline wrapper tags are kept as given (upper case).
const (
	TagH1 = "H1"
	TagH2 = "H2"
	TagH3 = "H3"
	TagH4 = "H4"
	TagP  = "P"
	TagBR = "BR"
)

var tagToLevel = map[string]int{
	TagH1: 0,
	TagH2: 1,
	TagH3: 2,
	TagH4: 3,
	TagP:  PLevel,
}

// Attr names a typed block attribute.
type Attr int

const (
	AttrLevel Attr = iota
	AttrNodeWords
	AttrChildWords
	AttrHidden
	AttrHiddenParent
	AttrFocusedParent
	AttrListItem
	AttrEvenList
	AttrAltA
	AttrAltB
	AttrActiveParagraph
	AttrActiveSection
	AttrUndoMarker
	attrCount
)

var attrNames = [attrCount]string{
	"level",
	"nodeWords",
	"childWords",
	"hidden",
	"hiddenParent",
	"focusedParent",
	"userListItem",
	"evenListLevel",
	"altStyleA",
	"altStyleB",
	"activeParagraph",
	"activeSection",
	"undoMarker",
}

func (a Attr) String() string {
	if a < 0 || a >= attrCount {
		return "unknown"
	}
	return attrNames[a]
}

// IsPresentation reports whether the attribute only affects rendering.
// Presentation attributes are never recorded for undo.
func (a Attr) IsPresentation() bool {
	switch a {
	case AttrActiveParagraph, AttrActiveSection, AttrFocusedParent:
		return true
	}
	return false
}

// Node is a document root, an element or a text run.
type Node struct {
	Type NodeType
	Tag  string

	text string

	parent     *Node
	firstChild *Node
	lastChild  *Node
	prev       *Node
	next       *Node

	attrs [attrCount]int
	doc   *Document
}

func newNode(doc *Document, typ NodeType, tag string) *Node {
	n := &Node{Type: typ, Tag: tag, doc: doc}
	n.attrs[AttrLevel] = NoValue
	n.attrs[AttrNodeWords] = NoValue
	n.attrs[AttrChildWords] = NoValue
	return n
}

func (n *Node) Parent() *Node          { return n.parent }
func (n *Node) FirstChild() *Node      { return n.firstChild }
func (n *Node) LastChild() *Node       { return n.lastChild }
func (n *Node) PreviousSibling() *Node { return n.prev }
func (n *Node) NextSibling() *Node     { return n.next }
func (n *Node) Document() *Document    { return n.doc }

// IsText reports whether n is a text run.
func (n *Node) IsText() bool { return n != nil && n.Type == TextNode }

// IsElement reports whether n is an element.
func (n *Node) IsElement() bool { return n != nil && n.Type == ElementNode }

// IsBlock reports whether n is an element directly under the document root.
func (n *Node) IsBlock() bool {
	return n.IsElement() && n.parent != nil && n.parent.Type == DocumentNode
}

// IsHeading reports whether n is an H1-H4 element.
func (n *Node) IsHeading() bool {
	if !n.IsElement() {
		return false
	}
	lvl, ok := tagToLevel[n.Tag]
	return ok && lvl < PLevel
}

// IsParagraph reports whether n is a P element.
func (n *Node) IsParagraph() bool { return n.IsElement() && n.Tag == TagP }

// Data returns the raw text of a text node.
func (n *Node) Data() string { return n.text }

// TextContent returns the concatenated text of n and its descendants.
func (n *Node) TextContent() string {
	if n.Type == TextNode {
		return n.text
	}
	var sb strings.Builder
	n.writeText(&sb)
	return sb.String()
}

func (n *Node) writeText(sb *strings.Builder) {
	for c := n.firstChild; c != nil; c = c.next {
		if c.Type == TextNode {
			sb.WriteString(c.text)
		} else {
			c.writeText(sb)
		}
	}
}

// Length is the boundary length of n: runes for text, children otherwise.
func (n *Node) Length() int {
	if n.Type == TextNode {
		return utf8.RuneCountInString(n.text)
	}
	return n.ChildCount()
}

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int {
	count := 0
	for c := n.firstChild; c != nil; c = c.next {
		count++
	}
	return count
}

// ChildAt returns the i-th child or nil.
func (n *Node) ChildAt(i int) *Node {
	if i < 0 {
		return nil
	}
	c := n.firstChild
	for ; c != nil && i > 0; i-- {
		c = c.next
	}
	return c
}

// Index returns the position of n among its siblings, or -1 when detached.
func (n *Node) Index() int {
	if n.parent == nil {
		return -1
	}
	idx := 0
	for c := n.parent.firstChild; c != nil; c = c.next {
		if c == n {
			return idx
		}
		idx++
	}
	return -1
}

// IsConnected reports whether n is reachable from its document root.
func (n *Node) IsConnected() bool {
	if n == nil || n.doc == nil {
		return false
	}
	for cur := n; cur != nil; cur = cur.parent {
		if cur == n.doc.root {
			return true
		}
	}
	return false
}

// Contains reports whether other is n or a descendant of n.
func (n *Node) Contains(other *Node) bool {
	for cur := other; cur != nil; cur = cur.parent {
		if cur == n {
			return true
		}
	}
	return false
}

// Attr returns the raw value of an attribute.
func (n *Node) Attr(a Attr) int { return n.attrs[a] }

// Flag returns a boolean attribute.
func (n *Node) Flag(a Attr) bool { return n.attrs[a] != 0 && n.attrs[a] != NoValue }

// NodeWords returns the cached own word count, or NoValue.
func (n *Node) NodeWords() int { return n.attrs[AttrNodeWords] }

// ChildWords returns the cached descendant word count, or NoValue.
func (n *Node) ChildWords() int { return n.attrs[AttrChildWords] }

func (n *Node) Hidden() bool         { return n.Flag(AttrHidden) }
func (n *Node) HiddenByParent() bool { return n.Flag(AttrHiddenParent) }
func (n *Node) BelowThreshold() bool { return n.Flag(AttrFocusedParent) }
func (n *Node) ListItem() bool       { return n.Flag(AttrListItem) }
func (n *Node) AltA() bool           { return n.Flag(AttrAltA) }
func (n *Node) AltB() bool           { return n.Flag(AttrAltB) }

// Level returns the cached level, or the level derived from the tag
// without caching it.
func (n *Node) Level() int {
	if lvl := n.attrs[AttrLevel]; lvl != NoValue {
		return lvl
	}
	return LevelForTag(n.Tag)
}

// IndentLevel returns the list depth of a paragraph (0 for plain ones).
func (n *Node) IndentLevel() int {
	lvl := n.Level()
	if lvl > PLevel {
		return lvl - PLevel
	}
	return 0
}

// LevelForTag derives a level from a block tag. Unknown tags fall back to
// PLevel.
func LevelForTag(tag string) int {
	if lvl, ok := tagToLevel[tag]; ok {
		return lvl
	}
	return PLevel
}

// IsBlockTag reports whether tag names one of the orderable block kinds.
func IsBlockTag(tag string) bool {
	_, ok := tagToLevel[tag]
	return ok
}

// LevelOf returns the cached level of n, computing and caching it when
// missing. Filling a missing cache is not a mutation and is not recorded.
func LevelOf(n *Node) int {
	if n == nil || n.Type != ElementNode {
		return PLevel
	}
	if lvl := n.attrs[AttrLevel]; lvl != NoValue {
		return lvl
	}
	lvl := LevelForTag(n.Tag)
	n.attrs[AttrLevel] = lvl
	return lvl
}

// WordDisplay renders a child word count the way the outline shows it.
func WordDisplay(count int) string {
	switch {
	case count <= 0:
		return ""
	case count == 1:
		return "(1 word)"
	default:
		return "(" + strconv.Itoa(count) + " words)"
	}
}
