package model

import (
	"fmt"
	"strings"
)

// BlockSnapshot is a value copy of the observable state of one block.
type BlockSnapshot struct {
	Tag          string
	Markup       string
	Level        int
	ChildWords   int
	Hidden       bool
	HiddenParent bool
	ListItem     bool
	EvenList     bool
	AltA         bool
	AltB         bool
}

func (b BlockSnapshot) String() string {
	return fmt.Sprintf("%s(%d) %q words=%d hidden=%v/%v list=%v/%v alt=%v/%v",
		b.Tag, b.Level, b.Markup, b.ChildWords, b.Hidden, b.HiddenParent, b.ListItem, b.EvenList, b.AltA, b.AltB)
}

// Snapshot captures the block sequence for structural comparison. It never
// fills caches.
func (d *Document) Snapshot() []BlockSnapshot {
	var out []BlockSnapshot
	for b := range d.AllBlocks() {
		out = append(out, BlockSnapshot{
			Tag:          b.Tag,
			Markup:       InlineMarkup(b),
			Level:        b.Level(),
			ChildWords:   b.ChildWords(),
			Hidden:       b.Hidden(),
			HiddenParent: b.HiddenByParent(),
			ListItem:     b.ListItem(),
			EvenList:     b.Flag(AttrEvenList),
			AltA:         b.AltA(),
			AltB:         b.AltB(),
		})
	}
	return out
}

// InlineMarkup renders the inline content of n with wrapper tags, e.g.
// "Hello <B>world</B>".
func InlineMarkup(n *Node) string {
	var sb strings.Builder
	writeMarkup(&sb, n)
	return sb.String()
}

func writeMarkup(sb *strings.Builder, n *Node) {
	for c := n.firstChild; c != nil; c = c.next {
		switch {
		case c.Type == TextNode:
			sb.WriteString(c.text)
		case c.firstChild == nil:
			sb.WriteString("<" + c.Tag + "/>")
		default:
			sb.WriteString("<" + c.Tag + ">")
			writeMarkup(sb, c)
			sb.WriteString("</" + c.Tag + ">")
		}
	}
}
