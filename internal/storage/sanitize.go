package storage

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"

	"github.com/pstuifzand/sermonedit/internal/model"
	"github.com/pstuifzand/sermonedit/internal/outline"
)

// blockMap maps every element that opens a block to the block tag it
// becomes
var blockMap = map[string]string{
	"H1":  model.TagH1,
	"H2":  model.TagH2,
	"H3":  model.TagH3,
	"H4":  model.TagH4,
	"H5":  model.TagH4,
	"H6":  model.TagH4,
	"P":   model.TagP,
	"DIV": model.TagP,
	"LI":  model.TagP,
}

// listTags are unwrapped; each one nests list items a level deeper
var listTags = map[string]bool{"OL": true, "UL": true}

// inlineTags are the wrappers kept inside blocks
var inlineTags = map[string]bool{
	"B": true, "I": true, "EM": true, "STRONG": true, "U": true, "S": true,
	"SUB": true, "SUP": true, "MARK": true, "CODE": true, "SMALL": true,
}

var classPattern = regexp.MustCompile(`^\s*(?:(?:hidden|userListItem|evenListLevel|altStyleA|altStyleB)(?:\s+|$))+$`)

// sanitizer is the first pass over foreign markup. It strips everything
// that is not structure or plain inline formatting.
var sanitizer = newPolicy()

func newPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	blocks := []string{"h1", "h2", "h3", "h4", "h5", "h6", "p", "div", "li"}
	p.AllowElements(blocks...)
	p.AllowElements("ol", "ul", "span", "br")
	for tag := range inlineTags {
		p.AllowElements(strings.ToLower(tag))
	}
	// Stripping every attribute of an element keeps the element
	p.AllowNoAttrs().OnElements(blocks...)
	p.AllowNoAttrs().OnElements("ol", "ul", "span", "br")
	p.AllowAttrs("class").Matching(classPattern).OnElements(blocks...)
	p.AllowAttrs(attrIndent).Matching(bluemonday.Integer).OnElements("p", "div", "li")
	p.AllowAttrs(attrAriaLevel).Matching(bluemonday.Integer).OnElements("li")
	return p
}

// builder converts sanitized HTML into flat blocks. Nested blocks are
// pulled out in document order, and inline content outside a block goes to
// a paragraph of its own.
type builder struct {
	doc     *model.Document
	outline *outline.Engine

	blocks []*model.Node
	// cur receives stray inline content; nil until some arrives
	cur       *model.Node
	listDepth int
	changed   bool
}

// target returns the block stray inline content is appended to
func (b *builder) target() *model.Node {
	if b.cur == nil {
		b.cur = b.doc.NewElement(model.TagP)
		b.blocks = append(b.blocks, b.cur)
		b.changed = true
	}
	return b.cur
}

func (b *builder) node(n *html.Node) {
	if n.Type != html.ElementNode {
		b.inlineNode(nil, n)
		return
	}
	tag := strings.ToUpper(n.Data)
	if listTags[tag] {
		b.changed = true
		b.cur = nil
		b.listDepth++
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			b.node(c)
		}
		b.listDepth--
		b.cur = nil
		return
	}
	mapped, ok := blockMap[tag]
	if !ok {
		b.inlineNode(nil, n)
		return
	}

	block := b.doc.NewElement(mapped)
	if mapped != tag {
		b.changed = true
	}
	b.blocks = append(b.blocks, block)
	b.readAttrs(block, n, tag)

	b.cur = block
	b.inline(block, n)
	b.cur = nil
}

// readAttrs restores the presentation state of a block from its markup
func (b *builder) readAttrs(block *model.Node, n *html.Node, tag string) {
	depth := 0
	var altA, altB, hidden bool
	for _, a := range n.Attr {
		switch a.Key {
		case "class":
			for _, c := range strings.Fields(a.Val) {
				switch c {
				case classHidden:
					hidden = true
				case classAltA:
					altA = true
				case classAltB:
					altB = true
				}
			}
		case attrIndent, attrAriaLevel:
			if v, err := strconv.Atoi(a.Val); err == nil {
				depth = v
			}
		}
	}
	if tag == "LI" && depth <= 0 {
		depth = max(b.listDepth, 1)
	}

	if block.IsParagraph() {
		b.outline.SetListLevel(block, depth)
		b.doc.SetFlag(block, model.AttrAltA, altA)
		b.doc.SetFlag(block, model.AttrAltB, altB)
	} else {
		model.LevelOf(block)
	}
	if hidden {
		b.doc.SetFlag(block, model.AttrHidden, true)
	}
}

// inline appends the children of n below parent. A nil parent stands for
// the current target block.
func (b *builder) inline(parent *model.Node, n *html.Node) {
	owner := b.cur
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b.cur != owner {
			// a nested block was pulled out; the rest follows it
			parent = nil
			owner = b.cur
		}
		b.inlineNode(parent, c)
		if parent == nil {
			owner = b.cur
		}
	}
}

func (b *builder) appendInline(parent, child *model.Node) {
	if parent == nil {
		parent = b.target()
	}
	b.doc.Append(parent, child)
}

func (b *builder) inlineNode(parent *model.Node, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		if parent == nil && b.cur == nil && strings.TrimSpace(n.Data) == "" {
			return
		}
		b.appendInline(parent, b.doc.NewText(n.Data))
	case html.ElementNode:
		tag := strings.ToUpper(n.Data)
		switch {
		case tag == model.TagBR:
			if parent == nil && b.cur == nil {
				b.changed = true
				return
			}
			b.appendInline(parent, b.doc.NewElement(tag))
		case inlineTags[tag]:
			w := b.doc.NewElement(tag)
			b.appendInline(parent, w)
			b.inline(w, n)
		case listTags[tag] || blockMap[tag] != "":
			b.changed = true
			b.node(n)
		default:
			b.changed = true
			b.inline(parent, n)
		}
	default:
		b.changed = true
	}
}
