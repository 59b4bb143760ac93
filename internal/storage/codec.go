// Package storage reads and writes outline documents as HTML and keeps them
// on disk.
package storage

import (
	"bytes"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/pstuifzand/sermonedit/internal/model"
	"github.com/pstuifzand/sermonedit/internal/outline"
)

// Provenance tells whether a document was read back exactly as this program
// wrote it, or had to be converted
type Provenance int

const (
	Native Provenance = iota
	Imported
)

func (p Provenance) String() string {
	if p == Imported {
		return "imported"
	}
	return "native"
}

// Presentation classes written on blocks
const (
	classHidden   = "hidden"
	classListItem = "userListItem"
	classEvenList = "evenListLevel"
	classAltA     = "altStyleA"
	classAltB     = "altStyleB"

	attrIndent    = "data-indent"
	attrAriaLevel = "aria-level"
)

// Encode writes doc as an HTML document with one element per block
func Encode(w io.Writer, doc *model.Document) error {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	for b := range doc.AllBlocks() {
		body.AppendChild(&html.Node{Type: html.TextNode, Data: "\n"})
		body.AppendChild(encodeBlock(b))
	}
	body.AppendChild(&html.Node{Type: html.TextNode, Data: "\n"})

	head := &html.Node{Type: html.ElementNode, Data: "head", DataAtom: atom.Head}
	head.AppendChild(&html.Node{
		Type: html.ElementNode, Data: "meta", DataAtom: atom.Meta,
		Attr: []html.Attribute{{Key: "charset", Val: "utf-8"}},
	})

	root := &html.Node{Type: html.ElementNode, Data: "html", DataAtom: atom.Html}
	root.AppendChild(head)
	root.AppendChild(body)

	document := &html.Node{Type: html.DocumentNode}
	document.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	document.AppendChild(root)

	if err := html.Render(w, document); err != nil {
		return fmt.Errorf("failed to render document: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// EncodeBytes returns the encoded form of doc
func EncodeBytes(doc *model.Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeBlock(b *model.Node) *html.Node {
	tag := strings.ToLower(b.Tag)
	el := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}

	var classes []string
	if b.ListItem() {
		classes = append(classes, classListItem)
	}
	if b.Flag(model.AttrEvenList) {
		classes = append(classes, classEvenList)
	}
	if b.AltA() {
		classes = append(classes, classAltA)
	}
	if b.AltB() {
		classes = append(classes, classAltB)
	}
	if b.Hidden() {
		classes = append(classes, classHidden)
	}
	if len(classes) > 0 {
		el.Attr = append(el.Attr, html.Attribute{Key: "class", Val: strings.Join(classes, " ")})
	}
	if depth := b.IndentLevel(); depth > 0 {
		el.Attr = append(el.Attr, html.Attribute{Key: attrIndent, Val: strconv.Itoa(depth)})
	}

	encodeInline(el, b)
	return el
}

func encodeInline(parent *html.Node, n *model.Node) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if c.IsText() {
			parent.AppendChild(&html.Node{Type: html.TextNode, Data: c.Data()})
			continue
		}
		tag := strings.ToLower(c.Tag)
		el := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
		parent.AppendChild(el)
		encodeInline(el, c)
	}
}

// Decode reads an HTML document. Content this program did not write is
// sanitized and converted, and the document is then reported as Imported.
// Levels and word counts are always derived again.
func Decode(r io.Reader) (*model.Document, Provenance, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, Imported, fmt.Errorf("failed to parse document: %w", err)
	}
	body := findBody(root)
	if body == nil {
		return nil, Imported, fmt.Errorf("failed to parse document: no body")
	}

	doc := model.NewDocument()
	release := doc.Suppress()
	defer release()

	blocks, changed, err := build(doc, body, false)
	if err != nil {
		return nil, Imported, err
	}
	eng := outline.New(doc)
	attach(eng, doc.Root(), blocks)
	doc.EnsureNotEmpty()
	eng.RecountAll()

	release()
	doc.TakeRecords()

	prov := Native
	if changed {
		prov = Imported
	}
	return doc, prov, nil
}

// ParseFragment turns pasted markup into detached blocks owned by doc.
// Blocks without words are dropped. Nothing is recorded on doc.
func ParseFragment(doc *model.Document, r io.Reader) ([]*model.Node, Provenance, error) {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(r, context)
	if err != nil {
		return nil, Imported, fmt.Errorf("failed to parse fragment: %w", err)
	}
	for _, n := range nodes {
		context.AppendChild(n)
	}

	release := doc.Suppress()
	defer release()

	blocks, changed, err := build(doc, context, true)
	if err != nil {
		return nil, Imported, err
	}

	// Hidden flags are resolved against the fragment alone
	scratch := doc.NewElement("BODY")
	attach(outline.New(doc), scratch, blocks)
	for _, b := range blocks {
		doc.Remove(b)
	}

	prov := Native
	if changed {
		prov = Imported
	}
	return blocks, prov, nil
}

// attach appends blocks to parent and collapses the ones marked hidden
func attach(eng *outline.Engine, parent *model.Node, blocks []*model.Node) {
	doc := eng.Document()
	var hidden []*model.Node
	for _, b := range blocks {
		if b.Hidden() {
			hidden = append(hidden, b)
		}
	}
	doc.Append(parent, blocks...)
	for _, b := range hidden {
		eng.Hide(b)
	}
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if body := findBody(c); body != nil {
			return body
		}
	}
	return nil
}

// build sanitizes the children of container and converts them into blocks.
// It reports whether anything had to be dropped or converted.
func build(doc *model.Document, container *html.Node, dropEmpty bool) ([]*model.Node, bool, error) {
	var raw bytes.Buffer
	for c := container.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&raw, c); err != nil {
			return nil, false, fmt.Errorf("failed to render markup: %w", err)
		}
	}
	before := countMarkup(container)

	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(sanitizer.SanitizeReader(&raw), context)
	if err != nil {
		return nil, false, fmt.Errorf("failed to parse sanitized markup: %w", err)
	}
	for _, n := range nodes {
		context.AppendChild(n)
	}

	b := &builder{doc: doc, outline: outline.New(doc)}
	b.changed = countMarkup(context) != before
	for c := context.FirstChild; c != nil; c = c.NextSibling {
		b.node(c)
	}

	blocks := b.blocks
	if dropEmpty {
		blocks = slices.DeleteFunc(blocks, func(n *model.Node) bool {
			if outline.CountWords(n) == 0 {
				b.changed = true
				return true
			}
			return false
		})
	}
	return blocks, b.changed, nil
}

// countMarkup counts elements, attributes and comments below n
func countMarkup(n *html.Node) int {
	count := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			count += 1 + len(c.Attr) + countMarkup(c)
		case html.CommentNode:
			count++
		}
	}
	return count
}
