package app

import (
	"strconv"
	"strings"
	"testing"

	"github.com/pstuifzand/sermonedit/internal/model"
	"github.com/pstuifzand/sermonedit/internal/outline"
)

// newEditor creates an editor over lines like "H1 Title", "P text" or
// "P2 item" (a list item at depth 2). The caret starts in the first block.
func newEditor(t *testing.T, lines ...string) (*Editor, []*model.Node) {
	t.Helper()
	doc := model.NewDocument()
	eng := outline.New(doc)
	var blocks []*model.Node
	for _, line := range lines {
		head, text, _ := strings.Cut(line, " ")
		tag, depth := head, 0
		if strings.HasPrefix(head, "P") && len(head) > 1 {
			d, err := strconv.Atoi(head[1:])
			if err != nil {
				t.Fatalf("bad line %q", line)
			}
			tag, depth = model.TagP, d
		}
		b := doc.NewBlock(tag, text)
		doc.Append(doc.Root(), b)
		if depth > 0 {
			eng.SetListLevel(b, depth)
		}
		blocks = append(blocks, b)
	}
	return NewEditor(doc, nil, nil), blocks
}

// lines renders the document back in the notation newEditor accepts
func lines(e *Editor) []string {
	var out []string
	for _, b := range e.Document().Blocks() {
		head := b.Tag
		if depth := b.IndentLevel(); depth > 0 {
			head += strconv.Itoa(depth)
		}
		out = append(out, head+" "+b.TextContent())
	}
	return out
}

// caret puts the caret at offset in block
func caret(e *Editor, block *model.Node, offset int) {
	p := pointAt(block, offset)
	e.Select(p, p)
}

// selectRange selects from one block offset to another
func selectRange(e *Editor, from *model.Node, fromOffset int, to *model.Node, toOffset int) {
	e.Select(pointAt(from, fromOffset), pointAt(to, toOffset))
}

// typeText types text one rune at a time
func typeText(e *Editor, text string) {
	for _, r := range text {
		e.InsertText(string(r))
	}
}

func undoAll(t *testing.T, e *Editor) int {
	t.Helper()
	n := 0
	for e.History().CanUndo() {
		if !e.Undo() {
			t.Fatalf("undo %d failed", n+1)
		}
		n++
	}
	return n
}
