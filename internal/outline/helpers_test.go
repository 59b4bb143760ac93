package outline

import (
	"strconv"
	"strings"
	"testing"

	"github.com/pstuifzand/sermonedit/internal/model"
)

// build creates an outline from lines like "H1 Title", "P text" or "P2 item"
// (a list item at depth 2).
func build(t *testing.T, lines ...string) (*Engine, []*model.Node) {
	t.Helper()
	doc := model.NewDocument()
	e := New(doc)
	var blocks []*model.Node
	for _, line := range lines {
		head, text, _ := strings.Cut(line, " ")
		tag := head
		depth := 0
		if strings.HasPrefix(head, "P") && len(head) > 1 {
			tag = "P"
			d, err := strconv.Atoi(head[1:])
			if err != nil {
				t.Fatalf("bad line %q", line)
			}
			depth = d
		}
		b := doc.NewBlock(tag, text)
		doc.Append(doc.Root(), b)
		if depth > 0 {
			e.SetListLevel(b, depth)
		}
		blocks = append(blocks, b)
	}
	e.RecountAll()
	doc.TakeRecords()
	return e, blocks
}

// expectedChildWords derives child word counts from scratch using the
// containment rule directly.
func expectedChildWords(n *model.Node) int {
	total := 0
	for c := range model.DirectChildrenOf(n) {
		if c.Hidden() {
			continue
		}
		total += expectedChildWords(c)
		if model.LevelOf(c) >= model.PLevel {
			total += CountWords(c)
		}
	}
	return total
}

func requireConsistentCounts(t *testing.T, doc *model.Document) {
	t.Helper()
	for n := range doc.AllBlocks() {
		if got, want := n.ChildWords(), expectedChildWords(n); got != want {
			t.Fatalf("childWords of %q = %d, want %d", n.TextContent(), got, want)
		}
	}
}
