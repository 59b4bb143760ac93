package outline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/sermonedit/internal/model"
)

func TestCountWords(t *testing.T) {
	tests := map[string]int{
		"":                  0,
		"   ":               0,
		"Hello":             1,
		"Hello world":       2,
		"  spaced   out  ":  2,
		"tab\tand\nnewline": 3,
	}
	doc := model.NewDocument()
	for text, want := range tests {
		n := doc.NewBlock(model.TagP, text)
		assert.Equal(t, want, CountWords(n), "CountWords(%q)", text)
	}
}

func TestCountWordsAcrossWrappers(t *testing.T) {
	doc := model.NewDocument()
	p := doc.NewElement(model.TagP)
	b := doc.NewElement("B")
	doc.Append(b, doc.NewText("lo wo"))
	doc.Append(p, doc.NewText("Hel"), b, doc.NewText("rld again"))

	assert.Equal(t, 3, CountWords(p))
}

func TestWordCountCachesWithoutRecording(t *testing.T) {
	doc := model.NewDocument()
	p := doc.NewBlock(model.TagP, "one two")
	doc.Append(doc.Root(), p)
	doc.TakeRecords()

	e := New(doc)
	assert.Equal(t, 2, e.WordCount(p))
	assert.Equal(t, 2, p.NodeWords())
	assert.Zero(t, doc.PendingRecords())
}

func TestRecountAll(t *testing.T) {
	e, b := build(t,
		"H1 Intro",
		"P one two",
		"H2 Details",
		"P three",
		"P1 four five",
		"P2 six",
		"H3 Deep",
		"P seven",
		"H1 Second",
		"P eight nine ten",
	)
	requireConsistentCounts(t, e.Document())

	assert.Equal(t, 7, b[0].ChildWords())
	assert.Equal(t, 5, b[2].ChildWords())
	assert.Equal(t, 3, b[3].ChildWords(), "a paragraph holds the list below it")
	assert.Equal(t, 1, b[4].ChildWords())
	assert.Equal(t, 3, b[8].ChildWords())
	assert.Equal(t, 10, e.TotalWords())
}

func TestRecountAllHiddenSubtreeIsASink(t *testing.T) {
	e, b := build(t, "H1 A", "H2 folded", "P x y", "H2 open", "P z")
	e.Hide(b[1])
	e.RecountAll()

	assert.Equal(t, 2, b[1].ChildWords(), "collapsed block keeps its own total")
	assert.Equal(t, 1, b[0].ChildWords(), "ancestor only sees the open part")
	requireConsistentCounts(t, e.Document())
}

func TestRefreshWordCountAndPropagate(t *testing.T) {
	e, b := build(t, "H1 A", "H2 B", "P hello", "H2 C")
	doc := e.Document()

	doc.SetText(b[2].FirstChild(), "hello brave world")
	delta := e.RefreshWordCount(b[2])
	require.True(t, delta.HadValidCache)
	assert.Equal(t, 2, delta.Delta)

	assert.True(t, e.PropagateDelta(b[2], delta.Delta, false))
	assert.Equal(t, 3, b[1].ChildWords())
	assert.Equal(t, 3, b[0].ChildWords())
	assert.Zero(t, b[3].ChildWords(), "siblings are untouched")
	requireConsistentCounts(t, doc)
}

func TestRefreshWordCountWithoutCache(t *testing.T) {
	doc := model.NewDocument()
	p := doc.NewBlock(model.TagP, "a b c")
	doc.Append(doc.Root(), p)
	e := New(doc)

	delta := e.RefreshWordCount(p)
	assert.False(t, delta.HadValidCache)
	assert.Equal(t, 3, delta.Delta)
}

func TestPropagateDeltaFallsBackToRecount(t *testing.T) {
	e, b := build(t, "H1 A", "P one")
	doc := e.Document()
	doc.SetAttr(b[0], model.AttrChildWords, model.NoValue)

	doc.SetText(b[1].FirstChild(), "one two")
	delta := e.RefreshWordCount(b[1])

	assert.False(t, e.PropagateDelta(b[1], delta.Delta, false))
	assert.Equal(t, 2, b[0].ChildWords())
}

func TestPropagateDeltaStopsAtHiddenAncestor(t *testing.T) {
	e, b := build(t, "H1 A", "H2 B", "P x")
	e.Hide(b[1])
	e.RecountAll()
	require.Equal(t, 0, b[0].ChildWords())
	require.Equal(t, 1, b[1].ChildWords())

	doc := e.Document()
	doc.SetText(b[2].FirstChild(), "x y")
	delta := e.RefreshWordCount(b[2])
	e.PropagateDelta(b[2], delta.Delta, true)

	assert.Equal(t, 2, b[1].ChildWords())
	assert.Equal(t, 0, b[0].ChildWords())
	requireConsistentCounts(t, doc)
}
