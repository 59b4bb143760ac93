package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/sermonedit/internal/model"
	"github.com/pstuifzand/sermonedit/internal/outline"
)

// sampleDocument builds a small sermon outline with every kind of block state
func sampleDocument(t *testing.T) *model.Document {
	t.Helper()
	doc := model.NewDocument()
	title := doc.NewBlock(model.TagH1, "Title")
	intro := doc.NewBlock(model.TagP, "Intro ")
	bold := doc.NewElement("B")
	doc.Append(bold, doc.NewText("bold"))
	doc.Append(intro, bold)
	section := doc.NewBlock(model.TagH2, "Section")
	point := doc.NewBlock(model.TagP, "point one")
	empty := doc.NewElement(model.TagP)
	doc.Append(doc.Root(), title, intro, section, point, empty)

	eng := outline.New(doc)
	eng.SetListLevel(point, 2)
	doc.SetFlag(point, model.AttrAltA, true)
	eng.Hide(section)
	eng.RecountAll()
	doc.TakeRecords()
	return doc
}

func blockTexts(blocks []*model.Node) []string {
	var out []string
	for _, b := range blocks {
		out = append(out, b.TextContent())
	}
	return out
}

func TestEncodeMarkup(t *testing.T) {
	data, err := EncodeBytes(sampleDocument(t))
	require.NoError(t, err)

	out := string(data)
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<h1>Title</h1>")
	assert.Contains(t, out, "<p>Intro <b>bold</b></p>")
	assert.Contains(t, out, `<h2 class="hidden">Section</h2>`)
	assert.Contains(t, out, `<p class="userListItem evenListLevel altStyleA" data-indent="2">point one</p>`)
	assert.Contains(t, out, "<p></p>")
}

func TestRoundTripStaysNative(t *testing.T) {
	doc := sampleDocument(t)
	data, err := EncodeBytes(doc)
	require.NoError(t, err)

	decoded, prov, err := Decode(strings.NewReader(string(data)))
	require.NoError(t, err)
	assert.Equal(t, Native, prov)
	assert.Equal(t, doc.Snapshot(), decoded.Snapshot())
	assert.Zero(t, decoded.PendingRecords())

	again, err := EncodeBytes(decoded)
	require.NoError(t, err)
	assert.Equal(t, string(data), string(again))
}

func TestDecodeEmptyBody(t *testing.T) {
	doc, prov, err := Decode(strings.NewReader("<html><body></body></html>"))
	require.NoError(t, err)
	assert.Equal(t, Native, prov)
	require.Equal(t, 1, doc.BlockCount())
	assert.True(t, doc.FirstBlock().IsParagraph())
}

func TestDecodeForeignMarkup(t *testing.T) {
	markup := `<html><body>` +
		`<h5>Deep</h5>` +
		`<div>Block</div>` +
		`<ul><li>one</li><li aria-level="3">two</li></ul>` +
		`<script>alert(1)</script>` +
		`<p style="color:red">styled</p>` +
		`</body></html>`

	doc, prov, err := Decode(strings.NewReader(markup))
	require.NoError(t, err)
	assert.Equal(t, Imported, prov)

	snap := doc.Snapshot()
	require.Len(t, snap, 5)
	tests := []struct {
		tag    string
		markup string
		level  int
		list   bool
	}{
		{model.TagH4, "Deep", 3, false},
		{model.TagP, "Block", model.PLevel, false},
		{model.TagP, "one", model.PLevel + 1, true},
		{model.TagP, "two", model.PLevel + 3, true},
		{model.TagP, "styled", model.PLevel, false},
	}
	for i, tt := range tests {
		assert.Equal(t, tt.tag, snap[i].Tag, "block %d", i)
		assert.Equal(t, tt.markup, snap[i].Markup, "block %d", i)
		assert.Equal(t, tt.level, snap[i].Level, "block %d", i)
		assert.Equal(t, tt.list, snap[i].ListItem, "block %d", i)
	}
	// H4 carries the words of everything below it
	assert.Equal(t, 4, snap[0].ChildWords)
}

func TestDecodeNestedULDepth(t *testing.T) {
	markup := `<body><ul><li>outer</li><li><ul><li>inner</li></ul></li></ul></body>`
	doc, prov, err := Decode(strings.NewReader(markup))
	require.NoError(t, err)
	assert.Equal(t, Imported, prov)

	blocks := doc.Blocks()
	indents := map[string]int{}
	for _, b := range blocks {
		indents[b.TextContent()] = b.IndentLevel()
	}
	assert.Equal(t, 1, indents["outer"])
	assert.Equal(t, 2, indents["inner"])
}

func TestParseFragmentUnnests(t *testing.T) {
	doc := model.NewDocument()
	blocks, prov, err := ParseFragment(doc, strings.NewReader(`<div>lead<p>nested</p>tail</div><span>loose</span>`))
	require.NoError(t, err)
	assert.Equal(t, Imported, prov)
	assert.Equal(t, []string{"lead", "nested", "tail", "loose"}, blockTexts(blocks))
	for _, b := range blocks {
		assert.True(t, b.IsParagraph())
		assert.Nil(t, b.Parent(), "fragment blocks are detached")
	}
	assert.Zero(t, doc.PendingRecords())
}

func TestParseFragmentDropsEmptyBlocks(t *testing.T) {
	doc := model.NewDocument()
	blocks, _, err := ParseFragment(doc, strings.NewReader(`<p></p><p>   </p><h1>Kept</h1><p><br></p>`))
	require.NoError(t, err)
	assert.Equal(t, []string{"Kept"}, blockTexts(blocks))
}

func TestParseFragmentKeepsInlineWrappers(t *testing.T) {
	doc := model.NewDocument()
	blocks, prov, err := ParseFragment(doc, strings.NewReader(`<p>one <b>two</b> <a href="x">three</a></p>`))
	require.NoError(t, err)
	assert.Equal(t, Imported, prov)
	require.Len(t, blocks, 1)
	assert.Equal(t, "one <B>two</B> three", model.InlineMarkup(blocks[0]))
}

func TestParseFragmentNativeMarkup(t *testing.T) {
	doc := model.NewDocument()
	blocks, prov, err := ParseFragment(doc, strings.NewReader(`<h2 class="hidden">A</h2><p class="userListItem" data-indent="1">child</p>`))
	require.NoError(t, err)
	assert.Equal(t, Native, prov)
	require.Len(t, blocks, 2)
	assert.True(t, blocks[0].Hidden())
	assert.True(t, blocks[1].HiddenByParent())
	assert.Equal(t, 1, blocks[1].IndentLevel())
	assert.True(t, blocks[1].ListItem())
}

func TestProvenanceString(t *testing.T) {
	assert.Equal(t, "native", Native.String())
	assert.Equal(t, "imported", Imported.String())
}
