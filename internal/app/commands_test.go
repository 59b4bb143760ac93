package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/sermonedit/internal/model"
)

func TestPromoteDemoteHeading(t *testing.T) {
	e, b := newEditor(t, "H1 A", "H2 B")
	caret(e, b[1], 1)

	require.True(t, e.Promote())
	assert.Equal(t, []string{"H1 A", "H1 B"}, lines(e))
	sel := e.Selection()
	assert.Equal(t, model.TagH1, sel.StartBlock.Tag, "the selection follows the converted block")
	assert.Equal(t, 1, sel.StartOffset())

	require.True(t, e.Demote())
	assert.Equal(t, []string{"H1 A", "H2 B"}, lines(e))
}

func TestDemoteParagraphIntoList(t *testing.T) {
	e, b := newEditor(t, "P a")
	caret(e, b[0], 0)

	require.True(t, e.Demote())
	require.True(t, e.Demote())
	assert.Equal(t, []string{"P2 a"}, lines(e))
	assert.True(t, b[0].Flag(model.AttrEvenList))

	require.True(t, e.Promote())
	require.True(t, e.Promote())
	assert.Equal(t, []string{"P a"}, lines(e))
	assert.False(t, b[0].ListItem())

	require.True(t, e.Promote())
	assert.Equal(t, []string{"H4 a"}, lines(e))
}

func TestPromoteRangeSkipsHiddenBlocks(t *testing.T) {
	e, b := newEditor(t, "H2 A", "P x", "H2 B")
	caret(e, b[0], 0)
	require.True(t, e.ToggleHide())

	selectRange(e, b[0], 0, b[2], 1)
	e.Promote()
	assert.Equal(t, []string{"H2 A", "P x", "H1 B"}, lines(e), "collapsed blocks are left alone")
}

func TestIndentOnlyAtBlockStart(t *testing.T) {
	e, b := newEditor(t, "P ab", "H1 T")

	caret(e, b[0], 1)
	assert.False(t, e.Indent())

	caret(e, b[1], 0)
	assert.False(t, e.Indent(), "headings are not indented")

	caret(e, b[0], 0)
	assert.True(t, e.Indent())
	assert.Equal(t, []string{"P1 ab", "H1 T"}, lines(e))
}

func TestIndentMatchesListStyle(t *testing.T) {
	e, b := newEditor(t, "P1 one", "P two")
	caret(e, b[0], 0)
	require.True(t, e.ToggleAltA())
	require.True(t, b[0].AltA())

	caret(e, b[1], 0)
	require.True(t, e.Indent())
	assert.True(t, b[1].AltA(), "the new item continues the numbering of the list")
}

func TestSpaceAtStartIndents(t *testing.T) {
	e, b := newEditor(t, "P item")
	caret(e, b[0], 0)

	require.True(t, e.InsertText(" "))
	assert.Equal(t, []string{"P1 item"}, lines(e))
}

func TestMoveUpAndDown(t *testing.T) {
	e, b := newEditor(t, "P a", "P b", "P c")
	caret(e, b[2], 0)

	require.True(t, e.MoveUp())
	assert.Equal(t, []string{"P a", "P c", "P b"}, lines(e))
	require.True(t, e.MoveUp())
	assert.Equal(t, []string{"P c", "P a", "P b"}, lines(e))
	assert.False(t, e.MoveUp())

	require.True(t, e.MoveDown())
	assert.Equal(t, []string{"P a", "P c", "P b"}, lines(e))
	assert.Equal(t, b[2], e.Selection().StartBlock)
}

func TestMoveCarriesHiddenChildren(t *testing.T) {
	e, b := newEditor(t, "H1 A", "P x", "H1 B")
	caret(e, b[0], 0)
	require.True(t, e.ToggleHide())

	require.True(t, e.MoveDown())
	assert.Equal(t, []string{"H1 B", "H1 A", "P x"}, lines(e))
	assert.True(t, b[1].HiddenByParent())

	caret(e, b[2], 0)
	require.True(t, e.MoveDown())
	assert.Equal(t, []string{"H1 A", "P x", "H1 B"}, lines(e))
}

func TestMoveSectionUp(t *testing.T) {
	e, b := newEditor(t, "H2 S1", "P a", "H2 S2", "P b", "P c")
	caret(e, b[2], 0)

	require.True(t, e.MoveSectionUp())
	assert.Equal(t, []string{"H2 S2", "P b", "P c", "H2 S1", "P a"}, lines(e))
	assert.False(t, e.MoveSectionUp())
}

func TestMoveSectionDownToTheEnd(t *testing.T) {
	e, b := newEditor(t, "H2 S1", "P a", "H2 S2", "P b")
	caret(e, b[0], 0)

	require.True(t, e.MoveSectionDown())
	assert.Equal(t, []string{"H2 S2", "P b", "H2 S1", "P a"}, lines(e))
	assert.False(t, e.MoveSectionDown())
}

func TestMoveSectionMarksChildren(t *testing.T) {
	e, b := newEditor(t, "H2 S1", "P a", "H2 S2")
	caret(e, b[0], 0)
	require.True(t, e.MoveSectionDown())

	assert.True(t, b[0].Flag(model.AttrActiveParagraph))
	assert.True(t, b[1].Flag(model.AttrActiveSection))

	caret(e, b[2], 0)
	require.True(t, e.MoveDown())
	assert.Equal(t, []string{"H2 S1", "H2 S2", "P a"}, lines(e))
	assert.False(t, b[1].Flag(model.AttrActiveSection))
}

func TestToggleHideRange(t *testing.T) {
	e, b := newEditor(t, "H1 A", "H2 B", "P x", "H2 C", "P y")
	selectRange(e, b[1], 0, b[3], 0)

	require.True(t, e.ToggleHide())
	assert.True(t, b[1].Hidden())
	assert.True(t, b[2].Hidden(), "every block in the range is toggled")
	assert.True(t, b[3].Hidden())
	assert.True(t, b[2].HiddenByParent())
	assert.True(t, b[4].HiddenByParent())
	assert.Equal(t, 0, b[1].ChildWords(), "x is collapsed so B does not count it")
	assert.Equal(t, 1, b[3].ChildWords())
	assert.Equal(t, 0, b[0].ChildWords(), "collapsed sections do not count for their parent")
	assert.Equal(t, 0, e.Outline().TotalWords())
}

func TestRemoveBlocks(t *testing.T) {
	e, b := newEditor(t, "P a", "P b", "P c")
	caret(e, b[1], 0)

	require.True(t, e.RemoveBlocks())
	assert.Equal(t, []string{"P a", "P c"}, lines(e))
	assert.Equal(t, b[2], e.Selection().StartBlock)

	require.True(t, e.Undo())
	assert.Equal(t, []string{"P a", "P b", "P c"}, lines(e))
}

func TestRemoveBlocksTakesHiddenTail(t *testing.T) {
	e, b := newEditor(t, "H1 A", "P x", "P y")
	caret(e, b[0], 0)
	require.True(t, e.ToggleHide())

	require.True(t, e.RemoveBlocks())
	assert.Equal(t, []string{"P "}, lines(e), "an emptied document gets a fresh paragraph")
}

func TestRemoveLastBlockMovesCaretBack(t *testing.T) {
	e, b := newEditor(t, "P ab", "P cd")
	caret(e, b[1], 1)

	require.True(t, e.RemoveBlocks())
	sel := e.Selection()
	assert.Equal(t, b[0], sel.StartBlock)
	assert.Equal(t, 2, sel.StartOffset())
}

func TestToggleAltStyles(t *testing.T) {
	e, b := newEditor(t, "P1 a", "P1 b", "H1 c")
	caret(e, b[0], 0)
	require.True(t, e.ToggleAltA())

	selectRange(e, b[0], 0, b[2], 0)
	require.True(t, e.ToggleAltA())
	assert.True(t, b[0].AltA())
	assert.True(t, b[1].AltA())
	assert.False(t, b[2].AltA(), "headings have no alternate style")

	require.True(t, e.ToggleAltA())
	assert.False(t, b[0].AltA())
	assert.False(t, b[1].AltA())

	require.True(t, e.ToggleAltB())
	assert.True(t, b[0].AltB())

	caret(e, b[2], 0)
	assert.False(t, e.ToggleAltB())
}

func TestShowingDepthReanchorsSelection(t *testing.T) {
	e, b := newEditor(t, "H1 A", "H2 B", "P x")
	caret(e, b[2], 0)

	require.True(t, e.SetShowingDepth(1))
	assert.True(t, b[2].BelowThreshold())
	assert.Equal(t, b[1], e.Selection().StartBlock)
	assert.False(t, e.History().CanUndo(), "folding is not an edit")

	require.True(t, e.ShowMore())
	require.True(t, e.ShowMore())
	require.True(t, e.ShowMore())
	assert.False(t, b[2].BelowThreshold())
	assert.False(t, e.ShowMore())

	require.True(t, e.ShowLess())
	assert.Equal(t, 3, e.Outline().ShowingDepth())
}

func TestUndoRedoNothing(t *testing.T) {
	e, _ := newEditor(t, "P a")
	assert.False(t, e.Undo())
	assert.Equal(t, "Nothing to undo", e.Status())
	assert.False(t, e.Redo())
	assert.Equal(t, "Nothing to redo", e.Status())
}

func TestUndoRedoStructuralCommands(t *testing.T) {
	e, b := newEditor(t, "H1 Title", "P one two", "P three", "H2 Part", "P four")
	start := e.Document().Snapshot()

	caret(e, b[1], 3)
	typeText(e, "X")
	require.True(t, e.Enter())
	require.True(t, e.Demote())
	caret(e, b[3], 0)
	require.True(t, e.ToggleHide())
	caret(e, b[2], 0)
	require.True(t, e.MoveDown())
	require.True(t, e.ToggleAltB())
	end := e.Document().Snapshot()

	assert.Equal(t, 6, undoAll(t, e))
	assert.Equal(t, start, e.Document().Snapshot())

	redone := 0
	for e.History().CanRedo() {
		require.True(t, e.Redo())
		redone++
	}
	assert.Equal(t, 6, redone)
	assert.Equal(t, end, e.Document().Snapshot())
}

func TestDirtyAfterEdit(t *testing.T) {
	e, b := newEditor(t, "P a")
	assert.False(t, e.Dirty())
	caret(e, b[0], 1)
	assert.False(t, e.Dirty(), "moving the caret is not an edit")
	typeText(e, "b")
	assert.True(t, e.Dirty())
}
