package app

// Category classifies an input event for undo batching. Consecutive events
// of one category end up in the same undo step.
type Category int

const (
	NoCategory Category = iota
	CategoryText
	CategoryEnter
	CategoryBackspace
	CategoryRemove
	CategoryMove
	CategoryPromote
	CategoryHide
	CategoryPaste
	CategoryMoveCaret
	CategoryUndoRedo
	CategoryToggleAltA
	CategoryToggleAltB
)

var categoryNames = map[Category]string{
	NoCategory:         "none",
	CategoryText:       "text",
	CategoryEnter:      "enter",
	CategoryBackspace:  "backspace",
	CategoryRemove:     "remove",
	CategoryMove:       "move",
	CategoryPromote:    "promote",
	CategoryHide:       "hide",
	CategoryPaste:      "paste",
	CategoryMoveCaret:  "move-caret",
	CategoryUndoRedo:   "undo-redo",
	CategoryToggleAltA: "toggle-alt-a",
	CategoryToggleAltB: "toggle-alt-b",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "unknown"
}

// Begin classifies the next event. A change of category closes the open
// undo step. Undo and redo never take part in the comparison: they close
// their own steps.
func (e *Editor) Begin(c Category) {
	e.history.Flush()
	switch {
	case c == CategoryUndoRedo:
	case e.category == CategoryUndoRedo:
	case c != e.category:
		e.history.Boundary()
	}
	e.category = c
}

// Category returns the category of the last event.
func (e *Editor) Category() Category {
	return e.category
}
