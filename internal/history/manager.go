// Package history builds undo and redo steps out of the mutation records
// of a model.Document and replays their inverses.
package history

import (
	"log"

	"github.com/pstuifzand/sermonedit/internal/model"
)

// DefaultLimit is the number of undo steps kept when no limit is set.
const DefaultLimit = 500

// Values of the undo marker on the document root. A replay sets the marker
// before applying inverses and clears it afterwards, so the records of the
// replay can be told apart from fresh edits when they are observed.
const (
	markerNone = iota
	markerUndo
	markerRedo
)

// Transaction is one undo step: records in the order they were applied.
type Transaction struct {
	Records []model.Record
}

// Len returns the number of records.
func (t *Transaction) Len() int { return len(t.Records) }

// Result describes the outcome of an undo or redo.
type Result struct {
	Start   model.Point
	End     model.Point
	Applied bool
}

// Manager keeps the undo and redo stacks of one document.
type Manager struct {
	doc   *model.Document
	limit int

	undo []*Transaction
	redo []*Transaction
	open *Transaction

	// replaying collects the records of an undo or redo while its marker
	// window is open.
	replaying *Transaction

	// AfterReplay runs at the end of every replay, inside the marker window,
	// so its mutations become part of the opposite step.
	AfterReplay func()
}

// NewManager creates a manager for doc keeping at most limit steps.
func NewManager(doc *model.Document, limit int) *Manager {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Manager{doc: doc, limit: limit}
}

// Observe records a batch of mutations. Feed it what the document returns
// from TakeRecords, in order. It returns the number of records that became
// part of a step.
func (m *Manager) Observe(records []model.Record) int {
	root := m.doc.Root()
	kept := 0
	for _, r := range records {
		if r.Type == model.RecordAttribute && r.Target == root && r.Attr == model.AttrUndoMarker {
			m.observeMarker(r.OldValue)
			continue
		}
		if r.Type == model.RecordAttribute && r.Attr.IsPresentation() {
			continue
		}
		kept++
		if m.replaying != nil {
			m.replaying.Records = append(m.replaying.Records, r)
			continue
		}
		if m.open == nil {
			m.open = &Transaction{}
			m.redo = nil
		}
		m.open.Records = append(m.open.Records, r)
	}
	return kept
}

// observeMarker handles a change of the undo marker. old is the value the
// marker had before the change.
func (m *Manager) observeMarker(old int) {
	switch old {
	case markerNone:
		m.replaying = &Transaction{}
	case markerUndo:
		m.finishReplay(&m.redo)
	case markerRedo:
		m.finishReplay(&m.undo)
	}
}

func (m *Manager) finishReplay(stack *[]*Transaction) {
	t := m.replaying
	m.replaying = nil
	if t == nil || t.Len() == 0 {
		return
	}
	*stack = m.push(*stack, t)
}

func (m *Manager) push(stack []*Transaction, t *Transaction) []*Transaction {
	stack = append(stack, t)
	if len(stack) > m.limit {
		stack = stack[len(stack)-m.limit:]
	}
	return stack
}

// Flush observes whatever the document queued since the last call and
// reports whether any of it was recorded.
func (m *Manager) Flush() bool {
	if m.doc.PendingRecords() == 0 {
		return false
	}
	return m.Observe(m.doc.TakeRecords()) > 0
}

func (m *Manager) flush() { m.Flush() }

// Boundary closes the open transaction. The next edit starts a new step.
func (m *Manager) Boundary() {
	m.flush()
	if m.open == nil {
		return
	}
	if m.open.Len() > 0 {
		m.undo = m.push(m.undo, m.open)
	}
	m.open = nil
}

// Pause suspends recording until the returned func is called. Mutations
// made meanwhile are neither undone nor redone.
func (m *Manager) Pause() func() {
	m.flush()
	return m.doc.Suppress()
}

// CanUndo reports whether there is a step to undo.
func (m *Manager) CanUndo() bool {
	m.flush()
	return len(m.undo) > 0 || (m.open != nil && m.open.Len() > 0)
}

// CanRedo reports whether there is a step to redo.
func (m *Manager) CanRedo() bool {
	m.flush()
	return len(m.redo) > 0
}

// UndoDepth returns the number of closed undo steps.
func (m *Manager) UndoDepth() int { return len(m.undo) }

// RedoDepth returns the number of redo steps.
func (m *Manager) RedoDepth() int { return len(m.redo) }

// Clear forgets all steps.
func (m *Manager) Clear() {
	m.doc.TakeRecords()
	m.undo = nil
	m.redo = nil
	m.open = nil
	m.replaying = nil
}

// Undo reverts the most recent step. Steps whose replay has no effect are
// dropped and the next one is tried.
func (m *Manager) Undo() Result {
	m.Boundary()
	return m.replayFrom(&m.undo, markerUndo)
}

// Redo reapplies the most recently undone step.
func (m *Manager) Redo() Result {
	m.Boundary()
	return m.replayFrom(&m.redo, markerRedo)
}

func (m *Manager) replayFrom(stack *[]*Transaction, marker int) Result {
	for len(*stack) > 0 {
		s := *stack
		t := s[len(s)-1]
		*stack = s[:len(s)-1]

		res := m.replay(t, marker)
		m.flush()
		if res.Applied {
			return res
		}
		log.Printf("history: step of %d records had no effect, trying the next one", t.Len())
	}
	return Result{}
}

func (m *Manager) replay(t *Transaction, marker int) Result {
	root := m.doc.Root()
	m.doc.SetAttr(root, model.AttrUndoMarker, marker)
	defer m.doc.SetAttr(root, model.AttrUndoMarker, markerNone)

	var ranges touched
	for i := len(t.Records) - 1; i >= 0; i-- {
		r := t.Records[i]
		if !invert(m.doc, r, &ranges) {
			log.Printf("history: skipping %s record that no longer applies", r.Type)
			continue
		}
		ranges.applied = true
	}
	if ranges.applied && m.AfterReplay != nil {
		m.AfterReplay()
	}
	return ranges.result()
}
