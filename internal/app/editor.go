package app

import (
	"fmt"
	"time"

	"github.com/pstuifzand/sermonedit/internal/config"
	"github.com/pstuifzand/sermonedit/internal/history"
	"github.com/pstuifzand/sermonedit/internal/model"
	"github.com/pstuifzand/sermonedit/internal/outline"
	"github.com/pstuifzand/sermonedit/internal/selection"
	"github.com/pstuifzand/sermonedit/internal/storage"
)

// Editor is the command layer over one outline document
type Editor struct {
	doc     *model.Document
	outline *outline.Engine
	sel     selection.Selection
	surface selection.Surface
	history *history.Manager
	cfg     *config.Config
	store   storage.Persistence

	category    Category
	highlighted []*model.Node
	// sectionHighlight marks the children of the current block while a
	// section command is in progress
	sectionHighlight bool

	statusMsg  string
	statusTime time.Time
	dirty      bool
	bindings   []KeyBinding
}

// NewEditor creates an Editor for doc. A nil surface gets an in-memory one
// and a nil cfg the defaults.
func NewEditor(doc *model.Document, surface selection.Surface, cfg *config.Config) *Editor {
	if cfg == nil {
		cfg = config.Default()
	}
	if surface == nil {
		surface = selection.NewMemorySurface(model.Point{})
	}

	e := &Editor{
		doc:        doc,
		outline:    outline.New(doc),
		surface:    surface,
		cfg:        cfg,
		statusMsg:  "Ready",
		statusTime: time.Now(),
	}
	e.history = history.NewManager(doc, cfg.UndoLimit())
	e.outline.OnReplace = e.sel.RepairReplaced
	e.history.AfterReplay = func() {
		e.outline.ApplyShowingDepth()
		e.outline.RecountAll()
	}
	e.bindings = e.InitializeKeybindings()

	doc.EnsureNotEmpty()
	e.outline.SetShowingDepth(cfg.ShowingDepth())
	e.outline.ApplyShowingDepth()
	e.outline.RecountAll()
	// Loading is not an edit
	doc.TakeRecords()

	if anchor, _ := surface.Selection(); anchor.IsZero() || !anchor.Node.IsConnected() {
		start := startOf(doc.FirstBlock())
		surface.SetSelection(start, start)
	}
	e.sel.Update(surface)
	return e
}

// Document returns the edited document
func (e *Editor) Document() *model.Document { return e.doc }

// Outline returns the outline engine
func (e *Editor) Outline() *outline.Engine { return e.outline }

// History returns the undo manager
func (e *Editor) History() *history.Manager { return e.history }

// Surface returns the surface the editor reads and writes the selection on
func (e *Editor) Surface() selection.Surface { return e.surface }

// Selection returns a copy of the current selection
func (e *Editor) Selection() selection.Selection {
	e.sel.Update(e.surface)
	return e.sel.Clone()
}

// Config returns the active configuration
func (e *Editor) Config() *config.Config { return e.cfg }

// Dirty reports whether there are edits that were not saved
func (e *Editor) Dirty() bool { return e.dirty }

// SetStatus sets the status message
func (e *Editor) SetStatus(msg string) {
	e.statusMsg = msg
	e.statusTime = time.Now()
}

// Status returns the status message
func (e *Editor) Status() string { return e.statusMsg }

// Save encodes the document and hands it to p under a suggested name
func (e *Editor) Save(p storage.Persistence) (storage.Handle, error) {
	content, err := storage.EncodeBytes(e.doc)
	if err != nil {
		return storage.Handle{}, fmt.Errorf("failed to encode document: %w", err)
	}
	name := storage.SuggestedName(e.cfg.NameFormat(), time.Now())
	handle, err := p.Save(content, name)
	if err != nil {
		return storage.Handle{}, fmt.Errorf("failed to save: %w", err)
	}
	e.dirty = false
	e.SetStatus("Saved " + handle.Path)
	return handle, nil
}

// update reads the live selection. Commands do nothing without a valid one.
func (e *Editor) update() bool {
	e.sel.Update(e.surface)
	return e.sel.Valid
}

// finish pushes the selection back onto the surface, refreshes the
// highlights and hands the mutations of the command to the undo manager
func (e *Editor) finish() {
	if !e.sel.Restore(e.surface) {
		if first := e.doc.FirstBlock(); first != nil {
			e.caret(startOf(first))
			e.sel.Restore(e.surface)
		}
	}
	e.highlight()
	if e.history.Flush() {
		e.dirty = true
	}
}

// caret collapses the logical selection at p
func (e *Editor) caret(p model.Point) {
	e.sel.Collapse(p)
}

// highlight marks the selected blocks as active paragraphs
func (e *Editor) highlight() {
	for _, n := range e.highlighted {
		e.doc.SetFlag(n, model.AttrActiveParagraph, false)
		e.doc.SetFlag(n, model.AttrActiveSection, false)
	}
	e.highlighted = e.highlighted[:0]
	if !e.sel.Valid {
		return
	}
	for n := range e.sel.Blocks() {
		e.doc.SetFlag(n, model.AttrActiveParagraph, true)
		e.highlighted = append(e.highlighted, n)
	}
	if e.sectionHighlight && e.sel.IsSingleBlock() {
		for n := range model.ChildrenOf(e.sel.StartBlock) {
			e.doc.SetFlag(n, model.AttrActiveSection, true)
			e.highlighted = append(e.highlighted, n)
		}
	}
}

// refreshWords recounts one edited block, propagating the change when it
// can be attributed to that block alone
func (e *Editor) refreshWords(n *model.Node) {
	d := e.outline.RefreshWordCount(n)
	if !d.HadValidCache {
		e.outline.RecountAll()
		return
	}
	if d.Delta == 0 || n.Hidden() || model.LevelOf(n) < model.PLevel {
		return
	}
	e.outline.PropagateDelta(n, d.Delta, true)
}

func startOf(n *model.Node) model.Point {
	p, _ := selection.FindNodeAndOffsetAt(n, 0)
	return p
}

func endOf(n *model.Node) model.Point {
	p, _ := selection.FindNodeAndOffsetAt(n, selection.EndOfNode)
	return p
}

func pointAt(n *model.Node, offset int) model.Point {
	p, _ := selection.FindNodeAndOffsetAt(n, offset)
	return p
}
