package app

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/pstuifzand/sermonedit/internal/model"
	"github.com/pstuifzand/sermonedit/internal/storage"
)

// Paste inserts sanitized block markup after the current block. Pasting
// into an empty block replaces it. The caret ends at the end of the pasted
// content.
func (e *Editor) Paste(markup string) error {
	e.Begin(CategoryPaste)
	e.sectionHighlight = false
	if !e.update() {
		return fmt.Errorf("failed to paste: no selection")
	}
	blocks, _, err := storage.ParseFragment(e.doc, strings.NewReader(markup))
	if err != nil {
		return fmt.Errorf("failed to paste: %w", err)
	}
	e.insertBlocks(blocks)
	return nil
}

// PasteText pastes plain text. A single line is typed at the caret, several
// lines become one paragraph each.
func (e *Editor) PasteText(text string) error {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(lines) <= 1 {
		if e.InsertText(text) {
			e.history.Boundary()
		}
		return nil
	}

	e.Begin(CategoryPaste)
	e.sectionHighlight = false
	if !e.update() {
		return fmt.Errorf("failed to paste: no selection")
	}
	var blocks []*model.Node
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		blocks = append(blocks, e.doc.NewBlock(model.TagP, line))
	}
	e.insertBlocks(blocks)
	return nil
}

// PasteFromClipboard pastes the system clipboard. Content that looks like
// markup is parsed as blocks.
func (e *Editor) PasteFromClipboard() error {
	text, err := clipboard.ReadAll()
	if err != nil {
		return fmt.Errorf("failed to read clipboard: %w", err)
	}
	if strings.HasPrefix(strings.TrimSpace(text), "<") {
		return e.Paste(text)
	}
	return e.PasteText(text)
}

func (e *Editor) insertBlocks(blocks []*model.Node) {
	if len(blocks) == 0 {
		e.finish()
		return
	}
	if e.sel.IsRange() {
		e.deleteSelection()
	}
	current := e.sel.EndBlock
	replace := current.IsParagraph() && strings.TrimSpace(current.TextContent()) == "" && !current.Hidden()
	anchor := e.outline.ThisOrLastHiddenChild(current)
	e.doc.InsertAfter(anchor, blocks...)
	if replace {
		e.doc.Remove(current)
	}

	e.caret(endOf(blocks[len(blocks)-1]))
	e.outline.ApplyShowingDepth()
	e.outline.RecountAll()
	e.finish()
}
