package app

import (
	"fmt"
	"log"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// KeyBinding represents a key binding with its description and handler
type KeyBinding struct {
	Key         tcell.Key
	Rune        rune // only for tcell.KeyRune
	Mod         tcell.ModMask
	Description string
	Handler     func(*Editor) bool
}

// GetDescription returns the description of this keybinding
func (kb *KeyBinding) GetDescription() string {
	return kb.Description
}

// String renders the key combination, e.g. "Alt+Shift+Up"
func (kb *KeyBinding) String() string {
	var parts []string
	if kb.Mod&tcell.ModCtrl != 0 && !isControlKey(kb.Key) {
		parts = append(parts, "Ctrl")
	}
	if kb.Mod&tcell.ModAlt != 0 {
		parts = append(parts, "Alt")
	}
	if kb.Mod&tcell.ModShift != 0 {
		parts = append(parts, "Shift")
	}
	if kb.Key == tcell.KeyRune {
		parts = append(parts, strings.ToUpper(string(kb.Rune)))
	} else {
		parts = append(parts, tcell.KeyNames[kb.Key])
	}
	return strings.Join(parts, "+")
}

// Matches reports whether ev triggers this binding
func (kb *KeyBinding) Matches(ev *tcell.EventKey) bool {
	key, mod := ev.Key(), ev.Modifiers()
	if isControlKey(key) {
		// The control bit is implied by the key itself
		mod &^= tcell.ModCtrl
	}
	if key == tcell.KeyBackspace2 {
		key = tcell.KeyBackspace
	}
	if key != kb.Key || mod != kb.Mod {
		return false
	}
	if key == tcell.KeyRune {
		return ev.Rune() == kb.Rune || ev.Rune() == []rune(strings.ToUpper(string(kb.Rune)))[0]
	}
	return true
}

func isControlKey(k tcell.Key) bool {
	return k >= tcell.KeyCtrlSpace && k <= tcell.KeyCtrlUnderscore
}

// InitializeKeybindings sets up the shortcut surface of the editor
func (e *Editor) InitializeKeybindings() []KeyBinding {
	return []KeyBinding{
		{
			Key:         tcell.KeyTab,
			Description: "Indent or demote",
			Handler:     (*Editor).Indent,
		},
		{
			Key:         tcell.KeyLeft,
			Mod:         tcell.ModAlt,
			Description: "Promote",
			Handler:     (*Editor).Promote,
		},
		{
			Key:         tcell.KeyRight,
			Mod:         tcell.ModAlt,
			Description: "Demote",
			Handler:     (*Editor).Demote,
		},
		{
			Key:         tcell.KeyUp,
			Mod:         tcell.ModAlt,
			Description: "Move block up",
			Handler:     (*Editor).MoveUp,
		},
		{
			Key:         tcell.KeyDown,
			Mod:         tcell.ModAlt,
			Description: "Move block down",
			Handler:     (*Editor).MoveDown,
		},
		{
			Key:         tcell.KeyUp,
			Mod:         tcell.ModAlt | tcell.ModShift,
			Description: "Move section up",
			Handler:     (*Editor).MoveSectionUp,
		},
		{
			Key:         tcell.KeyDown,
			Mod:         tcell.ModAlt | tcell.ModShift,
			Description: "Move section down",
			Handler:     (*Editor).MoveSectionDown,
		},
		{
			Key:         tcell.KeyRune,
			Rune:        'h',
			Mod:         tcell.ModAlt,
			Description: "Toggle hide",
			Handler:     (*Editor).ToggleHide,
		},
		{
			Key:         tcell.KeyBackspace,
			Mod:         tcell.ModAlt,
			Description: "Delete block(s)",
			Handler:     (*Editor).RemoveBlocks,
		},
		{
			Key:         tcell.KeyRune,
			Rune:        'n',
			Mod:         tcell.ModAlt,
			Description: "Toggle numbered style",
			Handler:     (*Editor).ToggleAltA,
		},
		{
			Key:         tcell.KeyRune,
			Rune:        'b',
			Mod:         tcell.ModAlt,
			Description: "Toggle alternate style",
			Handler:     (*Editor).ToggleAltB,
		},
		{
			Key:         tcell.KeyLeft,
			Mod:         tcell.ModAlt | tcell.ModShift,
			Description: "Show less of the outline",
			Handler:     (*Editor).ShowLess,
		},
		{
			Key:         tcell.KeyRight,
			Mod:         tcell.ModAlt | tcell.ModShift,
			Description: "Show more of the outline",
			Handler:     (*Editor).ShowMore,
		},
		{
			Key:         tcell.KeyCtrlZ,
			Description: "Undo",
			Handler:     (*Editor).Undo,
		},
		{
			Key:         tcell.KeyCtrlZ,
			Mod:         tcell.ModShift,
			Description: "Redo",
			Handler:     (*Editor).Redo,
		},
		{
			Key:         tcell.KeyCtrlY,
			Description: "Redo",
			Handler:     (*Editor).Redo,
		},
		{
			Key:         tcell.KeyCtrlV,
			Description: "Paste from clipboard",
			Handler: func(e *Editor) bool {
				if err := e.PasteFromClipboard(); err != nil {
					log.Printf("paste: %v", err)
					e.SetStatus(fmt.Sprintf("Failed to paste: %v", err))
					return false
				}
				return true
			},
		},
		{
			Key:         tcell.KeyEnter,
			Description: "Split paragraph",
			Handler:     (*Editor).Enter,
		},
		{
			Key:         tcell.KeyBackspace,
			Description: "Delete backward",
			Handler:     (*Editor).Backspace,
		},
		{
			Key:         tcell.KeyLeft,
			Description: "Caret left",
			Handler:     func(e *Editor) bool { return e.MoveCaret(-1) },
		},
		{
			Key:         tcell.KeyRight,
			Description: "Caret right",
			Handler:     func(e *Editor) bool { return e.MoveCaret(1) },
		},
		{
			Key:         tcell.KeyUp,
			Description: "Caret up",
			Handler:     func(e *Editor) bool { return e.MoveLine(-1) },
		},
		{
			Key:         tcell.KeyDown,
			Description: "Caret down",
			Handler:     func(e *Editor) bool { return e.MoveLine(1) },
		},
	}
}

// Keybindings returns the active bindings
func (e *Editor) Keybindings() []KeyBinding {
	return e.bindings
}

// GetKeybinding returns the binding ev triggers, or nil
func (e *Editor) GetKeybinding(ev *tcell.EventKey) *KeyBinding {
	for i := range e.bindings {
		if e.bindings[i].Matches(ev) {
			return &e.bindings[i]
		}
	}
	return nil
}

// HandleKey dispatches one key event. Printable runes without a binding are
// typed. It reports whether the event was consumed.
func (e *Editor) HandleKey(ev *tcell.EventKey) bool {
	if kb := e.GetKeybinding(ev); kb != nil {
		return kb.Handler(e)
	}
	if ev.Key() == tcell.KeyRune && ev.Modifiers()&(tcell.ModAlt|tcell.ModCtrl) == 0 {
		return e.InsertText(string(ev.Rune()))
	}
	return false
}
