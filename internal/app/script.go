package app

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/pstuifzand/sermonedit/internal/model"
	"github.com/pstuifzand/sermonedit/internal/search"
	"github.com/pstuifzand/sermonedit/internal/storage"
)

// ErrNoStore is returned by the write command when no store is attached
var ErrNoStore = errors.New("no store attached")

// SetStore attaches the persistence used by the write command
func (e *Editor) SetStore(p storage.Persistence) {
	e.store = p
}

// parseCommand splits a command line into words. Single and double quotes
// group words, and a backslash escapes the next character.
func parseCommand(cmd string) []string {
	var parts []string
	var current strings.Builder
	var quote rune
	inWord := false
	escaped := false

	for _, r := range cmd {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
			inWord = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inWord = true
		case r == ' ' || r == '\t':
			if inWord {
				parts = append(parts, current.String())
				current.Reset()
				inWord = false
			}
		default:
			current.WriteRune(r)
			inWord = true
		}
	}
	if inWord {
		parts = append(parts, current.String())
	}
	return parts
}

// Execute runs one command line
func (e *Editor) Execute(cmd string) error {
	parts := parseCommand(cmd)
	if len(parts) == 0 {
		return nil
	}
	args := parts[1:]

	switch parts[0] {
	case "type":
		for _, r := range strings.Join(args, " ") {
			e.InsertText(string(r))
		}
	case "paste":
		return e.Paste(strings.Join(args, " "))
	case "paste-text":
		return e.PasteText(strings.Join(args, "\n"))
	case "enter":
		e.Enter()
	case "backspace":
		e.Backspace()
	case "tab", "indent":
		e.Indent()
	case "promote":
		e.Promote()
	case "demote":
		e.Demote()
	case "up":
		e.MoveUp()
	case "down":
		e.MoveDown()
	case "section-up":
		e.MoveSectionUp()
	case "section-down":
		e.MoveSectionDown()
	case "hide":
		e.ToggleHide()
	case "remove":
		e.RemoveBlocks()
	case "alt-a":
		e.ToggleAltA()
	case "alt-b":
		e.ToggleAltB()
	case "undo":
		e.Undo()
	case "redo":
		e.Redo()
	case "more":
		e.ShowMore()
	case "less":
		e.ShowLess()
	case "depth":
		n, err := intArgs(args, 1)
		if err != nil {
			return fmt.Errorf("depth: %w", err)
		}
		e.SetShowingDepth(n[0])
	case "left", "right":
		steps := 1
		if len(args) > 0 {
			n, err := intArgs(args, 1)
			if err != nil {
				return fmt.Errorf("%s: %w", parts[0], err)
			}
			steps = n[0]
		}
		if parts[0] == "left" {
			steps = -steps
		}
		e.MoveCaret(steps)
	case "caret":
		n, err := intArgs(args, 2)
		if err != nil {
			return fmt.Errorf("caret: %w", err)
		}
		p, err := e.blockPoint(n[0], n[1])
		if err != nil {
			return err
		}
		e.Select(p, p)
	case "select":
		n, err := intArgs(args, 4)
		if err != nil {
			return fmt.Errorf("select: %w", err)
		}
		anchor, err := e.blockPoint(n[0], n[1])
		if err != nil {
			return err
		}
		focus, err := e.blockPoint(n[2], n[3])
		if err != nil {
			return err
		}
		e.Select(anchor, focus)
	case "key":
		for _, arg := range args {
			ev, err := ParseKey(arg)
			if err != nil {
				return err
			}
			e.HandleKey(ev)
		}
	case "set":
		if len(args) != 2 {
			return fmt.Errorf("set: expected key and value")
		}
		e.cfg.Set(args[0], args[1])
	case "find":
		found, err := search.Find(e.doc, strings.Join(args, " "))
		if err != nil {
			return fmt.Errorf("find: %w", err)
		}
		if len(found) == 0 {
			e.SetStatus("No matches")
			return nil
		}
		p := startOf(found[0])
		e.Select(p, p)
		e.SetStatus(fmt.Sprintf("%d matches", len(found)))
	case "jump":
		query := strings.Join(args, " ")
		matches := search.RankHeadings(e.doc, query)
		if len(matches) == 0 {
			return fmt.Errorf("jump: no heading matches %q", query)
		}
		p := startOf(matches[0].Node)
		e.Select(p, p)
		e.SetStatus(matches[0].Title)
	case "w", "write":
		if e.store == nil {
			return ErrNoStore
		}
		if _, err := e.Save(e.store); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown command: %s", parts[0])
	}
	return nil
}

// RunScript executes r line by line. Blank lines and lines starting with #
// are skipped.
func (e *Editor) RunScript(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if err := e.Execute(text); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read script: %w", err)
	}
	return nil
}

// blockPoint resolves a block index and text offset
func (e *Editor) blockPoint(index, offset int) (model.Point, error) {
	blocks := e.doc.Blocks()
	if index < 0 || index >= len(blocks) {
		return model.Point{}, fmt.Errorf("block %d out of range (0-%d)", index, len(blocks)-1)
	}
	return pointAt(blocks[index], offset), nil
}

func intArgs(args []string, want int) ([]int, error) {
	if len(args) != want {
		return nil, fmt.Errorf("expected %d numbers, got %d", want, len(args))
	}
	out := make([]int, want)
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", a)
		}
		out[i] = n
	}
	return out, nil
}

// ParseKey builds a key event from a name such as "Alt+Shift+Up", "Tab",
// "Ctrl+Z" or "Alt+h"
func ParseKey(name string) (*tcell.EventKey, error) {
	fields := strings.Split(name, "+")
	mod := tcell.ModNone
	for _, m := range fields[:len(fields)-1] {
		switch strings.ToLower(m) {
		case "alt":
			mod |= tcell.ModAlt
		case "shift":
			mod |= tcell.ModShift
		case "ctrl":
			mod |= tcell.ModCtrl
		default:
			return nil, fmt.Errorf("unknown modifier %q in %q", m, name)
		}
	}
	last := fields[len(fields)-1]

	if utf8.RuneCountInString(last) == 1 {
		r, _ := utf8.DecodeRuneInString(last)
		if mod&tcell.ModCtrl != 0 {
			if k, ok := ctrlKeys[strings.ToLower(last)]; ok {
				return tcell.NewEventKey(k, 0, mod), nil
			}
		}
		return tcell.NewEventKey(tcell.KeyRune, r, mod), nil
	}
	for k, n := range tcell.KeyNames {
		if strings.EqualFold(n, last) {
			return tcell.NewEventKey(k, 0, mod), nil
		}
	}
	return nil, fmt.Errorf("unknown key %q", name)
}

var ctrlKeys = map[string]tcell.Key{
	"v": tcell.KeyCtrlV,
	"y": tcell.KeyCtrlY,
	"z": tcell.KeyCtrlZ,
}
