package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/sermonedit/internal/storage"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "simple command",
			input:    "enter",
			expected: []string{"enter"},
		},
		{
			name:     "command with arguments",
			input:    "caret 1 4",
			expected: []string{"caret", "1", "4"},
		},
		{
			name:     "double quoted string",
			input:    `type "two words"`,
			expected: []string{"type", "two words"},
		},
		{
			name:     "single quoted string",
			input:    "type 'two words'",
			expected: []string{"type", "two words"},
		},
		{
			name:     "mixed quotes",
			input:    `paste "<p>Hello World</p>" and more`,
			expected: []string{"paste", "<p>Hello World</p>", "and", "more"},
		},
		{
			name:     "escaped quotes",
			input:    `paste "<p class=\"hidden\">x</p>"`,
			expected: []string{"paste", `<p class="hidden">x</p>`},
		},
		{
			name:     "escaped backslash",
			input:    `type "C:\\Users\\test"`,
			expected: []string{"type", `C:\Users\test`},
		},
		{
			name:     "multiple spaces",
			input:    "select    0 1    0 3",
			expected: []string{"select", "0", "1", "0", "3"},
		},
		{
			name:     "tabs and spaces",
			input:    "key\tAlt+h\t  Tab",
			expected: []string{"key", "Alt+h", "Tab"},
		},
		{
			name:     "empty quoted string",
			input:    `type ""`,
			expected: []string{"type", ""},
		},
		{
			name:     "quoted string with special characters",
			input:    `set name_format "sermon-%Y-%m-%d&x=1.html"`,
			expected: []string{"set", "name_format", "sermon-%Y-%m-%d&x=1.html"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseCommand(tt.input)
			if len(result) != len(tt.expected) {
				t.Errorf("Expected %d parts, got %d. Input: %q", len(tt.expected), len(result), tt.input)
				return
			}
			for i, part := range result {
				if part != tt.expected[i] {
					t.Errorf("Part %d: expected %q, got %q. Input: %q", i, tt.expected[i], part, tt.input)
				}
			}
		})
	}
}

func TestRunScript(t *testing.T) {
	e, _ := newEditor(t, "P")
	script := `
# build a small outline
type "Hello world"
enter
type second
caret 0 0
key Alt+Left
`
	require.NoError(t, e.RunScript(strings.NewReader(script)))
	assert.Equal(t, []string{"H4 Hello world", "P second"}, lines(e))
	assert.True(t, e.Dirty())
}

func TestRunScriptReportsLine(t *testing.T) {
	e, _ := newEditor(t, "P")
	err := e.RunScript(strings.NewReader("type a\n\nbogus\ntype b\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
	assert.Contains(t, err.Error(), "unknown command: bogus")
	assert.Equal(t, []string{"P a"}, lines(e), "the script stops at the failing line")
}

func TestExecuteArgumentErrors(t *testing.T) {
	e, _ := newEditor(t, "P a")
	tests := []string{
		"caret 5 0",
		"caret x 0",
		"select 0 0",
		"depth",
		"left many",
		"key Hyper+X",
		"set only-key",
	}
	for _, cmd := range tests {
		t.Run(cmd, func(t *testing.T) {
			assert.Error(t, e.Execute(cmd))
		})
	}
}

func TestExecuteSelectAndEdit(t *testing.T) {
	e, _ := newEditor(t, "P hello", "P world")
	require.NoError(t, e.Execute("select 0 2 1 3"))
	require.NoError(t, e.Execute("type X"))
	assert.Equal(t, []string{"P heXld"}, lines(e))

	require.NoError(t, e.Execute("undo"))
	assert.Equal(t, []string{"P hello", "P world"}, lines(e))
	require.NoError(t, e.Execute("redo"))
	assert.Equal(t, []string{"P heXld"}, lines(e))
}

func TestExecuteSetChangesConfig(t *testing.T) {
	e, _ := newEditor(t, "P a")
	require.NoError(t, e.Execute("set showing_depth 2"))
	assert.Equal(t, "2", e.Config().Get("showing_depth"))
}

func TestWriteWithoutStore(t *testing.T) {
	e, _ := newEditor(t, "P a")
	assert.ErrorIs(t, e.Execute("w"), ErrNoStore)
}

func TestWriteSavesThroughStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sermon.html")
	e, _ := newEditor(t, "H1 Title", "P")
	e.SetStore(storage.NewFileStore(path))

	require.NoError(t, e.RunScript(strings.NewReader("caret 1 0\ntype body\nw\n")))
	assert.False(t, e.Dirty(), "saving clears the dirty flag")
	assert.Contains(t, e.Status(), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<h1>Title</h1>")
	assert.Contains(t, string(data), "<p>body</p>")
}

func TestExecuteFind(t *testing.T) {
	e, b := newEditor(t, "H1 Intro", "P grace first", "H1 Main", "P more grace")
	require.NoError(t, e.Execute("find grace"))
	assert.Equal(t, b[1], e.Selection().StartBlock)
	assert.Equal(t, "2 matches", e.Status())

	require.NoError(t, e.Execute("find h:1 mai"))
	assert.Equal(t, b[2], e.Selection().StartBlock)

	require.NoError(t, e.Execute("find nothing"))
	assert.Equal(t, "No matches", e.Status())

	assert.Error(t, e.Execute("find (unclosed"))
}

func TestExecuteJump(t *testing.T) {
	e, b := newEditor(t, "H1 Introduction", "P text", "H2 Main point", "P body")
	require.NoError(t, e.Execute("jump mnpt"))
	assert.Equal(t, b[2], e.Selection().StartBlock)
	assert.Equal(t, "Main point", e.Status())

	assert.Error(t, e.Execute("jump zzz"))
}
