package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/sermonedit/internal/socket"
	"github.com/pstuifzand/sermonedit/internal/storage"
)

func TestHandleSocketMessage(t *testing.T) {
	e, _ := newEditor(t, "H1 Title", "P body")
	e.Outline().RecountAll()

	resp := e.handleSocketMessage(socket.Message{Command: socket.CommandExec, Line: "caret 1 4"})
	require.True(t, resp.Success, resp.Message)
	resp = e.handleSocketMessage(socket.Message{Command: socket.CommandExec, Line: "type \" text\""})
	require.True(t, resp.Success, resp.Message)
	assert.Equal(t, []string{"H1 Title", "P body text"}, lines(e))

	resp = e.handleSocketMessage(socket.Message{Command: socket.CommandOutline})
	require.True(t, resp.Success)
	assert.Equal(t, []string{"- Title (2 words)", "  body text"}, resp.Lines)
	assert.Equal(t, "2 blocks, 2 words", resp.Message)
}

func TestHandleSocketMessageErrors(t *testing.T) {
	e, _ := newEditor(t, "P a")

	tests := []socket.Message{
		{Command: socket.CommandExec},
		{Command: socket.CommandExec, Line: "bogus"},
		{Command: socket.CommandSave},
		{Command: "explode"},
	}
	for _, msg := range tests {
		t.Run(msg.Command+" "+msg.Line, func(t *testing.T) {
			resp := e.handleSocketMessage(msg)
			assert.False(t, resp.Success)
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestHandleSocketSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "remote.html")
	e, _ := newEditor(t, "P a")
	e.SetStore(storage.NewFileStore(path))

	resp := e.handleSocketMessage(socket.Message{Command: socket.CommandSave})
	require.True(t, resp.Success, resp.Message)
	assert.Equal(t, "saved "+path, resp.Message)
	assert.FileExists(t, path)
}

func TestServe(t *testing.T) {
	e, _ := newEditor(t, "P")
	msgs := make(chan socket.Message)
	done := make(chan error, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { done <- e.Serve(ctx, msgs) }()

	reply := make(chan *socket.Response, 1)
	msgs <- socket.Message{Command: socket.CommandExec, Line: "type hi", ResponseChan: reply}
	resp := <-reply
	assert.True(t, resp.Success)

	close(msgs)
	require.NoError(t, <-done)
	assert.Equal(t, []string{"P hi"}, lines(e))
}

func TestServeStopsOnCancel(t *testing.T) {
	e, _ := newEditor(t, "P")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, e.Serve(ctx, make(chan socket.Message)), context.Canceled)
}
