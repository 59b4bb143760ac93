package app

import (
	"context"
	"errors"
	"log"

	"github.com/pstuifzand/sermonedit/internal/export"
	"github.com/pstuifzand/sermonedit/internal/socket"
)

// Serve answers socket messages until ctx is done or msgs is closed.
// Messages are handled one at a time on the calling goroutine, so the
// editor is never touched concurrently.
func (e *Editor) Serve(ctx context.Context, msgs <-chan socket.Message) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			resp := e.handleSocketMessage(msg)
			if msg.ResponseChan != nil {
				msg.ResponseChan <- resp
			}
		}
	}
}

// handleSocketMessage processes messages received from the Unix socket
func (e *Editor) handleSocketMessage(msg socket.Message) *socket.Response {
	log.Printf("Received socket message: command=%s, line=%s", msg.Command, msg.Line)

	switch msg.Command {
	case socket.CommandExec:
		return e.handleExecCommand(msg)
	case socket.CommandOutline:
		return &socket.Response{
			Success: true,
			Message: export.Summary(e.outline),
			Lines:   export.Lines(e.outline, export.Options{WordCounts: true}),
		}
	case socket.CommandSave:
		if e.store == nil {
			return failure(ErrNoStore)
		}
		h, err := e.Save(e.store)
		if err != nil {
			log.Printf("Failed to save: %v", err)
			return failure(err)
		}
		return &socket.Response{Success: true, Message: "saved " + h.Path}
	default:
		log.Printf("Unknown socket command: %s", msg.Command)
		return &socket.Response{Success: false, Message: "Unknown command: " + msg.Command}
	}
}

// handleExecCommand runs one script line
func (e *Editor) handleExecCommand(msg socket.Message) *socket.Response {
	if msg.Line == "" {
		return failure(errors.New("exec command missing line"))
	}
	if err := e.Execute(msg.Line); err != nil {
		log.Printf("Failed to execute %q: %v", msg.Line, err)
		return failure(err)
	}
	return &socket.Response{Success: true, Message: e.Status()}
}

func failure(err error) *socket.Response {
	return &socket.Response{Success: false, Message: err.Error()}
}
