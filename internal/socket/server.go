// Package socket lets other processes drive a running editor over a Unix
// socket. Every connection carries one JSON message and gets one JSON
// response.
package socket

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"path/filepath"
	"time"
)

// ReplyTimeout bounds how long a connection waits for the instance to
// answer
const ReplyTimeout = 10 * time.Second

// Server represents a Unix socket server for accepting external commands
type Server struct {
	socketPath string
	listener   net.Listener
	msgChan    chan Message
	stopChan   chan struct{}
}

// SocketDir returns the directory sockets are created in:
// $XDG_RUNTIME_DIR/sermonedit, or ~/.local/share/sermonedit without it
func SocketDir() string {
	if xdgRuntime := os.Getenv("XDG_RUNTIME_DIR"); xdgRuntime != "" {
		return filepath.Join(xdgRuntime, "sermonedit")
	}
	return filepath.Join(os.Getenv("HOME"), ".local", "share", "sermonedit")
}

// NewServer creates a server listening on sermonedit-<pid>.sock in dir
func NewServer(dir string, pid int) (*Server, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create socket directory: %w", err)
	}

	socketPath := filepath.Join(dir, fmt.Sprintf("sermonedit-%d.sock", pid))

	// Remove existing socket if it exists
	if err := os.RemoveAll(socketPath); err != nil {
		return nil, fmt.Errorf("failed to remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on socket: %w", err)
	}

	log.Printf("Socket server listening on: %s", socketPath)

	return &Server{
		socketPath: socketPath,
		listener:   listener,
		msgChan:    make(chan Message, 10),
		stopChan:   make(chan struct{}),
	}, nil
}

// Start begins accepting connections on the socket
func (s *Server) Start() {
	go s.acceptLoop()
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.stopChan:
				return
			default:
				log.Printf("Error accepting connection: %v", err)
				continue
			}
		}
		go s.handleConnection(conn)
	}
}

// handleConnection reads one message, hands it to the instance and writes
// back its reply
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	decoder := json.NewDecoder(conn)
	encoder := json.NewEncoder(conn)

	var msg Message
	if err := decoder.Decode(&msg); err != nil {
		if err != io.EOF {
			log.Printf("Error decoding message: %v", err)
		}
		encoder.Encode(Response{
			Success: false,
			Message: fmt.Sprintf("Invalid message format: %v", err),
		})
		return
	}

	if msg.Command == "" {
		encoder.Encode(Response{
			Success: false,
			Message: "Missing command field",
		})
		return
	}

	msg.ResponseChan = make(chan *Response, 1)
	select {
	case s.msgChan <- msg:
	case <-s.stopChan:
		encoder.Encode(Response{
			Success: false,
			Message: "Server is shutting down",
		})
		return
	}

	select {
	case response := <-msg.ResponseChan:
		encoder.Encode(response)
	case <-time.After(ReplyTimeout):
		encoder.Encode(Response{
			Success: false,
			Message: "Command timed out",
		})
	case <-s.stopChan:
		encoder.Encode(Response{
			Success: false,
			Message: "Server is shutting down",
		})
	}
}

// Messages returns the channel for receiving messages. Every message
// must be answered on its ResponseChan.
func (s *Server) Messages() <-chan Message {
	return s.msgChan
}

// SocketPath returns the path to the Unix socket
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Stop stops the server and cleans up resources
func (s *Server) Stop() {
	close(s.stopChan)
	if s.listener != nil {
		s.listener.Close()
	}
	if s.socketPath != "" {
		os.Remove(s.socketPath)
	}
	log.Printf("Socket server stopped")
}
