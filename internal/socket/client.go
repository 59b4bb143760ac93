package socket

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Client represents a Unix socket client for sending commands
type Client struct {
	socketPath string
}

// FindRunningInstance finds the socket of a running instance in dir. With
// several sockets the most recently created one wins. It returns the
// socket path and the pid encoded in its name.
func FindRunningInstance(dir string) (string, int, error) {
	var sockets []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Ignore errors, directory might not exist
		}
		if !d.IsDir() && strings.HasPrefix(d.Name(), "sermonedit-") && strings.HasSuffix(d.Name(), ".sock") {
			sockets = append(sockets, path)
		}
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return "", 0, fmt.Errorf("error scanning socket directory: %w", err)
	}

	if len(sockets) == 0 {
		return "", 0, fmt.Errorf("no running sermonedit instance found")
	}

	if len(sockets) > 1 {
		var newestSocket string
		var newestTime time.Time
		for _, sock := range sockets {
			info, err := os.Stat(sock)
			if err != nil {
				continue
			}
			if info.ModTime().After(newestTime) {
				newestTime = info.ModTime()
				newestSocket = sock
			}
		}
		if newestSocket == "" {
			return "", 0, fmt.Errorf("no accessible socket found")
		}
		sockets = []string{newestSocket}
	}

	socketPath := sockets[0]

	pidStr := strings.TrimPrefix(filepath.Base(socketPath), "sermonedit-")
	pidStr = strings.TrimSuffix(pidStr, ".sock")
	pid, err := strconv.Atoi(pidStr)
	if err != nil {
		pid = 0 // Unknown PID
	}

	return socketPath, pid, nil
}

// NewClient creates a new client connected to the specified socket
func NewClient(socketPath string) (*Client, error) {
	if _, err := os.Stat(socketPath); err != nil {
		return nil, fmt.Errorf("socket not found: %w", err)
	}

	return &Client{
		socketPath: socketPath,
	}, nil
}

// Send sends a message to the server and returns the response
func (c *Client) Send(msg Message) (*Response, error) {
	conn, err := net.Dial("unix", c.socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to socket: %w", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(ReplyTimeout + 5*time.Second))

	encoder := json.NewEncoder(conn)
	decoder := json.NewDecoder(conn)

	if err := encoder.Encode(msg); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	var response Response
	if err := decoder.Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to receive response: %w", err)
	}

	return &response, nil
}

// Exec is a convenience method to run one editor command line
func (c *Client) Exec(line string) (*Response, error) {
	return c.Send(Message{Command: CommandExec, Line: line})
}

// Outline asks the instance for its outline
func (c *Client) Outline() (*Response, error) {
	return c.Send(Message{Command: CommandOutline})
}

// Save asks the instance to write its document
func (c *Client) Save() (*Response, error) {
	return c.Send(Message{Command: CommandSave})
}
