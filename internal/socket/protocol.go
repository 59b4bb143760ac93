package socket

// Message represents a command sent to a running sermonedit instance
type Message struct {
	Command string `json:"command"`
	// Line is the editor command line for CommandExec
	Line string `json:"line,omitempty"`

	// ResponseChan receives the reply of the instance. It is set by the
	// server and never travels over the wire.
	ResponseChan chan *Response `json:"-"`
}

// Response represents the response from the server
type Response struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Lines   []string `json:"lines,omitempty"`
}

// Command types
const (
	// CommandExec runs one editor command line, e.g. "type Hello"
	CommandExec = "exec"
	// CommandOutline returns the outline, one line per block
	CommandOutline = "outline"
	// CommandSave writes the document through its store
	CommandSave = "save"
)
