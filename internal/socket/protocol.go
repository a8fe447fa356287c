package socket

// Message represents a command sent to the running tuo-notes instance
type Message struct {
	Command string `json:"command"`
	Text    string `json:"text,omitempty"`
	Format  string `json:"format,omitempty"` // "plain" (default) or "markdown"

	// ResponseChan is set by the server for commands that answer with data
	ResponseChan chan *Response `json:"-"`
}

// Response represents the response from the server
type Response struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Results []string `json:"results,omitempty"`
}

// Command types
const (
	CommandAddNode = "add_node"
	CommandSearch  = "search"
)

// Text formats for add_node
const (
	FormatPlain    = "plain"
	FormatMarkdown = "markdown"
)

// synchronous reports whether the client waits for the command's result
func synchronous(command string) bool {
	return command == CommandSearch
}
