package socket

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ErrNoInstance is returned when no running instance has a socket
var ErrNoInstance = errors.New("no running tuo-notes instance found")

// Client represents a Unix socket client for sending commands
type Client struct {
	socketPath string
	timeout    time.Duration
}

// FindRunningInstance finds the newest socket in dir.
// Returns the socket path and PID (0 when the name carries none).
func FindRunningInstance(dir string) (string, int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", 0, ErrNoInstance
		}
		return "", 0, fmt.Errorf("error scanning socket directory: %w", err)
	}

	var newestSocket string
	var newestTime time.Time
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, "tuo-") || !strings.HasSuffix(name, ".sock") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if newestSocket == "" || info.ModTime().After(newestTime) {
			newestTime = info.ModTime()
			newestSocket = filepath.Join(dir, name)
		}
	}
	if newestSocket == "" {
		return "", 0, ErrNoInstance
	}

	pidStr := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(newestSocket), "tuo-"), ".sock")
	pid, err := strconv.Atoi(pidStr)
	if err != nil {
		pid = 0
	}
	return newestSocket, pid, nil
}

// NewClient creates a new client connected to the specified socket
func NewClient(socketPath string) (*Client, error) {
	if _, err := os.Stat(socketPath); err != nil {
		return nil, fmt.Errorf("socket not found: %w", err)
	}
	return &Client{socketPath: socketPath, timeout: ResponseTimeout + 2*time.Second}, nil
}

// Send sends a message to the server and returns the response
func (c *Client) Send(msg Message) (*Response, error) {
	conn, err := net.Dial("unix", c.socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to socket: %w", err)
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
		return nil, fmt.Errorf("failed to set deadline: %w", err)
	}

	if err := json.NewEncoder(conn).Encode(msg); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	var response Response
	if err := json.NewDecoder(conn).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to receive response: %w", err)
	}
	return &response, nil
}

// SendAddNode appends a node to the running outline. format is
// FormatPlain or FormatMarkdown.
func (c *Client) SendAddNode(text, format string) (*Response, error) {
	if format == "" {
		format = FormatPlain
	}
	return c.Send(Message{Command: CommandAddNode, Text: text, Format: format})
}

// SendSearch runs a query against the running outline and waits for the
// matching node texts
func (c *Client) SendSearch(query string) (*Response, error) {
	return c.Send(Message{Command: CommandSearch, Text: query})
}
