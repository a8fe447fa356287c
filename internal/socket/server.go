package socket

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

const appDir = "tuo-notes"

// ResponseTimeout bounds how long a synchronous command may take
const ResponseTimeout = 10 * time.Second

// Server represents a Unix socket server for accepting external commands
type Server struct {
	socketPath string
	listener   net.Listener
	msgChan    chan Message
	stopChan   chan struct{}
	stopOnce   sync.Once
	logger     *zap.Logger
}

// Dir returns the directory holding instance sockets. XDG_RUNTIME_DIR is
// preferred, falling back to ~/.local/share.
func Dir() string {
	if xdgRuntime := os.Getenv("XDG_RUNTIME_DIR"); xdgRuntime != "" {
		return filepath.Join(xdgRuntime, appDir)
	}
	return filepath.Join(os.Getenv("HOME"), ".local", "share", appDir)
}

// SocketName returns the socket file name for a process
func SocketName(pid int) string {
	return fmt.Sprintf("tuo-%d.sock", pid)
}

// NewServer creates a new Unix socket server listening in dir
func NewServer(dir string, pid int, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create socket directory: %w", err)
	}

	socketPath := filepath.Join(dir, SocketName(pid))
	if err := os.RemoveAll(socketPath); err != nil {
		return nil, fmt.Errorf("failed to remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on socket: %w", err)
	}

	logger.Info("socket server listening", zap.String("path", socketPath))

	return &Server{
		socketPath: socketPath,
		listener:   listener,
		msgChan:    make(chan Message, 10),
		stopChan:   make(chan struct{}),
		logger:     logger,
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
			}
			if errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Warn("accept failed", zap.Error(err))
			continue
		}
		go s.handleConnection(conn)
	}
}

// handleConnection processes a single client connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	decoder := json.NewDecoder(conn)
	encoder := json.NewEncoder(conn)
	reply := func(resp *Response) {
		if err := encoder.Encode(resp); err != nil {
			s.logger.Debug("write response failed", zap.Error(err))
		}
	}

	var msg Message
	if err := decoder.Decode(&msg); err != nil {
		if err != io.EOF {
			s.logger.Warn("decode message failed", zap.Error(err))
		}
		reply(&Response{Message: fmt.Sprintf("Invalid message format: %v", err)})
		return
	}

	if msg.Command == "" {
		reply(&Response{Message: "Missing command field"})
		return
	}
	if msg.Command != CommandAddNode && msg.Command != CommandSearch {
		reply(&Response{Message: fmt.Sprintf("Unknown command: %s", msg.Command)})
		return
	}

	if synchronous(msg.Command) {
		msg.ResponseChan = make(chan *Response, 1)
	}

	select {
	case s.msgChan <- msg:
		if msg.ResponseChan == nil {
			reply(&Response{Success: true, Message: "Command queued"})
			return
		}
		select {
		case response := <-msg.ResponseChan:
			reply(response)
		case <-time.After(ResponseTimeout):
			reply(&Response{Message: "Command timed out"})
		case <-s.stopChan:
			reply(&Response{Message: "Server is shutting down"})
		}
	case <-s.stopChan:
		reply(&Response{Message: "Server is shutting down"})
	}
}

// Messages returns the channel for receiving messages
func (s *Server) Messages() <-chan Message {
	return s.msgChan
}

// SocketPath returns the path to the Unix socket
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Stop stops the server and removes the socket file. It is safe to call
// more than once.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
		if s.listener != nil {
			_ = s.listener.Close()
		}
		if s.socketPath != "" {
			_ = os.Remove(s.socketPath)
		}
		s.logger.Info("socket server stopped")
	})
}
