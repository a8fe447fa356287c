package app

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	import_parser "github.com/pstuifzand/tuo-notes/internal/import"
	"github.com/pstuifzand/tuo-notes/internal/richtext"
	"github.com/pstuifzand/tuo-notes/internal/socket"
)

// handleSocketMessage processes messages received from the Unix socket
func (a *App) handleSocketMessage(msg socket.Message) {
	a.logger.Info("socket message",
		zap.String("command", msg.Command),
		zap.String("format", msg.Format),
		zap.Int("length", len(msg.Text)))

	var resp *socket.Response
	switch msg.Command {
	case socket.CommandAddNode:
		resp = a.handleAddNode(msg)
	case socket.CommandSearch:
		resp = a.handleSearch(msg)
	default:
		resp = &socket.Response{Success: false, Message: "Unknown command: " + msg.Command}
	}

	if !resp.Success {
		a.logger.Warn("socket command failed", zap.String("command", msg.Command), zap.String("reason", resp.Message))
	}
	if msg.ResponseChan != nil {
		select {
		case msg.ResponseChan <- resp:
		default:
			a.logger.Warn("socket response dropped", zap.String("command", msg.Command))
		}
	}
}

// handleAddNode appends the text as new root nodes without moving the focus
func (a *App) handleAddNode(msg socket.Message) *socket.Response {
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return &socket.Response{Success: false, Message: "Node text cannot be empty"}
	}

	if msg.Format != socket.FormatMarkdown {
		a.store.AppendRootNode(richtext.NewParagraph(text))
		a.SetStatus("Added node: " + text)
		return &socket.Response{Success: true, Message: "Node added"}
	}

	nodes, err := import_parser.ImportFile(text, import_parser.FormatMarkdown)
	if err != nil {
		return &socket.Response{Success: false, Message: err.Error()}
	}
	if len(nodes) == 0 {
		return &socket.Response{Success: false, Message: "Nothing to add"}
	}

	focusID, offset := a.store.FocusID(), a.store.FocusOffset()
	if !a.store.ImportNodes("", nodes) {
		return &socket.Response{Success: false, Message: "Could not add nodes"}
	}
	a.store.SetFocusID(focusID)
	a.store.SetFocusOffset(offset)
	a.bridge.Sync()

	a.SetStatus(fmt.Sprintf("Added %d nodes", len(nodes)))
	return &socket.Response{Success: true, Message: fmt.Sprintf("Added %d nodes", len(nodes))}
}

// handleSearch answers with the text of every node matching the query
func (a *App) handleSearch(msg socket.Message) *socket.Response {
	results, err := a.queries.Query(a.store.Tree(), msg.Text)
	if err != nil {
		return &socket.Response{Success: false, Message: "Invalid query: " + err.Error()}
	}
	texts := make([]string, 0, len(results))
	for _, r := range results {
		texts = append(texts, r.Node.Text())
	}
	return &socket.Response{
		Success: true,
		Message: fmt.Sprintf("%d matches", len(results)),
		Results: texts,
	}
}
