package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/pstuifzand/tuo-notes/internal/bridge"
	"github.com/pstuifzand/tuo-notes/internal/export"
	import_parser "github.com/pstuifzand/tuo-notes/internal/import"
	"github.com/pstuifzand/tuo-notes/internal/model"
)

// parseCommand splits a command line into words. Single or double quotes
// group words and a backslash escapes the next character.
func parseCommand(input string) []string {
	var parts []string
	var current strings.Builder
	var quote rune
	inWord := false
	escaped := false

	for _, r := range input {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
			inWord = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inWord = true
		case r == ' ' || r == '\t':
			if inWord {
				parts = append(parts, current.String())
				current.Reset()
				inWord = false
			}
		default:
			current.WriteRune(r)
			inWord = true
		}
	}
	if inWord {
		parts = append(parts, current.String())
	}
	return parts
}

// rest returns the input after the command word, unparsed
func rest(input string) string {
	input = strings.TrimSpace(input)
	if i := strings.IndexAny(input, " \t"); i >= 0 {
		return strings.TrimSpace(input[i+1:])
	}
	return ""
}

// formatting commands that map onto a bridge action with one argument
var actionCommands = map[string]bridge.Action{
	"link":      bridge.ActionLink,
	"color":     bridge.ActionColor,
	"image":     bridge.ActionInsertImage,
	"heading":   bridge.ActionHeading,
	"paragraph": bridge.ActionParagraph,
	"bold":      bridge.ActionBold,
	"italic":    bridge.ActionItalic,
	"zoom":      bridge.ActionToggleFullScreen,
}

// execute processes a command from the command line
func (a *App) execute(cmd string) {
	parts := parseCommand(cmd)
	if len(parts) == 0 {
		return
	}
	a.logger.Debug("command", zap.String("command", cmd))

	if action, ok := actionCommands[parts[0]]; ok {
		arg := ""
		if len(parts) > 1 {
			arg = parts[1]
		}
		a.dispatch(action, arg)
		return
	}

	switch parts[0] {
	case "q", "quit":
		if a.Dirty() {
			a.SetStatus("Unsaved changes! Use :q! to force quit or :w to save")
			return
		}
		a.quit = true
	case "q!", "quit!":
		a.quit = true
	case "w", "write":
		if err := a.Save(); err != nil {
			a.SetStatus("Failed to save: " + err.Error())
			return
		}
		a.SetStatus("Saved")
	case "wq", "x":
		if err := a.Save(); err != nil {
			a.SetStatus("Failed to save: " + err.Error())
			return
		}
		a.quit = true
	case "title":
		a.title = rest(cmd)
		a.SetStatus("Title set to " + a.displayTitle())
	case "action":
		if len(parts) < 2 {
			a.SetStatus("Actions: " + actionList())
			return
		}
		action, err := bridge.ParseAction(parts[1])
		if err != nil {
			a.SetStatus(err.Error())
			return
		}
		arg := ""
		if len(parts) > 2 {
			arg = parts[2]
		}
		a.dispatch(action, arg)
	case "find":
		a.find(rest(cmd))
	case "next":
		a.nextMatch(1)
	case "prev":
		a.nextMatch(-1)
	case "nohl":
		a.clearMatches()
	case "export":
		if len(parts) < 2 {
			a.SetStatus("Usage: :export <file.md|file.txt>")
			return
		}
		a.exportTo(parts[1])
	case "import":
		if len(parts) < 2 {
			a.SetStatus("Usage: :import <file>")
			return
		}
		a.importFrom(parts[1])
	case "open", "e":
		if len(parts) < 2 {
			a.SetStatus("Usage: :open <file-id>")
			return
		}
		if a.Dirty() {
			a.SetStatus("Unsaved changes! Use :w first")
			return
		}
		a.open(context.Background(), parts[1])
		a.SetStatus("Opened " + a.displayTitle())
	case "files":
		a.listFiles()
	case "debug":
		a.debug = !a.debug
		if a.debug {
			a.SetStatus("Debug mode ON")
		} else {
			a.SetStatus("Debug mode OFF")
		}
	default:
		a.SetStatus("Unknown command: " + parts[0])
	}
}

// actionList names every action accepted by :action
func actionList() string {
	actions := bridge.Actions()
	names := make([]string, len(actions))
	for i, action := range actions {
		names[i] = action.String()
	}
	return strings.Join(names, " ")
}

func (a *App) dispatch(action bridge.Action, arg string) {
	if err := a.bridge.Dispatch(action, arg); err != nil {
		if errors.Is(err, bridge.ErrNoFocus) {
			a.SetStatus("No node focused")
			return
		}
		a.SetStatus(err.Error())
	}
}

// find runs a search query and focuses the first match
func (a *App) find(query string) {
	if query == "" {
		a.clearMatches()
		return
	}
	results, err := a.queries.Query(a.store.Tree(), query)
	if err != nil {
		a.SetStatus("Invalid query: " + err.Error())
		return
	}
	a.matches = a.matches[:0]
	for _, r := range results {
		a.matches = append(a.matches, r.Node.ID)
	}
	a.tree.SetMatches(a.matches)
	if len(a.matches) == 0 {
		a.SetStatus("No matches")
		return
	}
	a.matchIndex = -1
	a.nextMatch(1)
}

// nextMatch focuses the next (delta 1) or previous (delta -1) search match
func (a *App) nextMatch(delta int) {
	if len(a.matches) == 0 {
		return
	}
	a.matchIndex = (a.matchIndex + delta + len(a.matches)) % len(a.matches)
	if a.store.RevealNode(a.matches[a.matchIndex]) {
		a.bridge.Refresh()
	}
	a.SetStatus(fmt.Sprintf("Match %d of %d", a.matchIndex+1, len(a.matches)))
}

func (a *App) clearMatches() {
	a.matches = nil
	a.matchIndex = 0
	a.tree.SetMatches(nil)
}

func (a *App) exportTo(path string) {
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		err = os.WriteFile(path, []byte(export.PlainText(a.store.Tree())), 0o644)
	default:
		err = export.ExportToMarkdown(model.DocumentFromState(a.state, a.title), path)
	}
	if err != nil {
		a.SetStatus("Export failed: " + err.Error())
		return
	}
	a.SetStatus("Exported to " + path)
}

// importFrom inserts the outline of a markdown or text file after the
// focused node
func (a *App) importFrom(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		a.SetStatus("Import failed: " + err.Error())
		return
	}
	nodes, err := import_parser.ImportFile(string(data), import_parser.DetectFormat(path))
	if err != nil {
		a.SetStatus("Import failed: " + err.Error())
		return
	}
	if len(nodes) == 0 {
		a.SetStatus("Nothing to import")
		return
	}
	if !a.store.ImportNodes(a.store.FocusID(), nodes) {
		a.SetStatus("Import failed")
		return
	}
	a.bridge.Refresh()
	a.SetStatus(fmt.Sprintf("Imported %d nodes", len(nodes)))
}

func (a *App) listFiles() {
	files, err := a.files.List(context.Background())
	if err != nil {
		a.SetStatus("Listing failed: " + err.Error())
		return
	}
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.ID+" "+f.DisplayName())
	}
	if len(names) == 0 {
		a.SetStatus("No saved outlines")
		return
	}
	a.SetStatus(strings.Join(names, " | "))
}
