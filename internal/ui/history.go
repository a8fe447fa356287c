package ui

import (
	"github.com/pstuifzand/tuo-notes/internal/history"
)

// InputHistory keeps previous command-line entries for Up/Down recall
type InputHistory struct {
	entries    []string
	index      int // -1 while not navigating
	maxEntries int
	draft      string // input typed before navigating
	manager    *history.Manager
	filename   string
}

// NewInputHistory creates an in-memory history
func NewInputHistory(maxEntries int) *InputHistory {
	return &InputHistory{index: -1, maxEntries: maxEntries}
}

// LoadInputHistory creates a history persisted by manager in filename. A
// load failure leaves the history empty but still persisted.
func LoadInputHistory(maxEntries int, manager *history.Manager, filename string) (*InputHistory, error) {
	h := NewInputHistory(maxEntries)
	h.manager = manager
	h.filename = filename

	entries, err := manager.Load(filename)
	if err != nil {
		return h, err
	}
	if len(entries) > maxEntries {
		entries = entries[len(entries)-maxEntries:]
	}
	h.entries = entries
	return h, nil
}

// Add appends an entry, skipping blanks and repeats of the newest entry,
// and saves when persisted
func (h *InputHistory) Add(entry string) error {
	h.Reset()
	if entry == "" || (len(h.entries) > 0 && h.entries[len(h.entries)-1] == entry) {
		return nil
	}
	h.entries = append(h.entries, entry)
	if len(h.entries) > h.maxEntries {
		h.entries = h.entries[len(h.entries)-h.maxEntries:]
	}
	if h.manager == nil {
		return nil
	}
	return h.manager.Save(h.filename, h.entries)
}

// Previous steps back in history. current is the input being edited; it
// is restored when stepping forward past the newest entry.
func (h *InputHistory) Previous(current string) (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	switch {
	case h.index < 0:
		h.draft = current
		h.index = len(h.entries) - 1
	case h.index > 0:
		h.index--
	}
	return h.entries[h.index], true
}

// Next steps forward in history
func (h *InputHistory) Next() (string, bool) {
	if h.index < 0 {
		return "", false
	}
	h.index++
	if h.index >= len(h.entries) {
		draft := h.draft
		h.Reset()
		return draft, true
	}
	return h.entries[h.index], true
}

// Reset ends navigation
func (h *InputHistory) Reset() {
	h.index = -1
	h.draft = ""
}

// Entries returns a copy of all history entries
func (h *InputHistory) Entries() []string {
	return append([]string(nil), h.entries...)
}
