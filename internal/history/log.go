// Package history keeps the undo/redo log of outline snapshots and the
// persisted input history of the command line
package history

import (
	"go.uber.org/zap"

	"github.com/pstuifzand/tuo-notes/internal/model"
)

// Log is a linear undo/redo log of snapshots of a shared State.
//
// Structural edits Push a new entry and discard everything after the
// current index. Content edits Coalesce into the current entry, so all
// typing between two structural edits is undone in one step.
type Log struct {
	state   *model.State
	entries []model.Snapshot
	index   int
	logger  *zap.Logger
}

// LogOption configures a Log
type LogOption func(*Log)

// WithLogLogger sets the logger
func WithLogLogger(logger *zap.Logger) LogOption {
	return func(l *Log) {
		l.logger = logger
	}
}

// NewLog creates an empty log over state
func NewLog(state *model.State, opts ...LogOption) *Log {
	l := &Log{
		state:  state,
		index:  -1,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Push records the current state as a new entry after the current index.
// Entries beyond the index are dropped.
func (l *Log) Push() {
	if dropped := len(l.entries) - (l.index + 1); dropped > 0 {
		l.logger.Debug("history branch discarded", zap.Int("entries", dropped))
	}
	l.entries = append(l.entries[:l.index+1:l.index+1], l.state.Snapshot())
	l.index = len(l.entries) - 1
}

// Coalesce overwrites the current entry with the current state. On an
// empty log it pushes the first entry.
func (l *Log) Coalesce() {
	if l.index < 0 {
		l.Push()
		return
	}
	l.entries[l.index] = l.state.Snapshot()
}

// Undo moves one entry back and restores it into the state. It returns
// false at the start of the log.
func (l *Log) Undo() bool {
	if !l.CanUndo() {
		return false
	}
	l.index--
	l.state.Restore(l.entries[l.index])
	l.logger.Debug("history undo", zap.Int("index", l.index), zap.Int("entries", len(l.entries)))
	return true
}

// Redo moves one entry forward and restores it into the state. It returns
// false at the end of the log.
func (l *Log) Redo() bool {
	if !l.CanRedo() {
		return false
	}
	l.index++
	l.state.Restore(l.entries[l.index])
	l.logger.Debug("history redo", zap.Int("index", l.index), zap.Int("entries", len(l.entries)))
	return true
}

// CanUndo reports whether there is an entry before the current one
func (l *Log) CanUndo() bool {
	return l.index > 0
}

// CanRedo reports whether there is an entry after the current one
func (l *Log) CanRedo() bool {
	return l.index < len(l.entries)-1
}

// Len returns the number of entries
func (l *Log) Len() int {
	return len(l.entries)
}

// Index returns the current index, -1 for an empty log
func (l *Log) Index() int {
	return l.index
}

// Reset empties the log
func (l *Log) Reset() {
	l.entries = nil
	l.index = -1
}
