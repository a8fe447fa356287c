// Package storage persists outlines. An outline is stored as one JSON
// document holding the tree, the focused node and cursor offset, and the
// title. Stores keep a list of saved files and the id of the active file.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/pstuifzand/tuo-notes/internal/model"
)

// Backends
const (
	BackendDisk   = "disk"
	BackendSQLite = "sqlite"
)

// ErrUnknownBackend is returned by Open for an unsupported backend name
var ErrUnknownBackend = errors.New("unknown storage backend")

// Store is a keyed collection of outline documents
type Store interface {
	// Load returns the document stored under id. Missing, malformed or
	// structurally invalid data is reported as absent.
	Load(ctx context.Context, id string) (*model.Document, bool)
	// Save stores doc under id. An empty id allocates a new file id. The
	// file list entry is named after the document title.
	Save(ctx context.Context, id string, doc *model.Document) (model.FileMeta, error)
	// List returns the saved files in creation order
	List(ctx context.Context) ([]model.FileMeta, error)
	// Delete removes a file. Deleting the active file clears the active id.
	Delete(ctx context.Context, id string) error
	// Active returns the id of the file that was open last
	Active(ctx context.Context) (string, bool)
	// SetActive records the file that is open
	SetActive(ctx context.Context, id string) error
	Close() error
}

// Options configures Open
type Options struct {
	Backend string
	Dir     string
	Logger  *zap.Logger
}

// Open opens the store selected by opts.Backend
func Open(opts Options) (Store, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	switch opts.Backend {
	case "", BackendDisk:
		return NewDiskStore(opts.Dir, logger)
	case BackendSQLite:
		return NewSQLiteStore(opts.Dir, logger)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}

// DecodeDocument parses a stored document and checks its tree. Parent ids
// are recomputed from the nesting.
func DecodeDocument(data []byte) (*model.Document, error) {
	var doc model.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	model.RestoreParentIDs(doc.Tree)
	if err := doc.Tree.Validate(); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return &doc, nil
}

// EncodeDocument serializes a document
func EncodeDocument(doc *model.Document) ([]byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return data, nil
}

func decodeOrAbsent(logger *zap.Logger, id string, data []byte) (*model.Document, bool) {
	doc, err := DecodeDocument(data)
	if err != nil {
		logger.Warn("ignoring stored outline", zap.String("id", id), zap.Error(err))
		return nil, false
	}
	return doc, true
}

// newFileID returns a millisecond timestamp id that exists() does not know
func newFileID(now time.Time, exists func(string) bool) string {
	ms := now.UnixMilli()
	for {
		id := strconv.FormatInt(ms, 10)
		if !exists(id) {
			return id
		}
		ms++
	}
}

func fileName(doc *model.Document) string {
	if doc.Title == "" {
		return model.DefaultTitle
	}
	return doc.Title
}
