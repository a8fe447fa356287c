package history

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
)

// DefaultMaxEntries is the number of input lines kept per history file
const DefaultMaxEntries = 200

// Manager persists command-line input, one TOML file per input kind.
// Only the newest lines are written back.
type Manager struct {
	dir        string
	maxEntries int
	logger     *zap.Logger
}

type inputFile struct {
	Entries []string `toml:"entries"`
}

// ManagerOption configures a Manager
type ManagerOption func(*Manager)

// WithMaxEntries caps the number of lines written per file
func WithMaxEntries(n int) ManagerOption {
	return func(m *Manager) {
		if n > 0 {
			m.maxEntries = n
		}
	}
}

// WithManagerLogger sets the logger
func WithManagerLogger(logger *zap.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// DefaultDir is ~/.local/share/tuo-notes/history
func DefaultDir() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", "tuo-notes", "history"), nil
}

// NewManager creates dir when needed
func NewManager(dir string, opts ...ManagerOption) (*Manager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	m := &Manager{
		dir:        dir,
		maxEntries: DefaultMaxEntries,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Load returns the lines stored under name, oldest first. A missing or
// unreadable TOML file is an empty history.
func (m *Manager) Load(name string) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(m.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history %s: %w", name, err)
	}

	var f inputFile
	if err := toml.Unmarshal(data, &f); err != nil {
		m.logger.Warn("ignoring corrupted history", zap.String("file", name), zap.Error(err))
		return []string{}, nil
	}
	if f.Entries == nil {
		return []string{}, nil
	}
	return f.Entries, nil
}

// Save replaces the lines stored under name
func (m *Manager) Save(name string, entries []string) error {
	if len(entries) > m.maxEntries {
		entries = entries[len(entries)-m.maxEntries:]
	}
	data, err := toml.Marshal(inputFile{Entries: entries})
	if err != nil {
		return fmt.Errorf("encode history %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(m.dir, name), data, 0o644); err != nil {
		return fmt.Errorf("write history %s: %w", name, err)
	}
	return nil
}
