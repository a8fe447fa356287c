package history

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerRoundTrip(t *testing.T) {
	m, err := NewManager(filepath.Join(t.TempDir(), "history"))
	require.NoError(t, err)

	entries, err := m.Load("command")
	require.NoError(t, err)
	assert.Empty(t, entries)

	require.NoError(t, m.Save("command", []string{"w", "title Notes"}))
	entries, err = m.Load("command")
	require.NoError(t, err)
	assert.Equal(t, []string{"w", "title Notes"}, entries)
}

func TestManagerCorruptedFile(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "search"), []byte("entries = [unterminated"), 0644))
	entries, err := m.Load("search")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestManagerKeepsRecentEntries(t *testing.T) {
	m, err := NewManager(t.TempDir())
	require.NoError(t, err)

	var entries []string
	for i := 0; i < DefaultMaxEntries+10; i++ {
		entries = append(entries, strconv.Itoa(i))
	}
	require.NoError(t, m.Save("command", entries))

	loaded, err := m.Load("command")
	require.NoError(t, err)
	require.Len(t, loaded, DefaultMaxEntries)
	assert.Equal(t, "10", loaded[0])
}

func TestManagerMaxEntriesOption(t *testing.T) {
	m, err := NewManager(t.TempDir(), WithMaxEntries(2))
	require.NoError(t, err)

	require.NoError(t, m.Save("search", []string{"a", "b", "c"}))
	loaded, err := m.Load("search")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, loaded)
}

func TestManagerLoadReadError(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir)
	require.NoError(t, err)

	require.NoError(t, os.Mkdir(filepath.Join(dir, "command"), 0o755))
	_, err = m.Load("command")
	assert.ErrorContains(t, err, "read history command")
}
