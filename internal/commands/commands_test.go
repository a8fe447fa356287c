package commands

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/tuo-notes/internal/model"
	"github.com/pstuifzand/tuo-notes/internal/richtext"
	"github.com/pstuifzand/tuo-notes/internal/storage"
)

type testEnv struct {
	dir    string
	config string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", filepath.Join(dir, "run"))

	config := filepath.Join(dir, "config.toml")
	data := fmt.Sprintf(`log_file = %q

[storage]
backend = "disk"
dir = %q
backup_dir = %q
`, filepath.Join(dir, "tuo.log"), filepath.Join(dir, "store"), filepath.Join(dir, "backups"))
	require.NoError(t, os.WriteFile(config, []byte(data), 0o644))
	return &testEnv{dir: dir, config: config}
}

func (te *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return te.runWithInput(t, "", args...)
}

func (te *testEnv) runWithInput(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	cmd := New()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(input))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", te.config}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (te *testEnv) write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(te.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestImportListExport(t *testing.T) {
	te := newTestEnv(t)
	in := te.write(t, "groceries.md", "# Shopping\n- milk\n- **bread**\n")

	out, err := te.run(t, "import", in)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "Imported "+in+" as "))
	id := strings.TrimSpace(strings.TrimPrefix(out, "Imported "+in+" as "))

	out, err = te.run(t, "files")
	require.NoError(t, err)
	assert.Contains(t, out, id+"  groceries")
	assert.False(t, strings.HasPrefix(out, "*"), "imported outlines are not opened")

	md := filepath.Join(te.dir, "out.md")
	_, err = te.run(t, "export", id, md)
	require.NoError(t, err)
	data, err := os.ReadFile(md)
	require.NoError(t, err)
	assert.Contains(t, string(data), "- # Shopping")
	assert.Contains(t, string(data), "  - **bread**")

	txt := filepath.Join(te.dir, "out.txt")
	_, err = te.run(t, "export", id, txt)
	require.NoError(t, err)
	data, err = os.ReadFile(txt)
	require.NoError(t, err)
	assert.Contains(t, string(data), "milk")

	_, err = te.run(t, "export", "nope", md)
	assert.ErrorContains(t, err, "not found")
}

func TestImportTitleFlag(t *testing.T) {
	te := newTestEnv(t)
	in := te.write(t, "list.txt", "one\n  two\n")

	_, err := te.run(t, "import", "--title", "Numbers", in)
	require.NoError(t, err)

	out, err := te.run(t, "files")
	require.NoError(t, err)
	assert.Contains(t, out, "Numbers")

	_, err = te.run(t, "import", te.write(t, "empty.txt", "\n\n"))
	assert.ErrorContains(t, err, "holds no outline")
}

func TestAddWithoutRunningInstance(t *testing.T) {
	te := newTestEnv(t)

	out, err := te.run(t, "add", "buy", "milk")
	require.NoError(t, err)
	assert.Equal(t, "Added 1 nodes to Untitled\n", out)

	_, err = te.run(t, "add", "--markdown", "- trip\n  - hotel")
	assert.ErrorContains(t, err, "unknown shorthand flag")

	out, err = te.run(t, "add", "--markdown", "--", "- trip\n  - hotel")
	require.NoError(t, err)
	assert.Equal(t, "Added 1 nodes to Untitled\n", out)

	out, err = te.run(t, "files")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "* "), "appended outline becomes active")
	assert.Equal(t, 1, strings.Count(out, "\n"))

	out, err = te.run(t, "search", "hotel | milk")
	require.NoError(t, err)
	assert.Equal(t, "buy milk\n  hotel\n", out)

	_, err = te.run(t, "add", "   ")
	assert.ErrorContains(t, err, "cannot be empty")

	_, err = te.runWithInput(t, "\n\n", "add", "-")
	assert.ErrorContains(t, err, "cannot be empty")
}

func TestSearchWithoutOutline(t *testing.T) {
	te := newTestEnv(t)
	_, err := te.run(t, "search", "milk")
	assert.ErrorContains(t, err, "no outline has been opened yet")
}

func TestBackupsListAndRestore(t *testing.T) {
	te := newTestEnv(t)

	out, err := te.run(t, "backups", "list")
	require.NoError(t, err)
	assert.Empty(t, out)

	bm, err := storage.NewBackupManager(filepath.Join(te.dir, "backups"))
	require.NoError(t, err)
	doc := &model.Document{
		Title: "Restored",
		Tree:  model.Tree{model.NewNode("n1", richtext.NewParagraph("kept"))},
	}
	path, err := bm.CreateBackup(doc, "notes", "sess0000")
	require.NoError(t, err)

	out, err = te.run(t, "backups", "list", "notes")
	require.NoError(t, err)
	assert.Contains(t, out, "sess0000  notes  "+path)

	out, err = te.run(t, "backups", "restore", path)
	require.NoError(t, err)
	assert.Equal(t, "Restored "+path+" into notes\n", out)

	out, err = te.run(t, "files")
	require.NoError(t, err)
	assert.Contains(t, out, "notes  Restored")

	_, err = te.run(t, "backups", "restore", filepath.Join(te.dir, "missing.tuo"))
	assert.Error(t, err)
}

func TestLogs(t *testing.T) {
	te := newTestEnv(t)

	out, err := te.run(t, "logs")
	require.NoError(t, err)
	assert.Empty(t, out)

	_, err = te.run(t, "add", "note")
	require.NoError(t, err)

	out, err = te.run(t, "logs", "--level", "INFO", "-n", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "nodes appended")
	assert.Contains(t, out, "count=1")
}

func TestRootRejectsExtraArgs(t *testing.T) {
	te := newTestEnv(t)
	_, err := te.run(t, "a", "b")
	assert.Error(t, err)
}

func TestShow(t *testing.T) {
	te := newTestEnv(t)

	_, err := te.run(t, "show")
	assert.ErrorContains(t, err, "no outline has been opened yet")

	out, err := te.runWithInput(t, "- Shopping\n  - milk\n", "add", "--markdown", "-")
	require.NoError(t, err)
	assert.Equal(t, "Added 1 nodes to Untitled\n", out)

	out, err = te.run(t, "show", "--style", "notty")
	require.NoError(t, err)
	assert.Contains(t, out, "Untitled")
	assert.Contains(t, out, "Shopping")
	assert.Contains(t, out, "milk")

	_, err = te.run(t, "show", "missing")
	assert.ErrorContains(t, err, "not found")
}
