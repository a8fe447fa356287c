package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGet(t *testing.T) {
	cfg := &Config{sessionSettings: make(map[string]string)}

	assert.Equal(t, "", cfg.Get("nonexistent"))

	cfg.Set("visattr", "date")
	assert.Equal(t, "date", cfg.Get("visattr"))
}

func TestSessionOverridesPersisted(t *testing.T) {
	cfg := &Config{Settings: map[string]string{"width": "80", "keep": "yes"}}
	cfg.Set("width", "120")

	assert.Equal(t, "120", cfg.Get("width"))
	assert.Equal(t, map[string]string{"width": "120", "keep": "yes"}, cfg.GetAll())
}

func TestGetAllReturnsACopy(t *testing.T) {
	cfg := &Config{}
	cfg.Set("original", "value")

	all := cfg.GetAll()
	all["original"] = "modified"

	assert.Equal(t, "value", cfg.Get("original"))
}

func TestNilSessionSettings(t *testing.T) {
	cfg := &Config{}
	cfg.Set("key", "value")
	assert.Equal(t, "value", cfg.Get("key"))

	assert.Equal(t, "", (&Config{}).Get("key"))
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()
	assert.Equal(t, DefaultTheme, cfg.Theme)
	assert.Equal(t, DefaultBackend, cfg.Storage.Backend)
	assert.NotEmpty(t, cfg.Storage.Dir)
	assert.Equal(t, "backups", filepath.Base(cfg.Storage.BackupDir))
	assert.NotEmpty(t, cfg.LogFile)
	assert.Equal(t, 500*time.Millisecond, cfg.UndoGroupDelay())
	assert.Equal(t, 30*time.Second, cfg.AutosaveInterval())
	assert.NotNil(t, cfg.sessionSettings)
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg, err := LoadFromFile(filepath.Join(t.TempDir(), "none.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultTheme, cfg.Theme)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `theme = "gruvbox"

[storage]
backend = "sqlite"
dir = "/var/lib/notes"

[editor]
undo_group_ms = 250
autosave_seconds = -1

[settings]
width = "100"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "gruvbox", cfg.Theme)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, "/var/lib/notes", cfg.Storage.Dir)
	assert.Equal(t, 250*time.Millisecond, cfg.UndoGroupDelay())
	assert.Equal(t, time.Duration(0), cfg.AutosaveInterval())
	assert.Equal(t, DefaultBackupKeep, cfg.Editor.BackupKeep)
	assert.Equal(t, "100", cfg.Get("width"))
}

func TestLoadFromFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("theme = [unterminated"), 0o644))

	_, err := LoadFromFile(path)
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestLoadFromFileExpandsHome(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[storage]\ndir = \"~/notes\"\n"), 0o644))

	home, err := homedir.Dir()
	require.NoError(t, err)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "notes"), cfg.Storage.Dir)
}

func TestLoadFromFileValidates(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{name: "unknown backend", data: "[storage]\nbackend = \"postgres\"\n", want: "Backend"},
		{name: "undo window too long", data: "[editor]\nundo_group_ms = 120000\n", want: "UndoGroupMs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.data), 0o644))

			_, err := LoadFromFile(path)
			assert.ErrorContains(t, err, "invalid config file")
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	cfg.Settings["persisted"] = "yes"
	cfg.Set("session", "only")
	require.NoError(t, cfg.Save())

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "yes", loaded.Get("persisted"))
	assert.Equal(t, "", loaded.Get("session"))
}
