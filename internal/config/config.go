package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
)

const appName = "tuo-notes"

// Default values
const (
	DefaultTheme           = "tokyo-night"
	DefaultBackend         = "disk"
	DefaultUndoGroupMs     = 500
	DefaultAutosaveSeconds = 30
	DefaultBackupKeep      = 50
)

// StorageConfig selects where outlines are stored
type StorageConfig struct {
	Backend   string `toml:"backend" validate:"oneof=disk sqlite"`
	Dir       string `toml:"dir" validate:"required"`
	BackupDir string `toml:"backup_dir" validate:"required"`
}

// EditorConfig tunes the live editor
type EditorConfig struct {
	UndoGroupMs     int `toml:"undo_group_ms" validate:"min=1,max=60000"`
	AutosaveSeconds int `toml:"autosave_seconds" validate:"min=0"`
	BackupKeep      int `toml:"backup_keep" validate:"min=1"`
}

// Config holds application configuration
type Config struct {
	Theme    string            `toml:"theme"`
	LogFile  string            `toml:"log_file" validate:"required"`
	Storage  StorageConfig     `toml:"storage"`
	Editor   EditorConfig      `toml:"editor"`
	Settings map[string]string `toml:"settings"`

	// Session settings (not persisted to TOML, overrides persisted settings)
	sessionSettings map[string]string
	path            string
}

// Load loads the config file from the standard location
func Load() (*Config, error) {
	configPath, err := DefaultPath()
	if err != nil {
		return defaultConfig(), nil
	}
	return LoadFromFile(configPath)
}

// LoadFromFile loads config from a specific file. A missing file yields the
// defaults.
func LoadFromFile(filePath string) (*Config, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		cfg := defaultConfig()
		cfg.path = filePath
		return cfg, nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	config.applyDefaults()
	if err := config.expandPaths(); err != nil {
		return nil, err
	}
	if err := validate.Struct(&config); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}
	config.path = filePath
	return &config, nil
}

var validate = validator.New()

// expandPaths resolves a leading ~ in the configured paths
func (c *Config) expandPaths() error {
	for _, p := range []*string{&c.Storage.Dir, &c.Storage.BackupDir, &c.LogFile} {
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return fmt.Errorf("invalid path %q: %w", *p, err)
		}
		*p = expanded
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Theme == "" {
		c.Theme = DefaultTheme
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = DefaultBackend
	}
	if c.Storage.Dir == "" {
		c.Storage.Dir = filepath.Join(dataDir(), "store")
	}
	if c.Storage.BackupDir == "" {
		c.Storage.BackupDir = filepath.Join(dataDir(), "backups")
	}
	if c.LogFile == "" {
		c.LogFile = filepath.Join(dataDir(), "tuo-notes.log")
	}
	if c.Editor.UndoGroupMs <= 0 {
		c.Editor.UndoGroupMs = DefaultUndoGroupMs
	}
	if c.Editor.AutosaveSeconds < 0 {
		c.Editor.AutosaveSeconds = 0
	} else if c.Editor.AutosaveSeconds == 0 {
		c.Editor.AutosaveSeconds = DefaultAutosaveSeconds
	}
	if c.Editor.BackupKeep <= 0 {
		c.Editor.BackupKeep = DefaultBackupKeep
	}
	if c.Settings == nil {
		c.Settings = make(map[string]string)
	}
	c.sessionSettings = make(map[string]string)
}

// UndoGroupDelay returns the editor's undo grouping window
func (c *Config) UndoGroupDelay() time.Duration {
	return time.Duration(c.Editor.UndoGroupMs) * time.Millisecond
}

// AutosaveInterval returns how often a dirty outline is saved. Zero
// disables autosave.
func (c *Config) AutosaveInterval() time.Duration {
	return time.Duration(c.Editor.AutosaveSeconds) * time.Second
}

// DefaultPath returns the path to the config file
func DefaultPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

func dataDir() string {
	home, err := homedir.Dir()
	if err != nil {
		return filepath.Join(os.TempDir(), "."+appName)
	}
	return filepath.Join(home, ".local", "share", appName)
}

// defaultConfig returns the default configuration
func defaultConfig() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// GetConfigDir returns the config directory
func GetConfigDir() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// Set sets a session configuration value
func (c *Config) Set(key, value string) {
	if c.sessionSettings == nil {
		c.sessionSettings = make(map[string]string)
	}
	c.sessionSettings[key] = value
}

// Get retrieves a configuration value, checking session settings first (which override persisted settings)
// Returns empty string if not found in either source
func (c *Config) Get(key string) string {
	if val, ok := c.sessionSettings[key]; ok {
		return val
	}
	if val, ok := c.Settings[key]; ok {
		return val
	}
	return ""
}

// GetAll returns all configuration values (both persisted and session)
// Session settings override persisted settings with the same key
func (c *Config) GetAll() map[string]string {
	result := make(map[string]string, len(c.Settings)+len(c.sessionSettings))
	for k, v := range c.Settings {
		result[k] = v
	}
	for k, v := range c.sessionSettings {
		result[k] = v
	}
	return result
}

// Save persists the configuration to the file it was loaded from, or the
// default location. Session settings are not saved.
func (c *Config) Save() error {
	configPath := c.path
	if configPath == "" {
		var err error
		if configPath, err = DefaultPath(); err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
