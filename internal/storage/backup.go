package storage

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/pstuifzand/tuo-notes/internal/model"
)

const backupTimeFormat = "20060102_150405"

// BackupManager writes timestamped copies of outlines before they are saved
type BackupManager struct {
	backupDir string
	now       func() time.Time
}

// backupFile is the on-disk form of a backup
type backupFile struct {
	FileID   string          `json:"fileId"`
	Document *model.Document `json:"document"`
}

// NewBackupManager creates a backup manager writing to dir. An empty dir
// selects the default backup directory.
func NewBackupManager(dir string) (*BackupManager, error) {
	if dir == "" {
		dir = DefaultBackupDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	return &BackupManager{
		backupDir: dir,
		now:       time.Now,
	}, nil
}

// Dir returns the backup directory
func (bm *BackupManager) Dir() string {
	return bm.backupDir
}

// CreateBackup writes a backup of doc for the given file and returns its path
func (bm *BackupManager) CreateBackup(doc *model.Document, fileID, sessionID string) (string, error) {
	data, err := json.MarshalIndent(backupFile{FileID: fileID, Document: doc}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal backup JSON: %w", err)
	}

	backupPath := filepath.Join(bm.backupDir, bm.generateBackupFilename(sessionID))
	if err := os.WriteFile(backupPath, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write backup file: %w", err)
	}
	return backupPath, nil
}

// generateBackupFilename creates a filename in the format: YYYYMMDD_HHMMSS_<sessionID>.tuo
func (bm *BackupManager) generateBackupFilename(sessionID string) string {
	return fmt.Sprintf("%s_%s.tuo", bm.now().Format(backupTimeFormat), sessionID)
}

// DefaultBackupDir returns the path to the default backup directory
func DefaultBackupDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".tuo-notes", "backups")
	}
	return filepath.Join(homeDir, ".local", "share", "tuo-notes", "backups")
}

// BackupMetadata holds parsed information about a backup file
type BackupMetadata struct {
	FilePath  string    // Full path to backup file
	Timestamp time.Time // Parsed timestamp from filename
	SessionID string    // 8-character session ID
	FileID    string    // Stored file the backup was taken of
}

// FindBackups returns the backups of a stored file, oldest first. An empty
// fileID returns every backup.
func (bm *BackupManager) FindBackups(fileID string) ([]BackupMetadata, error) {
	entries, err := os.ReadDir(bm.backupDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var backups []BackupMetadata
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".tuo") {
			continue
		}
		metadata, err := parseBackupFilename(entry.Name(), filepath.Join(bm.backupDir, entry.Name()))
		if err != nil {
			continue
		}
		if fileID != "" && metadata.FileID != fileID {
			continue
		}
		backups = append(backups, metadata)
	}

	sortBackupsByTimestamp(backups)
	return backups, nil
}

// Prune removes all but the newest keep backups of a file
func (bm *BackupManager) Prune(fileID string, keep int) (int, error) {
	backups, err := bm.FindBackups(fileID)
	if err != nil {
		return 0, err
	}
	removed := 0
	for len(backups)-removed > keep {
		if err := os.Remove(backups[removed].FilePath); err != nil {
			return removed, fmt.Errorf("failed to remove backup: %w", err)
		}
		removed++
	}
	return removed, nil
}

// IsBackupFile reports whether path names a backup in this manager's
// directory
func (bm *BackupManager) IsBackupFile(path string) bool {
	if path == "" {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	dir, err := filepath.Abs(bm.backupDir)
	if err != nil {
		return false
	}
	if filepath.Dir(abs) != dir || !strings.HasSuffix(abs, ".tuo") {
		return false
	}
	_, err = time.Parse(backupTimeFormat, firstN(filepath.Base(abs), len(backupTimeFormat)))
	return err == nil
}

// LoadBackup reads the document and file id stored in a backup
func LoadBackup(path string) (*model.Document, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read backup: %w", err)
	}
	var raw struct {
		FileID   string          `json:"fileId"`
		Document json.RawMessage `json:"document"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, "", fmt.Errorf("failed to parse backup: %w", err)
	}
	doc, err := DecodeDocument(raw.Document)
	if err != nil {
		return nil, "", err
	}
	return doc, raw.FileID, nil
}

// parseBackupFilename extracts metadata from a backup filename
// Expected format: YYYYMMDD_HHMMSS_<sessionID>.tuo
func parseBackupFilename(filename string, fullPath string) (BackupMetadata, error) {
	if len(filename) < 22 {
		return BackupMetadata{}, fmt.Errorf("filename too short")
	}

	timestamp, err := time.ParseInLocation(backupTimeFormat, filename[:15], time.Local)
	if err != nil {
		return BackupMetadata{}, fmt.Errorf("invalid timestamp format: %w", err)
	}
	sessionID := strings.TrimSuffix(filename[16:], ".tuo")

	var fileID string
	if data, err := os.ReadFile(fullPath); err == nil {
		var b struct {
			FileID string `json:"fileId"`
		}
		if err := json.Unmarshal(data, &b); err == nil {
			fileID = b.FileID
		}
	}

	return BackupMetadata{
		FilePath:  fullPath,
		Timestamp: timestamp,
		SessionID: sessionID,
		FileID:    fileID,
	}, nil
}

// sortBackupsByTimestamp sorts backups chronologically (oldest first)
func sortBackupsByTimestamp(backups []BackupMetadata) {
	slices.SortStableFunc(backups, func(a, b BackupMetadata) int {
		if c := a.Timestamp.Compare(b.Timestamp); c != 0 {
			return c
		}
		return strings.Compare(a.FilePath, b.FilePath)
	})
}

// NewSessionID creates a random 8-character session ID for backup naming
func NewSessionID() string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, 8)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}

func firstN(s string, n int) string {
	if len(s) < n {
		return s
	}
	return s[:n]
}
