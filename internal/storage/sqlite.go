package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/pstuifzand/tuo-notes/internal/model"

	_ "modernc.org/sqlite"
)

// SQLiteFile is the database file name inside the store directory
const SQLiteFile = "outlines.sqlite"

// SQLiteStore keeps outlines in a single SQLite database
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
	now    func() time.Time
}

// NewSQLiteStore opens or creates the database in dir
func NewSQLiteStore(dir string, logger *zap.Logger) (*SQLiteStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("sqlite store: empty directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	ctx := context.Background()
	db, err := sql.Open("sqlite", filepath.Join(dir, SQLiteFile))
	if err != nil {
		return nil, err
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateSQLite(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db, logger: logger, now: time.Now}, nil
}

func migrateSQLite(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS outlines (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			body TEXT NOT NULL,
			created_at_unixms INTEGER NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS outlines_created ON outlines(created_at_unixms, id);`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	return nil
}

// Load implements Store
func (s *SQLiteStore) Load(ctx context.Context, id string) (*model.Document, bool) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM outlines WHERE id = ?`, id).Scan(&body)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("read outline", zap.String("id", id), zap.Error(err))
		}
		return nil, false
	}
	return decodeOrAbsent(s.logger, id, []byte(body))
}

func (s *SQLiteStore) exists(ctx context.Context, id string) bool {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM outlines WHERE id = ?`, id).Scan(&n)
	return err == nil && n > 0
}

// Save implements Store
func (s *SQLiteStore) Save(ctx context.Context, id string, doc *model.Document) (model.FileMeta, error) {
	now := s.now()
	if id == "" {
		id = newFileID(now, func(id string) bool { return s.exists(ctx, id) })
	}
	data, err := EncodeDocument(doc)
	if err != nil {
		return model.FileMeta{}, err
	}

	meta := model.FileMeta{ID: id, Name: fileName(doc)}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO outlines (id, name, body, created_at_unixms, updated_at_unixms)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			body = excluded.body,
			updated_at_unixms = excluded.updated_at_unixms`,
		meta.ID, meta.Name, string(data), now.UnixMilli(), now.UnixMilli())
	if err != nil {
		return model.FileMeta{}, fmt.Errorf("save outline %q: %w", id, err)
	}
	return meta, nil
}

// List implements Store
func (s *SQLiteStore) List(ctx context.Context) ([]model.FileMeta, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM outlines ORDER BY created_at_unixms, id`)
	if err != nil {
		return nil, fmt.Errorf("list outlines: %w", err)
	}
	defer rows.Close()

	var files []model.FileMeta
	for rows.Next() {
		var f model.FileMeta
		if err := rows.Scan(&f.ID, &f.Name); err != nil {
			return nil, fmt.Errorf("list outlines: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// Delete implements Store
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM outlines WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete outline %q: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM meta WHERE k = ? AND v = ?`, activeKey, id); err != nil {
		return fmt.Errorf("clear active file: %w", err)
	}
	return tx.Commit()
}

// Active implements Store
func (s *SQLiteStore) Active(ctx context.Context) (string, bool) {
	var id string
	err := s.db.QueryRowContext(ctx, `SELECT v FROM meta WHERE k = ?`, activeKey).Scan(&id)
	if err != nil || id == "" {
		return "", false
	}
	return id, true
}

// SetActive implements Store
func (s *SQLiteStore) SetActive(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO meta (k, v) VALUES (?, ?) ON CONFLICT(k) DO UPDATE SET v = excluded.v`,
		activeKey, id)
	if err != nil {
		return fmt.Errorf("set active file: %w", err)
	}
	return nil
}

// Close implements Store
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
