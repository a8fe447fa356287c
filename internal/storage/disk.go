package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/peterbourgon/diskv/v3"
	"go.uber.org/zap"

	"github.com/pstuifzand/tuo-notes/internal/model"
)

// ErrInvalidID is returned for file ids that cannot be used as keys
var ErrInvalidID = errors.New("invalid file id")

const (
	outlinePrefix = "outline-"
	filesKey      = "files"
	activeKey     = "active"
	outlineDir    = "outlines"
)

// DiskStore keeps every outline in its own file below a base directory
type DiskStore struct {
	mu     sync.Mutex
	d      *diskv.Diskv
	logger *zap.Logger
	now    func() time.Time
}

// NewDiskStore opens a disk store rooted at dir
func NewDiskStore(dir string, logger *zap.Logger) (*DiskStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("disk store: empty directory")
	}
	return &DiskStore{
		d: diskv.New(diskv.Options{
			BasePath:          filepath.Clean(dir),
			AdvancedTransform: keyToPath,
			InverseTransform:  pathToKey,
			CacheSizeMax:      1024 * 1024, // 1MB
		}),
		logger: logger,
		now:    time.Now,
	}, nil
}

// outline-<id> lives in outlines/<id>.json, other keys at the top level
func keyToPath(key string) *diskv.PathKey {
	if id, ok := strings.CutPrefix(key, outlinePrefix); ok {
		return &diskv.PathKey{Path: []string{outlineDir}, FileName: id + ".json"}
	}
	return &diskv.PathKey{FileName: key + ".json"}
}

func pathToKey(pk *diskv.PathKey) string {
	name := strings.TrimSuffix(pk.FileName, ".json")
	if len(pk.Path) == 1 && pk.Path[0] == outlineDir {
		return outlinePrefix + name
	}
	return name
}

func validID(id string) bool {
	if id == "" {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}

// Load implements Store
func (s *DiskStore) Load(_ context.Context, id string) (*model.Document, bool) {
	if !validID(id) {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := outlinePrefix + id
	if !s.d.Has(key) {
		return nil, false
	}
	data, err := s.d.Read(key)
	if err != nil {
		s.logger.Warn("read outline", zap.String("id", id), zap.Error(err))
		return nil, false
	}
	return decodeOrAbsent(s.logger, id, data)
}

// Save implements Store
func (s *DiskStore) Save(_ context.Context, id string, doc *model.Document) (model.FileMeta, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		id = newFileID(s.now(), func(id string) bool { return s.d.Has(outlinePrefix + id) })
	} else if !validID(id) {
		return model.FileMeta{}, fmt.Errorf("save %q: %w", id, ErrInvalidID)
	}

	data, err := EncodeDocument(doc)
	if err != nil {
		return model.FileMeta{}, err
	}
	if err := s.d.Write(outlinePrefix+id, data); err != nil {
		return model.FileMeta{}, fmt.Errorf("write outline %q: %w", id, err)
	}

	meta := model.FileMeta{ID: id, Name: fileName(doc)}
	files := s.readFiles()
	found := false
	for i := range files {
		if files[i].ID == id {
			files[i] = meta
			found = true
		}
	}
	if !found {
		files = append(files, meta)
	}
	if err := s.writeFiles(files); err != nil {
		return model.FileMeta{}, err
	}
	return meta, nil
}

// List implements Store
func (s *DiskStore) List(_ context.Context) ([]model.FileMeta, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readFiles(), nil
}

// Delete implements Store
func (s *DiskStore) Delete(_ context.Context, id string) error {
	if !validID(id) {
		return fmt.Errorf("delete %q: %w", id, ErrInvalidID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.d.Has(outlinePrefix + id) {
		if err := s.d.Erase(outlinePrefix + id); err != nil {
			return fmt.Errorf("erase outline %q: %w", id, err)
		}
	}

	files := s.readFiles()
	kept := files[:0]
	for _, f := range files {
		if f.ID != id {
			kept = append(kept, f)
		}
	}
	if err := s.writeFiles(kept); err != nil {
		return err
	}

	if active, ok := s.active(); ok && active == id {
		if err := s.d.Erase(activeKey); err != nil {
			return fmt.Errorf("clear active file: %w", err)
		}
	}
	return nil
}

// Active implements Store
func (s *DiskStore) Active(_ context.Context) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active()
}

func (s *DiskStore) active() (string, bool) {
	if !s.d.Has(activeKey) {
		return "", false
	}
	data, err := s.d.Read(activeKey)
	if err != nil || len(data) == 0 {
		return "", false
	}
	return string(data), true
}

// SetActive implements Store
func (s *DiskStore) SetActive(_ context.Context, id string) error {
	if !validID(id) {
		return fmt.Errorf("set active %q: %w", id, ErrInvalidID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.d.Write(activeKey, []byte(id)); err != nil {
		return fmt.Errorf("write active file: %w", err)
	}
	return nil
}

// Close implements Store
func (s *DiskStore) Close() error {
	return nil
}

func (s *DiskStore) readFiles() []model.FileMeta {
	if !s.d.Has(filesKey) {
		return nil
	}
	data, err := s.d.Read(filesKey)
	if err != nil {
		s.logger.Warn("read file list", zap.Error(err))
		return nil
	}
	var files []model.FileMeta
	if err := json.Unmarshal(data, &files); err != nil {
		s.logger.Warn("ignoring malformed file list", zap.Error(err))
		return nil
	}
	return files
}

func (s *DiskStore) writeFiles(files []model.FileMeta) error {
	if files == nil {
		files = []model.FileMeta{}
	}
	data, err := json.Marshal(files)
	if err != nil {
		return fmt.Errorf("encode file list: %w", err)
	}
	if err := s.d.Write(filesKey, data); err != nil {
		return fmt.Errorf("write file list: %w", err)
	}
	return nil
}
