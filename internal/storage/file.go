package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/NasuPanda/mnemos-web/internal/logger"
)

const healthCheckFile = ".health_check"

// FileStore keeps each key as a file in a local directory.
type FileStore struct {
	dir string
}

// NewFileStore returns a store rooted at dir. The directory is created lazily.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: filepath.Clean(dir)}
}

// NewLocalBackup returns a store for the single backup file at path along
// with the key that addresses it.
func NewLocalBackup(path string) (*FileStore, string) {
	return NewFileStore(filepath.Dir(path)), filepath.Base(path)
}

func (s *FileStore) Name() string {
	return "file:" + s.dir
}

// Dir returns the root directory.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) Probe(ctx context.Context) bool {
	log := logger.FromContext(ctx).WithPrefix("storage").WithField("backend", s.Name())

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		log.Error("storage health check failed: %v", err)
		return false
	}
	probe := filepath.Join(s.dir, healthCheckFile)
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		log.Error("storage health check failed: %v", err)
		return false
	}
	if err := os.Remove(probe); err != nil {
		log.Warn("failed to remove health check file: %v", err)
	}
	return true
}

func (s *FileStore) Get(ctx context.Context, key string) ([]byte, bool) {
	log := logger.FromContext(ctx).WithPrefix("storage").WithFields(map[string]any{
		"backend": s.Name(),
		"key":     key,
	})

	path, err := s.path(key)
	if err != nil {
		log.Error("rejected key: %v", err)
		return nil, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Warn("key not found")
		} else {
			log.Error("failed to read: %v", err)
		}
		return nil, false
	}
	log.Debug("read %d bytes", len(data))
	return data, true
}

// Put writes through a temporary file and renames it into place so a crash
// never leaves a half-written document behind.
func (s *FileStore) Put(ctx context.Context, key string, data []byte) bool {
	log := logger.FromContext(ctx).WithPrefix("storage").WithFields(map[string]any{
		"backend": s.Name(),
		"key":     key,
	})

	path, err := s.path(key)
	if err != nil {
		log.Error("rejected key: %v", err)
		return false
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		log.Error("failed to create directory: %v", err)
		return false
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		log.Error("failed to write: %v", err)
		return false
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		log.Error("failed to move into place: %v", err)
		return false
	}
	log.Debug("wrote %d bytes", len(data))
	return true
}

func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) path(key string) (string, error) {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(s.dir, key), nil
}
