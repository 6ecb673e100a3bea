// Package storage implements the interchangeable persistence backends that
// hold the serialized document.
//
// Every backend follows the same contract: Probe never fails loudly, Get
// returns (nil, false) both when the key is missing and when reading fails,
// and Put reports success as a bool. Failures are logged here and never
// propagated, so callers can treat every backend as best-effort.
package storage

import (
	"context"
	"fmt"

	"github.com/NasuPanda/mnemos-web/internal/config"
)

// Backend stores named JSON blobs.
type Backend interface {
	Name() string
	Probe(ctx context.Context) bool
	Get(ctx context.Context, key string) ([]byte, bool)
	Put(ctx context.Context, key string, data []byte) bool
	Close() error
}

// Config selects and targets a backend.
type Config struct {
	Backend    string
	Dir        string
	Bucket     string
	SQLitePath string
}

// ConfigFrom extracts the storage settings from the process configuration.
func ConfigFrom(cfg config.Config) Config {
	return Config{
		Backend:    cfg.StorageBackend,
		Dir:        cfg.StorageDir,
		Bucket:     cfg.StorageBucketName,
		SQLitePath: cfg.StorageSQLitePath,
	}
}

// NewBackend builds the backend named by cfg.Backend. It is called once at
// startup; the choice does not change for the life of the process.
func NewBackend(cfg Config) (Backend, error) {
	switch cfg.Backend {
	case config.BackendFile:
		return NewFileStore(cfg.Dir), nil
	case config.BackendGCS:
		return NewGCSStore(cfg.Bucket), nil
	case config.BackendSQLite:
		return OpenSQLite(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
