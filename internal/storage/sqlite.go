package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/NasuPanda/mnemos-web/internal/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const documentsTable = "documents"

// SQLiteStore keeps each key as a row in a single SQLite table.
type SQLiteStore struct {
	db   *sql.DB
	path string
	log  *logger.Logger
}

// OpenSQLite opens (creating if needed) the database at path and applies migrations.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	log := logger.Default().WithPrefix("storage").WithField("backend", "sqlite:"+path)

	dsn := fmt.Sprintf("%s?_busy_timeout=5000&_journal_mode=WAL&_synchronous=NORMAL", path)
	log.Info("opening database: %s", path)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, path: path, log: log}
	if err := s.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Info("database ready")
	return s, nil
}

func (s *SQLiteStore) applyMigrations(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY, applied_at DATETIME DEFAULT CURRENT_TIMESTAMP)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return err
	}
	for _, entry := range entries {
		version := entry.Name()
		applied, err := s.isMigrationApplied(ctx, version)
		if err != nil {
			return err
		}
		if applied {
			s.log.Debug("migration %s already applied, skipping", version)
			continue
		}
		body, err := migrationsFS.ReadFile("migrations/" + version)
		if err != nil {
			return err
		}
		s.log.Info("applying migration: %s", version)
		if _, err := s.db.ExecContext(ctx, string(body)); err != nil {
			return fmt.Errorf("apply migration %s: %w", version, err)
		}
		if _, err := sq.Insert("schema_migrations").Columns("version").Values(version).RunWith(s.db).ExecContext(ctx); err != nil {
			return fmt.Errorf("record migration %s: %w", version, err)
		}
	}
	return nil
}

func (s *SQLiteStore) isMigrationApplied(ctx context.Context, version string) (bool, error) {
	var v string
	err := sq.Select("version").
		From("schema_migrations").
		Where(sq.Eq{"version": version}).
		RunWith(s.db).
		QueryRowContext(ctx).
		Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

func (s *SQLiteStore) Name() string {
	return "sqlite:" + s.path
}

func (s *SQLiteStore) Probe(ctx context.Context) bool {
	if err := s.db.PingContext(ctx); err != nil {
		logger.FromContext(ctx).WithPrefix("storage").WithField("backend", s.Name()).
			Error("storage health check failed: %v", err)
		return false
	}
	return true
}

func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, bool) {
	log := logger.FromContext(ctx).WithPrefix("storage").WithFields(map[string]any{
		"backend": s.Name(),
		"key":     key,
	})

	var body []byte
	err := sq.Select("body").
		From(documentsTable).
		Where(sq.Eq{"key": key}).
		RunWith(s.db).
		QueryRowContext(ctx).
		Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Warn("key not found")
		} else {
			log.Error("failed to read: %v", err)
		}
		return nil, false
	}
	log.Debug("read %d bytes", len(body))
	return body, true
}

func (s *SQLiteStore) Put(ctx context.Context, key string, data []byte) bool {
	log := logger.FromContext(ctx).WithPrefix("storage").WithFields(map[string]any{
		"backend": s.Name(),
		"key":     key,
	})

	_, err := sq.Insert(documentsTable).
		Columns("key", "body", "updated_at").
		Values(key, data, time.Now().UTC()).
		Suffix("ON CONFLICT(key) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at").
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		log.Error("failed to write: %v", err)
		return false
	}
	log.Debug("wrote %d bytes", len(data))
	return true
}

func (s *SQLiteStore) Close() error {
	s.log.Debug("closing database connection")
	return s.db.Close()
}
