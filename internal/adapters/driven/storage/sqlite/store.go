// Package sqlite persists per-path scan marks between indexing runs,
// backing the incremental re-indexing check.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/docdex-labs/docdex-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/docdex-labs/docdex-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.ScanStateStore = (*Store)(nil)

// Store is the SQLite-backed scan-state store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the scan-state database under dataDir.
// If dataDir is empty, defaults to ~/.docdex/data/scanstate.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".docdex", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "scanstate.db")

	// WAL mode for safe concurrent readers during a run.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: dbPath}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Get retrieves the mark for a path.
// Returns nil and no error when no mark exists.
func (s *Store) Get(ctx context.Context, path string) (*driven.ScanMark, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT path, modified_at, size, indexed_at
		FROM scan_state WHERE path = ?
	`, path)

	var mark driven.ScanMark
	var modifiedAt, indexedAt int64
	err := row.Scan(&mark.Path, &modifiedAt, &mark.Size, &indexedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning mark: %w", err)
	}

	mark.ModifiedAt = time.Unix(0, modifiedAt)
	mark.IndexedAt = time.Unix(0, indexedAt)
	return &mark, nil
}

// Save stores or replaces the mark for a path.
func (s *Store) Save(ctx context.Context, mark driven.ScanMark) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO scan_state (path, modified_at, size, indexed_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			modified_at = excluded.modified_at,
			size = excluded.size,
			indexed_at = excluded.indexed_at
	`, mark.Path, mark.ModifiedAt.UnixNano(), mark.Size, mark.IndexedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("saving mark: %w", err)
	}
	return nil
}

// Delete removes the mark for a path.
func (s *Store) Delete(ctx context.Context, path string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM scan_state WHERE path = ?`, path); err != nil {
		return fmt.Errorf("deleting mark: %w", err)
	}
	return nil
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}
		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}
	return nil
}
