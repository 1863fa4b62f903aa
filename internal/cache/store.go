// Package cache persists extraction results in a SQLite database so that
// repeated renders of an unchanged repository skip the tree-sitter pass.
package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/kevinaud/repo-map/internal/extract"
)

// Store is the on-disk extraction cache. A nil *Store is valid and acts
// as a cache that never hits.
type Store struct {
	conn   *sql.DB
	logger *slog.Logger
	dbPath string
}

// Open opens or creates the cache database under dir (typically
// <root>/.repomap).
func Open(dir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	dbPath := filepath.Join(dir, "cache.db")
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	store := &Store{conn: conn, logger: logger, dbPath: dbPath}
	if err := store.initializeSchema(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize cache schema: %w", err)
	}
	return store, nil
}

func (s *Store) initializeSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS extractions (
			path TEXT NOT NULL,
			content_hash TEXT NOT NULL,
			sections TEXT NOT NULL,
			degraded INTEGER NOT NULL DEFAULT 0,
			diagnostic TEXT,
			cached_at TEXT NOT NULL,
			PRIMARY KEY (path, content_hash)
		);
		CREATE INDEX IF NOT EXISTS idx_extractions_cached_at ON extractions(cached_at);

		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);
		INSERT OR REPLACE INTO schema_version (version) VALUES (1);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s == nil || s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

// HashContent returns the cache key component derived from file content.
func HashContent(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Get looks up a cached extraction for (path, contentHash). The second
// return value reports whether the entry was found.
func (s *Store) Get(path, contentHash string) (extract.Result, bool) {
	if s == nil || s.conn == nil {
		return extract.Result{}, false
	}

	var sectionsJSON string
	var degraded int
	var diagnostic sql.NullString
	row := s.conn.QueryRow(
		`SELECT sections, degraded, diagnostic FROM extractions WHERE path = ? AND content_hash = ?`,
		path, contentHash,
	)
	if err := row.Scan(&sectionsJSON, &degraded, &diagnostic); err != nil {
		return extract.Result{}, false
	}

	var sections []extract.Section
	if err := json.Unmarshal([]byte(sectionsJSON), &sections); err != nil {
		s.logger.Warn("discarding corrupt cache entry", "path", path, "error", err)
		_ = s.Delete(path)
		return extract.Result{}, false
	}

	res := extract.Result{Sections: sections, Degraded: degraded != 0}
	if diagnostic.Valid {
		res.Diagnostic = diagnostic.String
	}
	return res, true
}

// Put stores an extraction result, replacing any entry for the same key.
// Stale entries for other content hashes of the path are dropped.
func (s *Store) Put(path, contentHash string, res extract.Result) error {
	if s == nil || s.conn == nil {
		return nil
	}

	sectionsJSON, err := json.Marshal(res.Sections)
	if err != nil {
		return fmt.Errorf("failed to encode sections: %w", err)
	}

	if _, err := s.conn.Exec(`DELETE FROM extractions WHERE path = ? AND content_hash != ?`, path, contentHash); err != nil {
		return fmt.Errorf("failed to evict stale entries: %w", err)
	}

	degraded := 0
	if res.Degraded {
		degraded = 1
	}
	var diagnostic interface{}
	if res.Diagnostic != "" {
		diagnostic = res.Diagnostic
	}

	_, err = s.conn.Exec(
		`INSERT OR REPLACE INTO extractions (path, content_hash, sections, degraded, diagnostic, cached_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		path, contentHash, string(sectionsJSON), degraded, diagnostic, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to store cache entry: %w", err)
	}
	return nil
}

// Delete removes all cached entries for a path.
func (s *Store) Delete(path string) error {
	if s == nil || s.conn == nil {
		return nil
	}
	_, err := s.conn.Exec(`DELETE FROM extractions WHERE path = ?`, path)
	return err
}

// Purge removes entries older than the given age.
func (s *Store) Purge(olderThan time.Duration) (int64, error) {
	if s == nil || s.conn == nil {
		return 0, nil
	}
	cutoff := time.Now().UTC().Add(-olderThan).Format(time.RFC3339)
	res, err := s.conn.Exec(`DELETE FROM extractions WHERE cached_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge cache: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
