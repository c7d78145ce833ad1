package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/abhisek/coursecheck/internal/taxonomy"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// schemaVersion is bumped whenever the table layout changes. Databases
// written by a newer binary are refused rather than silently misread.
const schemaVersion = 1

// Store wraps the SQLite database and hands out repositories.
type Store struct {
	db *sql.DB
}

// Open connects to the SQLite database at dsn, applies recommended pragmas,
// creates the schema, and reseeds the preset taxonomies. It is safe to call
// on an existing database.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	if err := seedPresets(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("seed presets: %w", err)
	}

	return &Store{db: db}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// TaxonomyRepo returns a TaxonomyRepo backed by this store.
func (s *Store) TaxonomyRepo() TaxonomyRepo {
	return &taxonomyRepo{db: s.db}
}

// CourseRepo returns a CourseRepo backed by this store.
func (s *Store) CourseRepo() CourseRepo {
	return &courseRepo{db: s.db}
}

// RunRepo returns a RunRepo backed by this store.
func (s *Store) RunRepo() RunRepo {
	return &runRepo{db: s.db}
}

// LLMLogRepo returns an LLMLogRepo backed by this store.
func (s *Store) LLMLogRepo() LLMLogRepo {
	return &llmLogRepo{db: s.db}
}

// applyPragmas configures SQLite for optimal single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// initSchema creates all tables and indices. Idempotent. A database stamped
// with a newer schema version is refused.
func initSchema(db *sql.DB) error {
	stored, err := storedSchemaVersion(db)
	if err != nil {
		return err
	}
	if stored > schemaVersion {
		return fmt.Errorf("database schema version %d is newer than this build supports (%d)", stored, schemaVersion)
	}

	ddl := []string{
		`CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		)`,
		`CREATE TABLE IF NOT EXISTS taxonomies (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			is_preset INTEGER NOT NULL DEFAULT 0,
			data TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS courses (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			module_count INTEGER NOT NULL DEFAULT 0,
			activity_count INTEGER NOT NULL DEFAULT 0,
			duration_minutes INTEGER NOT NULL DEFAULT 0,
			data TEXT NOT NULL,
			imported_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS audit_runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			course_id TEXT NOT NULL,
			course_title TEXT NOT NULL,
			taxonomy_id TEXT NOT NULL,
			taxonomy_name TEXT NOT NULL,
			score INTEGER NOT NULL,
			errors INTEGER NOT NULL,
			warnings INTEGER NOT NULL,
			infos INTEGER NOT NULL,
			result TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS llm_requests (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			provider TEXT NOT NULL,
			model TEXT NOT NULL,
			purpose TEXT NOT NULL,
			input_tokens INTEGER NOT NULL DEFAULT 0,
			output_tokens INTEGER NOT NULL DEFAULT 0,
			latency_ms INTEGER NOT NULL DEFAULT 0,
			success INTEGER NOT NULL DEFAULT 0,
			error_message TEXT NOT NULL DEFAULT '',
			request_body TEXT NOT NULL DEFAULT '',
			response_body TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_taxonomies_preset_name ON taxonomies(is_preset DESC, name)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_runs_course ON audit_runs(course_id)`,
	}
	for _, stmt := range ddl {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}

	if _, err := db.Exec(`INSERT OR REPLACE INTO schema_version (version) VALUES (?)`, schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	return nil
}

// storedSchemaVersion reads the schema version stamp, or 0 for a fresh
// database.
func storedSchemaVersion(db *sql.DB) (int, error) {
	var exists int
	err := db.QueryRow(
		"SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = 'schema_version'",
	).Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("inspect schema: %w", err)
	}
	if exists == 0 {
		return 0, nil
	}

	var version int
	err = db.QueryRow("SELECT coalesce(max(version), 0) FROM schema_version").Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return version, nil
}

// seedPresets writes the shipped preset taxonomies, overwriting any existing
// preset rows so the database always matches the binary's definitions. User
// taxonomy rows are untouched.
func seedPresets(db *sql.DB) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	for _, p := range taxonomy.Presets() {
		blob, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encode preset %q: %w", p.ID, err)
		}
		_, err = db.Exec(`
			INSERT INTO taxonomies (id, name, is_preset, data, created_at, updated_at)
			VALUES (?, ?, 1, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				is_preset = 1,
				data = excluded.data,
				updated_at = excluded.updated_at
		`, p.ID, p.Name, string(blob), now, now)
		if err != nil {
			return fmt.Errorf("seed preset %q: %w", p.ID, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. COURSECHECK_DB environment variable
// 2. $XDG_DATA_HOME/coursecheck/coursecheck.db
// 3. ~/.local/share/coursecheck/coursecheck.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("COURSECHECK_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "coursecheck", "coursecheck.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
