package pages

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRegistry persists the page set in a SQLite database, so a
// consumer can inspect the generated routes after the session ends.
type SQLiteRegistry struct {
	db *sql.DB
}

// NewSQLiteRegistry opens (or creates) the registry database.
func NewSQLiteRegistry(dbPath string) (*SQLiteRegistry, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		_ = db.Close()
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS pages (
		route TEXT PRIMARY KEY,
		file TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_pages_file ON pages(file);
	`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteRegistry{db: db}, nil
}

// CreatePage implements Registry.
func (s *SQLiteRegistry) CreatePage(p Page) error {
	var owner string
	err := s.db.QueryRow("SELECT file FROM pages WHERE route = ?", p.Route).Scan(&owner)
	switch {
	case err == nil:
		if owner == p.File {
			return nil
		}
		return collisionError(p.Route, owner, p.File)
	case errors.Is(err, sql.ErrNoRows):
		// fall through to insert
	default:
		return fmt.Errorf("lookup route %q: %w", p.Route, err)
	}

	if _, err := s.db.Exec(
		"INSERT INTO pages (route, file, created_at) VALUES (?, ?, ?)",
		p.Route, p.File, time.Now().Unix(),
	); err != nil {
		return fmt.Errorf("insert page %q: %w", p.Route, err)
	}
	return nil
}

// DeletePage implements Registry.
func (s *SQLiteRegistry) DeletePage(p Page) error {
	if _, err := s.db.Exec("DELETE FROM pages WHERE route = ? AND file = ?", p.Route, p.File); err != nil {
		return fmt.Errorf("delete page %q: %w", p.Route, err)
	}
	return nil
}

// PagesByFile implements Registry.
func (s *SQLiteRegistry) PagesByFile(file string) ([]Page, error) {
	rows, err := s.db.Query("SELECT route, file FROM pages WHERE file = ? ORDER BY route", file)
	if err != nil {
		return nil, fmt.Errorf("query pages for %q: %w", file, err)
	}
	defer func() { _ = rows.Close() }()
	return scanPages(rows)
}

// All implements Registry.
func (s *SQLiteRegistry) All() ([]Page, error) {
	rows, err := s.db.Query("SELECT route, file FROM pages ORDER BY route")
	if err != nil {
		return nil, fmt.Errorf("query pages: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanPages(rows)
}

// Close releases the underlying database handle.
func (s *SQLiteRegistry) Close() error {
	return s.db.Close()
}

func scanPages(rows *sql.Rows) ([]Page, error) {
	var out []Page
	for rows.Next() {
		var p Page
		if err := rows.Scan(&p.Route, &p.File); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
