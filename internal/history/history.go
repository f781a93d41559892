// Package history records completed collection builds in a local SQLite
// database so past runs can be reviewed.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// Record is one completed build.
type Record struct {
	ID        int64
	Name      string // collection name
	Library   string // Plex section title
	Mode      string // manual, franchise, studio, scrape, smart
	Matched   int
	Unmatched int
	Action    string // created, created-smart, or appended; cancelled builds are not recorded
	CreatedAt time.Time
}

// Store persists build records.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Add inserts a build record. CreatedAt defaults to now when zero.
func (s *Store) Add(ctx context.Context, r Record) error {
	created := r.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO builds (name, library, mode, matched, unmatched, action, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.Name, r.Library, r.Mode, r.Matched, r.Unmatched, r.Action, created.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("record build: %w", err)
	}
	return nil
}

// List returns the most recent builds, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, library, mode, matched, unmatched, action, created_at
		FROM builds
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list builds: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var created string
		if err := rows.Scan(&r.ID, &r.Name, &r.Library, &r.Mode, &r.Matched, &r.Unmatched, &r.Action, &created); err != nil {
			return nil, fmt.Errorf("scan build: %w", err)
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339, created)
		records = append(records, r)
	}
	return records, rows.Err()
}
