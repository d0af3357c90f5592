// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package manifest records the items a download wrote to disk in a SQLite
// database, one row per item key.
package manifest

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/zotero-cli/internal/output"
)

// Entry is one saved item.
type Entry struct {
	Key      string    `json:"key" yaml:"key"`
	Version  int       `json:"version" yaml:"version"`
	ItemType string    `json:"item_type" yaml:"item_type"`
	Title    string    `json:"title" yaml:"title"`
	Path     string    `json:"path" yaml:"path"`
	SavedAt  time.Time `json:"saved_at" yaml:"saved_at"`
}

// Manifest wraps the manifest database.
type Manifest struct {
	db *sql.DB
}

// Open opens or creates the manifest database at path, creating parent
// directories and the schema as needed. Failures are returned as
// *output.FSError.
func Open(path string) (*Manifest, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, &output.FSError{Op: "creating manifest directory", Path: dir, Err: err}
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, &output.FSError{Op: "opening manifest", Path: path, Err: err}
	}

	m := &Manifest{db: db}
	if err := m.createSchema(); err != nil {
		db.Close()
		return nil, &output.FSError{Op: "creating manifest schema", Path: path, Err: err}
	}
	return m, nil
}

// Close releases the database connection.
func (m *Manifest) Close() error {
	return m.db.Close()
}

func (m *Manifest) createSchema() error {
	_, err := m.db.Exec(`CREATE TABLE IF NOT EXISTS items (
		key TEXT PRIMARY KEY,
		version INTEGER NOT NULL,
		item_type TEXT,
		title TEXT,
		path TEXT NOT NULL,
		saved_at TEXT NOT NULL
	)`)
	return err
}

// Record inserts e, replacing any earlier row for the same key.
func (m *Manifest) Record(ctx context.Context, e Entry) error {
	_, err := m.db.ExecContext(ctx, `INSERT INTO items (key, version, item_type, title, path, saved_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			version = excluded.version,
			item_type = excluded.item_type,
			title = excluded.title,
			path = excluded.path,
			saved_at = excluded.saved_at`,
		e.Key, e.Version, e.ItemType, e.Title, e.Path, e.SavedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("recording %s: %w", e.Key, err)
	}
	return nil
}

// List returns all entries ordered by key.
func (m *Manifest) List(ctx context.Context) ([]Entry, error) {
	rows, err := m.db.QueryContext(ctx,
		`SELECT key, version, item_type, title, path, saved_at FROM items ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("listing manifest: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var savedAt string
		if err := rows.Scan(&e.Key, &e.Version, &e.ItemType, &e.Title, &e.Path, &savedAt); err != nil {
			return nil, fmt.Errorf("scanning manifest row: %w", err)
		}
		e.SavedAt, _ = time.Parse(time.RFC3339Nano, savedAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
