// Package index mirrors notes into a SQLite database for searching.
package index

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "modernc.org/sqlite"
)

// Database is the SQLite database handle.
type Database struct {
	db *sql.DB
}

var (
	// ErrOverwriteAttempt indicates a note with the same filename and
	// timestamp is already stored.
	ErrOverwriteAttempt = errors.New("note already stored with this filename and timestamp")
	// ErrIndexLocked indicates another process holds the index lock.
	ErrIndexLocked = errors.New("index is locked by another process")
)

// Open opens or creates the database at path, creating parent directories
// as needed.
func Open(path string) (*Database, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	d := &Database{db: db}
	if err := d.initialize(true); err != nil {
		db.Close()
		return nil, err
	}

	return d, nil
}

// OpenInMemory opens an in-memory database (for testing).
func OpenInMemory() (*Database, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}
	// Each connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	d := &Database{db: db}
	if err := d.initialize(false); err != nil {
		db.Close()
		return nil, err
	}

	return d, nil
}

// Close closes the database.
func (d *Database) Close() error {
	return d.db.Close()
}

// CurrentDBVersion is the current database schema version.
const CurrentDBVersion = 1

const schema = `
	-- Metadata table for version tracking
	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	-- One row per stored revision of a note file
	CREATE TABLE IF NOT EXISTS notes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		filename TEXT NOT NULL,
		timestamp INTEGER NOT NULL,     -- file mtime, Unix nanoseconds
		body TEXT NOT NULL,
		UNIQUE (filename, timestamp)
	);

	CREATE TABLE IF NOT EXISTS keywords (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		note_id INTEGER NOT NULL REFERENCES notes(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS present (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		note_id INTEGER NOT NULL REFERENCES notes(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS speakers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		note_id INTEGER NOT NULL REFERENCES notes(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_notes_timestamp ON notes(timestamp);
	CREATE INDEX IF NOT EXISTS idx_keywords_name ON keywords(name);
	CREATE INDEX IF NOT EXISTS idx_keywords_note ON keywords(note_id);
	CREATE INDEX IF NOT EXISTS idx_present_name ON present(name);
	CREATE INDEX IF NOT EXISTS idx_present_note ON present(note_id);
	CREATE INDEX IF NOT EXISTS idx_speakers_name ON speakers(name);
	CREATE INDEX IF NOT EXISTS idx_speakers_note ON speakers(note_id);
`

// initialize creates the database schema.
func (d *Database) initialize(onDisk bool) error {
	pragmas := "PRAGMA foreign_keys = ON;"
	if onDisk {
		pragmas += `
			PRAGMA journal_mode = WAL;
			PRAGMA synchronous = NORMAL;`
	}
	if _, err := d.db.Exec(pragmas); err != nil {
		return fmt.Errorf("failed to configure database: %w", err)
	}

	if _, err := d.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize database schema: %w", err)
	}

	_, err := d.db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('version', ?)`,
		strconv.Itoa(CurrentDBVersion))
	if err != nil {
		return fmt.Errorf("failed to set database version: %w", err)
	}

	return nil
}

// IndexStats contains index statistics.
type IndexStats struct {
	NoteCount    int `json:"notes"`
	FileCount    int `json:"files"`
	KeywordCount int `json:"keywords"`
	PresentCount int `json:"present"`
	SpeakerCount int `json:"speakers"`
}

// Stats returns row counts for every table.
func (d *Database) Stats() (*IndexStats, error) {
	var stats IndexStats

	counts := []struct {
		query string
		dest  *int
	}{
		{"SELECT COUNT(*) FROM notes", &stats.NoteCount},
		{"SELECT COUNT(DISTINCT filename) FROM notes", &stats.FileCount},
		{"SELECT COUNT(*) FROM keywords", &stats.KeywordCount},
		{"SELECT COUNT(*) FROM present", &stats.PresentCount},
		{"SELECT COUNT(*) FROM speakers", &stats.SpeakerCount},
	}
	for _, c := range counts {
		if err := d.db.QueryRow(c.query).Scan(c.dest); err != nil {
			return nil, err
		}
	}

	return &stats, nil
}
