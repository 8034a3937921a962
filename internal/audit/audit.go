// Package audit keeps an append-only journal of index writes.
//
// Each line of the journal is one JSON object. The journal is only
// informational: the index is the source of truth for what is stored.
package audit

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aidanlsb/noted/internal/index"
)

// Operations recorded in the journal.
const (
	OpStore  = "store"
	OpSkip   = "skip"
	OpCreate = "create"
)

// Entry is one journal line.
type Entry struct {
	Timestamp time.Time `json:"ts"`
	Operation string    `json:"op"`
	File      string    `json:"file"`
	Revision  time.Time `json:"revision"` // file mtime of the stored revision
	ID        int64     `json:"id,omitempty"`
}

// Logger appends entries to a journal file. A disabled Logger is a no-op,
// and a nil *Logger is disabled.
type Logger struct {
	path    string
	enabled bool
	mu      sync.Mutex
}

// New creates a journal at path.
func New(path string, enabled bool) *Logger {
	return &Logger{path: path, enabled: enabled && path != ""}
}

// DefaultPath places the journal next to the index database.
func DefaultPath(dbPath string) string {
	return filepath.Join(filepath.Dir(dbPath), "audit.log")
}

func (l *Logger) Enabled() bool {
	return l != nil && l.enabled
}

func (l *Logger) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Log appends entry, stamping it with the current time if unset.
func (l *Logger) Log(entry Entry) error {
	if !l.Enabled() {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal audit entry: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("failed to create audit directory: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write audit entry: %w", err)
	}
	return nil
}

// Record logs the outcome of storing one note revision.
func (l *Logger) Record(file string, revision time.Time, res index.AddResult) error {
	op := OpStore
	if res.Status == index.AlreadyPresent {
		op = OpSkip
	}
	return l.Log(Entry{Operation: op, File: file, Revision: revision, ID: res.ID})
}

// LogCreate logs a note file written by noted itself.
func (l *Logger) LogCreate(file string) error {
	return l.Log(Entry{Operation: OpCreate, File: file})
}

// Read returns every entry in file order. Malformed lines are skipped and a
// missing journal is empty.
func (l *Logger) Read() ([]Entry, error) {
	if l == nil || l.path == "" {
		return nil, nil
	}

	f, err := os.Open(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read audit log: %w", err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read audit log: %w", err)
	}
	return entries, nil
}

// ReadSince returns entries logged at or after since.
func (l *Logger) ReadSince(since time.Time) ([]Entry, error) {
	all, err := l.Read()
	if err != nil {
		return nil, err
	}

	var filtered []Entry
	for _, entry := range all {
		if !entry.Timestamp.Before(since) {
			filtered = append(filtered, entry)
		}
	}
	return filtered, nil
}
