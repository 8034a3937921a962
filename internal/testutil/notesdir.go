// Package testutil provides reusable test utilities for noted tests.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// NotesDir represents a temporary notes directory for testing.
type NotesDir struct {
	Path   string
	t      *testing.T
	files  map[string]string
	mtimes map[string]time.Time
}

// NewNotesDir creates a new notes directory builder.
// Call Build() to create the actual directory.
func NewNotesDir(t *testing.T) *NotesDir {
	t.Helper()
	return &NotesDir{
		t:      t,
		files:  make(map[string]string),
		mtimes: make(map[string]time.Time),
	}
}

// WithFile adds a file relative to the directory root.
func (d *NotesDir) WithFile(name, content string) *NotesDir {
	d.files[name] = content
	return d
}

// WithFileAt adds a file with a fixed modification time.
func (d *NotesDir) WithFileAt(name, content string, mtime time.Time) *NotesDir {
	d.files[name] = content
	d.mtimes[name] = mtime
	return d
}

// Build creates the directory and all configured files.
func (d *NotesDir) Build() *NotesDir {
	d.t.Helper()
	d.Path = d.t.TempDir()

	for name, content := range d.files {
		if mtime, ok := d.mtimes[name]; ok {
			d.WriteFileAt(name, content, mtime)
		} else {
			d.WriteFile(name, content)
		}
	}
	return d
}

// Join returns the absolute path of name inside the directory.
func (d *NotesDir) Join(name string) string {
	return filepath.Join(d.Path, name)
}

// WriteFile writes a file, creating parent directories as needed.
func (d *NotesDir) WriteFile(name, content string) string {
	d.t.Helper()
	fullPath := d.Join(name)

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		d.t.Fatalf("failed to create directory %s: %v", dir, err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
		d.t.Fatalf("failed to write file %s: %v", fullPath, err)
	}
	return fullPath
}

// WriteFileAt writes a file and sets its modification time.
func (d *NotesDir) WriteFileAt(name, content string, mtime time.Time) string {
	d.t.Helper()
	fullPath := d.WriteFile(name, content)
	d.Touch(name, mtime)
	return fullPath
}

// Touch sets the modification time of an existing file.
func (d *NotesDir) Touch(name string, mtime time.Time) {
	d.t.Helper()
	if err := os.Chtimes(d.Join(name), mtime, mtime); err != nil {
		d.t.Fatalf("failed to set mtime on %s: %v", name, err)
	}
}

// ReadFile reads a file from the directory.
func (d *NotesDir) ReadFile(name string) string {
	d.t.Helper()
	content, err := os.ReadFile(d.Join(name))
	if err != nil {
		d.t.Fatalf("failed to read file %s: %v", name, err)
	}
	return string(content)
}

// FileExists checks if a file exists in the directory.
func (d *NotesDir) FileExists(name string) bool {
	d.t.Helper()
	_, err := os.Stat(d.Join(name))
	return err == nil
}

// AssertFileExists fails the test if the file does not exist.
func (d *NotesDir) AssertFileExists(name string) {
	d.t.Helper()
	if !d.FileExists(name) {
		d.t.Errorf("expected file to exist: %s", name)
	}
}

// AssertFileNotExists fails the test if the file exists.
func (d *NotesDir) AssertFileNotExists(name string) {
	d.t.Helper()
	if d.FileExists(name) {
		d.t.Errorf("expected file to not exist: %s", name)
	}
}

// SimpleNote returns note text with a title, keywords and one section.
func SimpleNote(title string, keywords ...string) string {
	s := "# " + title + "\n"
	if len(keywords) > 0 {
		s += "<? keywords: " + strings.Join(keywords, ", ") + " ?>\n"
	}
	return s + "\n## Notes\n\nSome text.\n"
}
