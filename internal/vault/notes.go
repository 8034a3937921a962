// Package vault reads and writes note files in the notes directory.
package vault

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aidanlsb/noted/internal/atomicfile"
	"github.com/aidanlsb/noted/internal/filemeta"
	"github.com/aidanlsb/noted/internal/note"
	"github.com/aidanlsb/noted/internal/parser"
)

// DefaultExtension is the note file extension used when none is configured.
const DefaultExtension = ".md"

// ErrNoteExists is returned by WriteNote when the target file exists.
var ErrNoteExists = errors.New("note file already exists")

// UnreadableFileError reports a note file that could not be read.
type UnreadableFileError struct {
	Path string
	Err  error
}

func (e *UnreadableFileError) Error() string {
	return fmt.Sprintf("unreadable note file %s: %v", e.Path, e.Err)
}

func (e *UnreadableFileError) Unwrap() error {
	return e.Err
}

// IsNote reports whether name is a note file: it has extension ext, and is
// not an editor lock or backup file or a name starting with an excluded
// stem. The comparison is case insensitive.
func IsNote(name string, excluded []string, ext string) bool {
	if ext == "" {
		ext = DefaultExtension
	}
	base := strings.ToLower(filepath.Base(name))

	if !strings.HasSuffix(base, strings.ToLower(ext)) {
		return false
	}
	if strings.HasPrefix(base, "#") || strings.HasPrefix(base, ".#") || strings.HasSuffix(base, "~") {
		return false
	}
	for _, stem := range excluded {
		if stem != "" && strings.HasPrefix(base, strings.ToLower(stem)) {
			return false
		}
	}
	return true
}

// ListNotes returns the paths of the note files directly inside dir, sorted
// by name. Subdirectories are neither searched nor returned, even when
// their names end in ext.
func ListNotes(dir string, excluded []string, ext string) ([]string, error) {
	if ext == "" {
		ext = DefaultExtension
	}

	matches, err := doublestar.Glob(os.DirFS(dir), "*"+ext, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("list notes in %s: %w", dir, err)
	}
	sort.Strings(matches)

	var paths []string
	for _, m := range matches {
		if IsNote(m, excluded, ext) {
			paths = append(paths, filepath.Join(dir, m))
		}
	}
	return paths, nil
}

// LoadNote reads and decodes the note at path. Keywords derived from the
// filename are merged in, and the timestamp is the file's mtime.
func LoadNote(path string) (*note.Note, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &UnreadableFileError{Path: path, Err: err}
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &UnreadableFileError{Path: path, Err: err}
	}

	meta := filemeta.Extract(path, info.ModTime())

	n := parser.Decode(string(content))
	n.Filename = filepath.Base(path)
	n.Date = meta.Date
	n.Timestamp = meta.Timestamp
	n.MergeKeywords(meta.Keywords...)
	return n, nil
}

// WriteNote writes n in canonical form to dir/n.Filename and returns the
// path. An existing file is only replaced when force is set.
func WriteNote(dir string, n *note.Note, force bool) (string, error) {
	if n.Filename == "" {
		return "", errors.New("note has no filename")
	}
	path := filepath.Join(dir, filepath.Base(n.Filename))

	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("%w: %s", ErrNoteExists, path)
		}
	}

	if err := atomicfile.WriteFile(path, []byte(parser.Encode(n)), 0); err != nil {
		return "", fmt.Errorf("failed to write note: %w", err)
	}
	return path, nil
}
