// Package syncer reconciles a notes directory with the index.
//
// Staleness is decided by modification time alone: a file is re-read when
// the index has no row for its name, or when its mtime is newer than the
// latest stored timestamp for that name.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aidanlsb/noted/internal/index"
	"github.com/aidanlsb/noted/internal/note"
	"github.com/aidanlsb/noted/internal/vault"
)

var (
	// ErrInvalidDirectory is returned when the notes directory is missing
	// or is not a directory.
	ErrInvalidDirectory = errors.New("notes path is not a directory")
	// ErrNotNote is returned by SyncOne for files that are not notes.
	ErrNotNote = errors.New("not a note file")
)

// Store is the part of the index the engine writes through.
type Store interface {
	Timestamps() (map[string]time.Time, error)
	AddNote(n *note.Note) (index.AddResult, error)
}

// Journal records each AddNote outcome, for example to an audit log.
type Journal interface {
	Record(file string, revision time.Time, res index.AddResult) error
}

// Config configures an Engine. Excluded lists filename prefixes that are
// never notes. Journal is optional.
type Config struct {
	Store     Store
	NotesPath string
	Excluded  []string
	Extension string
	Journal   Journal
	Logger    *slog.Logger
}

// Engine runs scans and single-file syncs.
type Engine struct {
	store     Store
	notesPath string
	excluded  []string
	ext       string
	journal   Journal
	logger    *slog.Logger
}

// ScanResult summarizes a completed scan.
type ScanResult struct {
	Scanned  int           `json:"scanned"`
	Updated  int           `json:"updated"`
	Skipped  int           `json:"skipped"`
	Duration time.Duration `json:"duration"`
}

// New creates an Engine.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	ext := cfg.Extension
	if ext == "" {
		ext = vault.DefaultExtension
	}
	return &Engine{
		store:     cfg.Store,
		notesPath: cfg.NotesPath,
		excluded:  cfg.Excluded,
		ext:       ext,
		journal:   cfg.Journal,
		logger:    logger,
	}
}

// NotesPath returns the directory the engine reconciles.
func (e *Engine) NotesPath() string {
	return e.notesPath
}

// IsNote reports whether name is a note under the engine's naming rules.
func (e *Engine) IsNote(name string) bool {
	return vault.IsNote(name, e.excluded, e.ext)
}

// Scan stores every note file in the notes directory that is new or newer
// than its indexed revision.
//
// A note already stored with the same timestamp is logged and skipped. Any
// unreadable file stops the scan with a *vault.UnreadableFileError; notes
// stored before that point stay stored.
func (e *Engine) Scan(ctx context.Context) (ScanResult, error) {
	start := time.Now()
	var result ScanResult

	info, err := os.Stat(e.notesPath)
	if err != nil || !info.IsDir() {
		return result, fmt.Errorf("%w: %s", ErrInvalidDirectory, e.notesPath)
	}

	indexed, err := e.store.Timestamps()
	if err != nil {
		return result, fmt.Errorf("load indexed timestamps: %w", err)
	}

	paths, err := vault.ListNotes(e.notesPath, e.excluded, e.ext)
	if err != nil {
		return result, err
	}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Scanned++

		stale, err := isStale(path, indexed)
		if err != nil {
			return result, err
		}
		if !stale {
			continue
		}

		res, err := e.storeFile(path)
		if err != nil {
			return result, err
		}
		switch res.Status {
		case index.Stored:
			result.Updated++
		case index.AlreadyPresent:
			result.Skipped++
		}
	}

	result.Duration = time.Since(start)
	e.logger.Info("scan complete",
		"dir", e.notesPath,
		"scanned", result.Scanned,
		"updated", result.Updated,
		"skipped", result.Skipped,
		"duration", result.Duration)
	return result, nil
}

func isStale(path string, indexed map[string]time.Time) (bool, error) {
	last, ok := indexed[filepath.Base(path)]
	if !ok {
		return true, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return false, &vault.UnreadableFileError{Path: path, Err: err}
	}
	return info.ModTime().After(last), nil
}

// SyncOne stores the note at path if its current revision is not yet
// indexed.
func (e *Engine) SyncOne(path string) (index.AddResult, error) {
	if !e.IsNote(path) {
		return index.AddResult{}, fmt.Errorf("%w: %s", ErrNotNote, path)
	}
	return e.storeFile(path)
}

func (e *Engine) storeFile(path string) (index.AddResult, error) {
	n, err := vault.LoadNote(path)
	if err != nil {
		return index.AddResult{}, err
	}

	res, err := e.store.AddNote(n)
	if err != nil {
		return res, fmt.Errorf("store %s: %w", n.Filename, err)
	}

	switch res.Status {
	case index.Stored:
		e.logger.Debug("stored note", "file", n.Filename, "id", res.ID, "timestamp", n.Timestamp)
	case index.AlreadyPresent:
		e.logger.Warn("note already stored", "file", n.Filename, "timestamp", n.Timestamp, "error", res.Err())
	}
	if e.journal != nil {
		if err := e.journal.Record(n.Filename, n.Timestamp, res); err != nil {
			e.logger.Warn("audit write failed", "file", n.Filename, "error", err)
		}
	}
	return res, nil
}
