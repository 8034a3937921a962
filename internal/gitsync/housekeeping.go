package gitsync

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// DetritusPatterns returns the globs for editor backups (*.*~), lock files
// (.#*) and scratch files named after each excluded stem.
func DetritusPatterns(excluded []string) []string {
	patterns := []string{"*.*~", ".#*"}
	for _, stem := range excluded {
		if stem != "" {
			patterns = append(patterns, stem+"*.*")
		}
	}
	return patterns
}

// PurgeDetritus deletes regular files directly inside dir matching any of
// patterns and returns how many were removed.
func PurgeDetritus(dir string, patterns []string, logger *slog.Logger) (int, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	removed := 0
	fsys := os.DirFS(dir)
	for _, pattern := range patterns {
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return removed, fmt.Errorf("glob %q: %w", pattern, err)
		}
		count := 0
		for _, m := range matches {
			path := filepath.Join(dir, m)
			info, err := os.Lstat(path)
			if err != nil || info.IsDir() {
				continue
			}
			if err := os.Remove(path); err != nil {
				return removed, fmt.Errorf("remove %s: %w", m, err)
			}
			count++
		}
		if count > 0 {
			logger.Info("removed files", "count", count, "pattern", pattern)
		}
		removed += count
	}
	return removed, nil
}

// CommitNotes stages every note file and commits them with a timestamped
// message. It reports whether a commit was made.
func CommitNotes(c *Client, ext string, now time.Time) (bool, error) {
	if !c.IsRepository() {
		return false, fmt.Errorf("%w: %s", ErrNotRepository, c.WorkDir)
	}
	if ext == "" {
		ext = ".md"
	}

	if err := c.Add("*" + ext); err != nil {
		return false, err
	}
	staged, err := c.StagedChanges()
	if err != nil {
		return false, err
	}
	if !staged {
		return false, nil
	}
	if err := c.Commit("Update: " + now.Format(time.RFC3339)); err != nil {
		return false, err
	}
	return true, nil
}

// Options configures Housekeeping.
type Options struct {
	NotesPath string
	Extension string
	Excluded  []string
	Purge     bool
	Commit    bool
	Logger    *slog.Logger
	Now       func() time.Time
}

// Housekeeping purges detritus and commits, as enabled in opts. Failures are
// logged and never returned: shutdown should not be blocked by git.
func Housekeeping(opts Options) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	if opts.Purge {
		if _, err := PurgeDetritus(opts.NotesPath, DetritusPatterns(opts.Excluded), logger); err != nil {
			logger.Error("purge failed", "error", err)
		}
	}

	if opts.Commit {
		committed, err := CommitNotes(NewClient(opts.NotesPath, logger), opts.Extension, now())
		switch {
		case err != nil:
			logger.Error("git commit failed", "error", err)
		case committed:
			logger.Info("committed notes", "dir", opts.NotesPath)
		default:
			logger.Info("no note changes to commit")
		}
	}
}
