// Package watcher stores note files once they stop changing.
//
// Change events only mark a file as pending. A sweep loop stores files whose
// last change is older than the quiet period, so an editor saving every few
// seconds produces one index row rather than dozens.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/aidanlsb/noted/internal/index"
	"github.com/aidanlsb/noted/internal/syncer"
	"github.com/aidanlsb/noted/internal/vault"
)

const (
	// DefaultQuietPeriod is how long a file must go unchanged before it is
	// stored.
	DefaultQuietPeriod = 5 * time.Minute
	// DefaultSweepInterval is how often pending files are checked.
	DefaultSweepInterval = time.Second
)

// Engine is the synchronization engine the watcher drives.
type Engine interface {
	NotesPath() string
	IsNote(name string) bool
	Scan(ctx context.Context) (syncer.ScanResult, error)
	SyncOne(path string) (index.AddResult, error)
}

// Store answers whether a file revision is already indexed.
type Store interface {
	AlreadyStored(filename string, ts time.Time) (bool, error)
}

// Config holds configuration options for the Watcher.
type Config struct {
	Engine        Engine
	Store         Store
	Extension     string
	QuietPeriod   time.Duration // Default: 5m
	SweepInterval time.Duration // Default: 1s
	Logger        *slog.Logger
	Now           func() time.Time
	OnStore       func(path string, res index.AddResult) // Optional callback
}

// Watcher monitors the notes directory and stores files once quiet.
type Watcher struct {
	engine        Engine
	store         Store
	ext           string
	quietPeriod   time.Duration
	sweepInterval time.Duration
	logger        *slog.Logger
	now           func() time.Time
	onStore       func(path string, res index.AddResult)

	pending *Table
}

// New creates a new Watcher with the given configuration.
func New(cfg Config) (*Watcher, error) {
	if cfg.Engine == nil {
		return nil, errors.New("engine is required")
	}
	if cfg.Store == nil {
		return nil, errors.New("store is required")
	}

	w := &Watcher{
		engine:        cfg.Engine,
		store:         cfg.Store,
		ext:           strings.ToLower(cfg.Extension),
		quietPeriod:   cfg.QuietPeriod,
		sweepInterval: cfg.SweepInterval,
		logger:        cfg.Logger,
		now:           cfg.Now,
		onStore:       cfg.OnStore,
		pending:       NewTable(),
	}
	if w.ext == "" {
		w.ext = vault.DefaultExtension
	}
	if w.quietPeriod <= 0 {
		w.quietPeriod = DefaultQuietPeriod
	}
	if w.sweepInterval <= 0 {
		w.sweepInterval = DefaultSweepInterval
	}
	if w.logger == nil {
		w.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if w.now == nil {
		w.now = time.Now
	}
	return w, nil
}

// QuietPeriod returns how long a file must be unchanged before it is
// stored.
func (w *Watcher) QuietPeriod() time.Duration {
	return w.quietPeriod
}

// Pending returns the table of files waiting to be stored.
func (w *Watcher) Pending() *Table {
	return w.pending
}

// Run scans the notes directory once, then watches it until ctx is
// cancelled, then runs one final scan so that edits still inside the quiet
// period are not lost.
//
// A failed startup scan is returned before anything is watched. A pending
// file that cannot be read when its quiet period ends is fatal: Run stops
// and returns a *vault.UnreadableFileError without the final scan.
func (w *Watcher) Run(ctx context.Context) error {
	res, err := w.engine.Scan(ctx)
	if err != nil {
		return fmt.Errorf("startup scan: %w", err)
	}
	w.logger.Info("startup scan", "scanned", res.Scanned, "updated", res.Updated)

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fsWatcher.Close()

	dir := w.engine.NotesPath()
	if err := fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w.logger.Info("watching notes", "dir", dir, "quiet_period", w.quietPeriod)

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()

	fatal := make(chan error, 1)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := w.sweepLoop(sweepCtx); err != nil {
			fatal <- err
		}
	}()

	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			if err := drain(fatal); err != nil {
				w.logger.Error("watcher stopped", "error", err)
				return err
			}
			return w.finalScan()

		case err := <-fatal:
			w.logger.Error("watcher stopped", "error", err)
			return err

		case event, ok := <-fsWatcher.Events:
			if !ok {
				stopSweep()
				wg.Wait()
				if err := drain(fatal); err != nil {
					w.logger.Error("watcher stopped", "error", err)
					return err
				}
				return w.finalScan()
			}
			w.handleEvent(event)

		case err, ok := <-fsWatcher.Errors:
			if !ok {
				continue
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

// drain returns an error the sweep loop reported after the main loop
// stopped listening, if any.
func drain(fatal <-chan error) error {
	select {
	case err := <-fatal:
		return err
	default:
		return nil
	}
}

func (w *Watcher) finalScan() error {
	w.logger.Info("running final scan", "pending", w.pending.Len())
	if _, err := w.engine.Scan(context.Background()); err != nil {
		return fmt.Errorf("final scan: %w", err)
	}
	return nil
}

// handleEvent marks the file pending. It never touches the disk or the
// index so event delivery is not held up by storage.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name
	if !strings.HasSuffix(strings.ToLower(path), w.ext) {
		return
	}

	switch {
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		w.pending.Touch(path, w.now())
		w.logger.Debug("change", "op", event.Op.String(), "file", filepath.Base(path))
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		w.pending.Drop(path)
		w.logger.Debug("gone", "op", event.Op.String(), "file", filepath.Base(path))
	}
}

func (w *Watcher) sweepLoop(ctx context.Context) error {
	ticker := time.NewTicker(w.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := w.sweep(); err != nil {
				return err
			}
		}
	}
}

// sweep stores every pending file that has been quiet for longer than the
// quiet period. Only unrecoverable errors are returned.
func (w *Watcher) sweep() error {
	cutoff := w.now().Add(-w.quietPeriod)

	for _, entry := range w.pending.OlderThan(cutoff) {
		name := filepath.Base(entry.Path)

		if !w.engine.IsNote(name) {
			w.logger.Debug("ignoring non-note file", "file", name)
			w.pending.DropIfUnchanged(entry.Path, entry.LastSeen)
			continue
		}

		info, err := os.Stat(entry.Path)
		if err != nil {
			return &vault.UnreadableFileError{Path: entry.Path, Err: err}
		}
		if !info.Mode().IsRegular() {
			w.logger.Debug("ignoring non-regular file", "file", name)
			w.pending.DropIfUnchanged(entry.Path, entry.LastSeen)
			continue
		}
		stored, err := w.store.AlreadyStored(name, info.ModTime())
		if err != nil {
			return fmt.Errorf("check %s: %w", name, err)
		}
		if stored {
			w.pending.DropIfUnchanged(entry.Path, entry.LastSeen)
			continue
		}

		res, err := w.engine.SyncOne(entry.Path)
		if err != nil {
			return err
		}
		w.pending.DropIfUnchanged(entry.Path, entry.LastSeen)
		if res.Status == index.Stored {
			w.logger.Info("stored note", "file", name, "id", res.ID)
		}
		if w.onStore != nil {
			w.onStore(entry.Path, res)
		}
	}
	return nil
}
