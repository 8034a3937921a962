package watcher

import (
	"sort"
	"sync"
	"time"
)

// Table tracks files with unsaved changes: path to the instant the latest
// change event was seen. It is safe for concurrent use; the lock is held
// only for map access.
type Table struct {
	mu      sync.Mutex
	entries map[string]time.Time
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{entries: make(map[string]time.Time)}
}

// Touch records a change to path at the given instant, replacing any
// earlier record.
func (t *Table) Touch(path string, at time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[path] = at
}

// Drop forgets path.
func (t *Table) Drop(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, path)
}

// DropIfUnchanged forgets path only if it was last seen at seen. It reports
// whether the entry was removed. A change recorded after seen keeps the
// entry pending.
func (t *Table) DropIfUnchanged(path string, seen time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if cur, ok := t.entries[path]; ok && cur.Equal(seen) {
		delete(t.entries, path)
		return true
	}
	return false
}

// Timestamp returns when path was last seen.
func (t *Table) Timestamp(path string) (time.Time, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	at, ok := t.entries[path]
	return at, ok
}

// Len returns the number of pending paths.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// Names returns the pending paths, sorted.
func (t *Table) Names() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	names := make([]string, 0, len(t.entries))
	for name := range t.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Entry is a pending path and when it was last seen.
type Entry struct {
	Path     string
	LastSeen time.Time
}

// OlderThan returns the entries last seen before cutoff, oldest first.
func (t *Table) OlderThan(cutoff time.Time) []Entry {
	t.mu.Lock()
	var out []Entry
	for path, at := range t.entries {
		if at.Before(cutoff) {
			out = append(out, Entry{Path: path, LastSeen: at})
		}
	}
	t.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].LastSeen.Equal(out[j].LastSeen) {
			return out[i].Path < out[j].Path
		}
		return out[i].LastSeen.Before(out[j].LastSeen)
	})
	return out
}
