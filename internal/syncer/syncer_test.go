package syncer

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/aidanlsb/noted/internal/index"
	"github.com/aidanlsb/noted/internal/testutil"
	"github.com/aidanlsb/noted/internal/vault"
)

func newEngine(t *testing.T, dir string) (*Engine, *index.Database) {
	t.Helper()
	db, err := index.OpenInMemory()
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return New(Config{
		Store:     db,
		NotesPath: dir,
		Excluded:  []string{"crap"},
		Extension: ".md",
	}), db
}

func TestScan(t *testing.T) {
	ctx := context.Background()
	mtime := time.Date(2022, time.February, 1, 9, 0, 0, 0, time.UTC)

	t.Run("stores new notes and is idempotent", func(t *testing.T) {
		dir := testutil.NewNotesDir(t).
			WithFileAt("bob-20220201.md", testutil.SimpleNote("Bob", "budget"), mtime).
			WithFileAt("ann-20220202.md", testutil.SimpleNote("Ann"), mtime).
			WithFile("notes.txt", "not a note").
			Build()
		engine, db := newEngine(t, dir.Path)

		first, err := engine.Scan(ctx)
		if err != nil {
			t.Fatalf("first scan: %v", err)
		}
		if first.Updated != 2 {
			t.Errorf("expected 2 updated, got %d", first.Updated)
		}

		second, err := engine.Scan(ctx)
		if err != nil {
			t.Fatalf("second scan: %v", err)
		}
		if second.Updated != 0 {
			t.Errorf("expected 0 updated on second scan, got %d", second.Updated)
		}

		got, err := db.SearchByKeyword("budget", true)
		if err != nil || len(got) != 1 {
			t.Errorf("expected one note with keyword budget, got %d (err %v)", len(got), err)
		}
		// Filename keywords are merged in.
		got, _ = db.SearchByKeyword("20220202", true)
		if len(got) != 1 {
			t.Errorf("expected one note with filename date keyword, got %d", len(got))
		}
	})

	t.Run("newer mtime adds a revision", func(t *testing.T) {
		dir := testutil.NewNotesDir(t).
			WithFileAt("bob.md", testutil.SimpleNote("Bob"), mtime).
			Build()
		engine, db := newEngine(t, dir.Path)

		if _, err := engine.Scan(ctx); err != nil {
			t.Fatal(err)
		}
		dir.WriteFileAt("bob.md", testutil.SimpleNote("Bob v2"), mtime.Add(time.Minute))

		res, err := engine.Scan(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if res.Updated != 1 {
			t.Errorf("expected 1 updated, got %d", res.Updated)
		}
		if count, _ := db.Count(); count != 2 {
			t.Errorf("expected 2 revisions, got %d", count)
		}

		all, _ := db.FindAll()
		if len(all) == 0 || all[0].Title != "Bob v2" {
			t.Errorf("expected newest revision first, got %+v", all)
		}
	})

	t.Run("older mtime is ignored", func(t *testing.T) {
		dir := testutil.NewNotesDir(t).
			WithFileAt("bob.md", testutil.SimpleNote("Bob"), mtime).
			Build()
		engine, _ := newEngine(t, dir.Path)

		if _, err := engine.Scan(ctx); err != nil {
			t.Fatal(err)
		}
		dir.Touch("bob.md", mtime.Add(-time.Hour))

		res, err := engine.Scan(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if res.Updated != 0 {
			t.Errorf("expected 0 updated, got %d", res.Updated)
		}
	})

	t.Run("excluded and editor files are never stored", func(t *testing.T) {
		dir := testutil.NewNotesDir(t).
			WithFile("crap-notes.md", testutil.SimpleNote("scratch")).
			WithFile(".#bob.md", "lock").
			WithFile("bob.md~", "backup").
			Build()
		engine, db := newEngine(t, dir.Path)

		res, err := engine.Scan(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if res.Updated != 0 {
			t.Errorf("expected 0 updated, got %d", res.Updated)
		}
		if count, _ := db.Count(); count != 0 {
			t.Errorf("expected empty index, got %d notes", count)
		}
	})

	t.Run("invalid directory", func(t *testing.T) {
		dir := testutil.NewNotesDir(t).WithFile("file.md", "x").Build()

		for _, path := range []string{dir.Join("missing"), dir.Join("file.md")} {
			engine, _ := newEngine(t, path)
			if _, err := engine.Scan(ctx); !errors.Is(err, ErrInvalidDirectory) {
				t.Errorf("Scan(%s): expected ErrInvalidDirectory, got %v", path, err)
			}
		}
	})

	t.Run("unreadable file aborts", func(t *testing.T) {
		dir := testutil.NewNotesDir(t).
			WithFile("a.md", testutil.SimpleNote("A")).
			Build()
		if err := os.Mkdir(dir.Join("x.md"), 0o755); err != nil {
			t.Fatal(err)
		}
		engine, _ := newEngine(t, dir.Path)

		_, err := engine.Scan(ctx)
		var unreadable *vault.UnreadableFileError
		if !errors.As(err, &unreadable) {
			t.Fatalf("expected UnreadableFileError, got %v", err)
		}
	})

	t.Run("canceled context stops the scan", func(t *testing.T) {
		dir := testutil.NewNotesDir(t).WithFile("a.md", testutil.SimpleNote("A")).Build()
		engine, _ := newEngine(t, dir.Path)

		cctx, cancel := context.WithCancel(ctx)
		cancel()
		if _, err := engine.Scan(cctx); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestSyncOne(t *testing.T) {
	dir := testutil.NewNotesDir(t).
		WithFile("bob.md", testutil.SimpleNote("Bob")).
		WithFile("crap-x.md", testutil.SimpleNote("x")).
		Build()
	engine, _ := newEngine(t, dir.Path)

	res, err := engine.SyncOne(dir.Join("bob.md"))
	if err != nil {
		t.Fatalf("SyncOne: %v", err)
	}
	if res.Status != index.Stored {
		t.Errorf("expected Stored, got %v", res.Status)
	}

	res, err = engine.SyncOne(dir.Join("bob.md"))
	if err != nil {
		t.Fatalf("second SyncOne: %v", err)
	}
	if res.Status != index.AlreadyPresent {
		t.Errorf("expected AlreadyPresent, got %v", res.Status)
	}

	if _, err := engine.SyncOne(dir.Join("crap-x.md")); !errors.Is(err, ErrNotNote) {
		t.Errorf("expected ErrNotNote, got %v", err)
	}
}

type recordingJournal struct {
	entries []string
}

func (j *recordingJournal) Record(file string, revision time.Time, res index.AddResult) error {
	j.entries = append(j.entries, file+":"+res.Status.String())
	return nil
}

func TestJournal(t *testing.T) {
	dir := testutil.NewNotesDir(t).
		WithFile("bob.md", testutil.SimpleNote("Bob")).
		Build()
	db, err := index.OpenInMemory()
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	journal := &recordingJournal{}
	engine := New(Config{Store: db, NotesPath: dir.Path, Journal: journal})

	if _, err := engine.Scan(context.Background()); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if _, err := engine.SyncOne(dir.Join("bob.md")); err != nil {
		t.Fatalf("SyncOne: %v", err)
	}

	want := []string{"bob.md:stored", "bob.md:already present"}
	if len(journal.entries) != 2 || journal.entries[0] != want[0] || journal.entries[1] != want[1] {
		t.Errorf("journal = %v, want %v", journal.entries, want)
	}
}
