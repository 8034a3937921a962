package gitsync

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/aidanlsb/noted/internal/testutil"
)

func TestDetritusPatterns(t *testing.T) {
	got := DetritusPatterns([]string{"crap", ""})
	want := []string{"*.*~", ".#*", "crap*.*"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("patterns mismatch (-want +got):\n%s", diff)
	}
}

func TestPurgeDetritus(t *testing.T) {
	dir := testutil.NewNotesDir(t).
		WithFile("bob.md", "# keep").
		WithFile("bob.md~", "backup").
		WithFile(".#bob.md", "lock").
		WithFile("crap-scratch.md", "scratch").
		WithFile("crapdir/inner.md", "kept: directories are skipped").
		Build()

	removed, err := PurgeDetritus(dir.Path, DetritusPatterns([]string{"crap"}), nil)
	if err != nil {
		t.Fatalf("PurgeDetritus: %v", err)
	}
	if removed != 3 {
		t.Errorf("removed %d files, want 3", removed)
	}
	dir.AssertFileExists("bob.md")
	dir.AssertFileExists("crapdir/inner.md")
	dir.AssertFileNotExists("bob.md~")
	dir.AssertFileNotExists(".#bob.md")
	dir.AssertFileNotExists("crap-scratch.md")
}

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

func initRepo(t *testing.T, dir string) *Client {
	t.Helper()
	c := NewClient(dir, nil)
	for _, args := range [][]string{
		{"init", "-q"},
		{"config", "user.email", "test@example.com"},
		{"config", "user.name", "Test"},
		{"config", "commit.gpgsign", "false"},
	} {
		if _, err := c.Run(args...); err != nil {
			t.Fatalf("git %v: %v", args, err)
		}
	}
	return c
}

func TestCommitNotes(t *testing.T) {
	requireGit(t)
	now := time.Date(2022, time.February, 1, 9, 0, 0, 0, time.UTC)

	t.Run("not a repository", func(t *testing.T) {
		c := NewClient(t.TempDir(), nil)
		if _, err := CommitNotes(c, ".md", now); !errors.Is(err, ErrNotRepository) {
			t.Errorf("expected ErrNotRepository, got %v", err)
		}
	})

	t.Run("commits notes only", func(t *testing.T) {
		dir := testutil.NewNotesDir(t).
			WithFile("bob.md", "# Bob").
			WithFile("other.txt", "ignored").
			Build()
		c := initRepo(t, dir.Path)

		committed, err := CommitNotes(c, ".md", now)
		if err != nil {
			t.Fatalf("CommitNotes: %v", err)
		}
		if !committed {
			t.Fatal("expected a commit")
		}

		files, err := c.Run("ls-files")
		if err != nil {
			t.Fatal(err)
		}
		if files != "bob.md" {
			t.Errorf("tracked files = %q, want bob.md", files)
		}
		msg, _ := c.Run("log", "-1", "--format=%s")
		if msg != "Update: 2022-02-01T09:00:00Z" {
			t.Errorf("commit message = %q", msg)
		}

		committed, err = CommitNotes(c, ".md", now)
		if err != nil || committed {
			t.Errorf("expected no second commit, got %v (err %v)", committed, err)
		}
	})
}

func TestHousekeeping(t *testing.T) {
	dir := testutil.NewNotesDir(t).WithFile("bob.md~", "backup").Build()

	// Commit is requested but the directory is not a repository: the
	// failure is logged, not returned, and purging still happens.
	Housekeeping(Options{
		NotesPath: dir.Path,
		Excluded:  []string{"crap"},
		Purge:     true,
		Commit:    true,
	})

	if _, err := os.Stat(filepath.Join(dir.Path, "bob.md~")); !os.IsNotExist(err) {
		t.Errorf("expected backup purged, stat err = %v", err)
	}
}
