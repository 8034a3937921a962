package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/aidanlsb/noted/internal/testutil"
)

type envelope struct {
	OK       bool            `json:"ok"`
	Data     json.RawMessage `json:"data"`
	Error    *ErrorInfo      `json:"error"`
	Warnings []Warning       `json:"warnings"`
	Meta     *Meta           `json:"meta"`
}

// runCLI executes the command tree in-process with an isolated config file.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("NOTED_CONFIG", filepath.Join(t.TempDir(), "config.toml"))
	t.Setenv("NOTED_NOTES_PATH", "")
	t.Setenv("NOTED_DATABASE_PATH", "")
	t.Setenv("NOTED_DEBUG", "")

	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func runJSON(t *testing.T, args ...string) (envelope, error) {
	t.Helper()
	out, err := runCLI(t, append([]string{"--json"}, args...)...)
	var env envelope
	if decodeErr := json.Unmarshal([]byte(out), &env); decodeErr != nil {
		t.Fatalf("invalid JSON output %q: %v", out, decodeErr)
	}
	return env, err
}

func decodeData(t *testing.T, env envelope, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, v); err != nil {
		t.Fatalf("failed to decode data %s: %v", env.Data, err)
	}
}

func notesFixture(t *testing.T) *testutil.NotesDir {
	t.Helper()
	mtime := time.Date(2022, time.February, 1, 9, 0, 0, 0, time.Local)
	return testutil.NewNotesDir(t).
		WithFileAt("bob-20220201.md", testutil.SimpleNote("Bob", "budget"), mtime).
		WithFileAt("ann-20220202.md", "# Ann\n<? present: alice, carol ?>\n<? speakers: carol ?>\n\n## Notes\n\nhello\n", mtime.Add(time.Hour)).
		WithFile("crap-scratch.md", "# Scratch\n").
		Build()
}

func TestScanCommand(t *testing.T) {
	dir := notesFixture(t)

	env, err := runJSON(t, "--notes", dir.Path, "scan")
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	var res struct {
		Scanned int `json:"scanned"`
		Updated int `json:"updated"`
	}
	decodeData(t, env, &res)
	if !env.OK || res.Scanned != 2 || res.Updated != 2 {
		t.Fatalf("unexpected first scan: ok=%v %+v", env.OK, res)
	}

	env, err = runJSON(t, "--notes", dir.Path, "scan")
	if err != nil {
		t.Fatalf("second scan failed: %v", err)
	}
	decodeData(t, env, &res)
	if res.Updated != 0 {
		t.Errorf("expected second scan to store nothing, got %d", res.Updated)
	}

	out, err := runCLI(t, "--notes", dir.Path, "scan")
	if err != nil {
		t.Fatalf("text scan failed: %v", err)
	}
	if !strings.Contains(out, "0 updated") {
		t.Errorf("expected text summary, got %q", out)
	}
}

func TestScanCommandInvalidDirectory(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")
	env, err := runJSON(t, "--notes", missing, "--db", filepath.Join(t.TempDir(), "index.db"), "scan")
	if err == nil {
		t.Fatal("expected error for missing notes directory")
	}
	var reported *reportedError
	if !errors.As(err, &reported) {
		t.Errorf("expected JSON-reported error, got %T", err)
	}
	if env.OK || env.Error == nil || env.Error.Code != ErrInvalidDirectory {
		t.Errorf("expected %s, got %+v", ErrInvalidDirectory, env.Error)
	}
}

func TestWatchCommandInvalidDirectory(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")
	env, err := runJSON(t, "--notes", missing, "--db", filepath.Join(t.TempDir(), "index.db"), "watch")
	if err == nil {
		t.Fatal("expected watch to stop when the startup scan fails")
	}
	if env.OK || env.Error == nil || env.Error.Code != ErrInvalidDirectory {
		t.Errorf("expected %s, got %+v", ErrInvalidDirectory, env.Error)
	}
}

func TestNotesNotConfigured(t *testing.T) {
	env, err := runJSON(t, "list")
	if err == nil {
		t.Fatal("expected error without a notes directory")
	}
	if env.Error == nil || env.Error.Code != ErrNotesNotConfigured {
		t.Errorf("expected %s, got %+v", ErrNotesNotConfigured, env.Error)
	}
}

func TestSearchCommands(t *testing.T) {
	dir := notesFixture(t)
	if _, err := runCLI(t, "--notes", dir.Path, "scan"); err != nil {
		t.Fatalf("scan failed: %v", err)
	}

	tests := []struct {
		name  string
		args  []string
		files []string
	}{
		{"keyword prefix", []string{"search", "keyword", "bud"}, []string{"bob-20220201.md"}},
		{"keyword exact miss", []string{"search", "keyword", "bud", "--exact"}, nil},
		{"keyword from filename", []string{"search", "keyword", "ann", "-e"}, []string{"ann-20220202.md"}},
		{"keyword stem of path", []string{"search", "keyword", "notes/budget.md"}, []string{"bob-20220201.md"}},
		{"present", []string{"search", "present", "car"}, []string{"ann-20220202.md"}},
		{"speaker exact", []string{"search", "speaker", "carol", "--exact"}, []string{"ann-20220202.md"}},
		{"file contains", []string{"search", "file", "2022020"}, []string{"ann-20220202.md", "bob-20220201.md"}},
		{"limit", []string{"search", "file", "2022020", "-n", "1"}, []string{"ann-20220202.md"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := runJSON(t, append([]string{"--notes", dir.Path}, tt.args...)...)
			if err != nil {
				t.Fatalf("search failed: %v", err)
			}
			var data struct {
				Results []noteSummary `json:"results"`
			}
			decodeData(t, env, &data)

			var files []string
			for _, r := range data.Results {
				files = append(files, r.File)
			}
			if diff := cmp.Diff(tt.files, files); diff != "" {
				t.Errorf("results mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestListCommand(t *testing.T) {
	dir := notesFixture(t)
	if _, err := runCLI(t, "--notes", dir.Path, "scan"); err != nil {
		t.Fatalf("scan failed: %v", err)
	}

	env, err := runJSON(t, "--notes", dir.Path, "list")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	var data struct {
		Notes []noteSummary `json:"notes"`
	}
	decodeData(t, env, &data)
	if len(data.Notes) != 2 || data.Notes[0].File != "ann-20220202.md" {
		t.Fatalf("expected newest first, got %+v", data.Notes)
	}
	if data.Notes[1].Title != "Bob" || data.Notes[1].Date != "20220201" {
		t.Errorf("unexpected summary %+v", data.Notes[1])
	}

	env, err = runJSON(t, "--notes", dir.Path, "list", "--since", "2022-02-01")
	if err != nil {
		t.Fatalf("list --since failed: %v", err)
	}
	decodeData(t, env, &data)
	if len(data.Notes) != 2 {
		t.Errorf("expected both notes since 2022-02-01, got %d", len(data.Notes))
	}

	env, err = runJSON(t, "--notes", dir.Path, "list", "--since", "20300101")
	if err != nil {
		t.Fatalf("list --since failed: %v", err)
	}
	decodeData(t, env, &data)
	if len(data.Notes) != 0 {
		t.Errorf("expected no notes since 2030, got %d", len(data.Notes))
	}

	env, err = runJSON(t, "--notes", dir.Path, "list", "--since", "xyzzy")
	if err == nil || env.Error == nil || env.Error.Code != ErrInvalidInput {
		t.Errorf("expected %s, got err=%v %+v", ErrInvalidInput, err, env.Error)
	}
}

func TestSyncAndCountCommands(t *testing.T) {
	dir := notesFixture(t)

	env, err := runJSON(t, "--notes", dir.Path, "sync", "bob-20220201")
	if err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	var res syncResult
	decodeData(t, env, &res)
	if res.Status != "stored" || res.File != "bob-20220201.md" {
		t.Errorf("unexpected sync result %+v", res)
	}

	env, err = runJSON(t, "--notes", dir.Path, "sync", "bob-20220201.md")
	if err != nil {
		t.Fatalf("second sync failed: %v", err)
	}
	decodeData(t, env, &res)
	if res.Status != "already present" || len(env.Warnings) != 1 || env.Warnings[0].Code != WarnAlreadyStored {
		t.Errorf("expected already-stored warning, got %+v %+v", res, env.Warnings)
	}

	env, err = runJSON(t, "--notes", dir.Path, "sync", "crap-scratch.md")
	if err == nil || env.Error == nil || env.Error.Code != ErrNotANote {
		t.Errorf("expected %s, got err=%v %+v", ErrNotANote, err, env.Error)
	}

	env, err = runJSON(t, "--notes", dir.Path, "sync", "missing.md")
	if err == nil || env.Error == nil || env.Error.Code != ErrFileNotFound {
		t.Errorf("expected %s, got err=%v %+v", ErrFileNotFound, err, env.Error)
	}

	env, err = runJSON(t, "--notes", dir.Path, "count")
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	var stats struct {
		Notes    int `json:"notes"`
		Keywords int `json:"keywords"`
	}
	decodeData(t, env, &stats)
	// budget, bob and 20220201
	if stats.Notes != 1 || stats.Keywords != 3 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestNewCommand(t *testing.T) {
	dir := testutil.NewNotesDir(t).Build()

	env, err := runJSON(t, "--notes", dir.Path, "new", "Planning", "meeting",
		"-k", "plan;budget", "-p", "alice,bob", "--section", "Actions", "--file", "plan-20220902")
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	var res newResult
	decodeData(t, env, &res)
	if res.File != "plan-20220902.md" || res.Stored {
		t.Errorf("unexpected result %+v", res)
	}

	want := "# Planning meeting\n" +
		"<? keywords: plan, budget ?>\n" +
		"<? present: alice, bob ?>\n" +
		"\n" +
		"## Actions\n\n\n\n"
	if got := dir.ReadFile("plan-20220902.md"); got != want {
		t.Errorf("file content =\n%q\nwant\n%q", got, want)
	}

	env, err = runJSON(t, "--notes", dir.Path, "new", "Planning", "--file", "plan-20220902.md")
	if err == nil || env.Error == nil || env.Error.Code != ErrFileExists {
		t.Errorf("expected %s, got err=%v %+v", ErrFileExists, err, env.Error)
	}

	if _, err := runCLI(t, "--notes", dir.Path, "new", "Planning", "--file", "plan-20220902.md", "--force"); err != nil {
		t.Errorf("expected --force to replace the file: %v", err)
	}

	env, err = runJSON(t, "--notes", dir.Path, "new", "Scratch", "--file", "crap-1.md")
	if err == nil || env.Error == nil || env.Error.Code != ErrNotANote {
		t.Errorf("expected %s, got err=%v %+v", ErrNotANote, err, env.Error)
	}
}

func TestNewCommandDefaultFilename(t *testing.T) {
	dir := testutil.NewNotesDir(t).Build()

	env, err := runJSON(t, "--notes", dir.Path, "new", "Weekly Sync")
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	var res newResult
	decodeData(t, env, &res)
	want := "weekly-sync-" + time.Now().Format("20060102") + ".md"
	if res.File != want {
		t.Errorf("expected %s, got %s", want, res.File)
	}
	dir.AssertFileExists(want)
}

func TestShowCommand(t *testing.T) {
	dir := notesFixture(t)

	out, err := runCLI(t, "--notes", dir.Path, "show", "bob-20220201", "--format", "yaml")
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	for _, want := range []string{"file: bob-20220201.md", "title: Bob", "- budget", "heading: Notes", "data: Some text."} {
		if !strings.Contains(out, want) {
			t.Errorf("expected yaml to contain %q, got:\n%s", want, out)
		}
	}

	out, err = runCLI(t, "--notes", dir.Path, "show", "bob-20220201.md", "--html")
	if err != nil {
		t.Fatalf("show --html failed: %v", err)
	}
	if !strings.Contains(out, "<h1>Bob</h1>") || strings.Contains(out, "keywords") {
		t.Errorf("unexpected html:\n%s", out)
	}

	// Output is not a terminal, so the note is printed as is.
	out, err = runCLI(t, "--notes", dir.Path, "show", "bob-20220201.md")
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	if out != testutil.SimpleNote("Bob", "budget") {
		t.Errorf("expected raw note, got %q", out)
	}

	if _, err := runCLI(t, "--notes", dir.Path, "show", "bob-20220201.md", "--format", "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestCheckCommand(t *testing.T) {
	dir := testutil.NewNotesDir(t).
		WithFile("good.md", testutil.SimpleNote("Good")).
		WithFile("bad.md", "# One\n\n## A\n\nx\n\n## A\n\ny\n<? keywords: late ?>\n").
		Build()

	env, err := runJSON(t, "--notes", dir.Path, "check")
	if err == nil {
		t.Fatal("expected check to fail when issues are found")
	}
	if env.OK || env.Error == nil || env.Error.Code != ErrValidationFailed {
		t.Errorf("expected %s, got %+v", ErrValidationFailed, env.Error)
	}
	if len(env.Warnings) != 2 {
		t.Fatalf("expected 2 issues, got %+v", env.Warnings)
	}
	for _, w := range env.Warnings {
		if w.File != "bad.md" {
			t.Errorf("unexpected issue in %s: %s", w.File, w.Message)
		}
	}

	if _, err := runCLI(t, "--notes", dir.Path, "check", "good.md"); err != nil {
		t.Errorf("expected good.md to pass: %v", err)
	}
}

func TestConfigCommands(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "noted", "config.toml")

	if _, err := runCLI(t, "--config", configPath, "config", "set", "quiet_period", "2m"); err != nil {
		t.Fatalf("config set failed: %v", err)
	}
	if _, err := runCLI(t, "--config", configPath, "config", "set", "excluded_stems", "crap, scratch"); err != nil {
		t.Fatalf("config set failed: %v", err)
	}

	env, err := runJSON(t, "--config", configPath, "config", "show")
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	var data struct {
		Exists        bool     `json:"exists"`
		QuietPeriod   string   `json:"quiet_period"`
		ExcludedStems []string `json:"excluded_stems"`
	}
	decodeData(t, env, &data)
	if !data.Exists || data.QuietPeriod != "2m0s" {
		t.Errorf("unexpected config %+v", data)
	}
	if diff := cmp.Diff([]string{"crap", "scratch"}, data.ExcludedStems); diff != "" {
		t.Errorf("excluded stems mismatch (-want +got):\n%s", diff)
	}

	env, err = runJSON(t, "--config", configPath, "config", "set", "bogus", "1")
	if err == nil || env.Error == nil || env.Error.Code != ErrInvalidInput {
		t.Errorf("expected %s for unknown key, got err=%v %+v", ErrInvalidInput, err, env.Error)
	}

	env, err = runJSON(t, "--config", configPath, "config", "init")
	if err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	var initRes struct {
		Created bool `json:"created"`
	}
	decodeData(t, env, &initRes)
	if initRes.Created {
		t.Error("expected init to keep the existing file")
	}
}

func TestVersionCommand(t *testing.T) {
	env, err := runJSON(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	var info versionInfo
	decodeData(t, env, &info)
	if info.Version == "" || info.GoVersion == "" || info.Platform == "" {
		t.Errorf("incomplete version info %+v", info)
	}
}

func TestHistoryCommand(t *testing.T) {
	dir := notesFixture(t)
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if _, err := runCLI(t, "--config", configPath, "config", "set", "audit_log", "true"); err != nil {
		t.Fatalf("config set failed: %v", err)
	}

	if _, err := runCLI(t, "--config", configPath, "--notes", dir.Path, "scan"); err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if _, err := runCLI(t, "--config", configPath, "--notes", dir.Path, "sync", "bob-20220201.md"); err != nil {
		t.Fatalf("sync failed: %v", err)
	}

	env, err := runJSON(t, "--config", configPath, "--notes", dir.Path, "history")
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	var data struct {
		Enabled bool `json:"enabled"`
		Entries []struct {
			Operation string `json:"op"`
			File      string `json:"file"`
		} `json:"entries"`
	}
	decodeData(t, env, &data)

	var got []string
	for _, e := range data.Entries {
		got = append(got, e.Operation+":"+e.File)
	}
	want := []string{"store:ann-20220202.md", "store:bob-20220201.md", "skip:bob-20220201.md"}
	if !data.Enabled {
		t.Error("expected journal to be enabled")
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("journal mismatch (-want +got):\n%s", diff)
	}
}

func TestGuideCommand(t *testing.T) {
	out, err := runCLI(t, "guide")
	if err != nil {
		t.Fatalf("guide failed: %v", err)
	}
	if !strings.HasPrefix(out, "# Note format") || !strings.Contains(out, "<? keywords:") {
		t.Errorf("unexpected guide output:\n%s", out)
	}
}
