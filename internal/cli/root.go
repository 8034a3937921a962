// Package cli implements the noted command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/noted/internal/audit"
	"github.com/aidanlsb/noted/internal/config"
	"github.com/aidanlsb/noted/internal/index"
	"github.com/aidanlsb/noted/internal/logging"
	"github.com/aidanlsb/noted/internal/syncer"
	"github.com/aidanlsb/noted/internal/ui"
)

// app carries the global flags and the state resolved from them for one
// invocation of the command tree.
type app struct {
	configFlag string
	notesFlag  string
	dbFlag     string
	jsonOutput bool
	debug      bool

	cfg        *config.Config
	configPath string
	logger     *slog.Logger
	closeLog   func() error
	out        io.Writer
}

// Execute runs the CLI. Errors not already reported as JSON are printed to
// stderr.
func Execute() error {
	root := NewRootCmd()
	err := root.Execute()
	if err != nil {
		var reported *reportedError
		if !errors.As(err, &reported) {
			fmt.Fprintln(root.ErrOrStderr(), ui.Error(err.Error()))
		}
	}
	return err
}

// NewRootCmd builds the full command tree.
func NewRootCmd() *cobra.Command {
	a := &app{out: os.Stdout, logger: logging.Discard()}

	root := &cobra.Command{
		Use:   "noted",
		Short: "noted - markdown notes mirrored into SQLite",
		Long: `noted keeps a SQLite index of a directory of markdown notes.

Each note has a "# " title, optional <?keywords: ...?>, <?present: ...?> and
<?speakers: ...?> lines, and "## " sections. Every saved revision of a note
is kept in the index and can be searched by file name, keyword, attendee or
speaker.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFlag, "config", "", "Path to config file")
	flags.StringVar(&a.notesFlag, "notes", "", "Notes directory (overrides notes_path)")
	flags.StringVar(&a.dbFlag, "db", "", "Index database (overrides database_path)")
	flags.BoolVar(&a.jsonOutput, "json", false, "Output in JSON format")
	flags.BoolVar(&a.debug, "debug", false, "Enable debug logging")

	root.AddCommand(
		newScanCmd(a),
		newSyncCmd(a),
		newWatchCmd(a),
		newSearchCmd(a),
		newListCmd(a),
		newCountCmd(a),
		newShowCmd(a),
		newNewCmd(a),
		newCheckCmd(a),
		newHistoryCmd(a),
		newGuideCmd(a),
		newConfigCmd(a),
		newVersionCmd(a),
	)
	return root
}

// setup resolves configuration in order: config file, .env, NOTED_*
// variables, then flags.
func (a *app) setup(cmd *cobra.Command) error {
	a.out = cmd.OutOrStdout()

	if err := config.LoadDotEnv("."); err != nil {
		return a.fail(ErrConfigInvalid, err, "")
	}

	a.configPath = config.ResolvePath(a.configFlag)
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return a.fail(ErrConfigInvalid, err, "Fix or remove "+a.configPath)
	}
	cfg.ApplyEnv()
	if a.notesFlag != "" {
		cfg.NotesPath = a.notesFlag
	}
	if a.dbFlag != "" {
		cfg.DatabasePath = a.dbFlag
	}
	if a.debug {
		cfg.LogLevel = "debug"
	}
	a.cfg = cfg

	ui.ConfigureTheme(cfg.UI.Accent)
	ui.ConfigureMarkdownCodeTheme(cfg.UI.CodeTheme)

	logger, closeLog, err := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		File:   config.ExpandHome(cfg.LogFile),
		Stderr: cmd.ErrOrStderr(),
	})
	if err != nil {
		return a.fail(ErrConfigInvalid, err, "")
	}
	a.logger = logger
	a.closeLog = closeLog
	return nil
}

func (a *app) teardown() error {
	if a.closeLog == nil {
		return nil
	}
	err := a.closeLog()
	a.closeLog = nil
	return err
}

// notesPath returns the configured notes directory.
func (a *app) notesPath() (string, error) {
	p := a.cfg.ResolvedNotesPath()
	if strings.TrimSpace(p) == "" {
		return "", a.failMsg(ErrNotesNotConfigured, "no notes directory configured",
			"Pass --notes, set NOTED_NOTES_PATH or run 'noted config set notes_path DIR'")
	}
	return p, nil
}

func (a *app) openIndex() (*index.Database, error) {
	if _, err := a.notesPath(); err != nil {
		return nil, err
	}
	db, err := index.Open(a.cfg.ResolvedDatabasePath())
	if err != nil {
		return nil, a.fail(ErrDatabaseError, err, "")
	}
	return db, nil
}

// openEngine opens the index and a sync engine over it. The caller closes
// the database.
func (a *app) openEngine() (*index.Database, *syncer.Engine, error) {
	db, err := a.openIndex()
	if err != nil {
		return nil, nil, err
	}
	eng := syncer.New(syncer.Config{
		Store:     db,
		NotesPath: a.cfg.ResolvedNotesPath(),
		Excluded:  a.cfg.ExcludedStems,
		Extension: a.cfg.Extension,
		Journal:   a.journal(),
		Logger:    a.logger,
	})
	return db, eng, nil
}

func (a *app) journal() *audit.Logger {
	return audit.New(audit.DefaultPath(a.cfg.ResolvedDatabasePath()), a.cfg.AuditLog)
}

// resolveNoteFile maps a command argument to a note file. A bare name is
// looked up in the notes directory, with the note extension added when it
// is missing.
func (a *app) resolveNoteFile(arg string) (string, error) {
	path := arg
	if !filepath.IsAbs(arg) && !strings.ContainsRune(arg, filepath.Separator) {
		dir, err := a.notesPath()
		if err != nil {
			return "", err
		}
		path = filepath.Join(dir, arg)
	}

	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	if ext := a.cfg.Extension; ext != "" && !strings.HasSuffix(strings.ToLower(path), strings.ToLower(ext)) {
		if _, err := os.Stat(path + ext); err == nil {
			return path + ext, nil
		}
	}
	return "", a.failMsg(ErrFileNotFound, "note not found: "+arg, "")
}
