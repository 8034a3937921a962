package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/noted/internal/gitsync"
	"github.com/aidanlsb/noted/internal/index"
	"github.com/aidanlsb/noted/internal/ui"
	"github.com/aidanlsb/noted/internal/watcher"
)

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Store notes once they stop changing",
		Long: `Scans the notes directory once, then watches it and stores a note once
its file has been quiet for the configured period (quiet_period, 5 minutes
by default).

On Ctrl+C or SIGTERM a final scan stores anything still pending. When
purge_detritus or git_commit are enabled, editor backup files are removed
and changed notes are committed afterwards.

Only one watcher can run per index.

Examples:
  noted watch
  noted watch --notes ~/notes --debug`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			notesPath, err := a.notesPath()
			if err != nil {
				return err
			}

			lock, err := index.AcquireLock(a.cfg.ResolvedDatabasePath())
			if err != nil {
				if errors.Is(err, index.ErrIndexLocked) {
					return a.fail(ErrIndexLocked, err, "Another 'noted watch' is running for this index")
				}
				return a.fail(ErrDatabaseError, err, "")
			}
			defer lock.Release()

			db, eng, err := a.openEngine()
			if err != nil {
				return err
			}
			defer db.Close()

			w, err := watcher.New(watcher.Config{
				Engine:        eng,
				Store:         db,
				Extension:     a.cfg.Extension,
				QuietPeriod:   a.cfg.QuietPeriod.Duration,
				SweepInterval: a.cfg.SweepInterval.Duration,
				Logger:        a.logger,
				OnStore: func(path string, res index.AddResult) {
					if !a.jsonOutput {
						fmt.Fprintln(a.out, ui.Checkf("Stored %s", ui.FilePath(filepath.Base(path))))
					}
				},
			})
			if err != nil {
				return a.fail(ErrInternal, err, "")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if !a.jsonOutput {
				fmt.Fprintf(a.out, "Watching %s\n", ui.FilePath(notesPath))
				fmt.Fprintln(a.out, ui.Hint(fmt.Sprintf("Notes are stored after %s without changes. Press Ctrl+C to stop.", w.QuietPeriod())))
			}

			if err := w.Run(ctx); err != nil {
				a.logger.Error("watcher stopped", "error", err)
				return a.fail(codeFor(err), err, "")
			}

			gitsync.Housekeeping(gitsync.Options{
				NotesPath: notesPath,
				Extension: a.cfg.Extension,
				Excluded:  a.cfg.ExcludedStems,
				Purge:     a.cfg.PurgeDetritus,
				Commit:    a.cfg.GitCommit,
				Logger:    a.logger,
			})

			if a.jsonOutput {
				a.outputSuccess(map[string]interface{}{"notes_path": notesPath, "stopped": true}, nil)
			} else {
				fmt.Fprintln(a.out, ui.Check("Watcher stopped"))
			}
			return nil
		},
	}
}
