package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/noted/internal/index"
	"github.com/aidanlsb/noted/internal/ui"
)

func newScanCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Store every new or changed note",
		Long: `Reads every note in the notes directory and stores those that are not
indexed yet or whose file is newer than the latest indexed revision.

Earlier revisions are kept. Running scan twice in a row stores nothing the
second time.

Examples:
  noted scan
  noted scan --notes ~/notes --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, eng, err := a.openEngine()
			if err != nil {
				return err
			}
			defer db.Close()

			spinner := ui.NewSpinner("Scanning " + eng.NotesPath())
			if !a.jsonOutput {
				spinner.Start()
			}
			res, err := eng.Scan(cmd.Context())
			spinner.Stop()
			if err != nil {
				return a.fail(codeFor(err), err, "")
			}

			if a.jsonOutput {
				a.outputSuccess(res, &Meta{Count: res.Updated, QueryTimeMs: res.Duration.Milliseconds()})
				return nil
			}

			fmt.Fprintln(a.out, ui.Checkf("Scanned %d notes, %d updated %s",
				res.Scanned, res.Updated, ui.Hint(fmt.Sprintf("(%dms)", res.Duration.Milliseconds()))))
			return nil
		},
	}
}

type syncResult struct {
	File   string `json:"file"`
	Status string `json:"status"`
	ID     int64  `json:"id,omitempty"`
}

func newSyncCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sync <file>",
		Short: "Store the current revision of one note",
		Long: `Stores one note file. A bare file name is looked up in the notes
directory. If the file's current revision is already indexed, nothing is
stored and a warning is reported.

Examples:
  noted sync bob-20220902-planning.md
  noted sync bob-20220902-planning`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.resolveNoteFile(args[0])
			if err != nil {
				return err
			}

			db, eng, err := a.openEngine()
			if err != nil {
				return err
			}
			defer db.Close()

			res, err := eng.SyncOne(path)
			if err != nil {
				return a.fail(codeFor(err), err, "")
			}

			out := syncResult{File: filepath.Base(path), Status: res.Status.String(), ID: res.ID}
			if a.jsonOutput {
				var warnings []Warning
				if res.Status == index.AlreadyPresent {
					warnings = append(warnings, Warning{Code: WarnAlreadyStored, Message: res.Err().Error(), File: out.File})
				}
				a.outputSuccessWithWarnings(out, warnings, nil)
				return nil
			}

			if res.Status == index.AlreadyPresent {
				fmt.Fprintln(a.out, ui.Warningf("%s is already stored", ui.FilePath(out.File)))
				return nil
			}
			fmt.Fprintln(a.out, ui.Checkf("Stored %s", ui.FilePath(out.File)))
			return nil
		},
	}
}
