package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/noted/internal/audit"
	"github.com/aidanlsb/noted/internal/dates"
	"github.com/aidanlsb/noted/internal/ui"
)

func newHistoryCmd(a *app) *cobra.Command {
	var since string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the audit journal of stored revisions",
		Long: `Prints the audit journal: every revision stored or skipped and every note
created with 'noted new', oldest first. The journal is written only when
audit_log is enabled.

Examples:
  noted history
  noted history --since today --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.notesPath(); err != nil {
				return err
			}
			journal := a.journal()

			var entries []audit.Entry
			var err error
			if since != "" {
				cutoff, parseErr := dates.ParseSince(since, time.Now())
				if parseErr != nil {
					return a.fail(ErrInvalidInput, parseErr, "")
				}
				entries, err = journal.ReadSince(cutoff)
			} else {
				entries, err = journal.Read()
			}
			if err != nil {
				return a.fail(ErrFileUnreadable, err, "")
			}

			if a.jsonOutput {
				a.outputSuccess(map[string]interface{}{
					"path":    journal.Path(),
					"enabled": journal.Enabled(),
					"entries": entries,
				}, &Meta{Count: len(entries)})
				return nil
			}

			if len(entries) == 0 {
				msg := "No journal entries."
				if !journal.Enabled() {
					msg += " Enable it with 'noted config set audit_log true'."
				}
				fmt.Fprintln(a.out, ui.Hint(msg))
				return nil
			}

			tbl := ui.NewTable(3)
			tbl.SetColumnStyle(0, ui.Muted)
			tbl.SetStyle(2, ui.FilePath)
			for _, e := range entries {
				tbl.AddRow(e.Timestamp.Local().Format("2006-01-02 15:04:05"), e.Operation, e.File)
			}
			fmt.Fprint(a.out, tbl.String())
			return nil
		},
	}

	cmd.Flags().StringVar(&since, "since", "", "Only entries logged at or after this time")
	return cmd
}
