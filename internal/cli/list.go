package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/noted/internal/dates"
	"github.com/aidanlsb/noted/internal/note"
)

func newListCmd(a *app) *cobra.Command {
	var since string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List indexed note revisions, newest first",
		Long: `Lists every indexed revision, newest first.

--since accepts a date (20220902 or 2022-09-02), "today", "yesterday" or a
phrase such as "last week" or "3 days ago".

Examples:
  noted list
  noted list --since yesterday
  noted list --since "last monday" --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var cutoff time.Time
			if since != "" {
				t, err := dates.ParseSince(since, time.Now())
				if err != nil {
					return a.fail(ErrInvalidInput, err, `Try a date like 20220902 or a phrase like "last week"`)
				}
				cutoff = t
			}

			db, err := a.openIndex()
			if err != nil {
				return err
			}
			defer db.Close()

			start := time.Now()
			var notes []*note.Note
			if cutoff.IsZero() {
				notes, err = db.FindAll()
			} else {
				notes, err = db.FindSince(cutoff)
			}
			if err != nil {
				return a.fail(ErrDatabaseError, err, "")
			}
			if limit > 0 && len(notes) > limit {
				notes = notes[:limit]
			}

			if a.jsonOutput {
				data := map[string]interface{}{"notes": summarizeAll(notes)}
				if !cutoff.IsZero() {
					data["since"] = cutoff
				}
				a.outputSuccess(data, &Meta{Count: len(notes), QueryTimeMs: time.Since(start).Milliseconds()})
				return nil
			}

			a.printNotes(notes, "No notes indexed yet. Run 'noted scan' first.")
			return nil
		},
	}

	cmd.Flags().StringVar(&since, "since", "", "Only revisions saved at or after this time")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of results (0 for all)")
	return cmd
}
