package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/noted/internal/ui"
)

func newCountCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Show index statistics",
		Long: `Shows how many revisions, files and tag rows the index holds.

Examples:
  noted count
  noted count --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openIndex()
			if err != nil {
				return err
			}
			defer db.Close()

			start := time.Now()
			stats, err := db.Stats()
			if err != nil {
				return a.fail(ErrDatabaseError, err, "")
			}

			if a.jsonOutput {
				a.outputSuccess(stats, &Meta{Count: stats.NoteCount, QueryTimeMs: time.Since(start).Milliseconds()})
				return nil
			}

			rows := []struct {
				label string
				n     int
			}{
				{"Revisions:", stats.NoteCount},
				{"Files:", stats.FileCount},
				{"Keywords:", stats.KeywordCount},
				{"Present:", stats.PresentCount},
				{"Speakers:", stats.SpeakerCount},
			}
			fmt.Fprintln(a.out, ui.Header("Index Statistics"))
			for _, r := range rows {
				fmt.Fprintf(a.out, "%s  %s\n", ui.Muted.Render(fmt.Sprintf("%-10s", r.label)), ui.Accent.Render(fmt.Sprintf("%d", r.n)))
			}
			return nil
		},
	}
}
