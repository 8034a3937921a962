package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/aidanlsb/noted/internal/index"
	"github.com/aidanlsb/noted/internal/note"
)

type searchOptions struct {
	exact bool
	limit int
}

func (o *searchOptions) flagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("search", pflag.ContinueOnError)
	fs.BoolVarP(&o.exact, "exact", "e", false, "Match the whole value instead of a prefix")
	fs.IntVarP(&o.limit, "limit", "n", 0, "Maximum number of results (0 for all)")
	return fs
}

type searchKind struct {
	use   string
	short string
	run   func(db *index.Database, stem string, exact bool) ([]*note.Note, error)
}

var searchKinds = []searchKind{
	{
		use:   "file",
		short: "Find revisions whose file name contains the stem",
		run: func(db *index.Database, stem string, exact bool) ([]*note.Note, error) {
			return db.SearchByFile(stem)
		},
	},
	{
		use:   "keyword",
		short: "Find revisions by keyword",
		run: func(db *index.Database, stem string, exact bool) ([]*note.Note, error) {
			return db.SearchByKeyword(stem, exact)
		},
	},
	{
		use:   "present",
		short: "Find revisions by attendee",
		run: func(db *index.Database, stem string, exact bool) ([]*note.Note, error) {
			return db.SearchByTag(note.Present, stem, exact)
		},
	},
	{
		use:   "speaker",
		short: "Find revisions by speaker",
		run: func(db *index.Database, stem string, exact bool) ([]*note.Note, error) {
			return db.SearchByTag(note.Speakers, stem, exact)
		},
	},
}

func newSearchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search indexed notes",
		Long: `Searches the index. The argument is reduced to its stem: any directory
and extension are dropped, so "notes/bob.md" searches for "bob".

Keyword, present and speaker searches match values starting with the stem,
or equal to it with --exact. File searches match any file name containing
the stem.

Examples:
  noted search keyword plan
  noted search present alice --exact
  noted search file 20220902`,
	}

	for _, kind := range searchKinds {
		kind := kind
		opts := &searchOptions{}
		sub := &cobra.Command{
			Use:   kind.use + " <stem>",
			Short: kind.short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.runSearch(kind, args[0], opts)
			},
		}
		sub.Flags().AddFlagSet(opts.flagSet())
		cmd.AddCommand(sub)
	}
	return cmd
}

func (a *app) runSearch(kind searchKind, arg string, opts *searchOptions) error {
	stem := index.Stem(arg)
	if strings.TrimSpace(stem) == "" {
		return a.failMsg(ErrInvalidInput, "empty search term", "")
	}

	db, err := a.openIndex()
	if err != nil {
		return err
	}
	defer db.Close()

	start := time.Now()
	notes, err := kind.run(db, stem, opts.exact)
	if err != nil {
		return a.fail(ErrDatabaseError, err, "")
	}
	if opts.limit > 0 && len(notes) > opts.limit {
		notes = notes[:opts.limit]
	}

	if a.jsonOutput {
		a.outputSuccess(map[string]interface{}{
			"kind":    kind.use,
			"stem":    stem,
			"exact":   opts.exact,
			"results": summarizeAll(notes),
		}, &Meta{Count: len(notes), QueryTimeMs: time.Since(start).Milliseconds()})
		return nil
	}

	a.printNotes(notes, fmt.Sprintf("No %s matches for %q", kind.use, stem))
	return nil
}
