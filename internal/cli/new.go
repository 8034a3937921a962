package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/noted/internal/dates"
	"github.com/aidanlsb/noted/internal/index"
	"github.com/aidanlsb/noted/internal/note"
	"github.com/aidanlsb/noted/internal/parser"
	"github.com/aidanlsb/noted/internal/slugs"
	"github.com/aidanlsb/noted/internal/ui"
	"github.com/aidanlsb/noted/internal/vault"
)

type newOptions struct {
	keywords []string
	present  []string
	speakers []string
	sections []string
	file     string
	force    bool
	edit     bool
}

type newResult struct {
	File   string `json:"file"`
	Path   string `json:"path"`
	Stored bool   `json:"stored"`
}

func newNewCmd(a *app) *cobra.Command {
	opts := &newOptions{}

	cmd := &cobra.Command{
		Use:   "new <title>",
		Short: "Create a note",
		Long: `Creates a note in the notes directory. The file is named after the title
and today's date (planning-meeting-20220902.md) unless --file is given.

An existing file is never replaced unless --force is set. With autostore
enabled the note is stored in the index straight away.

Examples:
  noted new "Planning meeting" -k planning -p alice,bob
  noted new "Standup" --section Notes --section Actions --edit
  noted new "Retro" --file retro-20220902.md --force`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runNew(strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.keywords, "keyword", "k", nil, "Keywords (repeatable or comma separated)")
	cmd.Flags().StringSliceVarP(&opts.present, "present", "p", nil, "People present")
	cmd.Flags().StringSliceVarP(&opts.speakers, "speaker", "s", nil, "Speakers")
	cmd.Flags().StringArrayVar(&opts.sections, "section", nil, "Add an empty section with this heading")
	cmd.Flags().StringVar(&opts.file, "file", "", "File name (default: title slug and today's date)")
	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "Replace an existing file")
	cmd.Flags().BoolVarP(&opts.edit, "edit", "e", false, "Open the note in your editor")
	return cmd
}

func (a *app) runNew(title string, opts *newOptions) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return a.failMsg(ErrInvalidInput, "title is required", "")
	}
	dir, err := a.notesPath()
	if err != nil {
		return err
	}

	ext := a.cfg.Extension
	if ext == "" {
		ext = vault.DefaultExtension
	}
	filename := strings.TrimSpace(opts.file)
	if filename == "" {
		filename = slugs.Filename(title, dates.Token(time.Now()), ext)
	} else if !strings.HasSuffix(strings.ToLower(filename), strings.ToLower(ext)) {
		filename += ext
	}
	if !vault.IsNote(filename, a.cfg.ExcludedStems, ext) {
		return a.failMsg(ErrNotANote, fmt.Sprintf("%s would not be treated as a note", filename),
			"Choose a name that does not start with an excluded stem")
	}

	n := note.New(title, filename)
	n.AppendTags(note.Keywords, tagValues(opts.keywords)...)
	n.AppendTags(note.Present, tagValues(opts.present)...)
	n.AppendTags(note.Speakers, tagValues(opts.speakers)...)
	for _, heading := range opts.sections {
		n.Sections.Set(strings.TrimSpace(heading), "")
	}

	path, err := vault.WriteNote(dir, n, opts.force)
	if err != nil {
		return a.fail(codeFor(err), err, "Use --force to replace it")
	}
	a.logger.Debug("created note", "file", filename)
	if err := a.journal().LogCreate(filename); err != nil {
		a.logger.Warn("audit write failed", "file", filename, "error", err)
	}

	if opts.edit {
		editor := vault.Editor(a.cfg.Editor)
		if editor == "" {
			return a.failMsg(ErrConfigInvalid, "no editor configured", "Set editor in the config or $EDITOR")
		}
		if err := vault.OpenInEditor(editor, path); err != nil {
			return a.fail(ErrInternal, err, "")
		}
	}

	res := newResult{File: filename, Path: path}
	if a.cfg.Autostore {
		db, eng, err := a.openEngine()
		if err != nil {
			return err
		}
		defer db.Close()

		added, err := eng.SyncOne(path)
		if err != nil {
			return a.fail(codeFor(err), err, "")
		}
		res.Stored = added.Status == index.Stored
	}

	if a.jsonOutput {
		a.outputSuccess(res, nil)
		return nil
	}
	fmt.Fprintln(a.out, ui.Checkf("Created %s", ui.FilePath(path)))
	if res.Stored {
		fmt.Fprintln(a.out, ui.Hint("Stored in the index"))
	}
	return nil
}

// tagValues splits flag values on the same separators as metadata lines.
func tagValues(values []string) []string {
	var out []string
	for _, v := range values {
		out = append(out, parser.SplitTags(v)...)
	}
	return out
}
