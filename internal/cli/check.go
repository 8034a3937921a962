package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/noted/internal/parser"
	"github.com/aidanlsb/noted/internal/ui"
	"github.com/aidanlsb/noted/internal/vault"
)

type checkResult struct {
	FilesChecked int `json:"files_checked"`
	Issues       int `json:"issues"`
}

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check [file...]",
		Short: "Report notes that do not decode cleanly",
		Long: `Checks notes for constructs that are accepted but lose information when
stored: a missing title, more than one "# " title, repeated section headings
and metadata lines after the first section.

Without arguments every note in the notes directory is checked. The command
exits non-zero when any issue is found.

Examples:
  noted check
  noted check bob-20220902-planning.md --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var paths []string
			if len(args) == 0 {
				dir, err := a.notesPath()
				if err != nil {
					return err
				}
				paths, err = vault.ListNotes(dir, a.cfg.ExcludedStems, a.cfg.Extension)
				if err != nil {
					return a.fail(ErrInvalidDirectory, err, "")
				}
			} else {
				for _, arg := range args {
					path, err := a.resolveNoteFile(arg)
					if err != nil {
						return err
					}
					paths = append(paths, path)
				}
			}

			var warnings []Warning
			for _, path := range paths {
				content, err := os.ReadFile(path)
				if err != nil {
					err = &vault.UnreadableFileError{Path: path, Err: err}
					return a.fail(codeFor(err), err, "")
				}
				name := filepath.Base(path)
				for _, issue := range parser.Lint(string(content)) {
					warnings = append(warnings, Warning{Code: WarnLint, Message: issue.Message, File: name, Line: issue.Line})
				}
			}

			res := checkResult{FilesChecked: len(paths), Issues: len(warnings)}
			if a.jsonOutput {
				resp := Response{OK: len(warnings) == 0, Data: res, Warnings: warnings, Meta: &Meta{Count: len(warnings)}}
				if len(warnings) > 0 {
					resp.Error = &ErrorInfo{Code: ErrValidationFailed, Message: fmt.Sprintf("%d issues found", len(warnings))}
				}
				a.outputJSON(resp)
			} else {
				a.printIssues(warnings, res)
			}

			if len(warnings) > 0 {
				return &reportedError{err: fmt.Errorf("%d issues found", len(warnings))}
			}
			return nil
		},
	}
}

func (a *app) printIssues(warnings []Warning, res checkResult) {
	current := ""
	for _, w := range warnings {
		if w.File != current {
			if current != "" {
				fmt.Fprintln(a.out)
			}
			fmt.Fprintln(a.out, ui.FilePath(w.File))
			current = w.File
		}
		loc := "     "
		if w.Line > 0 {
			loc = fmt.Sprintf("%4d ", w.Line)
		}
		fmt.Fprintf(a.out, "  %s%s\n", ui.Muted.Render(loc), ui.Warning(w.Message))
	}
	if len(warnings) > 0 {
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, ui.Error(fmt.Sprintf("Checked %d files %s", res.FilesChecked, ui.Count(res.Issues, "issue", "issues"))))
		return
	}
	fmt.Fprintln(a.out, ui.Checkf("Checked %d files, no issues", res.FilesChecked))
}
