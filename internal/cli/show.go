package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aidanlsb/noted/internal/note"
	"github.com/aidanlsb/noted/internal/parser"
	"github.com/aidanlsb/noted/internal/ui"
	"github.com/aidanlsb/noted/internal/vault"
)

type sectionView struct {
	Heading string `json:"heading" yaml:"heading"`
	Data    string `json:"data" yaml:"data"`
}

// noteView is the structured form printed by show --format.
type noteView struct {
	noteSummary `yaml:",inline"`
	Sections    []sectionView `json:"sections" yaml:"sections"`
}

func viewOf(n *note.Note) noteView {
	v := noteView{noteSummary: summarize(n)}
	for _, s := range n.Sections.All() {
		v.Sections = append(v.Sections, sectionView{Heading: s.Heading, Data: s.Data})
	}
	return v
}

func newShowCmd(a *app) *cobra.Command {
	var asHTML bool
	var format string

	cmd := &cobra.Command{
		Use:   "show <file>",
		Short: "Print a note",
		Long: `Prints a note from the notes directory.

In a terminal the note is rendered; otherwise it is printed as is. --html
renders it to HTML, and --format yaml|json prints the decoded structure
(title, tags and sections) instead.

Examples:
  noted show bob-20220902-planning.md
  noted show bob-20220902-planning --format yaml
  noted show bob-20220902-planning --html > planning.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(strings.TrimSpace(format))
			switch format {
			case "", "yaml", "json":
			default:
				return a.failMsg(ErrInvalidInput, fmt.Sprintf("unknown format %q", format), "Use --format yaml or --format json")
			}

			path, err := a.resolveNoteFile(args[0])
			if err != nil {
				return err
			}
			n, err := vault.LoadNote(path)
			if err != nil {
				return a.fail(codeFor(err), err, "")
			}

			if a.jsonOutput {
				a.outputSuccess(viewOf(n), nil)
				return nil
			}

			switch {
			case format == "yaml":
				enc := yaml.NewEncoder(a.out)
				enc.SetIndent(2)
				if err := enc.Encode(viewOf(n)); err != nil {
					return a.fail(ErrInternal, err, "")
				}
				return enc.Close()
			case format == "json":
				enc := json.NewEncoder(a.out)
				enc.SetIndent("", "  ")
				return enc.Encode(viewOf(n))
			case asHTML:
				html, err := parser.RenderHTML(n.Body)
				if err != nil {
					return a.fail(ErrInternal, err, "")
				}
				fmt.Fprint(a.out, html)
				return nil
			}

			display := ui.NewDisplayContext()
			if !display.IsTTY {
				fmt.Fprint(a.out, n.Body)
				return nil
			}
			rendered, err := ui.RenderMarkdown(n.Body, display.AvailableWidth(ui.MarkdownRenderMargin*2))
			if err != nil {
				fmt.Fprint(a.out, n.Body)
				return nil
			}
			fmt.Fprint(a.out, rendered)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asHTML, "html", false, "Render the note as HTML")
	cmd.Flags().StringVar(&format, "format", "", "Print the decoded note as yaml or json")
	return cmd
}
