package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/noted/docs"
	"github.com/aidanlsb/noted/internal/ui"
)

func newGuideCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "guide",
		Short: "Describe the note file format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.jsonOutput {
				a.outputSuccess(map[string]string{"format": docs.Format}, nil)
				return nil
			}

			display := ui.NewDisplayContext()
			if display.IsTTY {
				if rendered, err := ui.RenderMarkdown(docs.Format, display.AvailableWidth(ui.MarkdownRenderMargin*2)); err == nil {
					fmt.Fprint(a.out, rendered)
					return nil
				}
			}
			fmt.Fprint(a.out, docs.Format)
			return nil
		},
	}
}
