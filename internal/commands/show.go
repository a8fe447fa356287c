package commands

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/pstuifzand/tuo-notes/internal/export"
	"github.com/pstuifzand/tuo-notes/internal/model"
)

func addShow(topLevel *cobra.Command, ro *RootOptions) {
	var style string
	var width int

	cmd := &cobra.Command{
		Use:   "show [file-id]",
		Short: "Print an outline as rendered markdown (default: the last outline)",
		Example: `
tuo show
tuo show 20250101120000 --style light --width 100
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := ro.open()
			if err != nil {
				return err
			}
			defer e.Close()

			var doc *model.Document
			if len(args) > 0 {
				var ok bool
				if doc, ok = e.files.Load(cmd.Context(), args[0]); !ok {
					return fmt.Errorf("outline %s not found", args[0])
				}
			} else if doc, err = loadActive(cmd.Context(), e); err != nil {
				return err
			}

			out, err := renderOutline(doc, style, width)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&style, "style", "dark", "glamour style: dark, light, notty, ascii")
	cmd.Flags().IntVar(&width, "width", 80, "wrap width")
	topLevel.AddCommand(cmd)
}

// renderOutline renders the outline as markdown for the terminal. A fixed
// style is used since auto detection queries the terminal.
func renderOutline(doc *model.Document, style string, width int) (string, error) {
	var sb strings.Builder
	title := doc.Title
	if title == "" {
		title = model.DefaultTitle
	}
	sb.WriteString("# " + title + "\n\n")
	sb.WriteString(export.Markdown(doc.Tree))

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(max(width, 10)),
	)
	if err != nil {
		return "", fmt.Errorf("markdown renderer: %w", err)
	}
	return r.Render(sb.String())
}
