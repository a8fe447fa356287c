package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pstuifzand/tuo-notes/internal/export"
	import_parser "github.com/pstuifzand/tuo-notes/internal/import"
	"github.com/pstuifzand/tuo-notes/internal/model"
)

func addFiles(topLevel *cobra.Command, ro *RootOptions) {
	cmd := &cobra.Command{
		Use:     "files",
		Aliases: []string{"ls"},
		Short:   "List saved outlines",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := ro.open()
			if err != nil {
				return err
			}
			defer e.Close()

			files, err := e.files.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return nil
			}
			active, _ := e.files.Active(cmd.Context())
			bold := color.New(color.Bold)

			tbl := uitable.New()
			tbl.Separator = "  "
			for _, f := range files {
				if f.ID == active {
					tbl.AddRow("*", bold.Sprint(f.ID), bold.Sprint(f.DisplayName()))
					continue
				}
				tbl.AddRow(" ", f.ID, f.DisplayName())
			}
			fmt.Fprintln(cmd.OutOrStdout(), tbl)
			return nil
		},
	}
	topLevel.AddCommand(cmd)
}

func addExport(topLevel *cobra.Command, ro *RootOptions) {
	cmd := &cobra.Command{
		Use:   "export <file-id> <path>",
		Short: "Write an outline as markdown (.md) or indented text (.txt)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := ro.open()
			if err != nil {
				return err
			}
			defer e.Close()

			doc, ok := e.files.Load(cmd.Context(), args[0])
			if !ok {
				return fmt.Errorf("outline %s not found", args[0])
			}
			path := args[1]
			if strings.ToLower(filepath.Ext(path)) == ".txt" {
				err = os.WriteFile(path, []byte(export.PlainText(doc.Tree)), 0o644)
			} else {
				err = export.ExportToMarkdown(doc, path)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", args[0], path)
			return nil
		},
	}
	topLevel.AddCommand(cmd)
}

func addImport(topLevel *cobra.Command, ro *RootOptions) {
	var title string

	cmd := &cobra.Command{
		Use:   "import <path>",
		Short: "Save a markdown or indented text file as a new outline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			nodes, err := import_parser.ImportFile(string(data), import_parser.DetectFormat(args[0]))
			if err != nil {
				return err
			}
			if len(nodes) == 0 {
				return fmt.Errorf("%s holds no outline", args[0])
			}
			if title == "" {
				title = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			}

			e, err := ro.open()
			if err != nil {
				return err
			}
			defer e.Close()

			meta, err := e.files.Save(cmd.Context(), "", &model.Document{Title: title, Tree: nodes})
			if err != nil {
				return err
			}
			e.logger.Info("outline imported", zap.String("id", meta.ID), zap.String("path", args[0]))
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s as %s\n", args[0], meta.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "title of the new outline (default: file name)")
	topLevel.AddCommand(cmd)
}
