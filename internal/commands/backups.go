package commands

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pstuifzand/tuo-notes/internal/logging"
	"github.com/pstuifzand/tuo-notes/internal/storage"
)

func addBackups(topLevel *cobra.Command, ro *RootOptions) {
	cmd := &cobra.Command{
		Use:   "backups",
		Short: "List and restore outline backups",
	}

	list := &cobra.Command{
		Use:   "list [file-id]",
		Short: "List backups, oldest first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ro.loadConfig()
			if err != nil {
				return err
			}
			bm, err := storage.NewBackupManager(cfg.Storage.BackupDir)
			if err != nil {
				return err
			}
			fileID := ""
			if len(args) > 0 {
				fileID = args[0]
			}
			backups, err := bm.FindBackups(fileID)
			if err != nil {
				return err
			}
			if len(backups) == 0 {
				return nil
			}
			bold := color.New(color.Bold)

			tbl := uitable.New()
			tbl.Separator = "  "
			tbl.AddRow(bold.Sprint("TIME"), bold.Sprint("SESSION"), bold.Sprint("FILE"), bold.Sprint("PATH"))
			for _, b := range backups {
				tbl.AddRow(b.Timestamp.Format(time.DateTime), b.SessionID, b.FileID, b.FilePath)
			}
			fmt.Fprintln(cmd.OutOrStdout(), tbl)
			return nil
		},
	}

	restore := &cobra.Command{
		Use:   "restore <backup-path>",
		Short: "Overwrite an outline with a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, fileID, err := storage.LoadBackup(args[0])
			if err != nil {
				return err
			}

			e, err := ro.open()
			if err != nil {
				return err
			}
			defer e.Close()

			meta, err := e.files.Save(cmd.Context(), fileID, doc)
			if err != nil {
				return err
			}
			e.logger.Info("backup restored", zap.String("id", meta.ID), zap.String("backup", args[0]))
			fmt.Fprintf(cmd.OutOrStdout(), "Restored %s into %s\n", args[0], meta.ID)
			return nil
		},
	}

	cmd.AddCommand(list, restore)
	topLevel.AddCommand(cmd)
}

func addLogs(topLevel *cobra.Command, ro *RootOptions) {
	var level string
	var limit int

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show recent log entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ro.loadConfig()
			if err != nil {
				return err
			}
			entries, err := logging.Tail(cfg.LogFile, level, limit)
			if err != nil {
				return err
			}
			for _, entry := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s", entry.Timestamp, levelColor(entry.Level).Sprintf("%-5s", entry.Level), entry.Message)
				for _, k := range slices.Sorted(maps.Keys(entry.Fields)) {
					fmt.Fprintf(cmd.OutOrStdout(), " %s=%v", k, entry.Fields[k])
				}
				fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&level, "level", "", "only show entries of this level, for example WARN")
	cmd.Flags().IntVarP(&limit, "lines", "n", 20, "number of entries to show")
	topLevel.AddCommand(cmd)
}

func levelColor(level string) *color.Color {
	switch level {
	case "ERROR", "DPANIC", "PANIC", "FATAL":
		return color.New(color.FgRed, color.Bold)
	case "WARN":
		return color.New(color.FgYellow)
	case "DEBUG":
		return color.New(color.Faint)
	}
	return color.New()
}
