// Package commands holds the command line interface of tuo-notes
package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pstuifzand/tuo-notes/internal/app"
	"github.com/pstuifzand/tuo-notes/internal/config"
	"github.com/pstuifzand/tuo-notes/internal/history"
	"github.com/pstuifzand/tuo-notes/internal/logging"
	"github.com/pstuifzand/tuo-notes/internal/socket"
	"github.com/pstuifzand/tuo-notes/internal/storage"
	"github.com/pstuifzand/tuo-notes/internal/theme"
	"github.com/pstuifzand/tuo-notes/internal/ui"
)

// RootOptions are the flags shared by every command
type RootOptions struct {
	ConfigPath string
	Debug      bool
}

// New returns the root command. Without a subcommand it starts the editor.
func New() *cobra.Command {
	ro := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "tuo [file-id]",
		Short: "Outline notes in the terminal",
		Example: `
tuo                 # open the last outline
tuo 20250101120000  # open a saved outline
tuo add buy milk    # add a node to the running editor
`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fileID := ""
			if len(args) > 0 {
				fileID = args[0]
			}
			return runEditor(cmd.Context(), ro, fileID)
		},
	}
	cmd.PersistentFlags().StringVar(&ro.ConfigPath, "config", "", "path to the config file")
	cmd.PersistentFlags().BoolVar(&ro.Debug, "debug", false, "log debug entries and key names")

	addAdd(cmd, ro)
	addSearch(cmd, ro)
	addFiles(cmd, ro)
	addExport(cmd, ro)
	addImport(cmd, ro)
	addBackups(cmd, ro)
	addLogs(cmd, ro)
	addShow(cmd, ro)
	return cmd
}

// Execute runs the root command until it finishes or the process is
// interrupted
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := New().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func (ro *RootOptions) loadConfig() (*config.Config, error) {
	if ro.ConfigPath != "" {
		return config.LoadFromFile(ro.ConfigPath)
	}
	return config.Load()
}

// env holds what a command needs to work on the stored outlines
type env struct {
	cfg    *config.Config
	logger *zap.Logger
	files  storage.Store
}

func (ro *RootOptions) open() (*env, error) {
	cfg, err := ro.loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.LogFile, ro.Debug)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	files, err := storage.Open(storage.Options{
		Backend: cfg.Storage.Backend,
		Dir:     cfg.Storage.Dir,
		Logger:  logger,
	})
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}
	return &env{cfg: cfg, logger: logger, files: files}, nil
}

func (e *env) Close() {
	if err := e.files.Close(); err != nil {
		e.logger.Warn("close store", zap.Error(err))
	}
	_ = e.logger.Sync()
}

func runEditor(ctx context.Context, ro *RootOptions, fileID string) error {
	e, err := ro.open()
	if err != nil {
		return err
	}
	defer e.Close()

	opts := app.Options{
		Config: e.cfg,
		Logger: e.logger,
		Files:  e.files,
		FileID: fileID,
		Debug:  ro.Debug,
	}

	if backups, err := storage.NewBackupManager(e.cfg.Storage.BackupDir); err != nil {
		e.logger.Warn("backups disabled", zap.Error(err))
	} else {
		opts.Backups = backups
	}

	if dir, err := history.DefaultDir(); err == nil {
		if m, err := history.NewManager(dir, history.WithManagerLogger(e.logger)); err != nil {
			e.logger.Warn("command history not persisted", zap.Error(err))
		} else {
			opts.History = m
		}
	}

	if server, err := socket.NewServer(socket.Dir(), os.Getpid(), e.logger); err != nil {
		e.logger.Warn("socket server disabled", zap.Error(err))
	} else {
		opts.Socket = server
	}

	screen, err := ui.NewScreen(theme.LoadThemeOrDefault(e.cfg.Theme))
	if err != nil {
		if opts.Socket != nil {
			opts.Socket.Stop()
		}
		return err
	}
	a, err := app.New(screen, opts)
	if err != nil {
		_ = screen.Close()
		if opts.Socket != nil {
			opts.Socket.Stop()
		}
		return err
	}

	e.logger.Info("editor started", zap.String("file", fileID), zap.Bool("debug", ro.Debug))
	if err := a.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
