package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/wagiedev/codex-proto-go/internal/settings"
)

// app is the state shared by every subcommand.
type app struct {
	settingsPath string
	debug        bool
	logPath      string

	settings *settings.Settings
	log      *slog.Logger
	closeLog func() error
}

func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "codexia",
		Short:        "Run codex proto sessions",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if a.closeLog != nil {
				return a.closeLog()
			}

			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.settingsPath, "config", settings.DefaultPath(), "settings file")
	flags.BoolVar(&a.debug, "debug", false, "write a debug log (also "+settings.EnvDebugLog+")")
	flags.StringVar(&a.logPath, "log-path", "", "debug log file (default "+settings.DefaultLogPath+")")

	root.AddCommand(
		newServeCommand(a),
		newChatCommand(a),
		newVersionCommand(a),
	)

	return root
}

// init loads settings once. Flags override the environment, which overrides
// the file.
func (a *app) init(cmd *cobra.Command) error {
	s, err := settings.Load(a.settingsPath)
	if err != nil {
		return err
	}

	s.ApplyEnv(os.LookupEnv)

	if cmd.Flags().Changed("debug") {
		s.Log.Debug = a.debug
	}

	if a.logPath != "" {
		s.Log.Path = a.logPath
	}

	log, closeLog, err := openLogger(s.Log)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}

	a.settings = s
	a.log = log
	a.closeLog = closeLog

	return nil
}
