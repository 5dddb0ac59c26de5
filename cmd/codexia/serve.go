package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/wagiedev/codex-proto-go/internal/bridge"
	"github.com/wagiedev/codex-proto-go/internal/settings"
)

func newServeCommand(a *app) *cobra.Command {
	var (
		addr        string
		maxSessions int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve codex sessions over a websocket bridge",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("addr") {
				a.settings.Bridge.Addr = addr
			}

			if cmd.Flags().Changed("max-sessions") {
				a.settings.Bridge.MaxSessions = maxSessions
			}

			return a.serve(cmd.Context(), cmd)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", settings.DefaultBridgeAddr, "listen address")
	cmd.Flags().IntVar(&maxSessions, "max-sessions", 0, "maximum concurrent sessions (0 means no limit)")

	return cmd
}

func (a *app) serve(ctx context.Context, cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := settings.NewStore(a.settings)

	if a.settingsPath != "" {
		go func() {
			err := settings.Watch(ctx, a.log, a.settingsPath, func(s *settings.Settings) {
				s.ApplyEnv(os.LookupEnv)
				store.Set(s)
				a.log.Info("Settings reloaded")
			})
			if err != nil {
				a.log.Warn("Settings watcher stopped", "error", err)
			}
		}()
	}

	srv := bridge.New(&bridge.Config{
		Logger:      a.log,
		MaxSessions: a.settings.Bridge.MaxSessions,
		Defaults: func() settings.Session {
			return store.Current().Session
		},
	})

	addr := a.settings.Bridge.Addr
	if addr == "" {
		addr = settings.DefaultBridgeAddr
	}

	color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "codexia bridge on ws://%s/ws\n", addr)

	return srv.ListenAndServe(ctx, addr)
}
