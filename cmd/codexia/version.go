package main

import (
	"fmt"

	"github.com/spf13/cobra"

	codexsdk "github.com/wagiedev/codex-proto-go"
)

func newVersionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the installed codex version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			version, err := codexsdk.CheckVersion(cmd.Context(),
				codexsdk.WithCodexPath(a.settings.Session.CodexPath),
				codexsdk.WithLogger(a.log),
			)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), version)

			return nil
		},
	}
}
