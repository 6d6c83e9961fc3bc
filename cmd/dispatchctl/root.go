package main

import (
	"dispatch-app/backend/internal/logging"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:          "dispatchctl",
		Short:        "Dispatch import and auth tooling",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logging.Init("cli", logLevel)
		},
	}
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	cmd.AddCommand(newPreviewCmd())
	cmd.AddCommand(newTemplateCmd())
	cmd.AddCommand(newTokenCmd())
	return cmd
}
