package main

import (
	"github.com/spf13/cobra"

	"workbench/internal/daemonrun"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var logLevel string
	var skipPreflight bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the workbench daemon in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return daemonrun.Run(cmd.Context(), cfg, daemonrun.Options{
				LogLevel:      logLevel,
				Version:       version,
				SkipPreflight: skipPreflight,
			})
		},
	}
	cmd.Flags().StringVar(&logLevel, "log-level", "", "Override logging.level (debug, info, warn, error)")
	cmd.Flags().BoolVar(&skipPreflight, "skip-preflight", false, "Start without the startup checks")
	return cmd
}
