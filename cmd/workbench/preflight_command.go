package main

import (
	"errors"

	"github.com/spf13/cobra"

	"workbench/internal/ipc"
	"workbench/internal/preflight"
)

func newPreflightCommand(ctx *commandContext) *cobra.Command {
	var viaDaemon bool
	cmd := &cobra.Command{
		Use:   "preflight",
		Short: "Check directories, binaries, and connectivity",
		Long:  "Run the startup checks locally, or inside the running daemon with --daemon.",
		RunE: func(cmd *cobra.Command, args []string) error {
			var checks []ipc.PreflightCheck
			if viaDaemon {
				err := ctx.withClient(func(client *ipc.Client) error {
					resp, err := client.Preflight()
					if err != nil {
						return err
					}
					checks = resp.Checks
					return nil
				})
				if err != nil {
					return err
				}
			} else {
				cfg, err := ctx.ensureConfig()
				if err != nil {
					return err
				}
				for _, r := range preflight.RunAll(cmd.Context(), cfg) {
					checks = append(checks, ipc.PreflightCheck{Name: r.Name, Passed: r.Passed, Detail: r.Detail, Fatal: r.Fatal})
				}
			}

			p := newStatusPrinter(cmd.OutOrStdout())
			p.section("Preflight")
			failedFatal := false
			for _, check := range checks {
				kind := statusOK
				if !check.Passed {
					kind = statusWarn
					if check.Fatal {
						kind = statusError
						failedFatal = true
					}
				}
				p.line(check.Name, kind, check.Detail)
			}
			if failedFatal {
				return errors.New("preflight failed")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&viaDaemon, "daemon", false, "Run the checks inside the running daemon")
	return cmd
}
