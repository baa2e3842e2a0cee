package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"workbench/internal/ipc"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon and station status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				status, err := client.Status()
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, status)
				}
				renderStatus(newStatusPrinter(cmd.OutOrStdout()), status)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print status as JSON")
	return cmd
}

func renderStatus(p *statusPrinter, status *ipc.StatusResponse) {
	p.section("Daemon")
	if status.Running {
		p.line("Daemon", statusOK, "running (pid "+strconv.Itoa(status.PID)+")")
	} else {
		p.line("Daemon", statusError, "not running")
	}
	p.line("API", statusInfo, valueOrDash(status.APIAddress))
	p.line("Database", statusInfo, status.DatabasePath)
	for _, dep := range status.Dependencies {
		kind, msg := statusOK, "available"
		if !dep.Available {
			kind, msg = statusError, "missing"
			if dep.Optional {
				kind = statusWarn
			}
			if dep.Detail != "" {
				msg += ": " + dep.Detail
			}
		}
		p.line(dep.Name, kind, msg)
	}
	p.blank()
	p.section("Station")
	p.state(status.Workbench.State)
	fmt.Fprintln(p.out, renderSnapshot(status.Workbench))
}
