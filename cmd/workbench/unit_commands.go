package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"workbench/internal/ipc"
)

func newUnitCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unit",
		Short: "Inspect stored units",
	}
	cmd.AddCommand(newUnitInfoCommand(ctx))
	cmd.AddCommand(newUnitPendingCommand(ctx))
	return cmd
}

func newUnitInfoCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "info <internal-id>",
		Short: "Show a unit and its biography",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.UnitInfo(args[0])
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, resp.Unit)
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderUnit(resp.Unit))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the unit as JSON")
	return cmd
}

func newUnitPendingCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "List units awaiting revision",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.PendingRevision()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(resp.Units) == 0 {
					fmt.Fprintln(out, "No units awaiting revision")
					return nil
				}
				fmt.Fprintln(out, renderPending(resp.Units))
				return nil
			})
		},
	}
}
