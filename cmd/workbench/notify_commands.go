package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"workbench/internal/ipc"
)

func newNotifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "notify <level> <message>",
		Short: "Show a message on the operator screens",
		Long:  "Emit a notification on the station bus. Level is one of default, info, success, warning, error.",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			message := strings.Join(args[1:], " ")
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Notify(args[0], message)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Message emitted to %d subscribers\n", resp.Delivered)
				return nil
			})
		},
	}
}

func newTestNotifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "test-notify",
		Short: "Send a test push notification",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.TestNotification()
				if err != nil {
					return err
				}
				if resp == nil {
					return errors.New("missing notification response")
				}
				switch {
				case resp.Message != "":
					fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
				case resp.Sent:
					fmt.Fprintln(cmd.OutOrStdout(), "Test notification sent")
				default:
					fmt.Fprintln(cmd.OutOrStdout(), "Notification not sent")
				}
				return nil
			})
		},
	}
}
