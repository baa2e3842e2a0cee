package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"workbench/internal/config"
	"workbench/internal/ipc"
)

// newHIDCommand emulates the station readers, for stations without hardware.
func newHIDCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hid",
		Short: "Send emulated RFID or barcode readings to the daemon",
	}
	cmd.AddCommand(newHIDReadingCommand(ctx, "rfid <card>", "Emulate an RFID card tap",
		func(cfg *config.Config) string { return cfg.HIDDevices.RFIDReader }))
	cmd.AddCommand(newHIDReadingCommand(ctx, "barcode <code>", "Emulate a barcode scan",
		func(cfg *config.Config) string { return cfg.HIDDevices.BarcodeReader }))
	return cmd
}

func newHIDReadingCommand(ctx *commandContext, use, short string, sender func(*config.Config) string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			event := ipc.HIDEventRequest{
				String:    strings.TrimSpace(args[0]),
				Name:      sender(cfg),
				Timestamp: strconv.FormatFloat(float64(time.Now().UnixNano())/1e9, 'f', 6, 64),
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.HIDEvent(event)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s; station is now %s\n", resp.Detail, resp.State)
				return nil
			})
		},
	}
}
