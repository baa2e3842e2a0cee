package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"workbench/internal/store"
)

func newSeedCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Manage employees and production schemas",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Upsert employees and production schemas from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open seed: %w", err)
			}
			defer file.Close()

			st, err := store.Open(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			result, err := st.ImportSeed(cmd.Context(), file)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d employees and %d production schemas into %s\n",
				result.Employees, result.Schemas, st.Path())
			return nil
		},
	})
	return cmd
}
