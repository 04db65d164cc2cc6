package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check that R and the specio package are available",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := cfg.SpecioService().Init(cmd.Context()); err != nil {
				return fmt.Errorf("model data service unavailable: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "specio available")
			return nil
		},
	}

	cmd.Flags().Bool("install", false, "Install missing R packages")
	cmd.Flags().String("rscript", "", "Rscript executable")

	return cmd
}
