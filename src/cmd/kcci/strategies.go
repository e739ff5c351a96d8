package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"kcci/src/internal/config"
	"kcci/src/internal/ingest"
)

func newStrategiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "strategies",
		Short:        "List the block segmentation strategies",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			current := ingest.DefaultStrategy
			if cfg := config.FromContext(cmd.Context()); cfg != nil && cfg.Strategy != "" {
				current = cfg.Strategy
			}
			for _, name := range ingest.Names() {
				mark := " "
				if name == current {
					mark = "*"
				}
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", mark, name); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
