package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"kcci/src/internal/config"
	"kcci/src/internal/logging"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "kcci",
		Short: "Extract titles and authors from pasted bibliographic text",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log, err := logging.New(cfg.LogLevel, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			log.Info("directories", slog.String("cache_dir", cfg.CacheDir), slog.String("data_dir", cfg.DataDir))
			ctx := config.NewContext(cmd.Context(), cfg)
			cmd.SetContext(logging.NewContext(ctx, log))
			return nil
		},
	}
	root.AddCommand(newIngestCmd())
	root.AddCommand(newStrategiesCmd())
	root.AddCommand(newSchemaCmd())
	return root
}

func execute(args ...string) error {
	root := newRootCmd()
	if args != nil {
		root.SetArgs(args)
	}
	return root.Execute()
}

func main() {
	if err := execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
