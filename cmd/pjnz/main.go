// Package main provides the CLI entry point for pjnz.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fjelltopp/pjnz-go/internal/config"
	"github.com/fjelltopp/pjnz-go/internal/logging"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pjnz",
		Short: "Extract indicator tables from Spectrum PJNZ files",
		Long: `pjnz reads Spectrum PJNZ archives and builds the flat indicator
tables described by a set of schemas, writing them as CSV, JSON, XLSX
or SQLite.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}
			var err error
			cfg, err = config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			logger = logging.SetupWriter(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
			if cfg.ConfigFile != "" {
				logger.Debug("using config file", "path", cfg.ConfigFile)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: ./pjnz.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text, json")
	rootCmd.PersistentFlags().String("country", "", "Country name (default: taken from the archive name)")
	rootCmd.PersistentFlags().Int("first-year", 0, "First year column of year-indexed tables")
	rootCmd.PersistentFlags().Int("last-year", 0, "Last year column of year-indexed tables")

	rootCmd.AddCommand(newBuildCmd())
	rootCmd.AddCommand(newTagCmd())
	rootCmd.AddCommand(newIndicatorsCmd())
	rootCmd.AddCommand(newCheckCmd())

	return rootCmd
}
