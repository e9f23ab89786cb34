package cmd

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/arloliu/flacarray/internal/config"
	"github.com/arloliu/flacarray/internal/logging"
)

const (
	flagConfig   = "config"
	flagLogLevel = "log-level"
)

var rootCmd = &cobra.Command{
	Use:           "flacarray",
	Short:         "Compression benchmarks and tooling for flacarray",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String(flagConfig, config.DefaultPath, "Path to the TOML configuration file.")
	rootCmd.PersistentFlags().String(flagLogLevel, "", "Log level (debug, info, warn, error). Overrides the config file.")
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the configured file. A missing file at the default path
// yields the defaults.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString(flagConfig)
	if err != nil {
		return nil, err
	}
	cfg, err := config.ReadConfigFile(path, !cmd.Flags().Changed(flagConfig))
	if err != nil {
		return nil, errors.Wrap(err, "error loading configuration")
	}

	return cfg, nil
}

func newLogger(cmd *cobra.Command, cfg *config.Config) (zerolog.Logger, error) {
	level, err := cmd.Flags().GetString(flagLogLevel)
	if err != nil {
		return zerolog.Nop(), err
	}
	if level == "" {
		level = cfg.LogLevel
	}

	return logging.New(os.Stderr, logging.ParseLevel(level)), nil
}
