package cmd

import (
	"github.com/spf13/cobra"

	"github.com/arloliu/flacarray/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Prints the default configuration file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return config.WriteDefault(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
