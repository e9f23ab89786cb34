package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arloliu/flacarray/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Prints the version.",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "flacarray %s\n", version.String())
		return err
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
