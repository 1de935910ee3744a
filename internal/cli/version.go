package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/monorkin/classroom-datagen/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.GetVersion())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
