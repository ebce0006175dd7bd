package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cliVersion = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the docgen version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "docgen %s\n", cliVersion)
	},
}
