package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is stamped with -ldflags "-X github.com/abhisek/skillpath/cmd.version=...".
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the skillpath version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "skillpath %s\n", version)
	},
}
