package cmd

import (
	"fmt"

	"github.com/pgschema/tsschema/internal/version"
	"github.com/spf13/cobra"
)

var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long:  "Display the version number of tsschema",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "tsschema v%s@%s %s %s\n", version.App(), GitCommit, platform(), BuildDate)
	},
}
