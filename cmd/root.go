package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/pgschema/tsschema/cmd/plan"
	"github.com/pgschema/tsschema/internal/logger"
	"github.com/pgschema/tsschema/internal/version"
	"github.com/spf13/cobra"
)

var Debug bool

// Build-time variables set via ldflags
var (
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var RootCmd = &cobra.Command{
	Use:   "tsschema",
	Short: "TimescaleDB feature DDL compiler",
	Long: fmt.Sprintf(`tsschema compiles declarative TimescaleDB feature snapshots
(hypertables, rollup views, reorder and refresh policies) into the DDL
that moves a database from one snapshot to the next.

Version: %s@%s %s %s

Commands:
  plan     Generate the statements between two snapshots
  version  Show version information

Use "tsschema [command] --help" for more information about a command.`,
		version.App(), GitCommit, platform(), BuildDate),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogger()
	},
}

func init() {
	RootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "Enable debug logging")
	RootCmd.AddCommand(plan.PlanCmd)
	RootCmd.AddCommand(VersionCmd)
}

func setupLogger() {
	logger.SetGlobal(logger.New(os.Stderr, Debug), Debug)
}

// platform returns the OS/architecture combination
func platform() string {
	return runtime.GOOS + "/" + runtime.GOARCH
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
