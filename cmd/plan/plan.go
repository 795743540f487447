package plan

import (
	"fmt"
	"os"

	"github.com/pgschema/tsschema/cmd/util"
	"github.com/pgschema/tsschema/internal/diff"
	"github.com/pgschema/tsschema/internal/feature"
	"github.com/pgschema/tsschema/internal/ignore"
	"github.com/pgschema/tsschema/internal/logger"
	"github.com/pgschema/tsschema/internal/plan"
	"github.com/pgschema/tsschema/internal/validate"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	planDesired        string
	planPrevious       string
	planMode           string
	planStrict         bool
	planNoLicenseGuard bool
	planValidate       bool
	planIgnoreFile     string
	outputHuman        string
	outputJSON         string
	outputSQL          string
	planNoColor        bool
)

var PlanCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate the statements between two feature snapshots",
	Long: `Generate the DDL that moves a database from the previous feature snapshot
(--previous, empty when omitted) to the desired one (--desired). Snapshots are
TOML, YAML or JSON files.`,
	RunE:         runPlan,
	SilenceUsage: true,
	PreRunE:      applyEnvVars,
}

func init() {
	PlanCmd.Flags().StringVar(&planDesired, "desired", "", "Path to the desired snapshot file (required)")
	PlanCmd.Flags().StringVar(&planPrevious, "previous", "", "Path to the previous snapshot file (optional)")
	PlanCmd.Flags().StringVar(&planMode, "mode", string(diff.ModeExecutable), "Render mode: executable or embedded (env: TSSCHEMA_MODE)")
	PlanCmd.Flags().BoolVar(&planStrict, "strict", false, "Fail on malformed aggregate specs instead of skipping them (env: TSSCHEMA_STRICT)")
	PlanCmd.Flags().BoolVar(&planNoLicenseGuard, "no-license-guard", false, "Emit compression and chunk skipping DDL without the license check")
	PlanCmd.Flags().BoolVar(&planValidate, "validate", false, "Check every generated statement with the PostgreSQL parser")
	PlanCmd.Flags().StringVar(&planIgnoreFile, "ignore", ignore.IgnoreFileName, "Path to the ignore file")

	// Output flags
	PlanCmd.Flags().StringVar(&outputHuman, "output-human", "", "Output human-readable format to stdout or file path")
	PlanCmd.Flags().StringVar(&outputJSON, "output-json", "", "Output JSON format to stdout or file path")
	PlanCmd.Flags().StringVar(&outputSQL, "output-sql", "", "Output SQL format to stdout or file path")
	PlanCmd.Flags().BoolVar(&planNoColor, "no-color", false, "Disable colored output")

	PlanCmd.MarkFlagRequired("desired")
}

func applyEnvVars(cmd *cobra.Command, args []string) error {
	util.ApplyEnvString(cmd, "mode", "TSSCHEMA_MODE", &planMode)
	util.ApplyEnvBool(cmd, "strict", "TSSCHEMA_STRICT", &planStrict)
	return nil
}

func runPlan(cmd *cobra.Command, args []string) error {
	mode, err := diff.ParseMode(planMode)
	if err != nil {
		return err
	}

	config := &PlanConfig{
		DesiredFile:  planDesired,
		PreviousFile: planPrevious,
		IgnoreFile:   planIgnoreFile,
		Validate:     planValidate,
		Options: diff.Options{
			Mode:                mode,
			StrictAggregates:    planStrict,
			DisableLicenseGuard: planNoLicenseGuard,
		},
	}

	migrationPlan, err := GeneratePlan(config)
	if err != nil {
		return err
	}

	// Determine which outputs to generate
	outputs, err := determineOutputs()
	if err != nil {
		return err
	}

	// Process each output
	for _, output := range outputs {
		if err := processOutput(migrationPlan, output); err != nil {
			return err
		}
	}

	return nil
}

// PlanConfig holds configuration for plan generation
type PlanConfig struct {
	DesiredFile  string
	PreviousFile string
	IgnoreFile   string
	Validate     bool
	Options      diff.Options
}

// GeneratePlan loads both snapshots, applies the ignore file and compiles the plan
func GeneratePlan(config *PlanConfig) (*plan.Plan, error) {
	ignoreConfig, err := ignore.LoadIgnoreFileFromPath(config.IgnoreFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", config.IgnoreFile, err)
	}

	previous, desired, err := loadSnapshots(config.PreviousFile, config.DesiredFile)
	if err != nil {
		return nil, err
	}

	previous = previous.Filter(ignoreConfig)
	desired = desired.Filter(ignoreConfig)

	migrationPlan, err := plan.Generate(previous, desired, config.Options)
	if err != nil {
		return nil, err
	}

	if config.Validate {
		if err := validatePlan(migrationPlan, previous, desired, config.Options); err != nil {
			return nil, err
		}
	}

	return migrationPlan, nil
}

// loadSnapshots reads the previous and desired snapshot files concurrently.
// An empty previous path stands for a database without any feature.
func loadSnapshots(previousFile, desiredFile string) (*feature.Snapshot, *feature.Snapshot, error) {
	var previous, desired *feature.Snapshot
	var eg errgroup.Group

	eg.Go(func() error {
		if previousFile == "" {
			previous = &feature.Snapshot{}
			return nil
		}
		s, err := feature.LoadSnapshot(previousFile)
		if err != nil {
			return err
		}
		previous = s
		return nil
	})

	eg.Go(func() error {
		s, err := feature.LoadSnapshot(desiredFile)
		if err != nil {
			return err
		}
		desired = s
		return nil
	})

	if err := eg.Wait(); err != nil {
		return nil, nil, err
	}
	return previous, desired, nil
}

// validatePlan parses the statements of the plan. Embedded text is not valid
// SQL, so an embedded plan is checked through its executable rendering.
func validatePlan(p *plan.Plan, previous, desired *feature.Snapshot, opts diff.Options) error {
	stmts := p.Statements()
	if p.Mode != diff.ModeExecutable {
		opts.Mode = diff.ModeExecutable
		executable, err := plan.Generate(previous, desired, opts)
		if err != nil {
			return err
		}
		stmts = executable.Statements()
	}

	if err := validate.Statements(stmts); err != nil {
		return fmt.Errorf("generated statements failed validation: %w", err)
	}
	logger.Component("plan").Debug("Validated statements", "count", len(stmts))
	return nil
}

// outputSpec represents a single output specification
type outputSpec struct {
	format string // "human", "json", or "sql"
	target string // "stdout" or file path
}

// determineOutputs parses the output flags and returns the list of outputs to generate
func determineOutputs() ([]outputSpec, error) {
	var outputs []outputSpec
	stdoutCount := 0

	// Check each output flag
	if outputHuman != "" {
		if outputHuman == "stdout" {
			stdoutCount++
		}
		outputs = append(outputs, outputSpec{format: "human", target: outputHuman})
	}

	if outputJSON != "" {
		if outputJSON == "stdout" {
			stdoutCount++
		}
		outputs = append(outputs, outputSpec{format: "json", target: outputJSON})
	}

	if outputSQL != "" {
		if outputSQL == "stdout" {
			stdoutCount++
		}
		outputs = append(outputs, outputSpec{format: "sql", target: outputSQL})
	}

	// Validate only one stdout
	if stdoutCount > 1 {
		return nil, fmt.Errorf("only one output format can use stdout")
	}

	// Default behavior: if no outputs specified, output human to stdout
	if len(outputs) == 0 {
		outputs = append(outputs, outputSpec{format: "human", target: "stdout"})
	}

	return outputs, nil
}

// processOutput writes the plan in the specified format to the target destination
func processOutput(migrationPlan *plan.Plan, output outputSpec) error {
	var content string
	var err error

	switch output.format {
	case "human":
		// For human format, use colored output when writing to stdout, unless explicitly disabled
		useColor := output.target == "stdout" && !planNoColor
		content = migrationPlan.HumanColored(useColor)
	case "json":
		content, err = migrationPlan.ToJSON()
		if err != nil {
			return fmt.Errorf("failed to generate JSON output: %w", err)
		}
		content += "\n"
	case "sql":
		content = migrationPlan.ToSQL(true)
	default:
		return fmt.Errorf("unknown output format: %s", output.format)
	}

	if output.target == "stdout" {
		fmt.Print(content)
	} else {
		if err := os.WriteFile(output.target, []byte(content), 0644); err != nil {
			return fmt.Errorf("failed to write %s output to %s: %w", output.format, output.target, err)
		}
	}

	return nil
}
