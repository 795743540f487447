// Package tsschema provides a programmatic API for compiling TimescaleDB
// feature snapshots into DDL. It offers the same plan workflow as the CLI:
// diff a previous snapshot against a desired one, then render the
// statements that reconcile them.
package tsschema

import (
	"fmt"

	"github.com/pgschema/tsschema/internal/diff"
	"github.com/pgschema/tsschema/internal/feature"
	"github.com/pgschema/tsschema/internal/ignore"
	"github.com/pgschema/tsschema/internal/plan"
)

// Compile returns the statements that move a database from previous to
// desired, in execution order. Either snapshot may be nil, meaning no
// features. Compile is pure and safe to call concurrently.
func Compile(previous, desired *Snapshot, opts Options) ([]string, error) {
	return diff.Compile(previous, desired, opts)
}

// CompileSnapshots is like Compile but returns the full plan, which can also
// render human-readable and JSON summaries.
func CompileSnapshots(previous, desired *Snapshot, opts Options) (*Plan, error) {
	return plan.Generate(previous, desired, opts)
}

// FileOptions configures how CompileFiles loads its inputs.
type FileOptions struct {
	Options
	PreviousFile string // Path to the previous snapshot (optional)
	DesiredFile  string // Path to the desired snapshot (required)
	IgnoreFile   string // Path to an ignore file (optional; missing files are skipped)
}

// CompileFiles loads snapshot files in TOML, YAML or JSON, applies the ignore
// file and compiles the plan.
func CompileFiles(opts FileOptions) (*Plan, error) {
	if opts.DesiredFile == "" {
		return nil, fmt.Errorf("desired snapshot file is required")
	}

	var ignoreConfig *feature.IgnoreConfig
	if opts.IgnoreFile != "" {
		cfg, err := ignore.LoadIgnoreFileFromPath(opts.IgnoreFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load ignore file: %w", err)
		}
		ignoreConfig = cfg
	}

	previous := &Snapshot{}
	if opts.PreviousFile != "" {
		s, err := feature.LoadSnapshot(opts.PreviousFile)
		if err != nil {
			return nil, err
		}
		previous = s
	}

	desired, err := feature.LoadSnapshot(opts.DesiredFile)
	if err != nil {
		return nil, err
	}

	return plan.Generate(previous.Filter(ignoreConfig), desired.Filter(ignoreConfig), opts.Options)
}
