package diff

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/google/go-cmp/cmp"
	"github.com/pgschema/tsschema/internal/feature"
)

// caseOptions is the optional options.toml of a file-based test case
type caseOptions struct {
	Mode             string `toml:"mode"`
	StrictAggregates bool   `toml:"strict_aggregates"`
	NoLicenseGuard   bool   `toml:"no_license_guard"`
}

// TestDiffFromFiles runs file-based diff tests from the testdata directory.
// Each case directory holds desired.toml, an optional previous.toml, an
// optional options.toml and the expected plan.sql, one statement per line.
//
// Test filtering can be controlled using the TSSCHEMA_TEST_FILTER environment variable:
//
// Examples:
//
//	# Run all tests under rollup_view/ (directory prefix with slash)
//	TSSCHEMA_TEST_FILTER="rollup_view/" go test -v ./internal/diff
//
//	# Run a specific test
//	TSSCHEMA_TEST_FILTER="reorder_policy/alter_schedule" go test -v ./internal/diff
func TestDiffFromFiles(t *testing.T) {
	testdataDir := filepath.Join("../../testdata/diff")

	if _, err := os.Stat(testdataDir); os.IsNotExist(err) {
		t.Skip("testdata directory does not exist, skipping file-based tests")
		return
	}

	testFilter := os.Getenv("TSSCHEMA_TEST_FILTER")

	err := filepath.Walk(testdataDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}

		desiredFile := filepath.Join(path, "desired.toml")
		if _, err := os.Stat(desiredFile); os.IsNotExist(err) {
			return nil
		}

		relPath, _ := filepath.Rel(testdataDir, path)
		testName := strings.ReplaceAll(relPath, string(os.PathSeparator), "_")

		if testFilter != "" && !matchesFilter(relPath, testFilter) {
			return nil
		}

		t.Run(testName, func(t *testing.T) {
			runFileBasedDiffTest(t, path)
		})

		return nil
	})

	if err != nil {
		t.Fatalf("Failed to walk testdata directory: %v", err)
	}
}

// runFileBasedDiffTest executes a single file-based diff test
func runFileBasedDiffTest(t *testing.T, dir string) {
	var previous *feature.Snapshot
	if _, err := os.Stat(filepath.Join(dir, "previous.toml")); err == nil {
		previous = loadSnapshot(t, filepath.Join(dir, "previous.toml"))
	}
	desired := loadSnapshot(t, filepath.Join(dir, "desired.toml"))

	var caseOpts caseOptions
	if _, err := os.Stat(filepath.Join(dir, "options.toml")); err == nil {
		if _, err := toml.DecodeFile(filepath.Join(dir, "options.toml"), &caseOpts); err != nil {
			t.Fatalf("Failed to read options.toml: %v", err)
		}
	}
	mode, err := ParseMode(caseOpts.Mode)
	if err != nil {
		t.Fatalf("Invalid mode in options.toml: %v", err)
	}
	opts := Options{
		Mode:                mode,
		StrictAggregates:    caseOpts.StrictAggregates,
		DisableLicenseGuard: caseOpts.NoLicenseGuard,
	}

	expected, err := os.ReadFile(filepath.Join(dir, "plan.sql"))
	if err != nil {
		t.Fatalf("Failed to read plan.sql: %v", err)
	}

	stmts, err := Compile(previous, desired, opts)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	want := normalizeSQL(string(expected))
	got := normalizeSQL(strings.Join(stmts, "\n"))
	if got != want {
		t.Errorf("Plan SQL mismatch (-want +got):\n%s", cmp.Diff(strings.Split(want, "\n"), strings.Split(got, "\n")))
	}

	// Compiling the desired state against itself yields nothing
	again, err := Compile(desired, desired, opts)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if len(again) != 0 {
		t.Errorf("expected no statements for an unchanged snapshot, got:\n%s", strings.Join(again, "\n"))
	}
}

func loadSnapshot(t *testing.T, path string) *feature.Snapshot {
	t.Helper()
	s, err := feature.LoadSnapshot(path)
	if err != nil {
		t.Fatalf("Failed to load %s: %v", path, err)
	}
	return s
}

// matchesFilter checks if a test should run based on the filter pattern
// It supports:
// - Directory prefix with slash: "rollup_view/" (matches all tests under rollup_view/)
// - Specific test pattern: "rollup_view/create" (matches specific test under rollup_view/)
// - Prefix pattern: "rollup_view/alter" (matches tests under rollup_view/ that start with alter)
func matchesFilter(relPath, filter string) bool {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		return true
	}

	if strings.HasSuffix(filter, "/") {
		return strings.HasPrefix(relPath+"/", filter)
	}

	if strings.Contains(filter, "/") {
		return strings.HasPrefix(relPath, filter)
	}

	return strings.Contains(relPath, filter)
}

// normalizeSQL normalizes SQL for comparison by trimming whitespace and removing empty lines
func normalizeSQL(sql string) string {
	lines := strings.Split(sql, "\n")
	var normalizedLines []string

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			normalizedLines = append(normalizedLines, trimmed)
		}
	}

	return strings.Join(normalizedLines, "\n")
}

func TestDiffOperations(t *testing.T) {
	start := feature.NewReorderPolicy("public", "metrics", "metrics_ts_idx")
	moved := feature.NewReorderPolicy("public", "metrics", "metrics_device_idx")
	view := feature.NewRollupView("public", "hourly", "public", "metrics", "1 hour", "ts")
	wider := feature.NewRollupView("public", "hourly", "public", "metrics", "1 day", "ts")
	refresh := feature.NewRefreshPolicy("public", "hourly", "3 days", "1 hour", "30 minutes")
	table := &feature.Table{Schema: "public", Name: "metrics"}
	hypertable := feature.NewHypertable("public", "metrics", "ts")

	type opSummary struct {
		Kind   Kind
		Action Action
		Path   string
	}

	tests := []struct {
		name     string
		previous *feature.Snapshot
		desired  *feature.Snapshot
		want     []opSummary
	}{
		{
			name: "both empty",
		},
		{
			name:     "unchanged features still alter",
			previous: &feature.Snapshot{Hypertables: []*feature.Hypertable{hypertable}},
			desired:  &feature.Snapshot{Hypertables: []*feature.Hypertable{hypertable}},
			want:     []opSummary{{KindHypertable, ActionAlter, "public.metrics"}},
		},
		{
			name:     "reorder index change recreates",
			previous: &feature.Snapshot{ReorderPolicies: []*feature.ReorderPolicy{start}},
			desired:  &feature.Snapshot{ReorderPolicies: []*feature.ReorderPolicy{moved}},
			want: []opSummary{
				{KindReorderPolicy, ActionDrop, "public.metrics"},
				{KindReorderPolicy, ActionCreate, "public.metrics"},
			},
		},
		{
			name: "table drop swallows dependent drops",
			previous: &feature.Snapshot{
				Tables:          []*feature.Table{table},
				Hypertables:     []*feature.Hypertable{hypertable},
				ReorderPolicies: []*feature.ReorderPolicy{start},
				RollupViews:     []*feature.RollupView{view},
				RefreshPolicies: []*feature.RefreshPolicy{refresh},
			},
			desired: &feature.Snapshot{},
			want:    []opSummary{{KindTable, ActionDrop, "public.metrics"}},
		},
		{
			name: "view recreate re-adds refresh policy",
			previous: &feature.Snapshot{
				RollupViews:     []*feature.RollupView{view},
				RefreshPolicies: []*feature.RefreshPolicy{refresh},
			},
			desired: &feature.Snapshot{
				RollupViews:     []*feature.RollupView{wider},
				RefreshPolicies: []*feature.RefreshPolicy{refresh},
			},
			want: []opSummary{
				{KindRollupView, ActionAlter, "public.hourly"},
				{KindRefreshPolicy, ActionCreate, "public.hourly"},
			},
		},
		{
			name: "view drop swallows refresh drop",
			previous: &feature.Snapshot{
				RollupViews:     []*feature.RollupView{view},
				RefreshPolicies: []*feature.RefreshPolicy{refresh},
			},
			desired: nil,
			want:    []opSummary{{KindRollupView, ActionDrop, "public.hourly"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ops, err := Diff(tt.previous, tt.desired)
			if err != nil {
				t.Fatalf("Diff() error = %v", err)
			}
			var got []opSummary
			for _, op := range ops {
				got = append(got, opSummary{op.Kind(), op.Action(), op.Path()})
			}
			if d := cmp.Diff(tt.want, got); d != "" {
				t.Errorf("Diff() mismatch (-want +got):\n%s", d)
			}
		})
	}
}

func TestDiffDuplicateIdentity(t *testing.T) {
	h := feature.NewHypertable("public", "metrics", "ts")
	_, err := Diff(nil, &feature.Snapshot{Hypertables: []*feature.Hypertable{h, h}})
	if err == nil || !strings.Contains(err.Error(), `duplicate descriptor "public.metrics"`) {
		t.Errorf("expected duplicate descriptor error, got %v", err)
	}
}
