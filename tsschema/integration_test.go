package tsschema

import (
	"context"
	"testing"

	"github.com/pgschema/tsschema/internal/validate"
	"github.com/pgschema/tsschema/testutil"
)

func metricsTable() *Table {
	return &Table{
		Schema: "public",
		Name:   "metrics",
		Columns: []Column{
			{Name: "ts", DataType: "timestamptz", NotNull: true},
			{Name: "device_id", DataType: "integer", NotNull: true},
			{Name: "value", DataType: "double precision"},
		},
	}
}

// TestCompileAgainstTimescale applies each compiled step to a real TimescaleDB
// and checks that recompiling the reached state yields nothing.
func TestCompileAgainstTimescale(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	container := testutil.SetupTimescaleContainer(ctx, t)
	defer container.Terminate(ctx, t)

	hypertable := NewHypertable("public", "metrics", "ts")
	hypertable.ChunkInterval = "1 day"
	hypertable.Dimensions = []Dimension{HashDimension("device_id", 4)}

	base := &Snapshot{
		Tables:      []*Table{metricsTable()},
		Hypertables: []*Hypertable{hypertable},
	}

	compressed := *hypertable
	compressed.SegmentBy = []string{"device_id"}
	compressed.OrderBy = []string{"ts DESC"}

	view := NewRollupView("public", "metrics_hourly", "public", "metrics", "1 hour", "ts")
	view.Aggregates = []string{
		Aggregate("avg_value", AggregateAvg, "value"),
		Aggregate("last_value", AggregateLast, "value"),
	}
	view.GroupBy = []GroupByColumn{{Column: "device_id"}}
	view.WithNoData = true

	features := &Snapshot{
		Tables:          []*Table{metricsTable()},
		Hypertables:     []*Hypertable{&compressed},
		RollupViews:     []*RollupView{view},
		ReorderPolicies: []*ReorderPolicy{NewReorderPolicy("public", "metrics", "metrics_device_ts_idx")},
		RefreshPolicies: []*RefreshPolicy{NewRefreshPolicy("public", "metrics_hourly", "3 days", "1 hour", "30 minutes")},
	}

	tunedReorder := NewReorderPolicy("public", "metrics", "metrics_device_ts_idx")
	tunedReorder.ScheduleInterval = "12 hours"
	tuned := *features
	tuned.ReorderPolicies = []*ReorderPolicy{tunedReorder}

	steps := []struct {
		name     string
		previous *Snapshot
		desired  *Snapshot
		before   []string
	}{
		{name: "create hypertable", previous: nil, desired: base},
		{
			name:     "add features",
			previous: base,
			desired:  features,
			before:   []string{`CREATE INDEX metrics_device_ts_idx ON public.metrics (device_id, ts DESC)`},
		},
		{name: "tune reorder policy", previous: features, desired: &tuned},
		{name: "drop features", previous: &tuned, desired: base},
	}

	for _, step := range steps {
		t.Run(step.name, func(t *testing.T) {
			container.ExecAll(ctx, t, step.before)

			stmts, err := Compile(step.previous, step.desired, Options{})
			if err != nil {
				t.Fatalf("Compile() error = %v", err)
			}
			if len(stmts) == 0 {
				t.Fatal("expected statements")
			}
			if err := validate.Statements(stmts); err != nil {
				t.Fatalf("generated statements do not parse: %v", err)
			}
			container.ExecAll(ctx, t, stmts)

			again, err := Compile(step.desired, step.desired, Options{})
			if err != nil {
				t.Fatalf("Compile() error = %v", err)
			}
			if len(again) != 0 {
				t.Errorf("expected no statements for an unchanged snapshot, got %v", again)
			}
		})
	}
}
