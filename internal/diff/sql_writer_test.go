package diff

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pgschema/tsschema/internal/feature"
)

func TestRenderSteps(t *testing.T) {
	h := feature.NewHypertable("public", "metrics", "ts")
	h.Dimensions = []feature.Dimension{feature.HashDimension("device_id", 4)}
	desired := &feature.Snapshot{
		Hypertables:     []*feature.Hypertable{h},
		ReorderPolicies: []*feature.ReorderPolicy{feature.NewReorderPolicy("public", "metrics", "idx")},
	}

	ops, err := Diff(nil, desired)
	if err != nil {
		t.Fatalf("Diff() error = %v", err)
	}
	steps, err := GeneratePlanSteps(ops, Options{})
	if err != nil {
		t.Fatalf("GeneratePlanSteps() error = %v", err)
	}

	tests := []struct {
		name            string
		includeComments bool
		want            string
	}{
		{
			name:            "with comments",
			includeComments: true,
			want: `--
-- Name: public.metrics; Type: hypertable; Operation: create
--

SELECT create_hypertable('public."metrics"', 'ts');
SELECT add_dimension('public."metrics"', by_hash('device_id', 4));

--
-- Name: public.metrics; Type: reorder_policy; Operation: create
--

SELECT add_reorder_policy('public."metrics"', 'idx');
`,
		},
		{
			name: "without comments",
			want: `SELECT create_hypertable('public."metrics"', 'ts');
SELECT add_dimension('public."metrics"', by_hash('device_id', 4));

SELECT add_reorder_policy('public."metrics"', 'idx');
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if d := cmp.Diff(tt.want, RenderSteps(steps, tt.includeComments)); d != "" {
				t.Errorf("RenderSteps() mismatch (-want +got):\n%s", d)
			}
		})
	}
}
