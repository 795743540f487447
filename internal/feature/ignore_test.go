package feature

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestShouldIgnore(t *testing.T) {
	patterns := []string{"temp_*", "test_*", "!test_keep"}

	tests := []struct {
		name string
		want bool
	}{
		{"temp_metrics", true},
		{"test_data", true},
		{"test_keep", false},
		{"metrics", false},
		{"my_temp_table", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldIgnore(tt.name, patterns); got != tt.want {
				t.Errorf("shouldIgnore(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}

	if shouldIgnore("anything", nil) {
		t.Error("empty pattern list should ignore nothing")
	}
	if !shouldIgnore("a[b", []string{"a[b"}) {
		t.Error("invalid glob should fall back to a literal match")
	}
}

func TestNilIgnoreConfig(t *testing.T) {
	var cfg *IgnoreConfig
	if cfg.ShouldIgnoreTable("x") || cfg.ShouldIgnoreHypertable("x") || cfg.ShouldIgnoreRollupView("x") ||
		cfg.ShouldIgnoreReorderPolicy("x") || cfg.ShouldIgnoreRefreshPolicy("x") {
		t.Error("nil config should ignore nothing")
	}
}

func TestSnapshotFilter(t *testing.T) {
	s := &Snapshot{
		Tables:      []*Table{{Schema: "public", Name: "metrics"}, {Schema: "public", Name: "temp_load"}},
		Hypertables: []*Hypertable{NewHypertable("public", "metrics", "ts"), NewHypertable("public", "temp_load", "ts")},
		RollupViews: []*RollupView{
			NewRollupView("public", "metrics_hourly", "public", "metrics", "1 hour", "ts"),
			NewRollupView("public", "scratch_hourly", "public", "metrics", "1 hour", "ts"),
		},
		ReorderPolicies: []*ReorderPolicy{NewReorderPolicy("public", "metrics", "metrics_ts_idx")},
		RefreshPolicies: []*RefreshPolicy{
			NewRefreshPolicy("public", "metrics_hourly", "1 day", "1 hour", "1 hour"),
			NewRefreshPolicy("public", "scratch_hourly", "1 day", "1 hour", "1 hour"),
		},
	}
	cfg := &IgnoreConfig{
		Tables:          []string{"temp_*"},
		Hypertables:     []string{"temp_*"},
		RollupViews:     []string{"scratch_*"},
		RefreshPolicies: []string{"*", "!metrics_*"},
	}

	got := s.Filter(cfg)

	keys := func(items []Keyed) []string {
		var out []string
		for _, item := range items {
			out = append(out, item.Key())
		}
		return out
	}
	var tables, hypertables, views, refresh []Keyed
	for _, x := range got.Tables {
		tables = append(tables, x)
	}
	for _, x := range got.Hypertables {
		hypertables = append(hypertables, x)
	}
	for _, x := range got.RollupViews {
		views = append(views, x)
	}
	for _, x := range got.RefreshPolicies {
		refresh = append(refresh, x)
	}

	want := map[string][]string{
		"tables":      {"public.metrics"},
		"hypertables": {"public.metrics"},
		"views":       {"public.metrics_hourly"},
		"refresh":     {"public.metrics_hourly"},
	}
	gotKeys := map[string][]string{
		"tables":      keys(tables),
		"hypertables": keys(hypertables),
		"views":       keys(views),
		"refresh":     keys(refresh),
	}
	if d := cmp.Diff(want, gotKeys); d != "" {
		t.Errorf("Filter() mismatch (-want +got):\n%s", d)
	}
	if len(got.ReorderPolicies) != 1 {
		t.Errorf("reorder policies should be untouched, got %d", len(got.ReorderPolicies))
	}

	if s.Filter(nil) != s {
		t.Error("nil config should return the snapshot unchanged")
	}
	var empty *Snapshot
	if got := empty.Filter(cfg); got == nil || len(got.Tables) != 0 {
		t.Error("nil snapshot should filter to an empty snapshot")
	}
}
