package feature

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const tomlSnapshot = `
[[hypertables]]
schema = "public"
name = "metrics"
time_column = "ts"
chunk_interval = "1 day"
segment_by = ["device_id"]
dimensions = [
  { kind = "hash", column = "device_id", partitions = 4 },
  { kind = "range", column = "seq", interval = 86400000 },
]

[[rollup_views]]
schema = "public"
name = "metrics_hourly"
source_schema = "public"
source_table = "metrics"
bucket_width = "1 hour"
bucket_column = "ts"
group_by_bucket = true
aggregates = ["avg_v:Avg:v", "open:First:v"]
group_by = [{ column = "device_id" }]

[[reorder_policies]]
schema = "public"
table = "metrics"
index_name = "metrics_ts_idx"
max_retries = 3

[[refresh_policies]]
schema = "public"
view = "metrics_hourly"
start_offset = "1 month"
end_offset = 3600
schedule_interval = "1 hour"
refresh_newest_first = false
`

const yamlSnapshot = `
hypertables:
  - schema: public
    name: metrics
    time_column: ts
    chunk_interval: 1 day
    segment_by: [device_id]
    dimensions:
      - {kind: hash, column: device_id, partitions: 4}
      - {kind: range, column: seq, interval: 86400000}
rollup_views:
  - schema: public
    name: metrics_hourly
    source_schema: public
    source_table: metrics
    bucket_width: 1 hour
    bucket_column: ts
    group_by_bucket: true
    aggregates: ["avg_v:Avg:v", "open:First:v"]
    group_by:
      - column: device_id
reorder_policies:
  - schema: public
    table: metrics
    index_name: metrics_ts_idx
    max_retries: 3
refresh_policies:
  - schema: public
    view: metrics_hourly
    start_offset: 1 month
    end_offset: 3600
    schedule_interval: 1 hour
    refresh_newest_first: false
`

const jsonSnapshot = `{
  "hypertables": [{
    "schema": "public", "name": "metrics", "time_column": "ts",
    "chunk_interval": "1 day", "segment_by": ["device_id"],
    "dimensions": [
      {"kind": "hash", "column": "device_id", "partitions": 4},
      {"kind": "range", "column": "seq", "interval": 86400000}
    ]
  }],
  "rollup_views": [{
    "schema": "public", "name": "metrics_hourly",
    "source_schema": "public", "source_table": "metrics",
    "bucket_width": "1 hour", "bucket_column": "ts", "group_by_bucket": true,
    "aggregates": ["avg_v:Avg:v", "open:First:v"],
    "group_by": [{"column": "device_id"}]
  }],
  "reorder_policies": [{
    "schema": "public", "table": "metrics", "index_name": "metrics_ts_idx", "max_retries": 3
  }],
  "refresh_policies": [{
    "schema": "public", "view": "metrics_hourly",
    "start_offset": "1 month", "end_offset": 3600,
    "schedule_interval": "1 hour", "refresh_newest_first": false
  }]
}`

func expectedSnapshot() *Snapshot {
	return &Snapshot{
		Hypertables: []*Hypertable{{
			Schema:        "public",
			Name:          "metrics",
			TimeColumn:    "ts",
			ChunkInterval: "1 day",
			SegmentBy:     []string{"device_id"},
			Dimensions: []Dimension{
				HashDimension("device_id", 4),
				RangeDimension("seq", CountInterval(86400000)),
			},
		}},
		RollupViews: []*RollupView{{
			Schema:        "public",
			Name:          "metrics_hourly",
			SourceSchema:  "public",
			SourceTable:   "metrics",
			BucketWidth:   "1 hour",
			BucketColumn:  "ts",
			GroupByBucket: true,
			Aggregates:    []string{"avg_v:Avg:v", "open:First:v"},
			GroupBy:       []GroupByColumn{{Column: "device_id"}},
		}},
		ReorderPolicies: []*ReorderPolicy{{
			Schema:     "public",
			Table:      "metrics",
			IndexName:  "metrics_ts_idx",
			MaxRetries: Int(3),
		}},
		RefreshPolicies: []*RefreshPolicy{{
			Schema:             "public",
			View:               "metrics_hourly",
			StartOffset:        "1 month",
			EndOffset:          CountInterval(3600),
			ScheduleInterval:   "1 hour",
			RefreshNewestFirst: Bool(false),
		}},
	}
}

func TestDecodeSnapshot(t *testing.T) {
	tests := []struct {
		ext  string
		data string
	}{
		{ext: ".toml", data: tomlSnapshot},
		{ext: ".yaml", data: yamlSnapshot},
		{ext: ".YML", data: yamlSnapshot},
		{ext: ".json", data: jsonSnapshot},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			got, err := DecodeSnapshot([]byte(tt.data), tt.ext)
			if err != nil {
				t.Fatalf("DecodeSnapshot() error = %v", err)
			}
			if d := cmp.Diff(expectedSnapshot(), got); d != "" {
				t.Errorf("DecodeSnapshot() mismatch (-want +got):\n%s", d)
			}
		})
	}
}

func TestDecodeSnapshotErrors(t *testing.T) {
	if _, err := DecodeSnapshot([]byte("{}"), ".xml"); err == nil || !strings.Contains(err.Error(), "unsupported snapshot format") {
		t.Errorf("expected unsupported format error, got %v", err)
	}
	bad := "[[hypertables]]\nname = \"m\"\nchunk_interval = true\n"
	if _, err := DecodeSnapshot([]byte(bad), ".toml"); err == nil {
		t.Error("expected error for boolean chunk interval")
	}
}

func TestLoadSnapshot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "desired.toml")
	if err := os.WriteFile(path, []byte(tomlSnapshot), 0644); err != nil {
		t.Fatalf("failed to write snapshot: %v", err)
	}

	got, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot() error = %v", err)
	}
	if len(got.Hypertables) != 1 || got.Hypertables[0].Key() != "public.metrics" {
		t.Errorf("unexpected hypertables: %+v", got.Hypertables)
	}

	if _, err := LoadSnapshot(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}
