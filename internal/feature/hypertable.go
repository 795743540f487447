package feature

import (
	"fmt"
	"strings"
)

// DimensionKind identifies the partitioning function of a Dimension
type DimensionKind string

const (
	DimensionHash  DimensionKind = "hash"
	DimensionRange DimensionKind = "range"
)

// Dimension is an additional partitioning axis. Hash dimensions use
// Partitions, range dimensions use Interval.
type Dimension struct {
	Kind       DimensionKind `json:"kind" toml:"kind" yaml:"kind"`
	Column     string        `json:"column" toml:"column" yaml:"column"`
	Partitions int           `json:"partitions,omitempty" toml:"partitions,omitempty" yaml:"partitions,omitempty"`
	Interval   Interval      `json:"interval,omitempty" toml:"interval,omitempty" yaml:"interval,omitempty"`
}

// HashDimension builds a hash dimension
func HashDimension(column string, partitions int) Dimension {
	return Dimension{Kind: DimensionHash, Column: column, Partitions: partitions}
}

// RangeDimension builds a range dimension
func RangeDimension(column string, interval Interval) Dimension {
	return Dimension{Kind: DimensionRange, Column: column, Interval: interval}
}

// String describes the dimension for warnings and logs
func (d Dimension) String() string {
	switch d.Kind {
	case DimensionHash:
		return fmt.Sprintf("hash(%s, %d)", d.Column, d.Partitions)
	case DimensionRange:
		return fmt.Sprintf("range(%s, %s)", d.Column, d.Interval.String())
	default:
		return fmt.Sprintf("%s(%s)", d.Kind, d.Column)
	}
}

// Equal compares two dimensions facet by facet
func (d Dimension) Equal(other Dimension) bool {
	return d.Kind == other.Kind &&
		d.Column == other.Column &&
		d.Partitions == other.Partitions &&
		d.Interval.String() == other.Interval.String()
}

// Hypertable describes a table partitioned into time-bounded chunks
type Hypertable struct {
	Schema        string      `json:"schema" toml:"schema" yaml:"schema"`
	Name          string      `json:"name" toml:"name" yaml:"name"`
	TimeColumn    string      `json:"time_column" toml:"time_column" yaml:"time_column"`
	ChunkInterval Interval    `json:"chunk_interval,omitempty" toml:"chunk_interval,omitempty" yaml:"chunk_interval,omitempty"`
	Dimensions    []Dimension `json:"dimensions,omitempty" toml:"dimensions,omitempty" yaml:"dimensions,omitempty"`
	Compression   bool        `json:"compression,omitempty" toml:"compression,omitempty" yaml:"compression,omitempty"`
	SegmentBy     []string    `json:"segment_by,omitempty" toml:"segment_by,omitempty" yaml:"segment_by,omitempty"`
	// OrderBy entries carry their ASC/DESC/NULLS qualifiers verbatim.
	OrderBy          []string `json:"order_by,omitempty" toml:"order_by,omitempty" yaml:"order_by,omitempty"`
	ChunkSkipColumns []string `json:"chunk_skip_columns,omitempty" toml:"chunk_skip_columns,omitempty" yaml:"chunk_skip_columns,omitempty"`
	MigrateData      bool     `json:"migrate_data,omitempty" toml:"migrate_data,omitempty" yaml:"migrate_data,omitempty"`
}

// NewHypertable creates a hypertable descriptor with only the mandatory facets set
func NewHypertable(schema, name, timeColumn string) *Hypertable {
	return &Hypertable{Schema: schema, Name: name, TimeColumn: timeColumn}
}

// Key returns the identity key used by the differ
func (h *Hypertable) Key() string {
	return h.Schema + "." + h.Name
}

// EffectiveCompression reports whether compression is on, either because it was
// requested or because a facet that requires it is configured.
func (h *Hypertable) EffectiveCompression() bool {
	return h.CompressionRequested() || len(h.ChunkSkipColumns) > 0
}

// CompressionRequested reports whether compression was asked for independently
// of chunk skipping.
func (h *Hypertable) CompressionRequested() bool {
	return h.Compression || len(h.SegmentBy) > 0 || len(h.OrderBy) > 0
}

// SegmentByList joins the segment-by columns the way the compression option expects them
func (h *Hypertable) SegmentByList() string {
	return strings.Join(h.SegmentBy, ", ")
}

// OrderByList joins the order-by specs the way the compression option expects them
func (h *Hypertable) OrderByList() string {
	return strings.Join(h.OrderBy, ", ")
}
