package feature

import (
	"errors"
	"fmt"
	"strings"
)

// AggregateFunction is one of the aggregate functions a rollup view can project
type AggregateFunction string

const (
	AggregateAvg   AggregateFunction = "Avg"
	AggregateMin   AggregateFunction = "Min"
	AggregateMax   AggregateFunction = "Max"
	AggregateSum   AggregateFunction = "Sum"
	AggregateCount AggregateFunction = "Count"
	AggregateFirst AggregateFunction = "First"
	AggregateLast  AggregateFunction = "Last"
)

var aggregateFunctions = map[string]AggregateFunction{
	"avg":   AggregateAvg,
	"min":   AggregateMin,
	"max":   AggregateMax,
	"sum":   AggregateSum,
	"count": AggregateCount,
	"first": AggregateFirst,
	"last":  AggregateLast,
}

// ParseAggregateFunction resolves a function name case-insensitively
func ParseAggregateFunction(name string) (AggregateFunction, bool) {
	fn, ok := aggregateFunctions[strings.ToLower(strings.TrimSpace(name))]
	return fn, ok
}

// Ordered reports whether the function takes the time column as a second argument
func (f AggregateFunction) Ordered() bool {
	return f == AggregateFirst || f == AggregateLast
}

// ErrMalformedAggregate is returned when an aggregate spec does not decompose
// into alias, function and source column.
var ErrMalformedAggregate = errors.New("malformed aggregate spec")

// UnknownAggregateFunctionError names an aggregate function that is not supported
type UnknownAggregateFunctionError struct {
	Function string
	Spec     string
}

func (e *UnknownAggregateFunctionError) Error() string {
	return fmt.Sprintf("unknown aggregate function %q in aggregate spec %q", e.Function, e.Spec)
}

// AggregateSpec is one projected aggregate of a rollup view
type AggregateSpec struct {
	Alias    string
	Function AggregateFunction
	Column   string
}

// String encodes the spec as "alias:Function:column"
func (a AggregateSpec) String() string {
	return a.Alias + ":" + string(a.Function) + ":" + a.Column
}

// Aggregate encodes an aggregate spec for a RollupView
func Aggregate(alias string, fn AggregateFunction, column string) string {
	return AggregateSpec{Alias: alias, Function: fn, Column: column}.String()
}

// ParseAggregate decomposes "alias:Function:column". A spec with the wrong
// number of components or an empty component wraps ErrMalformedAggregate; an
// unrecognized function returns *UnknownAggregateFunctionError.
func ParseAggregate(spec string) (AggregateSpec, error) {
	parts := strings.Split(spec, ":")
	if len(parts) != 3 {
		return AggregateSpec{}, fmt.Errorf("%w: %q has %d components, want 3", ErrMalformedAggregate, spec, len(parts))
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
		if parts[i] == "" {
			return AggregateSpec{}, fmt.Errorf("%w: %q has an empty component", ErrMalformedAggregate, spec)
		}
	}
	fn, ok := ParseAggregateFunction(parts[1])
	if !ok {
		return AggregateSpec{}, &UnknownAggregateFunctionError{Function: parts[1], Spec: spec}
	}
	return AggregateSpec{Alias: parts[0], Function: fn, Column: parts[2]}, nil
}

// GroupByColumn is a GROUP BY entry: a plain column that gets quoted, or a raw
// expression passed through untouched.
type GroupByColumn struct {
	Column     string `json:"column,omitempty" toml:"column,omitempty" yaml:"column,omitempty"`
	Expression string `json:"expression,omitempty" toml:"expression,omitempty" yaml:"expression,omitempty"`
}

// IsRaw reports whether the entry is a raw expression
func (g GroupByColumn) IsRaw() bool {
	return g.Expression != ""
}

// RollupView describes a continuous aggregate bucketing a source table by time
type RollupView struct {
	Schema       string `json:"schema" toml:"schema" yaml:"schema"`
	Name         string `json:"name" toml:"name" yaml:"name"`
	SourceSchema string `json:"source_schema" toml:"source_schema" yaml:"source_schema"`
	SourceTable  string `json:"source_table" toml:"source_table" yaml:"source_table"`

	BucketWidth   string `json:"bucket_width" toml:"bucket_width" yaml:"bucket_width"`
	BucketColumn  string `json:"bucket_column" toml:"bucket_column" yaml:"bucket_column"`
	GroupByBucket bool   `json:"group_by_bucket,omitempty" toml:"group_by_bucket,omitempty" yaml:"group_by_bucket,omitempty"`

	ChunkInterval      Interval `json:"chunk_interval,omitempty" toml:"chunk_interval,omitempty" yaml:"chunk_interval,omitempty"`
	CreateGroupIndexes bool     `json:"create_group_indexes,omitempty" toml:"create_group_indexes,omitempty" yaml:"create_group_indexes,omitempty"`
	MaterializedOnly   bool     `json:"materialized_only,omitempty" toml:"materialized_only,omitempty" yaml:"materialized_only,omitempty"`
	WithNoData         bool     `json:"with_no_data,omitempty" toml:"with_no_data,omitempty" yaml:"with_no_data,omitempty"`

	Where string `json:"where,omitempty" toml:"where,omitempty" yaml:"where,omitempty"`
	// Aggregates are "alias:Function:column" specs, see ParseAggregate.
	Aggregates []string        `json:"aggregates,omitempty" toml:"aggregates,omitempty" yaml:"aggregates,omitempty"`
	GroupBy    []GroupByColumn `json:"group_by,omitempty" toml:"group_by,omitempty" yaml:"group_by,omitempty"`
}

// NewRollupView creates a rollup view descriptor grouped by its time bucket
func NewRollupView(schema, name, sourceSchema, sourceTable, bucketWidth, bucketColumn string) *RollupView {
	return &RollupView{
		Schema:        schema,
		Name:          name,
		SourceSchema:  sourceSchema,
		SourceTable:   sourceTable,
		BucketWidth:   bucketWidth,
		BucketColumn:  bucketColumn,
		GroupByBucket: true,
	}
}

// Key returns the identity key used by the differ
func (v *RollupView) Key() string {
	return v.Schema + "." + v.Name
}
