package tsschema

import (
	"github.com/pgschema/tsschema/internal/diff"
	"github.com/pgschema/tsschema/internal/feature"
	"github.com/pgschema/tsschema/internal/plan"
)

// Re-export important types for external consumption

// Plan is a compiled, ordered list of statements with summary rendering.
type Plan = plan.Plan

// Options controls statement generation.
type Options = diff.Options

// Mode selects executable or embedded quoting.
type Mode = diff.Mode

const (
	ModeExecutable = diff.ModeExecutable
	ModeEmbedded   = diff.ModeEmbedded
)

// Snapshot is the complete feature state of a database.
type Snapshot = feature.Snapshot

// Feature descriptors.
type (
	Table         = feature.Table
	Column        = feature.Column
	Hypertable    = feature.Hypertable
	Dimension     = feature.Dimension
	Interval      = feature.Interval
	RollupView    = feature.RollupView
	GroupByColumn = feature.GroupByColumn
	ReorderPolicy = feature.ReorderPolicy
	RefreshPolicy = feature.RefreshPolicy
)

// AggregateFunction names a rollup aggregate.
type AggregateFunction = feature.AggregateFunction

const (
	AggregateAvg   = feature.AggregateAvg
	AggregateMin   = feature.AggregateMin
	AggregateMax   = feature.AggregateMax
	AggregateSum   = feature.AggregateSum
	AggregateCount = feature.AggregateCount
	AggregateFirst = feature.AggregateFirst
	AggregateLast  = feature.AggregateLast
)

// UnknownAggregateFunctionError is returned for aggregate specs naming an
// unsupported function.
type UnknownAggregateFunctionError = feature.UnknownAggregateFunctionError

// ErrMalformedAggregate is wrapped by errors about aggregate specs that do
// not have the alias:Function:column shape.
var ErrMalformedAggregate = feature.ErrMalformedAggregate

// Descriptor constructors.
var (
	NewHypertable    = feature.NewHypertable
	NewRollupView    = feature.NewRollupView
	NewReorderPolicy = feature.NewReorderPolicy
	NewRefreshPolicy = feature.NewRefreshPolicy
	HashDimension    = feature.HashDimension
	RangeDimension   = feature.RangeDimension
	Aggregate        = feature.Aggregate
	CountInterval    = feature.CountInterval
	LoadSnapshot     = feature.LoadSnapshot
	DecodeSnapshot   = feature.DecodeSnapshot
	ParseMode        = diff.ParseMode
)
