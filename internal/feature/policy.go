package feature

import "time"

// Defaults applied by the engine when a policy argument is omitted.
const (
	DefaultMaxRetries             = -1
	DefaultBucketsPerBatch        = 1
	DefaultMaxBatchesPerExecution = 0
	DefaultRefreshNewestFirst     = true
)

// Int returns a pointer to n, for optional descriptor fields
func Int(n int) *int { return &n }

// Bool returns a pointer to b, for optional descriptor fields
func Bool(b bool) *bool { return &b }

// ReorderPolicy describes a background job reordering chunks by an index.
// IndexName and InitialStart identify the job; changing them recreates it.
type ReorderPolicy struct {
	Schema       string     `json:"schema" toml:"schema" yaml:"schema"`
	Table        string     `json:"table" toml:"table" yaml:"table"`
	IndexName    string     `json:"index_name" toml:"index_name" yaml:"index_name"`
	InitialStart *time.Time `json:"initial_start,omitempty" toml:"initial_start,omitempty" yaml:"initial_start,omitempty"`

	ScheduleInterval string `json:"schedule_interval,omitempty" toml:"schedule_interval,omitempty" yaml:"schedule_interval,omitempty"`
	MaxRuntime       string `json:"max_runtime,omitempty" toml:"max_runtime,omitempty" yaml:"max_runtime,omitempty"`
	// MaxRetries of -1 retries forever; nil leaves the engine default.
	MaxRetries  *int   `json:"max_retries,omitempty" toml:"max_retries,omitempty" yaml:"max_retries,omitempty"`
	RetryPeriod string `json:"retry_period,omitempty" toml:"retry_period,omitempty" yaml:"retry_period,omitempty"`
}

// NewReorderPolicy creates a reorder policy with engine defaults
func NewReorderPolicy(schema, table, indexName string) *ReorderPolicy {
	return &ReorderPolicy{Schema: schema, Table: table, IndexName: indexName}
}

// Key returns the identity key used by the differ
func (p *ReorderPolicy) Key() string {
	return p.Schema + "." + p.Table
}

// Retries returns the effective max retries
func (p *ReorderPolicy) Retries() int {
	if p.MaxRetries == nil {
		return DefaultMaxRetries
	}
	return *p.MaxRetries
}

// RefreshPolicy describes the background job refreshing a rollup view
type RefreshPolicy struct {
	Schema string `json:"schema" toml:"schema" yaml:"schema"`
	View   string `json:"view" toml:"view" yaml:"view"`

	StartOffset      Interval   `json:"start_offset,omitempty" toml:"start_offset,omitempty" yaml:"start_offset,omitempty"`
	EndOffset        Interval   `json:"end_offset,omitempty" toml:"end_offset,omitempty" yaml:"end_offset,omitempty"`
	ScheduleInterval string     `json:"schedule_interval,omitempty" toml:"schedule_interval,omitempty" yaml:"schedule_interval,omitempty"`
	InitialStart     *time.Time `json:"initial_start,omitempty" toml:"initial_start,omitempty" yaml:"initial_start,omitempty"`
	IfNotExists      bool       `json:"if_not_exists,omitempty" toml:"if_not_exists,omitempty" yaml:"if_not_exists,omitempty"`

	// Nil fields below take the engine default.
	IncludeTieredData      *bool `json:"include_tiered_data,omitempty" toml:"include_tiered_data,omitempty" yaml:"include_tiered_data,omitempty"`
	BucketsPerBatch        *int  `json:"buckets_per_batch,omitempty" toml:"buckets_per_batch,omitempty" yaml:"buckets_per_batch,omitempty"`
	MaxBatchesPerExecution *int  `json:"max_batches_per_execution,omitempty" toml:"max_batches_per_execution,omitempty" yaml:"max_batches_per_execution,omitempty"`
	RefreshNewestFirst     *bool `json:"refresh_newest_first,omitempty" toml:"refresh_newest_first,omitempty" yaml:"refresh_newest_first,omitempty"`
}

// NewRefreshPolicy creates a refresh policy with engine defaults
func NewRefreshPolicy(schema, view string, startOffset, endOffset Interval, scheduleInterval string) *RefreshPolicy {
	return &RefreshPolicy{
		Schema:           schema,
		View:             view,
		StartOffset:      startOffset,
		EndOffset:        endOffset,
		ScheduleInterval: scheduleInterval,
	}
}

// Key returns the identity key used by the differ
func (p *RefreshPolicy) Key() string {
	return p.Schema + "." + p.View
}

// Buckets returns the effective buckets per batch
func (p *RefreshPolicy) Buckets() int {
	if p.BucketsPerBatch == nil {
		return DefaultBucketsPerBatch
	}
	return *p.BucketsPerBatch
}

// MaxBatches returns the effective max batches per execution
func (p *RefreshPolicy) MaxBatches() int {
	if p.MaxBatchesPerExecution == nil {
		return DefaultMaxBatchesPerExecution
	}
	return *p.MaxBatchesPerExecution
}

// NewestFirst returns the effective refresh order
func (p *RefreshPolicy) NewestFirst() bool {
	if p.RefreshNewestFirst == nil {
		return DefaultRefreshNewestFirst
	}
	return *p.RefreshNewestFirst
}
