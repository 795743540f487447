package diff

import (
	"strings"
)

// SQLContext provides context about the SQL statement being generated
type SQLContext struct {
	ObjectType   Kind      // e.g., "hypertable", "rollup_view"
	Operation    Action    // create, alter, drop
	ObjectPath   string    // e.g., "schema.table"
	SourceChange Operation // The operation that generated this SQL
}

// PlanStep represents a single SQL statement with its source change
type PlanStep struct {
	SQL          string    `json:"sql"`
	ObjectType   Kind      `json:"object_type"`
	Operation    Action    `json:"operation"`
	ObjectPath   string    `json:"object_path"`
	SourceChange Operation `json:"-"`
}

// SQLCollector collects SQL statements with their context information
type SQLCollector struct {
	steps []PlanStep
}

// NewSQLCollector creates a new SQLCollector
func NewSQLCollector() *SQLCollector {
	return &SQLCollector{
		steps: []PlanStep{},
	}
}

// Collect collects a SQL statement with its context information
func (c *SQLCollector) Collect(context *SQLContext, stmt string) {
	if context != nil {
		step := PlanStep{
			SQL:          strings.TrimSpace(stmt),
			ObjectType:   context.ObjectType,
			Operation:    context.Operation,
			ObjectPath:   context.ObjectPath,
			SourceChange: context.SourceChange,
		}
		c.steps = append(c.steps, step)
	}
}

// CollectStatement collects every statement of a feature with the same context
func (c *SQLCollector) CollectStatement(context *SQLContext, stmts Statement) {
	for _, stmt := range stmts {
		c.Collect(context, stmt)
	}
}

// GetSteps returns all collected plan steps
func (c *SQLCollector) GetSteps() []PlanStep {
	return c.steps
}
