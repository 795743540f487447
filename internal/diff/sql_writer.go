package diff

import (
	"fmt"
	"strings"
)

// SQLWriter is a helper for building SQL output with proper formatting
type SQLWriter struct {
	output          strings.Builder
	includeComments bool
}

// NewSQLWriter creates a new SQLWriter with comments enabled by default
func NewSQLWriter() *SQLWriter {
	return &SQLWriter{includeComments: true}
}

// NewSQLWriterWithComments creates a new SQLWriter with configurable comment inclusion
func NewSQLWriterWithComments(includeComments bool) *SQLWriter {
	return &SQLWriter{includeComments: includeComments}
}

// WriteString writes a string to the output
func (w *SQLWriter) WriteString(s string) {
	w.output.WriteString(s)
}

// WriteStatementWithComment writes a SQL statement with optional comment header
func (w *SQLWriter) WriteStatementWithComment(kind Kind, action Action, path string, stmt string) {
	if w.includeComments {
		w.output.WriteString("--\n")
		w.output.WriteString(fmt.Sprintf("-- Name: %s; Type: %s; Operation: %s\n", path, kind, action))
		w.output.WriteString("--\n")
		w.output.WriteString("\n")
	}
	w.output.WriteString(stmt)
	w.output.WriteString("\n")
}

// String returns the accumulated SQL output
func (w *SQLWriter) String() string {
	return w.output.String()
}

// RenderSteps writes plan steps as a SQL script. Each operation starts a new
// block (with a header when comments are enabled); statements of the same
// operation stay together.
func RenderSteps(steps []PlanStep, includeComments bool) string {
	w := NewSQLWriterWithComments(includeComments)
	var last Operation
	for i, step := range steps {
		if step.SourceChange != nil && step.SourceChange == last {
			w.WriteString(step.SQL)
			w.WriteString("\n")
			continue
		}
		if i > 0 {
			w.WriteString("\n")
		}
		last = step.SourceChange
		w.WriteStatementWithComment(step.ObjectType, step.Operation, step.ObjectPath, step.SQL)
	}
	return w.String()
}
