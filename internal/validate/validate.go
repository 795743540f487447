// Package validate checks generated statements with the PostgreSQL parser.
package validate

import (
	"errors"
	"fmt"
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v6"
)

// StatementError reports a statement the parser rejected
type StatementError struct {
	Index     int
	Statement string
	Err       error
}

func (e *StatementError) Error() string {
	return fmt.Sprintf("statement %d does not parse: %v\n  %s", e.Index+1, e.Err, e.Statement)
}

func (e *StatementError) Unwrap() error {
	return e.Err
}

// Statement parses one generated statement. Comment-only lines (warnings) are
// accepted; anything else must be exactly one SQL statement.
func Statement(sql string) error {
	result, err := pg_query.Parse(sql)
	if err != nil {
		return err
	}
	if len(result.Stmts) > 1 {
		return fmt.Errorf("expected one statement, found %d", len(result.Stmts))
	}
	if len(result.Stmts) == 0 && !isComment(sql) {
		return fmt.Errorf("no statement found")
	}
	return nil
}

// Statements parses every statement and returns all failures joined
func Statements(stmts []string) error {
	var errs []error
	for i, stmt := range stmts {
		if err := Statement(stmt); err != nil {
			errs = append(errs, &StatementError{Index: i, Statement: stmt, Err: err})
		}
	}
	return errors.Join(errs...)
}

func isComment(sql string) bool {
	return strings.HasPrefix(strings.TrimSpace(sql), "--")
}
