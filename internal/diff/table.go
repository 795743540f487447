package diff

import (
	"fmt"
	"slices"
	"strings"

	"github.com/pgschema/tsschema/internal/feature"
)

// generateTableSQL dispatches a plain table operation
func (g *generator) generateTableSQL(op *TableOp) (Statement, error) {
	switch op.Op {
	case ActionCreate:
		return Statement{g.createTable(op.New)}, nil
	case ActionAlter:
		return g.alterTable(op.Old, op.New), nil
	case ActionDrop:
		return Statement{g.dropTable(op.Old)}, nil
	default:
		return nil, fmt.Errorf("unknown table action %q", op.Op)
	}
}

func (g *generator) createTable(t *feature.Table) string {
	parts := make([]string, 0, len(t.Columns)+1)
	for _, col := range t.Columns {
		parts = append(parts, g.columnDefinition(col))
	}
	if len(t.PrimaryKey) > 0 {
		parts = append(parts, g.primaryKey(t.PrimaryKey))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s);", qualifiedName(g.q, t.Schema, t.Name), joinComma(parts))
}

// dropTable cascades so dependent views and policies go with the table
func (g *generator) dropTable(t *feature.Table) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE;", qualifiedName(g.q, t.Schema, t.Name))
}

func (g *generator) alterTable(old, new *feature.Table) Statement {
	var stmts Statement
	table := qualifiedName(g.q, new.Schema, new.Name)

	for _, col := range old.Columns {
		if _, exists := new.Column(col.Name); !exists {
			stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s;", table, g.q.Ident(col.Name)))
		}
	}

	for _, col := range new.Columns {
		oldCol, exists := old.Column(col.Name)
		if !exists {
			stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s;", table, g.columnDefinition(col)))
			continue
		}
		stmts = append(stmts, g.alterColumn(table, oldCol, col)...)
	}

	if !slices.Equal(old.PrimaryKey, new.PrimaryKey) {
		if len(old.PrimaryKey) > 0 {
			stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT IF EXISTS %s;",
				table, g.q.Ident(new.Name+"_pkey")))
		}
		if len(new.PrimaryKey) > 0 {
			stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ADD %s;", table, g.primaryKey(new.PrimaryKey)))
		}
	}
	return stmts
}

// alterColumn generates the type, nullability and default changes of a column
func (g *generator) alterColumn(table string, old, new feature.Column) Statement {
	var stmts Statement
	col := g.q.Ident(new.Name)

	if old.DataType != new.DataType {
		stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s TYPE %s;", table, col, g.q.Raw(new.DataType)))
	}

	if old.NotNull != new.NotNull {
		if new.NotNull {
			stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s SET NOT NULL;", table, col))
		} else {
			stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s DROP NOT NULL;", table, col))
		}
	}

	if strings.TrimSpace(old.Default) != strings.TrimSpace(new.Default) {
		if strings.TrimSpace(new.Default) == "" {
			stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s DROP DEFAULT;", table, col))
		} else {
			stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s SET DEFAULT %s;", table, col, g.q.Raw(new.Default)))
		}
	}
	return stmts
}

func (g *generator) columnDefinition(col feature.Column) string {
	var sb strings.Builder
	sb.WriteString(g.q.Ident(col.Name))
	sb.WriteString(" ")
	sb.WriteString(g.q.Raw(col.DataType))
	if col.NotNull {
		sb.WriteString(" NOT NULL")
	}
	if d := strings.TrimSpace(col.Default); d != "" {
		sb.WriteString(" DEFAULT ")
		sb.WriteString(g.q.Raw(d))
	}
	return sb.String()
}

func (g *generator) primaryKey(columns []string) string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = g.q.Ident(c)
	}
	return "PRIMARY KEY (" + joinComma(quoted) + ")"
}
