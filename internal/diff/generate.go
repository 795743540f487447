package diff

import (
	"fmt"

	"github.com/pgschema/tsschema/internal/feature"
)

// GenerateSQL renders one operation with the given options. An operation whose
// old and new descriptors do not differ yields an empty Statement.
func GenerateSQL(op Operation, opts Options) (Statement, error) {
	if err := checkOperation(op); err != nil {
		return nil, err
	}
	return newGenerator(opts).generate(op)
}

func (g *generator) generate(op Operation) (Statement, error) {
	switch o := op.(type) {
	case *TableOp:
		return g.generateTableSQL(o)
	case *HypertableOp:
		return g.generateHypertableSQL(o)
	case *RollupViewOp:
		return g.generateRollupViewSQL(o)
	case *ReorderPolicyOp:
		return g.generateReorderPolicySQL(o)
	case *RefreshPolicyOp:
		return g.generateRefreshPolicySQL(o)
	default:
		return nil, fmt.Errorf("unknown operation %T", op)
	}
}

// GeneratePlanSteps sequences the operations and renders each of them. Nil and
// unknown operations are rejected up front. A feature's statements are
// collected only once its generator succeeded; the first error aborts the
// whole run.
func GeneratePlanSteps(ops []Operation, opts Options) ([]PlanStep, error) {
	for i, op := range ops {
		if err := checkOperation(op); err != nil {
			return nil, fmt.Errorf("operation %d: %w", i, err)
		}
	}

	g := newGenerator(opts)
	collector := NewSQLCollector()

	for _, op := range Sequence(ops) {
		stmts, err := g.generate(op)
		if err != nil {
			return nil, fmt.Errorf("failed to generate %s %s %s: %w", op.Action(), op.Kind(), op.Path(), err)
		}
		if len(stmts) == 0 {
			g.log.Debug("No changes", "kind", op.Kind(), "path", op.Path())
			continue
		}
		collector.CollectStatement(&SQLContext{
			ObjectType:   op.Kind(),
			Operation:    op.Action(),
			ObjectPath:   op.Path(),
			SourceChange: op,
		}, stmts)
	}

	return collector.GetSteps(), nil
}

// Compile diffs previous against desired and returns the rendered statements
// in execution order.
func Compile(previous, desired *feature.Snapshot, opts Options) ([]string, error) {
	ops, err := Diff(previous, desired)
	if err != nil {
		return nil, err
	}
	steps, err := GeneratePlanSteps(ops, opts)
	if err != nil {
		return nil, err
	}
	stmts := make([]string, len(steps))
	for i, step := range steps {
		stmts[i] = step.SQL
	}
	return stmts, nil
}
