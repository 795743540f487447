package diff

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/pgschema/tsschema/internal/feature"
)

// bucketAlias is the output name of the time bucket projection
const bucketAlias = "time_bucket"

// generateRollupViewSQL dispatches a rollup view operation
func (g *generator) generateRollupViewSQL(op *RollupViewOp) (Statement, error) {
	switch op.Op {
	case ActionCreate:
		return g.createRollupView(op.New)
	case ActionAlter:
		return g.alterRollupView(op.Old, op.New)
	case ActionDrop:
		return Statement{g.dropRollupView(op.Old)}, nil
	default:
		return nil, fmt.Errorf("unknown rollup view action %q", op.Op)
	}
}

func (g *generator) createRollupView(v *feature.RollupView) (Statement, error) {
	query, err := g.rollupQuery(v)
	if err != nil {
		return nil, fmt.Errorf("rollup view %s: %w", v.Key(), err)
	}

	options := []string{
		"timescaledb.continuous",
		fmt.Sprintf("timescaledb.create_group_indexes = %t", v.CreateGroupIndexes),
		fmt.Sprintf("timescaledb.materialized_only = %t", v.MaterializedOnly),
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "CREATE MATERIALIZED VIEW %s WITH (%s) AS %s",
		qualifiedName(g.q, v.Schema, v.Name), joinComma(options), query)
	if v.WithNoData {
		sb.WriteString(" WITH NO DATA")
	}
	sb.WriteString(";")

	stmts := Statement{sb.String()}
	if !v.ChunkInterval.IsZero() {
		stmts = append(stmts, g.setViewChunkInterval(v))
	}
	return stmts, nil
}

// alterRollupView changes materialized-only and the chunk interval in place.
// Any change to the defining query recreates the view.
func (g *generator) alterRollupView(old, new *feature.RollupView) (Statement, error) {
	if rollupViewNeedsRecreate(old, new) {
		create, err := g.createRollupView(new)
		if err != nil {
			return nil, err
		}
		return append(Statement{g.dropRollupView(old)}, create...), nil
	}

	var stmts Statement
	if old.MaterializedOnly != new.MaterializedOnly {
		stmts = append(stmts, fmt.Sprintf("ALTER MATERIALIZED VIEW %s SET (timescaledb.materialized_only = %t);",
			qualifiedName(g.q, new.Schema, new.Name), new.MaterializedOnly))
	}
	if old.ChunkInterval.String() != new.ChunkInterval.String() && !new.ChunkInterval.IsZero() {
		stmts = append(stmts, g.setViewChunkInterval(new))
	}
	return stmts, nil
}

func (g *generator) dropRollupView(v *feature.RollupView) string {
	return fmt.Sprintf("DROP MATERIALIZED VIEW IF EXISTS %s;", qualifiedName(g.q, v.Schema, v.Name))
}

func (g *generator) setViewChunkInterval(v *feature.RollupView) string {
	return g.call("set_chunk_time_interval",
		relationLiteral(g.q, v.Schema, v.Name),
		g.interval(v.ChunkInterval, chunkIntervalCast))
}

// rollupViewNeedsRecreate reports whether a facet that is part of the view's
// definition changed. WithNoData only matters at creation and is ignored.
func rollupViewNeedsRecreate(old, new *feature.RollupView) bool {
	return old.SourceSchema != new.SourceSchema ||
		old.SourceTable != new.SourceTable ||
		old.BucketWidth != new.BucketWidth ||
		old.BucketColumn != new.BucketColumn ||
		old.GroupByBucket != new.GroupByBucket ||
		old.CreateGroupIndexes != new.CreateGroupIndexes ||
		strings.TrimSpace(old.Where) != strings.TrimSpace(new.Where) ||
		!aggregatesEqual(old.Aggregates, new.Aggregates) ||
		!slices.Equal(old.GroupBy, new.GroupBy)
}

// aggregatesEqual compares aggregate specs by their parsed form, so function
// name case and padding do not count as a change. Specs that do not parse are
// compared as written.
func aggregatesEqual(old, new []string) bool {
	return slices.EqualFunc(old, new, func(a, b string) bool {
		pa, errA := feature.ParseAggregate(a)
		pb, errB := feature.ParseAggregate(b)
		if errA != nil || errB != nil {
			return strings.TrimSpace(a) == strings.TrimSpace(b)
		}
		return pa == pb
	})
}

// rollupQuery builds the SELECT of a continuous aggregate
func (g *generator) rollupQuery(v *feature.RollupView) (string, error) {
	projections := []string{
		fmt.Sprintf("time_bucket(%s, %s) AS %s", g.q.Literal(v.BucketWidth), g.q.Ident(v.BucketColumn), bucketAlias),
	}

	for _, spec := range v.Aggregates {
		agg, err := feature.ParseAggregate(spec)
		if err != nil {
			if errors.Is(err, feature.ErrMalformedAggregate) && !g.opts.StrictAggregates {
				g.log.Warn("Skipping malformed aggregate", "view", v.Key(), "spec", spec, "error", err)
				continue
			}
			return "", err
		}
		projections = append(projections, g.aggregate(agg, v.BucketColumn))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s FROM %s", joinComma(projections), qualifiedName(g.q, v.SourceSchema, v.SourceTable))

	if where := strings.TrimSpace(v.Where); where != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(g.q.Raw(where))
	}

	var groupBy []string
	if v.GroupByBucket {
		groupBy = append(groupBy, bucketAlias)
	}
	for _, col := range v.GroupBy {
		if col.IsRaw() {
			groupBy = append(groupBy, g.q.Raw(col.Expression))
		} else {
			groupBy = append(groupBy, g.q.Ident(col.Column))
		}
	}
	if len(groupBy) > 0 {
		sb.WriteString(" GROUP BY ")
		sb.WriteString(joinComma(groupBy))
	}

	return sb.String(), nil
}

// aggregate renders FUNC("col") AS "alias". first and last take the original
// time column, not the bucket alias, as their ordering argument.
func (g *generator) aggregate(agg feature.AggregateSpec, bucketColumn string) string {
	col := g.q.Ident(agg.Column)
	alias := g.q.Ident(agg.Alias)
	if agg.Function.Ordered() {
		return fmt.Sprintf("%s(%s, %s) AS %s", strings.ToLower(string(agg.Function)), col, g.q.Ident(bucketColumn), alias)
	}
	return fmt.Sprintf("%s(%s) AS %s", strings.ToUpper(string(agg.Function)), col, alias)
}
