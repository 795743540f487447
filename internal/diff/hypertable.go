package diff

import (
	"fmt"
	"slices"

	"github.com/pgschema/tsschema/internal/feature"
)

// chunkIntervalCast is the integer type count-typed chunk intervals are cast to
const chunkIntervalCast = "bigint"

// generateHypertableSQL dispatches a hypertable operation
func (g *generator) generateHypertableSQL(op *HypertableOp) (Statement, error) {
	switch op.Op {
	case ActionCreate:
		return g.createHypertable(op.New)
	case ActionAlter:
		return g.alterHypertable(op.Old, op.New)
	case ActionDrop:
		return g.dropHypertable(op.Old), nil
	default:
		return nil, fmt.Errorf("unknown hypertable action %q", op.Op)
	}
}

func (g *generator) createHypertable(h *feature.Hypertable) (Statement, error) {
	rel := relationLiteral(g.q, h.Schema, h.Name)
	args := []string{rel, g.q.Literal(h.TimeColumn)}
	if !h.ChunkInterval.IsZero() {
		args = append(args, kwarg("chunk_time_interval", g.interval(h.ChunkInterval, chunkIntervalCast)))
	}
	if h.MigrateData {
		args = append(args, kwarg("migrate_data", "true"))
	}

	stmts := Statement{g.call("create_hypertable", args...)}
	for _, d := range h.Dimensions {
		stmt, err := g.addDimension(h, d)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}

	// Creation is an alter from a hypertable with nothing configured.
	bare := &feature.Hypertable{Schema: h.Schema, Name: h.Name}
	stmts = append(stmts, g.compressionAndChunkSkipping(bare, h)...)
	return stmts, nil
}

func (g *generator) alterHypertable(old, new *feature.Hypertable) (Statement, error) {
	var stmts Statement

	if old.TimeColumn != new.TimeColumn {
		stmts = append(stmts, g.warning("time column of hypertable %s cannot change from %s to %s",
			new.Key(), old.TimeColumn, new.TimeColumn))
	}

	if old.ChunkInterval.String() != new.ChunkInterval.String() {
		if new.ChunkInterval.IsZero() {
			stmts = append(stmts, g.warning("chunk interval of hypertable %s was unset; the current interval %s is kept",
				new.Key(), old.ChunkInterval.String()))
		} else {
			stmts = append(stmts, g.call("set_chunk_time_interval",
				relationLiteral(g.q, new.Schema, new.Name),
				g.interval(new.ChunkInterval, chunkIntervalCast)))
		}
	}

	dims, err := g.alterDimensions(old, new)
	if err != nil {
		return nil, err
	}
	stmts = append(stmts, dims...)
	stmts = append(stmts, g.compressionAndChunkSkipping(old, new)...)
	return stmts, nil
}

// dropHypertable only warns: a hypertable cannot be turned back into a plain
// table, and dropping the table itself is a table operation.
func (g *generator) dropHypertable(h *feature.Hypertable) Statement {
	return Statement{g.warning("hypertable %s cannot be converted back to a plain table; drop the table to remove it", h.Key())}
}

func (g *generator) addDimension(h *feature.Hypertable, d feature.Dimension) (string, error) {
	dim, err := g.dimension(d)
	if err != nil {
		return "", fmt.Errorf("hypertable %s: %w", h.Key(), err)
	}
	return g.call("add_dimension", relationLiteral(g.q, h.Schema, h.Name), dim), nil
}

// dimension renders by_hash('col', n) or by_range('col', interval)
func (g *generator) dimension(d feature.Dimension) (string, error) {
	col := g.q.Literal(d.Column)
	switch d.Kind {
	case feature.DimensionHash:
		return fmt.Sprintf("by_hash(%s, %d)", col, d.Partitions), nil
	case feature.DimensionRange:
		if d.Interval.IsZero() {
			return fmt.Sprintf("by_range(%s)", col), nil
		}
		return fmt.Sprintf("by_range(%s, %s)", col, g.interval(d.Interval, "")), nil
	default:
		return "", fmt.Errorf("unknown dimension kind %q on column %s", d.Kind, d.Column)
	}
}

// alterDimensions adds new dimensions. Dimensions can only ever be added, so a
// removed or changed one yields a warning.
func (g *generator) alterDimensions(old, new *feature.Hypertable) (Statement, error) {
	var stmts Statement

	for _, od := range old.Dimensions {
		idx := slices.IndexFunc(new.Dimensions, func(nd feature.Dimension) bool { return nd.Column == od.Column })
		switch {
		case idx < 0:
			stmts = append(stmts, g.warning("dimension %s of hypertable %s cannot be removed", od, new.Key()))
		case !od.Equal(new.Dimensions[idx]):
			stmts = append(stmts, g.warning("dimension %s of hypertable %s cannot be changed to %s",
				od, new.Key(), new.Dimensions[idx]))
		}
	}

	for _, nd := range new.Dimensions {
		exists := slices.ContainsFunc(old.Dimensions, func(od feature.Dimension) bool { return od.Column == nd.Column })
		if exists {
			continue
		}
		stmt, err := g.addDimension(new, nd)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

// compressionAndChunkSkipping emits, in order: chunk skipping disables, one
// coalesced compression ALTER, then the session setting and chunk skipping
// enables. Compression is switched on before the first enable and off only
// after the last disable.
func (g *generator) compressionAndChunkSkipping(old, new *feature.Hypertable) Statement {
	var stmts Statement
	rel := relationLiteral(g.q, new.Schema, new.Name)

	for _, col := range old.ChunkSkipColumns {
		if !slices.Contains(new.ChunkSkipColumns, col) {
			stmts = append(stmts, g.guardedCall(
				fmt.Sprintf("disabling chunk skipping on %s", new.Key()),
				"disable_chunk_skipping", rel, g.q.Literal(col)))
		}
	}

	if settings := g.compressionSettings(old, new); len(settings) > 0 {
		body := fmt.Sprintf("ALTER TABLE %s SET (%s);", qualifiedName(g.q, new.Schema, new.Name), joinComma(settings))
		stmts = append(stmts, g.guarded(fmt.Sprintf("compression settings for %s", new.Key()), body))
	}

	var added []string
	for _, col := range new.ChunkSkipColumns {
		if !slices.Contains(old.ChunkSkipColumns, col) {
			added = append(added, col)
		}
	}
	if len(added) > 0 {
		what := fmt.Sprintf("chunk skipping on %s", new.Key())
		stmts = append(stmts, g.guarded(what, "SET timescaledb.enable_chunk_skipping = 'on';"))
		for _, col := range added {
			stmts = append(stmts, g.guardedCall(what, "enable_chunk_skipping", rel, g.q.Literal(col)))
		}
	}

	return stmts
}

// compressionSettings returns the storage options that change between old and
// new. An emptied segment-by or order-by list is set to an empty string.
func (g *generator) compressionSettings(old, new *feature.Hypertable) []string {
	oldOn, newOn := old.EffectiveCompression(), new.EffectiveCompression()
	if !newOn {
		if oldOn {
			return []string{"timescaledb.compress = false"}
		}
		return nil
	}

	var settings []string
	if !oldOn {
		settings = append(settings, "timescaledb.compress = true")
	}
	if !slices.Equal(old.SegmentBy, new.SegmentBy) {
		settings = append(settings, "timescaledb.compress_segmentby = "+g.q.Literal(new.SegmentByList()))
	}
	if !slices.Equal(old.OrderBy, new.OrderBy) {
		settings = append(settings, "timescaledb.compress_orderby = "+g.q.Literal(new.OrderByList()))
	}
	return settings
}
