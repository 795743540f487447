package diff

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pgschema/tsschema/internal/feature"
)

// refreshDefaultScheduleInterval is the schedule a refresh job falls back to
// when schedule_interval is unset again
const refreshDefaultScheduleInterval = "24 hours"

// generateRefreshPolicySQL dispatches a refresh policy operation
func (g *generator) generateRefreshPolicySQL(op *RefreshPolicyOp) (Statement, error) {
	switch op.Op {
	case ActionCreate:
		return Statement{g.createRefreshPolicy(op.New)}, nil
	case ActionAlter:
		return g.alterRefreshPolicy(op.Old, op.New), nil
	case ActionDrop:
		return Statement{g.dropRefreshPolicy(op.Old)}, nil
	default:
		return nil, fmt.Errorf("unknown refresh policy action %q", op.Op)
	}
}

// createRefreshPolicy renders add_continuous_aggregate_policy. The window
// offsets are always passed (NULL when unset); every other argument is
// omitted at its default.
func (g *generator) createRefreshPolicy(p *feature.RefreshPolicy) string {
	args := []string{
		relationLiteral(g.q, p.Schema, p.View),
		kwarg("start_offset", g.offset(p.StartOffset)),
		kwarg("end_offset", g.offset(p.EndOffset)),
	}
	if s := strings.TrimSpace(p.ScheduleInterval); s != "" {
		args = append(args, kwarg("schedule_interval", g.duration(s)))
	}
	if p.InitialStart != nil {
		args = append(args, kwarg("initial_start", g.timestamp(*p.InitialStart)))
	}
	if p.IfNotExists {
		args = append(args, kwarg("if_not_exists", "true"))
	}
	if p.IncludeTieredData != nil {
		args = append(args, kwarg("include_tiered_data", strconv.FormatBool(*p.IncludeTieredData)))
	}
	if n := p.Buckets(); n != feature.DefaultBucketsPerBatch {
		args = append(args, kwarg("buckets_per_batch", strconv.Itoa(n)))
	}
	if n := p.MaxBatches(); n != feature.DefaultMaxBatchesPerExecution {
		args = append(args, kwarg("max_batches_per_execution", strconv.Itoa(n)))
	}
	if p.NewestFirst() != feature.DefaultRefreshNewestFirst {
		args = append(args, kwarg("refresh_newest_first", strconv.FormatBool(p.NewestFirst())))
	}
	return g.call("add_continuous_aggregate_policy", args...)
}

// alterRefreshPolicy changes the schedule in place. The refresh window and
// batching only exist as add arguments, so changing them replaces the policy.
// IfNotExists only matters at creation.
func (g *generator) alterRefreshPolicy(old, new *feature.RefreshPolicy) Statement {
	if refreshPolicyNeedsRecreate(old, new) {
		return Statement{g.dropRefreshPolicy(old), g.createRefreshPolicy(new)}
	}

	oldSchedule, newSchedule := strings.TrimSpace(old.ScheduleInterval), strings.TrimSpace(new.ScheduleInterval)
	if oldSchedule == newSchedule {
		return nil
	}
	if newSchedule == "" {
		newSchedule = refreshDefaultScheduleInterval
	}
	return Statement{g.alterJob(KindRefreshPolicy, new.Schema, new.View,
		[]string{kwarg("schedule_interval", g.duration(newSchedule))})}
}

func (g *generator) dropRefreshPolicy(p *feature.RefreshPolicy) string {
	return g.call("remove_continuous_aggregate_policy", relationLiteral(g.q, p.Schema, p.View), kwarg("if_exists", "true"))
}

// offset renders a refresh window bound; counts stay bare integers
func (g *generator) offset(v feature.Interval) string {
	if v.IsZero() {
		return "NULL"
	}
	return g.interval(v, "")
}

func refreshPolicyNeedsRecreate(old, new *feature.RefreshPolicy) bool {
	return old.StartOffset.String() != new.StartOffset.String() ||
		old.EndOffset.String() != new.EndOffset.String() ||
		!timesEqual(old.InitialStart, new.InitialStart) ||
		!boolPtrEqual(old.IncludeTieredData, new.IncludeTieredData) ||
		old.Buckets() != new.Buckets() ||
		old.MaxBatches() != new.MaxBatches() ||
		old.NewestFirst() != new.NewestFirst()
}
