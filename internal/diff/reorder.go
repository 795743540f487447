package diff

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pgschema/tsschema/internal/feature"
)

// Engine values a reorder job falls back to when a tuning field is unset again
const (
	reorderDefaultScheduleInterval = "84 hours"
	reorderDefaultMaxRuntime       = "0"
	reorderDefaultRetryPeriod      = "5 minutes"
)

// generateReorderPolicySQL dispatches a reorder policy operation
func (g *generator) generateReorderPolicySQL(op *ReorderPolicyOp) (Statement, error) {
	switch op.Op {
	case ActionCreate:
		return g.createReorderPolicy(op.New), nil
	case ActionAlter:
		return g.alterReorderPolicy(op.Old, op.New), nil
	case ActionDrop:
		return Statement{g.dropReorderPolicy(op.Old)}, nil
	default:
		return nil, fmt.Errorf("unknown reorder policy action %q", op.Op)
	}
}

// createReorderPolicy adds the job and then applies every non-default tuning
// field in one alter_job call, since add_reorder_policy does not accept them.
func (g *generator) createReorderPolicy(p *feature.ReorderPolicy) Statement {
	args := []string{relationLiteral(g.q, p.Schema, p.Table), g.q.Literal(p.IndexName)}
	if p.InitialStart != nil {
		args = append(args, kwarg("initial_start", g.timestamp(*p.InitialStart)))
	}
	stmts := Statement{g.call("add_reorder_policy", args...)}

	if tuning := g.reorderTuning(&feature.ReorderPolicy{}, p); len(tuning) > 0 {
		stmts = append(stmts, g.alterJob(KindReorderPolicy, p.Schema, p.Table, tuning))
	}
	return stmts
}

// alterReorderPolicy recreates the job when an identity field changed, then
// folds every other changed field into a single alter_job call.
func (g *generator) alterReorderPolicy(old, new *feature.ReorderPolicy) Statement {
	if reorderPolicyNeedsRecreate(old, new) {
		return append(Statement{g.dropReorderPolicy(old)}, g.createReorderPolicy(new)...)
	}
	if tuning := g.reorderTuning(old, new); len(tuning) > 0 {
		return Statement{g.alterJob(KindReorderPolicy, new.Schema, new.Table, tuning)}
	}
	return nil
}

func (g *generator) dropReorderPolicy(p *feature.ReorderPolicy) string {
	return g.call("remove_reorder_policy", relationLiteral(g.q, p.Schema, p.Table), kwarg("if_exists", "true"))
}

// reorderPolicyNeedsRecreate reports whether a field without an in-place
// primitive changed
func reorderPolicyNeedsRecreate(old, new *feature.ReorderPolicy) bool {
	return old.IndexName != new.IndexName || !timesEqual(old.InitialStart, new.InitialStart)
}

// reorderTuning returns the alter_job keyword arguments for the tuning fields
// that differ. A field unset in new falls back to the engine default.
func (g *generator) reorderTuning(old, new *feature.ReorderPolicy) []string {
	var args []string
	durationArg := func(name, oldVal, newVal, fallback string) {
		oldVal, newVal = strings.TrimSpace(oldVal), strings.TrimSpace(newVal)
		if oldVal == newVal {
			return
		}
		if newVal == "" {
			newVal = fallback
		}
		args = append(args, kwarg(name, g.duration(newVal)))
	}

	durationArg("schedule_interval", old.ScheduleInterval, new.ScheduleInterval, reorderDefaultScheduleInterval)
	durationArg("max_runtime", old.MaxRuntime, new.MaxRuntime, reorderDefaultMaxRuntime)
	if old.Retries() != new.Retries() {
		args = append(args, kwarg("max_retries", strconv.Itoa(new.Retries())))
	}
	durationArg("retry_period", old.RetryPeriod, new.RetryPeriod, reorderDefaultRetryPeriod)
	return args
}

// alterJob renders an alter_job call against the job located by jobLookup
func (g *generator) alterJob(kind Kind, schema, relation string, args []string) string {
	return g.call("alter_job", append([]string{g.jobLookup(kind, schema, relation)}, args...)...)
}
