package diff

import (
	"errors"
	"fmt"
	"sort"
)

// Priority buckets. A hypertable must exist before a policy references it, and
// a rollup view must exist before its refresh policy is attached.
const (
	priorityTable         = 0
	priorityHypertable    = 10
	priorityReorderPolicy = 20
	priorityRollupCreate  = 30
	priorityRollupChange  = 40
	priorityRefreshPolicy = 40
)

// priority maps an operation to its execution bucket. It depends on the
// operation's variant and action only.
func priority(op Operation) int {
	switch o := op.(type) {
	case *TableOp:
		return priorityTable
	case *HypertableOp:
		return priorityHypertable
	case *ReorderPolicyOp:
		return priorityReorderPolicy
	case *RollupViewOp:
		if o.Op == ActionCreate {
			return priorityRollupCreate
		}
		return priorityRollupChange
	case *RefreshPolicyOp:
		return priorityRefreshPolicy
	default:
		panic("diff: unknown operation variant")
	}
}

// Sequence returns the operations in execution order. The sort is stable, so
// operations in the same bucket keep their relative order.
func Sequence(ops []Operation) []Operation {
	sorted := make([]Operation, len(ops))
	copy(sorted, ops)
	sort.SliceStable(sorted, func(i, j int) bool {
		return priority(sorted[i]) < priority(sorted[j])
	})
	return sorted
}

// checkOperation rejects what priority and the generators cannot handle: a nil
// operation, a typed nil variant or a variant outside the union.
func checkOperation(op Operation) error {
	var isNil bool
	switch o := op.(type) {
	case nil:
		return errors.New("nil operation")
	case *TableOp:
		isNil = o == nil
	case *HypertableOp:
		isNil = o == nil
	case *ReorderPolicyOp:
		isNil = o == nil
	case *RollupViewOp:
		isNil = o == nil
	case *RefreshPolicyOp:
		isNil = o == nil
	default:
		return fmt.Errorf("unknown operation %T", op)
	}
	if isNil {
		return fmt.Errorf("nil %T operation", op)
	}
	return nil
}
