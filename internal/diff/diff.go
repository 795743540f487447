package diff

import (
	"fmt"

	"github.com/pgschema/tsschema/internal/feature"
	"github.com/pgschema/tsschema/internal/logger"
)

// Diff compares the previous and desired snapshots and returns the operations
// that transition between them, grouped by feature kind in dependency order
// and by identity within a kind. Either snapshot may be nil.
//
// Every feature present in both snapshots yields an Alter, even when nothing
// changed; the generator decides per facet whether SQL is needed.
//
// Drops that the database performs implicitly are left out: dropping a table
// cascades to its hypertable, reorder policy and rollup views, and dropping or
// recreating a rollup view removes its refresh policy.
func Diff(previous, desired *feature.Snapshot) ([]Operation, error) {
	if previous == nil {
		previous = &feature.Snapshot{}
	}
	if desired == nil {
		desired = &feature.Snapshot{}
	}

	d := &differ{
		droppedTables:  make(map[string]bool),
		droppedViews:   make(map[string]bool),
		recreatedViews: make(map[string]bool),
	}

	steps := []func(previous, desired *feature.Snapshot) error{
		d.diffTables,
		d.diffHypertables,
		d.diffReorderPolicies,
		d.diffRollupViews,
		d.diffRefreshPolicies,
	}
	for _, step := range steps {
		if err := step(previous, desired); err != nil {
			return nil, err
		}
	}
	return d.ops, nil
}

type differ struct {
	ops            []Operation
	droppedTables  map[string]bool
	droppedViews   map[string]bool
	recreatedViews map[string]bool
}

func (d *differ) add(op Operation) {
	d.ops = append(d.ops, op)
}

func (d *differ) skipImplicit(op Operation, reason string) {
	logger.Component("diff").Debug("Skipping implicit drop", "kind", op.Kind(), "path", op.Path(), "reason", reason)
}

func (d *differ) diffTables(previous, desired *feature.Snapshot) error {
	oldTables, newTables, err := index(previous.Tables, desired.Tables, "table")
	if err != nil {
		return err
	}
	for _, key := range feature.UnionKeys(oldTables, newTables) {
		oldTable, newTable := oldTables[key], newTables[key]
		switch {
		case oldTable == nil:
			d.add(&TableOp{Op: ActionCreate, New: newTable})
		case newTable == nil:
			d.droppedTables[key] = true
			d.add(&TableOp{Op: ActionDrop, Old: oldTable})
		default:
			d.add(&TableOp{Op: ActionAlter, Old: oldTable, New: newTable})
		}
	}
	return nil
}

func (d *differ) diffHypertables(previous, desired *feature.Snapshot) error {
	oldTables, newTables, err := index(previous.Hypertables, desired.Hypertables, "hypertable")
	if err != nil {
		return err
	}
	for _, key := range feature.UnionKeys(oldTables, newTables) {
		oldTable, newTable := oldTables[key], newTables[key]
		switch {
		case oldTable == nil:
			d.add(&HypertableOp{Op: ActionCreate, New: newTable})
		case newTable == nil:
			op := &HypertableOp{Op: ActionDrop, Old: oldTable}
			if d.droppedTables[key] {
				d.skipImplicit(op, "table dropped")
				continue
			}
			d.add(op)
		default:
			d.add(&HypertableOp{Op: ActionAlter, Old: oldTable, New: newTable})
		}
	}
	return nil
}

// diffReorderPolicies recreates a policy whose index or initial start changed;
// there is no primitive to change either in place.
func (d *differ) diffReorderPolicies(previous, desired *feature.Snapshot) error {
	oldPolicies, newPolicies, err := index(previous.ReorderPolicies, desired.ReorderPolicies, "reorder policy")
	if err != nil {
		return err
	}
	for _, key := range feature.UnionKeys(oldPolicies, newPolicies) {
		oldPolicy, newPolicy := oldPolicies[key], newPolicies[key]
		switch {
		case oldPolicy == nil:
			d.add(&ReorderPolicyOp{Op: ActionCreate, New: newPolicy})
		case newPolicy == nil:
			op := &ReorderPolicyOp{Op: ActionDrop, Old: oldPolicy}
			if d.droppedTables[key] {
				d.skipImplicit(op, "table dropped")
				continue
			}
			d.add(op)
		case reorderPolicyNeedsRecreate(oldPolicy, newPolicy):
			d.add(&ReorderPolicyOp{Op: ActionDrop, Old: oldPolicy})
			d.add(&ReorderPolicyOp{Op: ActionCreate, New: newPolicy})
		default:
			d.add(&ReorderPolicyOp{Op: ActionAlter, Old: oldPolicy, New: newPolicy})
		}
	}
	return nil
}

func (d *differ) diffRollupViews(previous, desired *feature.Snapshot) error {
	oldViews, newViews, err := index(previous.RollupViews, desired.RollupViews, "rollup view")
	if err != nil {
		return err
	}
	for _, key := range feature.UnionKeys(oldViews, newViews) {
		oldView, newView := oldViews[key], newViews[key]
		switch {
		case oldView == nil:
			d.add(&RollupViewOp{Op: ActionCreate, New: newView})
		case newView == nil:
			d.droppedViews[key] = true
			op := &RollupViewOp{Op: ActionDrop, Old: oldView}
			if source := oldView.SourceSchema + "." + oldView.SourceTable; d.droppedTables[source] {
				d.skipImplicit(op, "source table dropped")
				continue
			}
			d.add(op)
		default:
			if rollupViewNeedsRecreate(oldView, newView) {
				d.recreatedViews[key] = true
			}
			d.add(&RollupViewOp{Op: ActionAlter, Old: oldView, New: newView})
		}
	}
	return nil
}

// diffRefreshPolicies attaches the desired policy again to a recreated view,
// since the recreate dropped the old one along with the view.
func (d *differ) diffRefreshPolicies(previous, desired *feature.Snapshot) error {
	oldPolicies, newPolicies, err := index(previous.RefreshPolicies, desired.RefreshPolicies, "refresh policy")
	if err != nil {
		return err
	}
	for _, key := range feature.UnionKeys(oldPolicies, newPolicies) {
		oldPolicy, newPolicy := oldPolicies[key], newPolicies[key]
		switch {
		case oldPolicy == nil:
			d.add(&RefreshPolicyOp{Op: ActionCreate, New: newPolicy})
		case newPolicy == nil:
			op := &RefreshPolicyOp{Op: ActionDrop, Old: oldPolicy}
			if d.droppedViews[key] || d.recreatedViews[key] {
				d.skipImplicit(op, "rollup view dropped")
				continue
			}
			d.add(op)
		case d.recreatedViews[key]:
			d.add(&RefreshPolicyOp{Op: ActionCreate, New: newPolicy})
		default:
			d.add(&RefreshPolicyOp{Op: ActionAlter, Old: oldPolicy, New: newPolicy})
		}
	}
	return nil
}

// index keys both descriptor lists by identity
func index[T feature.Keyed](previous, desired []T, what string) (map[string]T, map[string]T, error) {
	oldItems, err := feature.Index(previous)
	if err != nil {
		return nil, nil, fmt.Errorf("previous %s: %w", what, err)
	}
	newItems, err := feature.Index(desired)
	if err != nil {
		return nil, nil, fmt.Errorf("desired %s: %w", what, err)
	}
	return oldItems, newItems, nil
}
