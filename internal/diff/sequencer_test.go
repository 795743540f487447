package diff

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pgschema/tsschema/internal/feature"
)

// unknownOp is an operation variant no generator knows about
type unknownOp struct{}

func (unknownOp) Kind() Kind     { return "unknown" }
func (unknownOp) Action() Action { return ActionCreate }
func (unknownOp) Path() string   { return "public.unknown" }
func (unknownOp) isOperation()   {}

func TestSequence(t *testing.T) {
	h := feature.NewHypertable("public", "metrics", "ts")
	v := feature.NewRollupView("public", "hourly", "public", "metrics", "1 hour", "ts")
	r := feature.NewReorderPolicy("public", "metrics", "metrics_ts_idx")
	p := feature.NewRefreshPolicy("public", "hourly", "3 days", "1 hour", "")
	table := &feature.Table{Schema: "public", Name: "metrics"}

	ops := []Operation{
		&RefreshPolicyOp{Op: ActionCreate, New: p},
		&RollupViewOp{Op: ActionAlter, Old: v, New: v},
		&RollupViewOp{Op: ActionCreate, New: v},
		&ReorderPolicyOp{Op: ActionDrop, Old: r},
		&ReorderPolicyOp{Op: ActionCreate, New: r},
		&HypertableOp{Op: ActionAlter, Old: h, New: h},
		&HypertableOp{Op: ActionCreate, New: h},
		&TableOp{Op: ActionCreate, New: table},
	}

	type entry struct {
		Kind   Kind
		Action Action
	}
	var got []entry
	for _, op := range Sequence(ops) {
		got = append(got, entry{op.Kind(), op.Action()})
	}

	want := []entry{
		{KindTable, ActionCreate},
		{KindHypertable, ActionAlter},
		{KindHypertable, ActionCreate},
		{KindReorderPolicy, ActionDrop},
		{KindReorderPolicy, ActionCreate},
		{KindRollupView, ActionCreate},
		{KindRefreshPolicy, ActionCreate},
		{KindRollupView, ActionAlter},
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("Sequence() mismatch (-want +got):\n%s", d)
	}

	// The input is left untouched
	if ops[0].Kind() != KindRefreshPolicy {
		t.Error("Sequence() reordered its input")
	}
}

func TestSequenceUnknownVariantPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected a panic for an unknown operation variant")
		}
	}()
	Sequence([]Operation{unknownOp{}, &TableOp{Op: ActionCreate, New: &feature.Table{Schema: "public", Name: "t"}}})
}
