package diff

import "github.com/pgschema/tsschema/internal/feature"

// Action is what an operation does to its feature
type Action string

const (
	ActionCreate Action = "create"
	ActionAlter  Action = "alter"
	ActionDrop   Action = "drop"
)

// Kind names the feature an operation targets
type Kind string

const (
	KindTable         Kind = "table"
	KindHypertable    Kind = "hypertable"
	KindRollupView    Kind = "rollup_view"
	KindReorderPolicy Kind = "reorder_policy"
	KindRefreshPolicy Kind = "refresh_policy"
)

// Operation is a closed union: TableOp, HypertableOp, RollupViewOp,
// ReorderPolicyOp and RefreshPolicyOp are its only variants. Create carries
// New, Drop carries Old, Alter carries both.
type Operation interface {
	Kind() Kind
	Action() Action
	// Path is the schema-qualified name of the target
	Path() string
	isOperation()
}

// TableOp is a generic schema operation on a plain table
type TableOp struct {
	Op  Action
	Old *feature.Table
	New *feature.Table
}

// HypertableOp converts or adjusts a hypertable
type HypertableOp struct {
	Op  Action
	Old *feature.Hypertable
	New *feature.Hypertable
}

// RollupViewOp creates, adjusts or drops a continuous aggregate
type RollupViewOp struct {
	Op  Action
	Old *feature.RollupView
	New *feature.RollupView
}

// ReorderPolicyOp adds, adjusts or removes a reorder policy
type ReorderPolicyOp struct {
	Op  Action
	Old *feature.ReorderPolicy
	New *feature.ReorderPolicy
}

// RefreshPolicyOp adds, adjusts or removes a continuous aggregate refresh policy
type RefreshPolicyOp struct {
	Op  Action
	Old *feature.RefreshPolicy
	New *feature.RefreshPolicy
}

func (o *TableOp) Kind() Kind         { return KindTable }
func (o *HypertableOp) Kind() Kind    { return KindHypertable }
func (o *RollupViewOp) Kind() Kind    { return KindRollupView }
func (o *ReorderPolicyOp) Kind() Kind { return KindReorderPolicy }
func (o *RefreshPolicyOp) Kind() Kind { return KindRefreshPolicy }

func (o *TableOp) Action() Action         { return o.Op }
func (o *HypertableOp) Action() Action    { return o.Op }
func (o *RollupViewOp) Action() Action    { return o.Op }
func (o *ReorderPolicyOp) Action() Action { return o.Op }
func (o *RefreshPolicyOp) Action() Action { return o.Op }

func (o *TableOp) Path() string {
	return pick(o.New, o.Old).Key()
}

func (o *HypertableOp) Path() string {
	return pick(o.New, o.Old).Key()
}

func (o *RollupViewOp) Path() string {
	return pick(o.New, o.Old).Key()
}

func (o *ReorderPolicyOp) Path() string {
	return pick(o.New, o.Old).Key()
}

func (o *RefreshPolicyOp) Path() string {
	return pick(o.New, o.Old).Key()
}

func (*TableOp) isOperation()         {}
func (*HypertableOp) isOperation()    {}
func (*RollupViewOp) isOperation()    {}
func (*ReorderPolicyOp) isOperation() {}
func (*RefreshPolicyOp) isOperation() {}

// pick returns the first non-nil descriptor
func pick[T any](a, b *T) *T {
	if a != nil {
		return a
	}
	return b
}
