package feature

import (
	"fmt"
	"sort"
)

// Snapshot is the complete feature state of a database at one point in time
type Snapshot struct {
	Tables          []*Table         `json:"tables,omitempty" toml:"tables,omitempty" yaml:"tables,omitempty"`
	Hypertables     []*Hypertable    `json:"hypertables,omitempty" toml:"hypertables,omitempty" yaml:"hypertables,omitempty"`
	RollupViews     []*RollupView    `json:"rollup_views,omitempty" toml:"rollup_views,omitempty" yaml:"rollup_views,omitempty"`
	ReorderPolicies []*ReorderPolicy `json:"reorder_policies,omitempty" toml:"reorder_policies,omitempty" yaml:"reorder_policies,omitempty"`
	RefreshPolicies []*RefreshPolicy `json:"refresh_policies,omitempty" toml:"refresh_policies,omitempty" yaml:"refresh_policies,omitempty"`
}

// Keyed is implemented by every descriptor
type Keyed interface {
	Key() string
}

// Index builds a key -> descriptor map and rejects duplicate identities
func Index[T Keyed](items []T) (map[string]T, error) {
	m := make(map[string]T, len(items))
	for _, item := range items {
		key := item.Key()
		if _, exists := m[key]; exists {
			return nil, fmt.Errorf("duplicate descriptor %q", key)
		}
		m[key] = item
	}
	return m, nil
}

// UnionKeys returns the sorted union of the keys of both maps
func UnionKeys[T any](a, b map[string]T) []string {
	seen := make(map[string]bool, len(a)+len(b))
	var keys []string
	for k := range a {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	for k := range b {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// Filter returns a copy of the snapshot without the descriptors the ignore
// configuration matches.
func (s *Snapshot) Filter(cfg *IgnoreConfig) *Snapshot {
	if s == nil {
		return &Snapshot{}
	}
	if cfg == nil {
		return s
	}
	out := &Snapshot{}
	for _, t := range s.Tables {
		if !cfg.ShouldIgnoreTable(t.Name) {
			out.Tables = append(out.Tables, t)
		}
	}
	for _, h := range s.Hypertables {
		if !cfg.ShouldIgnoreHypertable(h.Name) {
			out.Hypertables = append(out.Hypertables, h)
		}
	}
	for _, v := range s.RollupViews {
		if !cfg.ShouldIgnoreRollupView(v.Name) {
			out.RollupViews = append(out.RollupViews, v)
		}
	}
	for _, p := range s.ReorderPolicies {
		if !cfg.ShouldIgnoreReorderPolicy(p.Table) {
			out.ReorderPolicies = append(out.ReorderPolicies, p)
		}
	}
	for _, p := range s.RefreshPolicies {
		if !cfg.ShouldIgnoreRefreshPolicy(p.View) {
			out.RefreshPolicies = append(out.RefreshPolicies, p)
		}
	}
	return out
}
