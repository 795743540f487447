package feature

import (
	"path/filepath"
	"strings"
)

// IgnoreConfig lists name patterns per feature kind that are left out of diffing
type IgnoreConfig struct {
	Tables          []string `toml:"tables,omitempty"`
	Hypertables     []string `toml:"hypertables,omitempty"`
	RollupViews     []string `toml:"rollup_views,omitempty"`
	ReorderPolicies []string `toml:"reorder_policies,omitempty"`
	RefreshPolicies []string `toml:"refresh_policies,omitempty"`
}

// ShouldIgnoreTable checks if a table should be ignored based on the patterns
func (c *IgnoreConfig) ShouldIgnoreTable(name string) bool {
	if c == nil {
		return false
	}
	return shouldIgnore(name, c.Tables)
}

// ShouldIgnoreHypertable checks if a hypertable should be ignored based on the patterns
func (c *IgnoreConfig) ShouldIgnoreHypertable(name string) bool {
	if c == nil {
		return false
	}
	return shouldIgnore(name, c.Hypertables)
}

// ShouldIgnoreRollupView checks if a rollup view should be ignored based on the patterns
func (c *IgnoreConfig) ShouldIgnoreRollupView(name string) bool {
	if c == nil {
		return false
	}
	return shouldIgnore(name, c.RollupViews)
}

// ShouldIgnoreReorderPolicy checks if the reorder policy of a table should be ignored
func (c *IgnoreConfig) ShouldIgnoreReorderPolicy(table string) bool {
	if c == nil {
		return false
	}
	return shouldIgnore(table, c.ReorderPolicies)
}

// ShouldIgnoreRefreshPolicy checks if the refresh policy of a view should be ignored
func (c *IgnoreConfig) ShouldIgnoreRefreshPolicy(view string) bool {
	if c == nil {
		return false
	}
	return shouldIgnore(view, c.RefreshPolicies)
}

// shouldIgnore checks if a name should be ignored based on the patterns
// Patterns support wildcards (*) and negation (!)
// Negation patterns (starting with !) take precedence over inclusion patterns
func shouldIgnore(name string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}

	matched := false
	for _, pattern := range patterns {
		if strings.HasPrefix(pattern, "!") {
			continue
		}
		if matchPattern(pattern, name) {
			matched = true
			break
		}
	}

	for _, pattern := range patterns {
		if !strings.HasPrefix(pattern, "!") {
			continue
		}
		if matchPattern(pattern[1:], name) {
			return false
		}
	}

	return matched
}

// matchPattern matches a glob-style pattern, falling back to a literal
// comparison when the pattern is invalid
func matchPattern(pattern, name string) bool {
	matched, err := filepath.Match(pattern, name)
	if err != nil {
		return pattern == name
	}
	return matched
}
