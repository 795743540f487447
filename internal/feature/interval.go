package feature

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Interval is either a duration string ("1 day") or an integer count of the
// partitioning column's native units ("86400000"). The two forms render
// differently and must never be mixed up.
type Interval string

// IsZero reports whether the interval is unset.
func (i Interval) IsZero() bool {
	return strings.TrimSpace(string(i)) == ""
}

// IsCount reports whether the interval is a bare integer count.
func (i Interval) IsCount() bool {
	s := strings.TrimSpace(string(i))
	if s == "" {
		return false
	}
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

// String returns the trimmed value.
func (i Interval) String() string {
	return strings.TrimSpace(string(i))
}

// CountInterval builds a count-typed interval.
func CountInterval(n int64) Interval {
	return Interval(strconv.FormatInt(n, 10))
}

// UnmarshalTOML accepts both TOML strings and integers.
func (i *Interval) UnmarshalTOML(v any) error {
	switch val := v.(type) {
	case string:
		*i = Interval(val)
	case int64:
		*i = CountInterval(val)
	default:
		return fmt.Errorf("interval must be a string or integer, got %T", v)
	}
	return nil
}

// UnmarshalYAML accepts both YAML strings and integers.
func (i *Interval) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("interval must be a scalar at line %d", node.Line)
	}
	*i = Interval(node.Value)
	return nil
}

// UnmarshalJSON accepts both JSON strings and numbers.
func (i *Interval) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*i = Interval(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("interval must be a string or integer: %w", err)
	}
	if _, err := n.Int64(); err != nil {
		return fmt.Errorf("interval count must be an integer: %w", err)
	}
	*i = Interval(n.String())
	return nil
}
