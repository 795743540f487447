package feature

// Column is a physical column of a plain table
type Column struct {
	Name     string `json:"name" toml:"name" yaml:"name"`
	DataType string `json:"data_type" toml:"data_type" yaml:"data_type"`
	NotNull  bool   `json:"not_null,omitempty" toml:"not_null,omitempty" yaml:"not_null,omitempty"`
	Default  string `json:"default,omitempty" toml:"default,omitempty" yaml:"default,omitempty"`
}

// Table is the plain relational table a hypertable or rollup view is built on
type Table struct {
	Schema     string   `json:"schema" toml:"schema" yaml:"schema"`
	Name       string   `json:"name" toml:"name" yaml:"name"`
	Columns    []Column `json:"columns" toml:"columns" yaml:"columns"`
	PrimaryKey []string `json:"primary_key,omitempty" toml:"primary_key,omitempty" yaml:"primary_key,omitempty"`
}

// Key returns the identity key used by the differ
func (t *Table) Key() string {
	return t.Schema + "." + t.Name
}

// Column looks up a column by name
func (t *Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}
