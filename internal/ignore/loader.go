package ignore

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/pgschema/tsschema/internal/feature"
)

const (
	// IgnoreFileName is the default name of the ignore file
	IgnoreFileName = ".tsschemaignore"
)

// TomlConfig represents the TOML structure of the .tsschemaignore file
type TomlConfig struct {
	Tables          PatternConfig `toml:"tables,omitempty"`
	Hypertables     PatternConfig `toml:"hypertables,omitempty"`
	RollupViews     PatternConfig `toml:"rollup_views,omitempty"`
	ReorderPolicies PatternConfig `toml:"reorder_policies,omitempty"`
	RefreshPolicies PatternConfig `toml:"refresh_policies,omitempty"`
}

// PatternConfig holds the glob patterns of one feature kind
type PatternConfig struct {
	Patterns []string `toml:"patterns,omitempty"`
}

// LoadIgnoreFile loads the .tsschemaignore file from the current directory
// Returns nil if the file doesn't exist (ignore functionality is optional)
func LoadIgnoreFile() (*feature.IgnoreConfig, error) {
	return LoadIgnoreFileFromPath(IgnoreFileName)
}

// LoadIgnoreFileFromPath loads an ignore file from the specified path
// Returns nil if the file doesn't exist
func LoadIgnoreFileFromPath(filePath string) (*feature.IgnoreConfig, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	var tomlConfig TomlConfig
	if _, err := toml.DecodeFile(filePath, &tomlConfig); err != nil {
		return nil, err
	}

	return &feature.IgnoreConfig{
		Tables:          tomlConfig.Tables.Patterns,
		Hypertables:     tomlConfig.Hypertables.Patterns,
		RollupViews:     tomlConfig.RollupViews.Patterns,
		ReorderPolicies: tomlConfig.ReorderPolicies.Patterns,
		RefreshPolicies: tomlConfig.RefreshPolicies.Patterns,
	}, nil
}
