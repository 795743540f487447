package feature

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// LoadSnapshot reads a snapshot file. The format is chosen by extension:
// .toml, .yaml/.yml or .json.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}

	snapshot, err := DecodeSnapshot(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", path, err)
	}
	return snapshot, nil
}

// DecodeSnapshot decodes snapshot content in the format named by ext
func DecodeSnapshot(data []byte, ext string) (*Snapshot, error) {
	var snapshot Snapshot
	switch strings.ToLower(ext) {
	case ".toml":
		if _, err := toml.Decode(string(data), &snapshot); err != nil {
			return nil, err
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &snapshot); err != nil {
			return nil, err
		}
	case ".json":
		if err := json.Unmarshal(data, &snapshot); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported snapshot format %q", ext)
	}
	return &snapshot, nil
}
