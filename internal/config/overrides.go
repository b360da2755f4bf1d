package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadOverrides reads and parses the overrides YAML file at path.
// Returns nil if the file does not exist.
// Returns an error if the file exists but cannot be read or parsed.
func LoadOverrides(path string) (*Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read overrides file %s: %w", path, err)
	}

	var overrides Overrides
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("failed to parse overrides file %s: %w", path, err)
	}

	return &overrides, nil
}

// ApplyOverrides toggles games in place. Glob patterns (e.g. "zenless_*") are
// matched against game keys; an exact key beats a glob that also matches.
func ApplyOverrides(cfg *Config, overrides *Overrides) {
	if overrides == nil {
		return
	}
	for i := range cfg.Games {
		key := cfg.Games[i].Key
		if o, ok := overrides.Games[key]; ok {
			if o.Enabled != nil {
				cfg.Games[i].Enabled = *o.Enabled
			}
			continue
		}
		for pattern, o := range overrides.Games {
			if o.Enabled != nil && matchesPattern(pattern, key) {
				cfg.Games[i].Enabled = *o.Enabled
			}
		}
	}
}

// matchesPattern checks whether name matches pattern using filepath.Match glob syntax.
func matchesPattern(pattern, name string) bool {
	matched, err := filepath.Match(pattern, name)
	return err == nil && matched
}
