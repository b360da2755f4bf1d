package config

import (
	"fmt"
	"os"
	"path/filepath"

	"autogame.dev/internal/dirs"
)

// SearchPaths returns the candidate config locations in priority order:
// 1. Custom path (if provided)
// 2. $AUTOGAME_CONFIG
// 3. ./config.json
// 4. ./config.yaml
func SearchPaths(customPath string) []string {
	var paths []string
	for _, p := range []string{customPath, os.Getenv(dirs.ConfigEnv), dirs.ConfigFile, dirs.ConfigFileYAML} {
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// LoadConfig finds and parses the configuration, applies the overrides file
// that sits next to it, then validates. It returns the path that was used.
func LoadConfig(customPath string) (*Config, string, error) {
	searchPaths := SearchPaths(customPath)

	for i, path := range searchPaths {
		if _, err := os.Stat(path); err != nil {
			// an explicit path that does not exist is not silently skipped
			if i == 0 && customPath != "" {
				return nil, "", fmt.Errorf("%w: %s", ErrConfigMissing, path)
			}
			continue
		}

		cfg, err := ParseConfig(path)
		if err != nil {
			return nil, path, fmt.Errorf("failed to parse config at %s: %w", path, err)
		}

		overrides, err := LoadOverrides(filepath.Join(filepath.Dir(path), dirs.OverridesFile))
		if err != nil {
			return nil, path, err
		}
		ApplyOverrides(cfg, overrides)

		if err := Validate(cfg); err != nil {
			return nil, path, fmt.Errorf("invalid config at %s: %w", path, err)
		}

		return cfg, path, nil
	}

	return nil, "", fmt.Errorf("%w (searched: %v)", ErrConfigMissing, searchPaths)
}
