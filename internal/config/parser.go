package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	defaultLaunchTimeout = 30
	defaultPollInterval  = 1
)

// Default returns a configuration with no games and default global settings
func Default() *Config {
	return &Config{
		GlobalSettings: GlobalSettings{
			UserChoiceTimeout: 10,
			ExitCountdown:     5,
			MaxLogFiles:       5,
			LogDir:            "./logs",
			PollInterval:      defaultPollInterval,
			SettleWait:        15,
			Interpreter:       "python",
		},
	}
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// decodeDocument decodes a config file into generic maps for schema and
// legacy checks
func decodeDocument(path string, data []byte) (map[string]any, error) {
	var doc map[string]any
	if isYAML(path) {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: failed to parse YAML from %s: %v", ErrConfigMalformed, path, err)
		}
	} else {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: failed to parse JSON from %s: %v", ErrConfigMalformed, path, err)
		}
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: %s is empty", ErrConfigMalformed, path)
	}
	return doc, nil
}

// ParseConfig reads a config file, migrating the legacy flat layout in place
// when it is detected, and applies defaults. It does not run semantic validation.
func ParseConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	doc, err := decodeDocument(path, data)
	if err != nil {
		return nil, err
	}

	if IsLegacy(doc) {
		return MigrateLegacy(path, doc)
	}

	if errs := ValidateDocument(doc); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s:\n  - %s", ErrConfigMalformed, path, strings.Join(errs, "\n  - "))
	}

	cfg := Default()
	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigMalformed, path, err)
	}

	applyDefaults(cfg)
	return cfg, nil
}

// applyDefaults fills values that are meaningless at zero
func applyDefaults(cfg *Config) {
	if cfg.GlobalSettings.PollInterval <= 0 {
		cfg.GlobalSettings.PollInterval = defaultPollInterval
	}
	if cfg.GlobalSettings.LogDir == "" {
		cfg.GlobalSettings.LogDir = Default().GlobalSettings.LogDir
	}
	if cfg.GlobalSettings.Interpreter == "" {
		cfg.GlobalSettings.Interpreter = Default().GlobalSettings.Interpreter
	}

	for i := range cfg.Games {
		if cfg.Games[i].LaunchTimeout == 0 {
			cfg.Games[i].LaunchTimeout = defaultLaunchTimeout
		}
	}
}

// Save writes cfg to path as JSON or YAML depending on the extension.
// Games are written in configured order.
func Save(path string, cfg *Config) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(cfg)
	} else {
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		err = enc.Encode(cfg)
		data = buf.Bytes()
	}
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return nil
}
