package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FromFile loads configuration from a file, auto-detecting format by extension.
// Supported extensions: .yaml, .yml, .json
func FromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return FromYAML(data)
	case ".json":
		return FromJSON(data)
	default:
		return Config{}, fmt.Errorf("unsupported config file extension: %q", ext)
	}
}

// FromYAML parses YAML data into a Config.
func FromYAML(data []byte) (Config, error) {
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Config{}, fmt.Errorf("parse yaml: %w", err)
	}
	return New(m), nil
}

// FromJSON parses JSON data into a Config.
func FromJSON(data []byte) (Config, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return Config{}, fmt.Errorf("parse json: %w", err)
	}
	return New(m), nil
}

// LoadSettings builds Settings from defaults, the optional file at path
// and RULEKIT_* environment variables, in that order of precedence, and
// validates the result. An empty path skips the file.
func LoadSettings(path string) (Settings, error) {
	s, err := ResolveSettings(path)
	if err != nil {
		return Settings{}, err
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// ResolveSettings layers the same sources as LoadSettings without
// validating, so callers can apply further overrides first.
func ResolveSettings(path string) (Settings, error) {
	cfg := New(nil)
	if path != "" {
		var err error
		cfg, err = FromFile(path)
		if err != nil {
			return Settings{}, err
		}
	}

	s := SettingsFrom(cfg)
	s.ApplyEnv(os.LookupEnv)
	return s, nil
}
