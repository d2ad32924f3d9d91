// internal/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Config holds converter settings. The module manages no credentials by
// design, so nothing here is secret.
type Config struct {
	LogLevel          string `json:"log_level"`
	OutputFormat      string `json:"output_format"`
	MaxConcurrent     int    `json:"max_concurrent"`
	DocTimeoutSeconds int    `json:"doc_timeout_seconds"`
	SkipValidation    bool   `json:"skip_validation"`
	TokenizerModel    string `json:"tokenizer_model"`
	HTMLTheme         string `json:"html_theme"`
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(os.Getenv("HOME"), ".chatconv", "config.json")
}

// Load reads the config file, writing defaults on first use, then applies
// environment overrides (highest precedence).
func Load(path string) (*Config, error) {
	cfg := &Config{
		LogLevel:          "info",
		OutputFormat:      "json",
		MaxConcurrent:     4,
		DocTimeoutSeconds: 30,
		HTMLTheme:         "light",
	}

	// Load from file if exists, otherwise write defaults
	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	} else if os.IsNotExist(err) {
		if err := writeDefaults(path, cfg); err != nil {
			return nil, err
		}
	}

	if level := os.Getenv("CHATCONV_LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}
	if format := os.Getenv("CHATCONV_OUTPUT_FORMAT"); format != "" {
		cfg.OutputFormat = format
	}
	if model := os.Getenv("CHATCONV_TOKENIZER_MODEL"); model != "" {
		cfg.TokenizerModel = model
	}

	return cfg, nil
}

func writeDefaults(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}
	data = append(data, '\n')
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename default config: %w", err)
	}
	return nil
}

// ListValues returns the config as a flat dot-keyed map for display.
func ListValues(cfg *Config) (map[string]any, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	var nested map[string]any
	if err := json.Unmarshal(data, &nested); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return Flatten(nested), nil
}

// GetValue reads one dot-keyed value from the config file.
func GetValue(path, key string) (any, error) {
	flat, err := loadFlat(path)
	if err != nil {
		return nil, err
	}
	v, ok := flat[key]
	if !ok {
		return nil, fmt.Errorf("unknown config key: %s", key)
	}
	return v, nil
}

// SetValue writes one dot-keyed value to the config file, coercing the
// string to bool or number when it parses as one.
func SetValue(path, key, value string) error {
	flat, err := loadFlat(path)
	if err != nil {
		return err
	}
	if _, ok := flat[key]; !ok {
		return fmt.Errorf("unknown config key: %s", key)
	}
	flat[key] = coerce(value)

	data, err := json.MarshalIndent(Unflatten(flat), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	data = append(data, '\n')
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}

func loadFlat(path string) (map[string]any, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	return ListValues(cfg)
}

func coerce(value string) any {
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	if n, err := strconv.ParseFloat(value, 64); err == nil {
		return n
	}
	return value
}
