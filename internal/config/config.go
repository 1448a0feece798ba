// Package config loads numguard host configuration from YAML with
// environment overrides, and pushes the determinism flags into the
// process-wide mode state.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"numguard/internal/alert"
	"numguard/internal/determinism"
)

// Config holds all numguard configuration.
type Config struct {
	Determinism DeterminismConfig `yaml:"determinism"`
	Alerts      AlertConfig       `yaml:"alerts"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// DeterminismConfig configures the initial mode state.
type DeterminismConfig struct {
	// Required demands deterministic algorithms from every guarded
	// operator.
	Required bool `yaml:"required"`

	// WarnOnly downgrades aborts to warnings; nondeterministic-only
	// operators still run their single implementation.
	WarnOnly bool `yaml:"warn_only"`
}

// AlertConfig configures the warning channel.
type AlertConfig struct {
	// WarnPolicy is "every_call" (default) or "once_per_operator".
	WarnPolicy string `yaml:"warn_policy"`
}

// LoggingConfig configures the zap logger the host builds.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// DefaultConfig returns the out-of-the-box configuration: determinism
// off, warn-only off, one warning per call.
func DefaultConfig() *Config {
	return &Config{
		Determinism: DeterminismConfig{
			Required: false,
			WarnOnly: false,
		},
		Alerts: AlertConfig{
			WarnPolicy: "every_call",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment variables override the file in either case.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case os.IsNotExist(err):
		// Defaults plus environment; validated the same as a file.
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies NUMGUARD_* environment variables on top of
// whatever the file supplied. Unset or unparsable values leave the
// existing setting alone.
func (c *Config) applyEnvOverrides() {
	if v, ok := lookupBool("NUMGUARD_DETERMINISTIC"); ok {
		c.Determinism.Required = v
	}
	if v, ok := lookupBool("NUMGUARD_WARN_ONLY"); ok {
		c.Determinism.WarnOnly = v
	}
	if v := os.Getenv("NUMGUARD_WARN_POLICY"); v != "" {
		c.Alerts.WarnPolicy = v
	}
	if v := os.Getenv("NUMGUARD_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

func lookupBool(key string) (bool, bool) {
	v := os.Getenv(key)
	if v == "" {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false
	}
	return b, true
}

// Validate checks the settings that have a closed set of values.
func (c *Config) Validate() error {
	if _, err := alert.ParsePolicy(c.Alerts.WarnPolicy); err != nil {
		return fmt.Errorf("alerts: %w", err)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging: unknown level %q", c.Logging.Level)
	}
	return nil
}

// WarnPolicy returns the parsed alert policy.
func (c *Config) WarnPolicy() alert.Policy {
	p, err := alert.ParsePolicy(c.Alerts.WarnPolicy)
	if err != nil {
		return alert.WarnEveryCall
	}
	return p
}

// Apply pushes the determinism flags into the process-wide mode state.
func (c *Config) Apply() {
	determinism.SetDeterministic(c.Determinism.Required)
	determinism.SetWarnOnly(c.Determinism.WarnOnly)
}
