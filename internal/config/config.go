// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for chatdeck.
//
// Configuration is read from ~/.chatdeck/config.toml, with built-in defaults
// and environment variable overrides applied on top.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"chatdeck/internal/model"
	"chatdeck/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete chatdeck configuration.
type Config struct {
	// DefaultModel is the model ID used when no persisted choice exists.
	DefaultModel string `toml:"default_model"`

	// DataDir is the directory for the state database. Empty means the
	// config directory.
	DataDir string `toml:"data_dir"`

	UI        UIConfig        `toml:"ui"`
	Generator GeneratorConfig `toml:"generator"`
	Export    ExportConfig    `toml:"export"`
	Debug     DebugConfig     `toml:"debug"`
}

// UIConfig contains appearance configuration.
type UIConfig struct {
	// Theme is the startup theme: "light", "dark", or "system". A persisted
	// theme preference takes precedence over this value.
	Theme string `toml:"theme"`
}

// GeneratorConfig tunes the simulated response timing. All values are
// milliseconds; a max below its min is raised to the min.
type GeneratorConfig struct {
	ResponseDelayMinMs int `toml:"response_delay_min_ms"`
	ResponseDelayMaxMs int `toml:"response_delay_max_ms"`
	TokenDelayMinMs    int `toml:"token_delay_min_ms"`
	TokenDelayMaxMs    int `toml:"token_delay_max_ms"`
}

// ExportConfig contains export output configuration.
type ExportConfig struct {
	// Dir is where exported files are written. Empty means the current
	// working directory.
	Dir string `toml:"dir"`

	// Format selects the export file format: "json" or "markdown".
	Format string `toml:"format"`
}

// DebugConfig contains debug logging configuration.
type DebugConfig struct {
	// LogFile enables TUI debug logging to the given path when non-empty.
	LogFile string `toml:"log_file"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		DefaultModel: model.DefaultModel,

		UI: UIConfig{
			Theme: string(model.ThemeSystem),
		},

		Generator: GeneratorConfig{
			ResponseDelayMinMs: 1000,
			ResponseDelayMaxMs: 3000,
			TokenDelayMinMs:    50,
			TokenDelayMaxMs:    150,
		},

		Export: ExportConfig{
			Dir:    ".",
			Format: "json",
		},
	}
}

// =============================================================================
// PATH HELPERS
// =============================================================================

// Dir returns the chatdeck configuration directory path.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".chatdeck"), nil
}

// Path returns the path to the TOML config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

// Load reads the config file, falling back to defaults when it does not
// exist. On first run the defaults are written out so the file is there to
// edit. Environment overrides are applied last.
func Load() (*Config, error) {
	cfg := Default()

	path, err := Path()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, fmt.Errorf("failed to decode config: %w", err)
			}
		} else if os.IsNotExist(statErr) {
			// Best effort; an unwritable home still runs on defaults.
			_ = cfg.Save()
		}
	}

	cfg.applyEnvOverrides()
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFile reads the config from an explicit path. The file must exist.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.applyEnvOverrides()
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save writes the config to the default path atomically.
func (c *Config) Save() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return util.AtomicWriteFile(filepath.Join(dir, "config.toml"), buf.Bytes(), 0600)
}

// applyEnvOverrides applies CHATDECK_* environment variables over the
// loaded values.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("CHATDECK_MODEL"); v != "" {
		c.DefaultModel = v
	}
	if v := os.Getenv("CHATDECK_THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv("CHATDECK_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("CHATDECK_EXPORT_DIR"); v != "" {
		c.Export.Dir = v
	}
	if v := os.Getenv("CHATDECK_EXPORT_FORMAT"); v != "" {
		c.Export.Format = v
	}
	if v := os.Getenv("CHATDECK_DEBUG_LOG"); v != "" {
		c.Debug.LogFile = v
	}
}

// setDefaults repairs empty or inconsistent values after a partial config
// file overwrote the defaults.
func (c *Config) setDefaults() {
	if c.DefaultModel == "" {
		c.DefaultModel = model.DefaultModel
	}
	if c.UI.Theme == "" {
		c.UI.Theme = string(model.ThemeSystem)
	}
	if c.Export.Dir == "" {
		c.Export.Dir = "."
	}
	if c.Export.Format == "" {
		c.Export.Format = "json"
	}
	g := &c.Generator
	if g.ResponseDelayMinMs < 0 {
		g.ResponseDelayMinMs = 0
	}
	if g.TokenDelayMinMs < 0 {
		g.TokenDelayMinMs = 0
	}
	if g.ResponseDelayMaxMs < g.ResponseDelayMinMs {
		g.ResponseDelayMaxMs = g.ResponseDelayMinMs
	}
	if g.TokenDelayMaxMs < g.TokenDelayMinMs {
		g.TokenDelayMaxMs = g.TokenDelayMinMs
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if !model.Theme(c.UI.Theme).Valid() {
		return fmt.Errorf("ui.theme must be one of light, dark, system (got %q)", c.UI.Theme)
	}
	if c.Export.Format != "json" && c.Export.Format != "markdown" {
		return fmt.Errorf("export.format must be json or markdown (got %q)", c.Export.Format)
	}
	return nil
}

// =============================================================================
// DERIVED VALUES
// =============================================================================

// StatePath returns the path to the state database.
func (c *Config) StatePath() (string, error) {
	dir := c.DataDir
	if dir == "" {
		var err error
		dir, err = Dir()
		if err != nil {
			return "", err
		}
	}
	return filepath.Join(dir, "state.db"), nil
}

// ResponseDelay returns the configured response delay bounds.
func (c *Config) ResponseDelay() (min, max time.Duration) {
	return time.Duration(c.Generator.ResponseDelayMinMs) * time.Millisecond,
		time.Duration(c.Generator.ResponseDelayMaxMs) * time.Millisecond
}

// TokenDelay returns the configured per-token delay bounds.
func (c *Config) TokenDelay() (min, max time.Duration) {
	return time.Duration(c.Generator.TokenDelayMinMs) * time.Millisecond,
		time.Duration(c.Generator.TokenDelayMaxMs) * time.Millisecond
}

// Theme returns the configured startup theme.
func (c *Config) Theme() model.Theme {
	return model.Theme(c.UI.Theme)
}
