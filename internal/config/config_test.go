// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"chatdeck/internal/model"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.DefaultModel != model.DefaultModel {
		t.Errorf("DefaultModel = %q", cfg.DefaultModel)
	}
	if cfg.UI.Theme != "system" {
		t.Errorf("Theme = %q, want system", cfg.UI.Theme)
	}
	if cfg.Generator.ResponseDelayMinMs != 1000 || cfg.Generator.ResponseDelayMaxMs != 3000 {
		t.Errorf("response delay = %d-%d, want 1000-3000",
			cfg.Generator.ResponseDelayMinMs, cfg.Generator.ResponseDelayMaxMs)
	}
	if cfg.Generator.TokenDelayMinMs != 50 || cfg.Generator.TokenDelayMaxMs != 150 {
		t.Errorf("token delay = %d-%d, want 50-150",
			cfg.Generator.TokenDelayMinMs, cfg.Generator.TokenDelayMaxMs)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFilePartialOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
default_model = "claude-2"

[ui]
theme = "dark"

[generator]
token_delay_min_ms = 5
token_delay_max_ms = 10
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.DefaultModel != "claude-2" {
		t.Errorf("DefaultModel = %q", cfg.DefaultModel)
	}
	if cfg.Theme() != model.ThemeDark {
		t.Errorf("Theme = %q", cfg.Theme())
	}
	if cfg.Generator.TokenDelayMinMs != 5 || cfg.Generator.TokenDelayMaxMs != 10 {
		t.Errorf("token delay = %d-%d", cfg.Generator.TokenDelayMinMs, cfg.Generator.TokenDelayMaxMs)
	}
	// Untouched sections keep their defaults.
	if cfg.Generator.ResponseDelayMinMs != 1000 {
		t.Errorf("ResponseDelayMinMs = %d, want default 1000", cfg.Generator.ResponseDelayMinMs)
	}
}

func TestLoadFileInvalidTheme(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[ui]\ntheme = \"neon\"\n"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFile(path); err == nil {
		t.Error("invalid theme should fail validation")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CHATDECK_MODEL", "llama-2-70b")
	t.Setenv("CHATDECK_THEME", "light")
	t.Setenv("CHATDECK_EXPORT_DIR", "/tmp/exports")

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("default_model = \"gpt-4\"\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.DefaultModel != "llama-2-70b" {
		t.Errorf("DefaultModel = %q, env should win over file", cfg.DefaultModel)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("Theme = %q", cfg.UI.Theme)
	}
	if cfg.Export.Dir != "/tmp/exports" {
		t.Errorf("Export.Dir = %q", cfg.Export.Dir)
	}
}

func TestExportFormat(t *testing.T) {
	if got := Default().Export.Format; got != "json" {
		t.Errorf("default format = %q, want json", got)
	}

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[export]\nformat = \"markdown\"\n"), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Export.Format != "markdown" {
		t.Errorf("format = %q, want markdown", cfg.Export.Format)
	}

	if err := os.WriteFile(path, []byte("[export]\nformat = \"pdf\"\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("unknown export format should fail validation")
	}
}

func TestLoadWritesDefaultsOnFirstRun(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DefaultModel != model.DefaultModel {
		t.Errorf("DefaultModel = %q", cfg.DefaultModel)
	}

	path, err := Path()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("first run did not write the config file: %v", err)
	}

	// The written file round-trips.
	if _, err := LoadFile(path); err != nil {
		t.Errorf("written defaults do not load back: %v", err)
	}
}

func TestSetDefaultsRepairsDelayOrder(t *testing.T) {
	cfg := Default()
	cfg.Generator.ResponseDelayMinMs = 500
	cfg.Generator.ResponseDelayMaxMs = 100
	cfg.Generator.TokenDelayMinMs = -5

	cfg.setDefaults()

	if cfg.Generator.ResponseDelayMaxMs != 500 {
		t.Errorf("ResponseDelayMaxMs = %d, want raised to min", cfg.Generator.ResponseDelayMaxMs)
	}
	if cfg.Generator.TokenDelayMinMs != 0 {
		t.Errorf("TokenDelayMinMs = %d, want 0", cfg.Generator.TokenDelayMinMs)
	}
}

func TestDelayConversion(t *testing.T) {
	cfg := Default()
	cfg.Generator.TokenDelayMinMs = 50
	cfg.Generator.TokenDelayMaxMs = 150

	min, max := cfg.TokenDelay()
	if min != 50*time.Millisecond || max != 150*time.Millisecond {
		t.Errorf("TokenDelay = %v-%v", min, max)
	}
}
