// SPDX-License-Identifier: GPL-2.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Compile.Strict {
		t.Error("expected strict to be false by default")
	}
	if cfg.Output.Pak != "" || cfg.Output.Report != "" {
		t.Errorf("expected no pak and no report, got %+v", cfg.Output)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "goqbsp.yaml")
	data := []byte(`
output:
  pak: baseq2/pak9.pak
compile:
  strict: true
logging:
  log_file: goqbsp.log
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q): %v", path, err)
	}
	if cfg.Output.Pak != "baseq2/pak9.pak" {
		t.Errorf("expected pak baseq2/pak9.pak, got %s", cfg.Output.Pak)
	}
	if !cfg.Compile.Strict {
		t.Error("expected strict to be true")
	}
	if cfg.Logging.LogFile != "goqbsp.log" {
		t.Errorf("expected log file goqbsp.log, got %s", cfg.Logging.LogFile)
	}
	// not in the file, keeps its default
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected an error for a missing explicit config file")
	}
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("compile: [1, 2"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("expected an error for invalid yaml")
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "goqbsp.yaml")
	cfg := Default()
	cfg.Output.Report = "reports.json"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *got != *cfg {
		t.Errorf("Load(SaveTo(%+v)) = %+v", cfg, got)
	}
}
