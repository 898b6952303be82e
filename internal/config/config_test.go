package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if cfg.Graph.SnapshotPath != "terraform-deps.json" {
		t.Errorf("SnapshotPath = %q, want terraform-deps.json", cfg.Graph.SnapshotPath)
	}
	if cfg.Graph.MarkerFile != ".terraform-version" {
		t.Errorf("MarkerFile = %q, want .terraform-version", cfg.Graph.MarkerFile)
	}
	if cfg.Graph.Analyzer != "terraform" {
		t.Errorf("Analyzer = %q, want terraform", cfg.Graph.Analyzer)
	}
	if cfg.Graph.Concurrency <= 0 {
		t.Error("Concurrency should be positive")
	}
	if cfg.Command.Trigger == "" {
		t.Error("Trigger should not be empty")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Graph.SnapshotPath != "terraform-deps.json" {
		t.Errorf("SnapshotPath = %q, want default", cfg.Graph.SnapshotPath)
	}
	if cfg.WorkspaceRoot != dir {
		t.Errorf("WorkspaceRoot = %q, want %q", cfg.WorkspaceRoot, dir)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, ".tfgraph"), 0755); err != nil {
		t.Fatal(err)
	}
	content := `{
  "graph": {"snapshotPath": "deps/graph.json", "concurrency": 8, "analyzer": "static"},
  "command": {"trigger": "tf-ops"}
}`
	if err := os.WriteFile(filepath.Join(dir, ".tfgraph", "config.json"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Graph.SnapshotPath != "deps/graph.json" {
		t.Errorf("SnapshotPath = %q, want deps/graph.json", cfg.Graph.SnapshotPath)
	}
	if cfg.Graph.Concurrency != 8 {
		t.Errorf("Concurrency = %d, want 8", cfg.Graph.Concurrency)
	}
	if cfg.Graph.Analyzer != "static" {
		t.Errorf("Analyzer = %q, want static", cfg.Graph.Analyzer)
	}
	if cfg.Command.Trigger != "tf-ops" {
		t.Errorf("Trigger = %q, want tf-ops", cfg.Command.Trigger)
	}
	// Unset fields keep defaults.
	if cfg.Graph.MarkerFile != ".terraform-version" {
		t.Errorf("MarkerFile = %q, want default", cfg.Graph.MarkerFile)
	}
}

func TestValidateRejectsBadAnalyzer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Graph.Analyzer = "opentofu"
	if err := cfg.Validate(); err == nil {
		t.Error("Validate should reject unknown analyzer")
	}
}

func TestValidateRejectsZeroConcurrency(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Graph.Concurrency = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Validate should reject zero concurrency")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Command.Trigger = "deploy-bot"

	if err := cfg.Save(dir); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.Command.Trigger != "deploy-bot" {
		t.Errorf("Trigger = %q, want deploy-bot", loaded.Command.Trigger)
	}
}
