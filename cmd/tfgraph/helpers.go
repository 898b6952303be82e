package main

import (
	"context"
	"path/filepath"

	"tfgraph/internal/config"
	"tfgraph/internal/graph"
	"tfgraph/internal/logging"
)

// newContext returns the context commands run under. Cancellation policy, if
// any, belongs to the CI host that invokes us.
func newContext() context.Context {
	return context.Background()
}

// loadSetup resolves the workspace root, loads configuration from it and
// constructs the logger. CLI flags override config file values.
func loadSetup() (string, *config.Config, *logging.Logger, error) {
	workspaceRoot, err := filepath.Abs(workspaceFlag)
	if err != nil {
		return "", nil, nil, err
	}

	cfg, err := config.LoadConfig(workspaceRoot)
	if err != nil {
		return "", nil, nil, err
	}

	format := cfg.Logging.Format
	if logFormatFlag != "" {
		format = logFormatFlag
	}
	level := cfg.Logging.Level
	if logLevelFlag != "" {
		level = logLevelFlag
	}

	logger := logging.NewLogger(logging.Config{
		Format: logging.Format(format),
		Level:  logging.LogLevel(level),
	})

	return workspaceRoot, cfg, logger, nil
}

// snapshotPath resolves the deps-file location: an explicit flag wins,
// otherwise the configured path relative to the workspace root.
func snapshotPath(workspaceRoot string, cfg *config.Config, flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return filepath.Join(workspaceRoot, cfg.Graph.SnapshotPath)
}

// loadGraph reads the dependency snapshot commands resolve against.
func loadGraph(workspaceRoot string, cfg *config.Config, flagValue string) (*graph.DependencyGraph, error) {
	return graph.LoadSnapshot(snapshotPath(workspaceRoot, cfg, flagValue))
}
