package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"tfgraph/internal/builder"
	"tfgraph/internal/gitrepo"
	"tfgraph/internal/graph"
	"tfgraph/internal/logging"
	"tfgraph/internal/scan"
	"tfgraph/internal/terraform"
)

var (
	generateOutput      string
	generateIgnoreFile  string
	generateAnalyzer    string
	generateConcurrency int
)

var generateCmd = &cobra.Command{
	Use:   "generate-deps",
	Short: "Scan the workspace and write the dependency snapshot",
	Long: `Scan the workspace for Terraform root configurations, analyze each root's
module references and required providers, and write the dependency snapshot.

Every run is a full, idempotent re-scan: the snapshot is replaced wholesale
and roots that no longer exist simply vanish from it. If any root's analysis
fails, no snapshot is written.

Examples:
  tfgraph generate-deps
  tfgraph generate-deps --root infra --output infra/terraform-deps.json
  tfgraph generate-deps --analyzer static --concurrency 8`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&generateOutput, "output", "",
		"Snapshot output path (default: configured snapshotPath)")
	generateCmd.Flags().StringVar(&generateIgnoreFile, "ignore-file", "",
		"Ignore file path (default: configured ignoreFile)")
	generateCmd.Flags().StringVar(&generateAnalyzer, "analyzer", "",
		"Root analyzer: terraform or static (default: from config)")
	generateCmd.Flags().IntVar(&generateConcurrency, "concurrency", 0,
		"Max parallel root analyses (default: from config)")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	workspaceRoot, cfg, logger, err := loadSetup()
	if err != nil {
		return err
	}
	ctx := newContext()

	analyzerMode := cfg.Graph.Analyzer
	if generateAnalyzer != "" {
		analyzerMode = generateAnalyzer
	}
	concurrency := cfg.Graph.Concurrency
	if generateConcurrency > 0 {
		concurrency = generateConcurrency
	}

	var analyzer terraform.Analyzer
	if analyzerMode == "static" {
		analyzer = terraform.NewStaticAnalyzer(logger)
	} else {
		runner := terraform.NewRunner(cfg.Graph.TerraformBin, logger)
		toolVersion, err := runner.CheckTool(ctx)
		if err != nil {
			return err
		}
		logger.Debug("Using terraform analyzer", logging.Fields{"version": toolVersion})
		analyzer = runner
	}

	ignoreFile := generateIgnoreFile
	if ignoreFile == "" {
		ignoreFile = filepath.Join(workspaceRoot, cfg.Graph.IgnoreFile)
	}
	patterns, err := scan.LoadIgnoreFile(ignoreFile)
	if err != nil {
		return err
	}

	b := builder.New(builder.Options{
		WorkspaceRoot: workspaceRoot,
		Discoverer:    scan.NewWalker(cfg.Graph.MarkerFile, scan.NewMatcher(patterns), logger),
		Analyzer:      analyzer,
		Remote:        gitrepo.NewRepo(workspaceRoot, logger),
		Concurrency:   concurrency,
		Logger:        logger,
	})

	g, err := b.Build(ctx)
	if err != nil {
		return err
	}

	output := generateOutput
	if output == "" {
		output = filepath.Join(workspaceRoot, cfg.Graph.SnapshotPath)
	}
	if err := graph.SaveSnapshot(g, output); err != nil {
		return err
	}

	logger.Info("Snapshot written", logging.Fields{"path": output})
	return nil
}
