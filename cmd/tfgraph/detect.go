package main

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"tfgraph/internal/gitrepo"
	"tfgraph/internal/matrix"
	"tfgraph/internal/resolver"
)

var (
	detectBase     string
	detectHead     string
	detectDepsFile string
	detectOutput   string
	detectFormat   string
)

var detectCmd = &cobra.Command{
	Use:   "detect-changes",
	Short: "Resolve the roots affected by a two-commit diff",
	Long: `Diff two commits and resolve the affected root configurations against the
dependency snapshot. A root is affected when a changed file lies under it or
under a local module it uses.

Examples:
  tfgraph detect-changes --base origin/main --head HEAD
  tfgraph detect-changes --base abc123 --head def456 --output matrix.json`,
	RunE: runDetect,
}

func init() {
	detectCmd.Flags().StringVar(&detectBase, "base", "", "Base commit (required)")
	detectCmd.Flags().StringVar(&detectHead, "head", "", "Head commit (required)")
	detectCmd.Flags().StringVar(&detectDepsFile, "deps-file", "",
		"Dependency snapshot path (default: configured snapshotPath)")
	detectCmd.Flags().StringVar(&detectOutput, "output", "",
		"Matrix output path (default: stdout)")
	detectCmd.Flags().StringVar(&detectFormat, "format", "json",
		"Output format: json or yaml")
	_ = detectCmd.MarkFlagRequired("base")
	_ = detectCmd.MarkFlagRequired("head")
	rootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, args []string) error {
	workspaceRoot, cfg, logger, err := loadSetup()
	if err != nil {
		return err
	}
	format, err := matrix.ParseFormat(detectFormat)
	if err != nil {
		return err
	}
	ctx := newContext()

	g, err := loadGraph(workspaceRoot, cfg, detectDepsFile)
	if err != nil {
		return err
	}

	repo := gitrepo.NewRepo(workspaceRoot, logger)
	entries, err := resolver.New(repo, logger).Resolve(ctx, detectBase, detectHead, g)
	if err != nil {
		return err
	}

	return matrix.Write(matrix.Build(entries, uuid.NewString()), format, detectOutput)
}
