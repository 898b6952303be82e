package main

import (
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"tfgraph/internal/errors"
	"tfgraph/internal/matrix"
	"tfgraph/internal/targets"
)

var (
	targetsList     string
	targetsDepsFile string
	targetsOutput   string
	targetsFormat   string
)

var targetsCmd = &cobra.Command{
	Use:   "select-targets",
	Short: "Validate an explicit list of root paths",
	Long: `Validate operator-supplied root paths against the dependency snapshot and
emit them as a matrix. Validation is all-or-nothing: if any target does not
name a known root, the command fails listing every unresolved target.

Examples:
  tfgraph select-targets --targets "envs/prod/app1 envs/prod/app2"
  tfgraph select-targets --targets "app1/" --output matrix.json`,
	RunE: runTargets,
}

func init() {
	targetsCmd.Flags().StringVar(&targetsList, "targets", "",
		"Space-separated root paths (required)")
	targetsCmd.Flags().StringVar(&targetsDepsFile, "deps-file", "",
		"Dependency snapshot path (default: configured snapshotPath)")
	targetsCmd.Flags().StringVar(&targetsOutput, "output", "",
		"Matrix output path (default: stdout)")
	targetsCmd.Flags().StringVar(&targetsFormat, "format", "json",
		"Output format: json or yaml")
	_ = targetsCmd.MarkFlagRequired("targets")
	rootCmd.AddCommand(targetsCmd)
}

func runTargets(cmd *cobra.Command, args []string) error {
	workspaceRoot, cfg, logger, err := loadSetup()
	if err != nil {
		return err
	}
	format, err := matrix.ParseFormat(targetsFormat)
	if err != nil {
		return err
	}

	list := strings.Fields(targetsList)
	if len(list) == 0 {
		return errors.New(errors.InvalidArgument, "--targets must name at least one root path", nil)
	}

	g, err := loadGraph(workspaceRoot, cfg, targetsDepsFile)
	if err != nil {
		return err
	}

	entries, err := targets.New(logger).Resolve(list, g)
	if err != nil {
		return err
	}

	return matrix.Write(matrix.Build(entries, uuid.NewString()), format, targetsOutput)
}
