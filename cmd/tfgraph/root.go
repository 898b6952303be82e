package main

import (
	"github.com/spf13/cobra"

	"tfgraph/internal/version"
)

var (
	// workspaceFlag is the CLI --root flag value
	workspaceFlag string
	// logFormatFlag is the CLI --log-format flag value
	logFormatFlag string
	// logLevelFlag is the CLI --log-level flag value
	logLevelFlag string
)

var rootCmd = &cobra.Command{
	Use:   "tfgraph",
	Short: "tfgraph - Terraform monorepo dependency graph",
	Long: `tfgraph decides which Terraform root configurations in a monorepo must be
(re)planned or applied. It builds a dependency graph of roots, the local
modules they use and the providers they require, resolves a two-commit diff
or an explicit target list against that graph, and emits a CI job matrix.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate("tfgraph version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&workspaceFlag, "root", ".",
		"Workspace root directory")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "",
		"Log format: human or json (default: from config)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "",
		"Log level: debug, info, warn or error (default: from config)")
}
