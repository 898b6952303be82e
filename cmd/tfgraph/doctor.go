package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tfgraph/internal/errors"
	"tfgraph/internal/gitrepo"
	"tfgraph/internal/graph"
	"tfgraph/internal/terraform"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the environment tfgraph depends on",
	Long: `Check that the external collaborators tfgraph depends on are usable:
the terraform binary, git, and the dependency snapshot.

Examples:
  tfgraph doctor
  tfgraph doctor --root infra`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	workspaceRoot, cfg, logger, err := loadSetup()
	if err != nil {
		return err
	}
	ctx := newContext()

	ok := true

	runner := terraform.NewRunner(cfg.Graph.TerraformBin, logger)
	if toolVersion, err := runner.CheckTool(ctx); err != nil {
		ok = false
		fmt.Printf("✗ terraform: %v\n", err)
	} else {
		fmt.Printf("✓ terraform %s\n", toolVersion)
	}

	repo := gitrepo.NewRepo(workspaceRoot, logger)
	if repo.IsRepository(ctx) {
		if identity, err := repo.RemoteIdentity(ctx); err == nil && identity != "" {
			fmt.Printf("✓ git repository (origin: %s)\n", identity)
		} else {
			fmt.Println("✓ git repository (no origin remote; same-repo module sources will not resolve)")
		}
	} else {
		ok = false
		fmt.Printf("✗ %s is not a git repository\n", workspaceRoot)
	}

	path := snapshotPath(workspaceRoot, cfg, "")
	if g, err := graph.LoadSnapshot(path); err != nil {
		switch errors.CodeOf(err) {
		case errors.SnapshotMissing:
			fmt.Printf("- snapshot %s missing (run: tfgraph generate-deps)\n", path)
		default:
			ok = false
			fmt.Printf("✗ snapshot: %v\n", err)
		}
	} else {
		fmt.Printf("✓ snapshot %s (%d roots, %d modules)\n", path, len(g.Dirs), len(g.Modules))
	}

	if !ok {
		return errors.New(errors.ToolMissing, "environment checks failed", nil)
	}
	return nil
}
