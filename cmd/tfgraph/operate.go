package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"tfgraph/internal/command"
	"tfgraph/internal/errors"
	"tfgraph/internal/gitrepo"
	"tfgraph/internal/graph"
	"tfgraph/internal/logging"
	"tfgraph/internal/matrix"
	"tfgraph/internal/resolver"
	"tfgraph/internal/targets"
)

var (
	operateCommentBody string
	operateBaseSha     string
	operateHeadSha     string
	operateDepsFile    string
	operateOutput      string
	operateTrigger     string
)

var operateCmd = &cobra.Command{
	Use:   "operate-command",
	Short: "Parse a chat command and resolve its targets",
	Long: `Parse a chat/PR-comment body as an operator command. Text that is not a
command at all is a deliberate no-op (exit 0, no output). A recognized
command with explicit targets validates them; one without targets resolves
the roots affected between the base and head commits.

Examples:
  tfgraph operate-command --comment-body "terraform-ops plan app1" --base-sha abc --head-sha def
  tfgraph operate-command --comment-body "$COMMENT" --base-sha "$BASE" --head-sha "$HEAD"`,
	RunE: runOperate,
}

func init() {
	operateCmd.Flags().StringVar(&operateCommentBody, "comment-body", "",
		"Raw chat-message text (required)")
	operateCmd.Flags().StringVar(&operateBaseSha, "base-sha", "",
		"Base commit for target resolution when the command names none")
	operateCmd.Flags().StringVar(&operateHeadSha, "head-sha", "",
		"Head commit for target resolution when the command names none")
	operateCmd.Flags().StringVar(&operateDepsFile, "deps-file", "",
		"Dependency snapshot path (default: configured snapshotPath)")
	operateCmd.Flags().StringVar(&operateOutput, "output", "",
		"Matrix output path (default: stdout)")
	operateCmd.Flags().StringVar(&operateTrigger, "trigger", "",
		"Trigger token (default: from config)")
	_ = operateCmd.MarkFlagRequired("comment-body")
	rootCmd.AddCommand(operateCmd)
}

func runOperate(cmd *cobra.Command, args []string) error {
	workspaceRoot, cfg, logger, err := loadSetup()
	if err != nil {
		return err
	}
	ctx := newContext()

	trigger := cfg.Command.Trigger
	if operateTrigger != "" {
		trigger = operateTrigger
	}

	parsed := command.NewParser(trigger).Parse(operateCommentBody)
	if parsed == nil {
		// Not a command: silence, not an error.
		logger.Debug("Comment is not a command", nil)
		return nil
	}

	switch parsed.Action {
	case command.ActionHelp:
		fmt.Println(parsed.Message)
		return nil
	case command.ActionError:
		return errors.New(errors.InvalidTarget, parsed.Message, nil)
	}

	g, err := loadGraph(workspaceRoot, cfg, operateDepsFile)
	if err != nil {
		return err
	}

	var entries []graph.MatrixEntry
	if len(parsed.Targets) > 0 {
		entries, err = targets.New(logger).Resolve(parsed.Targets, g)
		if err != nil {
			return err
		}
	} else {
		if operateBaseSha == "" || operateHeadSha == "" {
			return errors.New(errors.InvalidArgument,
				"--base-sha and --head-sha are required when the command names no targets", nil)
		}
		repo := gitrepo.NewRepo(workspaceRoot, logger)
		entries, err = resolver.New(repo, logger).Resolve(ctx, operateBaseSha, operateHeadSha, g)
		if err != nil {
			return err
		}
	}

	m := matrix.Build(entries, uuid.NewString())
	m.Action = string(parsed.Action)

	logger.Info("Operator command resolved", logging.Fields{
		"action":  parsed.Action,
		"targets": len(m.Include),
	})
	return matrix.Write(m, matrix.JSON, operateOutput)
}
