package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sreeduggirala/checkmate/internal/config"
	"github.com/sreeduggirala/checkmate/internal/workspace"
)

var runTestsCmd = &cobra.Command{
	Use:   "run-tests [-- command...]",
	Short: "Run the configured test command (or an override) against the workspace directly",
	Long: `run-tests invokes the command runner directly, without touching
either agent. With no arguments it runs the configured test_command;
an explicit argv after "--" overrides it for this invocation only.`,
	RunE: runRunTests,
}

func init() {
	rootCmd.AddCommand(runTestsCmd)
}

func runRunTests(cmd *cobra.Command, args []string) error {
	root, err := resolveWorkspaceRoot()
	if err != nil {
		return fmt.Errorf("resolving workspace root: %w", err)
	}

	cfg, err := config.Load(root)
	if err != nil {
		return err
	}

	argv := args
	if len(argv) == 0 {
		argv = workspace.SplitCommand(cfg.TestCommand)
	}

	result := workspace.RunCommand(context.Background(), root, argv)
	return printJSON(cmd, result)
}
