// Package cmd wires the dualagent CLI entrypoint: a thin cobra shell
// around the orchestration core. The binary exists so the core has a
// concrete way to be invoked from a terminal; it adds no orchestration
// semantics of its own.
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sreeduggirala/checkmate/internal/log"

	_ "github.com/sreeduggirala/checkmate/internal/llm/anthropic"
	_ "github.com/sreeduggirala/checkmate/internal/llm/openai"
)

var (
	version = "dev"

	workspaceRoot string
	debugFlag     bool
)

var rootCmd = &cobra.Command{
	Use:     "dualagent",
	Short:   "Drive a Builder/Reviewer agent cycle against a workspace",
	Long:    `dualagent runs the dual-agent orchestration core's cycle state machine against a workspace, invoking the run/apply-patch/run-tests inbound channel described by the core's external interfaces.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&workspaceRoot, "workspace", "C", "",
		"workspace root (default: current directory, or $WORKSPACE_ROOT)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false,
		"enable debug logging (also: DUALAGENT_DEBUG=1)")

	cobra.OnInitialize(func() {
		if debugFlag {
			log.SetEnabled(true)
		}
	})
}

// resolveWorkspaceRoot applies the documented override precedence:
// --workspace flag, then $WORKSPACE_ROOT, then the current directory.
func resolveWorkspaceRoot() (string, error) {
	if workspaceRoot != "" {
		return workspaceRoot, nil
	}
	if env := os.Getenv("WORKSPACE_ROOT"); env != "" {
		return env, nil
	}
	return os.Getwd()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string reported by --version.
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
