package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sreeduggirala/checkmate/internal/config"
	"github.com/sreeduggirala/checkmate/internal/workspace"
)

var applyPatchCmd = &cobra.Command{
	Use:   "apply-patch [patchfile]",
	Short: "Validate and apply a unified diff against the workspace directly",
	Long: `apply-patch invokes the workspace guard directly, without touching
either agent. The patch is read from the given file, or from stdin
when no file is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runApplyPatch,
}

func init() {
	rootCmd.AddCommand(applyPatchCmd)
}

func runApplyPatch(cmd *cobra.Command, args []string) error {
	root, err := resolveWorkspaceRoot()
	if err != nil {
		return fmt.Errorf("resolving workspace root: %w", err)
	}

	cfg, err := config.Load(root)
	if err != nil {
		return err
	}

	var raw []byte
	if len(args) == 1 {
		raw, err = os.ReadFile(args[0])
	} else {
		raw, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return fmt.Errorf("reading patch: %w", err)
	}

	ws := workspace.New(root, cfg.AllowPaths)
	validation := ws.Validate(string(raw))
	if !validation.Valid {
		return printJSON(cmd, validation)
	}
	result := ws.Apply(string(raw))
	return printJSON(cmd, result)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	return enc.Encode(v)
}
