package workspace

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/sreeduggirala/checkmate/internal/errs"
	"github.com/sreeduggirala/checkmate/internal/log"
)

// CommandResult is the captured outcome of one command invocation.
type CommandResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// SplitCommand splits a command string on whitespace into argv. This
// is a deliberate restriction, not an oversight: no shell parsing, no
// quoting, no globbing. Agent-emitted commands are test runners and
// lint tools with simple argv shapes; routing them through a shell
// would reopen injection risk.
func SplitCommand(command string) []string {
	return strings.Fields(command)
}

// RunCommand executes argv with cwd set to workspaceRoot, capturing
// stdout and stderr independently and never interpolating through a
// shell. A command that fails to start (not found, permission denied)
// is reported as exit code 1 with the spawn error on stderr rather
// than propagated as a Go error, since the cycle treats every run step
// uniformly as pass/fail.
func RunCommand(ctx context.Context, workspaceRoot string, argv []string) CommandResult {
	if len(argv) == 0 {
		return CommandResult{ExitCode: 1, Stderr: "empty command"}
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = workspaceRoot

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if asExitError(err, &exitErr) {
			return CommandResult{Stdout: stdout.String(), Stderr: stderr.String(), ExitCode: exitErr.ExitCode()}
		}
		log.Debug(log.CatRunner, "command failed to start", "argv", argv, "err", err)
		return CommandResult{Stdout: stdout.String(), Stderr: fmt.Errorf("%w: %s", errs.ErrRun, err).Error(), ExitCode: 1}
	}
	return CommandResult{Stdout: stdout.String(), Stderr: stderr.String(), ExitCode: 0}
}

func asExitError(err error, target **exec.ExitError) bool {
	if ee, ok := err.(*exec.ExitError); ok {
		*target = ee
		return true
	}
	return false
}
