package subproto

import (
	"context"
	"fmt"
	"strings"

	"github.com/sreeduggirala/checkmate/internal/events"
	"github.com/sreeduggirala/checkmate/internal/workspace"
)

// RunDiagnostics executes every reviewer-requested command and
// concatenates the results into a single open_issues entry, one
// "=== <cmd> ===" evidence block per command.
func RunDiagnostics(ctx context.Context, ws workspace.Workspace, commands []string, sink events.Sink) string {
	events.DiagnosticRun(sink, commands)

	var sb strings.Builder
	sb.WriteString("DIAGNOSTICS RUN:\n")
	for _, cmd := range commands {
		res := ws.Run(ctx, workspace.SplitCommand(cmd))
		events.TestsOutput(sink, res.Stdout, res.Stderr, res.ExitCode)
		fmt.Fprintf(&sb, "=== %s ===\nExit code: %d\nStdout: %s\nStderr: %s\n", cmd, res.ExitCode, res.Stdout, res.Stderr)
	}
	return sb.String()
}
