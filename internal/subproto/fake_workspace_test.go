package subproto

import (
	"context"

	"github.com/sreeduggirala/checkmate/internal/workspace"
)

// fakeWorkspace is an in-memory workspace.Workspace for sub-protocol
// tests: it never touches disk or git, and its Run outcomes are
// scripted in order.
type fakeWorkspace struct {
	validateResult workspace.ValidationResult
	applyResult    workspace.ApplyResult
	runResults     []workspace.CommandResult
	runCalls       [][]string
}

func newFakeWorkspace() *fakeWorkspace {
	return &fakeWorkspace{
		validateResult: workspace.ValidationResult{Valid: true},
		applyResult:    workspace.ApplyResult{Applied: true},
	}
}

func (f *fakeWorkspace) Validate(string) workspace.ValidationResult { return f.validateResult }
func (f *fakeWorkspace) Apply(string) workspace.ApplyResult         { return f.applyResult }
func (f *fakeWorkspace) ReadFile(string) (string, error)            { return "", nil }

func (f *fakeWorkspace) Run(ctx context.Context, argv []string) workspace.CommandResult {
	f.runCalls = append(f.runCalls, argv)
	if len(f.runResults) == 0 {
		return workspace.CommandResult{ExitCode: 0}
	}
	res := f.runResults[0]
	f.runResults = f.runResults[1:]
	return res
}
