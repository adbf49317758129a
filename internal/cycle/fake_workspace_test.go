package cycle

import (
	"context"

	"github.com/sreeduggirala/checkmate/internal/workspace"
)

// fakeWorkspace is an in-memory workspace.Workspace double: Validate and
// Apply always succeed unless scripted otherwise, and Run pops scripted
// results in order (falling back to exit 0 once the queue is drained).
type fakeWorkspace struct {
	validateResult workspace.ValidationResult
	applyResult    workspace.ApplyResult
	runResults     []workspace.CommandResult
	runCalls       [][]string
	files          map[string]string
}

func newFakeWorkspace() *fakeWorkspace {
	return &fakeWorkspace{
		validateResult: workspace.ValidationResult{Valid: true},
		applyResult:    workspace.ApplyResult{Applied: true},
		files:          map[string]string{},
	}
}

func (f *fakeWorkspace) Validate(string) workspace.ValidationResult { return f.validateResult }
func (f *fakeWorkspace) Apply(string) workspace.ApplyResult         { return f.applyResult }

func (f *fakeWorkspace) ReadFile(path string) (string, error) {
	return f.files[path], nil
}

func (f *fakeWorkspace) Run(ctx context.Context, argv []string) workspace.CommandResult {
	f.runCalls = append(f.runCalls, argv)
	if len(f.runResults) == 0 {
		return workspace.CommandResult{ExitCode: 0}
	}
	res := f.runResults[0]
	f.runResults = f.runResults[1:]
	return res
}
