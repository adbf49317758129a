package workspace

import (
	"context"
	"os"
	"path/filepath"
)

// Workspace is the narrow contract the cycle state machine depends on:
// validate a proposed patch against the allow-list, apply it to disk,
// and run a command inside the workspace root. ReadFile supports the
// builder's file-request turn, which is a handful of named reads, not
// a file-tree listing.
type Workspace interface {
	Validate(diff string) ValidationResult
	Apply(diff string) ApplyResult
	Run(ctx context.Context, argv []string) CommandResult
	ReadFile(path string) (string, error)
}

// Local is a Workspace backed by a real directory on disk and real
// git/subprocess invocations.
type Local struct {
	Root       string
	AllowPaths []string
}

// New creates a Local workspace rooted at root, enforcing allowPaths.
func New(root string, allowPaths []string) *Local {
	return &Local{Root: root, AllowPaths: allowPaths}
}

func (l *Local) Validate(diff string) ValidationResult {
	return ValidatePatch(diff, l.AllowPaths)
}

func (l *Local) Apply(diff string) ApplyResult {
	return ApplyPatch(l.Root, diff)
}

func (l *Local) Run(ctx context.Context, argv []string) CommandResult {
	return RunCommand(ctx, l.Root, argv)
}

func (l *Local) ReadFile(path string) (string, error) {
	content, err := os.ReadFile(filepath.Join(l.Root, path))
	if err != nil {
		return "", err
	}
	return string(content), nil
}
