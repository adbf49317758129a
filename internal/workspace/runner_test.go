package workspace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitCommand(t *testing.T) {
	assert.Equal(t, []string{"go", "test", "./..."}, SplitCommand("go test ./..."))
	assert.Equal(t, []string{"echo", "hi"}, SplitCommand("  echo   hi  "))
}

func TestRunCommandSuccess(t *testing.T) {
	dir := t.TempDir()
	res := RunCommand(context.Background(), dir, []string{"echo", "hello"})
	assert.Equal(t, 0, res.ExitCode)
	assert.Contains(t, res.Stdout, "hello")
}

func TestRunCommandNonZeroExit(t *testing.T) {
	dir := t.TempDir()
	res := RunCommand(context.Background(), dir, []string{"sh", "-c", "echo oops 1>&2; exit 3"})
	assert.Equal(t, 3, res.ExitCode)
	assert.Contains(t, res.Stderr, "oops")
}

func TestRunCommandSpawnFailure(t *testing.T) {
	dir := t.TempDir()
	res := RunCommand(context.Background(), dir, []string{"definitely-not-a-real-binary-xyz"})
	require.Equal(t, 1, res.ExitCode)
	assert.NotEmpty(t, res.Stderr)
}

func TestRunCommandEmpty(t *testing.T) {
	res := RunCommand(context.Background(), t.TempDir(), nil)
	assert.Equal(t, 1, res.ExitCode)
}
