package workspace

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func initGitRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, string(out))
	}
	run("init")
	run("config", "user.email", "student@example.com")
	run("config", "user.name", "student")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("one\n"), 0o644))
	run("add", "a.txt")
	run("commit", "-m", "seed")
	return dir
}

func TestApplyPatchSuccess(t *testing.T) {
	dir := initGitRepo(t)
	diff := "--- a/a.txt\n+++ b/a.txt\n@@ -1 +1 @@\n-one\n+two\n"

	res := ApplyPatch(dir, diff)
	require.True(t, res.Applied, res.Error)

	content, err := os.ReadFile(filepath.Join(dir, "a.txt"))
	require.NoError(t, err)
	require.Equal(t, "two\n", string(content))
}

func TestApplyPatchFailure(t *testing.T) {
	dir := initGitRepo(t)
	diff := "--- a/a.txt\n+++ b/a.txt\n@@ -1 +1 @@\n-nonexistent line\n+two\n"

	res := ApplyPatch(dir, diff)
	require.False(t, res.Applied)
	require.NotEmpty(t, res.Error)
}

func TestApplyPatchCleansUpTempFile(t *testing.T) {
	dir := initGitRepo(t)
	diff := "--- a/a.txt\n+++ b/a.txt\n@@ -1 +1 @@\n-one\n+two\n"
	ApplyPatch(dir, diff)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		require.NotEqual(t, ".dualagent-patch.diff", e.Name())
	}
}
