package workspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestExtractTouchedPaths(t *testing.T) {
	diff := "diff --git a/src/a.go b/src/a.go\n" +
		"--- a/src/a.go\n" +
		"+++ b/src/a.go\n" +
		"@@ -1,1 +1,1 @@\n" +
		"-old\n" +
		"+new\n" +
		"--- /dev/null\n" +
		"+++ b/src/new.go\n"

	got := ExtractTouchedPaths(diff)
	assert.Equal(t, []string{"src/a.go", "src/new.go"}, got)
}

func TestIsAllowed(t *testing.T) {
	cases := []struct {
		name    string
		path    string
		pattern string
		want    bool
	}{
		{"exact", "src/a.go", "src/a.go", true},
		{"star run", "src/a.go", "src/*.go", true},
		{"star no cross slash", "src/sub/a.go", "src/*.go", false},
		{"doublestar zero segments", "src/a.go", "src/**/*.go", true},
		{"doublestar many segments", "src/x/y/a.go", "src/**/*.go", true},
		{"question mark", "src/a1.go", "src/a?.go", true},
		{"question mark no slash", "src/a/.go", "src/a?.go", false},
		{"directory prefix", "src/nested/file.go", "src", true},
		{"unrelated", "other/a.go", "src/*.go", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsAllowed(tc.path, []string{tc.pattern}))
		})
	}
}

func TestValidatePatch(t *testing.T) {
	diff := "--- a/src/a.go\n+++ b/src/a.go\n"
	res := ValidatePatch(diff, []string{"src/**"})
	require.True(t, res.Valid)

	bad := "--- a/secrets/key.pem\n+++ b/secrets/key.pem\n"
	res = ValidatePatch(bad, []string{"src/**"})
	require.False(t, res.Valid)
	assert.Contains(t, res.Error, "secrets/key.pem")
}

// Every literal path is allowed by itself, regardless of content, since
// an exact match never needs glob translation.
func TestIsAllowedExactMatchProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		path := rapid.StringMatching(`[a-z]{1,6}(/[a-z]{1,6}){0,3}`).Draw(rt, "path")
		assert.True(rt, IsAllowed(path, []string{path}))
	})
}
