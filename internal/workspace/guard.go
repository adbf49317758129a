// Package workspace implements the patch guard and command runner: the
// pure allow-list/diff-parsing functions plus the thin file-system and
// subprocess wrappers the cycle state machine drives.
package workspace

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/sreeduggirala/checkmate/internal/errs"
)

// diffPathRegex matches unified-diff path header lines: "--- a/<p>" or
// "+++ b/<p>".
var diffPathRegex = regexp.MustCompile(`^[+-]{3} [ab]/(.+)$`)

// ValidationResult is the outcome of checking a patch against the
// allow-list.
type ValidationResult struct {
	Valid bool
	Error string
}

// ExtractTouchedPaths scans unified-diff text for every distinct path
// touched by "--- "/"+++ " header lines, excluding /dev/null.
func ExtractTouchedPaths(diff string) []string {
	seen := make(map[string]bool)
	var paths []string
	for _, line := range strings.Split(diff, "\n") {
		m := diffPathRegex.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		p := m[1]
		if p == "dev/null" {
			continue
		}
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}
	return paths
}

// ValidatePatch scans text for every touched path and checks each
// against allowPaths. It returns the first disallowed path found, in
// diff order.
func ValidatePatch(text string, allowPaths []string) ValidationResult {
	for _, p := range ExtractTouchedPaths(text) {
		if !IsAllowed(p, allowPaths) {
			return ValidationResult{Valid: false, Error: fmt.Errorf("%w: Patch touches disallowed path: %s", errs.ErrGuard, p).Error()}
		}
	}
	return ValidationResult{Valid: true}
}

// IsAllowed reports whether path matches any pattern in patterns. "*"
// matches a run of non-"/" characters, "**" matches any number of path
// segments including zero (collapsing "**/"), "?" matches one non-"/"
// character, and remaining regex metacharacters are literal. A path
// also matches if it equals a pattern outright, or lies under a
// pattern treated as a directory prefix.
func IsAllowed(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if matchesPattern(path, pattern) {
			return true
		}
	}
	return false
}

func matchesPattern(path, pattern string) bool {
	if path == pattern {
		return true
	}
	if strings.HasPrefix(path, pattern+"/") {
		return true
	}
	return compileGlob(pattern).MatchString(path)
}

// globCache memoizes compiled patterns across calls. Guarded by a mutex
// because independent client sessions may validate patches against the
// allow-list concurrently.
var (
	globCacheMu sync.RWMutex
	globCache   = make(map[string]*regexp.Regexp)
)

func compileGlob(pattern string) *regexp.Regexp {
	globCacheMu.RLock()
	re, ok := globCache[pattern]
	globCacheMu.RUnlock()
	if ok {
		return re
	}
	re = regexp.MustCompile(globToRegex(pattern))
	globCacheMu.Lock()
	globCache[pattern] = re
	globCacheMu.Unlock()
	return re
}

// globToRegex translates an allow-list glob pattern into an anchored
// regular expression.
func globToRegex(pattern string) string {
	var sb strings.Builder
	sb.WriteString("^")
	i := 0
	for i < len(pattern) {
		c := pattern[i]
		switch {
		case c == '*' && i+1 < len(pattern) && pattern[i+1] == '*':
			if i+2 < len(pattern) && pattern[i+2] == '/' {
				// "**/" collapses: matches zero or more whole path segments.
				sb.WriteString("(?:.*/)?")
				i += 3
			} else {
				sb.WriteString(".*")
				i += 2
			}
		case c == '*':
			sb.WriteString("[^/]*")
			i++
		case c == '?':
			sb.WriteString("[^/]")
			i++
		default:
			sb.WriteString(regexp.QuoteMeta(string(c)))
			i++
		}
	}
	sb.WriteString("$")
	return sb.String()
}
