package workspace

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/sreeduggirala/checkmate/internal/errs"
	"github.com/sreeduggirala/checkmate/internal/log"
)

// ApplyResult is the outcome of applying a patch to the workspace.
type ApplyResult struct {
	Applied bool
	Error   string
}

// patchTempFile is the fixed dotfile name the guard stages a patch
// under before applying it. The name must stay fixed so there is a
// single cleanup target even on crash paths of the apply step, rather
// than a pool of uniquely-named leftovers.
const patchTempFile = ".dualagent-patch.diff"

// ApplyPatch writes diff to the fixed dotfile-prefixed temporary file
// inside workspaceRoot and runs "git apply --whitespace=nowarn"
// against it; git already owns fuzzy-context application, so there is
// no in-process patch engine here. The temp file is removed on every
// return path.
func ApplyPatch(workspaceRoot, diff string) ApplyResult {
	path := filepath.Join(workspaceRoot, patchTempFile)
	defer os.Remove(path)

	if err := os.WriteFile(path, []byte(diff), 0o644); err != nil {
		return ApplyResult{Applied: false, Error: fmt.Errorf("%w: failed to stage patch: %s", errs.ErrApply, err).Error()}
	}

	cmd := exec.Command("git", "apply", "--whitespace=nowarn", patchTempFile)
	cmd.Dir = workspaceRoot
	out, err := cmd.CombinedOutput()
	if err != nil {
		log.Debug(log.CatGuard, "git apply failed", "err", err, "output", string(out))
		return ApplyResult{Applied: false, Error: fmt.Errorf("%w: %s", errs.ErrApply, strings.TrimSpace(string(out))).Error()}
	}
	return ApplyResult{Applied: true}
}
