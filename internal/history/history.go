// Package history holds the cycle-scoped bookkeeping the state machine
// consults between turns: the ordered patch and review lists, and the
// queries derived from them (oscillation, stuck issues). A single
// History value is threaded through one cycle and discarded with it;
// nothing here is shared across cycles or sessions.
package history

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/sreeduggirala/checkmate/internal/message"
)

var dmp = diffmatchpatch.New()

// History is the per-cycle patch and review ledger. It is reset by
// New at the start of every cycle; nothing here survives across
// cycles.
type History struct {
	Patches []string
	Reviews []message.Review
}

// New creates an empty History for a fresh cycle.
func New() *History {
	return &History{}
}

// AppendPatch records a newly-applied patch.
func (h *History) AppendPatch(patch string) {
	h.Patches = append(h.Patches, patch)
}

// AppendReview records a reviewer turn.
func (h *History) AppendReview(r message.Review) {
	h.Reviews = append(h.Reviews, r)
}

// LastReview returns the most recent review and whether one exists.
func (h *History) LastReview() (message.Review, bool) {
	if len(h.Reviews) == 0 {
		return message.Review{}, false
	}
	return h.Reviews[len(h.Reviews)-1], true
}

// PreviousReview returns the review before the most recent one, if
// there are at least two.
func (h *History) PreviousReview() (message.Review, bool) {
	if len(h.Reviews) < 2 {
		return message.Review{}, false
	}
	return h.Reviews[len(h.Reviews)-2], true
}

// IsOscillating reports whether patch exactly matches any prior patch
// in history, or has Jaccard line-set similarity >= 0.95 against the
// most recently applied patch.
func (h *History) IsOscillating(patch string) bool {
	for _, prev := range h.Patches {
		if prev == patch {
			return true
		}
	}
	if len(h.Patches) == 0 {
		return false
	}
	last := h.Patches[len(h.Patches)-1]
	return JaccardSimilarity(last, patch) >= 0.95
}

// JaccardSimilarity computes the Jaccard index over the sets of lines
// in a and b: |intersection| / |union|. Two empty line sets are
// defined as maximally similar (1.0); one empty and one non-empty set
// is 0.0.
//
// The line sets are built from go-diff's line-mode diff rather than
// two independent splits: DiffLinesToChars/DiffCharsToLines reduces
// each text to its constituent lines and classifies each as shared
// (Equal) or belonging to only one side (Delete/Insert), which is
// exactly the partition a set-based Jaccard needs.
func JaccardSimilarity(a, b string) float64 {
	charsA, charsB, lineArray := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(charsA, charsB, false), lineArray)

	setA := make(map[string]struct{})
	setB := make(map[string]struct{})
	for _, d := range diffs {
		lines := nonEmptyLines(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			addAll(setA, lines)
			addAll(setB, lines)
		case diffmatchpatch.DiffDelete:
			addAll(setA, lines)
		case diffmatchpatch.DiffInsert:
			addAll(setB, lines)
		}
	}

	if len(setA) == 0 && len(setB) == 0 {
		return 1.0
	}

	intersection := 0
	union := make(map[string]struct{}, len(setA)+len(setB))
	for line := range setA {
		union[line] = struct{}{}
		if _, ok := setB[line]; ok {
			intersection++
		}
	}
	for line := range setB {
		union[line] = struct{}{}
	}
	if len(union) == 0 {
		return 1.0
	}
	return float64(intersection) / float64(len(union))
}

func nonEmptyLines(text string) []string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l == "" {
			continue
		}
		out = append(out, l)
	}
	return out
}

func addAll(set map[string]struct{}, lines []string) {
	for _, l := range lines {
		set[l] = struct{}{}
	}
}

// StuckIssue returns the first issue in the latest review whose
// IssueID also appears in the previous review with severity >= major
// on both sides: the same complaint surviving two consecutive reviews.
func StuckIssue(latest, previous message.Review) (message.Issue, bool) {
	prevIDs := make(map[string]message.Severity, len(previous.Issues))
	for _, issue := range previous.Issues {
		if issue.IssueID == "" {
			continue
		}
		prevIDs[issue.IssueID] = issue.Severity
	}
	for _, issue := range latest.Issues {
		if issue.IssueID == "" || !issue.Severity.AtLeastMajor() {
			continue
		}
		if prevSeverity, ok := prevIDs[issue.IssueID]; ok && prevSeverity.AtLeastMajor() {
			return issue, true
		}
	}
	return message.Issue{}, false
}
