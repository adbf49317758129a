// Package message defines the structured payloads exchanged between
// the cycle state machine and its two (optionally three) agents:
// SharedState sent out, BuilderMessage/Review/ModeratorDecision/
// ArbiterTestResult parsed back in. Each variant has its own parser
// that validates its own shape invariants; there is no generic
// validator.
package message

// SharedState is the ephemeral per-turn context sent to an agent. It is
// rebuilt every turn; on a transition to a new agent the caller
// replaces it wholesale rather than mutating it in place.
type SharedState struct {
	Goal           string
	Constraints    []string
	RecentDiff     string
	LastTestOutput string
	OpenIssues     []string
}

// Severity ranks an Issue's importance.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityMajor    Severity = "major"
	SeverityMinor    Severity = "minor"
)

// rank orders severities for stuck-issue comparisons (severity >= major).
func (s Severity) rank() int {
	switch s {
	case SeverityCritical:
		return 2
	case SeverityMajor:
		return 1
	default:
		return 0
	}
}

// AtLeastMajor reports whether this severity is major or critical.
func (s Severity) AtLeastMajor() bool {
	return s.rank() >= SeverityMajor.rank()
}

// Issue is a caller-visible problem the next builder turn must address.
type Issue struct {
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
	HowToVerify string   `json:"how_to_verify,omitempty"`
	IssueID     string   `json:"issue_id,omitempty"`
	Uncertainty string   `json:"uncertainty,omitempty"`
}

// BuilderMessage is the parsed output of a builder turn. Exactly one of
// two shapes is valid: a file request (only FilesNeeded populated) or
// an implementation (at minimum Patch populated).
type BuilderMessage struct {
	FilesNeeded []string `json:"files_needed,omitempty"`

	Plan  string   `json:"plan,omitempty"`
	Patch string   `json:"patch,omitempty"`
	Tests string   `json:"tests,omitempty"`
	Run   []string `json:"run,omitempty"`
	Risks string   `json:"risks,omitempty"`
}

// IsFileRequest reports whether this message is the file-request shape.
func (b BuilderMessage) IsFileRequest() bool {
	return len(b.FilesNeeded) > 0 && b.Patch == ""
}

// Verdict is the reviewer's decision on a builder turn.
type Verdict string

const (
	VerdictApprove        Verdict = "approve"
	VerdictRequestChanges Verdict = "request_changes"
	VerdictBlock          Verdict = "block"
)

// BlockReason narrows the meaning of a VerdictBlock.
type BlockReason string

const (
	BlockUncertainty BlockReason = "uncertainty"
	BlockDefiniteBug BlockReason = "definite_bug"
	BlockNeedsHuman  BlockReason = "needs_human"
)

// Review is the parsed output of a reviewer turn.
type Review struct {
	Verdict           Verdict     `json:"verdict"`
	Issues            []Issue     `json:"issues"`
	SuggestedPatch    string      `json:"suggested_patch,omitempty"`
	ExtraTests        string      `json:"extra_tests,omitempty"`
	Stopping          string      `json:"stopping"`
	BlockReason       BlockReason `json:"block_reason,omitempty"`
	DiagnosticsNeeded []string    `json:"diagnostics_needed,omitempty"`
}

// ModeratorDecisionKind is the moderator's ruling on a deadlock.
type ModeratorDecisionKind string

const (
	DecisionAcceptBuilder  ModeratorDecisionKind = "accept_builder"
	DecisionAcceptReviewer ModeratorDecisionKind = "accept_reviewer"
	DecisionRejectBoth     ModeratorDecisionKind = "reject_both"
)

// ModeratorDecision is the parsed output of a moderator turn.
type ModeratorDecision struct {
	Decision  ModeratorDecisionKind `json:"decision"`
	Reasoning string                `json:"reasoning"`
}

// ArbiterOutcome is the result of a forced test-demonstration turn.
type ArbiterOutcome string

const (
	OutcomeBugConfirmed ArbiterOutcome = "bug_confirmed"
	OutcomeBugRefuted   ArbiterOutcome = "bug_refuted"
	OutcomeTestInvalid  ArbiterOutcome = "test_invalid"
)

// ArbiterTestResult is the outcome of running the arbiter's forced test.
type ArbiterTestResult struct {
	TestAdded   bool           `json:"test_added"`
	TestPatch   string         `json:"test_patch,omitempty"`
	TestPassed  *bool          `json:"test_passed,omitempty"`
	Outcome     ArbiterOutcome `json:"outcome"`
	Explanation string         `json:"explanation"`
}
