// Package agent implements the agent protocol: prompt assembly from
// shared state, dispatch to an llm.Provider, streaming of
// tokens to the event sink, and parsing of the final payload against
// the calling role's schema. Persona clauses are baked in here exactly
// once per role; callers never see the raw prompt text, only the
// typed result.
package agent

import (
	"fmt"
	"strings"

	"github.com/sreeduggirala/checkmate/internal/config"
	"github.com/sreeduggirala/checkmate/internal/message"
)

// builderPersona is the Builder's fixed system-prompt persona: minimal,
// diff-focused, conservative about new dependencies, tests shipped
// alongside implementation.
const builderPersona = `You are the Builder agent in an automated code-modification loop.
Make the smallest change that satisfies the request. Always ship tests alongside an implementation.
Be conservative about introducing new dependencies. Respond with pure JSON, no surrounding prose.
Your response is either a file request ({"files_needed": [...]}) or an implementation
({"plan", "patch", "tests", "run", "risks"}). Never populate both shapes at once.`

// reviewerPersona is the Reviewer's fixed system-prompt persona: paranoid
// about edge cases, strict about invariants, security-sensitive, and
// demands reproduction steps for anything it flags.
const reviewerPersona = `You are the Reviewer agent in an automated code-modification loop.
Be paranoid about edge cases and strict about invariants. Flag security concerns. Every issue you
raise must include how_to_verify reproduction steps. Respond with pure JSON, no surrounding prose,
populating verdict, issues, stopping, and block_reason/diagnostics_needed when verdict is "block".`

const moderatorPersona = `You are the Moderator agent, resolving a deadlock between a Builder and a Reviewer
that could not converge on their own. Weigh the request, the last patch, and the grouped review
issues, then decide whether to accept the builder, accept the reviewer, or reject both. Respond
with pure JSON populating decision and reasoning.`

// strictnessClause returns the reviewer strictness modifier: lenient
// surfaces critical-only issues, strict additionally asks for
// performance and architectural concerns.
func strictnessClause(s config.ReviewStrictness) string {
	switch s {
	case config.StrictnessLenient:
		return "Only raise issues of critical severity; let major and minor issues pass."
	case config.StrictnessStrict:
		return "In addition to correctness, raise performance and architectural concerns."
	default:
		return ""
	}
}

// BuilderSystemPrompt returns the Builder's fixed system prompt.
func BuilderSystemPrompt() string {
	return builderPersona
}

// ReviewerSystemPrompt returns the Reviewer's fixed system prompt, with
// the configured strictness clause appended.
func ReviewerSystemPrompt(strictness config.ReviewStrictness) string {
	clause := strictnessClause(strictness)
	if clause == "" {
		return reviewerPersona
	}
	return reviewerPersona + "\n" + clause
}

// ModeratorSystemPrompt returns the Moderator's fixed system prompt.
func ModeratorSystemPrompt() string {
	return moderatorPersona
}

// BuildUserPrompt renders the shared state as the user-turn prompt text
// common to every role.
func BuildUserPrompt(state message.SharedState) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Goal: %s\n", state.Goal)
	if len(state.Constraints) > 0 {
		sb.WriteString("Constraints:\n")
		for _, c := range state.Constraints {
			fmt.Fprintf(&sb, "- %s\n", c)
		}
	}
	if state.RecentDiff != "" {
		fmt.Fprintf(&sb, "Most recent patch:\n%s\n", state.RecentDiff)
	}
	if state.LastTestOutput != "" {
		fmt.Fprintf(&sb, "Last test output:\n%s\n", state.LastTestOutput)
	}
	if len(state.OpenIssues) > 0 {
		sb.WriteString("Open issues:\n")
		for _, i := range state.OpenIssues {
			fmt.Fprintf(&sb, "- %s\n", i)
		}
	}
	return sb.String()
}

// BuildReviewerPrompt extends the shared-state prompt with the
// builder's last message, which the reviewer needs in full to judge
// the patch rather than a paraphrase of it.
func BuildReviewerPrompt(state message.SharedState, builder message.BuilderMessage) string {
	var sb strings.Builder
	sb.WriteString(BuildUserPrompt(state))
	fmt.Fprintf(&sb, "\nBuilder's plan: %s\n", builder.Plan)
	fmt.Fprintf(&sb, "Builder's patch:\n%s\n", builder.Patch)
	if builder.Tests != "" {
		fmt.Fprintf(&sb, "Builder's tests: %s\n", builder.Tests)
	}
	if builder.Risks != "" {
		fmt.Fprintf(&sb, "Builder's stated risks: %s\n", builder.Risks)
	}
	return sb.String()
}

// ArbiterPreamble is prepended to the shared-state prompt when forcing
// a bug-demonstration turn: it names the stuck issue and
// requires a patch that only adds a reproducing test plus a run
// command to execute it.
func ArbiterPreamble(issue message.Issue) string {
	var sb strings.Builder
	sb.WriteString("ARBITER MODE: the following issue has stalled across two reviews and must be settled by a test.\n")
	fmt.Fprintf(&sb, "issue_id: %s\n", issue.IssueID)
	fmt.Fprintf(&sb, "severity: %s\n", issue.Severity)
	fmt.Fprintf(&sb, "description: %s\n", issue.Description)
	if issue.HowToVerify != "" {
		fmt.Fprintf(&sb, "how_to_verify: %s\n", issue.HowToVerify)
	}
	sb.WriteString("Your patch must ONLY add a test reproducing this scenario — no production code changes.\n")
	sb.WriteString("Your run list must include the command that executes that test.\n\n")
	return sb.String()
}

// ModeratorPrompt renders the moderator sub-protocol's fixed inputs:
// the original request, the last patch, the last review's issues
// grouped by severity, and whether tests passed.
func ModeratorPrompt(request, lastPatch string, lastReview message.Review, testsPassed bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Original request: %s\n", request)
	fmt.Fprintf(&sb, "Tests passing: %t\n", testsPassed)
	fmt.Fprintf(&sb, "Last patch:\n%s\n", lastPatch)
	sb.WriteString("Last review issues by severity:\n")
	for _, sev := range []message.Severity{message.SeverityCritical, message.SeverityMajor, message.SeverityMinor} {
		var matching []string
		for _, issue := range lastReview.Issues {
			if issue.Severity == sev {
				matching = append(matching, issue.Description)
			}
		}
		if len(matching) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "%s:\n", sev)
		for _, d := range matching {
			fmt.Fprintf(&sb, "- %s\n", d)
		}
	}
	return sb.String()
}
