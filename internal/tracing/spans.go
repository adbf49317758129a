package tracing

// Span attribute keys used across the orchestration core.
const (
	AttrCycleIteration = "cycle.iteration"
	AttrCycleRequest   = "cycle.request"

	AttrAgentRole  = "agent.role"
	AttrAgentModel = "agent.model"

	AttrGuardPathCount = "guard.path_count"
	AttrRunCommand     = "run.command"
	AttrRunExitCode    = "run.exit_code"

	AttrReviewVerdict     = "review.verdict"
	AttrArbiterIssueID    = "arbiter.issue_id"
	AttrArbiterOutcome    = "arbiter.outcome"
	AttrModeratorDecision = "moderator.decision"

	AttrErrorMessage = "error.message"
)

// Span name prefixes, one per component: cycle, agent protocol,
// workspace guard, command runner, sub-protocols.
const (
	SpanPrefixCycle    = "cycle."
	SpanPrefixAgent    = "agent."
	SpanPrefixGuard    = "guard."
	SpanPrefixRunner   = "runner."
	SpanPrefixSubproto = "subproto."
)
