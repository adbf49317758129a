// Package cycle implements the top-level orchestrator: the state
// machine driving build, oscillation check, validate and apply, run,
// review, and review interpretation through to exactly one terminal
// cycle_complete or error event. It is the one component allowed to
// hold mutable per-request state, kept as locals inside Run rather
// than struct fields, so a Cycle value can be reused across requests
// without leaking history between them.
package cycle

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/sreeduggirala/checkmate/internal/agent"
	"github.com/sreeduggirala/checkmate/internal/config"
	"github.com/sreeduggirala/checkmate/internal/errs"
	"github.com/sreeduggirala/checkmate/internal/events"
	"github.com/sreeduggirala/checkmate/internal/history"
	"github.com/sreeduggirala/checkmate/internal/llm"
	"github.com/sreeduggirala/checkmate/internal/log"
	"github.com/sreeduggirala/checkmate/internal/message"
	"github.com/sreeduggirala/checkmate/internal/subproto"
	"github.com/sreeduggirala/checkmate/internal/tracing"
	"github.com/sreeduggirala/checkmate/internal/workspace"
)

// Cycle holds the read-only collaborators the state machine drives:
// config, workspace guard, event sink, and one LLMProvider per role.
type Cycle struct {
	Config    config.Config
	Workspace workspace.Workspace
	Sink      events.Sink

	Builder   llm.Provider
	Reviewer  llm.Provider
	Moderator llm.Provider

	// Tracer instruments the cycle's spans. Nil falls back to a no-op
	// tracer so Cycle values built without one (e.g. in tests) carry
	// zero overhead.
	Tracer oteltrace.Tracer
}

// New creates a Cycle from its collaborators.
func New(cfg config.Config, ws workspace.Workspace, sink events.Sink, builder, reviewer, moderator llm.Provider) *Cycle {
	return &Cycle{Config: cfg, Workspace: ws, Sink: sink, Builder: builder, Reviewer: reviewer, Moderator: moderator}
}

func (c *Cycle) tracer() oteltrace.Tracer {
	if c.Tracer != nil {
		return c.Tracer
	}
	return noop.NewTracerProvider().Tracer("cycle")
}

// Run drives one cycle for request to completion, emitting exactly one
// terminal cycle_complete or error event before returning.
func (c *Cycle) Run(ctx context.Context, request string) {
	ctx, runSpan := c.tracer().Start(ctx, tracing.SpanPrefixCycle+"run",
		oteltrace.WithAttributes(attribute.String(tracing.AttrCycleRequest, request)))
	defer runSpan.End()

	hist := history.New()

	i := 0
	var lastPatch string
	var lastTestOutput string
	var openIssues []string

	for {
		// ---- BUILD ----
		i++
		runSpan.SetAttributes(attribute.Int(tracing.AttrCycleIteration, i))
		events.Status(c.Sink, fmt.Sprintf("Iteration %d/%d", i, c.Config.MaxIterations))

		state := message.SharedState{
			Goal:           request,
			RecentDiff:     lastPatch,
			LastTestOutput: lastTestOutput,
			OpenIssues:     c.summarizeOpenIssues(ctx, openIssues),
		}

		builderMsg, err := c.callBuilderTraced(ctx, state)
		if err != nil {
			events.Error(c.Sink, err.Error())
			return
		}

		if builderMsg.IsFileRequest() {
			openIssues = append(openIssues, c.provideFiles(builderMsg.FilesNeeded))
			i-- // file requests do not consume an iteration
			continue
		}

		patch := builderMsg.Patch
		events.PatchReady(c.Sink, patch)

		// ---- OSCILLATION-CHECK ----
		if hist.IsOscillating(patch) {
			hist.AppendPatch(patch)
			c.handleOscillation(ctx, request, hist, i)
			return
		}
		hist.AppendPatch(patch)

		// ---- VALIDATE & APPLY ----
		validation := c.Workspace.Validate(patch)
		if !validation.Valid {
			events.Error(c.Sink, validation.Error)
			return
		}
		applied := c.Workspace.Apply(patch)
		if !applied.Applied {
			events.Error(c.Sink, applied.Error)
			return
		}
		lastPatch = patch

		// ---- RUN ----
		runResult := c.runCommands(ctx, builderMsg.Run)
		lastTestOutput = formatCommandResult(runResult)
		testsPass := runResult.ExitCode == 0

		if !testsPass {
			if i >= c.Config.MaxIterations {
				events.CycleComplete(c.Sink, false, fmt.Sprintf("%s: max iterations reached with failing tests", errs.ErrIterationExhaustion), i)
				return
			}
			openIssues = []string{fmt.Sprintf("CRITICAL: tests failed (exit %d)\nStdout: %s\nStderr: %s", runResult.ExitCode, runResult.Stdout, runResult.Stderr)}
			continue
		}

		// ---- DECIDE-REVIEW ----
		var review message.Review
		if c.shouldReview(i, testsPass) {
			r, err := c.callReviewerTraced(ctx, state, *builderMsg)
			if err != nil {
				events.Error(c.Sink, err.Error())
				return
			}
			hist.AppendReview(*r)
			events.ReviewReady(c.Sink, *r)
			review = *r
		} else {
			review = message.Review{Verdict: message.VerdictApprove}
		}

		// ---- INTERPRET-REVIEW ----
		switch review.Verdict {
		case message.VerdictApprove:
			events.CycleComplete(c.Sink, true, "Approved.", i)
			return

		case message.VerdictBlock:
			switch review.BlockReason {
			case message.BlockUncertainty:
				evidence := subproto.RunDiagnostics(ctx, c.Workspace, review.DiagnosticsNeeded, c.Sink)
				openIssues = append(openIssues, evidence)
				i-- // a diagnostics round does not consume an attempt
				continue

			case message.BlockDefiniteBug:
				openIssues = rebuildOpenIssues(review)
				if c.handleIterationExhaustion(ctx, request, lastPatch, review, i) {
					return
				}
				continue

			case message.BlockNeedsHuman:
				events.CycleComplete(c.Sink, false, review.Stopping, i)
				return
			}

		case message.VerdictRequestChanges:
			// ---- STUCK-CHECK ----
			if prev, ok := hist.PreviousReview(); ok {
				if issue, stuck := history.StuckIssue(review, prev); stuck {
					rebuilt := rebuildOpenIssues(review)
					run := subproto.RunArbiter(ctx, c.Builder, c.Config.BuilderModel, c.Workspace, state, issue, c.Sink)
					switch run.Result.Outcome {
					case message.OutcomeBugConfirmed:
						openIssues = append(rebuilt, fmt.Sprintf("Arbiter-confirmed bug (issue_id=%s): %s", issue.IssueID, issue.Description))
						continue
					case message.OutcomeBugRefuted:
						openIssues = filterByIssueID(rebuilt, issue.IssueID)
						continue
					case message.OutcomeTestInvalid:
						events.CycleComplete(c.Sink, false, "Arbiter could not validate the disputed issue: "+run.Result.Explanation, i)
						return
					}
				}
			}
			openIssues = rebuildOpenIssues(review)
			if c.handleIterationExhaustion(ctx, request, lastPatch, review, i) {
				return
			}
			continue
		}
	}
}

// callBuilderTraced wraps a builder turn in an "agent.builder" span.
func (c *Cycle) callBuilderTraced(ctx context.Context, state message.SharedState) (*message.BuilderMessage, error) {
	spanCtx, span := c.tracer().Start(ctx, tracing.SpanPrefixAgent+"builder", oteltrace.WithAttributes(
		attribute.String(tracing.AttrAgentRole, string(events.RoleBuilder)),
		attribute.String(tracing.AttrAgentModel, c.Config.BuilderModel),
	))
	defer span.End()

	msg, err := agent.CallBuilder(spanCtx, c.Builder, c.Config.BuilderModel, state, c.Sink)
	if err != nil {
		span.RecordError(err)
	}
	return msg, err
}

// callReviewerTraced wraps a reviewer turn in an "agent.reviewer" span.
func (c *Cycle) callReviewerTraced(ctx context.Context, state message.SharedState, builderMsg message.BuilderMessage) (*message.Review, error) {
	spanCtx, span := c.tracer().Start(ctx, tracing.SpanPrefixAgent+"reviewer", oteltrace.WithAttributes(
		attribute.String(tracing.AttrAgentRole, string(events.RoleReviewer)),
		attribute.String(tracing.AttrAgentModel, c.Config.ReviewerModel),
	))
	defer span.End()

	review, err := agent.CallReviewer(spanCtx, c.Reviewer, c.Config.ReviewerModel, c.Config.ReviewStrictness, state, builderMsg, c.Sink)
	if err != nil {
		span.RecordError(err)
	} else {
		span.SetAttributes(attribute.String(tracing.AttrReviewVerdict, string(review.Verdict)))
	}
	return review, err
}

// summarizeOpenIssues applies context summarization across the
// accumulated open_issues buffer when its combined size exceeds
// context_summary_threshold: the buffer is joined, summarized (or
// truncated on a failed summarization call), and returned as a single
// entry so the next builder prompt stays bounded.
func (c *Cycle) summarizeOpenIssues(ctx context.Context, openIssues []string) []string {
	if len(openIssues) == 0 {
		return openIssues
	}
	joined := strings.Join(openIssues, "\n\n")
	summarized := subproto.SummarizeIfNeeded(ctx, c.Builder, c.Config.BuilderModel, joined, c.Config.ContextSummaryMax)
	if summarized == joined {
		return openIssues
	}
	return []string{summarized}
}

// provideFiles reads each requested path under the allow-list and
// renders a single "Files provided: …" note for open_issues.
func (c *Cycle) provideFiles(paths []string) string {
	note := "Files provided:\n"
	for _, p := range paths {
		if !workspace.IsAllowed(p, c.Config.AllowPaths) {
			note += fmt.Sprintf("--- %s (disallowed, not provided) ---\n", p)
			continue
		}
		content, err := c.Workspace.ReadFile(p)
		if err != nil {
			note += fmt.Sprintf("--- %s (error: %s) ---\n", p, err.Error())
			continue
		}
		note += fmt.Sprintf("--- %s ---\n%s\n", p, content)
	}
	return note
}

// runCommands executes each command from the builder's run list in
// order, stopping at the first non-zero exit; an empty list falls back
// to the configured test_command.
func (c *Cycle) runCommands(ctx context.Context, cmds []string) workspace.CommandResult {
	list := cmds
	if len(list) == 0 {
		list = []string{c.Config.TestCommand}
	}
	var last workspace.CommandResult
	for _, cmdLine := range list {
		spanCtx, span := c.tracer().Start(ctx, tracing.SpanPrefixRunner+"run",
			oteltrace.WithAttributes(attribute.String(tracing.AttrRunCommand, cmdLine)))
		last = c.Workspace.Run(spanCtx, workspace.SplitCommand(cmdLine))
		span.SetAttributes(attribute.Int(tracing.AttrRunExitCode, last.ExitCode))
		span.End()

		events.TestsOutput(c.Sink, last.Stdout, last.Stderr, last.ExitCode)
		if last.ExitCode != 0 {
			break
		}
	}
	return last
}

func formatCommandResult(r workspace.CommandResult) string {
	return fmt.Sprintf("Exit code: %d\nStdout: %s\nStderr: %s", r.ExitCode, r.Stdout, r.Stderr)
}

// shouldReview implements the review_mode gate, called only once tests
// have passed.
func (c *Cycle) shouldReview(i int, testsPass bool) bool {
	switch c.Config.ReviewMode {
	case config.ReviewFinalOnly:
		return i >= c.Config.MaxIterations
	case config.ReviewSelective:
		if i == 1 && testsPass && !c.Config.ReviewOnTestPass {
			return false
		}
		return !testsPass || i >= c.Config.MaxIterations || i%2 == 0
	default: // always
		return true
	}
}

// handleOscillation resolves an oscillation-check failure: consult the
// moderator when enabled and review history exists, otherwise
// terminate with failure. It always emits a terminal cycle_complete
// event.
func (c *Cycle) handleOscillation(ctx context.Context, request string, hist *history.History, i int) {
	stuckMessage := fmt.Sprintf("%s: human intervention needed", errs.ErrOscillation)

	lastReview, hasReview := hist.LastReview()
	if !c.Config.EnableModerator || !hasReview {
		events.CycleComplete(c.Sink, false, stuckMessage, i)
		return
	}

	lastPatch := ""
	if len(hist.Patches) > 0 {
		lastPatch = hist.Patches[len(hist.Patches)-1]
	}
	decision, err := subproto.ConsultModerator(ctx, c.Moderator, c.Config.ModeratorModel, request, lastPatch, lastReview, true, c.Sink)
	if err != nil {
		log.Debug(log.CatCycle, "moderator consult failed during oscillation", "err", err)
		events.CycleComplete(c.Sink, false, stuckMessage, i)
		return
	}
	if decision.Decision == message.DecisionAcceptBuilder {
		events.CycleComplete(c.Sink, true, "Oscillation detected; moderator accepted the builder's patch.", i)
		return
	}
	events.CycleComplete(c.Sink, false, stuckMessage, i)
}

// handleIterationExhaustion applies the iteration-limit policy: when
// i has reached max_iterations and the last review carries a
// critical/major issue, consult the moderator if enabled. Returns true
// when the cycle has been terminated (the caller must return
// immediately); false means the caller should loop back to BUILD.
func (c *Cycle) handleIterationExhaustion(ctx context.Context, request, lastPatch string, review message.Review, i int) bool {
	if i < c.Config.MaxIterations {
		return false
	}

	defaultMessage := fmt.Sprintf("%s: unresolved issues remain", errs.ErrIterationExhaustion)

	if c.Config.EnableModerator && hasMajorOrAbove(review) {
		decision, err := subproto.ConsultModerator(ctx, c.Moderator, c.Config.ModeratorModel, request, lastPatch, review, true, c.Sink)
		if err != nil {
			log.Debug(log.CatCycle, "moderator consult failed at iteration exhaustion", "err", err)
			events.CycleComplete(c.Sink, false, defaultMessage, i)
			return true
		}
		if decision.Decision == message.DecisionAcceptBuilder {
			events.CycleComplete(c.Sink, true, "Moderator accepted the builder after max iterations.", i)
			return true
		}
		events.CycleComplete(c.Sink, false, defaultMessage, i)
		return true
	}

	msg := review.Stopping
	if msg == "" {
		msg = defaultMessage
	}
	events.CycleComplete(c.Sink, false, msg, i)
	return true
}
