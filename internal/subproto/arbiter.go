// Package subproto implements the forced-test arbiter, the diagnostics
// runner, and the moderator deadlock resolver: the sub-protocols the
// cycle state machine invokes outside its main build/review loop.
package subproto

import (
	"context"
	"fmt"

	"github.com/sreeduggirala/checkmate/internal/agent"
	"github.com/sreeduggirala/checkmate/internal/events"
	"github.com/sreeduggirala/checkmate/internal/llm"
	"github.com/sreeduggirala/checkmate/internal/message"
	"github.com/sreeduggirala/checkmate/internal/workspace"
)

// ArbiterRun is the outcome of one arbiter invocation.
type ArbiterRun struct {
	Result message.ArbiterTestResult
	// Err is non-nil only for a test_invalid outcome caused by the
	// arbiter turn itself failing (provider error or unparseable
	// response). Guard and apply rejections, and a response that omits
	// a patch or run command, leave it nil; their detail is in
	// Result.Explanation.
	Err error
}

// RunArbiter forces a bug-demonstration turn for the given stuck issue:
// the builder must submit a patch that only adds a reproducing test
// plus a run command, which is applied and executed under the normal
// guard. Test fails (exit != 0) => bug_confirmed; test passes =>
// bug_refuted; missing patch/run or a guard/apply failure =>
// test_invalid.
func RunArbiter(ctx context.Context, provider llm.Provider, model string, ws workspace.Workspace, state message.SharedState, issue message.Issue, sink events.Sink) ArbiterRun {
	events.ArbiterMode(sink, issue)

	builderMsg, err := agent.CallArbiter(ctx, provider, model, state, issue, sink)
	if err != nil {
		result := message.ArbiterTestResult{Outcome: message.OutcomeTestInvalid, Explanation: err.Error()}
		events.ArbiterResult(sink, result)
		return ArbiterRun{Result: result, Err: err}
	}

	if builderMsg.Patch == "" || len(builderMsg.Run) == 0 {
		result := message.ArbiterTestResult{Outcome: message.OutcomeTestInvalid, Explanation: "arbiter response omitted a patch or a run command"}
		events.ArbiterResult(sink, result)
		return ArbiterRun{Result: result}
	}

	validation := ws.Validate(builderMsg.Patch)
	if !validation.Valid {
		result := message.ArbiterTestResult{Outcome: message.OutcomeTestInvalid, Explanation: validation.Error}
		events.ArbiterResult(sink, result)
		return ArbiterRun{Result: result}
	}
	events.PatchReady(sink, builderMsg.Patch)

	applied := ws.Apply(builderMsg.Patch)
	if !applied.Applied {
		result := message.ArbiterTestResult{Outcome: message.OutcomeTestInvalid, Explanation: applied.Error}
		events.ArbiterResult(sink, result)
		return ArbiterRun{Result: result}
	}

	var last workspace.CommandResult
	for _, cmd := range builderMsg.Run {
		last = ws.Run(ctx, workspace.SplitCommand(cmd))
		events.TestsOutput(sink, last.Stdout, last.Stderr, last.ExitCode)
	}

	passed := last.ExitCode == 0
	result := message.ArbiterTestResult{
		TestAdded:  true,
		TestPatch:  builderMsg.Patch,
		TestPassed: &passed,
	}
	if passed {
		result.Outcome = message.OutcomeBugRefuted
		result.Explanation = "the reproducing test passed; the issue does not reproduce"
	} else {
		result.Outcome = message.OutcomeBugConfirmed
		result.Explanation = fmt.Sprintf("the reproducing test failed with exit code %d", last.ExitCode)
	}
	events.ArbiterResult(sink, result)
	return ArbiterRun{Result: result}
}
