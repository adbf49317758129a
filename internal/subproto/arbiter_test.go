package subproto

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sreeduggirala/checkmate/internal/events"
	"github.com/sreeduggirala/checkmate/internal/llm/mock"
	"github.com/sreeduggirala/checkmate/internal/message"
	"github.com/sreeduggirala/checkmate/internal/workspace"
)

func noopSink() events.Sink { return events.SinkFunc(func(events.Event) {}) }

func TestRunArbiterBugConfirmed(t *testing.T) {
	p := mock.New().Enqueue(`{"patch":"--- a/x_test.go\n+++ b/x_test.go\n","run":["go test -run TestRepro"]}`)
	ws := newFakeWorkspace()
	ws.runResults = []workspace.CommandResult{{ExitCode: 1, Stderr: "FAIL"}}

	run := RunArbiter(context.Background(), p, "", ws, message.SharedState{}, message.Issue{IssueID: "null-check"}, noopSink())
	assert.Equal(t, message.OutcomeBugConfirmed, run.Result.Outcome)
	require.NotNil(t, run.Result.TestPassed)
	assert.False(t, *run.Result.TestPassed)
}

func TestRunArbiterBugRefuted(t *testing.T) {
	p := mock.New().Enqueue(`{"patch":"--- a/x_test.go\n+++ b/x_test.go\n","run":["go test -run TestRepro"]}`)
	ws := newFakeWorkspace()
	ws.runResults = []workspace.CommandResult{{ExitCode: 0}}

	run := RunArbiter(context.Background(), p, "", ws, message.SharedState{}, message.Issue{IssueID: "null-check"}, noopSink())
	assert.Equal(t, message.OutcomeBugRefuted, run.Result.Outcome)
	assert.True(t, *run.Result.TestPassed)
}

func TestRunArbiterMissingPatchIsTestInvalid(t *testing.T) {
	p := mock.New().Enqueue(`{"files_needed":["a.go"]}`)
	ws := newFakeWorkspace()

	run := RunArbiter(context.Background(), p, "", ws, message.SharedState{}, message.Issue{IssueID: "x"}, noopSink())
	assert.Equal(t, message.OutcomeTestInvalid, run.Result.Outcome)
}

func TestRunArbiterMissingRunIsTestInvalid(t *testing.T) {
	p := mock.New().Enqueue(`{"patch":"--- a/x_test.go\n+++ b/x_test.go\n"}`)
	ws := newFakeWorkspace()

	run := RunArbiter(context.Background(), p, "", ws, message.SharedState{}, message.Issue{IssueID: "x"}, noopSink())
	assert.Equal(t, message.OutcomeTestInvalid, run.Result.Outcome)
}

func TestRunArbiterGuardRejection(t *testing.T) {
	p := mock.New().Enqueue(`{"patch":"--- a/secrets/key.pem\n+++ b/secrets/key.pem\n","run":["go test"]}`)
	ws := newFakeWorkspace()
	ws.validateResult = workspace.ValidationResult{Valid: false, Error: "Patch touches disallowed path: secrets/key.pem"}

	run := RunArbiter(context.Background(), p, "", ws, message.SharedState{}, message.Issue{IssueID: "x"}, noopSink())
	assert.Equal(t, message.OutcomeTestInvalid, run.Result.Outcome)
	assert.Contains(t, run.Result.Explanation, "disallowed path")
}
