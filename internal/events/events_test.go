package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sreeduggirala/checkmate/internal/message"
)

func collect() (*[]Event, Sink) {
	var got []Event
	return &got, SinkFunc(func(e Event) { got = append(got, e) })
}

func TestEventHelpers(t *testing.T) {
	got, sink := collect()

	Status(sink, "Iteration 1/3")
	StreamChunk(sink, RoleBuilder, "tok")
	PatchReady(sink, "--- a/x\n")
	TestsOutput(sink, "out", "err", 0)
	ReviewReady(sink, message.Review{Verdict: message.VerdictApprove})
	ModeratorDecisionEvent(sink, message.ModeratorDecision{Decision: message.DecisionAcceptBuilder})
	ArbiterMode(sink, message.Issue{IssueID: "x"})
	ArbiterResult(sink, message.ArbiterTestResult{Outcome: message.OutcomeBugRefuted})
	DiagnosticRun(sink, []string{"go test -v"})
	CycleComplete(sink, true, "done", 1)
	Error(sink, "boom")

	require.Len(t, *got, 11)
	assert.Equal(t, TypeStatus, (*got)[0].Type)
	assert.Equal(t, TypeStreamChunk, (*got)[1].Type)
	assert.Equal(t, RoleBuilder, (*got)[1].StreamRole)
	assert.Equal(t, TypeCycleComplete, (*got)[9].Type)
	assert.True(t, (*got)[9].CycleSuccess)
	assert.Equal(t, TypeError, (*got)[10].Type)
}
