package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sreeduggirala/checkmate/internal/config"
	"github.com/sreeduggirala/checkmate/internal/events"
	"github.com/sreeduggirala/checkmate/internal/llm"
	"github.com/sreeduggirala/checkmate/internal/llm/mock"
	"github.com/sreeduggirala/checkmate/internal/message"
)

func TestCallBuilderImplementation(t *testing.T) {
	p := mock.New().Enqueue(`{"plan":"add multiply","patch":"--- a/x\n+++ b/x\n","tests":"t","run":["go test ./..."]}`)
	var got []events.Event
	sink := events.SinkFunc(func(e events.Event) { got = append(got, e) })

	msg, err := CallBuilder(context.Background(), p, "", message.SharedState{Goal: "add multiply"}, sink)
	require.NoError(t, err)
	assert.Equal(t, "add multiply", msg.Plan)
	require.Len(t, got, 1)
	assert.Equal(t, events.RoleBuilder, got[0].StreamRole)
}

func TestCallBuilderProtocolError(t *testing.T) {
	p := mock.New().Enqueue(`not json`)
	sink := events.SinkFunc(func(events.Event) {})

	_, err := CallBuilder(context.Background(), p, "", message.SharedState{}, sink)
	assert.Error(t, err)
}

func TestCallReviewer(t *testing.T) {
	p := mock.New().Enqueue(`{"verdict":"approve","issues":[],"stopping":""}`)
	sink := events.SinkFunc(func(events.Event) {})

	review, err := CallReviewer(context.Background(), p, "", config.StrictnessBalanced, message.SharedState{}, message.BuilderMessage{Plan: "x"}, sink)
	require.NoError(t, err)
	assert.Equal(t, message.VerdictApprove, review.Verdict)
}

func TestCallModerator(t *testing.T) {
	p := mock.New().Enqueue(`{"decision":"accept_builder","reasoning":"builder is right"}`)
	sink := events.SinkFunc(func(events.Event) {})

	d, err := CallModerator(context.Background(), p, "", "add multiply", "patch", message.Review{}, true, sink)
	require.NoError(t, err)
	assert.Equal(t, message.DecisionAcceptBuilder, d.Decision)
}

func TestCallArbiterIncludesPreamble(t *testing.T) {
	p := mock.New()
	p.RespondFunc = func(req llm.Request) (string, error) {
		assert.Contains(t, req.UserPrompt, "ARBITER MODE")
		assert.Contains(t, req.UserPrompt, "null-check")
		return `{"patch":"--- a/x_test.go\n+++ b/x_test.go\n","run":["go test -run TestRepro"]}`, nil
	}

	_, err := CallArbiter(context.Background(), p, "", message.SharedState{Goal: "g"}, message.Issue{IssueID: "null-check", Severity: message.SeverityCritical, Description: "nil deref"}, events.SinkFunc(func(events.Event) {}))
	require.NoError(t, err)
}

func TestSummarizeReturnsResultText(t *testing.T) {
	p := mock.New().Enqueue("a 200 word summary")
	text, err := Summarize(context.Background(), p, "", "lots of feedback")
	require.NoError(t, err)
	assert.Equal(t, "a 200 word summary", text)
}

func TestModeratorPromptGroupsBySeverity(t *testing.T) {
	review := message.Review{Issues: []message.Issue{
		{Severity: message.SeverityCritical, Description: "crash on nil"},
		{Severity: message.SeverityMinor, Description: "typo"},
	}}
	prompt := ModeratorPrompt("add multiply", "patch text", review, true)
	assert.Contains(t, prompt, "crash on nil")
	assert.Contains(t, prompt, "typo")
	assert.Contains(t, prompt, "Tests passing: true")
}
