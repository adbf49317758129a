package subproto

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sreeduggirala/checkmate/internal/events"
	"github.com/sreeduggirala/checkmate/internal/llm/mock"
	"github.com/sreeduggirala/checkmate/internal/message"
)

func TestConsultModeratorEmitsDecisionEvent(t *testing.T) {
	p := mock.New().Enqueue(`{"decision":"accept_builder","reasoning":"the builder's patch is correct"}`)
	var got []events.Event
	sink := events.SinkFunc(func(e events.Event) { got = append(got, e) })

	d, err := ConsultModerator(context.Background(), p, "", "add multiply", "patch", message.Review{}, true, sink)
	require.NoError(t, err)
	assert.Equal(t, message.DecisionAcceptBuilder, d.Decision)

	require.NotEmpty(t, got)
	last := got[len(got)-1]
	assert.Equal(t, events.TypeModeratorDecision, last.Type)
}

func TestConsultModeratorParseFailure(t *testing.T) {
	p := mock.New().Enqueue(`not json`)
	_, err := ConsultModerator(context.Background(), p, "", "req", "patch", message.Review{}, true, noopSink())
	assert.Error(t, err)
}
