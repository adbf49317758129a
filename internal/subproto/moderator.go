package subproto

import (
	"context"

	"github.com/sreeduggirala/checkmate/internal/agent"
	"github.com/sreeduggirala/checkmate/internal/events"
	"github.com/sreeduggirala/checkmate/internal/llm"
	"github.com/sreeduggirala/checkmate/internal/message"
)

// ConsultModerator prompts the moderator with the original request,
// the last applied patch, the last review (grouped by severity), and
// whether tests last passed, then reports its decision on the event
// sink. A parse failure propagates to the caller, which treats it as a
// terminal cycle failure.
func ConsultModerator(ctx context.Context, provider llm.Provider, model, request, lastPatch string, lastReview message.Review, testsPassed bool, sink events.Sink) (*message.ModeratorDecision, error) {
	decision, err := agent.CallModerator(ctx, provider, model, request, lastPatch, lastReview, testsPassed, sink)
	if err != nil {
		return nil, err
	}
	events.ModeratorDecisionEvent(sink, *decision)
	return decision, nil
}
