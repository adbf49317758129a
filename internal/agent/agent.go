package agent

import (
	"context"
	"fmt"

	"github.com/sreeduggirala/checkmate/internal/config"
	"github.com/sreeduggirala/checkmate/internal/events"
	"github.com/sreeduggirala/checkmate/internal/llm"
	"github.com/sreeduggirala/checkmate/internal/log"
	"github.com/sreeduggirala/checkmate/internal/message"
)

// summarizerSystemPrompt is the short system prompt used for context
// summarization: request a 200-word summary, nothing else.
const summarizerSystemPrompt = `Summarize the following accumulated feedback in 200 words or fewer. Preserve
every distinct issue and test result; drop repetition and prose.`

// complete runs one agent turn: dispatch to provider, stream every
// chunk to sink tagged with role, and return the accumulated text once
// the stream closes. Any failure (including a non-nil Result.Err) is
// fatal to the turn; the caller returns it to the cycle, which treats
// it as fatal like a protocol error. It is not wrapped in
// errs.ErrProtocol.
func complete(ctx context.Context, provider llm.Provider, model, systemPrompt, userPrompt string, role events.Role, sink events.Sink) (string, error) {
	stream, err := provider.Complete(ctx, llm.Request{SystemPrompt: systemPrompt, UserPrompt: userPrompt, Model: model})
	if err != nil {
		return "", fmt.Errorf("agent: %s completion failed: %w", role, err)
	}
	for chunk := range stream.Chunks {
		events.StreamChunk(sink, role, chunk)
	}
	result := <-stream.Done
	if result.Err != nil {
		return "", fmt.Errorf("agent: %s completion failed: %w", role, result.Err)
	}
	log.Debug(log.CatAgent, "agent turn complete", "role", role, "chars", len(result.Text))
	return result.Text, nil
}

// CallBuilder runs a normal builder turn and parses the result.
func CallBuilder(ctx context.Context, provider llm.Provider, model string, state message.SharedState, sink events.Sink) (*message.BuilderMessage, error) {
	raw, err := complete(ctx, provider, model, BuilderSystemPrompt(), BuildUserPrompt(state), events.RoleBuilder, sink)
	if err != nil {
		return nil, err
	}
	return message.ParseBuilderMessage(raw)
}

// CallArbiter runs a builder turn prefixed with the arbiter preamble
// for the given stuck issue.
func CallArbiter(ctx context.Context, provider llm.Provider, model string, state message.SharedState, issue message.Issue, sink events.Sink) (*message.BuilderMessage, error) {
	prompt := ArbiterPreamble(issue) + BuildUserPrompt(state)
	raw, err := complete(ctx, provider, model, BuilderSystemPrompt(), prompt, events.RoleBuilder, sink)
	if err != nil {
		return nil, err
	}
	return message.ParseBuilderMessage(raw)
}

// CallReviewer runs a reviewer turn over the builder's last message and parses the result.
func CallReviewer(ctx context.Context, provider llm.Provider, model string, strictness config.ReviewStrictness, state message.SharedState, builder message.BuilderMessage, sink events.Sink) (*message.Review, error) {
	raw, err := complete(ctx, provider, model, ReviewerSystemPrompt(strictness), BuildReviewerPrompt(state, builder), events.RoleReviewer, sink)
	if err != nil {
		return nil, err
	}
	return message.ParseReview(raw)
}

// CallModerator runs a moderator turn to resolve a deadlock.
func CallModerator(ctx context.Context, provider llm.Provider, model, request, lastPatch string, lastReview message.Review, testsPassed bool, sink events.Sink) (*message.ModeratorDecision, error) {
	prompt := ModeratorPrompt(request, lastPatch, lastReview, testsPassed)
	raw, err := complete(ctx, provider, model, ModeratorSystemPrompt(), prompt, events.RoleModerator, sink)
	if err != nil {
		return nil, err
	}
	return message.ParseModeratorDecision(raw)
}

// Summarize requests a 200-word summary of feedback from the builder
// provider. Chunks are not streamed to the event sink since a
// summarization turn is an internal bookkeeping step, not a
// user-visible agent turn.
func Summarize(ctx context.Context, provider llm.Provider, model, feedback string) (string, error) {
	req := llm.Request{SystemPrompt: summarizerSystemPrompt, UserPrompt: feedback, Model: model}
	stream, err := provider.Complete(ctx, req)
	if err != nil {
		return "", fmt.Errorf("agent: summarization failed: %w", err)
	}
	var text string
	for chunk := range stream.Chunks {
		text += chunk
	}
	result := <-stream.Done
	if result.Err != nil {
		return "", fmt.Errorf("agent: summarization failed: %w", result.Err)
	}
	if result.Text != "" {
		return result.Text, nil
	}
	return text, nil
}
