// Package mock provides a scriptable llm.Provider for tests: a fake
// with a configurable response function instead of network calls.
package mock

import (
	"context"

	"github.com/sreeduggirala/checkmate/internal/llm"
)

// Provider is a mock llm.Provider whose responses are scripted by the
// caller via RespondFunc or a queued sequence via Enqueue.
type Provider struct {
	// RespondFunc, if set, is called for every Complete request.
	RespondFunc func(req llm.Request) (string, error)

	queue     []string
	callCount int
	lastReqs  []llm.Request
}

// New creates a mock provider with no responses queued.
func New() *Provider {
	return &Provider{}
}

// Enqueue appends a canned response text to be returned, in order, by
// successive Complete calls once the queue is non-empty. RespondFunc
// takes precedence if set.
func (p *Provider) Enqueue(responses ...string) *Provider {
	p.queue = append(p.queue, responses...)
	return p
}

func (p *Provider) Type() llm.ProviderType { return llm.ProviderMock }

// CallCount returns how many times Complete has been invoked.
func (p *Provider) CallCount() int { return p.callCount }

// Requests returns every request Complete has received, in order.
func (p *Provider) Requests() []llm.Request { return p.lastReqs }

func (p *Provider) Complete(ctx context.Context, req llm.Request) (llm.Stream, error) {
	p.callCount++
	p.lastReqs = append(p.lastReqs, req)

	text, err := p.next(req)

	chunks := make(chan string, 1)
	done := make(chan llm.Result, 1)
	if err != nil {
		close(chunks)
		done <- llm.Result{Err: err}
		close(done)
		return llm.Stream{Chunks: chunks, Done: done}, nil
	}

	chunks <- text
	close(chunks)
	done <- llm.Result{Text: text}
	close(done)
	return llm.Stream{Chunks: chunks, Done: done}, nil
}

func (p *Provider) next(req llm.Request) (string, error) {
	if p.RespondFunc != nil {
		return p.RespondFunc(req)
	}
	if len(p.queue) == 0 {
		return "{}", nil
	}
	text := p.queue[0]
	p.queue = p.queue[1:]
	return text, nil
}

func init() {
	llm.Register(llm.ProviderMock, func() llm.Provider { return New() })
}
