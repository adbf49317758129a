// Package openai is a thin vendor adapter for the OpenAI Chat
// Completions API, kept deliberately minimal: the orchestration core
// only needs enough of the vendor surface for the cmd/dualagent
// entrypoint to wire llm.Provider to something concrete.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/sreeduggirala/checkmate/internal/llm"
)

const defaultModel = "gpt-5.2"

const apiURL = "https://api.openai.com/v1/chat/completions"

// Provider calls the OpenAI Chat Completions API non-streaming and
// reports the whole response as a single chunk.
type Provider struct {
	APIKey     string
	HTTPClient *http.Client
}

// New creates a Provider reading its API key from OPENAI_API_KEY.
func New() *Provider {
	return &Provider{
		APIKey:     os.Getenv("OPENAI_API_KEY"),
		HTTPClient: &http.Client{Timeout: 2 * time.Minute},
	}
}

func (p *Provider) Type() llm.ProviderType { return llm.ProviderOpenAI }

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (p *Provider) Complete(ctx context.Context, req llm.Request) (llm.Stream, error) {
	if p.APIKey == "" {
		return llm.Stream{}, fmt.Errorf("openai: OPENAI_API_KEY not set")
	}
	model := req.Model
	if model == "" {
		model = defaultModel
	}

	messages := []chatMessage{{Role: "system", Content: req.SystemPrompt}, {Role: "user", Content: req.UserPrompt}}
	body, err := json.Marshal(chatRequest{Model: model, Messages: messages})
	if err != nil {
		return llm.Stream{}, fmt.Errorf("openai: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(body))
	if err != nil {
		return llm.Stream{}, fmt.Errorf("openai: build request: %w", err)
	}
	httpReq.Header.Set("content-type", "application/json")
	httpReq.Header.Set("authorization", "Bearer "+p.APIKey)

	resp, err := p.HTTPClient.Do(httpReq)
	if err != nil {
		return llm.Stream{}, fmt.Errorf("openai: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return llm.Stream{}, fmt.Errorf("openai: read response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return llm.Stream{}, fmt.Errorf("openai: decode response: %w", err)
	}
	if parsed.Error != nil {
		return llm.Stream{}, fmt.Errorf("openai: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return llm.Stream{}, fmt.Errorf("openai: no choices returned")
	}

	text := parsed.Choices[0].Message.Content

	chunks := make(chan string, 1)
	done := make(chan llm.Result, 1)
	chunks <- text
	close(chunks)
	done <- llm.Result{Text: text}
	close(done)
	return llm.Stream{Chunks: chunks, Done: done}, nil
}

func init() {
	llm.Register(llm.ProviderOpenAI, func() llm.Provider { return New() })
}
