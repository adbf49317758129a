// Package anthropic is a thin vendor adapter for the Anthropic
// Messages API, kept deliberately minimal: the orchestration core only
// needs enough of the vendor surface for the cmd/dualagent entrypoint
// to wire llm.Provider to something concrete.
package anthropic

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

const defaultModel = "claude-sonnet-4-5"

const apiURL = "https://api.anthropic.com/v1/messages"

// Provider calls the Anthropic Messages API non-streaming and reports
// the whole response as a single chunk; callers that want token-level
// streaming should use the vendor SDK directly outside this core.
type Provider struct {
	APIKey     string
	HTTPClient *http.Client
}

// New creates a Provider reading its API key from ANTHROPIC_API_KEY.
func New() *Provider {
	return &Provider{
		APIKey:     os.Getenv("ANTHROPIC_API_KEY"),
		HTTPClient: &http.Client{Timeout: 2 * time.Minute},
	}
}

func (p *Provider) Type() llm.ProviderType { return llm.ProviderAnthropic }

type messagesRequest struct {
	Model     string    `json:"model"`
	System    string    `json:"system,omitempty"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (p *Provider) Complete(ctx context.Context, req llm.Request) (llm.Stream, error) {
	if p.APIKey == "" {
		return llm.Stream{}, fmt.Errorf("anthropic: ANTHROPIC_API_KEY not set")
	}
	model := req.Model
	if model == "" {
		model = defaultModel
	}

	body, err := json.Marshal(messagesRequest{
		Model:     model,
		System:    req.SystemPrompt,
		MaxTokens: 8192,
		Messages:  []message{{Role: "user", Content: req.UserPrompt}},
	})
	if err != nil {
		return llm.Stream{}, fmt.Errorf("anthropic: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(body))
	if err != nil {
		return llm.Stream{}, fmt.Errorf("anthropic: build request: %w", err)
	}
	httpReq.Header.Set("content-type", "application/json")
	httpReq.Header.Set("x-api-key", p.APIKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")

	resp, err := p.HTTPClient.Do(httpReq)
	if err != nil {
		return llm.Stream{}, fmt.Errorf("anthropic: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return llm.Stream{}, fmt.Errorf("anthropic: read response: %w", err)
	}

	var parsed messagesResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return llm.Stream{}, fmt.Errorf("anthropic: decode response: %w", err)
	}
	if parsed.Error != nil {
		return llm.Stream{}, fmt.Errorf("anthropic: %s", parsed.Error.Message)
	}

	var text string
	for _, c := range parsed.Content {
		if c.Type == "text" {
			text += c.Text
		}
	}

	chunks := make(chan string, 1)
	done := make(chan llm.Result, 1)
	chunks <- text
	close(chunks)
	done <- llm.Result{Text: text}
	close(done)
	return llm.Stream{Chunks: chunks, Done: done}, nil
}

func init() {
	llm.Register(llm.ProviderAnthropic, func() llm.Provider { return New() })
}
