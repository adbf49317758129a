package subproto

import (
	"context"

	"github.com/sreeduggirala/checkmate/internal/agent"
	"github.com/sreeduggirala/checkmate/internal/llm"
	"github.com/sreeduggirala/checkmate/internal/log"
)

const truncateFallbackChars = 2000

// approxTokens approximates a token count as ceil(len(text)/4), the
// rough heuristic context_summary_threshold is expressed in.
func approxTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	return (len(text) + 3) / 4
}

// SummarizeIfNeeded substitutes feedback with a 200-word builder-
// generated summary when its approximate token count exceeds
// threshold. A failed summarization call falls back to a 2000-
// character truncation rather than propagating the error, since losing
// some feedback detail is preferable to aborting the cycle over a
// bookkeeping step.
func SummarizeIfNeeded(ctx context.Context, provider llm.Provider, model, feedback string, threshold int) string {
	if threshold <= 0 || approxTokens(feedback) <= threshold {
		return feedback
	}

	summary, err := agent.Summarize(ctx, provider, model, feedback)
	if err != nil {
		log.Debug(log.CatSubproto, "context summarization failed, truncating", "err", err)
		if len(feedback) <= truncateFallbackChars {
			return feedback
		}
		return feedback[:truncateFallbackChars]
	}
	return summary
}
