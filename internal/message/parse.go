package message

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sreeduggirala/checkmate/internal/errs"
)

// stripJSONFence removes an optional surrounding ```json ... ``` fence
// (or a bare ``` fence) from an agent's raw response text.
func stripJSONFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) < 2 {
		return s
	}
	// Drop the opening fence line (``` or ```json) and a trailing fence line.
	lines = lines[1:]
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// ParseBuilderMessage parses and validates a builder's raw response.
// Any parse or schema failure returns a non-nil error, which the cycle
// state machine treats as a fatal ProtocolError.
func ParseBuilderMessage(raw string) (*BuilderMessage, error) {
	var msg BuilderMessage
	if err := json.Unmarshal([]byte(stripJSONFence(raw)), &msg); err != nil {
		return nil, fmt.Errorf("%w: builder message: invalid JSON: %s", errs.ErrProtocol, err)
	}
	hasFileRequest := len(msg.FilesNeeded) > 0
	hasPatch := msg.Patch != ""
	switch {
	case hasFileRequest && hasPatch:
		return nil, fmt.Errorf("%w: builder message: must be either a file request or an implementation, not both", errs.ErrProtocol)
	case !hasFileRequest && !hasPatch:
		return nil, fmt.Errorf("%w: builder message: must populate either files_needed or patch", errs.ErrProtocol)
	}
	return &msg, nil
}

// ParseReview parses and validates a reviewer's raw response.
func ParseReview(raw string) (*Review, error) {
	var r Review
	if err := json.Unmarshal([]byte(stripJSONFence(raw)), &r); err != nil {
		return nil, fmt.Errorf("%w: review: invalid JSON: %s", errs.ErrProtocol, err)
	}
	switch r.Verdict {
	case VerdictApprove, VerdictRequestChanges, VerdictBlock:
	default:
		return nil, fmt.Errorf("%w: review: invalid verdict %q", errs.ErrProtocol, r.Verdict)
	}
	if r.Verdict == VerdictBlock {
		switch r.BlockReason {
		case BlockUncertainty, BlockDefiniteBug, BlockNeedsHuman:
		default:
			return nil, fmt.Errorf("%w: review: block verdict requires a valid block_reason, got %q", errs.ErrProtocol, r.BlockReason)
		}
		if r.BlockReason == BlockUncertainty && len(r.DiagnosticsNeeded) == 0 {
			return nil, fmt.Errorf("%w: review: block_reason=uncertainty requires a non-empty diagnostics_needed", errs.ErrProtocol)
		}
	}
	return &r, nil
}

// ParseModeratorDecision parses and validates a moderator's raw response.
func ParseModeratorDecision(raw string) (*ModeratorDecision, error) {
	var d ModeratorDecision
	if err := json.Unmarshal([]byte(stripJSONFence(raw)), &d); err != nil {
		return nil, fmt.Errorf("%w: moderator decision: invalid JSON: %s", errs.ErrProtocol, err)
	}
	switch d.Decision {
	case DecisionAcceptBuilder, DecisionAcceptReviewer, DecisionRejectBoth:
	default:
		return nil, fmt.Errorf("%w: moderator decision: invalid decision %q", errs.ErrProtocol, d.Decision)
	}
	return &d, nil
}
