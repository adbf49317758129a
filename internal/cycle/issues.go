package cycle

import (
	"fmt"
	"strings"

	"github.com/sreeduggirala/checkmate/internal/message"
)

// formatIssue renders a review issue as an open_issues entry, tagging
// it with its issue_id (when present) so a later arbiter outcome can
// filter it back out by id.
func formatIssue(issue message.Issue) string {
	if issue.IssueID != "" {
		return fmt.Sprintf("[%s] (issue_id=%s) %s", issue.Severity, issue.IssueID, issue.Description)
	}
	return fmt.Sprintf("[%s] %s", issue.Severity, issue.Description)
}

// rebuildOpenIssues turns a review's issues (and optional suggested
// patch) into the open_issues buffer the next builder turn will see.
func rebuildOpenIssues(review message.Review) []string {
	var out []string
	for _, issue := range review.Issues {
		out = append(out, formatIssue(issue))
	}
	if review.SuggestedPatch != "" {
		out = append(out, "Suggested patch:\n"+review.SuggestedPatch)
	}
	return out
}

// filterByIssueID drops any open_issues entry tagged with issueID.
func filterByIssueID(issues []string, issueID string) []string {
	tag := fmt.Sprintf("(issue_id=%s)", issueID)
	var out []string
	for _, s := range issues {
		if strings.Contains(s, tag) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// hasMajorOrAbove reports whether review carries any issue of severity
// major or critical, the trigger condition for a moderator consult at
// iteration exhaustion.
func hasMajorOrAbove(review message.Review) bool {
	for _, issue := range review.Issues {
		if issue.Severity.AtLeastMajor() {
			return true
		}
	}
	return false
}
