package decision

import (
	"fmt"
	"strings"
)

// RenderMarkdown renders a FilterResult as a Markdown checklist.
// Used for notification bodies and operator reports.
func RenderMarkdown(result *FilterResult) string {
	var sb strings.Builder

	verdict := "REJECTED"
	if result.Accepted {
		verdict = "ACCEPTED"
	}
	sb.WriteString(fmt.Sprintf("## Filter verdict: %s\n\n", verdict))
	if result.Reason != "" {
		sb.WriteString(fmt.Sprintf("Reason: %s\n\n", result.Reason))
	}

	if len(result.Checks) > 0 {
		sb.WriteString("| # | Check | Threshold | Actual | Pass |\n")
		sb.WriteString("|---|-------|-----------|--------|------|\n")
		for i, c := range result.Checks {
			passStr := "PASS"
			if !c.Pass {
				passStr = "FAIL"
			}
			sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s |\n",
				i+1, c.Name, c.Threshold, c.Actual, passStr))
		}
		sb.WriteString("\n")

		passed := 0
		for _, c := range result.Checks {
			if c.Pass {
				passed++
			}
		}
		sb.WriteString(fmt.Sprintf("Checks: %d/%d passed\n", passed, len(result.Checks)))
	}

	return sb.String()
}
