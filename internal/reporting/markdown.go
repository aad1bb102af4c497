package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Anomaly Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))

	if r.Ledger.TotalRecords == 0 {
		sb.WriteString("Ledger is empty; nothing to analyze.\n")
		return sb.String()
	}

	// Ledger Summary
	sb.WriteString("## Ledger Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Total Records | %d |\n", r.Ledger.TotalRecords))
	sb.WriteString(fmt.Sprintf("| Accepted | %d |\n", r.Ledger.AcceptedRecords))
	sb.WriteString(fmt.Sprintf("| Rejected | %d |\n", r.Ledger.RejectedRecords))
	sb.WriteString(fmt.Sprintf("| Modeled | %d |\n", r.Ledger.ModeledRecords))
	sb.WriteString(fmt.Sprintf("| Skipped (zero volume) | %d |\n", r.Ledger.SkippedRecords))
	sb.WriteString(fmt.Sprintf("| Flagged | %d |\n", r.Ledger.Flagged))
	sb.WriteString(fmt.Sprintf("| Date Range Start (ms) | %d |\n", r.Ledger.DateRangeStart))
	sb.WriteString(fmt.Sprintf("| Date Range End (ms) | %d |\n", r.Ledger.DateRangeEnd))
	sb.WriteString("\n")

	// Score Distribution
	sb.WriteString("## Score Distribution\n\n")
	if r.Ledger.ModeledRecords > 0 {
		sb.WriteString("| Mean | Stddev | P50 | P90 | Max |\n")
		sb.WriteString("|------|--------|-----|-----|-----|\n")
		sb.WriteString(fmt.Sprintf("| %.4f | %.4f | %.4f | %.4f | %.4f |\n",
			r.Scores.Mean, r.Scores.Stddev, r.Scores.P50, r.Scores.P90, r.Scores.Max))
	} else {
		sb.WriteString("No records were modeled.\n")
	}
	sb.WriteString("\n")

	// Flagged By Event
	sb.WriteString("## Flagged By Event\n\n")
	if len(r.FlaggedByEvent) > 0 {
		sb.WriteString("| Event | Flagged |\n")
		sb.WriteString("|-------|--------|\n")
		for _, ec := range r.FlaggedByEvent {
			sb.WriteString(fmt.Sprintf("| %s | %d |\n", ec.Event, ec.Flagged))
		}
	} else {
		sb.WriteString("No records flagged.\n")
	}
	sb.WriteString("\n")

	// Flagged Records
	sb.WriteString("## Flagged Records\n\n")
	flagged := r.Flagged()
	if len(flagged) > 0 {
		sb.WriteString("| Symbol | Address | Event | Price/Volume | Liquidity/Volume | Score |\n")
		sb.WriteString("|--------|---------|-------|--------------|------------------|-------|\n")
		for _, row := range flagged {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %.6g | %.6g | %.4f |\n",
				row.Symbol, row.Address, row.Event,
				row.PriceVolumeRatio, row.LiquidityVolumeRatio, row.Score))
		}
	} else {
		sb.WriteString("No records flagged.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}
