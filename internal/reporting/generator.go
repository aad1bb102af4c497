// Package reporting renders the anomaly pass over the evaluation
// ledger as operator-facing Markdown and CSV artifacts.
package reporting

import (
	"context"
	"fmt"
	"sort"
	"time"

	"dexsentry/internal/anomaly"
	"dexsentry/internal/metrics"
	"dexsentry/internal/storage"
)

// Generator produces anomaly reports from the evaluation ledger.
type Generator struct {
	evaluationStore storage.EvaluationStore
	analyzer        *anomaly.Analyzer
	now             func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator(store storage.EvaluationStore, analyzer *anomaly.Analyzer) *Generator {
	return &Generator{
		evaluationStore: store,
		analyzer:        analyzer,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate loads the full ledger, runs the anomaly pass and assembles
// the report. An empty ledger yields a report with zero rows, not an
// error.
func (g *Generator) Generate(ctx context.Context) (*Report, error) {
	records, err := g.evaluationStore.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}

	flags := g.analyzer.Analyze(records)
	summary := metrics.Summarize(flags)

	report := &Report{
		GeneratedAt: g.now(),
		Ledger: LedgerSummary{
			TotalRecords:   summary.TotalRecords,
			ModeledRecords: summary.ModeledRecords,
			SkippedRecords: summary.SkippedRecords,
			Flagged:        summary.Flagged,
		},
		Scores: ScoreSummary{
			Mean:   summary.ScoreMean,
			Stddev: summary.ScoreStddev,
			P50:    summary.ScoreP50,
			P90:    summary.ScoreP90,
			Max:    summary.ScoreMax,
		},
		FlaggedByEvent: sortedEventCounts(summary.FlaggedByEvent),
		Rows:           make([]AnomalyRow, len(records)),
	}

	for i, rec := range records {
		if rec.Accepted {
			report.Ledger.AcceptedRecords++
		} else {
			report.Ledger.RejectedRecords++
		}
		if report.Ledger.DateRangeStart == 0 || rec.EvaluatedAt < report.Ledger.DateRangeStart {
			report.Ledger.DateRangeStart = rec.EvaluatedAt
		}
		if rec.EvaluatedAt > report.Ledger.DateRangeEnd {
			report.Ledger.DateRangeEnd = rec.EvaluatedAt
		}

		flag := flags[i]
		report.Rows[i] = AnomalyRow{
			EvaluationID:         rec.EvaluationID,
			Address:              rec.Address,
			Symbol:               rec.Symbol,
			Event:                rec.Event.String(),
			Accepted:             rec.Accepted,
			Reason:               rec.Reason.String(),
			PriceVolumeRatio:     flag.PriceVolumeRatio,
			LiquidityVolumeRatio: flag.LiquidityVolumeRatio,
			Score:                flag.Score,
			Anomaly:              flag.Anomaly,
			Skipped:              flag.Skipped,
		}
	}

	return report, nil
}

// Flagged returns the anomalous rows in ledger order.
func (r *Report) Flagged() []AnomalyRow {
	var rows []AnomalyRow
	for _, row := range r.Rows {
		if row.Anomaly {
			rows = append(rows, row)
		}
	}
	return rows
}

// sortedEventCounts orders the flagged-by-event breakdown by event name
// so rendered output is deterministic.
func sortedEventCounts(byEvent map[string]int) []EventCount {
	rows := make([]EventCount, 0, len(byEvent))
	for event, count := range byEvent {
		rows = append(rows, EventCount{Event: event, Flagged: count})
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Event < rows[j].Event
	})
	return rows
}
