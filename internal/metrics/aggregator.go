// Package metrics summarizes anomaly passes over the evaluation ledger.
package metrics

import (
	"context"
	"fmt"

	"dexsentry/internal/anomaly"
	"dexsentry/internal/storage"
)

// Aggregator runs the anomaly pass over the full ledger and
// summarizes the result.
type Aggregator struct {
	evaluationStore storage.EvaluationStore
	analyzer        *anomaly.Analyzer
}

// NewAggregator creates a new summary aggregator.
func NewAggregator(store storage.EvaluationStore, analyzer *anomaly.Analyzer) *Aggregator {
	return &Aggregator{
		evaluationStore: store,
		analyzer:        analyzer,
	}
}

// ComputeSummary loads the full ledger, refits the analyzer and
// computes the score summary. An empty ledger yields an empty summary.
func (a *Aggregator) ComputeSummary(ctx context.Context) (*Summary, error) {
	records, err := a.evaluationStore.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	return Summarize(a.analyzer.Analyze(records)), nil
}
