package reporting

import "time"

// Report is the operator-facing anomaly report over the full ledger.
type Report struct {
	// Metadata
	GeneratedAt time.Time

	// Ledger summary
	Ledger LedgerSummary

	// Score distribution over modeled records
	Scores ScoreSummary

	// Flagged counts per event category (sorted by event)
	FlaggedByEvent []EventCount

	// Rows holds every ledger record in ledger order.
	Rows []AnomalyRow
}

// LedgerSummary describes the analyzed ledger.
type LedgerSummary struct {
	TotalRecords    int
	AcceptedRecords int
	RejectedRecords int
	ModeledRecords  int
	SkippedRecords  int // zero-volume, excluded from the model
	Flagged         int
	DateRangeStart  int64 // Unix ms
	DateRangeEnd    int64 // Unix ms
}

// ScoreSummary describes the isolation score distribution.
type ScoreSummary struct {
	Mean   float64
	Stddev float64
	P50    float64
	P90    float64
	Max    float64
}

// EventCount is one row of the flagged-by-event breakdown.
type EventCount struct {
	Event   string
	Flagged int
}

// AnomalyRow represents one ledger record in the report tables.
type AnomalyRow struct {
	EvaluationID         string
	Address              string
	Symbol               string
	Event                string
	Accepted             bool
	Reason               string
	PriceVolumeRatio     float64
	LiquidityVolumeRatio float64
	Score                float64
	Anomaly              bool
	Skipped              bool
}
