package metrics

import (
	"math"
	"sort"

	"dexsentry/internal/anomaly"
)

// Summary aggregates one anomaly pass over the evaluation ledger.
type Summary struct {
	TotalRecords   int
	ModeledRecords int
	SkippedRecords int
	Flagged        int

	// Score distribution over modeled records
	ScoreMean   float64
	ScoreStddev float64
	ScoreP50    float64
	ScoreP90    float64
	ScoreMax    float64

	// Flagged counts per event category
	FlaggedByEvent map[string]int

	Flags []anomaly.Flag
}

// Summarize calculates the summary from one analyzer pass.
// Flags must be the full index-aligned analyzer output.
func Summarize(flags []anomaly.Flag) *Summary {
	s := &Summary{
		TotalRecords:   len(flags),
		FlaggedByEvent: make(map[string]int),
		Flags:          flags,
	}

	var scores []float64
	for _, f := range flags {
		if f.Skipped {
			s.SkippedRecords++
			continue
		}
		s.ModeledRecords++
		scores = append(scores, f.Score)
		if f.Anomaly {
			s.Flagged++
			s.FlaggedByEvent[f.Event.String()]++
		}
	}
	if len(scores) == 0 {
		return s
	}

	sorted := make([]float64, len(scores))
	copy(sorted, scores)
	sort.Float64s(sorted)

	s.ScoreMean = computeMean(scores)
	s.ScoreStddev = computeStddev(scores, s.ScoreMean)
	s.ScoreP50 = computePercentile(sorted, 0.50)
	s.ScoreP90 = computePercentile(sorted, 0.90)
	s.ScoreMax = sorted[len(sorted)-1]

	return s
}

// computeMean calculates the arithmetic mean.
func computeMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// computeStddev calculates sample standard deviation (n-1 denominator).
func computeStddev(values []float64, mean float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	sumSq := 0.0
	for _, v := range values {
		diff := v - mean
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(n-1))
}

// computePercentile uses linear interpolation.
// sorted must be pre-sorted ASC.
// p is percentile (0.10 = 10th percentile).
func computePercentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}

	idx := p * float64(n-1)
	lower := int(idx)
	upper := lower + 1
	if upper >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}
