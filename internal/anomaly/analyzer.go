// Package anomaly flags statistical outliers across the evaluation
// ledger using an isolation forest over per-record ratio features.
package anomaly

import (
	"math"
	"math/rand"
	"sort"

	"dexsentry/internal/domain"
)

// Defaults for forest construction and the flagging rate.
const (
	DefaultTrees         = 100
	DefaultSubsample     = 256
	DefaultContamination = 0.10
)

// Flag is the per-record analyzer output. The slice returned by
// Analyze is index-aligned with its input.
type Flag struct {
	EvaluationID         string
	Address              string
	Symbol               string
	Event                domain.EventCategory
	PriceVolumeRatio     float64
	LiquidityVolumeRatio float64
	Score                float64 // isolation score, 0 when skipped
	Anomaly              bool
	Skipped              bool // zero-volume record, not modeled
}

// Analyzer runs the outlier pass over the full ledger. Every run
// refits from scratch; no state survives between calls.
type Analyzer struct {
	trees         int
	subsample     int
	contamination float64
	seed          int64
}

// Option configures Analyzer.
type Option func(*Analyzer)

// WithTrees sets the number of isolation trees.
func WithTrees(n int) Option {
	return func(a *Analyzer) {
		a.trees = n
	}
}

// WithSubsample sets the per-tree sample size cap.
func WithSubsample(n int) Option {
	return func(a *Analyzer) {
		a.subsample = n
	}
}

// WithContamination sets the fraction of modeled records to flag.
func WithContamination(f float64) Option {
	return func(a *Analyzer) {
		a.contamination = f
	}
}

// WithSeed pins the RNG seed.
func WithSeed(seed int64) Option {
	return func(a *Analyzer) {
		a.seed = seed
	}
}

// NewAnalyzer creates an analyzer with standard parameters.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		trees:         DefaultTrees,
		subsample:     DefaultSubsample,
		contamination: DefaultContamination,
		seed:          1,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze scores every record on its price/volume and liquidity/volume
// ratios and flags the top contamination share as anomalous. Records
// with zero 24h volume have no defined ratios; they are excluded from
// the model and reported non-anomalous.
func (a *Analyzer) Analyze(records []*domain.EvaluationRecord) []Flag {
	flags := make([]Flag, len(records))
	if len(records) == 0 {
		return flags
	}

	var pts []point
	var modeled []int
	for i, rec := range records {
		flags[i] = Flag{
			EvaluationID: rec.EvaluationID,
			Address:      rec.Address,
			Symbol:       rec.Symbol,
			Event:        rec.Event,
		}
		if rec.Volume24h <= 0 {
			flags[i].Skipped = true
			continue
		}
		pv := rec.Price / rec.Volume24h
		lv := rec.LiquidityUSD / rec.Volume24h
		flags[i].PriceVolumeRatio = pv
		flags[i].LiquidityVolumeRatio = lv
		pts = append(pts, point{pv, lv})
		modeled = append(modeled, i)
	}
	if len(modeled) == 0 {
		return flags
	}

	rng := rand.New(rand.NewSource(a.seed))
	f := fitForest(pts, a.trees, a.subsample, rng)

	scores := make([]float64, len(modeled))
	for j, p := range pts {
		scores[j] = f.score(p)
		flags[modeled[j]].Score = scores[j]
	}

	k := int(math.Round(a.contamination * float64(len(modeled))))
	if k <= 0 {
		return flags
	}
	if k > len(modeled) {
		k = len(modeled)
	}

	// Rank by score descending, stable so ties resolve in input order.
	order := make([]int, len(modeled))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(x, y int) bool {
		return scores[order[x]] > scores[order[y]]
	})
	for _, j := range order[:k] {
		flags[modeled[j]].Anomaly = true
	}
	return flags
}
