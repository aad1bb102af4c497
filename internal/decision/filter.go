package decision

import (
	"fmt"
	"math"

	"dexsentry/internal/config"
	"dexsentry/internal/domain"
)

// FilterEngine applies the blacklist and numeric threshold checks.
type FilterEngine struct{}

// NewFilterEngine creates a new filter engine.
func NewFilterEngine() *FilterEngine {
	return &FilterEngine{}
}

// Evaluate checks the snapshot against the blacklist first, then the
// four numeric thresholds. A token is accepted only when every check
// passes.
func (e *FilterEngine) Evaluate(snap *domain.TokenSnapshot, filters config.Filters, blacklist *config.Blacklist) *FilterResult {
	// Blacklist membership is the cheapest check, run it first.
	if blacklist.HasCoin(snap.Address) || blacklist.HasDev(snap.Developer) {
		return &FilterResult{Accepted: false, Reason: domain.ReasonBlacklisted}
	}

	ratio := snap.VolumeLiquidityRatio()
	checks := []CheckResult{
		{
			Name:      "Liquidity floor",
			Threshold: fmt.Sprintf(">= %.2f", filters.MinLiquidityUSD),
			Actual:    fmt.Sprintf("%.2f", snap.LiquidityUSD),
			Pass:      snap.LiquidityUSD >= filters.MinLiquidityUSD,
		},
		{
			Name:      "Volume floor",
			Threshold: fmt.Sprintf(">= %.2f", filters.MinVolume24h),
			Actual:    fmt.Sprintf("%.2f", snap.Volume24h),
			Pass:      snap.Volume24h >= filters.MinVolume24h,
		},
		{
			Name:      "Price change ceiling",
			Threshold: fmt.Sprintf("|x| <= %.2f", filters.MaxPriceChange24h),
			Actual:    fmt.Sprintf("%.2f", snap.PriceChange24h),
			Pass:      math.Abs(snap.PriceChange24h) <= filters.MaxPriceChange24h,
		},
		{
			Name:      "Volume/liquidity ratio ceiling",
			Threshold: fmt.Sprintf("<= %.2f", filters.MaxVolumeLiquidityRatio),
			Actual:    fmt.Sprintf("%.4f", ratio),
			Pass:      ratio <= filters.MaxVolumeLiquidityRatio,
		},
	}

	for _, c := range checks {
		if !c.Pass {
			return &FilterResult{Accepted: false, Reason: domain.ReasonFiltersFailed, Checks: checks}
		}
	}

	return &FilterResult{Accepted: true, Checks: checks}
}
