package decision

import (
	"strings"

	"dexsentry/internal/domain"
)

// Classification thresholds are fixed by definition, not configuration.
const (
	pumpPriceChangeMin    = 100.0
	pumpVolumeChangeMin   = 500.0
	rugPriceChangeMax     = -90.0
	rugLiquidityChangeMax = -90.0
	cexListingMarker      = "CEX"
)

// Classifier assigns a market event category to a snapshot.
type Classifier struct{}

// NewClassifier creates a new event classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify returns exactly one category. Checks run in priority order
// and the first match wins, so a snapshot matching both the pump and
// the rug condition is a pump.
func (c *Classifier) Classify(snap *domain.TokenSnapshot) domain.EventCategory {
	switch {
	case snap.PriceChange24h > pumpPriceChangeMin && snap.VolumeChange24h > pumpVolumeChangeMin:
		return domain.EventPump
	case snap.PriceChange24h < rugPriceChangeMax && snap.LiquidityChange24h < rugLiquidityChangeMax:
		return domain.EventRug
	case strings.Contains(snap.Description, cexListingMarker):
		return domain.EventCEXListing
	default:
		return domain.EventNormal
	}
}
