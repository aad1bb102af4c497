package trust

import "dexsentry/internal/domain"

// Top-holder concentration bounds for the bundled supply check.
const (
	TopHolderCount         = 10
	BundledSupplyThreshold = 0.9
)

// BundledSupply checks whether the largest holders control more than
// 90% of the total supply. A snapshot without holder data passes: the
// check needs evidence to flag anything. On detection the verdict
// carries blacklist instructions for the token and its developer.
func BundledSupply(snap *domain.TokenSnapshot) *Verdict {
	verdict := &Verdict{Check: "bundled_supply", Passed: true}
	if len(snap.Holders) == 0 || snap.TotalSupply <= 0 {
		return verdict
	}

	var top float64
	for _, h := range snap.TopHolders(TopHolderCount) {
		top += h.Balance
	}

	if top/snap.TotalSupply > BundledSupplyThreshold {
		verdict.Passed = false
		verdict.Reason = domain.ReasonBundledSupply
		verdict.BlacklistCoin = snap.Address
		verdict.BlacklistDev = snap.Developer
	}
	return verdict
}
