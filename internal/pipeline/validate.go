package pipeline

import (
	"errors"
	"fmt"

	"dexsentry/internal/domain"
)

// ErrMalformedSnapshot marks a snapshot that fails structural
// validation. Callers treat it like a failed fetch: log, skip the
// address, record nothing.
var ErrMalformedSnapshot = errors.New("malformed snapshot")

// ValidateSnapshot checks structural soundness of a fetched snapshot
// before it enters the stage sequence. The checks run in a fixed order
// and the first violation is returned.
func ValidateSnapshot(snap *domain.TokenSnapshot) error {
	if snap == nil {
		return fmt.Errorf("%w: nil snapshot", ErrMalformedSnapshot)
	}
	if snap.Address == "" {
		return fmt.Errorf("%w: empty address", ErrMalformedSnapshot)
	}
	if snap.FetchedAt <= 0 {
		return fmt.Errorf("%w: missing fetch timestamp", ErrMalformedSnapshot)
	}
	if snap.Price < 0 {
		return fmt.Errorf("%w: negative price %f", ErrMalformedSnapshot, snap.Price)
	}
	if snap.Volume24h < 0 {
		return fmt.Errorf("%w: negative 24h volume %f", ErrMalformedSnapshot, snap.Volume24h)
	}
	if snap.LiquidityUSD < 0 {
		return fmt.Errorf("%w: negative liquidity %f", ErrMalformedSnapshot, snap.LiquidityUSD)
	}
	if snap.TotalSupply < 0 {
		return fmt.Errorf("%w: negative total supply %f", ErrMalformedSnapshot, snap.TotalSupply)
	}
	if len(snap.Holders) > 0 && snap.TotalSupply == 0 {
		return fmt.Errorf("%w: holder balances without total supply", ErrMalformedSnapshot)
	}
	for _, h := range snap.Holders {
		if h.Balance < 0 {
			return fmt.Errorf("%w: negative holder balance %f", ErrMalformedSnapshot, h.Balance)
		}
	}
	return nil
}
