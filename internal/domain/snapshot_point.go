package domain

// SnapshotPoint is a flattened TokenSnapshot row for the historical archive.
// Corresponds to token_snapshots table in ClickHouse.
type SnapshotPoint struct {
	Address            string  // token address
	Symbol             string  // token symbol
	TimestampMs        int64   // fetch timestamp (ms)
	Price              float64 // last trade price
	Volume24h          float64 // 24h trade volume
	LiquidityUSD       float64 // pooled liquidity
	PriceChange24h     float64 // 24h price change, percent
	VolumeChange24h    float64 // 24h volume change, percent
	LiquidityChange24h float64 // 24h liquidity change, percent
}

// ArchivePoint converts the snapshot into its archive row form.
func (s *TokenSnapshot) ArchivePoint() *SnapshotPoint {
	return &SnapshotPoint{
		Address:            s.Address,
		Symbol:             s.Symbol,
		TimestampMs:        s.FetchedAt,
		Price:              s.Price,
		Volume24h:          s.Volume24h,
		LiquidityUSD:       s.LiquidityUSD,
		PriceChange24h:     s.PriceChange24h,
		VolumeChange24h:    s.VolumeChange24h,
		LiquidityChange24h: s.LiquidityChange24h,
	}
}
