package domain

// TokenSnapshot represents one fetch of market data for a watched token.
// All monetary values are denominated in USD.
type TokenSnapshot struct {
	Address            string          // base token address
	Symbol             string          // token symbol
	Developer          string          // deployer wallet, empty when unknown
	Description        string          // pair description from the data source
	Price              float64         // last trade price
	Volume24h          float64         // 24h trade volume
	LiquidityUSD       float64         // pooled liquidity
	PriceChange24h     float64         // 24h price change, percent
	VolumeChange24h    float64         // 24h volume change, percent
	LiquidityChange24h float64         // 24h liquidity change, percent
	TotalSupply        float64         // total token supply
	Holders            []HolderBalance // largest holders, descending by balance
	FetchedAt          int64           // Unix timestamp in milliseconds
}

// HolderBalance is one entry of a token holder ranking.
type HolderBalance struct {
	Address string  // holder wallet address
	Balance float64 // token units held
}

// VolumeLiquidityRatio returns 24h volume divided by pooled liquidity.
// A snapshot with no liquidity yields 0 rather than dividing by zero.
func (s *TokenSnapshot) VolumeLiquidityRatio() float64 {
	if s.LiquidityUSD <= 0 {
		return 0
	}
	return s.Volume24h / s.LiquidityUSD
}

// TopHolders returns up to n largest holder balances.
func (s *TokenSnapshot) TopHolders(n int) []HolderBalance {
	if n < 0 || len(s.Holders) <= n {
		return s.Holders
	}
	return s.Holders[:n]
}
