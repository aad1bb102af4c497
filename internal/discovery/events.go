package discovery

// PairEvent is one newly listed trading pair announced by the feed.
type PairEvent struct {
	PairAddress string // pool pair address
	Address     string // base token mint address
	Symbol      string // base token symbol
}
