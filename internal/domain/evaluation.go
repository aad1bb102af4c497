package domain

// EventCategory classifies the market event observed in a snapshot.
type EventCategory string

const (
	EventPump       EventCategory = "pump"
	EventRug        EventCategory = "rug"
	EventCEXListing EventCategory = "cex_listing"
	EventNormal     EventCategory = "normal"
)

// String returns the string representation of EventCategory.
func (e EventCategory) String() string {
	return string(e)
}

// IsValid checks if the category is a valid value.
func (e EventCategory) IsValid() bool {
	switch e {
	case EventPump, EventRug, EventCEXListing, EventNormal:
		return true
	}
	return false
}

// RejectReason identifies the first check a token failed.
// Empty means the token was accepted.
type RejectReason string

const (
	ReasonBlacklisted          RejectReason = "blacklisted"
	ReasonFiltersFailed        RejectReason = "filters_failed"
	ReasonFakeVolume           RejectReason = "fake_volume"
	ReasonValidatorUnavailable RejectReason = "validator_unavailable"
	ReasonUnsafeContract       RejectReason = "unsafe_contract"
	ReasonBundledSupply        RejectReason = "bundled_supply"
)

// String returns the string representation of RejectReason.
func (r RejectReason) String() string {
	return string(r)
}

// EvaluationRecord represents one ledger entry for an evaluated token.
// Corresponds to evaluations table in PostgreSQL.
type EvaluationRecord struct {
	EvaluationID   string        // PRIMARY KEY, deterministic hash
	Address        string        // token address
	Symbol         string        // token symbol
	Developer      string        // deployer wallet, empty when unknown
	Price          float64       // price at evaluation time
	Volume24h      float64       // 24h volume at evaluation time
	LiquidityUSD   float64       // pooled liquidity at evaluation time
	Event          EventCategory // classified market event
	Accepted       bool          // passed every filter and validator
	Reason         RejectReason  // first failed check, empty when accepted
	FakeVolume     bool          // wash-trading verdict
	ContractSafe   bool          // contract safety verdict
	RugcheckStatus string        // raw contract safety status
	BundledSupply  bool          // top-holder concentration verdict
	EvaluatedAt    int64         // Unix timestamp in milliseconds
}
