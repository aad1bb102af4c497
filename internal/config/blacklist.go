package config

// Blacklist holds token and developer addresses excluded from evaluation.
// Mutations are additive; callers serialize them (the orchestrator owns
// the write lock).
type Blacklist struct {
	Coins []string `mapstructure:"coins" yaml:"coins"`
	Devs  []string `mapstructure:"devs" yaml:"devs"`
}

// HasCoin reports whether the token address is blacklisted.
func (b *Blacklist) HasCoin(address string) bool {
	return contains(b.Coins, address)
}

// HasDev reports whether the developer address is blacklisted.
// An empty address never matches.
func (b *Blacklist) HasDev(address string) bool {
	if address == "" {
		return false
	}
	return contains(b.Devs, address)
}

// AddCoin appends the token address if absent. Returns true when the
// set changed.
func (b *Blacklist) AddCoin(address string) bool {
	if address == "" || contains(b.Coins, address) {
		return false
	}
	b.Coins = append(b.Coins, address)
	return true
}

// AddDev appends the developer address if absent. Returns true when the
// set changed.
func (b *Blacklist) AddDev(address string) bool {
	if address == "" || contains(b.Devs, address) {
		return false
	}
	b.Devs = append(b.Devs, address)
	return true
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
