package decision

import (
	"testing"

	"dexsentry/internal/config"
	"dexsentry/internal/domain"
)

func baseFilters() config.Filters {
	return config.Filters{
		MinLiquidityUSD:         1000,
		MinVolume24h:            500,
		MaxPriceChange24h:       50,
		MaxVolumeLiquidityRatio: 5,
	}
}

func baseSnapshot() *domain.TokenSnapshot {
	return &domain.TokenSnapshot{
		Address:        "TokenAddr111",
		Symbol:         "TKN",
		Developer:      "DevAddr111",
		Price:          0.5,
		Volume24h:      20000, // >= 500
		LiquidityUSD:   50000, // >= 1000, ratio = 0.4 <= 5
		PriceChange24h: 5,     // |5| <= 50
	}
}

func TestEvaluate_Accept(t *testing.T) {
	engine := NewFilterEngine()

	result := engine.Evaluate(baseSnapshot(), baseFilters(), &config.Blacklist{})

	if !result.Accepted {
		t.Fatalf("expected accept, got reject with reason %q", result.Reason)
	}
	if result.Reason != "" {
		t.Errorf("accepted result should carry no reason, got %q", result.Reason)
	}
	if len(result.Checks) != 4 {
		t.Fatalf("expected 4 checks, got %d", len(result.Checks))
	}
	for i, c := range result.Checks {
		if !c.Pass {
			t.Errorf("check %d (%s) should pass, actual %s", i+1, c.Name, c.Actual)
		}
	}
}

func TestEvaluate_BlacklistedCoin(t *testing.T) {
	engine := NewFilterEngine()
	blacklist := &config.Blacklist{Coins: []string{"TokenAddr111"}}

	result := engine.Evaluate(baseSnapshot(), baseFilters(), blacklist)

	if result.Accepted {
		t.Fatal("blacklisted token should be rejected")
	}
	if result.Reason != domain.ReasonBlacklisted {
		t.Errorf("expected reason %q, got %q", domain.ReasonBlacklisted, result.Reason)
	}
	// Numeric checks are skipped for blacklisted tokens
	if len(result.Checks) != 0 {
		t.Errorf("expected no checks, got %d", len(result.Checks))
	}
}

func TestEvaluate_BlacklistedDev(t *testing.T) {
	engine := NewFilterEngine()
	blacklist := &config.Blacklist{Devs: []string{"DevAddr111"}}

	result := engine.Evaluate(baseSnapshot(), baseFilters(), blacklist)

	if result.Accepted {
		t.Fatal("token with blacklisted developer should be rejected")
	}
	if result.Reason != domain.ReasonBlacklisted {
		t.Errorf("expected reason %q, got %q", domain.ReasonBlacklisted, result.Reason)
	}
}

func TestEvaluate_EmptyDevNeverMatchesBlacklist(t *testing.T) {
	engine := NewFilterEngine()
	snap := baseSnapshot()
	snap.Developer = ""
	// An empty dev entry in config must not reject every unknown developer.
	blacklist := &config.Blacklist{Devs: []string{""}}

	result := engine.Evaluate(snap, baseFilters(), blacklist)

	if !result.Accepted {
		t.Errorf("snapshot with unknown developer should not match blacklist, reason %q", result.Reason)
	}
}

func TestEvaluate_FiltersFailed(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.TokenSnapshot)
	}{
		{"low liquidity", func(s *domain.TokenSnapshot) { s.LiquidityUSD = 999 }},
		{"low volume", func(s *domain.TokenSnapshot) { s.Volume24h = 499 }},
		{"price change too high", func(s *domain.TokenSnapshot) { s.PriceChange24h = 51 }},
		{"price change too low", func(s *domain.TokenSnapshot) { s.PriceChange24h = -51 }},
		{"ratio too high", func(s *domain.TokenSnapshot) { s.Volume24h = 300000 }}, // ratio 6 > 5
	}

	engine := NewFilterEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := baseSnapshot()
			tt.mutate(snap)

			result := engine.Evaluate(snap, baseFilters(), &config.Blacklist{})

			if result.Accepted {
				t.Fatal("expected reject")
			}
			if result.Reason != domain.ReasonFiltersFailed {
				t.Errorf("expected reason %q, got %q", domain.ReasonFiltersFailed, result.Reason)
			}
			if len(result.Checks) != 4 {
				t.Errorf("rejects should still report all 4 checks, got %d", len(result.Checks))
			}
		})
	}
}

func TestEvaluate_ZeroLiquidityRatio(t *testing.T) {
	engine := NewFilterEngine()
	snap := baseSnapshot()
	snap.LiquidityUSD = 0
	snap.Volume24h = 100000

	result := engine.Evaluate(snap, baseFilters(), &config.Blacklist{})

	// The token fails the liquidity floor, but the ratio check itself
	// must treat volume/0 as ratio 0 and pass.
	if result.Accepted {
		t.Fatal("zero liquidity should fail the liquidity floor")
	}
	ratioCheck := result.Checks[3]
	if !ratioCheck.Pass {
		t.Errorf("ratio check should pass with zero liquidity, actual %s", ratioCheck.Actual)
	}
}

func TestEvaluate_NegativePriceChangeWithinBound(t *testing.T) {
	engine := NewFilterEngine()
	snap := baseSnapshot()
	snap.PriceChange24h = -40 // |-40| <= 50

	result := engine.Evaluate(snap, baseFilters(), &config.Blacklist{})

	if !result.Accepted {
		t.Errorf("price drop within bound should pass, reason %q", result.Reason)
	}
}

func TestEvaluate_TighteningIsMonotonic(t *testing.T) {
	engine := NewFilterEngine()
	snap := baseSnapshot()
	loose := baseFilters()

	tighter := []config.Filters{
		{MinLiquidityUSD: 60000, MinVolume24h: 500, MaxPriceChange24h: 50, MaxVolumeLiquidityRatio: 5},
		{MinLiquidityUSD: 1000, MinVolume24h: 30000, MaxPriceChange24h: 50, MaxVolumeLiquidityRatio: 5},
		{MinLiquidityUSD: 1000, MinVolume24h: 500, MaxPriceChange24h: 1, MaxVolumeLiquidityRatio: 5},
		{MinLiquidityUSD: 1000, MinVolume24h: 500, MaxPriceChange24h: 50, MaxVolumeLiquidityRatio: 0.1},
	}

	if !engine.Evaluate(snap, loose, &config.Blacklist{}).Accepted {
		t.Fatal("baseline must accept")
	}
	for i, f := range tighter {
		tight := engine.Evaluate(snap, f, &config.Blacklist{})
		relaxed := engine.Evaluate(snap, loose, &config.Blacklist{})
		// Tightening a threshold may flip accept to reject, never the reverse.
		if tight.Accepted && !relaxed.Accepted {
			t.Errorf("case %d: tightened filters accepted a snapshot the loose filters rejected", i)
		}
	}
}
