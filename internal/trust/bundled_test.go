package trust

import (
	"testing"

	"dexsentry/internal/domain"
)

func holdersWithTotal(total float64, balances ...float64) *domain.TokenSnapshot {
	snap := &domain.TokenSnapshot{
		Address:     "TokenAddr111",
		Developer:   "DevAddr111",
		TotalSupply: total,
	}
	for i, b := range balances {
		snap.Holders = append(snap.Holders, domain.HolderBalance{
			Address: string(rune('A' + i)),
			Balance: b,
		})
	}
	return snap
}

func TestBundledSupply_EmptyHoldersPass(t *testing.T) {
	verdict := BundledSupply(holdersWithTotal(100))

	if !verdict.Passed {
		t.Fatalf("empty holder list should pass, got reason %q", verdict.Reason)
	}
	if verdict.BlacklistCoin != "" || verdict.BlacklistDev != "" {
		t.Error("passing verdict must not carry blacklist instructions")
	}
}

func TestBundledSupply_ConcentratedReject(t *testing.T) {
	// Top 10 hold 95 of 100 total
	snap := holdersWithTotal(100, 40, 20, 10, 10, 5, 5, 2, 1, 1, 1)

	verdict := BundledSupply(snap)

	if verdict.Passed {
		t.Fatal("95% concentration should be rejected")
	}
	if verdict.Reason != domain.ReasonBundledSupply {
		t.Errorf("expected reason %q, got %q", domain.ReasonBundledSupply, verdict.Reason)
	}
	if verdict.BlacklistCoin != "TokenAddr111" {
		t.Errorf("expected token blacklist instruction, got %q", verdict.BlacklistCoin)
	}
	if verdict.BlacklistDev != "DevAddr111" {
		t.Errorf("expected dev blacklist instruction, got %q", verdict.BlacklistDev)
	}
}

func TestBundledSupply_DistributedPass(t *testing.T) {
	// Top 10 hold 89 of 100 total
	snap := holdersWithTotal(100, 20, 15, 10, 10, 9, 8, 7, 5, 3, 2)

	verdict := BundledSupply(snap)

	if !verdict.Passed {
		t.Fatalf("89%% concentration should pass, got reason %q", verdict.Reason)
	}
}

func TestBundledSupply_ThresholdIsStrict(t *testing.T) {
	// Exactly 90% is not "more than 90%"
	snap := holdersWithTotal(100, 90)

	if verdict := BundledSupply(snap); !verdict.Passed {
		t.Errorf("exactly 90%% should pass, got reason %q", verdict.Reason)
	}

	snap = holdersWithTotal(100, 90.1)
	if verdict := BundledSupply(snap); verdict.Passed {
		t.Error("90.1% should be rejected")
	}
}

func TestBundledSupply_OnlyTopTenCount(t *testing.T) {
	// 12 holders of 8 each: top 10 hold 80 of 100, the last two are
	// outside the window.
	snap := holdersWithTotal(100, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8)

	if verdict := BundledSupply(snap); !verdict.Passed {
		t.Errorf("top-10 concentration of 80%% should pass, got reason %q", verdict.Reason)
	}
}

func TestBundledSupply_NoDevStillBlacklistsCoin(t *testing.T) {
	snap := holdersWithTotal(100, 95)
	snap.Developer = ""

	verdict := BundledSupply(snap)

	if verdict.Passed {
		t.Fatal("expected rejection")
	}
	if verdict.BlacklistCoin != "TokenAddr111" {
		t.Errorf("expected coin instruction, got %q", verdict.BlacklistCoin)
	}
	if verdict.BlacklistDev != "" {
		t.Errorf("unknown developer must not be blacklisted, got %q", verdict.BlacklistDev)
	}
}
