package idhash

import "testing"

func TestComputeOrderID(t *testing.T) {
	evalID := ComputeEvaluationID("TokenAddr", 1700000000000)

	got := ComputeOrderID(evalID, "buy")
	if len(got) != 64 {
		t.Errorf("ComputeOrderID() length = %d, want 64", len(got))
	}

	// Same inputs produce the same order id
	if got2 := ComputeOrderID(evalID, "buy"); got2 != got {
		t.Errorf("ComputeOrderID() not deterministic: %s != %s", got2, got)
	}

	// Different action produces a different order id
	if sell := ComputeOrderID(evalID, "sell"); sell == got {
		t.Error("Different action should produce different hash")
	}

	// Different evaluation produces a different order id
	other := ComputeOrderID(ComputeEvaluationID("OtherAddr", 1700000000000), "buy")
	if other == got {
		t.Error("Different evaluation should produce different hash")
	}
}
