package anomaly

import (
	"fmt"
	"testing"

	"dexsentry/internal/domain"
)

// record builds an evaluation record whose price/volume and
// liquidity/volume ratios equal pv and lv.
func record(id string, pv, lv float64) *domain.EvaluationRecord {
	return &domain.EvaluationRecord{
		EvaluationID: id,
		Address:      "Addr" + id,
		Symbol:       "TKN",
		Volume24h:    1,
		Price:        pv,
		LiquidityUSD: lv,
	}
}

func TestAnalyze_EmptyLedger(t *testing.T) {
	analyzer := NewAnalyzer()

	flags := analyzer.Analyze(nil)

	if len(flags) != 0 {
		t.Errorf("empty ledger should produce empty report, got %d flags", len(flags))
	}
}

func TestAnalyze_ZeroVolumeSkipped(t *testing.T) {
	analyzer := NewAnalyzer()

	records := []*domain.EvaluationRecord{
		record("1", 1.0, 1.0),
		{EvaluationID: "2", Volume24h: 0, Price: 100, LiquidityUSD: 100},
		record("3", 1.1, 0.9),
	}

	flags := analyzer.Analyze(records)

	if len(flags) != 3 {
		t.Fatalf("expected 3 flags, got %d", len(flags))
	}
	if !flags[1].Skipped {
		t.Error("zero-volume record should be skipped")
	}
	if flags[1].Anomaly {
		t.Error("skipped record must not be anomalous")
	}
	if flags[1].Score != 0 {
		t.Errorf("skipped record score = %f, want 0", flags[1].Score)
	}
	if flags[0].Skipped || flags[2].Skipped {
		t.Error("modeled records must not be skipped")
	}
}

func TestAnalyze_OrderMatchesInput(t *testing.T) {
	analyzer := NewAnalyzer()

	var records []*domain.EvaluationRecord
	for i := 0; i < 20; i++ {
		records = append(records, record(fmt.Sprintf("%d", i), 1.0+float64(i)*0.01, 1.0))
	}

	flags := analyzer.Analyze(records)

	if len(flags) != len(records) {
		t.Fatalf("expected %d flags, got %d", len(records), len(flags))
	}
	for i, f := range flags {
		if f.EvaluationID != records[i].EvaluationID {
			t.Errorf("flag %d id = %s, want %s", i, f.EvaluationID, records[i].EvaluationID)
		}
	}
}

func TestAnalyze_Contamination(t *testing.T) {
	analyzer := NewAnalyzer(WithSeed(42))

	// 90 records clustered around pv=1, lv=1 and 10 extreme outliers.
	var records []*domain.EvaluationRecord
	for i := 0; i < 90; i++ {
		pv := 1.0 + float64(i%10)*0.01
		lv := 1.0 + float64(i%7)*0.01
		records = append(records, record(fmt.Sprintf("c%d", i), pv, lv))
	}
	outliers := map[string]bool{}
	for i := 0; i < 10; i++ {
		id := fmt.Sprintf("o%d", i)
		outliers[id] = true
		records = append(records, record(id, 50+float64(i), 80+float64(i)))
	}

	flags := analyzer.Analyze(records)

	flagged := 0
	outliersFlagged := 0
	for _, f := range flags {
		if f.Anomaly {
			flagged++
			if outliers[f.EvaluationID] {
				outliersFlagged++
			}
		}
	}

	// Contamination 0.10 over 100 modeled records flags exactly 10.
	if flagged != 10 {
		t.Errorf("flagged %d records, want 10", flagged)
	}
	// The extreme outliers dominate the flagged set; allow slack for
	// boundary effects of the random splits.
	if outliersFlagged < 8 {
		t.Errorf("only %d of 10 planted outliers flagged", outliersFlagged)
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	var records []*domain.EvaluationRecord
	for i := 0; i < 50; i++ {
		records = append(records, record(fmt.Sprintf("%d", i), 1.0+float64(i%5)*0.1, 2.0+float64(i%3)*0.1))
	}
	records = append(records, record("outlier", 500, 900))

	first := NewAnalyzer(WithSeed(7)).Analyze(records)
	second := NewAnalyzer(WithSeed(7)).Analyze(records)

	for i := range first {
		if first[i].Anomaly != second[i].Anomaly || first[i].Score != second[i].Score {
			t.Fatalf("run differs at %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestAnalyze_SingleRecordNotFlagged(t *testing.T) {
	analyzer := NewAnalyzer()

	flags := analyzer.Analyze([]*domain.EvaluationRecord{record("only", 1, 1)})

	if len(flags) != 1 {
		t.Fatalf("expected 1 flag, got %d", len(flags))
	}
	// round(0.10 * 1) = 0 records to flag
	if flags[0].Anomaly {
		t.Error("a single record cannot be an outlier")
	}
}
