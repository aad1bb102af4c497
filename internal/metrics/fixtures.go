package metrics

import (
	"context"
	"fmt"

	"dexsentry/internal/domain"
	"dexsentry/internal/idhash"
	"dexsentry/internal/storage"
)

// LoadFixtures populates the ledger with demonstration data: a cluster
// of ordinary evaluations, two manipulated outliers and one wash-traded
// token with no real volume. Used by the report command when no
// database is available.
func LoadFixtures(ctx context.Context, store storage.EvaluationStore) error {
	base := int64(1704067200000) // 2024-01-01 00:00:00 UTC

	var recs []*domain.EvaluationRecord
	for i := 0; i < 20; i++ {
		evaluatedAt := base + int64(i)*60_000
		address := fmt.Sprintf("FixtureToken%02dxxxxxxxxxxxxxxxxxxxxxxxxxxxx", i)
		recs = append(recs, &domain.EvaluationRecord{
			EvaluationID:   idhash.ComputeEvaluationID(address, evaluatedAt),
			Address:        address,
			Symbol:         fmt.Sprintf("FIX%02d", i),
			Developer:      "FixtureDevxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx",
			Price:          0.5 + float64(i)*0.001,
			Volume24h:      20000 + float64(i*15),
			LiquidityUSD:   50000 + float64(i*40),
			Event:          domain.EventNormal,
			Accepted:       true,
			ContractSafe:   true,
			RugcheckStatus: "good",
			EvaluatedAt:    evaluatedAt,
		})
	}

	pumpAt := base + 21*60_000
	recs = append(recs, &domain.EvaluationRecord{
		EvaluationID: idhash.ComputeEvaluationID("FixturePumpxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx", pumpAt),
		Address:      "FixturePumpxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx",
		Symbol:       "PUMP",
		Developer:    "FixtureDevxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx",
		Price:        420,
		Volume24h:    90,
		LiquidityUSD: 45,
		Event:        domain.EventPump,
		Accepted:     false,
		Reason:       domain.ReasonFakeVolume,
		FakeVolume:   true,
		EvaluatedAt:  pumpAt,
	})

	rugAt := base + 22*60_000
	recs = append(recs, &domain.EvaluationRecord{
		EvaluationID:   idhash.ComputeEvaluationID("FixtureRugxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx", rugAt),
		Address:        "FixtureRugxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx",
		Symbol:         "RUG",
		Developer:      "FixtureRugDevxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx",
		Price:          310,
		Volume24h:      120,
		LiquidityUSD:   70,
		Event:          domain.EventRug,
		Accepted:       false,
		Reason:         domain.ReasonBundledSupply,
		ContractSafe:   true,
		RugcheckStatus: "good",
		BundledSupply:  true,
		EvaluatedAt:    rugAt,
	})

	washAt := base + 23*60_000
	recs = append(recs, &domain.EvaluationRecord{
		EvaluationID: idhash.ComputeEvaluationID("FixtureWashxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx", washAt),
		Address:      "FixtureWashxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx",
		Symbol:       "WASH",
		Developer:    "FixtureDevxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx",
		Price:        0.01,
		Volume24h:    0,
		LiquidityUSD: 900,
		Event:        domain.EventNormal,
		Accepted:     false,
		Reason:       domain.ReasonFakeVolume,
		FakeVolume:   true,
		EvaluatedAt:  washAt,
	})

	for _, rec := range recs {
		if err := store.Append(ctx, rec); err != nil {
			return fmt.Errorf("load fixture %s: %w", rec.Symbol, err)
		}
	}
	return nil
}
