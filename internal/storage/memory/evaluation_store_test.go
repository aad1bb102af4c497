package memory

import (
	"context"
	"errors"
	"testing"

	"dexsentry/internal/domain"
	"dexsentry/internal/storage"
)

func testEvaluation(id, address string, evaluatedAt int64) *domain.EvaluationRecord {
	return &domain.EvaluationRecord{
		EvaluationID: id,
		Address:      address,
		Symbol:       "TEST",
		Price:        0.5,
		Volume24h:    20000,
		LiquidityUSD: 50000,
		Event:        domain.EventNormal,
		Accepted:     true,
		EvaluatedAt:  evaluatedAt,
	}
}

func TestEvaluationStore_AppendAndGet(t *testing.T) {
	store := NewEvaluationStore()
	ctx := context.Background()

	rec := testEvaluation("eval1", "token-a", 1000)
	rec.Event = domain.EventRug
	rec.Accepted = false
	rec.Reason = domain.ReasonFiltersFailed

	if err := store.Append(ctx, rec); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	got, err := store.GetByID(ctx, "eval1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}

	if got.Event != domain.EventRug {
		t.Errorf("Event mismatch: got %s, want %s", got.Event, domain.EventRug)
	}
	if got.Reason != domain.ReasonFiltersFailed {
		t.Errorf("Reason mismatch: got %s, want %s", got.Reason, domain.ReasonFiltersFailed)
	}
}

func TestEvaluationStore_DuplicateKey(t *testing.T) {
	store := NewEvaluationStore()
	ctx := context.Background()

	rec := testEvaluation("eval1", "token-a", 1000)

	if err := store.Append(ctx, rec); err != nil {
		t.Fatalf("First append failed: %v", err)
	}

	err := store.Append(ctx, rec)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestEvaluationStore_InvalidInput(t *testing.T) {
	store := NewEvaluationStore()
	ctx := context.Background()

	if err := store.Append(ctx, nil); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for nil record, got %v", err)
	}

	if err := store.Append(ctx, testEvaluation("", "token-a", 1000)); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for empty id, got %v", err)
	}
}

func TestEvaluationStore_GetByIDNotFound(t *testing.T) {
	store := NewEvaluationStore()
	ctx := context.Background()

	_, err := store.GetByID(ctx, "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestEvaluationStore_GetByAddress(t *testing.T) {
	store := NewEvaluationStore()
	ctx := context.Background()

	if err := store.Append(ctx, testEvaluation("eval-b", "token-a", 2000)); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := store.Append(ctx, testEvaluation("eval-a", "token-a", 1000)); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := store.Append(ctx, testEvaluation("eval-c", "token-b", 500)); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	recs, err := store.GetByAddress(ctx, "token-a")
	if err != nil {
		t.Fatalf("GetByAddress failed: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(recs))
	}
	if recs[0].EvaluationID != "eval-a" || recs[1].EvaluationID != "eval-b" {
		t.Errorf("Records not ordered by evaluated_at: got %s, %s", recs[0].EvaluationID, recs[1].EvaluationID)
	}
}

func TestEvaluationStore_AllOrdering(t *testing.T) {
	store := NewEvaluationStore()
	ctx := context.Background()

	// Same evaluated_at for eval-z and eval-a exercises the id tiebreak.
	if err := store.Append(ctx, testEvaluation("eval-z", "token-a", 1000)); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := store.Append(ctx, testEvaluation("eval-a", "token-b", 1000)); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := store.Append(ctx, testEvaluation("eval-m", "token-c", 500)); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	recs, err := store.All(ctx)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(recs))
	}

	want := []string{"eval-m", "eval-a", "eval-z"}
	for i, id := range want {
		if recs[i].EvaluationID != id {
			t.Errorf("Position %d: got %s, want %s", i, recs[i].EvaluationID, id)
		}
	}
}

func TestEvaluationStore_CopyOnRead(t *testing.T) {
	store := NewEvaluationStore()
	ctx := context.Background()

	if err := store.Append(ctx, testEvaluation("eval1", "token-a", 1000)); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	got, err := store.GetByID(ctx, "eval1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	got.Symbol = "MUTATED"

	again, err := store.GetByID(ctx, "eval1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if again.Symbol != "TEST" {
		t.Errorf("Stored record was mutated through returned copy: got %s", again.Symbol)
	}
}
