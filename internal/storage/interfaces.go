package storage

import (
	"context"

	"dexsentry/internal/domain"
)

// EvaluationStore provides access to the evaluations ledger.
// The ledger is append-only; records are never updated or deleted.
type EvaluationStore interface {
	// Append adds a new evaluation. Returns ErrDuplicateKey if evaluation_id exists.
	Append(ctx context.Context, rec *domain.EvaluationRecord) error

	// GetByID retrieves an evaluation by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, evaluationID string) (*domain.EvaluationRecord, error)

	// GetByAddress retrieves all evaluations for a token, ordered by evaluated_at ASC.
	GetByAddress(ctx context.Context, address string) ([]*domain.EvaluationRecord, error)

	// All retrieves every evaluation, ordered by evaluated_at ASC, evaluation_id ASC.
	All(ctx context.Context) ([]*domain.EvaluationRecord, error)
}

// SnapshotArchive provides access to token_snapshots storage.
type SnapshotArchive interface {
	// InsertBulk adds multiple points. Fails entire batch on duplicate (address, timestamp_ms).
	InsertBulk(ctx context.Context, points []*domain.SnapshotPoint) error

	// GetByAddress retrieves all points for a token, ordered by timestamp ASC.
	GetByAddress(ctx context.Context, address string) ([]*domain.SnapshotPoint, error)

	// GetByTimeRange retrieves points for a token within [start, end] (inclusive).
	GetByTimeRange(ctx context.Context, address string, start, end int64) ([]*domain.SnapshotPoint, error)
}
