package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"dexsentry/internal/domain"
	"dexsentry/internal/storage"
)

// EvaluationStore implements storage.EvaluationStore using PostgreSQL.
type EvaluationStore struct {
	pool *Pool
}

// NewEvaluationStore creates a new EvaluationStore.
func NewEvaluationStore(pool *Pool) *EvaluationStore {
	return &EvaluationStore{pool: pool}
}

// Compile-time interface check.
var _ storage.EvaluationStore = (*EvaluationStore)(nil)

// Append adds a new evaluation. Returns ErrDuplicateKey if evaluation_id exists.
func (s *EvaluationStore) Append(ctx context.Context, rec *domain.EvaluationRecord) error {
	if rec == nil || rec.EvaluationID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO evaluations (
			evaluation_id, address, symbol, developer,
			price, volume_24h, liquidity_usd,
			event, accepted, reason,
			fake_volume, contract_safe, rugcheck_status, bundled_supply,
			evaluated_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7,
			$8, $9, $10,
			$11, $12, $13, $14,
			$15
		)
	`

	_, err := s.pool.Exec(ctx, query,
		rec.EvaluationID, rec.Address, rec.Symbol, rec.Developer,
		rec.Price, rec.Volume24h, rec.LiquidityUSD,
		rec.Event, rec.Accepted, rec.Reason,
		rec.FakeVolume, rec.ContractSafe, rec.RugcheckStatus, rec.BundledSupply,
		rec.EvaluatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("append evaluation: %w", err)
	}
	return nil
}

// GetByID retrieves an evaluation by its ID. Returns ErrNotFound if not exists.
func (s *EvaluationStore) GetByID(ctx context.Context, evaluationID string) (*domain.EvaluationRecord, error) {
	query := `
		SELECT
			evaluation_id, address, symbol, developer,
			price, volume_24h, liquidity_usd,
			event, accepted, reason,
			fake_volume, contract_safe, rugcheck_status, bundled_supply,
			evaluated_at
		FROM evaluations
		WHERE evaluation_id = $1
	`

	row := s.pool.QueryRow(ctx, query, evaluationID)
	rec, err := scanEvaluation(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get evaluation by id: %w", err)
	}
	return rec, nil
}

// GetByAddress retrieves all evaluations for a token, ordered by evaluated_at ASC.
func (s *EvaluationStore) GetByAddress(ctx context.Context, address string) ([]*domain.EvaluationRecord, error) {
	query := `
		SELECT
			evaluation_id, address, symbol, developer,
			price, volume_24h, liquidity_usd,
			event, accepted, reason,
			fake_volume, contract_safe, rugcheck_status, bundled_supply,
			evaluated_at
		FROM evaluations
		WHERE address = $1
		ORDER BY evaluated_at ASC, evaluation_id ASC
	`

	rows, err := s.pool.Query(ctx, query, address)
	if err != nil {
		return nil, fmt.Errorf("get evaluations by address: %w", err)
	}
	defer rows.Close()

	return scanEvaluations(rows)
}

// All retrieves every evaluation, ordered by evaluated_at ASC, evaluation_id ASC.
func (s *EvaluationStore) All(ctx context.Context) ([]*domain.EvaluationRecord, error) {
	query := `
		SELECT
			evaluation_id, address, symbol, developer,
			price, volume_24h, liquidity_usd,
			event, accepted, reason,
			fake_volume, contract_safe, rugcheck_status, bundled_supply,
			evaluated_at
		FROM evaluations
		ORDER BY evaluated_at ASC, evaluation_id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all evaluations: %w", err)
	}
	defer rows.Close()

	return scanEvaluations(rows)
}

// scanEvaluation scans a single row into an EvaluationRecord.
func scanEvaluation(row pgx.Row) (*domain.EvaluationRecord, error) {
	var rec domain.EvaluationRecord
	var event, reason string

	err := row.Scan(
		&rec.EvaluationID, &rec.Address, &rec.Symbol, &rec.Developer,
		&rec.Price, &rec.Volume24h, &rec.LiquidityUSD,
		&event, &rec.Accepted, &reason,
		&rec.FakeVolume, &rec.ContractSafe, &rec.RugcheckStatus, &rec.BundledSupply,
		&rec.EvaluatedAt,
	)
	if err != nil {
		return nil, err
	}

	rec.Event = domain.EventCategory(event)
	rec.Reason = domain.RejectReason(reason)
	return &rec, nil
}

// scanEvaluations scans multiple rows into a slice of EvaluationRecord.
func scanEvaluations(rows pgx.Rows) ([]*domain.EvaluationRecord, error) {
	var recs []*domain.EvaluationRecord

	for rows.Next() {
		var rec domain.EvaluationRecord
		var event, reason string

		err := rows.Scan(
			&rec.EvaluationID, &rec.Address, &rec.Symbol, &rec.Developer,
			&rec.Price, &rec.Volume24h, &rec.LiquidityUSD,
			&event, &rec.Accepted, &reason,
			&rec.FakeVolume, &rec.ContractSafe, &rec.RugcheckStatus, &rec.BundledSupply,
			&rec.EvaluatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan evaluation row: %w", err)
		}

		rec.Event = domain.EventCategory(event)
		rec.Reason = domain.RejectReason(reason)
		recs = append(recs, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate evaluation rows: %w", err)
	}

	return recs, nil
}
