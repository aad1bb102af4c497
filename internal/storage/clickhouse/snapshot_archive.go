package clickhouse

import (
	"context"
	"fmt"

	"dexsentry/internal/domain"
	"dexsentry/internal/storage"
)

// SnapshotArchive implements storage.SnapshotArchive using ClickHouse.
type SnapshotArchive struct {
	conn *Conn
}

// NewSnapshotArchive creates a new SnapshotArchive.
func NewSnapshotArchive(conn *Conn) *SnapshotArchive {
	return &SnapshotArchive{conn: conn}
}

// Compile-time interface check.
var _ storage.SnapshotArchive = (*SnapshotArchive)(nil)

// InsertBulk adds multiple points. Fails entire batch on duplicate (address, timestamp_ms).
func (s *SnapshotArchive) InsertBulk(ctx context.Context, points []*domain.SnapshotPoint) error {
	if len(points) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	type key struct {
		address     string
		timestampMs int64
	}
	seen := make(map[key]struct{})
	for _, p := range points {
		if p == nil || p.Address == "" {
			return storage.ErrInvalidInput
		}
		k := key{p.Address, p.TimestampMs}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	// Check for duplicates against existing DB rows.
	// MergeTree does not enforce uniqueness at insert time.
	for _, p := range points {
		exists, err := s.exists(ctx, p.Address, p.TimestampMs)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO token_snapshots (
			address, symbol, timestamp_ms,
			price, volume_24h, liquidity_usd,
			price_change_24h, volume_change_24h, liquidity_change_24h
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, p := range points {
		err = batch.Append(
			p.Address, p.Symbol, uint64(p.TimestampMs),
			p.Price, p.Volume24h, p.LiquidityUSD,
			p.PriceChange24h, p.VolumeChange24h, p.LiquidityChange24h,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByAddress retrieves all points for a token, ordered by timestamp ASC.
func (s *SnapshotArchive) GetByAddress(ctx context.Context, address string) ([]*domain.SnapshotPoint, error) {
	query := `
		SELECT address, symbol, timestamp_ms,
			price, volume_24h, liquidity_usd,
			price_change_24h, volume_change_24h, liquidity_change_24h
		FROM token_snapshots
		WHERE address = ?
		ORDER BY timestamp_ms ASC
	`

	rows, err := s.conn.Query(ctx, query, address)
	if err != nil {
		return nil, fmt.Errorf("query by address: %w", err)
	}
	defer rows.Close()

	return scanSnapshotPoints(rows)
}

// GetByTimeRange retrieves points for a token within [start, end] (inclusive).
func (s *SnapshotArchive) GetByTimeRange(ctx context.Context, address string, start, end int64) ([]*domain.SnapshotPoint, error) {
	query := `
		SELECT address, symbol, timestamp_ms,
			price, volume_24h, liquidity_usd,
			price_change_24h, volume_change_24h, liquidity_change_24h
		FROM token_snapshots
		WHERE address = ? AND timestamp_ms >= ? AND timestamp_ms <= ?
		ORDER BY timestamp_ms ASC
	`

	rows, err := s.conn.Query(ctx, query, address, uint64(start), uint64(end))
	if err != nil {
		return nil, fmt.Errorf("query by time range: %w", err)
	}
	defer rows.Close()

	return scanSnapshotPoints(rows)
}

// exists checks if a point with the given key exists.
func (s *SnapshotArchive) exists(ctx context.Context, address string, timestampMs int64) (bool, error) {
	query := `
		SELECT count(*) FROM token_snapshots
		WHERE address = ? AND timestamp_ms = ?
	`

	var count uint64
	err := s.conn.QueryRow(ctx, query, address, uint64(timestampMs)).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Rows interface for scanning
type chRows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// scanSnapshotPoints scans multiple rows.
func scanSnapshotPoints(rows chRows) ([]*domain.SnapshotPoint, error) {
	var points []*domain.SnapshotPoint

	for rows.Next() {
		var p domain.SnapshotPoint
		var timestampMs uint64

		err := rows.Scan(
			&p.Address, &p.Symbol, &timestampMs,
			&p.Price, &p.Volume24h, &p.LiquidityUSD,
			&p.PriceChange24h, &p.VolumeChange24h, &p.LiquidityChange24h,
		)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}

		p.TimestampMs = int64(timestampMs)
		points = append(points, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot rows: %w", err)
	}

	return points, nil
}
