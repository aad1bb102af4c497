package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"dexsentry/internal/domain"
	"dexsentry/internal/storage"
)

// SnapshotArchive is an in-memory implementation of storage.SnapshotArchive.
type SnapshotArchive struct {
	mu   sync.RWMutex
	data map[string]*domain.SnapshotPoint // keyed by (address, timestamp_ms)
}

// NewSnapshotArchive creates a new in-memory snapshot archive.
func NewSnapshotArchive() *SnapshotArchive {
	return &SnapshotArchive{
		data: make(map[string]*domain.SnapshotPoint),
	}
}

// Compile-time interface check.
var _ storage.SnapshotArchive = (*SnapshotArchive)(nil)

// snapshotKey generates a unique key for a snapshot point.
func snapshotKey(address string, timestampMs int64) string {
	return fmt.Sprintf("%s|%d", address, timestampMs)
}

// InsertBulk adds multiple points. Fails entire batch on duplicate (address, timestamp_ms).
func (s *SnapshotArchive) InsertBulk(_ context.Context, points []*domain.SnapshotPoint) error {
	if len(points) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Track keys in this batch to detect intra-batch duplicates
	batchKeys := make(map[string]struct{}, len(points))

	for _, p := range points {
		if p == nil || p.Address == "" {
			return storage.ErrInvalidInput
		}
		key := snapshotKey(p.Address, p.TimestampMs)

		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, p := range points {
		copy := *p
		s.data[snapshotKey(p.Address, p.TimestampMs)] = &copy
	}

	return nil
}

// GetByAddress retrieves all points for a token, ordered by timestamp ASC.
func (s *SnapshotArchive) GetByAddress(_ context.Context, address string) ([]*domain.SnapshotPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.SnapshotPoint
	for _, p := range s.data {
		if p.Address == address {
			copy := *p
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].TimestampMs < result[j].TimestampMs
	})

	return result, nil
}

// GetByTimeRange retrieves points for a token within [start, end] (inclusive).
func (s *SnapshotArchive) GetByTimeRange(_ context.Context, address string, start, end int64) ([]*domain.SnapshotPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.SnapshotPoint
	for _, p := range s.data {
		if p.Address == address && p.TimestampMs >= start && p.TimestampMs <= end {
			copy := *p
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].TimestampMs < result[j].TimestampMs
	})

	return result, nil
}
