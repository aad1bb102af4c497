package memory

import (
	"context"
	"sort"
	"sync"

	"dexsentry/internal/domain"
	"dexsentry/internal/storage"
)

// EvaluationStore is an in-memory implementation of storage.EvaluationStore.
type EvaluationStore struct {
	mu   sync.RWMutex
	data map[string]*domain.EvaluationRecord // keyed by evaluation_id
}

// NewEvaluationStore creates a new in-memory evaluation store.
func NewEvaluationStore() *EvaluationStore {
	return &EvaluationStore{
		data: make(map[string]*domain.EvaluationRecord),
	}
}

// Compile-time interface check.
var _ storage.EvaluationStore = (*EvaluationStore)(nil)

// Append adds a new evaluation. Returns ErrDuplicateKey if evaluation_id exists.
func (s *EvaluationStore) Append(_ context.Context, rec *domain.EvaluationRecord) error {
	if rec == nil || rec.EvaluationID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[rec.EvaluationID]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *rec
	s.data[rec.EvaluationID] = &copy
	return nil
}

// GetByID retrieves an evaluation by its ID. Returns ErrNotFound if not exists.
func (s *EvaluationStore) GetByID(_ context.Context, evaluationID string) (*domain.EvaluationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, exists := s.data[evaluationID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	copy := *rec
	return &copy, nil
}

// GetByAddress retrieves all evaluations for a token, ordered by evaluated_at ASC.
func (s *EvaluationStore) GetByAddress(_ context.Context, address string) ([]*domain.EvaluationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.EvaluationRecord
	for _, rec := range s.data {
		if rec.Address == address {
			copy := *rec
			result = append(result, &copy)
		}
	}

	sortEvaluations(result)
	return result, nil
}

// All retrieves every evaluation, ordered by evaluated_at ASC, evaluation_id ASC.
func (s *EvaluationStore) All(_ context.Context) ([]*domain.EvaluationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.EvaluationRecord, 0, len(s.data))
	for _, rec := range s.data {
		copy := *rec
		result = append(result, &copy)
	}

	sortEvaluations(result)
	return result, nil
}

// sortEvaluations orders records by evaluated_at ASC with evaluation_id as tiebreak.
func sortEvaluations(recs []*domain.EvaluationRecord) {
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].EvaluatedAt != recs[j].EvaluatedAt {
			return recs[i].EvaluatedAt < recs[j].EvaluatedAt
		}
		return recs[i].EvaluationID < recs[j].EvaluationID
	})
}
