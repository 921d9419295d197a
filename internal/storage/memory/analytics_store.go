package memory

import (
	"context"
	"sync"

	"challenge-monitor/internal/domain"
	"challenge-monitor/internal/storage"
)

// AnalyticsStore is an in-memory implementation of storage.AnalyticsStore.
type AnalyticsStore struct {
	mu   sync.RWMutex
	data map[string]*domain.AnalyticsEntry // keyed by challenge ID
}

// NewAnalyticsStore creates a new in-memory analytics store.
func NewAnalyticsStore() *AnalyticsStore {
	return &AnalyticsStore{
		data: make(map[string]*domain.AnalyticsEntry),
	}
}

// Upsert writes the analytics entry for a challenge, fully replacing any
// prior row. Last write wins.
func (s *AnalyticsStore) Upsert(_ context.Context, e *domain.AnalyticsEntry) error {
	if e == nil || e.ChallengeID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *e
	s.data[e.ChallengeID] = &cp
	return nil
}

// GetByChallengeID retrieves the analytics entry of a challenge.
func (s *AnalyticsStore) GetByChallengeID(_ context.Context, challengeID string) (*domain.AnalyticsEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.data[challengeID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	cp := *e
	return &cp, nil
}

var _ storage.AnalyticsStore = (*AnalyticsStore)(nil)
