package memory

import (
	"context"
	"sort"
	"sync"

	"challenge-monitor/internal/domain"
	"challenge-monitor/internal/storage"
)

// EquityPointStore is an in-memory implementation of storage.EquityPointStore.
type EquityPointStore struct {
	mu   sync.RWMutex
	data []*domain.EquityPoint
}

// NewEquityPointStore creates a new in-memory equity point store.
func NewEquityPointStore() *EquityPointStore {
	return &EquityPointStore{}
}

// Insert adds one equity point.
func (s *EquityPointStore) Insert(_ context.Context, p *domain.EquityPoint) error {
	if p == nil || p.ChallengeID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *p
	s.data = append(s.data, &cp)
	return nil
}

// GetByChallengeID retrieves all points for a challenge, ordered by
// timestamp ASC.
func (s *EquityPointStore) GetByChallengeID(_ context.Context, challengeID string) ([]*domain.EquityPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.EquityPoint
	for _, p := range s.data {
		if p.ChallengeID == challengeID {
			cp := *p
			result = append(result, &cp)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].TimestampMs < result[j].TimestampMs
	})

	return result, nil
}

var _ storage.EquityPointStore = (*EquityPointStore)(nil)
