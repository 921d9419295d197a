package memory

import (
	"context"
	"sort"
	"sync"

	"challenge-monitor/internal/domain"
	"challenge-monitor/internal/storage"
)

// ViolationStore is an in-memory implementation of storage.ViolationStore.
type ViolationStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Violation // keyed by violation ID
}

// NewViolationStore creates a new in-memory violation store.
func NewViolationStore() *ViolationStore {
	return &ViolationStore{
		data: make(map[string]*domain.Violation),
	}
}

// Insert adds a new violation. Returns ErrDuplicateKey if the ID exists.
func (s *ViolationStore) Insert(_ context.Context, v *domain.Violation) error {
	if v == nil || v.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[v.ID]; exists {
		return storage.ErrDuplicateKey
	}

	cp := *v
	s.data[v.ID] = &cp
	return nil
}

// GetByChallengeID retrieves all violations for a challenge, ordered by
// recorded time ASC.
func (s *ViolationStore) GetByChallengeID(_ context.Context, challengeID string) ([]*domain.Violation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Violation
	for _, v := range s.data {
		if v.ChallengeID == challengeID {
			cp := *v
			result = append(result, &cp)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].RecordedAt != result[j].RecordedAt {
			return result[i].RecordedAt < result[j].RecordedAt
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}

// CountByChallengeID returns the number of violations recorded for a challenge.
func (s *ViolationStore) CountByChallengeID(_ context.Context, challengeID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, v := range s.data {
		if v.ChallengeID == challengeID {
			count++
		}
	}
	return count, nil
}

var _ storage.ViolationStore = (*ViolationStore)(nil)
