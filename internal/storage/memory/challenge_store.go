package memory

import (
	"context"
	"sync"

	"challenge-monitor/internal/domain"
	"challenge-monitor/internal/storage"
)

// ChallengeStore is an in-memory implementation of storage.ChallengeStore.
type ChallengeStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Challenge // keyed by challenge ID
}

// NewChallengeStore creates a new in-memory challenge store.
func NewChallengeStore() *ChallengeStore {
	return &ChallengeStore{
		data: make(map[string]*domain.Challenge),
	}
}

// Insert adds a new challenge. Returns ErrDuplicateKey if the ID exists.
func (s *ChallengeStore) Insert(_ context.Context, c *domain.Challenge) error {
	if c == nil || c.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[c.ID]; exists {
		return storage.ErrDuplicateKey
	}

	cp := *c
	s.data[c.ID] = &cp
	return nil
}

// GetByID retrieves a challenge by its ID. Returns ErrNotFound if not exists.
func (s *ChallengeStore) GetByID(_ context.Context, id string) (*domain.Challenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, exists := s.data[id]
	if !exists {
		return nil, storage.ErrNotFound
	}

	cp := *c
	return &cp, nil
}

// UpdateStatus sets the lifecycle status of a challenge.
func (s *ChallengeStore) UpdateStatus(_ context.Context, id string, status domain.ChallengeStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, exists := s.data[id]
	if !exists {
		return storage.ErrNotFound
	}

	c.Status = status
	return nil
}

var _ storage.ChallengeStore = (*ChallengeStore)(nil)
