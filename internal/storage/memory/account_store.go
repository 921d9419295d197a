package memory

import (
	"context"
	"sort"
	"sync"

	"challenge-monitor/internal/domain"
	"challenge-monitor/internal/storage"
)

// AccountStore is an in-memory implementation of storage.AccountStore.
type AccountStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Account // keyed by account ID
}

// NewAccountStore creates a new in-memory account store.
func NewAccountStore() *AccountStore {
	return &AccountStore{
		data: make(map[string]*domain.Account),
	}
}

// Insert adds a new account. Returns ErrDuplicateKey if the ID exists.
func (s *AccountStore) Insert(_ context.Context, a *domain.Account) error {
	if a == nil || a.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[a.ID]; exists {
		return storage.ErrDuplicateKey
	}

	cp := *a
	s.data[a.ID] = &cp
	return nil
}

// GetByID retrieves an account by its ID. Returns ErrNotFound if not exists.
func (s *AccountStore) GetByID(_ context.Context, id string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, exists := s.data[id]
	if !exists {
		return nil, storage.ErrNotFound
	}

	cp := *a
	return &cp, nil
}

// GetActiveByChallengeID retrieves the single active account of a challenge.
func (s *AccountStore) GetActiveByChallengeID(_ context.Context, challengeID string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.data {
		if a.ChallengeID == challengeID && a.Status == domain.AccountStatusActive {
			cp := *a
			return &cp, nil
		}
	}
	return nil, storage.ErrNotFound
}

// ListActive retrieves up to limit active accounts, ordered by creation time ASC.
func (s *AccountStore) ListActive(_ context.Context, limit int) ([]*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Account
	for _, a := range s.data {
		if a.Status == domain.AccountStatusActive {
			cp := *a
			result = append(result, &cp)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt != result[j].CreatedAt {
			return result[i].CreatedAt < result[j].CreatedAt
		}
		return result[i].ID < result[j].ID
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// UpdateBalances refreshes the cached balance/equity of an account.
func (s *AccountStore) UpdateBalances(_ context.Context, id string, balance, equity float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, exists := s.data[id]
	if !exists {
		return storage.ErrNotFound
	}

	a.Balance = balance
	a.Equity = equity
	return nil
}

var _ storage.AccountStore = (*AccountStore)(nil)
