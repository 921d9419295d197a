package memory

import (
	"context"
	"sort"
	"sync"

	"challenge-monitor/internal/domain"
	"challenge-monitor/internal/storage"
)

// TradeStore is an in-memory implementation of storage.TradeStore.
type TradeStore struct {
	mu   sync.RWMutex
	data map[int64]*domain.Trade // keyed by ticket
}

// NewTradeStore creates a new in-memory trade store.
func NewTradeStore() *TradeStore {
	return &TradeStore{
		data: make(map[int64]*domain.Trade),
	}
}

// Insert adds a new trade. Returns ErrDuplicateKey if the ticket exists.
func (s *TradeStore) Insert(_ context.Context, t *domain.Trade) error {
	if t == nil || t.Ticket == 0 {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[t.Ticket]; exists {
		return storage.ErrDuplicateKey
	}

	cp := *t
	s.data[t.Ticket] = &cp
	return nil
}

// ExistsByTicket reports whether a trade with the given ticket exists.
func (s *TradeStore) ExistsByTicket(_ context.Context, ticket int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.data[ticket]
	return exists, nil
}

// GetByChallengeID retrieves all trades for a challenge, ordered by open
// time ASC, ticket ASC.
func (s *TradeStore) GetByChallengeID(_ context.Context, challengeID string) ([]*domain.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Trade
	for _, t := range s.data {
		if t.ChallengeID == challengeID {
			cp := *t
			result = append(result, &cp)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].OpenedAt != result[j].OpenedAt {
			return result[i].OpenedAt < result[j].OpenedAt
		}
		return result[i].Ticket < result[j].Ticket
	})

	return result, nil
}

var _ storage.TradeStore = (*TradeStore)(nil)
