package memory

import (
	"context"
	"sort"
	"sync"

	"challenge-monitor/internal/domain"
	"challenge-monitor/internal/storage"
)

// MonitorLogStore is an in-memory implementation of storage.MonitorLogStore.
type MonitorLogStore struct {
	mu   sync.RWMutex
	data []*domain.MonitorLogEntry
}

// NewMonitorLogStore creates a new in-memory monitoring log store.
func NewMonitorLogStore() *MonitorLogStore {
	return &MonitorLogStore{}
}

// Insert adds a new log entry.
func (s *MonitorLogStore) Insert(_ context.Context, e *domain.MonitorLogEntry) error {
	if e == nil || e.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *e
	s.data = append(s.data, &cp)
	return nil
}

// GetByAccountID retrieves all log entries for an account, ordered by
// recorded time ASC.
func (s *MonitorLogStore) GetByAccountID(_ context.Context, accountID string) ([]*domain.MonitorLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.MonitorLogEntry
	for _, e := range s.data {
		if e.AccountID == accountID {
			cp := *e
			result = append(result, &cp)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].RecordedAt < result[j].RecordedAt
	})

	return result, nil
}

var _ storage.MonitorLogStore = (*MonitorLogStore)(nil)
