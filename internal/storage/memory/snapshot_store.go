package memory

import (
	"context"
	"sort"
	"sync"

	"challenge-monitor/internal/domain"
	"challenge-monitor/internal/storage"
)

// SnapshotStore is an in-memory implementation of storage.SnapshotStore.
type SnapshotStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Snapshot // keyed by snapshot ID
}

// NewSnapshotStore creates a new in-memory snapshot store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{
		data: make(map[string]*domain.Snapshot),
	}
}

// InsertLatest adds a new snapshot flagged as latest, clearing the latest
// flag on all prior snapshots of the same challenge.
func (s *SnapshotStore) InsertLatest(_ context.Context, snap *domain.Snapshot) error {
	if snap == nil || snap.ID == "" || snap.ChallengeID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[snap.ID]; exists {
		return storage.ErrDuplicateKey
	}

	for _, existing := range s.data {
		if existing.ChallengeID == snap.ChallengeID {
			existing.IsLatest = false
		}
	}

	cp := *snap
	cp.IsLatest = true
	s.data[snap.ID] = &cp
	return nil
}

// GetLatest retrieves the snapshot currently flagged latest for a challenge.
func (s *SnapshotStore) GetLatest(_ context.Context, challengeID string) (*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, snap := range s.data {
		if snap.ChallengeID == challengeID && snap.IsLatest {
			cp := *snap
			return &cp, nil
		}
	}
	return nil, storage.ErrNotFound
}

// GetByChallengeID retrieves all snapshots for a challenge, ordered by
// recorded time ASC.
func (s *SnapshotStore) GetByChallengeID(_ context.Context, challengeID string) ([]*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Snapshot
	for _, snap := range s.data {
		if snap.ChallengeID == challengeID {
			cp := *snap
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

var _ storage.SnapshotStore = (*SnapshotStore)(nil)
