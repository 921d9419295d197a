package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"challenge-monitor/internal/domain"
	"challenge-monitor/internal/storage"
)

func testSnapshot(id, challengeID, accountID string, recordedAt int64) *domain.Snapshot {
	return &domain.Snapshot{
		ID:             id,
		ChallengeID:    challengeID,
		AccountID:      accountID,
		Balance:        10100,
		Equity:         10150,
		ProfitPct:      1.5,
		DailyProfitPct: 0.5,
		OpenPositions:  1,
		TotalTrades:    4,
		IsLatest:       true,
		RecordedAt:     recordedAt,
	}
}

func TestSnapshotStore_InsertLatestAndGetLatest(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	challengeID := createTestChallenge(t, ctx, pool, "snap-ch-1")
	accountID := createTestAccount(t, ctx, pool, "snap-acc-1", challengeID)

	store := NewSnapshotStore(pool)

	err := store.InsertLatest(ctx, testSnapshot("snap-1", challengeID, accountID, 1700000001000))
	require.NoError(t, err)

	snap, err := store.GetLatest(ctx, challengeID)
	require.NoError(t, err)
	assert.Equal(t, "snap-1", snap.ID)
	assert.True(t, snap.IsLatest)
	assert.InDelta(t, 10100.0, snap.Balance, 0.0001)
	assert.Equal(t, int64(1700000001000), snap.RecordedAt)
}

func TestSnapshotStore_LatestFlagMovesToNewest(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	challengeID := createTestChallenge(t, ctx, pool, "snap-ch-2")
	accountID := createTestAccount(t, ctx, pool, "snap-acc-2", challengeID)

	store := NewSnapshotStore(pool)

	require.NoError(t, store.InsertLatest(ctx, testSnapshot("snap-a", challengeID, accountID, 1700000001000)))
	require.NoError(t, store.InsertLatest(ctx, testSnapshot("snap-b", challengeID, accountID, 1700000002000)))
	require.NoError(t, store.InsertLatest(ctx, testSnapshot("snap-c", challengeID, accountID, 1700000003000)))

	latest, err := store.GetLatest(ctx, challengeID)
	require.NoError(t, err)
	assert.Equal(t, "snap-c", latest.ID)

	// Full history survives, exactly one row flagged latest.
	snaps, err := store.GetByChallengeID(ctx, challengeID)
	require.NoError(t, err)
	require.Len(t, snaps, 3)
	assert.Equal(t, "snap-a", snaps[0].ID)

	latestCount := 0
	for _, s := range snaps {
		if s.IsLatest {
			latestCount++
		}
	}
	assert.Equal(t, 1, latestCount)
}

func TestSnapshotStore_LatestIsolatedPerChallenge(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	ch1 := createTestChallenge(t, ctx, pool, "snap-ch-3")
	acc1 := createTestAccount(t, ctx, pool, "snap-acc-3", ch1)
	ch2 := createTestChallenge(t, ctx, pool, "snap-ch-4")
	acc2 := createTestAccount(t, ctx, pool, "snap-acc-4", ch2)

	store := NewSnapshotStore(pool)

	require.NoError(t, store.InsertLatest(ctx, testSnapshot("snap-x", ch1, acc1, 1700000001000)))
	require.NoError(t, store.InsertLatest(ctx, testSnapshot("snap-y", ch2, acc2, 1700000002000)))

	latest1, err := store.GetLatest(ctx, ch1)
	require.NoError(t, err)
	assert.Equal(t, "snap-x", latest1.ID)

	latest2, err := store.GetLatest(ctx, ch2)
	require.NoError(t, err)
	assert.Equal(t, "snap-y", latest2.ID)
}

func TestSnapshotStore_GetLatest_NotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewSnapshotStore(pool)
	_, err := store.GetLatest(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
