package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"challenge-monitor/internal/domain"
)

func TestViolationStore_InsertAndGetByChallengeID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	challengeID := createTestChallenge(t, ctx, pool, "viol-ch-1")
	accountID := createTestAccount(t, ctx, pool, "viol-acc-1", challengeID)

	store := NewViolationStore(pool)

	err := store.Insert(ctx, &domain.Violation{
		ID:                "viol-1",
		ChallengeID:       challengeID,
		AccountID:         accountID,
		Kind:              domain.ViolationMaxDrawdown,
		Severity:          domain.SeverityCritical,
		Observed:          -7.2,
		Limit:             6,
		ThresholdPct:      120,
		Message:           "max drawdown exceeded: -7.20% against limit 6.00%",
		RecommendedAction: domain.ActionDisableTrading,
		RecordedAt:        1700000001000,
	})
	require.NoError(t, err)

	violations, err := store.GetByChallengeID(ctx, challengeID)
	require.NoError(t, err)
	require.Len(t, violations, 1)

	v := violations[0]
	assert.Equal(t, domain.ViolationMaxDrawdown, v.Kind)
	assert.Equal(t, domain.SeverityCritical, v.Severity)
	assert.InDelta(t, -7.2, v.Observed, 0.0001)
	assert.InDelta(t, 6.0, v.Limit, 0.0001)
	assert.InDelta(t, 120.0, v.ThresholdPct, 0.0001)
	assert.Equal(t, domain.ActionDisableTrading, v.RecommendedAction)
}

func TestViolationStore_CountByChallengeID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	challengeID := createTestChallenge(t, ctx, pool, "viol-ch-2")
	accountID := createTestAccount(t, ctx, pool, "viol-acc-2", challengeID)

	store := NewViolationStore(pool)

	// Ongoing breach writes a new row every cycle.
	for i, id := range []string{"viol-a", "viol-b", "viol-c"} {
		err := store.Insert(ctx, &domain.Violation{
			ID:          id,
			ChallengeID: challengeID,
			AccountID:   accountID,
			Kind:        domain.ViolationDailyLoss,
			Severity:    domain.SeverityBreach,
			Observed:    -3.5,
			Limit:       3,
			RecordedAt:  int64(1700000001000 + i*1000),
		})
		require.NoError(t, err)
	}

	count, err := store.CountByChallengeID(ctx, challengeID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	count, err = store.CountByChallengeID(ctx, "missing")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
