package postgres

import (
	"context"
	"fmt"

	"challenge-monitor/internal/domain"
	"challenge-monitor/internal/storage"
)

// AnalyticsStore implements storage.AnalyticsStore using PostgreSQL.
type AnalyticsStore struct {
	pool *Pool
}

// NewAnalyticsStore creates a new AnalyticsStore.
func NewAnalyticsStore(pool *Pool) *AnalyticsStore {
	return &AnalyticsStore{pool: pool}
}

// Compile-time interface check.
var _ storage.AnalyticsStore = (*AnalyticsStore)(nil)

// Upsert writes the analytics entry for a challenge, fully replacing any
// prior row. Last write wins.
func (s *AnalyticsStore) Upsert(ctx context.Context, e *domain.AnalyticsEntry) error {
	query := `
		INSERT INTO challenge_analytics (
			challenge_id, account_id, balance, equity,
			total_trades, winning_trades, losing_trades, win_rate,
			violation_count, valid, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (challenge_id) DO UPDATE SET
			account_id = EXCLUDED.account_id,
			balance = EXCLUDED.balance,
			equity = EXCLUDED.equity,
			total_trades = EXCLUDED.total_trades,
			winning_trades = EXCLUDED.winning_trades,
			losing_trades = EXCLUDED.losing_trades,
			win_rate = EXCLUDED.win_rate,
			violation_count = EXCLUDED.violation_count,
			valid = EXCLUDED.valid,
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.pool.Exec(ctx, query,
		e.ChallengeID,
		e.AccountID,
		e.Balance,
		e.Equity,
		e.TotalTrades,
		e.WinningTrades,
		e.LosingTrades,
		e.WinRate,
		e.ViolationCount,
		e.Valid,
		e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert analytics entry: %w", err)
	}
	return nil
}

// GetByChallengeID retrieves the analytics entry of a challenge.
// Returns ErrNotFound if none exists.
func (s *AnalyticsStore) GetByChallengeID(ctx context.Context, challengeID string) (*domain.AnalyticsEntry, error) {
	query := `
		SELECT challenge_id, account_id, balance, equity,
			total_trades, winning_trades, losing_trades, win_rate,
			violation_count, valid, updated_at
		FROM challenge_analytics
		WHERE challenge_id = $1
	`

	var e domain.AnalyticsEntry
	err := s.pool.QueryRow(ctx, query, challengeID).Scan(
		&e.ChallengeID,
		&e.AccountID,
		&e.Balance,
		&e.Equity,
		&e.TotalTrades,
		&e.WinningTrades,
		&e.LosingTrades,
		&e.WinRate,
		&e.ViolationCount,
		&e.Valid,
		&e.UpdatedAt,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get analytics entry: %w", err)
	}
	return &e, nil
}
