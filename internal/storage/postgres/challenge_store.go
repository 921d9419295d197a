package postgres

import (
	"context"
	"fmt"

	"challenge-monitor/internal/domain"
	"challenge-monitor/internal/storage"
)

// ChallengeStore implements storage.ChallengeStore using PostgreSQL.
type ChallengeStore struct {
	pool *Pool
}

// NewChallengeStore creates a new ChallengeStore.
func NewChallengeStore(pool *Pool) *ChallengeStore {
	return &ChallengeStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ChallengeStore = (*ChallengeStore)(nil)

// Insert adds a new challenge. Returns ErrDuplicateKey if the ID exists.
func (s *ChallengeStore) Insert(ctx context.Context, c *domain.Challenge) error {
	query := `
		INSERT INTO challenges (
			id, user_id, status, phase,
			max_daily_loss_pct, max_total_loss_pct, phase1_target_pct, phase2_target_pct, account_size,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := s.pool.Exec(ctx, query,
		c.ID,
		c.UserID,
		c.Status,
		c.Phase,
		c.Rules.MaxDailyLossPct,
		c.Rules.MaxTotalLossPct,
		c.Rules.Phase1TargetPct,
		c.Rules.Phase2TargetPct,
		c.Rules.AccountSize,
		c.CreatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert challenge: %w", err)
	}
	return nil
}

// GetByID retrieves a challenge by its ID. Returns ErrNotFound if not exists.
func (s *ChallengeStore) GetByID(ctx context.Context, id string) (*domain.Challenge, error) {
	query := `
		SELECT id, user_id, status, phase,
			max_daily_loss_pct, max_total_loss_pct, phase1_target_pct, phase2_target_pct, account_size,
			created_at
		FROM challenges
		WHERE id = $1
	`

	var c domain.Challenge
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.UserID,
		&c.Status,
		&c.Phase,
		&c.Rules.MaxDailyLossPct,
		&c.Rules.MaxTotalLossPct,
		&c.Rules.Phase1TargetPct,
		&c.Rules.Phase2TargetPct,
		&c.Rules.AccountSize,
		&c.CreatedAt,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get challenge by id: %w", err)
	}
	return &c, nil
}

// UpdateStatus sets the lifecycle status of a challenge.
// Returns ErrNotFound if the challenge does not exist.
func (s *ChallengeStore) UpdateStatus(ctx context.Context, id string, status domain.ChallengeStatus) error {
	query := `
		UPDATE challenges
		SET status = $2
		WHERE id = $1
	`

	tag, err := s.pool.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("update challenge status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
