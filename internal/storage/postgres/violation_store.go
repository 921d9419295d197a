package postgres

import (
	"context"
	"fmt"

	"challenge-monitor/internal/domain"
	"challenge-monitor/internal/storage"
)

// ViolationStore implements storage.ViolationStore using PostgreSQL.
type ViolationStore struct {
	pool *Pool
}

// NewViolationStore creates a new ViolationStore.
func NewViolationStore(pool *Pool) *ViolationStore {
	return &ViolationStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ViolationStore = (*ViolationStore)(nil)

// Insert adds a new violation. Returns ErrDuplicateKey if the ID exists.
func (s *ViolationStore) Insert(ctx context.Context, v *domain.Violation) error {
	query := `
		INSERT INTO violations (
			id, challenge_id, account_id, kind, severity,
			observed, limit_pct, threshold_pct, message, recommended_action, recorded_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := s.pool.Exec(ctx, query,
		v.ID,
		v.ChallengeID,
		v.AccountID,
		v.Kind,
		v.Severity,
		v.Observed,
		v.Limit,
		v.ThresholdPct,
		v.Message,
		v.RecommendedAction,
		v.RecordedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert violation: %w", err)
	}
	return nil
}

// GetByChallengeID retrieves all violations for a challenge, ordered by
// recorded time ASC.
func (s *ViolationStore) GetByChallengeID(ctx context.Context, challengeID string) ([]*domain.Violation, error) {
	query := `
		SELECT id, challenge_id, account_id, kind, severity,
			observed, limit_pct, threshold_pct, message, recommended_action, recorded_at
		FROM violations
		WHERE challenge_id = $1
		ORDER BY recorded_at ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, challengeID)
	if err != nil {
		return nil, fmt.Errorf("get violations by challenge id: %w", err)
	}
	defer rows.Close()

	var violations []*domain.Violation
	for rows.Next() {
		var v domain.Violation
		err := rows.Scan(
			&v.ID,
			&v.ChallengeID,
			&v.AccountID,
			&v.Kind,
			&v.Severity,
			&v.Observed,
			&v.Limit,
			&v.ThresholdPct,
			&v.Message,
			&v.RecommendedAction,
			&v.RecordedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan violation row: %w", err)
		}
		violations = append(violations, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate violation rows: %w", err)
	}
	return violations, nil
}

// CountByChallengeID returns the number of violations recorded for a challenge.
func (s *ViolationStore) CountByChallengeID(ctx context.Context, challengeID string) (int, error) {
	query := `SELECT count(*) FROM violations WHERE challenge_id = $1`

	var count int
	if err := s.pool.QueryRow(ctx, query, challengeID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count violations: %w", err)
	}
	return count, nil
}
