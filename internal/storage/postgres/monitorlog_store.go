package postgres

import (
	"context"
	"fmt"

	"challenge-monitor/internal/domain"
	"challenge-monitor/internal/storage"
)

// MonitorLogStore implements storage.MonitorLogStore using PostgreSQL.
type MonitorLogStore struct {
	pool *Pool
}

// NewMonitorLogStore creates a new MonitorLogStore.
func NewMonitorLogStore(pool *Pool) *MonitorLogStore {
	return &MonitorLogStore{pool: pool}
}

// Compile-time interface check.
var _ storage.MonitorLogStore = (*MonitorLogStore)(nil)

// Insert adds a new log entry.
func (s *MonitorLogStore) Insert(ctx context.Context, e *domain.MonitorLogEntry) error {
	query := `
		INSERT INTO monitoring_log (
			id, account_id, challenge_id, event, duration_ms, summary, recorded_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.pool.Exec(ctx, query,
		e.ID,
		e.AccountID,
		e.ChallengeID,
		e.Event,
		e.DurationMs,
		e.Summary,
		e.RecordedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert monitoring log entry: %w", err)
	}
	return nil
}

// GetByAccountID retrieves all log entries for an account, ordered by
// recorded time ASC.
func (s *MonitorLogStore) GetByAccountID(ctx context.Context, accountID string) ([]*domain.MonitorLogEntry, error) {
	query := `
		SELECT id, account_id, challenge_id, event, duration_ms, summary, recorded_at
		FROM monitoring_log
		WHERE account_id = $1
		ORDER BY recorded_at ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("get monitoring log by account id: %w", err)
	}
	defer rows.Close()

	var entries []*domain.MonitorLogEntry
	for rows.Next() {
		var e domain.MonitorLogEntry
		err := rows.Scan(
			&e.ID,
			&e.AccountID,
			&e.ChallengeID,
			&e.Event,
			&e.DurationMs,
			&e.Summary,
			&e.RecordedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan monitoring log row: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate monitoring log rows: %w", err)
	}
	return entries, nil
}
