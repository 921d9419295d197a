package clickhouse

import (
	"context"
	"fmt"

	"challenge-monitor/internal/domain"
	"challenge-monitor/internal/storage"
)

// EquityPointStore implements storage.EquityPointStore using ClickHouse.
type EquityPointStore struct {
	conn *Conn
}

// NewEquityPointStore creates a new EquityPointStore.
func NewEquityPointStore(conn *Conn) *EquityPointStore {
	return &EquityPointStore{conn: conn}
}

// Compile-time interface check.
var _ storage.EquityPointStore = (*EquityPointStore)(nil)

// Insert adds one equity point. MergeTree does not enforce uniqueness;
// the monitoring cycle is the only writer and emits one point per cycle.
func (s *EquityPointStore) Insert(ctx context.Context, p *domain.EquityPoint) error {
	query := `
		INSERT INTO equity_points (
			challenge_id, timestamp_ms, balance, equity, profit_pct, drawdown_pct
		) VALUES (?, ?, ?, ?, ?, ?)
	`

	err := s.conn.Exec(ctx, query,
		p.ChallengeID, uint64(p.TimestampMs),
		p.Balance, p.Equity, p.ProfitPct, p.DrawdownPct,
	)
	if err != nil {
		return fmt.Errorf("insert equity point: %w", err)
	}
	return nil
}

// InsertBulk adds multiple points in one batch.
func (s *EquityPointStore) InsertBulk(ctx context.Context, points []*domain.EquityPoint) error {
	if len(points) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO equity_points (
			challenge_id, timestamp_ms, balance, equity, profit_pct, drawdown_pct
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, p := range points {
		err = batch.Append(
			p.ChallengeID, uint64(p.TimestampMs),
			p.Balance, p.Equity, p.ProfitPct, p.DrawdownPct,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByChallengeID retrieves all points for a challenge, ordered by timestamp ASC.
func (s *EquityPointStore) GetByChallengeID(ctx context.Context, challengeID string) ([]*domain.EquityPoint, error) {
	query := `
		SELECT challenge_id, timestamp_ms, balance, equity, profit_pct, drawdown_pct
		FROM equity_points
		WHERE challenge_id = ?
		ORDER BY timestamp_ms ASC
	`

	rows, err := s.conn.Query(ctx, query, challengeID)
	if err != nil {
		return nil, fmt.Errorf("query by challenge id: %w", err)
	}
	defer rows.Close()

	var points []*domain.EquityPoint
	for rows.Next() {
		var (
			p  domain.EquityPoint
			ts uint64
		)
		err := rows.Scan(&p.ChallengeID, &ts, &p.Balance, &p.Equity, &p.ProfitPct, &p.DrawdownPct)
		if err != nil {
			return nil, fmt.Errorf("scan equity point row: %w", err)
		}
		p.TimestampMs = int64(ts)
		points = append(points, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate equity point rows: %w", err)
	}
	return points, nil
}
