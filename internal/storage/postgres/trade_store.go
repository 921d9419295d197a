package postgres

import (
	"context"
	"fmt"

	"challenge-monitor/internal/domain"
	"challenge-monitor/internal/storage"
)

// TradeStore implements storage.TradeStore using PostgreSQL.
type TradeStore struct {
	pool *Pool
}

// NewTradeStore creates a new TradeStore.
func NewTradeStore(pool *Pool) *TradeStore {
	return &TradeStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TradeStore = (*TradeStore)(nil)

// Insert adds a new trade. Returns ErrDuplicateKey if the ticket exists.
func (s *TradeStore) Insert(ctx context.Context, t *domain.Trade) error {
	query := `
		INSERT INTO trades (
			ticket, account_id, challenge_id, symbol, side, volume,
			open_price, current_price, profit, status, opened_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := s.pool.Exec(ctx, query,
		t.Ticket,
		t.AccountID,
		t.ChallengeID,
		t.Symbol,
		t.Side,
		t.Volume,
		t.OpenPrice,
		t.CurrentPrice,
		t.Profit,
		t.Status,
		t.OpenedAt,
		t.CreatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert trade: %w", err)
	}
	return nil
}

// ExistsByTicket reports whether a trade with the given ticket exists.
func (s *TradeStore) ExistsByTicket(ctx context.Context, ticket int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM trades WHERE ticket = $1)`

	var exists bool
	if err := s.pool.QueryRow(ctx, query, ticket).Scan(&exists); err != nil {
		return false, fmt.Errorf("check trade exists: %w", err)
	}
	return exists, nil
}

// GetByChallengeID retrieves all trades for a challenge, ordered by open
// time ASC, ticket ASC.
func (s *TradeStore) GetByChallengeID(ctx context.Context, challengeID string) ([]*domain.Trade, error) {
	query := `
		SELECT ticket, account_id, challenge_id, symbol, side, volume,
			open_price, current_price, profit, status, opened_at, created_at
		FROM trades
		WHERE challenge_id = $1
		ORDER BY opened_at ASC, ticket ASC
	`

	rows, err := s.pool.Query(ctx, query, challengeID)
	if err != nil {
		return nil, fmt.Errorf("get trades by challenge id: %w", err)
	}
	defer rows.Close()

	var trades []*domain.Trade
	for rows.Next() {
		var t domain.Trade
		err := rows.Scan(
			&t.Ticket,
			&t.AccountID,
			&t.ChallengeID,
			&t.Symbol,
			&t.Side,
			&t.Volume,
			&t.OpenPrice,
			&t.CurrentPrice,
			&t.Profit,
			&t.Status,
			&t.OpenedAt,
			&t.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan trade row: %w", err)
		}
		trades = append(trades, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trade rows: %w", err)
	}
	return trades, nil
}
