package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"challenge-monitor/internal/domain"
	"challenge-monitor/internal/storage"
)

// SnapshotStore implements storage.SnapshotStore using PostgreSQL.
type SnapshotStore struct {
	pool *Pool
}

// NewSnapshotStore creates a new SnapshotStore.
func NewSnapshotStore(pool *Pool) *SnapshotStore {
	return &SnapshotStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SnapshotStore = (*SnapshotStore)(nil)

const snapshotColumns = `
	id, challenge_id, account_id,
	balance, equity, margin, free_margin, margin_level,
	profit_abs, profit_pct, daily_profit_abs, daily_profit_pct,
	open_positions, total_trades, drawdown_pct,
	is_latest, recorded_at
`

// InsertLatest adds a new snapshot flagged as latest, clearing the latest
// flag on all prior snapshots of the same challenge in one transaction.
func (s *SnapshotStore) InsertLatest(ctx context.Context, snap *domain.Snapshot) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`UPDATE snapshots SET is_latest = FALSE WHERE challenge_id = $1 AND is_latest = TRUE`,
		snap.ChallengeID,
	)
	if err != nil {
		return fmt.Errorf("clear latest flags: %w", err)
	}

	query := `
		INSERT INTO snapshots (` + snapshotColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, TRUE, $16)
	`
	_, err = tx.Exec(ctx, query,
		snap.ID,
		snap.ChallengeID,
		snap.AccountID,
		snap.Balance,
		snap.Equity,
		snap.Margin,
		snap.FreeMargin,
		snap.MarginLevel,
		snap.ProfitAbs,
		snap.ProfitPct,
		snap.DailyProfitAbs,
		snap.DailyProfitPct,
		snap.OpenPositions,
		snap.TotalTrades,
		snap.DrawdownPct,
		snap.RecordedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert snapshot: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetLatest retrieves the snapshot currently flagged latest for a
// challenge. Returns ErrNotFound if none exists.
func (s *SnapshotStore) GetLatest(ctx context.Context, challengeID string) (*domain.Snapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM snapshots
		WHERE challenge_id = $1 AND is_latest = TRUE
	`

	row := s.pool.QueryRow(ctx, query, challengeID)
	return scanSnapshot(row)
}

// GetByChallengeID retrieves all snapshots for a challenge, ordered by
// recorded time ASC.
func (s *SnapshotStore) GetByChallengeID(ctx context.Context, challengeID string) ([]*domain.Snapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM snapshots
		WHERE challenge_id = $1
		ORDER BY recorded_at ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, challengeID)
	if err != nil {
		return nil, fmt.Errorf("get snapshots by challenge id: %w", err)
	}
	defer rows.Close()

	var snaps []*domain.Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot rows: %w", err)
	}
	return snaps, nil
}

// scanSnapshot scans a single row into a Snapshot.
func scanSnapshot(row pgx.Row) (*domain.Snapshot, error) {
	var snap domain.Snapshot

	err := row.Scan(
		&snap.ID,
		&snap.ChallengeID,
		&snap.AccountID,
		&snap.Balance,
		&snap.Equity,
		&snap.Margin,
		&snap.FreeMargin,
		&snap.MarginLevel,
		&snap.ProfitAbs,
		&snap.ProfitPct,
		&snap.DailyProfitAbs,
		&snap.DailyProfitPct,
		&snap.OpenPositions,
		&snap.TotalTrades,
		&snap.DrawdownPct,
		&snap.IsLatest,
		&snap.RecordedAt,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("scan snapshot row: %w", err)
	}
	return &snap, nil
}
