package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"challenge-monitor/internal/domain"
	"challenge-monitor/internal/storage"
)

// AccountStore implements storage.AccountStore using PostgreSQL.
type AccountStore struct {
	pool *Pool
}

// NewAccountStore creates a new AccountStore.
func NewAccountStore(pool *Pool) *AccountStore {
	return &AccountStore{pool: pool}
}

// Compile-time interface check.
var _ storage.AccountStore = (*AccountStore)(nil)

// Insert adds a new account. Returns ErrDuplicateKey if the ID exists.
func (s *AccountStore) Insert(ctx context.Context, a *domain.Account) error {
	query := `
		INSERT INTO monitored_accounts (
			id, user_id, challenge_id, account_number, server, balance, equity, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := s.pool.Exec(ctx, query,
		a.ID,
		a.UserID,
		a.ChallengeID,
		a.AccountNumber,
		a.Server,
		a.Balance,
		a.Equity,
		a.Status,
		a.CreatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// GetByID retrieves an account by its ID. Returns ErrNotFound if not exists.
func (s *AccountStore) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	query := `
		SELECT id, user_id, challenge_id, account_number, server, balance, equity, status, created_at
		FROM monitored_accounts
		WHERE id = $1
	`

	row := s.pool.QueryRow(ctx, query, id)
	return scanAccount(row)
}

// GetActiveByChallengeID retrieves the single active account of a challenge.
// Returns ErrNotFound if the challenge has none.
func (s *AccountStore) GetActiveByChallengeID(ctx context.Context, challengeID string) (*domain.Account, error) {
	query := `
		SELECT id, user_id, challenge_id, account_number, server, balance, equity, status, created_at
		FROM monitored_accounts
		WHERE challenge_id = $1 AND status = $2
		ORDER BY created_at ASC, id ASC
		LIMIT 1
	`

	row := s.pool.QueryRow(ctx, query, challengeID, domain.AccountStatusActive)
	return scanAccount(row)
}

// ListActive retrieves up to limit accounts in active status, ordered by
// creation time ASC. limit <= 0 means no limit.
func (s *AccountStore) ListActive(ctx context.Context, limit int) ([]*domain.Account, error) {
	query := `
		SELECT id, user_id, challenge_id, account_number, server, balance, equity, status, created_at
		FROM monitored_accounts
		WHERE status = $1
		ORDER BY created_at ASC, id ASC
	`
	args := []any{domain.AccountStatusActive}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list active accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate account rows: %w", err)
	}
	return accounts, nil
}

// UpdateBalances refreshes the cached balance/equity of an account.
// Returns ErrNotFound if the account does not exist.
func (s *AccountStore) UpdateBalances(ctx context.Context, id string, balance, equity float64) error {
	query := `
		UPDATE monitored_accounts
		SET balance = $2, equity = $3
		WHERE id = $1
	`

	tag, err := s.pool.Exec(ctx, query, id, balance, equity)
	if err != nil {
		return fmt.Errorf("update account balances: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// scanAccount scans a single row into an Account.
func scanAccount(row pgx.Row) (*domain.Account, error) {
	var a domain.Account

	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.ChallengeID,
		&a.AccountNumber,
		&a.Server,
		&a.Balance,
		&a.Equity,
		&a.Status,
		&a.CreatedAt,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("scan account row: %w", err)
	}
	return &a, nil
}
