package storage

import (
	"context"

	"challenge-monitor/internal/domain"
)

// AccountStore provides access to monitored_accounts storage.
type AccountStore interface {
	// Insert adds a new account. Returns ErrDuplicateKey if the ID exists.
	Insert(ctx context.Context, a *domain.Account) error

	// GetByID retrieves an account by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, id string) (*domain.Account, error)

	// GetActiveByChallengeID retrieves the single active account of a
	// challenge. Returns ErrNotFound if the challenge has none.
	GetActiveByChallengeID(ctx context.Context, challengeID string) (*domain.Account, error)

	// ListActive retrieves up to limit accounts in active status,
	// ordered by creation time ASC. limit <= 0 means no limit.
	ListActive(ctx context.Context, limit int) ([]*domain.Account, error)

	// UpdateBalances refreshes the cached balance/equity of an account.
	// Returns ErrNotFound if the account does not exist.
	UpdateBalances(ctx context.Context, id string, balance, equity float64) error
}

// ChallengeStore provides access to challenges storage.
type ChallengeStore interface {
	// Insert adds a new challenge. Returns ErrDuplicateKey if the ID exists.
	Insert(ctx context.Context, c *domain.Challenge) error

	// GetByID retrieves a challenge by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, id string) (*domain.Challenge, error)

	// UpdateStatus sets the lifecycle status of a challenge.
	// Returns ErrNotFound if the challenge does not exist.
	UpdateStatus(ctx context.Context, id string, status domain.ChallengeStatus) error
}

// SnapshotStore provides access to snapshots storage.
type SnapshotStore interface {
	// InsertLatest adds a new snapshot flagged as latest, clearing the
	// latest flag on all prior snapshots of the same challenge in the
	// same operation.
	InsertLatest(ctx context.Context, s *domain.Snapshot) error

	// GetLatest retrieves the snapshot currently flagged latest for a
	// challenge. Returns ErrNotFound if none exists.
	GetLatest(ctx context.Context, challengeID string) (*domain.Snapshot, error)

	// GetByChallengeID retrieves all snapshots for a challenge, ordered
	// by recorded time ASC.
	GetByChallengeID(ctx context.Context, challengeID string) ([]*domain.Snapshot, error)
}

// TradeStore provides access to trades storage.
type TradeStore interface {
	// Insert adds a new trade. Returns ErrDuplicateKey if the ticket exists.
	Insert(ctx context.Context, t *domain.Trade) error

	// ExistsByTicket reports whether a trade with the given ticket exists.
	ExistsByTicket(ctx context.Context, ticket int64) (bool, error)

	// GetByChallengeID retrieves all trades for a challenge, ordered by
	// open time ASC, ticket ASC.
	GetByChallengeID(ctx context.Context, challengeID string) ([]*domain.Trade, error)
}

// ViolationStore provides access to violations storage.
type ViolationStore interface {
	// Insert adds a new violation. Returns ErrDuplicateKey if the ID exists.
	Insert(ctx context.Context, v *domain.Violation) error

	// GetByChallengeID retrieves all violations for a challenge, ordered
	// by recorded time ASC.
	GetByChallengeID(ctx context.Context, challengeID string) ([]*domain.Violation, error)

	// CountByChallengeID returns the number of violations recorded for a
	// challenge.
	CountByChallengeID(ctx context.Context, challengeID string) (int, error)
}

// AnalyticsStore provides access to challenge_analytics storage.
type AnalyticsStore interface {
	// Upsert writes the analytics entry for a challenge, fully replacing
	// any prior row. Last write wins.
	Upsert(ctx context.Context, e *domain.AnalyticsEntry) error

	// GetByChallengeID retrieves the analytics entry of a challenge.
	// Returns ErrNotFound if none exists.
	GetByChallengeID(ctx context.Context, challengeID string) (*domain.AnalyticsEntry, error)
}

// MonitorLogStore provides access to monitoring_log storage.
type MonitorLogStore interface {
	// Insert adds a new log entry.
	Insert(ctx context.Context, e *domain.MonitorLogEntry) error

	// GetByAccountID retrieves all log entries for an account, ordered by
	// recorded time ASC.
	GetByAccountID(ctx context.Context, accountID string) ([]*domain.MonitorLogEntry, error)
}

// EquityPointStore provides access to equity-curve timeseries storage.
type EquityPointStore interface {
	// Insert adds one equity point.
	Insert(ctx context.Context, p *domain.EquityPoint) error

	// GetByChallengeID retrieves all points for a challenge, ordered by
	// timestamp ASC.
	GetByChallengeID(ctx context.Context, challengeID string) ([]*domain.EquityPoint, error)
}
