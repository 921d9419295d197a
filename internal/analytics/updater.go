// Package analytics maintains the denormalized current-state projection
// of each challenge.
package analytics

import (
	"context"
	"fmt"
	"log"
	"time"

	"challenge-monitor/internal/domain"
	"challenge-monitor/internal/storage"
)

// Updater recomputes aggregate trade counters for a challenge and
// upserts its analytics entry. Counters are recomputed by full scan each
// cycle rather than maintained incrementally; at scale that is a
// performance concern, not a correctness one.
type Updater struct {
	trades     storage.TradeStore
	violations storage.ViolationStore
	analytics  storage.AnalyticsStore
	logger     *log.Logger
	now        func() time.Time
}

// NewUpdater creates an analytics updater.
func NewUpdater(trades storage.TradeStore, violations storage.ViolationStore, analytics storage.AnalyticsStore, logger *log.Logger) *Updater {
	if logger == nil {
		logger = log.Default()
	}
	return &Updater{
		trades:     trades,
		violations: violations,
		analytics:  analytics,
		logger:     logger,
		now:        time.Now,
	}
}

// WithClock overrides the clock, for deterministic tests.
func (u *Updater) WithClock(now func() time.Time) *Updater {
	u.now = now
	return u
}

// Update rescans the challenge's trades, computes win/loss counters, and
// fully overwrites the challenge's analytics entry.
func (u *Updater) Update(ctx context.Context, account *domain.Account, challengeStatus domain.ChallengeStatus, sample *domain.AccountSample) error {
	trades, err := u.trades.GetByChallengeID(ctx, account.ChallengeID)
	if err != nil {
		return fmt.Errorf("load trades: %w", err)
	}

	wins, losses := 0, 0
	for _, t := range trades {
		switch {
		case t.Profit > 0:
			wins++
		case t.Profit < 0:
			losses++
		}
		// Trades with exactly zero profit count toward neither.
	}

	violationCount, err := u.violations.CountByChallengeID(ctx, account.ChallengeID)
	if err != nil {
		return fmt.Errorf("count violations: %w", err)
	}

	entry := &domain.AnalyticsEntry{
		ChallengeID:    account.ChallengeID,
		AccountID:      account.ID,
		Balance:        sample.Balance,
		Equity:         sample.Equity,
		TotalTrades:    len(trades),
		WinningTrades:  wins,
		LosingTrades:   losses,
		WinRate:        winRate(wins, losses),
		ViolationCount: violationCount,
		Valid:          challengeStatus != domain.ChallengeStatusFailed,
		UpdatedAt:      u.now().UnixMilli(),
	}

	if err := u.analytics.Upsert(ctx, entry); err != nil {
		return fmt.Errorf("upsert analytics entry: %w", err)
	}
	return nil
}

// winRate is winning / (winning+losing) * 100, defined as 0 when there
// are no decided trades.
func winRate(wins, losses int) float64 {
	decided := wins + losses
	if decided == 0 {
		return 0
	}
	return float64(wins) / float64(decided) * 100
}
