// Package snapshot persists point-in-time financial snapshots.
package snapshot

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"challenge-monitor/internal/domain"
	"challenge-monitor/internal/storage"
)

// Recorder writes one snapshot per cycle and refreshes the account's
// cached balance/equity. Out-of-range values are a rule concern, not a
// persistence concern; no validation happens here.
type Recorder struct {
	snapshots storage.SnapshotStore
	accounts  storage.AccountStore
	equity    storage.EquityPointStore // optional equity-curve sink
	logger    *log.Logger
	now       func() time.Time
}

// NewRecorder creates a snapshot recorder. equity may be nil, in which
// case no equity-curve point is written.
func NewRecorder(snapshots storage.SnapshotStore, accounts storage.AccountStore, equity storage.EquityPointStore, logger *log.Logger) *Recorder {
	if logger == nil {
		logger = log.Default()
	}
	return &Recorder{
		snapshots: snapshots,
		accounts:  accounts,
		equity:    equity,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock overrides the clock, for deterministic tests.
func (r *Recorder) WithClock(now func() time.Time) *Recorder {
	r.now = now
	return r
}

// Record writes one snapshot flagged latest and updates the account's
// cached balance/equity. The equity-curve write is best-effort: a sink
// failure is logged and never fails the cycle.
func (r *Recorder) Record(ctx context.Context, account *domain.Account, sample *domain.AccountSample) (*domain.Snapshot, error) {
	now := r.now().UnixMilli()

	snap := &domain.Snapshot{
		ID:             uuid.NewString(),
		ChallengeID:    account.ChallengeID,
		AccountID:      account.ID,
		Balance:        sample.Balance,
		Equity:         sample.Equity,
		Margin:         sample.Margin,
		FreeMargin:     sample.FreeMargin,
		MarginLevel:    sample.MarginLevel,
		ProfitAbs:      sample.ProfitAbs,
		ProfitPct:      sample.ProfitPct,
		DailyProfitAbs: sample.DailyProfitAbs,
		DailyProfitPct: sample.DailyProfitPct,
		OpenPositions:  sample.OpenPositions,
		TotalTrades:    sample.TotalTrades,
		DrawdownPct:    sample.MaxDrawdownPct,
		IsLatest:       true,
		RecordedAt:     now,
	}

	if err := r.snapshots.InsertLatest(ctx, snap); err != nil {
		return nil, fmt.Errorf("insert snapshot: %w", err)
	}

	if err := r.accounts.UpdateBalances(ctx, account.ID, sample.Balance, sample.Equity); err != nil {
		return nil, fmt.Errorf("update account balances: %w", err)
	}

	if r.equity != nil {
		point := &domain.EquityPoint{
			ChallengeID: account.ChallengeID,
			TimestampMs: now,
			Balance:     sample.Balance,
			Equity:      sample.Equity,
			ProfitPct:   sample.ProfitPct,
			DrawdownPct: sample.MaxDrawdownPct,
		}
		if err := r.equity.Insert(ctx, point); err != nil {
			r.logger.Printf("[snapshot] equity point write failed for challenge %s: %v", account.ChallengeID, err)
		}
	}

	return snap, nil
}
