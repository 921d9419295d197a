// Package violation persists rule breaches and applies the terminal
// challenge transition.
package violation

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"challenge-monitor/internal/domain"
	"challenge-monitor/internal/rules"
	"challenge-monitor/internal/storage"
)

// Recorder persists every violation produced by an evaluation as an
// immutable row and, on a terminal directive, moves the owning challenge
// to failed. Violations are never deduplicated across cycles: an ongoing
// breach produces a new row each cycle.
type Recorder struct {
	violations storage.ViolationStore
	challenges storage.ChallengeStore
	logger     *log.Logger
	now        func() time.Time
}

// NewRecorder creates a violation recorder.
func NewRecorder(violations storage.ViolationStore, challenges storage.ChallengeStore, logger *log.Logger) *Recorder {
	if logger == nil {
		logger = log.Default()
	}
	return &Recorder{
		violations: violations,
		challenges: challenges,
		logger:     logger,
		now:        time.Now,
	}
}

// WithClock overrides the clock, for deterministic tests.
func (r *Recorder) WithClock(now func() time.Time) *Recorder {
	r.now = now
	return r
}

// Record persists the findings of one evaluation and returns the number
// of violations written. When the result carries the terminal directive,
// the challenge moves in_progress → failed; a challenge already out of
// in_progress is left untouched (no transition out of failed exists).
func (r *Recorder) Record(ctx context.Context, account *domain.Account, res rules.Result) (int, error) {
	now := r.now().UnixMilli()

	for _, f := range res.Findings {
		v := &domain.Violation{
			ID:                uuid.NewString(),
			ChallengeID:       account.ChallengeID,
			AccountID:         account.ID,
			Kind:              f.Kind,
			Severity:          f.Severity,
			Observed:          f.Observed,
			Limit:             f.Limit,
			ThresholdPct:      f.ThresholdPct,
			Message:           f.Message,
			RecommendedAction: f.RecommendedAction,
			RecordedAt:        now,
		}
		if err := r.violations.Insert(ctx, v); err != nil {
			return 0, fmt.Errorf("insert violation %s: %w", f.Kind, err)
		}
		r.logger.Printf("[violation] challenge %s: %s (%s) observed=%.2f limit=%.2f",
			account.ChallengeID, f.Kind, f.Severity, f.Observed, f.Limit)
	}

	if res.FailChallenge {
		if err := r.failChallenge(ctx, account.ChallengeID); err != nil {
			return len(res.Findings), err
		}
	}

	return len(res.Findings), nil
}

// failChallenge applies the in_progress → failed transition exactly once.
func (r *Recorder) failChallenge(ctx context.Context, challengeID string) error {
	ch, err := r.challenges.GetByID(ctx, challengeID)
	if err != nil {
		return fmt.Errorf("load challenge %s: %w", challengeID, err)
	}

	if ch.Status != domain.ChallengeStatusInProgress {
		return nil
	}

	if err := r.challenges.UpdateStatus(ctx, challengeID, domain.ChallengeStatusFailed); err != nil {
		return fmt.Errorf("fail challenge %s: %w", challengeID, err)
	}
	r.logger.Printf("[violation] challenge %s failed on terminal drawdown", challengeID)
	return nil
}
