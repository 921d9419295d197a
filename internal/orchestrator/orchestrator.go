// Package orchestrator coordinates the per-account monitoring pipeline.
// Flow per account: fetch → snapshot → ingest trades → evaluate →
// record violations → update analytics.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"challenge-monitor/internal/analytics"
	"challenge-monitor/internal/domain"
	"challenge-monitor/internal/ingest"
	"challenge-monitor/internal/notify"
	"challenge-monitor/internal/observability"
	"challenge-monitor/internal/platform"
	"challenge-monitor/internal/rules"
	"challenge-monitor/internal/snapshot"
	"challenge-monitor/internal/storage"
	"challenge-monitor/internal/violation"
)

// DefaultBatchSize bounds an all-active-accounts run.
const DefaultBatchSize = 100

// Selector picks the accounts one run processes. AccountID takes
// precedence over ChallengeID; both empty means all active accounts,
// capped at the batch size.
type Selector struct {
	AccountID   string
	ChallengeID string
}

// AccountResult is one account's slot in the run report.
type AccountResult struct {
	AccountID  string
	Success    bool
	Balance    float64
	Equity     float64
	Violations int
	ElapsedMs  int64
	Err        string
}

// Report aggregates one run.
type Report struct {
	Success           bool
	AccountsMonitored int
	Results           []AccountResult
}

// Options for creating an Orchestrator.
type Options struct {
	// Required stores
	AccountStore    storage.AccountStore
	ChallengeStore  storage.ChallengeStore
	SnapshotStore   storage.SnapshotStore
	TradeStore      storage.TradeStore
	ViolationStore  storage.ViolationStore
	AnalyticsStore  storage.AnalyticsStore
	MonitorLogStore storage.MonitorLogStore

	// EquityPointStore is an optional analytical sink; nil disables it.
	EquityPointStore storage.EquityPointStore

	// Source supplies account samples.
	Source platform.AccountDataSource

	// Notifier receives profit-target events. Defaults to Noop.
	Notifier notify.Notifier

	// Metrics is optional instrumentation; nil disables it.
	Metrics *observability.Metrics

	// BatchSize caps an all-active run. Defaults to DefaultBatchSize.
	BatchSize int

	Logger *log.Logger
	Now    func() time.Time
}

// Orchestrator runs monitoring cycles.
type Orchestrator struct {
	accounts   storage.AccountStore
	challenges storage.ChallengeStore
	monitorLog storage.MonitorLogStore
	source     platform.AccountDataSource
	notifier   notify.Notifier
	metrics    *observability.Metrics
	batchSize  int
	logger     *log.Logger
	now        func() time.Time

	recorder   *snapshot.Recorder
	ingestor   *ingest.Ingestor
	evaluator  *rules.Evaluator
	violations *violation.Recorder
	analytics  *analytics.Updater
}

// New creates a new Orchestrator.
func New(opts Options) *Orchestrator {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notify.Noop{}
	}
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &Orchestrator{
		accounts:   opts.AccountStore,
		challenges: opts.ChallengeStore,
		monitorLog: opts.MonitorLogStore,
		source:     opts.Source,
		notifier:   notifier,
		metrics:    opts.Metrics,
		batchSize:  batchSize,
		logger:     logger,
		now:        now,
		recorder:   snapshot.NewRecorder(opts.SnapshotStore, opts.AccountStore, opts.EquityPointStore, logger).WithClock(now),
		ingestor:   ingest.NewIngestor(opts.TradeStore, logger).WithClock(now),
		evaluator:  rules.NewEvaluator(),
		violations: violation.NewRecorder(opts.ViolationStore, opts.ChallengeStore, logger).WithClock(now),
		analytics:  analytics.NewUpdater(opts.TradeStore, opts.ViolationStore, opts.AnalyticsStore, logger).WithClock(now),
	}
}

// Run executes one monitoring cycle over the selected accounts. The only
// hard failures are selector resolution and store connectivity; each
// account's pipeline errors are contained in its result slot.
func (o *Orchestrator) Run(ctx context.Context, sel Selector) (*Report, error) {
	started := o.now()

	accounts, err := o.resolveAccounts(ctx, sel)
	if err != nil {
		if o.metrics != nil {
			o.metrics.RunsTotal.WithLabelValues("error").Inc()
		}
		return nil, fmt.Errorf("resolve accounts: %w", err)
	}

	report := &Report{Success: true, AccountsMonitored: len(accounts), Results: []AccountResult{}}
	if len(accounts) == 0 {
		o.logger.Printf("[orchestrator] no active accounts matched selector, nothing to do")
		o.finishRun(started)
		return report, nil
	}

	o.logger.Printf("[orchestrator] monitoring %d account(s)", len(accounts))

	for _, account := range accounts {
		result := o.monitorAccount(ctx, account)
		report.Results = append(report.Results, result)
		if !result.Success {
			o.logger.Printf("[orchestrator] account %s failed: %s", account.ID, result.Err)
			if o.metrics != nil {
				o.metrics.AccountFailures.Inc()
			}
		}
		if o.metrics != nil {
			o.metrics.AccountsMonitored.Inc()
			o.metrics.AccountSyncDuration.Observe(float64(result.ElapsedMs) / 1000)
		}
	}

	o.finishRun(started)
	return report, nil
}

func (o *Orchestrator) finishRun(started time.Time) {
	if o.metrics == nil {
		return
	}
	o.metrics.RunsTotal.WithLabelValues("success").Inc()
	o.metrics.RunDuration.Observe(o.now().Sub(started).Seconds())
	o.metrics.LastSuccessfulRun.Set(float64(o.now().Unix()))
}

// resolveAccounts turns the selector into the set of active accounts to
// process. An empty set is not an error.
func (o *Orchestrator) resolveAccounts(ctx context.Context, sel Selector) ([]*domain.Account, error) {
	switch {
	case sel.AccountID != "":
		account, err := o.accounts.GetByID(ctx, sel.AccountID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, nil
			}
			return nil, err
		}
		if account.Status != domain.AccountStatusActive {
			return nil, nil
		}
		return []*domain.Account{account}, nil

	case sel.ChallengeID != "":
		account, err := o.accounts.GetActiveByChallengeID(ctx, sel.ChallengeID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, nil
			}
			return nil, err
		}
		return []*domain.Account{account}, nil

	default:
		return o.accounts.ListActive(ctx, o.batchSize)
	}
}

// monitorAccount runs the sequential pipeline for one account. Steps
// must stay ordered: evaluation reads the just-fetched metrics and the
// analytics recount must see this cycle's ingested trades.
func (o *Orchestrator) monitorAccount(ctx context.Context, account *domain.Account) AccountResult {
	started := o.now()
	result := AccountResult{AccountID: account.ID}

	if err := o.logAudit(ctx, account, domain.MonitorEventSyncStart, 0, ""); err != nil {
		result.ElapsedMs = o.now().Sub(started).Milliseconds()
		result.Err = fmt.Sprintf("write sync_start audit entry: %v", err)
		return result
	}

	sample, newTrades, violationCount, err := o.runPipeline(ctx, account)
	elapsed := o.now().Sub(started).Milliseconds()
	result.ElapsedMs = elapsed

	if err != nil {
		result.Err = err.Error()
		// The terminal entry is best-effort here: the account already
		// failed and its error must not be masked by the log store's.
		if logErr := o.logAudit(ctx, account, domain.MonitorEventSyncFailure, elapsed, err.Error()); logErr != nil {
			o.logger.Printf("[orchestrator] audit log write failed for account %s: %v", account.ID, logErr)
		}
		return result
	}

	summary := fmt.Sprintf("balance=%.2f equity=%.2f new_trades=%d violations=%d",
		sample.Balance, sample.Equity, newTrades, violationCount)
	if err := o.logAudit(ctx, account, domain.MonitorEventSyncSuccess, elapsed, summary); err != nil {
		result.Err = fmt.Sprintf("write sync_success audit entry: %v", err)
		return result
	}

	result.Success = true
	result.Balance = sample.Balance
	result.Equity = sample.Equity
	result.Violations = violationCount

	return result
}

// runPipeline executes fetch → snapshot → ingest → evaluate → record →
// analytics for one account.
func (o *Orchestrator) runPipeline(ctx context.Context, account *domain.Account) (*domain.AccountSample, int, int, error) {
	challenge, err := o.challenges.GetByID(ctx, account.ChallengeID)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("load challenge %s: %w", account.ChallengeID, err)
	}

	sample, err := o.source.Fetch(ctx, account)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("fetch account data: %w", err)
	}

	if _, err := o.recorder.Record(ctx, account, sample); err != nil {
		return nil, 0, 0, fmt.Errorf("record snapshot: %w", err)
	}
	if o.metrics != nil {
		o.metrics.SnapshotsRecorded.Inc()
	}

	newTrades, err := o.ingestor.Ingest(ctx, account, sample.Trades)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("ingest trades: %w", err)
	}
	if o.metrics != nil && newTrades > 0 {
		o.metrics.TradesIngested.Add(float64(newTrades))
	}

	evaluation := o.evaluator.Evaluate(rules.Metrics{
		ProfitPct:      sample.ProfitPct,
		DailyProfitPct: sample.DailyProfitPct,
	}, challenge.Rules, challenge.Phase)

	recorded, err := o.violations.Record(ctx, account, evaluation)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("record violations: %w", err)
	}
	if o.metrics != nil {
		for _, f := range evaluation.Findings {
			o.metrics.ViolationsRaised.WithLabelValues(string(f.Kind), string(f.Severity)).Inc()
		}
		if evaluation.FailChallenge {
			o.metrics.ChallengesFailed.Inc()
		}
	}

	if evaluation.ProfitTargetHit {
		o.dispatchProfitTarget(ctx, account, challenge, evaluation, sample)
	}

	status := challenge.Status
	if evaluation.FailChallenge {
		status = domain.ChallengeStatusFailed
	}
	if err := o.analytics.Update(ctx, account, status, sample); err != nil {
		return nil, 0, 0, fmt.Errorf("update analytics: %w", err)
	}

	return sample, newTrades, recorded, nil
}

// dispatchProfitTarget sends the notification fire-and-forget.
func (o *Orchestrator) dispatchProfitTarget(ctx context.Context, account *domain.Account, challenge *domain.Challenge, evaluation rules.Result, sample *domain.AccountSample) {
	event := notify.ProfitTargetEvent{
		ChallengeID: account.ChallengeID,
		AccountID:   account.ID,
		Phase:       challenge.Phase,
		TargetPct:   evaluation.TargetPct,
		ProfitPct:   sample.ProfitPct,
		OccurredAt:  o.now(),
	}
	if err := o.notifier.ProfitTarget(ctx, event); err != nil {
		o.logger.Printf("[orchestrator] profit-target notification failed for challenge %s: %v", account.ChallengeID, err)
		return
	}
	if o.metrics != nil {
		o.metrics.ProfitTargetsHit.Inc()
	}
}

// logAudit appends one audit-trail entry. The audit trail is a
// persistence obligation like any other store write: a failed entry is
// the caller's error to report against the account.
func (o *Orchestrator) logAudit(ctx context.Context, account *domain.Account, event domain.MonitorEvent, durationMs int64, summary string) error {
	entry := &domain.MonitorLogEntry{
		ID:          uuid.NewString(),
		AccountID:   account.ID,
		ChallengeID: account.ChallengeID,
		Event:       event,
		DurationMs:  durationMs,
		Summary:     summary,
		RecordedAt:  o.now().UnixMilli(),
	}
	if err := o.monitorLog.Insert(ctx, entry); err != nil {
		return fmt.Errorf("insert %s entry: %w", event, err)
	}
	return nil
}
