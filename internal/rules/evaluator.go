// Package rules evaluates account metrics against challenge risk rules.
// Evaluation is a pure function of its inputs; persistence of the
// produced violations belongs to the violation recorder.
package rules

import (
	"fmt"
	"math"

	"challenge-monitor/internal/domain"
)

// criticalFactor is the multiple of a limit past which a daily-loss
// breach is escalated to critical.
const criticalFactor = 1.2

// Metrics is the slice of an account sample the rules read.
type Metrics struct {
	ProfitPct      float64 // overall P&L, % of account size
	DailyProfitPct float64 // daily P&L, % of account size
}

// Finding is one rule breach before persistence fields (ID, owner,
// timestamp) are attached by the recorder.
type Finding struct {
	Kind              domain.ViolationKind
	Severity          domain.Severity
	Observed          float64
	Limit             float64
	ThresholdPct      float64
	Message           string
	RecommendedAction string
}

// Result is the outcome of evaluating one metric snapshot.
type Result struct {
	Findings []Finding

	// FailChallenge directs the terminal in_progress → failed transition.
	FailChallenge bool

	// ProfitTargetHit directs a profit-target-achieved notification.
	// Not a violation and never changes challenge state.
	ProfitTargetHit bool
	TargetPct       float64
}

// Evaluator applies challenge rules to account metrics.
type Evaluator struct{}

// NewEvaluator creates a new rule evaluator.
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Evaluate checks the daily loss rule, the total drawdown rule, and the
// phase profit target, in that order. The first two are independent
// checks against the same snapshot and may both fire in one cycle.
func (e *Evaluator) Evaluate(m Metrics, rules domain.ChallengeRules, phase int) Result {
	var res Result

	if f, ok := e.checkDailyLoss(m, rules); ok {
		res.Findings = append(res.Findings, f)
	}

	if f, ok := e.checkDrawdown(m, rules); ok {
		res.Findings = append(res.Findings, f)
		res.FailChallenge = true
	}

	target := rules.Phase1TargetPct
	if phase == domain.PhaseTwo {
		target = rules.Phase2TargetPct
	}
	if target > 0 && m.ProfitPct >= target {
		res.ProfitTargetHit = true
		res.TargetPct = target
	}

	return res
}

// checkDailyLoss emits a daily_loss finding when the daily P&L magnitude
// exceeds the daily limit. Severity escalates to critical past
// criticalFactor times the limit.
func (e *Evaluator) checkDailyLoss(m Metrics, rules domain.ChallengeRules) (Finding, bool) {
	observed := math.Abs(m.DailyProfitPct)
	limit := rules.MaxDailyLossPct
	if limit <= 0 || observed <= limit {
		return Finding{}, false
	}

	severity := domain.SeverityBreach
	// Compare the ratio, not observed against criticalFactor*limit: the
	// product form misgrades an exact 120% breach (1.2*3 rounds below 3.6).
	if observed/limit > criticalFactor {
		severity = domain.SeverityCritical
	}

	return Finding{
		Kind:         domain.ViolationDailyLoss,
		Severity:     severity,
		Observed:     observed,
		Limit:        limit,
		ThresholdPct: observed / limit * 100,
		Message:      fmt.Sprintf("daily loss %.2f%% exceeds limit of %.2f%%", observed, limit),
	}, true
}

// checkDrawdown emits a max_drawdown finding when overall P&L is negative
// and its magnitude exceeds the total loss limit. A positive P&L, however
// large, never triggers this rule.
func (e *Evaluator) checkDrawdown(m Metrics, rules domain.ChallengeRules) (Finding, bool) {
	if m.ProfitPct >= 0 {
		return Finding{}, false
	}

	observed := math.Abs(m.ProfitPct)
	limit := rules.MaxTotalLossPct
	if limit <= 0 || observed <= limit {
		return Finding{}, false
	}

	return Finding{
		Kind:              domain.ViolationMaxDrawdown,
		Severity:          domain.SeverityCritical,
		Observed:          observed,
		Limit:             limit,
		ThresholdPct:      observed / limit * 100,
		Message:           fmt.Sprintf("drawdown %.2f%% exceeds maximum total loss of %.2f%%", observed, limit),
		RecommendedAction: domain.ActionDisableTrading,
	}, true
}
