package domain

// ViolationKind identifies the breached rule.
type ViolationKind string

const (
	ViolationDailyLoss   ViolationKind = "daily_loss"
	ViolationMaxDrawdown ViolationKind = "max_drawdown"
)

// Severity is the tier of a violation.
type Severity string

const (
	SeverityBreach   Severity = "breach"
	SeverityCritical Severity = "critical"
)

// Recommended account actions attached to violations. Acting on them is
// outside the monitoring core.
const (
	ActionDisableTrading = "disable_trading"
)

// Violation is a record of one rule breach at one evaluation instant.
// Corresponds to the violations table. Append-only; an ongoing breach
// produces a new row every cycle.
type Violation struct {
	ID                string // PRIMARY KEY, uuid
	ChallengeID       string
	AccountID         string
	Kind              ViolationKind
	Severity          Severity
	Observed          float64 // breaching value, %
	Limit             float64 // configured limit, %
	ThresholdPct      float64 // observed / limit * 100
	Message           string
	RecommendedAction string // optional, empty when none
	RecordedAt        int64  // Unix timestamp in milliseconds
}
