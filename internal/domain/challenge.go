package domain

// ChallengeStatus is the lifecycle status of a challenge.
type ChallengeStatus string

const (
	ChallengeStatusInProgress ChallengeStatus = "in_progress"
	ChallengeStatusFailed     ChallengeStatus = "failed"
	ChallengeStatusPassed     ChallengeStatus = "passed"
)

// Challenge phases.
const (
	PhaseOne = 1
	PhaseTwo = 2
)

// ChallengeRules is the immutable-per-evaluation view of the limits that
// apply to a challenge. Derived from challenge-type configuration; never
// mutated by the monitoring core.
type ChallengeRules struct {
	MaxDailyLossPct float64 // max daily loss, % of account size
	MaxTotalLossPct float64 // max total drawdown, % of account size
	Phase1TargetPct float64 // phase-1 profit target, %
	Phase2TargetPct float64 // phase-2 profit target, %
	AccountSize     float64 // initial balance
}

// Challenge represents one trading evaluation with its rules and phase.
// Corresponds to the challenges table.
type Challenge struct {
	ID        string // PRIMARY KEY
	UserID    string
	Status    ChallengeStatus
	Phase     int // 1 or 2
	Rules     ChallengeRules
	CreatedAt int64 // record creation timestamp (ms)
}
