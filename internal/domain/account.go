package domain

// AccountStatus is the lifecycle status of a monitored trading account.
type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "active"
	AccountStatusDisabled AccountStatus = "disabled"
)

// Account represents a tradable account under evaluation.
// Corresponds to the monitored_accounts table.
// Exactly one active account exists per challenge at a time.
type Account struct {
	ID            string        // PRIMARY KEY
	UserID        string        // owning user
	ChallengeID   string        // owning challenge
	AccountNumber string        // venue-assigned login
	Server        string        // venue/server identifier
	Balance       float64       // last known balance
	Equity        float64       // last known equity
	Status        AccountStatus // active | disabled
	CreatedAt     int64         // record creation timestamp (ms)
}
