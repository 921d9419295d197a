package domain

// AnalyticsEntry is the denormalized current-state projection of one
// challenge. Corresponds to the challenge_analytics table. One row per
// challenge, fully overwritten each cycle; most recent write wins.
type AnalyticsEntry struct {
	ChallengeID    string // PRIMARY KEY
	AccountID      string
	Balance        float64
	Equity         float64
	TotalTrades    int
	WinningTrades  int     // profit > 0
	LosingTrades   int     // profit < 0
	WinRate        float64 // winning / (winning+losing) * 100, 0 when undecided
	ViolationCount int
	Valid          bool  // false once the challenge has failed
	UpdatedAt      int64 // Unix timestamp in milliseconds
}
