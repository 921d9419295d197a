package domain

// Snapshot is a point-in-time record of account financial metrics.
// Corresponds to the snapshots table. Append-only; exactly one snapshot
// per challenge holds IsLatest=true at any time.
type Snapshot struct {
	ID          string // PRIMARY KEY, uuid
	ChallengeID string
	AccountID   string

	Balance     float64
	Equity      float64
	Margin      float64
	FreeMargin  float64
	MarginLevel float64

	ProfitAbs      float64 // overall P&L, absolute
	ProfitPct      float64 // overall P&L, % of account size
	DailyProfitAbs float64 // daily P&L, absolute
	DailyProfitPct float64 // daily P&L, % of account size

	OpenPositions int
	TotalTrades   int
	DrawdownPct   float64

	IsLatest   bool
	RecordedAt int64 // Unix timestamp in milliseconds
}
