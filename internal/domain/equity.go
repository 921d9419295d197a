package domain

// EquityPoint is one point of a challenge's equity curve, written
// alongside each snapshot into the analytical store.
type EquityPoint struct {
	ChallengeID string
	TimestampMs int64
	Balance     float64
	Equity      float64
	ProfitPct   float64
	DrawdownPct float64
}
