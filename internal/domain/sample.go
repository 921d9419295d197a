package domain

// PlatformTrade is one executed position as reported by the trading
// platform feed for the current cycle.
type PlatformTrade struct {
	Ticket       int64
	Symbol       string
	Side         TradeSide
	Volume       float64
	OpenPrice    float64
	CurrentPrice float64
	Profit       float64
	OpenedAt     int64 // ms
}

// AccountSample is the data sample the platform feed returns for one
// account. All fields are already computed by the feed; the monitoring
// core performs no derivation from raw tick data.
type AccountSample struct {
	Balance     float64
	Equity      float64
	Margin      float64
	FreeMargin  float64
	MarginLevel float64

	OpenPositions int

	ProfitAbs      float64
	ProfitPct      float64
	DailyProfitAbs float64
	DailyProfitPct float64

	TotalTrades    int
	MaxDrawdownPct float64

	Trades []PlatformTrade

	FetchedAt int64 // ms
}
