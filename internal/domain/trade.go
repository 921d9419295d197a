package domain

// TradeSide is the direction of an executed position.
type TradeSide string

const (
	TradeSideBuy  TradeSide = "buy"
	TradeSideSell TradeSide = "sell"
)

// TradeStatus is the open/closed status of a trade.
type TradeStatus string

const (
	TradeStatusOpen   TradeStatus = "open"
	TradeStatusClosed TradeStatus = "closed"
)

// Trade is an immutable record of one executed position. Corresponds to
// the trades table. The venue-assigned Ticket is unique within the
// system and acts as the dedup key: a trade is created at most once per
// ticket.
type Trade struct {
	Ticket       int64 // PRIMARY KEY, venue-assigned
	AccountID    string
	ChallengeID  string
	Symbol       string
	Side         TradeSide
	Volume       float64
	OpenPrice    float64
	CurrentPrice float64
	Profit       float64
	Status       TradeStatus
	OpenedAt     int64 // venue open timestamp (ms)
	CreatedAt    int64 // record creation timestamp (ms)
}
